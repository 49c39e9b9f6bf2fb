package compiler

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietCompiler(opts ...Option) *Compiler {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

func render(t *testing.T, c *Compiler, src string, data any) string {
	t.Helper()
	tmpl, err := c.Compile(src)
	require.NoError(t, err)
	out, err := tmpl.Render(data)
	require.NoError(t, err)
	return out
}

func TestCompile_CachesBySource(t *testing.T) {
	calls := map[bool]int{}
	c := quietCompiler(WithCompileHook(func(cached bool) { calls[cached]++ }))

	first, err := c.Compile("<p>{name}</p>")
	require.NoError(t, err)
	second, err := c.Compile("<p>{name}</p>")
	require.NoError(t, err)
	other, err := c.Compile("<p>{name} </p>")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, c.Cache().Len())
	assert.Equal(t, 2, calls[false])
	assert.Equal(t, 1, calls[true])
}

func TestCompile_DefaultCompilerIsShared(t *testing.T) {
	a, err := Compile("{shared-default}")
	require.NoError(t, err)
	b, err := Default().Compile("{shared-default}")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCompile_InvalidUTF8(t *testing.T) {
	c := quietCompiler()
	_, err := c.Compile("bad \xff byte")
	assert.True(t, errors.Is(err, ErrInvalidTemplate))
	assert.Equal(t, 0, c.Cache().Len())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		data map[string]any
		want string
	}{
		{"interpolation", "Hello {name}!", map[string]any{"name": "Al"}, "Hello Al!"},
		{"missing key renders nothing", "[{missing}]", map[string]any{}, "[]"},
		{"zero renders", "{n}", map[string]any{"n": 0}, "0"},
		{"false renders nothing", "{b}", map[string]any{"b": false}, ""},
		{"no html escaping", "{html}", map[string]any{"html": "<b>x</b>"}, "<b>x</b>"},
		{"property chain", "{user.name}", map[string]any{"user": map[string]any{"name": "Bo"}}, "Bo"},
		{"if true", "{if cond}yes{else}no{/if}", map[string]any{"cond": true}, "yes"},
		{"if false", "{if cond}yes{else}no{/if}", map[string]any{"cond": false}, "no"},
		{"if zero is false", "{if n}yes{else}no{/if}", map[string]any{"n": 0}, "no"},
		{"if not", "{if not cond}off{/if}", map[string]any{}, "off"},
		{"if empty slice", "{if xs}some{else}none{/if}", map[string]any{"xs": []int{}}, "none"},
		{"time renders", "[{when}]", map[string]any{"when": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, "[2024-01-02 00:00:00 +0000 UTC]"},
		{"if time is true", "{if when}yes{else}no{/if}", map[string]any{"when": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, "yes"},
		{"for", "{for n in nums}{n}{/for}", map[string]any{"nums": []any{1, 2, 3}}, "123"},
		{"for typed slice", "{for s in names}<li>{s}</li>{/for}", map[string]any{"names": []string{"a", "b"}}, "<li>a</li><li>b</li>"},
		{"for item fields", "{for u in users}{u.name};{/for}", map[string]any{"users": []map[string]any{{"name": "a"}, {"name": "b"}}}, "a;b;"},
		{"for else empty", "{for x in xs}{x}{else}empty{/for}", map[string]any{"xs": []any{}}, "empty"},
		{"for else missing", "{for x in xs}{x}{else}empty{/for}", map[string]any{}, "empty"},
		{"for else filled", "{for x in xs}{x}{else}empty{/for}", map[string]any{"xs": []any{"a"}}, "a"},
		{"nested loops", "{for r in rows}[{for c in r}{c}{/for}]{/for}", map[string]any{"rows": []any{[]any{1, 2}, []any{3}}}, "[12][3]"},
		{"loop over string", "{for ch in word}{ch}-{/for}", map[string]any{"word": "ab"}, "a-b-"},
		{"keyword key", "{for}", map[string]any{"for": "kw"}, "kw"},
		{"quotes and newlines kept", "it's\n\"ok\" \\ fine", map[string]any{}, "it's\n\"ok\" \\ fine"},
		{"carriage returns stripped", "a\r\nb", map[string]any{}, "a\nb"},
		{"non directive braces", "{ not a directive } {a b}", map[string]any{"a": 1}, "{ not a directive } {a b}"},
		{"attr binding set", `<a [href]="url">x</a>`, map[string]any{"url": "/home"}, `<a href="/home">x</a>`},
		{"attr binding empty", `<a [href]="url">x</a>`, map[string]any{}, `<a >x</a>`},
		{"attr binding zero", `<b [data-n]="n"></b>`, map[string]any{"n": 0}, `<b data-n="0"></b>`},
	}

	c := quietCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, c, tt.src, tt.data))
		})
	}
}

func TestRender_Escapes(t *testing.T) {
	c := quietCompiler()
	data := map[string]any{"name": "Al", "cond": true}

	assert.Equal(t, "{name}", render(t, c, `\{name}`, data))
	assert.Equal(t, `\{name}`, render(t, c, `\\{name}`, data))
	assert.Equal(t, "{if cond}x{/if}", render(t, c, `\{if cond}x\{/if}`, data))
	assert.Equal(t, `\{not directive}`, render(t, c, `\{not directive}`, data))
	assert.Equal(t, `a\b`, render(t, c, `a\b`, data))

	tmpl, err := c.Compile(`\{name}`)
	require.NoError(t, err)
	assert.Empty(t, tmpl.Dependencies())
}

func TestRender_LoopVariableIsRestored(t *testing.T) {
	c := quietCompiler()
	data := map[string]any{"x": "outer", "items": []any{1, 2}}

	out := render(t, c, "{for x in items}{x}{/for}{x}", data)

	assert.Equal(t, "12outer", out)
	assert.Equal(t, "outer", data["x"])
	_, created := data["y"]
	assert.False(t, created)

	render(t, c, "{for y in items}{y}{/for}", data)
	_, created = data["y"]
	assert.False(t, created, "loop variable must not leak into data")
}

func TestRender_BoundInputs(t *testing.T) {
	c := quietCompiler()

	tmpl, err := c.Compile(`<input (bind)="name">`)
	require.NoError(t, err)
	out, err := tmpl.Render(map[string]any{"name": "Al"})
	require.NoError(t, err)

	assert.Equal(t, `<input (bind)="name" value="Al">`, out)
	assert.Equal(t, []string{"name"}, tmpl.Dependencies())
	assert.Equal(t, []string{"name"}, tmpl.BoundDependencies())

	assert.Equal(t, `<input type="text" (bind)="q" value=""/>`,
		render(t, c, `<input type="text" (bind)="q"/>`, map[string]any{}))
	assert.Equal(t, `<textarea (bind)="body" rows="3" value="hi"></textarea>`,
		render(t, c, `<textarea (bind)="body" rows="3"></textarea>`, map[string]any{"body": "hi"}))
	assert.Equal(t, `<input (bind)="a" class="c-1" value="x">`,
		render(t, c, `<input (bind)="a" class="c-{n}">`, map[string]any{"a": "x", "n": 1}))
	assert.Equal(t, `<select (bind)="s"></select>`,
		render(t, c, `<select (bind)="s"></select>`, map[string]any{"s": "x"}))
}

func TestRender_BoundInputWithDirectiveInTag(t *testing.T) {
	partials := NewPartials()
	partials.Register("p", `class="x"`)
	c := quietCompiler(WithCache(NewCache()), WithPartials(partials))

	tmpl, err := c.Compile(`<input (bind)="a" {>p}><input (bind)="b">`)
	require.NoError(t, err)
	out, err := tmpl.Render(map[string]any{"a": "A", "b": "B"})
	require.NoError(t, err)

	assert.Equal(t, `<input (bind)="a" class="x" value="A"><input (bind)="b" value="B">`, out)
	assert.Equal(t, []string{"a", "b"}, tmpl.Dependencies())
	assert.Equal(t, []string{"a", "b"}, tmpl.BoundDependencies())
}

func TestCompile_Dependencies(t *testing.T) {
	c := quietCompiler()
	tmpl, err := c.Compile(`{title}{if user.admin}<b>{user.name}</b>{/if}{for t in tags}{t}{/for}<a [href]="link">{title}</a><input (bind)="q">`)
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "user.admin", "user.name", "tags", "t", "link", "q"}, tmpl.Dependencies())
	assert.Equal(t, []string{"q"}, tmpl.BoundDependencies())
	assert.Empty(t, tmpl.Diagnostics())
}

func TestCompile_MalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		data  map[string]any
		want  string
		diags int
	}{
		{"else without block", "a{else}b", nil, "ab", 1},
		{"second else", "{if c}1{else}2{else}3{/if}", map[string]any{"c": false}, "23", 1},
		{"closer without block", "x{/if}y{/for}", nil, "xy", 2},
		{"wrong closer", "{if c}in{/for}{/if}", map[string]any{"c": true}, "in", 1},
		{"unclosed if", "{if c}open", map[string]any{"c": true}, "open", 1},
		{"unclosed if false", "{if c}open", map[string]any{}, "", 1},
		{"unclosed nested", "{for x in xs}{if x}{x}", map[string]any{"xs": []any{1, 0, 2}}, "12", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := quietCompiler()
			tmpl, err := c.Compile(tt.src)
			require.NoError(t, err)
			out, err := tmpl.Render(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Len(t, tmpl.Diagnostics(), tt.diags)
		})
	}
}

func TestCompile_DiagnosticsAreLogged(t *testing.T) {
	var buf strings.Builder
	c := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	tmpl, err := c.Compile("line one\n{/for}")
	require.NoError(t, err)

	require.Len(t, tmpl.Diagnostics(), 1)
	d := tmpl.Diagnostics()[0]
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, "extra {/for} ignored", d.Msg)
	assert.Contains(t, buf.String(), "extra {/for} ignored")
}

func TestRender_Partials(t *testing.T) {
	partials := NewPartials()
	partials.Register("item", "<li>{x.label}</li>")
	c := quietCompiler(WithPartials(partials))

	tmpl, err := c.Compile("<ul>{for x in items}{>item}{/for}</ul>{>missing}")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Dependencies(), "x.label")

	out, err := tmpl.Render(map[string]any{"items": []any{
		map[string]any{"label": "one"},
		map[string]any{"label": "two"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", out)
}

func TestRender_RecursivePartial(t *testing.T) {
	partials := NewPartials()
	partials.Register("self", "x{>self}")
	c := quietCompiler(WithPartials(partials))

	tmpl, err := c.Compile("{>self}")
	require.NoError(t, err)

	_, err = tmpl.Render(nil)
	assert.True(t, errors.Is(err, ErrPartialDepth))
}

func TestExecute(t *testing.T) {
	c := quietCompiler()
	tmpl, err := c.Compile("<p>{n}</p>")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, tmpl.Execute(&sb, map[string]any{"n": 7}))
	assert.Equal(t, "<p>7</p>", sb.String())
}

type article struct {
	Title  string
	Author struct{ Name string }
}

func TestRender_StructData(t *testing.T) {
	c := quietCompiler()
	a := article{Title: "Go"}
	a.Author.Name = "Rob"

	assert.Equal(t, "Go by Rob", render(t, c, "{Title} by {Author.Name}", &a))
}
