package compiler

import (
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		src   string
		kinds []tokenKind
	}{
		{"plain", []tokenKind{tokText}},
		{"{a}{>p}{else}", []tokenKind{tokInterp, tokPartial, tokElse}},
		{"{for x in xs}{/for}", []tokenKind{tokFor, tokEndFor}},
		{"{if not a}{/if}", []tokenKind{tokIf, tokEndIf}},
		{`<a [href]="u">`, []tokenKind{tokText, tokAttr, tokText}},
		{`<input (bind)="v">`, []tokenKind{tokText, tokBind, tokText}},
		{`\{a}`, []tokenKind{tokText}},
		{"{for  x  in  xs}", []tokenKind{tokFor}},
		{"{for x of xs}", []tokenKind{tokText}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens := lex(tt.src)
			if len(tokens) != len(tt.kinds) {
				t.Fatalf("lex(%q) produced %d tokens, want %d: %+v", tt.src, len(tokens), len(tt.kinds), tokens)
			}
			for i, tok := range tokens {
				if tok.kind != tt.kinds[i] {
					t.Errorf("token %d kind = %s, want %s", i, tok.kind, tt.kinds[i])
				}
			}
		})
	}
}

func TestLex_DirectiveFields(t *testing.T) {
	tokens := lex("{for item-1 in data.rows}{if not user.ok}")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens", len(tokens))
	}
	if tokens[0].name != "item-1" || tokens[0].key != "data.rows" {
		t.Errorf("for token = %+v", tokens[0])
	}
	if !tokens[1].not || tokens[1].key != "user.ok" {
		t.Errorf("if token = %+v", tokens[1])
	}
}

func TestParse_RoundTrip(t *testing.T) {
	sources := []string{
		"<p>{name}</p>",
		"{if a}x{else}y{/if}",
		"{if not a}x{/if}",
		"{for i in items}<li>{i.name}</li>{else}none{/for}",
		"{for r in rows}{for c in r}{c}{/for}{/for}",
		`<a [href]="url">{>footer}</a>`,
	}

	for _, src := range sources {
		res := parse(src)
		if got := res.root.String(); got != src {
			t.Errorf("parse(%q).String() = %q", src, got)
		}
		if len(res.diags) != 0 {
			t.Errorf("parse(%q) diagnostics = %v", src, res.diags)
		}
	}
}

func TestParse_Structure(t *testing.T) {
	res := parse("{if a}1{else}{for x in xs}{x}{/for}{/if}")

	if len(res.root.Nodes) != 1 {
		t.Fatalf("root has %d nodes", len(res.root.Nodes))
	}
	ifn, ok := res.root.Nodes[0].(*IfNode)
	if !ok {
		t.Fatalf("root node is %T", res.root.Nodes[0])
	}
	if ifn.Else == nil || len(ifn.Else.Nodes) != 1 {
		t.Fatalf("else branch = %v", ifn.Else)
	}
	forn, ok := ifn.Else.Nodes[0].(*ForNode)
	if !ok {
		t.Fatalf("else node is %T", ifn.Else.Nodes[0])
	}
	if forn.Var != "x" || forn.Key != "xs" || forn.Else != nil {
		t.Errorf("for node = %+v", forn)
	}
	if forn.Position() != 13 {
		t.Errorf("for node position = %d", forn.Position())
	}
}
