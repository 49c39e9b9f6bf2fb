package compiler

import (
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokInterp
	tokPartial
	tokFor
	tokIf
	tokElse
	tokEndFor
	tokEndIf
	tokAttr
	tokBind
)

var tokenNames = map[tokenKind]string{
	tokText:    "text",
	tokInterp:  "interp",
	tokPartial: "partial",
	tokFor:     "for",
	tokIf:      "if",
	tokElse:    "else",
	tokEndFor:  "/for",
	tokEndIf:   "/if",
	tokAttr:    "attr",
	tokBind:    "bind",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// token is one lexical unit of a template.
type token struct {
	kind tokenKind
	pos  int
	text string // literal text, or the raw directive
	key  string // data key, or partial name
	name string // loop variable or attribute name
	not  bool
}

var (
	// Every brace directive is matched atomically. Alternation order matters:
	// a bare key wins over the keyword forms, so {for} and {else} are keys.
	directivePattern = regexp.MustCompile(
		`^\{(?:([\w.\-@:]+)|>([\w.\-@:]+)|for +([\w\-@:]+) +in +([\w.\-@:]+)|if +(not +)?([\w.\-@:]+)|/(for|if))\}`)

	attrBindPattern = regexp.MustCompile(`^\[([^\]]+)\]="([^"{}>]+)"`)

	bindAttrPattern = regexp.MustCompile(`\(bind\)="([^"]+)"`)
)

type lexer struct {
	src     string
	pos     int
	tokens  []token
	text    strings.Builder
	textPos int

	// Offset where a pending bound-value attribute is injected, or -1.
	bindAt  int
	bindKey string
}

// lex splits a template into tokens. Carriage returns are dropped first.
func lex(src string) []token {
	l := &lexer{src: strings.ReplaceAll(src, "\r", ""), bindAt: -1}
	l.run()
	return l.tokens
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		if l.bindAt >= 0 && l.pos >= l.bindAt {
			l.flush()
			l.emit(token{kind: tokBind, pos: l.pos, key: l.bindKey})
			l.bindAt = -1
		}

		switch l.src[l.pos] {
		case '\\':
			if l.lexEscape() {
				continue
			}
		case '{':
			if l.lexDirective() {
				continue
			}
		case '[':
			if l.lexAttrBind() {
				continue
			}
		case '<':
			l.scanInputBind()
		}

		l.appendText(l.src[l.pos : l.pos+1])
		l.pos++
	}
	l.flush()
}

func (l *lexer) appendText(s string) {
	if l.text.Len() == 0 {
		l.textPos = l.pos
	}
	l.text.WriteString(s)
}

func (l *lexer) flush() {
	if l.text.Len() == 0 {
		return
	}
	l.tokens = append(l.tokens, token{kind: tokText, pos: l.textPos, text: l.text.String()})
	l.text.Reset()
}

func (l *lexer) emit(t token) {
	l.tokens = append(l.tokens, t)
}

// lexEscape handles a run of backslashes. When the run precedes a directive,
// one backslash is consumed and the directive is kept as literal text.
func (l *lexer) lexEscape() bool {
	end := l.pos
	for end < len(l.src) && l.src[end] == '\\' {
		end++
	}
	m := directivePattern.FindString(l.src[end:])
	if m == "" {
		l.appendText(l.src[l.pos:end])
		l.pos = end
		return true
	}
	l.appendText(l.src[l.pos:end-1] + m)
	l.pos = end + len(m)
	return true
}

func (l *lexer) lexDirective() bool {
	m := directivePattern.FindStringSubmatch(l.src[l.pos:])
	if m == nil {
		return false
	}
	t := token{pos: l.pos, text: m[0]}
	switch {
	case m[1] == "else":
		t.kind = tokElse
	case m[1] != "":
		t.kind, t.key = tokInterp, m[1]
	case m[2] != "":
		t.kind, t.key = tokPartial, m[2]
	case m[4] != "":
		t.kind, t.name, t.key = tokFor, m[3], m[4]
	case m[6] != "":
		t.kind, t.key, t.not = tokIf, m[6], m[5] != ""
	case m[7] == "for":
		t.kind = tokEndFor
	default:
		t.kind = tokEndIf
	}
	l.flush()
	l.emit(t)
	l.pos += len(m[0])
	return true
}

func (l *lexer) lexAttrBind() bool {
	m := attrBindPattern.FindStringSubmatch(l.src[l.pos:])
	if m == nil {
		return false
	}
	l.flush()
	l.emit(token{kind: tokAttr, pos: l.pos, text: m[0], name: m[1], key: m[2]})
	l.pos += len(m[0])
	return true
}

// scanInputBind looks ahead over an input or textarea start tag and, when it
// carries a (bind) attribute, schedules a value attribute before the tag closes.
// Directives inside the tag are skipped, so a '>' they contain never closes it.
func (l *lexer) scanInputBind() {
	if l.bindAt >= 0 {
		return
	}
	rest := l.src[l.pos:]
	if !strings.HasPrefix(rest, "<input ") && !strings.HasPrefix(rest, "<textarea ") {
		return
	}

	end := -1
	for i := 1; i < len(rest) && end < 0; i++ {
		switch rest[i] {
		case '{':
			if m := directivePattern.FindString(rest[i:]); m != "" {
				i += len(m) - 1
			}
		case '>':
			end = i
		}
	}
	if end < 0 {
		return
	}

	m := bindAttrPattern.FindStringSubmatch(rest[:end])
	if m == nil {
		return
	}
	at := l.pos + end
	if rest[end-1] == '/' {
		at--
	}
	l.bindAt = at
	l.bindKey = m[1]
}
