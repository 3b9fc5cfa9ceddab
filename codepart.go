package trojanlinter

import (
	"fmt"

	"github.com/encukou/trojan-linter/linemap"
)

// CodePart is the closed set of things a Finding can be attached to: a
// single token, a whole line, or the whole file. It plays the role the
// teacher's sqlparser types play when attaching a *sqlparser.Error to a
// Pos — here the position info is richer (every CodePart carries its own
// findings), so the interface carries behavior instead of just a location.
type CodePart interface {
	// Findings returns every finding attached to this part, in the fixed
	// order the analyzer discovered them.
	Findings() []Finding
	// Start and End are codepoint (rune) offsets into the source file.
	Start() int
	End() int
	// Row and Col are the 1-based/0-based position of Start, from a
	// linemap.LineMap.
	Row() int
	Col() int
	// StringSafe is an escaped, always-printable rendering of this part's
	// source text, suitable for putting in a terminal or log line.
	StringSafe() string

	isCodePart()
}

type base struct {
	lm       *linemap.LineMap
	findings []Finding
	start    int
	end      int
	text     string
}

func (b *base) Findings() []Finding { return b.findings }
func (b *base) Start() int          { return b.start }
func (b *base) End() int            { return b.end }

func (b *base) Row() int {
	row, _ := b.lm.IndexToRowCol(b.start)
	return row
}

func (b *base) Col() int {
	_, col := b.lm.IndexToRowCol(b.start)
	return col
}

func (b *base) StringSafe() string {
	return SafeCharReprs(b.text)
}

func (b *base) addFinding(f Finding) {
	b.findings = append(b.findings, f)
}

// Token is a CodePart wrapping a single pytoken.Token.
type Token struct {
	base
	Type         TokenKindOf
	StringPrefix string
}

func (*Token) isCodePart() {}

// Line is a CodePart covering one full source line, including its
// terminator if any. Its findings are the line-scoped ones (ReorderedLine)
// rather than anything that belongs to an individual token.
type Line struct {
	base
	Tokens []*Token
}

func (*Line) isCodePart() {}

// File is the top-level CodePart covering the whole source text.
type File struct {
	base
	Name  string
	Lines []*Line
}

func (*File) isCodePart() {}

// FindingsByKind returns every finding of type T attached to cp, the Go
// generics replacement for walking cp.Findings() and type-switching by
// hand every time a caller wants just the ReorderedToken findings, say.
func FindingsByKind[T Finding](cp CodePart) []T {
	var out []T
	for _, f := range cp.Findings() {
		if t, ok := f.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// TokenKindOf mirrors pytoken.TokenType so callers of this package never
// need to import pytoken just to compare a Token's kind.
type TokenKindOf int

const (
	KindWhitespace TokenKindOf = iota + 1
	KindNewline
	KindName
	KindNumber
	KindString
	KindOp
	KindComment
	KindEOF
)

func (k TokenKindOf) String() string {
	switch k {
	case KindWhitespace:
		return "whitespace"
	case KindNewline:
		return "newline"
	case KindName:
		return "name"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOp:
		return "op"
	case KindComment:
		return "comment"
	case KindEOF:
		return "eof"
	default:
		return fmt.Sprintf("TokenKindOf(%d)", int(k))
	}
}
