// Package pytoken tokenizes Python-like source text into a flat, gapless
// sequence of tokens, the way the teacher's sqlparser/scanner.go tokenizes
// T-SQL: a rune-by-rune scanner dispatching on the current character,
// tracking codepoint offsets rather than byte offsets so positions line up
// directly with a linemap.LineMap. Unlike the SQL scanner this package
// returns the whole token slice at once (no pull-based NextToken loop).
//
// Every codepoint of the input belongs to exactly one token: runs of
// whitespace between meaningful tokens are themselves emitted as
// WhitespaceToken, so callers never need to special-case gaps.
package pytoken

import (
	"fmt"

	"github.com/smasher164/xid"
)

// TokenType classifies a token the way Python's tokenize module does,
// collapsed to the categories trojan-source analysis actually needs to
// distinguish: a string's content is where confusables and reordering
// matter most, so StringToken is split from NameToken and OpToken even
// though Python's own tokenizer doesn't make that particular split.
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1
	NewlineToken
	NameToken
	NumberToken
	StringToken
	OpToken
	CommentToken
	EOFToken
)

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

func init() {
	for tt := TokenType(1); tt <= EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("pytoken: tokenToDescription missing an entry")
		}
	}
}

var tokenToDescription = map[TokenType]string{
	WhitespaceToken: "WhitespaceToken",
	NewlineToken:    "NewlineToken",
	NameToken:       "NameToken",
	NumberToken:     "NumberToken",
	StringToken:     "StringToken",
	OpToken:         "OpToken",
	CommentToken:    "CommentToken",
	EOFToken:        "EOFToken",
}

// Token is one lexical unit. Start/End are codepoint (rune) indices into
// the source, half-open ([Start, End)), matching linemap.LineMap's index
// space.
type Token struct {
	Type TokenType
	// Start and End are codepoint offsets into the source, [Start, End).
	Start, End int
	// Text is the exact source text of the token, runes included.
	Text string
	// StringPrefix holds the lowercased prefix letters (e.g. "rb", "f") for
	// a StringToken; empty for every other token type and for a string with
	// no prefix.
	StringPrefix string
}

// LexError reports a lexical failure: an unterminated string literal, one
// that runs off the end of the source or, if single-quoted, reaches a line
// break.
type LexError struct {
	Pos     int // codepoint index where the failing construct started
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("pytoken: %s at codepoint %d", e.Message, e.Pos)
}

var operatorRunes = map[rune]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true, '@': true,
	'<': true, '>': true, '=': true, '!': true, '&': true, '|': true,
	'^': true, '~': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, ',': true, ':': true, '.': true, ';': true,
}

var stringPrefixLetters = map[rune]bool{
	'r': true, 'R': true, 'b': true, 'B': true,
	'u': true, 'U': true, 'f': true, 'F': true,
}

// Tokenize lexes source into a contiguous token slice. Only LF, CR and
// CRLF produce a NewlineToken; VT and FF are whitespace, and NEL, LS and PS
// become one-rune OpTokens, although linemap.New treats all of these as
// ending a line. pytoken has no dependency on linemap.
func Tokenize(source string) ([]Token, error) {
	runes := []rune(source)
	n := len(runes)
	var tokens []Token
	i := 0

	for i < n {
		start := i
		r := runes[i]

		switch {
		case r == '\n' || r == '\r':
			if r == '\r' && i+1 < n && runes[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			tokens = append(tokens, Token{Type: NewlineToken, Start: start, End: i, Text: string(runes[start:i])})

		case isPySpace(r):
			for i < n && isPySpace(runes[i]) {
				i++
			}
			tokens = append(tokens, Token{Type: WhitespaceToken, Start: start, End: i, Text: string(runes[start:i])})

		case r == '#':
			for i < n && runes[i] != '\n' && runes[i] != '\r' {
				i++
			}
			tokens = append(tokens, Token{Type: CommentToken, Start: start, End: i, Text: string(runes[start:i])})

		case isStringStart(runes, i):
			tok, next, err := scanString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next

		case xid.Start(r) || r == '_':
			for i < n && (xid.Continue(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, Token{Type: NameToken, Start: start, End: i, Text: string(runes[start:i])})

		case isDigit(r):
			i = scanNumber(runes, i)
			tokens = append(tokens, Token{Type: NumberToken, Start: start, End: i, Text: string(runes[start:i])})

		case operatorRunes[r]:
			i++
			// Greedily fold a handful of common multi-rune operators so the
			// analyzer never has to treat "==" as two adjacent OpTokens.
			for i < n && isOpContinuation(runes[start:i], runes[i]) {
				i++
			}
			tokens = append(tokens, Token{Type: OpToken, Start: start, End: i, Text: string(runes[start:i])})

		default:
			// Any other rune, printable or not (including identifier-hostile
			// Unicode the analyzer specifically wants to see) still has to
			// land in exactly one token: treat it as a one-rune operator so
			// the tiling invariant never breaks.
			i++
			tokens = append(tokens, Token{Type: OpToken, Start: start, End: i, Text: string(runes[start:i])})
		}
	}

	tokens = append(tokens, Token{Type: EOFToken, Start: n, End: n, Text: ""})
	return tokens, nil
}

func isPySpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func scanNumber(runes []rune, i int) int {
	n := len(runes)
	for i < n && (isDigit(runes[i]) || runes[i] == '_') {
		i++
	}
	if i < n && runes[i] == '.' {
		i++
		for i < n && (isDigit(runes[i]) || runes[i] == '_') {
			i++
		}
	}
	if i < n && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < n && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < n && isDigit(runes[j]) {
			i = j
			for i < n && isDigit(runes[i]) {
				i++
			}
		}
	}
	if i < n && (runes[i] == 'j' || runes[i] == 'J') {
		i++
	}
	return i
}

func isOpContinuation(soFar []rune, next rune) bool {
	candidate := string(soFar) + string(next)
	switch candidate {
	case "**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->", ":=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=":
		return true
	case "***", "//=", "**=", "<<=", ">>=":
		return true
	}
	return false
}

// isStringStart reports whether source[i] begins a string literal, either
// directly with a quote or via a prefix of one or two r/b/u/f letters in
// either case and any combination. Combinations Python rejects, such as
// "ub" or "rr", are accepted too.
func isStringStart(runes []rune, i int) bool {
	r := runes[i]
	if r == '\'' || r == '"' {
		return true
	}
	if !stringPrefixLetters[r] {
		return false
	}
	j := i
	for j < len(runes) && stringPrefixLetters[runes[j]] && j-i < 2 {
		j++
	}
	return j < len(runes) && (runes[j] == '\'' || runes[j] == '"')
}

func scanString(runes []rune, start int) (Token, int, error) {
	n := len(runes)
	i := start
	var prefix []rune
	for i < n && stringPrefixLetters[runes[i]] && len(prefix) < 2 {
		prefix = append(prefix, runes[i])
		i++
	}
	quote := runes[i]
	triple := i+2 < n && runes[i+1] == quote && runes[i+2] == quote
	delimLen := 1
	if triple {
		delimLen = 3
	}
	i += delimLen

	for {
		if i >= n {
			return Token{}, 0, &LexError{Pos: start, Message: "unterminated string literal"}
		}
		r := runes[i]
		// A backslash keeps the next rune from ending the literal, in raw
		// strings too: r"a\"b" is a single string.
		if r == '\\' && i+1 < n {
			i += 2
			continue
		}
		if r == quote {
			if !triple {
				i++
				break
			}
			if i+2 < n && runes[i+1] == quote && runes[i+2] == quote {
				i += 3
				break
			}
			if i+2 == n && runes[i+1] == quote {
				// two closing quotes right at EOF without a third: treat as
				// unterminated rather than silently accepting a short close.
				return Token{}, 0, &LexError{Pos: start, Message: "unterminated triple-quoted string literal"}
			}
			i++
			continue
		}
		if (r == '\n' || r == '\r') && !triple {
			return Token{}, 0, &LexError{Pos: start, Message: "unterminated string literal (newline in single-quoted string)"}
		}
		i++
	}

	lowerPrefix := make([]rune, len(prefix))
	for idx, p := range prefix {
		if p >= 'A' && p <= 'Z' {
			p += 'a' - 'A'
		}
		lowerPrefix[idx] = p
	}

	return Token{
		Type:         StringToken,
		Start:        start,
		End:          i,
		Text:         string(runes[start:i]),
		StringPrefix: string(lowerPrefix),
	}, i, nil
}
