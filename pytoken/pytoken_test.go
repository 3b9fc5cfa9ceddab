package pytoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concatText(tokens []Token) string {
	s := ""
	for _, t := range tokens {
		s += t.Text
	}
	return s
}

func TestTokenizeTilesWholeSource(t *testing.T) {
	source := "def foo(x):\n    return x + 1\n"
	tokens, err := Tokenize(source)
	require.NoError(t, err)
	assert.Equal(t, source, concatText(tokens))

	for i := 1; i < len(tokens); i++ {
		assert.Equal(t, tokens[i-1].End, tokens[i].Start, "token %d does not start where %d ended", i, i-1)
	}
}

func TestTokenizeClassifiesName(t *testing.T) {
	tokens, err := Tokenize("foo")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tokens), 1)
	assert.Equal(t, NameToken, tokens[0].Type)
	assert.Equal(t, "foo", tokens[0].Text)
}

func TestTokenizeUnicodeIdentifier(t *testing.T) {
	tokens, err := Tokenize("café = 1")
	require.NoError(t, err)
	assert.Equal(t, NameToken, tokens[0].Type)
	assert.Equal(t, "café", tokens[0].Text)
}

func TestTokenizeStringPrefixes(t *testing.T) {
	cases := map[string]string{
		`"hi"`:    "",
		`r"hi"`:   "r",
		`rb"hi"`:  "rb",
		`f"hi"`:   "f",
		`u"hi"`:   "u",
		`Rb"hi"`:  "rb",
		`FR"hi"`:  "fr",
	}
	for src, wantPrefix := range cases {
		tokens, err := Tokenize(src)
		require.NoError(t, err, src)
		require.Equal(t, StringToken, tokens[0].Type, src)
		assert.Equal(t, wantPrefix, tokens[0].StringPrefix, src)
	}
}

func TestTokenizeTripleQuotedStringSpansNewlines(t *testing.T) {
	tokens, err := Tokenize("\"\"\"a\nb\"\"\"")
	require.NoError(t, err)
	assert.Equal(t, StringToken, tokens[0].Type)
	assert.Equal(t, "\"\"\"a\nb\"\"\"", tokens[0].Text)
}

func TestTokenizeUnterminatedStringFails(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenizeUnterminatedSingleQuoteNewlineFails(t *testing.T) {
	_, err := Tokenize("\"abc\ndef\"")
	require.Error(t, err)
}

func TestTokenizeRawStringBackslashQuoteDoesNotEndString(t *testing.T) {
	tokens, err := Tokenize(`r"a\"b"`)
	require.NoError(t, err)
	assert.Equal(t, `r"a\"b"`, tokens[0].Text)
}

func TestTokenizeNumberWithUnderscoresAndExponent(t *testing.T) {
	tokens, err := Tokenize("1_000.5e-3")
	require.NoError(t, err)
	assert.Equal(t, NumberToken, tokens[0].Type)
	assert.Equal(t, "1_000.5e-3", tokens[0].Text)
}

func TestTokenizeMultiCharOperator(t *testing.T) {
	tokens, err := Tokenize("a == b")
	require.NoError(t, err)
	var ops []string
	for _, tok := range tokens {
		if tok.Type == OpToken {
			ops = append(ops, tok.Text)
		}
	}
	require.Contains(t, ops, "==")
}

func TestTokenizeCommentRunsToLineEnd(t *testing.T) {
	tokens, err := Tokenize("x = 1 # comment\n")
	require.NoError(t, err)
	var comment string
	for _, tok := range tokens {
		if tok.Type == CommentToken {
			comment = tok.Text
		}
	}
	assert.Equal(t, "# comment", comment)
}

func TestTokenizeEndsWithEOFToken(t *testing.T) {
	tokens, err := Tokenize("x")
	require.NoError(t, err)
	last := tokens[len(tokens)-1]
	assert.Equal(t, EOFToken, last.Type)
	assert.Equal(t, last.Start, last.End)
}
