package trojanlinter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allFindings(file *File) []Finding {
	var out []Finding
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			out = append(out, tok.Findings()...)
		}
		out = append(out, line.Findings()...)
	}
	return out
}

func TestLintCleanASCIISourceHasNoFindings(t *testing.T) {
	file, err := Lint("clean.py", "def foo(x):\n    return x + 1\n", PythonProfile())
	require.NoError(t, err)
	assert.Empty(t, allFindings(file))
}

func TestLintCyrillicLookalikeInIdentifier(t *testing.T) {
	// "scope" with a Cyrillic с (U+0441) instead of Latin c.
	source := "sсope = 1\n"
	file, err := Lint("lookalike.py", source, PythonProfile())
	require.NoError(t, err)

	findings := allFindings(file)
	require.NotEmpty(t, findings)

	var sawLookalike bool
	for _, f := range findings {
		if al, ok := f.(ASCIILookalike); ok {
			assert.Equal(t, 'с', al.Char)
			assert.Equal(t, "c", al.Replacement)
			sawLookalike = true
		}
	}
	assert.True(t, sawLookalike, "expected an ASCIILookalike finding for the Cyrillic с")
}

func TestLintBengaliDigitsLookLikeASCII(t *testing.T) {
	source := "x = \"৪৯\"\n" // Bengali "89"-lookalike digits in a string literal
	file, err := Lint("digits.py", source, PythonProfile())
	require.NoError(t, err)

	var lookalikes []ASCIILookalike
	for _, f := range allFindings(file) {
		if al, ok := f.(ASCIILookalike); ok {
			lookalikes = append(lookalikes, al)
		}
	}
	require.Len(t, lookalikes, 2)
	assert.Equal(t, "8", lookalikes[0].Replacement)
}

func TestLintHebrewPairReordersWithinToken(t *testing.T) {
	// alef (א) then gimel (ג) stored in that order inside a string displays
	// reversed under the bidi algorithm.
	source := "x = \"אג\"\n"
	file, err := Lint("hebrew.py", source, PythonProfile())
	require.NoError(t, err)

	var reorderedToken bool
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			for _, f := range tok.Findings() {
				if _, ok := f.(ReorderedToken); ok {
					reorderedToken = true
				}
			}
		}
	}
	assert.True(t, reorderedToken, "expected the Hebrew string token to carry a ReorderedToken finding")
}

func TestLintRLOOverrideProducesReorderedLine(t *testing.T) {
	const RLO = "‮"
	const PDF = "‬"
	source := "x = 1 " + RLO + "tnemmoc/* " + PDF + "// comment\n"
	file, err := Lint("rlo.py", source, PythonProfile())
	require.NoError(t, err)

	var sawLineFinding, sawControlChar bool
	for _, line := range file.Lines {
		for _, f := range line.Findings() {
			if _, ok := f.(ReorderedLine); ok {
				sawLineFinding = true
			}
		}
		for _, tok := range line.Tokens {
			for _, f := range tok.Findings() {
				if _, ok := f.(ControlCharacter); ok {
					sawControlChar = true
				}
			}
		}
	}
	assert.True(t, sawLineFinding, "expected a ReorderedLine finding")
	assert.True(t, sawControlChar, "expected the RLO/PDF controls to be flagged as control characters")
}

func TestLintKelvinSignDoesNotTriggerPolicyFail(t *testing.T) {
	source := "x = \"5K\"\n" // 5 followed by the KELVIN SIGN
	file, err := Lint("kelvin.py", source, PythonProfile())
	require.NoError(t, err)

	for _, f := range allFindings(file) {
		_, isPolicyFail := f.(PolicyFail)
		assert.False(t, isPolicyFail, "Kelvin sign's single-codepoint NFKC fold should not fail policy")
	}
}

func TestLintFiLigatureFailsPolicyViaHasCompat(t *testing.T) {
	source := "x = \"ﬁle\"\n" // the "fi" ligature followed by "le"
	file, err := Lint("ligature.py", source, PythonProfile())
	require.NoError(t, err)

	var sawNonNFKC, sawHasCompat bool
	for _, f := range allFindings(file) {
		if _, ok := f.(NonNFKC); ok {
			sawNonNFKC = true
		}
		if pf, ok := f.(PolicyFail); ok && pf.Reason == "has_compat" {
			sawHasCompat = true
		}
	}
	assert.True(t, sawNonNFKC, "expected the fi-ligature to be flagged as non-NFKC")
	assert.True(t, sawHasCompat, "expected the fi-ligature's multi-rune NFKC expansion to fail policy with has_compat")
}

func TestLintCleanASCIIWithSyntaxErrorStillHasNoFindings(t *testing.T) {
	// Pure ASCII with only the allowed newline control takes the fast path
	// and never reaches the tokenizer, so an unterminated string literal —
	// a host-language syntax error, not a Unicode hazard — must not
	// surface at all.
	file, err := Lint("bad.py", "x = \"unterminated\n", PythonProfile())
	require.NoError(t, err)
	assert.Empty(t, allFindings(file))
}

func TestLintPureASCIIIllegalControlCharIsFlaggedWithoutTokenizing(t *testing.T) {
	source := "x = 1\x01y = 2\n" // SOH, not one of the allowed whitespace controls
	file, err := Lint("control.py", source, PythonProfile())
	require.NoError(t, err)

	findings := allFindings(file)
	require.Len(t, findings, 1)
	cc, ok := findings[0].(ControlCharacter)
	require.True(t, ok, "expected a ControlCharacter finding")
	assert.Equal(t, rune(0x01), cc.Char)
}

func TestLintUnterminatedStringIsSyntaxError(t *testing.T) {
	// ü forces the full path (the source isn't pure ASCII), so the
	// tokenizer actually runs and surfaces the unterminated string.
	_, err := Lint("bad.py", "x = \"ü unterminated\n", PythonProfile())
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestLintShadowedIdentifierAcrossTokens(t *testing.T) {
	const kelvin = "K" // KELVIN SIGN
	source := kelvin + "lock = 1\nKlock = 2\n"
	file, err := Lint("shadow.py", source, PythonProfile())
	require.NoError(t, err)

	var names []*Token
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			if tok.Type == KindName {
				names = append(names, tok)
			}
		}
	}
	require.Len(t, names, 2)

	assert.Empty(t, FindingsByKind[HasLookalike](names[0]), "the first Klock has nothing to shadow yet")
	shadows := FindingsByKind[HasLookalike](names[1])
	require.Len(t, shadows, 1, "the plain-ASCII Klock should shadow the Kelvin-sign one")
	assert.Same(t, names[0], shadows[0].Other)
}

func TestLintInvalidUTF8IsInvalidSourceError(t *testing.T) {
	_, err := Lint("bad.py", "x = \"\xff\xfe\"\n", PythonProfile())
	require.Error(t, err)
	var invalidErr *InvalidSourceError
	require.ErrorAs(t, err, &invalidErr)
}

func TestLintStreamStopsEarly(t *testing.T) {
	source := "sсope = 1\nplain = 2\n" // Cyrillic с again
	var seen int
	err := LintStream("stream.py", source, PythonProfile(), func(cp CodePart) bool {
		seen++
		return len(cp.Findings()) == 0 // stop at the first part carrying a finding
	})
	require.NoError(t, err)
	assert.Greater(t, seen, 0)
}

func TestFindingsByKindFiltersByType(t *testing.T) {
	source := "sсope = 1\n"
	file, err := Lint("filter.py", source, PythonProfile())
	require.NoError(t, err)

	var lookalikes []ASCIILookalike
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			lookalikes = append(lookalikes, FindingsByKind[ASCIILookalike](tok)...)
		}
	}
	assert.NotEmpty(t, lookalikes)
}
