package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNFKCDecomposesLigature(t *testing.T) {
	assert.Equal(t, "fi", NFKC("ﬁ"))
}

func TestIsNFKCPlainASCII(t *testing.T) {
	assert.True(t, IsNFKC("hello"))
}

func TestIsNFKCFalseForLigature(t *testing.T) {
	assert.False(t, IsNFKC("ﬁ"))
}

func TestEnforceASCIIOnlyRejectsNonASCII(t *testing.T) {
	assert.Equal(t, ReasonOtherLetterDigits, Enforce(ASCIIOnly, "café"))
}

func TestEnforceASCIIOnlyAcceptsPlainText(t *testing.T) {
	assert.Equal(t, ReasonNone, Enforce(ASCIIOnly, "cafe"))
}

func TestEnforceOpaqueStringAcceptsLetters(t *testing.T) {
	assert.Equal(t, ReasonNone, Enforce(OpaqueString, "héllo"))
}

func TestEnforceOpaqueStringRejectsControlChar(t *testing.T) {
	assert.Equal(t, ReasonControl, Enforce(OpaqueString, "a\x01b"))
}

func TestEnforceOpaqueStringRejectsLigatureViaNFKC(t *testing.T) {
	assert.Equal(t, ReasonHasCompat, Enforce(OpaqueString, "ﬁle"))
}

func TestEnforceDetectsHangulFiller(t *testing.T) {
	assert.Equal(t, ReasonPrecisIgnorableProperties, Enforce(OpaqueString, "ㅤ"))
}

func TestEnforceDetectsOldHangulJamo(t *testing.T) {
	assert.Equal(t, ReasonOldHangulJamo, Enforce(OpaqueString, "ᄀ"))
}

func TestEnforceUsernameCasePreservedToleratesPunctuation(t *testing.T) {
	assert.Equal(t, ReasonNone, Enforce(UsernameCasePreserved, "user.name-1"))
}
