package confusables

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTableInvariants(t *testing.T) {
	for key, val := range table {
		assert.False(t, key < utf8.RuneSelf, "key %U must not be ASCII", key)
		for _, r := range val {
			assert.False(t, IsConfusable(r), "value %q for key %U contains a rune (%U) that is itself a key", val, key, r)
		}
	}
}

func TestSkeletonReplacesConfusables(t *testing.T) {
	assert.Equal(t, "scope", Skeleton("sсope")) // с is Cyrillic U+0441
}

func TestSkeletonLeavesPlainASCIIAlone(t *testing.T) {
	assert.Equal(t, "hello world", Skeleton("hello world"))
}

func TestHasLookalikeDetectsCyrillic(t *testing.T) {
	assert.True(t, HasLookalike("sсope"))
	assert.False(t, HasLookalike("scope"))
}

func TestLookupKelvinSign(t *testing.T) {
	repl, ok := Lookup('K')
	assert.True(t, ok)
	assert.Equal(t, "K", repl)
}

func TestLigatureExpandsToTwoChars(t *testing.T) {
	repl, ok := Lookup('ﬁ')
	assert.True(t, ok)
	assert.Equal(t, "fi", repl)
}
