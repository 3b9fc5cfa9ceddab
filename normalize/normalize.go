// Package normalize wraps golang.org/x/text/unicode/norm for NFD/NFKC
// normalization and implements a small RFC 8264 (PRECIS) flavored string
// classifier: enough of OpaqueString/UsernameCasePreserved/ASCIIOnly to
// produce the reason codes the analyzer attaches to a PolicyFail finding.
// It is a hand-written classifier rather than a full PRECIS/IDNA data-table
// port (no grounded Go usage of golang.org/x/text/secure/precis exists to
// build against), using stdlib unicode category tables plus a handful of
// hardcoded Unicode ranges for the two properties that table doesn't
// expose directly: Default_Ignorable_Code_Point and the old Hangul Jamo
// conjoining blocks.
package normalize

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Reason names a single PRECIS-style rejection, matching the vocabulary the
// analyzer's PolicyFail finding reports.
type Reason string

const (
	ReasonNone                      Reason = ""
	ReasonHasCompat                 Reason = "has_compat"
	ReasonPrecisIgnorableProperties Reason = "precis_ignorable_properties"
	ReasonUnassigned                Reason = "unassigned"
	ReasonControl                   Reason = "control"
	ReasonOtherLetterDigits         Reason = "other_letter_digits"
	ReasonOldHangulJamo             Reason = "old_hangul_jamo"
)

// Profile names one of the three string-class profiles the linter enforces
// against token content, mirroring the three profiles spec.md names.
type Profile int

const (
	OpaqueString Profile = iota
	UsernameCasePreserved
	ASCIIOnly
)

// NFD returns the canonical decomposition of s.
func NFD(s string) string { return norm.NFD.String(s) }

// NFKC returns the compatibility-composed form of s.
func NFKC(s string) string { return norm.NFKC.String(s) }

// IsNFKC reports whether s is already in NFKC form.
func IsNFKC(s string) bool { return norm.NFKC.IsNormalString(s) }

// Enforce checks s against profile and returns the first violated reason,
// or ReasonNone if s is acceptable. OpaqueString and UsernameCasePreserved
// differ only in which non-letter/digit categories they tolerate;
// ASCIIOnly rejects any non-ASCII rune outright and applies none of the
// other checks, so an ASCII control character passes it.
func Enforce(profile Profile, s string) Reason {
	if profile == ASCIIOnly {
		for _, r := range s {
			if r > unicode.MaxASCII {
				return ReasonOtherLetterDigits
			}
		}
		return ReasonNone
	}

	for _, r := range s {
		if reason := classifyRune(profile, r); reason != ReasonNone {
			return reason
		}
	}
	return ReasonNone
}

// classifyRune reports, per rune, the reason it fails profile. has_compat
// is raised only when a rune's NFKC compatibility decomposition expands it
// into more than one codepoint (a ligature, a fraction, a superscript digit
// sequence) — a rune whose NFKC mapping is a single replacement codepoint
// (the Kelvin sign folding to 'K', for instance) is a simple case-fold, not
// the kind of hazard has_compat is meant to flag.
func classifyRune(profile Profile, r rune) Reason {
	switch {
	case unicode.Is(unicode.Cc, r):
		return ReasonControl
	case isDefaultIgnorable(r):
		return ReasonPrecisIgnorableProperties
	case isOldHangulJamo(r):
		return ReasonOldHangulJamo
	case !unicode.IsGraphic(r) && !unicode.IsSpace(r):
		return ReasonUnassigned
	case hasMultiRuneCompatDecomposition(r):
		return ReasonHasCompat
	}

	if profile == UsernameCasePreserved {
		return ReasonNone
	}

	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r),
		unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
		return ReasonNone
	default:
		return ReasonOtherLetterDigits
	}
}

// hasMultiRuneCompatDecomposition reports whether r's NFKC compatibility
// mapping expands it into more than one codepoint.
func hasMultiRuneCompatDecomposition(r rune) bool {
	expanded := norm.NFKC.String(string(r))
	count := 0
	for range expanded {
		count++
		if count > 1 {
			return true
		}
	}
	return false
}

// isDefaultIgnorable approximates Unicode's Default_Ignorable_Code_Point
// property with its most common ranges: variation selectors, the Hangul
// fillers, zero-width characters, and the bidi embedding/override, isolate
// and deprecated shaping formatting controls. The bidi controls are
// therefore reported here as well as by the analyzer's control-character
// check.
func isDefaultIgnorable(r rune) bool {
	switch {
	case r == 0x00AD: // SOFT HYPHEN
		return true
	case r >= 0x034F && r <= 0x034F: // COMBINING GRAPHEME JOINER
		return true
	case r >= 0x115F && r <= 0x1160: // HANGUL CHOSEONG/JUNGSEONG FILLER
		return true
	case r >= 0x17B4 && r <= 0x17B5: // KHMER VOWEL INHERENT AQ/AA
		return true
	case r >= 0x180B && r <= 0x180F: // MONGOLIAN FREE VARIATION SELECTORS
		return true
	case r >= 0x200B && r <= 0x200F: // ZERO WIDTH SPACE/JOINER/MARKS
		return true
	case r >= 0x202A && r <= 0x202E: // bidi embedding/override controls
		return true
	case r >= 0x2060 && r <= 0x206F: // WORD JOINER and deprecated controls
		return true
	case r == 0x3164: // HANGUL FILLER
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // VARIATION SELECTOR-1..16
		return true
	case r == 0xFEFF: // ZERO WIDTH NO-BREAK SPACE / BOM
		return true
	case r == 0xFFA0: // HALFWIDTH HANGUL FILLER
		return true
	case r >= 0x1D173 && r <= 0x1D17A: // musical notation formatting controls
		return true
	case r >= 0xE0000 && r <= 0xE0FFF: // tag characters and variation selectors supplement
		return true
	}
	return false
}

// isOldHangulJamo covers the conjoining Jamo blocks PRECIS's
// OldHangulJamo exception excludes from identifiers.
func isOldHangulJamo(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x11FF: // Hangul Jamo
		return true
	case r >= 0xA960 && r <= 0xA97F: // Hangul Jamo Extended-A
		return true
	case r >= 0xD7B0 && r <= 0xD7FF: // Hangul Jamo Extended-B
		return true
	}
	return false
}
