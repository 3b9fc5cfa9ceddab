package trojanlinter

import "github.com/encukou/trojan-linter/normalize"

// Policy says how the analyzer should treat the content of one token kind:
// which string-class profile to enforce against it.
type Policy struct {
	StringProfile normalize.Profile
	Enforce       bool // false means "don't run normalize.Enforce at all"
}

// Profile is an immutable table of per-token-kind policies, the Go
// equivalent of the teacher's per-dialect reserved-word/token tables:
// built once by a constructor, never mutated afterward.
type Profile struct {
	Name          string
	TokenPolicies map[TokenKindOf]Policy
	DefaultPolicy Policy
}

// PolicyFor returns the policy for kind, falling back to p.DefaultPolicy
// when kind has no specific entry.
func (p Profile) PolicyFor(kind TokenKindOf) Policy {
	if policy, ok := p.TokenPolicies[kind]; ok {
		return policy
	}
	return p.DefaultPolicy
}

// PythonProfile is the profile used for real Python source, binding every
// token kind to the enforcement strategy from spec.md's token-type table:
// names get UsernameCasePreserved (letters/digits/marks from any script are
// fine, control and ignorable codepoints are not, and neither is a rune whose
// NFKC form is several codepoints, such as the fi ligature; `Kelvin-sign +
// lock` passes, since the Kelvin sign folds to the single letter K); string
// and comment content is checked leniently (OpaqueString)
// since arbitrary text belongs there; operators, whitespace, numbers and
// newlines must be bit-exact ASCII (so U+2044 FRACTION SLASH never poses as
// `/`). Confusable-lookalike, NFKC and control-character checks run on
// every token kind regardless of this table — only the PRECIS-style policy
// enforcement varies.
func PythonProfile() Profile {
	return Profile{
		Name: "python",
		TokenPolicies: map[TokenKindOf]Policy{
			KindName: {
				StringProfile: normalize.UsernameCasePreserved,
				Enforce:       true,
			},
			KindString: {
				StringProfile: normalize.OpaqueString,
				Enforce:       true,
			},
			KindComment: {
				StringProfile: normalize.OpaqueString,
				Enforce:       true,
			},
			KindOp: {
				StringProfile: normalize.ASCIIOnly,
				Enforce:       true,
			},
			KindWhitespace: {
				StringProfile: normalize.ASCIIOnly,
				Enforce:       true,
			},
			KindNumber: {
				StringProfile: normalize.ASCIIOnly,
				Enforce:       true,
			},
			KindNewline: {
				StringProfile: normalize.ASCIIOnly,
				Enforce:       true,
			},
		},
		DefaultPolicy: Policy{
			StringProfile: normalize.ASCIIOnly,
			Enforce:       true,
		},
	}
}

// TestingProfile is stricter than PythonProfile: every token kind requires
// ASCIIOnly content, the way the original project's TestingProfile was
// used to pin down exact nit behavior in isolation from Python's more
// permissive identifier rules. It has no per-kind entries because
// DefaultPolicy already covers every kind uniformly.
func TestingProfile() Profile {
	return Profile{
		Name: "testing",
		DefaultPolicy: Policy{
			StringProfile: normalize.ASCIIOnly,
			Enforce:       true,
		},
	}
}
