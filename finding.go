package trojanlinter

import "fmt"

// Finding is the closed set of hazards the analyzer can attach to a
// CodePart. Rather than the original project's runtime nits_by_name
// (matching on a class's __name__), each variant is its own struct tagged
// by an unexported marker method, so FindingsByKind can filter by Go type
// instead of by string.
type Finding interface {
	// Message is a one-line, human-readable description of the hazard,
	// suitable for the CLI's path:row:col: WARNING: message output.
	Message() string

	isFinding()
}

// ControlCharacter flags a single control or formatting character — most
// often a bidi override, a zero-width joiner, or an unassigned codepoint —
// found inside a token or comment.
type ControlCharacter struct {
	Char rune
	Name string // always the placeholder "unnamed/unassigned"; no name table is available
}

func (ControlCharacter) isFinding() {}
func (c ControlCharacter) Message() string {
	return fmt.Sprintf("contains a control character %s (%s)", SafeCharRepr(c.Char), c.Name)
}

// NonASCII flags a non-ASCII rune in a token of any kind, regardless of
// whether that rune also happens to be a confusable.
type NonASCII struct {
	Char rune
}

func (NonASCII) isFinding() {}
func (n NonASCII) Message() string {
	return fmt.Sprintf("contains a non-ASCII character %s", SafeCharRepr(n.Char))
}

// ASCIILookalike flags a specific confusable rune together with the ASCII
// string it reads as, inside a token of any kind; it does not depend on the
// token's profile.
type ASCIILookalike struct {
	Char        rune
	Replacement string
}

func (ASCIILookalike) isFinding() {}
func (a ASCIILookalike) Message() string {
	return fmt.Sprintf("contains %s, which looks like ASCII %q", SafeCharRepr(a.Char), a.Replacement)
}

// HasLookalike flags a token whose normalized form collides with an
// earlier token of the same kind that was spelled differently on the wire
// — the classic homoglyph identifier shadow (one `Klock` spelled with the
// Kelvin sign, a later `Klock` spelled in plain ASCII). Other points back
// at the first token recorded with that normalized form.
type HasLookalike struct {
	Other *Token
}

func (HasLookalike) isFinding() {}
func (h HasLookalike) Message() string {
	return fmt.Sprintf("normalizes the same as %s at line %d, column %d — a likely homoglyph shadow",
		SafeCharReprs(h.Other.text), h.Other.Row(), h.Other.Col())
}

// NonNFKC flags a token whose content is not already in NFKC form: it
// would read differently after normalization than before.
type NonNFKC struct {
	Original   string
	Normalized string
}

func (NonNFKC) isFinding() {}
func (nf NonNFKC) Message() string {
	return fmt.Sprintf("is not in NFKC normal form (normalizes to %s)", SafeCharReprs(nf.Normalized))
}

// PolicyFail flags a token whose content was rejected outright by its
// profile's string-class enforcement (normalize.Enforce), carrying the
// specific reason code.
type PolicyFail struct {
	Reason string
	Char   rune
}

func (PolicyFail) isFinding() {}
func (p PolicyFail) Message() string {
	return fmt.Sprintf("fails policy check (%s) at %s", p.Reason, SafeCharRepr(p.Char))
}

// ReorderedToken flags a token whose visual (displayed) character order
// differs from its logical (stored) order — the token-scoped half of the
// trojan-source hazard.
type ReorderedToken struct {
	ReorderedText string // the token's content as it would actually be displayed
}

func (ReorderedToken) isFinding() {}
func (r ReorderedToken) Message() string {
	return fmt.Sprintf("reorders under the bidirectional algorithm; displays as %s", SafeCharReprs(r.ReorderedText))
}

// ReorderedLine flags a whole source line on which at least one rune's
// visual position differs from its logical position. It is raised both
// when a single token's own text reorders (alongside that token's
// ReorderedToken) and when content moves across a token boundary, which
// ReorderedToken alone can't catch.
type ReorderedLine struct {
	ReorderedText string
}

func (ReorderedLine) isFinding() {}
func (r ReorderedLine) Message() string {
	return fmt.Sprintf("line reorders under the bidirectional algorithm; displays as %s", SafeCharReprs(r.ReorderedText))
}
