package trojanlinter

import (
	"fmt"
	"strings"
)

// SafeCharRepr renders a single rune the way a terminal can always display
// it safely: printable ASCII passes through unchanged, and everything else
// — non-ASCII or a control character, printable or not — is escaped as
// \xHH, \uHHHH or \UHHHHHHHH depending on how wide it is, the same
// three-tier escaping the original project's safe_char_repr used. Printable
// non-ASCII runes are escaped too, deliberately: those are exactly the
// lookalikes and reordering hazards this linter exists to surface, so a
// "safe" rendering can't just defer to the terminal's own font rendering.
func SafeCharRepr(r rune) string {
	if r >= 0x20 && r < 0x7f {
		return string(r)
	}
	switch {
	case r <= 0xff:
		return fmt.Sprintf(`\x%02x`, r)
	case r <= 0xffff:
		return fmt.Sprintf(`\u%04x`, r)
	default:
		return fmt.Sprintf(`\U%08x`, r)
	}
}

// SafeCharReprs renders every rune of s through SafeCharRepr and
// concatenates the result, giving a string that is safe to print even when
// s contains control characters, bidi overrides or unassigned codepoints.
func SafeCharReprs(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(SafeCharRepr(r))
	}
	return b.String()
}
