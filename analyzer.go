package trojanlinter

import (
	"unicode"
	"unicode/utf8"

	"github.com/encukou/trojan-linter/bidimap"
	"github.com/encukou/trojan-linter/confusables"
	"github.com/encukou/trojan-linter/linemap"
	"github.com/encukou/trojan-linter/normalize"
	"github.com/encukou/trojan-linter/pytoken"
)

// Lint tokenizes source under profile and returns the file's CodePart tree
// (a *File holding *Line holding *Token) with every finding attached,
// depth-first in the fixed order: per-token checks first (policy, control
// characters, non-ASCII, lookalikes, NFKC, shadow detection), then the bidi
// reordering pass over tokens and lines. name is used only for
// error messages and is not otherwise interpreted.
//
// Lint aborts with InvalidSourceError if source isn't valid UTF-8, and
// with SyntaxError if the tokenizer can't lex it to completion; in both
// cases no CodePart tree is returned.
//
// A pure-ASCII source never reaches the tokenizer at all: if every
// character is plain ASCII and every control character present is one of
// the allowed whitespace controls, Lint returns immediately with zero
// findings (clean ASCII source is never a hazard, even when it wouldn't
// parse); if it's pure ASCII but contains a disallowed control character,
// Lint returns a single ControlCharacter finding per occurrence without
// ever invoking the tokenizer. This matters in practice: an unterminated
// string literal in otherwise-clean ASCII text is a host-language syntax
// error, not a Unicode hazard, so it must not surface as one.
func Lint(name, source string, profile Profile) (*File, error) {
	if !utf8.ValidString(source) {
		return nil, &InvalidSourceError{Name: name, Reason: "not valid UTF-8"}
	}

	runes := []rune(source)
	if isPureASCII(runes) {
		return lintASCIIFastPath(name, source, runes), nil
	}

	tokens, err := pytoken.Tokenize(source)
	if err != nil {
		if lexErr, ok := err.(*pytoken.LexError); ok {
			return nil, &SyntaxError{Name: name, Err: lexErr}
		}
		return nil, err
	}

	lm := linemap.New(runes)
	file := &File{
		base: base{lm: lm, start: 0, end: len(runes), text: source},
		Name: name,
	}

	shadow := make(map[TokenKindOf]map[string]*Token)
	cpTokens := make([]*Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == pytoken.EOFToken {
			continue
		}
		ct := &Token{
			base: base{
				lm:    lm,
				start: tok.Start,
				end:   tok.End,
				text:  tok.Text,
			},
			Type:         kindOf(tok.Type),
			StringPrefix: tok.StringPrefix,
		}
		applyTokenPolicy(ct, profile)
		detectShadow(ct, shadow)
		cpTokens = append(cpTokens, ct)
	}

	file.Lines = groupIntoLines(lm, runes, cpTokens)

	if bidimap.NeedsFullAnalysis(runes) {
		lineStarts := lineStartsOf(lm)
		bm := bidimap.Build(runes, lineStarts)
		applyReordering(file, bm, runes)
	}

	return file, nil
}

// isPureASCII reports whether every rune in source is within the ASCII
// range — the gate for Lint's fast path.
func isPureASCII(runes []rune) bool {
	for _, r := range runes {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// lintASCIIFastPath handles a pure-ASCII source without ever invoking the
// tokenizer: it scans directly for disallowed control characters (the only
// hazard plain ASCII can carry) and synthesizes a single-rune Token
// carrying a ControlCharacter finding for each one found.
func lintASCIIFastPath(name, source string, runes []rune) *File {
	lm := linemap.New(runes)
	file := &File{
		base: base{lm: lm, start: 0, end: len(runes), text: source},
		Name: name,
	}

	var illegal []*Token
	for i, r := range runes {
		if !isControlOrFormatting(r) {
			continue
		}
		tok := &Token{
			base: base{lm: lm, start: i, end: i + 1, text: string(r)},
			Type: KindOp,
		}
		tok.addFinding(ControlCharacter{Char: r, Name: unicodeNameOrUnassigned(r)})
		illegal = append(illegal, tok)
	}

	file.Lines = groupIntoLines(lm, runes, illegal)
	return file
}

// LintStream runs Lint over the whole source, then calls visit once per
// CodePart of the result: for each line, its tokens and then the line
// itself, and finally the file. Returning false from visit stops the walk
// immediately and LintStream returns nil; the analysis itself has already
// run to completion by then, so stopping early skips only the remaining
// visits. No goroutines are involved — visit runs inline on the caller's
// own goroutine, same as a single iteration of a for loop.
func LintStream(name, source string, profile Profile, visit func(CodePart) bool) error {
	file, err := Lint(name, source, profile)
	if err != nil {
		return err
	}
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			if !visit(tok) {
				return nil
			}
		}
		if !visit(line) {
			return nil
		}
	}
	visit(file)
	return nil
}

func kindOf(tt pytoken.TokenType) TokenKindOf {
	switch tt {
	case pytoken.WhitespaceToken:
		return KindWhitespace
	case pytoken.NewlineToken:
		return KindNewline
	case pytoken.NameToken:
		return KindName
	case pytoken.NumberToken:
		return KindNumber
	case pytoken.StringToken:
		return KindString
	case pytoken.OpToken:
		return KindOp
	case pytoken.CommentToken:
		return KindComment
	default:
		return KindEOF
	}
}

// applyTokenPolicy runs the per-token checks that apply to every token
// kind, regardless of type: the profile's string-class policy, control
// characters, raw non-ASCII, confusable lookalikes, and NFKC normal form, in
// that fixed order. None of these are gated to name/string/number tokens —
// a confusable rune hiding in a comment, or U+2044 FRACTION SLASH tokenized
// as an operator, is exactly the kind of hazard this pass exists to catch.
func applyTokenPolicy(tok *Token, profile Profile) {
	policy := profile.PolicyFor(tok.Type)

	if policy.Enforce {
		for _, r := range tok.text {
			if reason := normalize.Enforce(policy.StringProfile, string(r)); reason != normalize.ReasonNone {
				tok.addFinding(PolicyFail{Reason: string(reason), Char: r})
			}
		}
	}

	for _, r := range tok.text {
		if isControlOrFormatting(r) {
			tok.addFinding(ControlCharacter{Char: r, Name: unicodeNameOrUnassigned(r)})
		}
	}

	hasNonASCII := false
	for _, r := range tok.text {
		if r > unicode.MaxASCII {
			hasNonASCII = true
			tok.addFinding(NonASCII{Char: r})
		}
	}

	if hasNonASCII {
		for _, r := range tok.text {
			if repl, ok := confusables.Lookup(r); ok {
				tok.addFinding(ASCIILookalike{Char: r, Replacement: repl})
			}
		}

		if normalized := normalize.NFKC(tok.text); normalized != tok.text {
			tok.addFinding(NonNFKC{Original: tok.text, Normalized: normalized})
		}
	}
}

// detectShadow implements the cross-token homoglyph shadow check: within
// each token kind, the first token to produce a given NFKC-normalized form
// is recorded; any later token of the same kind whose text normalizes the
// same way but is spelled differently gets a HasLookalike finding pointing
// back at that first token. A token that already failed policy enforcement
// has no normalized form to compare (the PRECIS classification rejected it
// outright), so it's excluded from the seen map entirely, matching
// spec.md's "normalized is absent" on policy failure.
func detectShadow(tok *Token, seen map[TokenKindOf]map[string]*Token) {
	if tok.text == "" || len(FindingsByKind[PolicyFail](tok)) > 0 {
		return
	}

	byKind, ok := seen[tok.Type]
	if !ok {
		byKind = make(map[string]*Token)
		seen[tok.Type] = byKind
	}

	key := normalize.NFKC(tok.text)
	if first, ok := byKind[key]; ok {
		if first.text != tok.text {
			tok.addFinding(HasLookalike{Other: first})
		}
		return
	}
	byKind[key] = tok
}

// isControlOrFormatting reports whether r is the kind of invisible or
// directional-formatting character that's always worth flagging, no
// matter which token kind it turns up in: Unicode category Cc/Cf/Co, or an
// unassigned codepoint (Cn), except the allowed whitespace controls (tab,
// LF, VT, FF, CR).
func isControlOrFormatting(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r':
		return false
	}
	if unicode.In(r, unicode.Cc, unicode.Cf, unicode.Co) {
		return true
	}
	// Unassigned: the rune belongs to no general category at all.
	return !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
}

// unicodeNameOrUnassigned would look up r's Unicode character name; the
// standard library exposes no such table, so every control/formatting
// character is reported with the same placeholder the original project
// used for codepoints outside its own name database.
func unicodeNameOrUnassigned(r rune) string {
	return "unnamed/unassigned"
}

func lineStartsOf(lm *linemap.LineMap) []int {
	starts := make([]int, 0, lm.NumLines()+1)
	for row := 1; row <= lm.NumLines()+1; row++ {
		starts = append(starts, lm.LineStart(row))
	}
	return starts
}

func groupIntoLines(lm *linemap.LineMap, runes []rune, tokens []*Token) []*Line {
	lines := make([]*Line, 0, lm.NumLines())
	for row := 1; row <= lm.NumLines(); row++ {
		start := lm.LineStart(row)
		end := lm.LineStart(row + 1)
		line := &Line{
			base: base{lm: lm, start: start, end: end, text: string(runes[start:end])},
		}
		lines = append(lines, line)
	}
	for _, tok := range tokens {
		row, _ := lm.IndexToRowCol(tok.start)
		if row >= 1 && row <= len(lines) {
			lines[row-1].Tokens = append(lines[row-1].Tokens, tok)
		}
	}
	return lines
}

// applyReordering walks every line, and for any line whose visual order
// differs from its logical order, attaches a ReorderedLine finding to the
// line and a ReorderedToken finding to any individual token whose own
// internal character order changed.
func applyReordering(file *File, bm *bidimap.Map, source []rune) {
	for _, line := range file.Lines {
		reordered := false
		for i := line.start; i < line.end; i++ {
			if int(bm.L2V[i]) != i {
				reordered = true
				break
			}
		}
		if !reordered {
			continue
		}

		line.addFinding(ReorderedLine{ReorderedText: visualRender(bm, source, line.start, line.end)})

		for _, tok := range line.Tokens {
			tokReordered := false
			for i := tok.start; i < tok.end; i++ {
				// A token's own text reorders when the *relative* order of
				// its own runes changes, not just their absolute position
				// (the whole line shifting together doesn't count).
				if i+1 < tok.end && bm.L2V[i] > bm.L2V[i+1] {
					tokReordered = true
					break
				}
			}
			if tokReordered {
				tok.addFinding(ReorderedToken{ReorderedText: visualRender(bm, source, tok.start, tok.end)})
			}
		}
	}
}

// visualRender returns the runes of source within logical range
// [start, end), arranged in the visual (displayed) order the bidi
// algorithm's permutation implies: the visual positions that any rune in
// [start, end) maps to, walked low to high, reading off the source rune
// that sits at each one.
func visualRender(bm *bidimap.Map, source []rune, start, end int) string {
	minVisual, maxVisual := -1, -1
	for i := start; i < end; i++ {
		v := int(bm.L2V[i])
		if minVisual == -1 || v < minVisual {
			minVisual = v
		}
		if maxVisual == -1 || v > maxVisual {
			maxVisual = v
		}
	}
	if minVisual == -1 {
		return ""
	}
	out := make([]rune, 0, maxVisual-minVisual+1)
	for v := minVisual; v <= maxVisual; v++ {
		logical := int(bm.V2L[v])
		out = append(out, source[logical])
	}
	return string(out)
}
