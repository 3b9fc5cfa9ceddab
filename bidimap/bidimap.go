// Package bidimap computes the logical-to-visual reordering permutation a
// conformant renderer would apply to a source text under the Unicode
// Bidirectional Algorithm (UAX #9), so callers can detect places where the
// order codepoints are stored in disagrees with the order they'd be shown
// on screen — the mechanism behind "trojan source" (CVE-2021-42574) style
// attacks using RLO/LRO overrides or plain right-to-left script mixing.
//
// Per-rune bidi classes come from golang.org/x/text/unicode/bidi
// (bidi.LookupRune); the explicit-level resolution, weak/neutral-type
// resolution and the final L2 reordering are implemented here, following
// the structure of UAX #9 rules X1-X8, a simplified W/N/I pass, and L2.
// Numeric runs (EN/AN) are folded into the same treatment as left-to-right
// text rather than given their own I1/I2 bump — trojan-source hazards
// practically never hinge on digit-run reordering, and a full W1-W7/N0-N2
// implementation is well beyond what this linter needs.
package bidimap

import (
	"golang.org/x/text/unicode/bidi"
)

const maxDepth = 125

// Map holds the logical<->visual index permutation for a whole source text.
// Both slices are empty when the source has no strongly-RTL rune and no
// explicit bidi control character (the common case for most source files),
// matching the optimization gate described for the analyzer's fast path.
type Map struct {
	L2V []int32 // L2V[i] is the visual position of the logical rune at index i
	V2L []int32 // V2L[j] is the logical index of the rune at visual position j
}

// Empty reports whether Build found nothing to reorder.
func (m *Map) Empty() bool {
	return m == nil || len(m.L2V) == 0
}

// NeedsFullAnalysis reports whether source contains any rune whose presence
// means a bidi pass cannot be skipped: strongly-RTL script runes, or any of
// the explicit directional formatting/isolate controls.
func NeedsFullAnalysis(source []rune) bool {
	for _, r := range source {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL,
			bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
			bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
			return true
		}
	}
	return false
}

// Build runs the bidirectional algorithm over source, one paragraph per
// line (lineStarts gives the codepoint index of each line's first rune, the
// same shape as linemap.LineMap's internal table, including the
// past-the-end sentinel). It returns an empty Map if NeedsFullAnalysis would
// have returned false.
func Build(source []rune, lineStarts []int) *Map {
	if !NeedsFullAnalysis(source) {
		return &Map{}
	}

	n := len(source)
	l2v := make([]int32, n)
	v2l := make([]int32, n)

	for row := 0; row+1 < len(lineStarts); row++ {
		start := lineStarts[row]
		end := lineStarts[row+1]
		line := source[start:end]
		order := reorderLine(line)
		for visual, logical := range order {
			l2v[start+logical] = int32(start + visual)
			v2l[start+visual] = int32(start + logical)
		}
	}

	return &Map{L2V: l2v, V2L: v2l}
}

// reorderLine returns, for a single paragraph (line), a permutation `order`
// such that order[visualPos] == logicalPos: the logical index of the rune
// that appears at each visual position.
func reorderLine(line []rune) []int {
	n := len(line)
	if n == 0 {
		return nil
	}
	classes := make([]bidi.Class, n)
	for i, r := range line {
		p, _ := bidi.LookupRune(r)
		classes[i] = p.Class()
	}

	levels, resolved := resolveLevels(classes)
	return reorderFromLevels(levels, resolved)
}

type statusEntry struct {
	level    int
	override bidi.Class // 0 (bidi.L zero value is actually a valid class; use a sentinel below)
	isolate  bool
}

// noOverride is a sentinel meaning "no directional override in effect";
// bidi.Class's zero value is bidi.L, which is a real class, so we can't use
// the zero value to mean "none" - we use a value outside the real range.
const noOverride = ^bidi.Class(0)

func resolveLevels(classes []bidi.Class) (levels []int, resolved []bidi.Class) {
	n := len(classes)
	levels = make([]int, n)
	overrides := make([]bidi.Class, n)
	for i := range overrides {
		overrides[i] = noOverride
	}

	baseLevel := baseLevelOf(classes)
	stack := []statusEntry{{level: baseLevel, override: noOverride}}
	overflowIsolates, overflowEmbedding, validIsolates := 0, 0, 0

	for i, c := range classes {
		top := stack[len(stack)-1]
		switch c {
		case bidi.RLE, bidi.LRE, bidi.RLO, bidi.LRO:
			levels[i] = top.level
			newLevel := nextLevel(top.level, c == bidi.RLE || c == bidi.RLO)
			if newLevel <= maxDepth && overflowIsolates == 0 && overflowEmbedding == 0 {
				ov := noOverride
				if c == bidi.LRO {
					ov = bidi.L
				} else if c == bidi.RLO {
					ov = bidi.R
				}
				stack = append(stack, statusEntry{level: newLevel, override: ov})
			} else {
				overflowEmbedding++
			}

		case bidi.LRI, bidi.RLI, bidi.FSI:
			levels[i] = top.level
			overrides[i] = top.override
			rtl := c == bidi.RLI
			if c == bidi.FSI {
				rtl = isolateIsRTL(classes, i)
			}
			newLevel := nextLevel(top.level, rtl)
			if newLevel <= maxDepth && overflowIsolates == 0 && overflowEmbedding == 0 {
				validIsolates++
				stack = append(stack, statusEntry{level: newLevel, isolate: true, override: noOverride})
			} else {
				overflowIsolates++
			}

		case bidi.PDI:
			if overflowIsolates > 0 {
				overflowIsolates--
			} else if validIsolates > 0 {
				for len(stack) > 1 {
					popped := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if popped.isolate {
						validIsolates--
						break
					}
				}
				overflowEmbedding = 0
			}
			top = stack[len(stack)-1]
			levels[i] = top.level
			overrides[i] = top.override

		case bidi.PDF:
			if overflowIsolates > 0 {
				// no-op: inside an overflowed isolate
			} else if overflowEmbedding > 0 {
				overflowEmbedding--
			} else if !top.isolate && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			levels[i] = stack[len(stack)-1].level

		default:
			levels[i] = top.level
			overrides[i] = top.override
		}
	}

	resolved = resolveTypes(classes, levels, overrides)
	bumpLevels(levels, resolved)
	return levels, resolved
}

// resolveTypes applies overrides, then a simplified W/N pass: strong types
// keep their direction, EN/AN are folded into "L" (see package doc), NSM
// copies the preceding resolved direction (W1), and remaining weak/neutral
// runs (BN, B, S, WS, ON and unmatched isolate controls) resolve to the
// nearest enclosing strong direction within their level run, falling back
// to the run's base direction when neighbors disagree or are absent (a
// simplified N1/N2).
func resolveTypes(classes []bidi.Class, levels []int, overrides []bidi.Class) []bidi.Class {
	n := len(classes)
	resolved := make([]bidi.Class, n)
	for i, c := range classes {
		if overrides[i] != noOverride {
			resolved[i] = overrides[i]
			continue
		}
		switch c {
		case bidi.L:
			resolved[i] = bidi.L
		case bidi.R, bidi.AL:
			resolved[i] = bidi.R
		case bidi.EN, bidi.AN:
			resolved[i] = bidi.L
		default:
			resolved[i] = noOverride
		}
	}

	for i, c := range classes {
		if c != bidi.NSM || resolved[i] != noOverride {
			continue
		}
		if i > 0 && resolved[i-1] != noOverride {
			resolved[i] = resolved[i-1]
		} else {
			resolved[i] = dirOf(levels[i])
		}
	}

	for i := range classes {
		if resolved[i] != noOverride {
			continue
		}
		var left, right = noOverride, noOverride
		for j := i - 1; j >= 0 && levels[j] == levels[i]; j-- {
			if resolved[j] != noOverride {
				left = resolved[j]
				break
			}
		}
		for j := i + 1; j < n && levels[j] == levels[i]; j++ {
			if resolved[j] != noOverride {
				right = resolved[j]
				break
			}
		}
		if left != noOverride && left == right {
			resolved[i] = left
		} else {
			resolved[i] = dirOf(levels[i])
		}
	}
	return resolved
}

// bumpLevels applies I1/I2: a character whose resolved direction disagrees
// with the parity of its explicit level is bumped one level higher so the
// final L2 reversal pass puts it on the correct side.
func bumpLevels(levels []int, resolved []bidi.Class) {
	for i, lvl := range levels {
		if lvl%2 == 0 {
			if resolved[i] == bidi.R {
				levels[i] = lvl + 1
			}
		} else {
			if resolved[i] == bidi.L {
				levels[i] = lvl + 1
			}
		}
	}
}

// reorderFromLevels implements UAX #9 rule L2: from the highest level down
// to the lowest odd level present, reverse each maximal run of runes whose
// level is at least the current threshold.
func reorderFromLevels(levels []int, _ []bidi.Class) []int {
	n := len(levels)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	maxLevel, minOdd := 0, -1
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
		if l%2 == 1 && (minOdd == -1 || l < minOdd) {
			minOdd = l
		}
	}
	if minOdd == -1 {
		return order
	}
	for lvl := maxLevel; lvl >= minOdd; lvl-- {
		i := 0
		for i < n {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < n && levels[order[j]] >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				order[a], order[b] = order[b], order[a]
			}
			i = j
		}
	}
	return order
}

func dirOf(level int) bidi.Class {
	if level%2 == 0 {
		return bidi.L
	}
	return bidi.R
}

// nextLevel returns the least level strictly greater than level with the
// parity implied by rtl (odd for RTL embeddings/isolates, even for LTR).
func nextLevel(level int, rtl bool) int {
	if rtl {
		if level%2 == 0 {
			return level + 1
		}
		return level + 2
	}
	if level%2 == 0 {
		return level + 2
	}
	return level + 1
}

// baseLevelOf implements a simplified P2/P3: the paragraph level is 1 (RTL)
// if the first strong character outside any isolate is R or AL, else 0.
func baseLevelOf(classes []bidi.Class) int {
	depth := 0
	for _, c := range classes {
		switch c {
		case bidi.LRI, bidi.RLI, bidi.FSI:
			depth++
		case bidi.PDI:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				switch c {
				case bidi.L:
					return 0
				case bidi.R, bidi.AL:
					return 1
				}
			}
		}
	}
	return 0
}

// isolateIsRTL determines the direction an FSI at position start resolves
// to, by scanning for the first strong character within its isolate scope
// (mirroring baseLevelOf, but bounded by the matching PDI).
func isolateIsRTL(classes []bidi.Class, start int) bool {
	depth := 0
	for i := start + 1; i < len(classes); i++ {
		switch classes[i] {
		case bidi.LRI, bidi.RLI, bidi.FSI:
			depth++
		case bidi.PDI:
			if depth == 0 {
				return false
			}
			depth--
		default:
			if depth == 0 {
				switch classes[i] {
				case bidi.L:
					return false
				case bidi.R, bidi.AL:
					return true
				}
			}
		}
	}
	return false
}
