package trojanlinter

import "github.com/encukou/trojan-linter/pytoken"

// Tokenizer is the contract Lint's tokenizing step satisfies: given source
// text, produce a flat, gapless token slice or a lexical error. Go has no
// lazy generator suited to a pull-based tokenizer (pre-iter.Seq), so unlike
// the original project's generator-based tokenize(), this is a plain
// slice-returning function type; pytoken.Tokenize is the only
// implementation today, but keeping it as a named type documents the
// seam for a future non-Python profile.
type Tokenizer func(source string) ([]pytoken.Token, error)

// PythonTokenizer is pytoken.Tokenize as a Tokenizer value. Lint does not
// take a Tokenizer: it calls pytoken.Tokenize directly under every profile.
var PythonTokenizer Tokenizer = pytoken.Tokenize
