package trojanlinter

import (
	"fmt"
	"strings"

	"github.com/encukou/trojan-linter/pytoken"
)

// InvalidSourceError means the bytes handed to Lint could not be treated as
// source text at all: not valid UTF-8, or containing an unpaired surrogate
// codepoint. Lint returns it immediately, with no findings, since there is
// no sound way to assign row/col positions to malformed input.
type InvalidSourceError struct {
	Name   string
	Reason string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("%s: invalid source: %s", e.Name, e.Reason)
}

// SyntaxError wraps a lexical failure from the tokenizer (an unterminated
// string literal, most commonly). Like InvalidSourceError it aborts the
// whole pass: a half-tokenized file can't be trusted to carry correct
// token boundaries for the rest of the checks.
type SyntaxError struct {
	Name string
	Err  *pytoken.LexError
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Err.Error())
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseErrors collects more than one SyntaxError/InvalidSourceError across a
// batch of files, the way the teacher's SQLCodeParseErrors aggregates
// sqlparser.Error values across a batch of SQL files.
type ParseErrors struct {
	Errors []error
}

func (e *ParseErrors) Error() string {
	var msg strings.Builder
	msg.WriteString("trojan-linter: errors linting source:\n\n")
	for _, err := range e.Errors {
		msg.WriteString(err.Error())
		msg.WriteByte('\n')
	}
	return msg.String()
}
