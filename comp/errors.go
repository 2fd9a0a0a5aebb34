package comp

import "fmt"

// SyntaxError reports a malformed comprehension. Remainder, when non-empty,
// is the unconsumed input at the point of failure.
type SyntaxError struct {
	Msg       string
	Remainder string
}

func (e *SyntaxError) Error() string {
	if e.Remainder != "" {
		return fmt.Sprintf("%s near %q", e.Msg, e.Remainder)
	}
	return e.Msg
}

// CompileError reports that an embedded sub-expression failed to compile.
// The comprehension structure itself was valid, so this points at the
// expression text rather than the clause layout; Source carries the full
// generated listing for diagnosis.
type CompileError struct {
	Err    error
	Source string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v\ngenerated source:\n%s", e.Err, e.Source)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
