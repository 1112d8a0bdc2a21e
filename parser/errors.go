package parser

import (
	"fmt"
	"strings"
)

// SyntaxError is one recovered (or fatal) syntax diagnostic.
type SyntaxError struct {
	Line    int
	Message string
}

func (e SyntaxError) String() string {
	return fmt.Sprintf("#%d : syntax error, %s", e.Line, e.Message)
}

// SyntaxErrors accumulates diagnostics; parsing continues past every one
// except an unexpected end of input.
type SyntaxErrors []SyntaxError

func (errs SyntaxErrors) HasErrors() bool {
	return len(errs) > 0
}

func (errs SyntaxErrors) String() string {
	if len(errs) == 0 {
		return "There is no syntax error."
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
