package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strager/cminus/lexer"
	"github.com/strager/cminus/tac"
)

// SemanticError is one diagnostic found during translation.
type SemanticError struct {
	Line    int
	Message string
}

func (e SemanticError) String() string {
	return fmt.Sprintf("#%d : Semantic Error! %s", e.Line, e.Message)
}

// SemanticErrors lists diagnostics in the order they were found.
type SemanticErrors []SemanticError

func (errs SemanticErrors) HasErrors() bool {
	return len(errs) > 0
}

func (errs SemanticErrors) String() string {
	if len(errs) == 0 {
		return "The input program is semantically correct."
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

const (
	typeInt   = "int"
	typeArray = "array"
)

// ErrorLogger performs the semantic checks. It only reads the state it is
// given and records what it finds.
type ErrorLogger struct {
	Errors SemanticErrors
}

func (l *ErrorLogger) errorf(line int, format string, args ...any) {
	l.Errors = append(l.Errors, SemanticError{Line: line, Message: fmt.Sprintf(format, args...)})
}

// ScopeCheck resolves tok in table and reports it if nothing is visible.
func (l *ErrorLogger) ScopeCheck(tok lexer.Token, table *Table, scope int) *Symbol {
	sym := table.Lookup(tok.Text, scope)
	if sym == nil {
		l.errorf(tok.Line, "'%s' is not defined.", tok.Text)
	}
	return sym
}

// NumberCheck converts a number literal, reporting one too large for a
// machine word. Such a literal reads as zero.
func (l *ErrorLogger) NumberCheck(tok lexer.Token) int {
	n, err := strconv.Atoi(tok.Text)
	if err != nil {
		l.errorf(tok.Line, "Number '%s' is out of range.", tok.Text)
		return 0
	}
	return n
}

// VoidCheck reports a variable or parameter declared with type void.
func (l *ErrorLogger) VoidCheck(typ lexer.Token, id string, line int) bool {
	if typ.Text != "void" {
		return true
	}
	l.errorf(line, "Illegal type of void for '%s'.", id)
	return false
}

// BreakCheck reports a break with no enclosing loop.
func (l *ErrorLogger) BreakCheck(line int, inLoop bool) bool {
	if inLoop {
		return true
	}
	l.errorf(line, "No 'repeat ... until' found for 'break'.")
	return false
}

// ReturnCheck reports a return outside any function.
func (l *ErrorLogger) ReturnCheck(line int, inFunction bool) bool {
	if inFunction {
		return true
	}
	l.errorf(line, "No function found for 'return'.")
	return false
}

// TypeOf names the type of an operand value, or returns "" when it cannot
// be determined (an unresolved name).
func TypeOf(table *Table, v Value) string {
	switch v.Kind {
	case ValueOperand:
	case ValueFunction, ValueBuiltin:
		return "function"
	default:
		return ""
	}
	if v.Operand.Mode != tac.Direct {
		return typeInt
	}
	if sym := table.ByAddress(v.Operand.Value); sym != nil && sym.Kind == KindArray {
		return typeArray
	}
	return typeInt
}

// TypeMismatch reports operands whose types differ. expected is the
// left-hand operand. With normalize, a mismatch is always reported as an
// array where an int was expected.
func (l *ErrorLogger) TypeMismatch(line int, table *Table, expected, got Value, normalize bool) bool {
	want, have := TypeOf(table, expected), TypeOf(table, got)
	if want == "" || have == "" || want == have {
		return true
	}
	if normalize {
		want, have = typeInt, typeArray
	}
	l.errorf(line, "Type mismatch in operands, Got %s instead of %s.", have, want)
	return false
}

// ParameterCount reports a call whose argument count differs from the
// callee's.
func (l *ErrorLogger) ParameterCount(line int, name string, want, got int) bool {
	if want == got {
		return true
	}
	l.errorf(line, "Mismatch in numbers of arguments of '%s'.", name)
	return false
}

// ParameterTypes compares each argument to the parameter at the same
// position and reports each mismatch.
func (l *ErrorLogger) ParameterTypes(line int, table *Table, fn *Symbol, args []Value) bool {
	ok := true
	for i, arg := range args {
		if i >= len(fn.Function.Args) {
			break
		}
		param := fn.Function.Args[i]
		want := typeInt
		if param.Kind == KindArray {
			want = typeArray
		}
		have := TypeOf(table, arg)
		if have == "" || have == want {
			continue
		}
		l.errorf(line, "Mismatch in type of argument %d of '%s'. Expected '%s' but got '%s' instead.",
			i+1, owner(table, param.Address, fn.ID), want, have)
		ok = false
	}
	return ok
}

// owner names the function whose parameter lives at addr.
func owner(table *Table, addr int, fallback string) string {
	for _, fn := range table.Functions() {
		for _, arg := range fn.Function.Args {
			if arg.Address == addr {
				return fn.ID
			}
		}
	}
	return fallback
}
