package codegen

import (
	"fmt"
	"strings"

	"github.com/strager/cminus/tac"
)

// ValueKind tags a semantic stack entry.
type ValueKind uint8

const (
	ValueNone     ValueKind = iota
	ValueOperand            // immediate, direct or indirect address
	ValueIdent              // identifier not yet (or never) resolved
	ValueOperator           // arithmetic or relational operator
	ValueIndex              // instruction index awaiting a backpatch
	ValueFunction           // function record named as a callee
	ValueBuiltin            // the built-in output routine
	ValueRecord             // function whose body is being translated
	ValueArgs               // start of a call's arguments
)

// Value is one entry of the semantic stack.
type Value struct {
	Kind    ValueKind
	Operand tac.Operand
	Text    string
	Index   int
	Func    *Symbol
}

func operandValue(o tac.Operand) Value { return Value{Kind: ValueOperand, Operand: o} }
func identValue(id string) Value       { return Value{Kind: ValueIdent, Text: id} }
func operatorValue(op string) Value    { return Value{Kind: ValueOperator, Text: op} }
func indexValue(i int) Value           { return Value{Kind: ValueIndex, Index: i} }
func functionValue(fn *Symbol) Value   { return Value{Kind: ValueFunction, Func: fn} }

// index returns the instruction index v holds, or -1.
func (v Value) index() int {
	if v.Kind != ValueIndex {
		return -1
	}
	return v.Index
}

func (v Value) String() string {
	switch v.Kind {
	case ValueOperand:
		return v.Operand.String()
	case ValueIdent, ValueOperator:
		return v.Text
	case ValueIndex:
		return fmt.Sprintf("i%d", v.Index)
	case ValueFunction:
		return "func " + v.Func.ID
	case ValueBuiltin:
		return "func " + builtinOutput
	case ValueRecord:
		return "record " + v.Func.ID
	case ValueArgs:
		return "("
	default:
		return "<none>"
	}
}

// Stack is the semantic value stack. Popping an empty stack yields the zero
// Value, which only happens while the parser recovers from syntax errors.
type Stack struct {
	values []Value
}

func (s *Stack) Push(v Value) {
	s.values = append(s.values, v)
}

func (s *Stack) Pop() Value {
	if len(s.values) == 0 {
		return Value{}
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}

// Top reads the value offset entries below the top without removing it.
func (s *Stack) Top(offset int) Value {
	i := len(s.values) - 1 - offset
	if i < 0 {
		return Value{}
	}
	return s.values[i]
}

func (s *Stack) Len() int {
	return len(s.values)
}

func (s *Stack) String() string {
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
