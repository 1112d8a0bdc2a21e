package tac

import (
	"strconv"
	"strings"
)

// Mode is an operand addressing mode.
type Mode uint8

const (
	None      Mode = iota
	Immediate      // #n
	Direct         // n
	Indirect       // @n
)

// Operand is one instruction argument. Jump targets are Direct operands
// holding an instruction index.
type Operand struct {
	Mode  Mode
	Value int
}

func Imm(n int) Operand  { return Operand{Mode: Immediate, Value: n} }
func Addr(n int) Operand { return Operand{Mode: Direct, Value: n} }
func Ind(n int) Operand  { return Operand{Mode: Indirect, Value: n} }

func (o Operand) IsZero() bool {
	return o.Mode == None
}

func (o Operand) String() string {
	switch o.Mode {
	case Immediate:
		return "#" + strconv.Itoa(o.Value)
	case Direct:
		return strconv.Itoa(o.Value)
	case Indirect:
		return "@" + strconv.Itoa(o.Value)
	default:
		return ""
	}
}

// ParseOperand parses the text form of an operand. The empty string is the
// zero operand.
func ParseOperand(s string) (Operand, error) {
	if s == "" {
		return Operand{}, nil
	}
	mode := Direct
	switch s[0] {
	case '#':
		mode, s = Immediate, s[1:]
	case '@':
		mode, s = Indirect, s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Mode: mode, Value: n}, nil
}

// Opcode names an instruction. Empty is the no-op placeholder left in
// reserved slots until they are patched.
type Opcode string

const (
	Empty  Opcode = ""
	ADD    Opcode = "ADD"
	SUB    Opcode = "SUB"
	MULT   Opcode = "MULT"
	EQ     Opcode = "EQ"
	LT     Opcode = "LT"
	ASSIGN Opcode = "ASSIGN"
	JP     Opcode = "JP"
	JPF    Opcode = "JPF"
	PRINT  Opcode = "PRINT"
)

// OpcodeFor maps a source operator to its arithmetic or relational opcode.
func OpcodeFor(operator string) (Opcode, bool) {
	switch operator {
	case "+":
		return ADD, true
	case "-":
		return SUB, true
	case "*":
		return MULT, true
	case "==":
		return EQ, true
	case "<":
		return LT, true
	default:
		return Empty, false
	}
}

// Instruction is a three-address instruction.
type Instruction struct {
	Op   Opcode
	Args [3]Operand
}

// NewInstruction builds an instruction from up to three operands.
func NewInstruction(op Opcode, args ...Operand) Instruction {
	inst := Instruction{Op: op}
	copy(inst.Args[:], args)
	return inst
}

// String renders "OPCODE a b c" with trailing empty operands trimmed. The
// no-op renders as the empty string.
func (inst Instruction) String() string {
	if inst.Op == Empty {
		return ""
	}
	parts := []string{string(inst.Op)}
	last := -1
	for i, arg := range inst.Args {
		if !arg.IsZero() {
			last = i
		}
	}
	for _, arg := range inst.Args[:last+1] {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}
