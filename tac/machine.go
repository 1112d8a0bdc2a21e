package tac

import (
	"errors"
	"fmt"
	"io"
)

// ErrStepLimit is returned when a program runs longer than the machine's
// step budget.
var ErrStepLimit = errors.New("step limit exceeded")

// DefaultSteps is the step budget used when Machine.MaxSteps is zero.
const DefaultSteps = 1_000_000

// Machine executes a Program over a sparse word-addressed memory. Unwritten
// cells read as zero.
type Machine struct {
	Memory   map[int]int
	Out      io.Writer
	MaxSteps int
}

func NewMachine(out io.Writer) *Machine {
	return &Machine{Memory: make(map[int]int), Out: out}
}

// Run executes p from index 0 until control leaves the program.
func (m *Machine) Run(p *Program) error {
	limit := m.MaxSteps
	if limit == 0 {
		limit = DefaultSteps
	}

	pc := 0
	for steps := 0; pc >= 0 && pc < p.Len(); steps++ {
		if steps >= limit {
			return fmt.Errorf("at instruction %d: %w", pc, ErrStepLimit)
		}
		next, err := m.step(p.At(pc), pc)
		if err != nil {
			return fmt.Errorf("at instruction %d (%s): %w", pc, p.At(pc), err)
		}
		pc = next
	}
	return nil
}

func (m *Machine) step(inst Instruction, pc int) (int, error) {
	a, b, c := inst.Args[0], inst.Args[1], inst.Args[2]
	switch inst.Op {
	case Empty:
	case ADD, SUB, MULT, EQ, LT:
		x, err := m.load(a)
		if err != nil {
			return 0, err
		}
		y, err := m.load(b)
		if err != nil {
			return 0, err
		}
		if err := m.store(c, arith(inst.Op, x, y)); err != nil {
			return 0, err
		}
	case ASSIGN:
		x, err := m.load(a)
		if err != nil {
			return 0, err
		}
		if err := m.store(b, x); err != nil {
			return 0, err
		}
	case JP:
		return m.target(a)
	case JPF:
		x, err := m.load(a)
		if err != nil {
			return 0, err
		}
		if x == 0 {
			return m.target(b)
		}
	case PRINT:
		x, err := m.load(a)
		if err != nil {
			return 0, err
		}
		if m.Out != nil {
			fmt.Fprintf(m.Out, "PRINT %d\n", x)
		}
	default:
		return 0, fmt.Errorf("unknown opcode %q", inst.Op)
	}
	return pc + 1, nil
}

func arith(op Opcode, x, y int) int {
	switch op {
	case ADD:
		return x + y
	case SUB:
		return x - y
	case MULT:
		return x * y
	case EQ:
		return boolWord(x == y)
	default:
		return boolWord(x < y)
	}
}

func boolWord(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) load(o Operand) (int, error) {
	switch o.Mode {
	case Immediate:
		return o.Value, nil
	case Direct:
		return m.Memory[o.Value], nil
	case Indirect:
		return m.Memory[m.Memory[o.Value]], nil
	default:
		return 0, errors.New("missing operand")
	}
}

func (m *Machine) store(o Operand, v int) error {
	switch o.Mode {
	case Direct:
		m.Memory[o.Value] = v
	case Indirect:
		m.Memory[m.Memory[o.Value]] = v
	default:
		return fmt.Errorf("cannot store into %q", o)
	}
	return nil
}

// target resolves a jump operand: a direct operand is the index itself, an
// indirect one names the cell holding it.
func (m *Machine) target(o Operand) (int, error) {
	switch o.Mode {
	case Direct:
		return o.Value, nil
	case Indirect:
		return m.Memory[o.Value], nil
	default:
		return 0, fmt.Errorf("bad jump target %q", o)
	}
}
