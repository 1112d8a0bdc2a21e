package tac

import (
	"fmt"
	"strings"
)

// Program is an append-and-patch instruction sequence. Indices handed out
// by Emit and Reserve stay valid for the life of the program.
type Program struct {
	code []Instruction
}

// Len is the index the next emitted instruction will get.
func (p *Program) Len() int {
	return len(p.code)
}

// Emit appends an instruction and returns its index.
func (p *Program) Emit(op Opcode, args ...Operand) int {
	p.code = append(p.code, NewInstruction(op, args...))
	return len(p.code) - 1
}

// Reserve appends a no-op placeholder to be patched later and returns its
// index.
func (p *Program) Reserve() int {
	return p.Emit(Empty)
}

// Patch overwrites the instruction at index i. It reports false, and
// changes nothing, when i was never handed out.
func (p *Program) Patch(i int, inst Instruction) bool {
	if i < 0 || i >= len(p.code) {
		return false
	}
	p.code[i] = inst
	return true
}

// At returns the instruction at index i.
func (p *Program) At(i int) Instruction {
	return p.code[i]
}

// Instructions returns a copy of the sequence.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.code...)
}

// String renders the numbered listing, one "i\tinstruction" per line.
func (p *Program) String() string {
	var sb strings.Builder
	for i, inst := range p.code {
		fmt.Fprintf(&sb, "%d\t%s\n", i, inst)
	}
	return sb.String()
}
