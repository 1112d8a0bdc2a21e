package codegen

import "github.com/strager/cminus/tac"

type controlKind uint8

const (
	controlMarker controlKind = iota
	controlPending
)

// controlEntry is either a marker opening a loop or function, or a reserved
// instruction waiting for its target.
type controlEntry struct {
	kind  controlKind
	index int
	value tac.Operand // staged return value
}

// controlStack backs both the break stack and the return stack.
type controlStack struct {
	entries []controlEntry
}

func (s *controlStack) mark() {
	s.entries = append(s.entries, controlEntry{kind: controlMarker})
}

func (s *controlStack) add(index int, value tac.Operand) {
	s.entries = append(s.entries, controlEntry{kind: controlPending, index: index, value: value})
}

func (s *controlStack) hasMarker() bool {
	for _, e := range s.entries {
		if e.kind == controlMarker {
			return true
		}
	}
	return false
}

// release drops the nearest marker and everything above it, returning the
// pending entries it dropped in the order they were added. ok is false, and
// nothing is dropped, when there is no marker.
func (s *controlStack) release() (pending []controlEntry, ok bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		switch s.entries[i].kind {
		case controlPending:
			continue
		case controlMarker:
			pending = append(pending, s.entries[i+1:]...)
			s.entries = s.entries[:i]
			return pending, true
		}
	}
	return nil, false
}
