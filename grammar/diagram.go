package grammar

// Transition is a labeled edge of a diagram.
type Transition struct {
	Label Symbol
	To    int
}

// Diagram is the transition diagram of one non-terminal: a start state, a
// shared accept state, and one chain of fresh states per alternative.
type Diagram struct {
	LHS    string
	Start  int
	Accept int
	states [][]Transition
}

func buildDiagram(lhs string, alternatives [][]Symbol) *Diagram {
	d := &Diagram{LHS: lhs, Start: 0, Accept: 1}
	d.states = make([][]Transition, 2)

	for _, alt := range alternatives {
		if len(alt) == 0 {
			alt = []Symbol{{Kind: EpsilonSymbol, Name: Epsilon}}
		}
		from := d.Start
		for i, sym := range alt {
			to := d.Accept
			if i < len(alt)-1 {
				to = d.newState()
			}
			d.states[from] = append(d.states[from], Transition{Label: sym, To: to})
			from = to
		}
	}
	return d
}

func (d *Diagram) newState() int {
	d.states = append(d.states, nil)
	return len(d.states) - 1
}

// NumStates counts states, start and accept included.
func (d *Diagram) NumStates() int {
	return len(d.states)
}

// Transitions enumerates the edges leaving state. From the start state there
// is one edge per alternative.
func (d *Diagram) Transitions(state int) []Transition {
	if state < 0 || state >= len(d.states) {
		return nil
	}
	return d.states[state]
}

// Derive returns, per alternative, the labels on its path from start to
// accept.
func (d *Diagram) Derive() [][]Symbol {
	var paths [][]Symbol
	for _, t := range d.states[d.Start] {
		path := []Symbol{t.Label}
		for s := t.To; s != d.Accept; {
			next := d.states[s][0]
			path = append(path, next.Label)
			s = next.To
		}
		paths = append(paths, path)
	}
	return paths
}
