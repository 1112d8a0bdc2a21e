package grammar

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"
)

//go:embed cminus.grammar
var cminusGrammar string

// Grammar is a rule table compiled into one diagram per non-terminal, plus
// the FIRST and FOLLOW sets the parser predicts with.
type Grammar struct {
	// Start is the left-hand side of the first rule.
	Start string

	nonTerminals []string
	rules        map[string][][]Symbol
	diagrams     map[string]*Diagram
	derivations  map[string][][]Symbol

	first  map[string]Set
	follow map[string]Set
}

// Default returns the embedded C-minus grammar with computed sets.
func Default() *Grammar {
	g, err := Parse(strings.NewReader(cminusGrammar))
	if err != nil {
		panic("embedded grammar: " + err.Error())
	}
	return g
}

// Parse reads grammar text, one "LHS -> s1 s2 ... sn" rule per line.
// Repeated left-hand sides add alternatives, as does "|" within a line.
// FIRST and FOLLOW are computed from the rules; LoadSets may replace them.
func Parse(r io.Reader) (*Grammar, error) {
	type rawRule struct {
		line int
		lhs  string
		alts [][]string
	}

	var raw []rawRule
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lhs, rhs, ok := strings.Cut(line, "->")
		lhs = strings.TrimSpace(lhs)
		if !ok || lhs == "" || strings.ContainsAny(lhs, " \t") {
			return nil, fmt.Errorf("line %d: expected 'LHS -> symbols', got %q", lineNum, line)
		}
		var alts [][]string
		for _, alt := range strings.Split(rhs, "|") {
			alts = append(alts, strings.Fields(alt))
		}
		raw = append(raw, rawRule{line: lineNum, lhs: lhs, alts: alts})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grammar: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("grammar has no rules")
	}

	g := &Grammar{
		Start:       raw[0].lhs,
		rules:       make(map[string][][]Symbol),
		diagrams:    make(map[string]*Diagram),
		derivations: make(map[string][][]Symbol),
	}
	for _, r := range raw {
		if _, seen := g.rules[r.lhs]; !seen {
			g.nonTerminals = append(g.nonTerminals, r.lhs)
			g.rules[r.lhs] = nil
		}
	}

	for _, r := range raw {
		for _, alt := range r.alts {
			var symbols []Symbol
			for _, name := range alt {
				sym, err := g.classify(name)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", r.line, err)
				}
				symbols = append(symbols, sym)
			}
			g.rules[r.lhs] = append(g.rules[r.lhs], symbols)
		}
	}

	for _, lhs := range g.nonTerminals {
		d := buildDiagram(lhs, g.rules[lhs])
		g.diagrams[lhs] = d
		g.derivations[lhs] = d.Derive()
	}

	g.Compute()
	return g, nil
}

func (g *Grammar) classify(name string) (Symbol, error) {
	switch {
	case name == Epsilon:
		return Symbol{Kind: EpsilonSymbol, Name: name}, nil
	case strings.HasPrefix(name, ActionMarker) && len(name) > len(ActionMarker):
		actionName := strings.TrimPrefix(name, ActionMarker)
		a, ok := LookupAction(actionName)
		if !ok {
			return Symbol{}, fmt.Errorf("unknown action symbol %q", name)
		}
		return Symbol{Kind: ActionSymbol, Name: actionName, Action: a}, nil
	default:
		if _, ok := g.rules[name]; ok {
			return Symbol{Kind: NonTerminal, Name: name}, nil
		}
		return Symbol{Kind: Terminal, Name: name}, nil
	}
}

// NonTerminals lists non-terminals in order of first definition.
func (g *Grammar) NonTerminals() []string {
	return append([]string(nil), g.nonTerminals...)
}

// Terminals lists every terminal the rules mention, in order of first use.
func (g *Grammar) Terminals() []string {
	var terms []string
	seen := make(map[string]bool)
	for _, lhs := range g.nonTerminals {
		for _, alt := range g.rules[lhs] {
			for _, sym := range alt {
				if sym.IsTerminal() && !seen[sym.Name] {
					seen[sym.Name] = true
					terms = append(terms, sym.Name)
				}
			}
		}
	}
	return terms
}

// IsNonTerminal reports whether name has rules.
func (g *Grammar) IsNonTerminal(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// Diagram returns the transition diagram of lhs, or nil.
func (g *Grammar) Diagram(lhs string) *Diagram {
	return g.diagrams[lhs]
}

// Derive returns the label sequence of every alternative of lhs, in rule
// order.
func (g *Grammar) Derive(lhs string) [][]Symbol {
	return g.derivations[lhs]
}

// Actions lists the distinct actions the grammar uses.
func (g *Grammar) Actions() []Action {
	var actions []Action
	seen := make(map[Action]bool)
	for _, lhs := range g.nonTerminals {
		for _, alt := range g.rules[lhs] {
			for _, sym := range alt {
				if sym.IsAction() && !seen[sym.Action] {
					seen[sym.Action] = true
					actions = append(actions, sym.Action)
				}
			}
		}
	}
	return actions
}
