package grammar

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// First returns FIRST(name) for a non-terminal.
func (g *Grammar) First(name string) Set {
	return g.first[name]
}

// Follow returns FOLLOW(name) for a non-terminal.
func (g *Grammar) Follow(name string) Set {
	return g.follow[name]
}

// FirstOf computes FIRST of a symbol sequence, expanding non-terminals up to
// the first one that cannot derive epsilon. Action symbols are transparent.
// The result contains Epsilon when the whole sequence can vanish.
func (g *Grammar) FirstOf(seq []Symbol) Set {
	out := make(Set)
	for _, sym := range seq {
		switch sym.Kind {
		case ActionSymbol, EpsilonSymbol:
			continue
		case Terminal:
			out[sym.Name] = true
			return out
		case NonTerminal:
			first := g.first[sym.Name]
			out.add(first, false)
			if !first.Has(Epsilon) {
				return out
			}
		}
	}
	out[Epsilon] = true
	return out
}

// Compute derives FIRST and FOLLOW from the rules by fixed-point iteration.
func (g *Grammar) Compute() {
	g.first = make(map[string]Set, len(g.nonTerminals))
	g.follow = make(map[string]Set, len(g.nonTerminals))
	for _, lhs := range g.nonTerminals {
		g.first[lhs] = make(Set)
		g.follow[lhs] = make(Set)
	}

	for changed := true; changed; {
		changed = false
		for _, lhs := range g.nonTerminals {
			for _, alt := range g.rules[lhs] {
				if g.first[lhs].add(g.FirstOf(alt), true) {
					changed = true
				}
			}
		}
	}

	g.follow[g.Start][End] = true
	for changed := true; changed; {
		changed = false
		for _, lhs := range g.nonTerminals {
			for _, alt := range g.rules[lhs] {
				for i, sym := range alt {
					if !sym.IsNonTerminal() {
						continue
					}
					rest := g.FirstOf(alt[i+1:])
					if g.follow[sym.Name].add(rest, false) {
						changed = true
					}
					if rest.Has(Epsilon) && g.follow[sym.Name].add(g.follow[lhs], false) {
						changed = true
					}
				}
			}
		}
	}
}

// LoadSets replaces the computed sets with precomputed ones. Each reader
// holds one "NonTerminal sym sym ..." line per non-terminal.
func (g *Grammar) LoadSets(first, follow io.Reader) error {
	firstSets, err := g.readSets(first)
	if err != nil {
		return fmt.Errorf("reading FIRST sets: %w", err)
	}
	followSets, err := g.readSets(follow)
	if err != nil {
		return fmt.Errorf("reading FOLLOW sets: %w", err)
	}
	for _, lhs := range g.nonTerminals {
		if firstSets[lhs] == nil {
			return fmt.Errorf("no FIRST set for %s", lhs)
		}
		if followSets[lhs] == nil {
			return fmt.Errorf("no FOLLOW set for %s", lhs)
		}
	}
	g.first, g.follow = firstSets, followSets
	return nil
}

func (g *Grammar) readSets(r io.Reader) (map[string]Set, error) {
	sets := make(map[string]Set)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if !g.IsNonTerminal(name) {
			return nil, fmt.Errorf("line %d: %q is not a non-terminal", lineNum, name)
		}
		set := make(Set)
		for _, member := range fields[1:] {
			set[member] = true
		}
		sets[name] = set
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// WriteSets writes sets in the format LoadSets reads, one line per
// non-terminal in definition order with members sorted.
func (g *Grammar) WriteSets(w io.Writer, follow bool) error {
	sets := g.first
	if follow {
		sets = g.follow
	}
	for _, lhs := range g.nonTerminals {
		members := make([]string, 0, len(sets[lhs]))
		for m := range sets[lhs] {
			members = append(members, m)
		}
		sort.Strings(members)
		if _, err := fmt.Fprintf(w, "%s %s\n", lhs, strings.Join(members, " ")); err != nil {
			return err
		}
	}
	return nil
}
