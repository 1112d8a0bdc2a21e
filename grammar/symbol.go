package grammar

const (
	// ActionMarker prefixes action symbols in grammar text.
	ActionMarker = "#"
	// Epsilon is the empty-alternative marker.
	Epsilon = "EPSILON"
	// End is the end-of-input terminal.
	End = "$"
)

// SymbolKind classifies a grammar symbol.
type SymbolKind uint8

const (
	Terminal SymbolKind = iota
	NonTerminal
	ActionSymbol
	EpsilonSymbol
)

// Symbol is one label on a diagram transition.
type Symbol struct {
	Kind   SymbolKind
	Name   string
	Action Action // ActionSymbol only
}

func (s Symbol) IsTerminal() bool    { return s.Kind == Terminal }
func (s Symbol) IsNonTerminal() bool { return s.Kind == NonTerminal }
func (s Symbol) IsAction() bool      { return s.Kind == ActionSymbol }
func (s Symbol) IsEpsilon() bool     { return s.Kind == EpsilonSymbol }

// IsEnd reports whether s is the end-of-input terminal.
func (s Symbol) IsEnd() bool {
	return s.Kind == Terminal && s.Name == End
}

func (s Symbol) String() string {
	if s.Kind == ActionSymbol {
		return ActionMarker + s.Name
	}
	return s.Name
}

// Set is a set of terminal names, possibly containing Epsilon or End.
type Set map[string]bool

func (s Set) Has(name string) bool {
	return s[name]
}

// add merges other into s and reports whether s grew.
func (s Set) add(other Set, withEpsilon bool) bool {
	grew := false
	for name := range other {
		if name == Epsilon && !withEpsilon {
			continue
		}
		if !s[name] {
			s[name] = true
			grew = true
		}
	}
	return grew
}
