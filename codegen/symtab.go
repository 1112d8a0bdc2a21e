package codegen

// Kind is the declared kind of a symbol.
type Kind string

const (
	KindInt      Kind = "int"
	KindArray    Kind = "int*"
	KindFunction Kind = "function"

	kindArgsStart Kind = "Args ->"
)

// Symbol is a symbol table entry. Functions carry a record and no address.
type Symbol struct {
	ID       string
	Kind     Kind
	Address  int
	Scope    int
	Function *Function
}

// Function is the record kept for a declared function.
type Function struct {
	// ReturnAddress holds the caller's resume index.
	ReturnAddress int
	// ReturnValue holds the result.
	ReturnValue int
	// EntryIndex is the first instruction a call jumps to.
	EntryIndex int
	// Args snapshots the parameter entries, in declaration order.
	Args []Symbol
}

// Table is the ordered symbol table. Entries are kept in declaration order
// and never sorted; lookups scan from the newest entry so inner
// declarations shadow outer ones.
type Table struct {
	entries []*Symbol
}

func (t *Table) Append(s *Symbol) {
	t.entries = append(t.entries, s)
}

// Entries returns the current entries in order.
func (t *Table) Entries() []*Symbol {
	return append([]*Symbol(nil), t.entries...)
}

// Lookup returns the most recent entry named id visible at scope, or nil.
func (t *Table) Lookup(id string, scope int) *Symbol {
	for i := len(t.entries) - 1; i >= 0; i-- {
		s := t.entries[i]
		if s.Kind != kindArgsStart && s.ID == id && s.Scope <= scope {
			return s
		}
	}
	return nil
}

// ByAddress returns the most recent variable stored at addr, or nil.
func (t *Table) ByAddress(addr int) *Symbol {
	for i := len(t.entries) - 1; i >= 0; i-- {
		s := t.entries[i]
		if (s.Kind == KindInt || s.Kind == KindArray) && s.Address == addr {
			return s
		}
	}
	return nil
}

// Functions returns every function record, oldest first.
func (t *Table) Functions() []*Symbol {
	var fns []*Symbol
	for _, s := range t.entries {
		if s.Kind == KindFunction {
			fns = append(fns, s)
		}
	}
	return fns
}

// PopScope removes every entry declared at exactly scope. Survivors keep
// their relative order.
func (t *Table) PopScope(scope int) {
	kept := t.entries[:0]
	for _, s := range t.entries {
		if s.Scope != scope {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = kept
}

// markArgs appends the sentinel that starts a parameter list.
func (t *Table) markArgs(scope int) {
	t.Append(&Symbol{ID: string(kindArgsStart), Kind: kindArgsStart, Address: -1, Scope: scope})
}

// takeArgs removes the newest parameter-list sentinel and returns copies of
// the entries declared after it, the sentinel's position and its scope. ok
// is false when there is no sentinel.
func (t *Table) takeArgs() (args []Symbol, at int, scope int, ok bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind != kindArgsStart {
			continue
		}
		for _, s := range t.entries[i+1:] {
			args = append(args, *s)
		}
		scope = t.entries[i].Scope
		t.entries = append(t.entries[:i], t.entries[i+1:]...)
		return args, i, scope, true
	}
	return nil, len(t.entries), 0, false
}

// insertAt places s at position i, shifting later entries up.
func (t *Table) insertAt(i int, s *Symbol) {
	t.entries = append(t.entries, nil)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = s
}
