package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	node, err := Parse(input)
	be.Err(t, err, nil)
	return node
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
	}{
		{"identical atoms", "x", "x"},
		{"identical strings", `"int"`, `"int"`},
		{"ellipsis matches atom", "...", "x"},
		{"ellipsis matches list", "...", "(a (b c))"},
		{"ellipsis matches empty run", "(a ... b)", "(a b)"},
		{"ellipsis matches long run", "(a ... b)", "(a 1 2 3 b)"},
		{"leading ellipsis", "(... $)", "(Program (Declaration-list epsilon) $)"},
		{"two ellipses", "(... x ...)", "(a b x c)"},
		{"nested", `(Expression "x" (B "=" ...))`, `(Expression "x" (B "=" (Expression "1")))`},
		{"arrays", "[1 ...]", "[1 2 3]"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Match(mustParse(t, test.pattern), mustParse(t, test.value))
			be.Err(t, err, nil)
		})
	}
}

func TestMatchMismatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		value    string
		expected string
	}{
		{"different symbols", "x", "y", "at root: expected x, got y"},
		{"symbol versus string", "x", `"x"`, `at root: expected x, got "x"`},
		{"list versus array", "(a)", "[a]", "at root: expected (a), got [a]"},
		{"deep mismatch", "(a (b c))", "(a (b d))", "at root[1][1]: expected c, got d"},
		{"too few items", "(a b c)", "(a b)", "at root: expected (a b c), got (a b)"},
		{"unmatched tail", "(a ... c)", "(a b d)", "at root: expected (a ... c), got (a b d)"},
		{"ellipsis in same-length list", "(x ... (y z))", "(x w (y q))", "at root: expected (x ... (y z)), got (x w (y q))"},
		{"deep mismatch beside ellipsis", "(a (... c))", "(a (b d))", "at root[1]: expected (... c), got (b d)"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Match(mustParse(t, test.pattern), mustParse(t, test.value))
			be.Err(t, err)
			be.Equal(t, err.Error(), test.expected)
		})
	}
}
