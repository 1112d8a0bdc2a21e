package lexer

import (
	"fmt"
	"strings"
)

// Kind is the lexical category of a token.
type Kind string

const (
	NUM     Kind = "NUM"
	ID      Kind = "ID"
	KEYWORD Kind = "KEYWORD"
	SYMBOL  Kind = "SYMBOL"
	EOF     Kind = "EOF"
)

// EndMarker is the terminal name of the end-of-input sentinel.
const EndMarker = "$"

var keywords = []string{"if", "else", "void", "int", "repeat", "break", "until", "return"}

// Token is one lexeme surfaced to the parser.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// Terminal returns the name the grammar uses for this token: NUM and ID for
// numbers and identifiers, the text itself for keywords and symbols, and $
// at end of input.
func (t Token) Terminal() string {
	switch t.Kind {
	case NUM, ID:
		return string(t.Kind)
	case EOF:
		return EndMarker
	default:
		return t.Text
	}
}

func (t Token) String() string {
	if t.Kind == EOF {
		return EndMarker
	}
	return fmt.Sprintf("(%s, %s)", t.Kind, t.Text)
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	for _, k := range keywords {
		if k == word {
			return true
		}
	}
	return false
}

// Keywords returns the reserved words in their canonical order.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

// Listing groups tokens by line: "3.\t(KEYWORD, int) (ID, x) ".
func Listing(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i == 0 || tokens[i-1].Line != t.Line {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%d.\t", t.Line)
		}
		sb.WriteString(t.String())
		sb.WriteString(" ")
	}
	return sb.String()
}
