package sexy

import (
	"fmt"
	"strings"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
	NodeArray
)

// Node represents any Sexy datum
type Node struct {
	Type NodeType

	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList, NodeArray
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", escaped)
	case NodeEllipsis:
		return "..."
	case NodeList:
		return "(" + joinItems(n.Items) + ")"
	case NodeArray:
		return "[" + joinItems(n.Items) + "]"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func joinItems(items []*Node) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items []*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewArray(items []*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type == NodeSymbol || n.Type == NodeString || n.Type == NodeInteger || n.Type == NodeEllipsis
}

// Parse reads exactly one datum from input.
func Parse(input string) (*Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	r := &reader{tokens: tokens}
	node, err := r.datum()
	if err != nil {
		return nil, err
	}
	if tok := r.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s", tok.kind)
	}
	return node, nil
}

type reader struct {
	tokens []token
	pos    int
}

// peek returns the current token; past the end it is EOF.
func (r *reader) peek() token {
	if r.pos >= len(r.tokens) {
		return token{kind: tokenEOF}
	}
	return r.tokens[r.pos]
}

func (r *reader) datum() (*Node, error) {
	tok := r.peek()
	r.pos++
	switch tok.kind {
	case tokenSymbol:
		return NewSymbol(tok.text), nil
	case tokenString:
		return NewString(tok.text), nil
	case tokenInteger:
		return NewInteger(tok.text), nil
	case tokenEllipsis:
		return NewEllipsis(), nil
	case tokenLParen:
		items, err := r.items(tokenRParen)
		if err != nil {
			return nil, err
		}
		return NewList(items), nil
	case tokenLBracket:
		items, err := r.items(tokenRBracket)
		if err != nil {
			return nil, err
		}
		return NewArray(items), nil
	}
	return nil, fmt.Errorf("unexpected token: %s", tok.kind)
}

func (r *reader) items(closing tokenKind) ([]*Node, error) {
	var items []*Node
	for {
		switch r.peek().kind {
		case closing:
			r.pos++
			return items, nil
		case tokenEOF:
			return nil, fmt.Errorf("expected %s but got EOF", closing)
		}
		item, err := r.datum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
)

var tokenNames = [...]string{
	tokenEOF:      "EOF",
	tokenSymbol:   "symbol",
	tokenString:   "string",
	tokenInteger:  "integer",
	tokenEllipsis: "ellipsis",
	tokenLParen:   "'('",
	tokenRParen:   "')'",
	tokenLBracket: "'['",
	tokenRBracket: "']'",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("unknown token %d", int(k))
}

type token struct {
	kind tokenKind
	text string
}

var punctuation = map[byte]tokenKind{
	'(': tokenLParen,
	')': tokenRParen,
	'[': tokenLBracket,
	']': tokenRBracket,
}

// tokenize splits input into tokens. The first malformed token aborts.
func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c == ';':
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case punctuation[c] != tokenEOF:
			tokens = append(tokens, token{kind: punctuation[c], text: string(c)})
			i++
		case c == '"':
			text, n, err := scanString(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: text})
			i += n
		case strings.HasPrefix(input[i:], "..."):
			tokens = append(tokens, token{kind: tokenEllipsis, text: "..."})
			i += 3
		case c == '$':
			// End marker of a parse tree.
			tokens = append(tokens, token{kind: tokenSymbol, text: "$"})
			i++
		case isDigit(c) || (isSign(c) && i+1 < len(input) && isDigit(input[i+1])):
			end := i + 1
			for end < len(input) && isDigit(input[end]) {
				end++
			}
			tokens = append(tokens, token{kind: tokenInteger, text: input[i:end]})
			i = end
		case isLetter(c) || isSign(c):
			end := i + 1
			for end < len(input) && isSymbolChar(input[end]) {
				end++
			}
			tokens = append(tokens, token{kind: tokenSymbol, text: input[i:end]})
			i = end
		default:
			return nil, fmt.Errorf("unexpected character '%c'", c)
		}
	}
	return tokens, nil
}

// scanString reads a quoted string at the start of s and returns its
// unescaped text and the number of bytes consumed.
func scanString(s string) (string, int, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			i++
			if i == len(s) {
				return "", 0, fmt.Errorf("unterminated string")
			}
			if s[i] != '"' && s[i] != '\\' {
				return "", 0, fmt.Errorf("invalid escape sequence: \\%c", s[i])
			}
			sb.WriteByte(s[i])
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isSymbolChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_' || c == '\''
}
