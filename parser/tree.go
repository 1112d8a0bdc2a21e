package parser

import (
	"strconv"
	"strings"

	"github.com/strager/cminus/lexer"
)

// Node is a parse-tree node. Interior nodes are non-terminals; leaves are
// matched tokens, epsilon, or the end marker.
type Node struct {
	Name     string
	Token    *lexer.Token // matched terminal leaves only
	Children []*Node
}

const epsilonLeaf = "epsilon"

func (n *Node) addChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Render draws the tree one node per line with box-drawing indentation.
func (n *Node) Render() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(n.Name)
	sb.WriteString("\n")
	n.renderChildren(&sb, "")
	return sb.String()
}

func (n *Node) renderChildren(sb *strings.Builder, prefix string) {
	for i, child := range n.Children {
		branch, indent := "├── ", "│   "
		if i == len(n.Children)-1 {
			branch, indent = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(child.Name)
		sb.WriteString("\n")
		child.renderChildren(sb, prefix+indent)
	}
}

// SExpr renders the tree as an s-expression: non-terminals as lists headed
// by their name, matched tokens as strings of their text, epsilon and $ as
// bare symbols.
func (n *Node) SExpr() string {
	if n == nil {
		return "nil"
	}
	if n.Token != nil {
		if n.Token.Kind == lexer.EOF {
			return lexer.EndMarker
		}
		return strconv.Quote(n.Token.Text)
	}
	if n.Name == epsilonLeaf {
		return epsilonLeaf
	}
	parts := []string{n.Name}
	for _, child := range n.Children {
		parts = append(parts, child.SExpr())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
