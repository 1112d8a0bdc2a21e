package parser

import (
	"github.com/strager/cminus/grammar"
	"github.com/strager/cminus/lexer"
)

// TokenSource produces tokens on demand. Whitespace and comments are never
// surfaced; after end of input it keeps returning the EOF token.
type TokenSource interface {
	NextToken() lexer.Token
}

// Translator receives action symbols as the parser reaches them, together
// with the current lookahead. It runs to completion before parsing resumes.
type Translator interface {
	Dispatch(action grammar.Action, lookahead lexer.Token)
}

// Result is the outcome of one parse.
type Result struct {
	Tree   *Node
	Errors SyntaxErrors
	// Aborted is set when input ended with grammar symbols still pending.
	Aborted bool
}

type frame struct {
	sym    grammar.Symbol
	parent *Node
}

type parser struct {
	g         *grammar.Grammar
	src       TokenSource
	tr        Translator
	lookahead lexer.Token
	stack     []frame
	root      *Node
	errors    SyntaxErrors
}

// Parse runs the predictive parser over src. Every action symbol is handed
// to tr (which may be nil) at the point it is reached.
func Parse(g *grammar.Grammar, src TokenSource, tr Translator) *Result {
	p := &parser{g: g, src: src, tr: tr}
	p.stack = []frame{
		{sym: grammar.Symbol{Kind: grammar.Terminal, Name: grammar.End}},
		{sym: grammar.Symbol{Kind: grammar.NonTerminal, Name: g.Start}},
	}
	p.advance()

	aborted := p.run()
	if !aborted {
		p.finish()
	}
	return &Result{Tree: p.root, Errors: p.errors, Aborted: aborted}
}

func (p *parser) advance() {
	p.lookahead = p.src.NextToken()
}

func (p *parser) errorf(message string) {
	p.errors = append(p.errors, SyntaxError{Line: p.lookahead.Line, Message: message})
}

func (p *parser) top() frame {
	return p.stack[len(p.stack)-1]
}

func (p *parser) pop() frame {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

// attach creates a tree node under parent, or the root if there is none.
func (p *parser) attach(parent *Node, n *Node) *Node {
	if parent == nil {
		if p.root == nil {
			p.root = n
		}
		return n
	}
	return parent.addChild(n)
}

// run drives the stack until the end marker surfaces. It reports true if
// parsing was abandoned at an unexpected end of input.
func (p *parser) run() bool {
	for !p.top().sym.IsEnd() {
		f := p.top()
		switch f.sym.Kind {
		case grammar.ActionSymbol:
			if p.tr != nil {
				p.tr.Dispatch(f.sym.Action, p.lookahead)
			}
			p.pop()

		case grammar.EpsilonSymbol:
			p.attach(f.parent, &Node{Name: epsilonLeaf})
			p.pop()

		case grammar.Terminal:
			if f.sym.Name == p.lookahead.Terminal() {
				tok := p.lookahead
				p.attach(f.parent, &Node{Name: tok.String(), Token: &tok})
				p.pop()
				p.advance()
			} else {
				p.errorf("missing " + f.sym.Name)
				p.pop()
			}

		case grammar.NonTerminal:
			if !p.expand(f) {
				return true
			}
		}
	}
	return false
}

// expand replaces a non-terminal on top of the stack by one of its
// alternatives, or recovers. It reports false when parsing must stop.
func (p *parser) expand(f frame) bool {
	name := f.sym.Name
	terminal := p.lookahead.Terminal()
	alternatives := p.g.Derive(name)

	chosen := -1
	for i, alt := range alternatives {
		if p.g.FirstOf(alt).Has(terminal) {
			chosen = i
			break
		}
	}
	if chosen < 0 && p.g.Follow(name).Has(terminal) {
		for i, alt := range alternatives {
			if p.g.FirstOf(alt).Has(grammar.Epsilon) {
				chosen = i
				break
			}
		}
	}

	if chosen < 0 {
		switch {
		case p.lookahead.Kind == lexer.EOF && len(p.stack) > 1:
			p.errorf("Unexpected EOF")
			return false
		case p.g.Follow(name).Has(terminal):
			p.errorf("missing " + name)
			p.pop()
		default:
			p.errorf("illegal " + terminal)
			p.advance()
		}
		return true
	}

	p.pop()
	node := p.attach(f.parent, &Node{Name: name})
	alt := alternatives[chosen]
	for i := len(alt) - 1; i >= 0; i-- {
		p.stack = append(p.stack, frame{sym: alt[i], parent: node})
	}
	return true
}

// finish skips anything after the program and attaches the end marker
// leaf when the start rule ends in one.
func (p *parser) finish() {
	for p.lookahead.Kind != lexer.EOF {
		p.errorf("illegal " + p.lookahead.Terminal())
		p.advance()
	}
	if f := p.top(); f.parent != nil {
		tok := p.lookahead
		p.attach(f.parent, &Node{Name: lexer.EndMarker, Token: &tok})
	}
}
