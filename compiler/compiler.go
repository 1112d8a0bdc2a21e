// Package compiler wires the scanner, parser and code generator into one
// compilation.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/strager/cminus/codegen"
	"github.com/strager/cminus/grammar"
	"github.com/strager/cminus/lexer"
	"github.com/strager/cminus/parser"
	"github.com/strager/cminus/tac"
)

// NoCode is written in place of the listing when code was not generated.
const NoCode = "The code has not been generated."

var ErrNoCode = errors.New("code was not generated")

type Options struct {
	// Grammar drives the parser. nil means the built-in C-minus grammar.
	Grammar *grammar.Grammar
	// Trace, when set, receives one line per dispatched action.
	Trace *log.Logger
}

// Result is everything one compilation produced.
type Result struct {
	Tree           *parser.Node
	Tokens         []lexer.Token
	LexicalErrors  lexer.Errors
	SyntaxErrors   parser.SyntaxErrors
	SemanticErrors codegen.SemanticErrors
	Program        *tac.Program
	// Symbols is the code generator's table after the last scope closed.
	Symbols []*codegen.Symbol
	// LexicalSymbols lists keywords and identifiers in first-seen order.
	LexicalSymbols []string
	Aborted        bool
}

// Compile translates src. Diagnostics never stop it; they are collected in
// the result.
func Compile(src []byte, opts Options) *Result {
	g := opts.Grammar
	if g == nil {
		g = grammar.Default()
	}

	scanner := lexer.NewScanner(src)
	tx := codegen.New()
	tx.Trace = opts.Trace
	parsed := parser.Parse(g, scanner, tx)

	// An aborted parse leaves input unread; scan it for the token and
	// lexical error listings.
	for scanner.NextToken().Kind != lexer.EOF {
	}

	return &Result{
		Tree:           parsed.Tree,
		Tokens:         scanner.Tokens,
		LexicalErrors:  scanner.Errors,
		SyntaxErrors:   parsed.Errors,
		SemanticErrors: tx.Errors(),
		Program:        &tx.Program,
		Symbols:        tx.Symbols.Entries(),
		LexicalSymbols: scanner.SymbolTable(),
		Aborted:        parsed.Aborted,
	}
}

// CompileFile reads and compiles the file at path.
func CompileFile(path string, opts Options) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return Compile(src, opts), nil
}

// CodeGenerated reports whether the program is usable: parsing finished
// without syntax errors and translation logged no semantic error.
func (r *Result) CodeGenerated() bool {
	return !r.Aborted && !r.SyntaxErrors.HasErrors() && !r.SemanticErrors.HasErrors()
}

// Listing returns the numbered instruction listing, or NoCode.
func (r *Result) Listing() string {
	if !r.CodeGenerated() {
		return NoCode
	}
	return r.Program.String()
}

// Run executes the generated program, writing PRINT output to out. A
// maxSteps of 0 uses tac.DefaultSteps.
func (r *Result) Run(out io.Writer, maxSteps int) error {
	if !r.CodeGenerated() {
		return ErrNoCode
	}
	m := tac.NewMachine(out)
	m.MaxSteps = maxSteps
	return m.Run(r.Program)
}

// LoadGrammar reads a grammar file and, when both are given, precomputed
// FIRST and FOLLOW set files. Empty paths keep the built-in grammar and
// computed sets.
func LoadGrammar(grammarPath, firstPath, followPath string) (*grammar.Grammar, error) {
	g := grammar.Default()
	if grammarPath != "" {
		f, err := os.Open(grammarPath)
		if err != nil {
			return nil, fmt.Errorf("opening grammar: %w", err)
		}
		defer f.Close()
		g, err = grammar.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parsing grammar %s: %w", grammarPath, err)
		}
	}

	if firstPath == "" && followPath == "" {
		return g, nil
	}
	if firstPath == "" || followPath == "" {
		return nil, fmt.Errorf("both FIRST and FOLLOW set files are needed")
	}
	first, err := os.Open(firstPath)
	if err != nil {
		return nil, fmt.Errorf("opening FIRST sets: %w", err)
	}
	defer first.Close()
	follow, err := os.Open(followPath)
	if err != nil {
		return nil, fmt.Errorf("opening FOLLOW sets: %w", err)
	}
	defer follow.Close()
	if err := g.LoadSets(first, follow); err != nil {
		return nil, fmt.Errorf("loading sets: %w", err)
	}
	return g, nil
}
