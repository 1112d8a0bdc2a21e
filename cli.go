package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/strager/cminus/compiler"
	"github.com/strager/cminus/lexer"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `cminus - A syntax-directed compiler for C-minus

Usage:
    cminus <command> [arguments]

Commands:
    compile <file>  Compile a C-minus file and write every report to a directory
    run <file>      Compile and execute a C-minus file
    check <file>    Report lexical, syntax and semantic errors
    tree <file>     Print the parse tree
    sets            Print the FIRST or FOLLOW sets of the grammar
    help            Show this help message

Examples:
    cminus compile -o out input.txt
    cminus run input.txt
    cminus check -v input.txt
    cminus sets -follow > follow.txt

Use "cminus <command> -h" for more information about a command.
`)
}

// grammarFlags are shared by every command that parses.
type grammarFlags struct {
	grammar *string
	first   *string
	follow  *string
	verbose *bool
}

func addGrammarFlags(fs *flag.FlagSet) grammarFlags {
	return grammarFlags{
		grammar: fs.String("grammar", "", "Read the grammar from `file` instead of the built-in one"),
		first:   fs.String("first", "", "Read precomputed FIRST sets from `file`"),
		follow:  fs.String("follow", "", "Read precomputed FOLLOW sets from `file`"),
		verbose: fs.Bool("v", false, "Trace every semantic action to stderr"),
	}
}

func (gf grammarFlags) options() (compiler.Options, error) {
	g, err := compiler.LoadGrammar(*gf.grammar, *gf.first, *gf.follow)
	if err != nil {
		return compiler.Options{}, err
	}
	opts := compiler.Options{Grammar: g}
	if *gf.verbose {
		opts.Trace = log.New(os.Stderr, "action: ", 0)
	}
	return opts, nil
}

// parseFileArgs parses args and returns the single file argument.
func parseFileArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func compileOrExit(filename string, gf grammarFlags) *compiler.Result {
	opts, err := gf.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grammar: %v\n", err)
		os.Exit(1)
	}
	res, err := compiler.CompileFile(filename, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return res
}

func compileCommand(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	outDir := fs.String("o", ".", "Write reports into `dir`")
	gf := addGrammarFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cminus compile [-o dir] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a C-minus file and write its reports\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	filename := parseFileArgs(fs, args)

	res := compileOrExit(filename, gf)
	if err := writeReports(*outDir, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing reports: %v\n", err)
		os.Exit(1)
	}
	if !res.CodeGenerated() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", filename, compiler.NoCode)
		os.Exit(1)
	}
}

// writeReports writes one file per compilation artifact into dir.
func writeReports(dir string, res *compiler.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	reports := []struct {
		name    string
		content string
	}{
		{"tokens.txt", lexer.Listing(res.Tokens)},
		{"lexical_errors.txt", res.LexicalErrors.String()},
		{"symbol_table.txt", symbolTableReport(res.LexicalSymbols)},
		{"parse_tree.txt", res.Tree.Render()},
		{"syntax_errors.txt", res.SyntaxErrors.String()},
		{"semantic_errors.txt", res.SemanticErrors.String()},
		{"output.txt", res.Listing()},
	}
	for _, r := range reports {
		path := filepath.Join(dir, r.name)
		if err := os.WriteFile(path, []byte(r.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func symbolTableReport(symbols []string) string {
	var out []byte
	for i, s := range symbols {
		out = fmt.Appendf(out, "%d.\t%s\n", i+1, s)
	}
	return string(out)
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	steps := fs.Int("steps", 0, "Stop after `n` instructions (0 means the default limit)")
	gf := addGrammarFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cminus run [-steps n] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile and execute a C-minus file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	filename := parseFileArgs(fs, args)

	res := compileOrExit(filename, gf)
	if !res.CodeGenerated() {
		reportErrors(os.Stderr, filename, res)
		os.Exit(1)
	}
	if err := res.Run(os.Stdout, *steps); err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	gf := addGrammarFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cminus check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Report lexical, syntax and semantic errors\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	filename := parseFileArgs(fs, args)

	res := compileOrExit(filename, gf)
	if res.LexicalErrors.HasErrors() || !res.CodeGenerated() {
		reportErrors(os.Stdout, filename, res)
		os.Exit(1)
	}
	fmt.Printf("%s: no errors found\n", filename)
}

func reportErrors(w io.Writer, filename string, res *compiler.Result) {
	if res.LexicalErrors.HasErrors() {
		fmt.Fprintf(w, "Lexical errors in %s:\n%s\n", filename, res.LexicalErrors.String())
	}
	if res.SyntaxErrors.HasErrors() {
		fmt.Fprintf(w, "Syntax errors in %s:\n%s\n", filename, res.SyntaxErrors.String())
	}
	if res.SemanticErrors.HasErrors() {
		fmt.Fprintf(w, "Semantic errors in %s:\n%s\n", filename, res.SemanticErrors.String())
	}
}

func treeCommand(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	sexpr := fs.Bool("sexpr", false, "Print the tree as an s-expression")
	gf := addGrammarFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cminus tree [-sexpr] <file>\n")
		fmt.Fprintf(os.Stderr, "Print the parse tree of a C-minus file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	filename := parseFileArgs(fs, args)

	res := compileOrExit(filename, gf)
	if *sexpr {
		fmt.Println(res.Tree.SExpr())
	} else {
		fmt.Print(res.Tree.Render())
	}
}

func setsCommand(args []string) {
	fs := flag.NewFlagSet("sets", flag.ExitOnError)
	follow := fs.Bool("follow", false, "Print FOLLOW sets instead of FIRST sets")
	grammarPath := fs.String("grammar", "", "Read the grammar from `file` instead of the built-in one")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cminus sets [-follow] [-grammar file]\n")
		fmt.Fprintf(os.Stderr, "Print the computed FIRST or FOLLOW sets\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	g, err := compiler.LoadGrammar(*grammarPath, "", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grammar: %v\n", err)
		os.Exit(1)
	}
	if err := g.WriteSets(os.Stdout, *follow); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile":
		compileCommand(args)
	case "run":
		runCommand(args)
	case "check":
		checkCommand(args)
	case "tree":
		treeCommand(args)
	case "sets":
		setsCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
