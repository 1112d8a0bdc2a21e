package sexy

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFence is the fence language holding a test's C-minus source.
const InputFence = "cminus"

// AssertionType represents the type of assertion code fence in a Sexy test
type AssertionType string

const (
	AssertionTypeTree           AssertionType = "tree"
	AssertionTypeCode           AssertionType = "code"
	AssertionTypeOutput         AssertionType = "output"
	AssertionTypeLexicalErrors  AssertionType = "lexical-errors"
	AssertionTypeSyntaxErrors   AssertionType = "syntax-errors"
	AssertionTypeSemanticErrors AssertionType = "semantic-errors"
)

var assertionTypes = []AssertionType{
	AssertionTypeTree,
	AssertionTypeCode,
	AssertionTypeOutput,
	AssertionTypeLexicalErrors,
	AssertionTypeSyntaxErrors,
	AssertionTypeSemanticErrors,
}

// Assertion represents a single assertion in a Sexy test
type Assertion struct {
	Type    AssertionType
	Content string // raw fence content, trailing newlines trimmed
	// ParsedSexy is set for tree assertions only.
	ParsedSexy *Node
	Line       int
}

// TestCase represents a complete Sexy test case extracted from Markdown
type TestCase struct {
	Name       string // heading text after "Test: "
	Input      string
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all Sexy test cases.
// A test case starts at a heading "Test: <name>" and owns every fence up to
// the next such heading.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	c := &collector{source: source}
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var err error
		switch n := node.(type) {
		case *ast.Heading:
			err = c.heading(n)
		case *ast.FencedCodeBlock:
			err = c.fence(n)
		}
		if err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := c.flush(); err != nil {
		return nil, err
	}
	return c.cases, nil
}

type collector struct {
	source  []byte
	cases   []TestCase
	current *TestCase
}

func (c *collector) heading(h *ast.Heading) error {
	name, ok := strings.CutPrefix(joinLines(h.Lines(), c.source), "Test: ")
	if !ok {
		return nil
	}
	if err := c.flush(); err != nil {
		return err
	}
	c.current = &TestCase{Name: strings.TrimSpace(name)}
	return nil
}

func (c *collector) fence(block *ast.FencedCodeBlock) error {
	language := string(block.Language(c.source))
	if language == "" {
		return nil
	}
	line := lineOf(block, c.source)
	content := strings.TrimRight(joinLines(block.Lines(), c.source), "\n")

	tc := c.current
	known := language == InputFence || isAssertionFence(language)
	switch {
	case tc == nil && known:
		return fmt.Errorf("line %d: %s fence found outside of test case", line, language)
	case tc == nil:
		return fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", line, language)
	case !known:
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, tc.Name)
	case language == InputFence:
		if tc.Input != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", line, tc.Name)
		}
		tc.Input = content
		return nil
	}

	assertion := Assertion{Type: AssertionType(language), Content: content, Line: line}
	if assertion.Type == AssertionTypeTree {
		parsed, err := Parse(content)
		if err != nil {
			return fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", line, tc.Name, err)
		}
		assertion.ParsedSexy = parsed
	}
	tc.Assertions = append(tc.Assertions, assertion)
	return nil
}

// flush closes the current test case. It needs an input and at least one
// assertion.
func (c *collector) flush() error {
	tc := c.current
	if tc == nil {
		return nil
	}
	c.current = nil
	switch {
	case tc.Input == "":
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	case len(tc.Assertions) == 0:
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	c.cases = append(c.cases, *tc)
	return nil
}

func joinLines(lines *text.Segments, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func isAssertionFence(language string) bool {
	return slices.Contains(assertionTypes, AssertionType(language))
}

// lineOf returns the 1-based line of a block's first content line.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
