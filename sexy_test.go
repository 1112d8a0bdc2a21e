package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/cminus/compiler"
	"github.com/strager/cminus/sexy"
)

func TestSexyAllTests(t *testing.T) {
	// Find all test files in the test/ directory
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					res := compiler.Compile([]byte(tc.Input+"\n"), compiler.Options{})
					for _, assertion := range tc.Assertions {
						t.Run(string(assertion.Type), func(t *testing.T) {
							checkAssertion(t, res, assertion)
						})
					}
				})
			}
		})
	}
}

func checkAssertion(t *testing.T, res *compiler.Result, assertion sexy.Assertion) {
	switch assertion.Type {
	case sexy.AssertionTypeTree:
		tree, err := sexy.Parse(res.Tree.SExpr())
		be.Err(t, err, nil)
		if err := sexy.Match(assertion.ParsedSexy, tree); err != nil {
			t.Errorf("line %d: %v\ntree: %s", assertion.Line, err, tree)
		}
	case sexy.AssertionTypeCode:
		be.Equal(t, strings.TrimRight(res.Listing(), "\n"), assertion.Content)
	case sexy.AssertionTypeOutput:
		var out bytes.Buffer
		be.Err(t, res.Run(&out, 0), nil)
		be.Equal(t, strings.TrimRight(out.String(), "\n"), assertion.Content)
	case sexy.AssertionTypeLexicalErrors:
		be.Equal(t, trimLines(res.LexicalErrors.String()), trimLines(assertion.Content))
	case sexy.AssertionTypeSyntaxErrors:
		be.Equal(t, res.SyntaxErrors.String(), assertion.Content)
	case sexy.AssertionTypeSemanticErrors:
		be.Equal(t, res.SemanticErrors.String(), assertion.Content)
	default:
		t.Fatalf("unknown assertion type: %s", assertion.Type)
	}
}

// trimLines drops trailing spaces, which Markdown editors tend to strip.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
