// record_tests rewrites the expected fences of Markdown test files from what
// the compiler currently produces. Tree fences hold hand-written patterns and
// are left alone.
//
// Usage: go run scripts/record_tests.go test/*_test.md
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/strager/cminus/compiler"
	"github.com/strager/cminus/sexy"
)

type Recorder struct {
	cases []sexy.TestCase
	next  int
}

func NewRecorder(markdown string) (*Recorder, error) {
	cases, err := sexy.ExtractTestCases(markdown)
	if err != nil {
		return nil, err
	}
	return &Recorder{cases: cases}, nil
}

// Rewrite returns markdown with every recordable fence refreshed.
func (r *Recorder) Rewrite(markdown string) (string, error) {
	var out []string
	var res *compiler.Result
	lines := strings.Split(markdown, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		out = append(out, line)

		if strings.HasPrefix(line, "## Test: ") {
			if r.next >= len(r.cases) {
				return "", fmt.Errorf("line %d: more tests than extracted", i+1)
			}
			tc := r.cases[r.next]
			r.next++
			res = compiler.Compile([]byte(tc.Input+"\n"), compiler.Options{})
			continue
		}

		language, ok := strings.CutPrefix(line, "```")
		if !ok || language == "" || res == nil {
			continue
		}
		// Find the closing fence.
		end := i + 1
		for end < len(lines) && lines[end] != "```" {
			end++
		}
		if end == len(lines) {
			return "", fmt.Errorf("line %d: unclosed fence", i+1)
		}
		recorded, ok := record(sexy.AssertionType(language), res)
		if ok {
			out = append(out, recorded)
		} else {
			out = append(out, lines[i+1:end]...)
		}
		out = append(out, "```")
		i = end
	}
	return strings.Join(out, "\n"), nil
}

func record(kind sexy.AssertionType, res *compiler.Result) (string, bool) {
	switch kind {
	case sexy.AssertionTypeCode:
		return strings.TrimRight(res.Listing(), "\n"), true
	case sexy.AssertionTypeOutput:
		var out bytes.Buffer
		if err := res.Run(&out, 0); err != nil {
			return err.Error(), true
		}
		return strings.TrimRight(out.String(), "\n"), true
	case sexy.AssertionTypeLexicalErrors:
		return res.LexicalErrors.String(), true
	case sexy.AssertionTypeSyntaxErrors:
		return res.SyntaxErrors.String(), true
	case sexy.AssertionTypeSemanticErrors:
		return res.SemanticErrors.String(), true
	default:
		return "", false
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/record_tests.go <file.md>...\n")
		os.Exit(1)
	}

	for _, filename := range os.Args[1:] {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		recorder, err := NewRecorder(string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", filename, err)
			os.Exit(1)
		}
		rewritten, err := recorder.Rewrite(string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", filename, err)
			os.Exit(1)
		}
		if err := os.WriteFile(filename, []byte(rewritten), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
