package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Declarations

## Test: int variable
` + fence + `cminus
int x;
` + fence + `
` + fence + `tree
(Program (Declaration-list ...) (Statement-list epsilon) $)
` + fence + `

## Test: void variable
` + fence + `cminus
void x;
` + fence + `
` + fence + `semantic-errors
#1 : Semantic Error! Illegal type of void for 'x'.
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "int variable")
	be.Equal(t, tc1.Input, "int x;")
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeTree)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), "(Program (Declaration-list ...) (Statement-list epsilon) $)")

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "void variable")
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeSemanticErrors)
	be.Equal(t, tc2.Assertions[0].Content, "#1 : Semantic Error! Illegal type of void for 'x'.")
	be.True(t, tc2.Assertions[0].ParsedSexy == nil)
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := `## Test: everything
` + fence + `cminus
output(1);
` + fence + `
` + fence + `tree
(Program ...)
` + fence + `
` + fence + `code
0	PRINT #1
` + fence + `
` + fence + `output
PRINT 1
` + fence + `
` + fence + `lexical-errors
There is no lexical error.
` + fence + `
` + fence + `syntax-errors
There is no syntax error.
` + fence + `
` + fence + `semantic-errors
The input program is semantically correct.
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	var types []AssertionType
	for _, a := range testCases[0].Assertions {
		types = append(types, a.Type)
	}
	be.Equal(t, types, []AssertionType{
		AssertionTypeTree,
		AssertionTypeCode,
		AssertionTypeOutput,
		AssertionTypeLexicalErrors,
		AssertionTypeSyntaxErrors,
		AssertionTypeSemanticErrors,
	})
	be.Equal(t, testCases[0].Assertions[1].Content, "0\tPRINT #1")
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Some document

This is just regular markdown content.

## Regular heading

No test cases here.`

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_InvalidSexyAssertion(t *testing.T) {
	markdown := `## Test: invalid sexy
` + fence + `cminus
int x;
` + fence + `
` + fence + `tree
(unclosed list
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "failed to parse Sexy assertion")
	be.Err(t, err, "line 6")
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	for _, language := range []string{"cminus", "tree", "code", "output", "syntax-errors"} {
		t.Run(language, func(t *testing.T) {
			markdown := "# Document\n\n" + fence + language + "\nint x;\n" + fence + "\n"
			_, err := ExtractTestCases(markdown)
			be.Err(t, err, language+" fence found outside of test case")
			be.Err(t, err, "line 4")
		})
	}
}

func TestExtractTestCases_UnknownFenceOutsideTest(t *testing.T) {
	markdown := `# Document with unknown code block

` + fence + `go
func main() {}
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "unknown fence language 'go' found outside of test case")
}

func TestExtractTestCases_UnknownFenceInTest(t *testing.T) {
	markdown := `## Test: with unknown fence
` + fence + `cminus
int x;
` + fence + `
` + fence + `python
print("hello")
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "unknown fence language 'python' in test 'with unknown fence'")
}

func TestExtractTestCases_TestMissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + fence + `output
PRINT 1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no input' has no input fence")
}

func TestExtractTestCases_TestMissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertions
` + fence + `cminus
int x;
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no assertions' has no assertion fences")
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: multiple inputs
` + fence + `cminus
int x;
` + fence + `
` + fence + `cminus
int y;
` + fence + `
` + fence + `output
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "multiple input fences found in test 'multiple inputs'")
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := `# Document with generic code block

` + fence + `
some text without language
` + fence + `

## Test: valid test
` + fence + `cminus
int x;
` + fence + `
` + fence + `syntax-errors
There is no syntax error.
` + fence + `

` + fence + `
more text without language in test
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "int x;")
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_ErrorInSecondTest(t *testing.T) {
	markdown := `## Test: first test
` + fence + `cminus
int x;
` + fence + `
` + fence + `output
` + fence + `

## Test: second test missing input
` + fence + `output
PRINT 1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'second test missing input' has no input fence")
}

func TestExtractTestCases_MultilineInput(t *testing.T) {
	markdown := `## Test: function
` + fence + `cminus
void main(void) {
  output(7);
}
` + fence + `
` + fence + `output
PRINT 7
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Input, "void main(void) {\n  output(7);\n}")
	be.True(t, strings.HasSuffix(testCases[0].Assertions[0].Content, "PRINT 7"))
	be.Equal(t, testCases[0].Assertions[0].Line, 8)
}

func TestExtractTestCases_PlainHeadingKeepsTestOpen(t *testing.T) {
	markdown := `## Test: with notes
` + fence + `cminus
int x;
` + fence + `

### Notes

` + fence + `semantic-errors
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Name, "with notes")
	be.Equal(t, len(testCases[0].Assertions), 1)
	be.Equal(t, testCases[0].Assertions[0].Type, AssertionTypeSemanticErrors)
}
