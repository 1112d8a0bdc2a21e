package codegen

import (
	"bytes"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/cminus/grammar"
	"github.com/strager/cminus/lexer"
	"github.com/strager/cminus/parser"
	"github.com/strager/cminus/tac"
)

func translate(t *testing.T, src string) *Translation {
	t.Helper()
	tx := New()
	res := parser.Parse(grammar.Default(), lexer.NewScanner([]byte(src)), tx)
	be.True(t, !res.Errors.HasErrors())
	return tx
}

func listing(p *tac.Program) []string {
	var out []string
	for _, inst := range p.Instructions() {
		out = append(out, inst.String())
	}
	return out
}

func messages(errs SemanticErrors) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.String())
	}
	return out
}

func run(t *testing.T, tx *Translation) (string, *tac.Machine) {
	t.Helper()
	var out bytes.Buffer
	m := tac.NewMachine(&out)
	m.MaxSteps = 10000
	be.Err(t, m.Run(&tx.Program), nil)
	return out.String(), m
}

func TestEveryActionHasRoutine(t *testing.T) {
	for a := grammar.ActionNone + 1; a < grammar.NumActions; a++ {
		be.True(t, routines[a] != nil)
	}
}

func TestAllocateIsMonotonic(t *testing.T) {
	tx := New()
	prev := 0
	for i := 0; i < 20; i++ {
		addr := tx.allocate(1 + i%3)
		be.True(t, addr > prev)
		be.Equal(t, addr%WordSize, 0)
		prev = addr
	}
	be.Equal(t, tx.allocate(1), DataStart+WordSize*39)
}

func TestAssignSum(t *testing.T) {
	tx := translate(t, "int x; x = 5 + 3;")

	be.Equal(t, len(tx.Errors()), 0)
	be.Equal(t, listing(&tx.Program), []string{
		"ASSIGN #0 500",
		"ASSIGN #0 504",
		"ADD #5 #3 504",
		"ASSIGN 504 500",
	})
	be.Equal(t, tx.Stack.Len(), 0)
}

func TestVoidVariable(t *testing.T) {
	tx := translate(t, "void x;")

	be.Equal(t, messages(tx.Errors()), []string{"#1 : Semantic Error! Illegal type of void for 'x'."})
}

func TestVoidParameter(t *testing.T) {
	tx := translate(t, "int f(int a, void b) { return a; }")

	be.Equal(t, messages(tx.Errors()), []string{"#1 : Semantic Error! Illegal type of void for 'b'."})
}

func TestFunctionCalledTwice(t *testing.T) {
	tx := translate(t, "int f(void){return 1;} int main(void){f(); f();}")

	be.Equal(t, len(tx.Errors()), 0)
	be.Equal(t, len(tx.Symbols.Functions()), 2)
	f := tx.Symbols.Lookup("f", 0)
	be.Equal(t, f.Function.EntryIndex, 3)

	calls := 0
	for _, line := range listing(&tx.Program) {
		if line == "JP 3" {
			calls++
		}
	}
	be.Equal(t, calls, 2)
}

func TestBreakOutsideLoop(t *testing.T) {
	tx := translate(t, "break;")

	be.Equal(t, messages(tx.Errors()), []string{"#1 : Semantic Error! No 'repeat ... until' found for 'break'."})
}

func TestArrayBoundsNotChecked(t *testing.T) {
	tx := translate(t, "int a[3]; a[5]=1;")

	be.Equal(t, len(tx.Errors()), 0)
}

func TestUndefinedName(t *testing.T) {
	tx := translate(t, "void main(void) {\n  x = 1;\n}")

	be.Equal(t, messages(tx.Errors()), []string{"#2 : Semantic Error! 'x' is not defined."})
}

func TestBreakPatches(t *testing.T) {
	tx := translate(t, "repeat { break; break; } until (0)")

	be.Equal(t, len(tx.Errors()), 0)
	be.Equal(t, listing(&tx.Program), []string{
		"JP 3",
		"JP 3",
		"JPF #0 0",
	})
}

func TestNestedBreakTargetsInnerLoop(t *testing.T) {
	tx := translate(t, "repeat {\n repeat break; until (1)\n break;\n} until (0)")

	be.Equal(t, len(tx.Errors()), 0)
	be.Equal(t, listing(&tx.Program), []string{
		"JP 2",
		"JPF #1 0",
		"JP 4",
		"JPF #0 0",
	})
}

func TestLoopRuns(t *testing.T) {
	tx := translate(t, `
int i;
i = 0;
repeat {
  i = i + 1;
  if (i == 3) break; else ;
} until (i == 5)
output(i);
`)

	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 3\n")
}

func TestReturnPatches(t *testing.T) {
	tx := translate(t, `
int f(int x) {
  if (x < 5) return 1; else return 2;
}
void main(void) {
  output(f(3));
  output(f(7));
}
`)

	be.Equal(t, len(tx.Errors()), 0)
	code := listing(&tx.Program)
	be.Equal(t, code[0], "JP 13")
	be.Equal(t, code[6:13], []string{
		"JPF 512 10",
		"ASSIGN #1 508",
		"JP @504",
		"JP 12",
		"ASSIGN #2 508",
		"JP @504",
		"JP @504",
	})

	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 1\nPRINT 2\n")
	be.Equal(t, tx.Stack.Len(), 0)
}

func TestCallPassesArguments(t *testing.T) {
	tx := translate(t, `
int f(int x) { return x * 2; }
void main(void) { output(f(5)); }
`)

	be.Equal(t, len(tx.Errors()), 0)
	code := listing(&tx.Program)
	be.Equal(t, code[12:18], []string{
		"ASSIGN #5 500",
		"ASSIGN #15 504",
		"JP 4",
		"ASSIGN #0 524",
		"ASSIGN 508 524",
		"PRINT 524",
	})

	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 10\n")
}

func TestReturnFromMain(t *testing.T) {
	tx := translate(t, `
void main(void) {
  output(1);
  return;
  output(2);
}
output(3);
`)

	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 1\nPRINT 3\n")
}

func TestArrayRoundTrip(t *testing.T) {
	tx := translate(t, `
int a[3];
void main(void) {
  a[2] = 9;
  output(a[2]);
}
`)

	be.Equal(t, len(tx.Errors()), 0)
	out, m := run(t, tx)
	be.Equal(t, out, "PRINT 9\n")

	header := tx.Symbols.Lookup("a", 0).Address
	base := m.Memory[header]
	be.Equal(t, base, header+WordSize)
	be.Equal(t, m.Memory[base+2*WordSize], 9)
}

func TestArrayIndexCode(t *testing.T) {
	tx := translate(t, "int a[2]; a[1] = 7;")

	be.Equal(t, listing(&tx.Program), []string{
		"ASSIGN #0 500",
		"ASSIGN #0 504",
		"ASSIGN #0 508",
		"ASSIGN #504 500",
		"ASSIGN #0 512",
		"ASSIGN #0 516",
		"MULT #1 #4 512",
		"ASSIGN 500 516",
		"ADD 516 512 516",
		"ASSIGN #7 @516",
	})
}

func TestArrayParameter(t *testing.T) {
	tx := translate(t, `
int first(int v[]) { return v[0]; }
int a[2];
void main(void) {
  a[0] = 4;
  output(first(a));
}
`)

	be.Equal(t, len(tx.Errors()), 0)
	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 4\n")
}

func TestShadowing(t *testing.T) {
	tx := translate(t, `
int x;
void main(void) {
  int x;
  x = 5;
  {
    int x;
    x = 7;
    output(x);
  }
  output(x);
}
x = 1;
output(x);
`)

	be.Equal(t, len(tx.Errors()), 0)
	out, _ := run(t, tx)
	be.Equal(t, out, "PRINT 7\nPRINT 5\nPRINT 1\n")
}

func TestScopeEndsAtBlock(t *testing.T) {
	tx := translate(t, "void main(void) {\n  { int y; y = 1; }\n  y = 2;\n}")

	be.Equal(t, messages(tx.Errors()), []string{"#3 : Semantic Error! 'y' is not defined."})
}

func TestTypeMismatchInAssignment(t *testing.T) {
	tx := translate(t, "int a[2]; int b; b = a;")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! Type mismatch in operands, Got array instead of int.",
	})
}

func TestTypeMismatchInMultiplication(t *testing.T) {
	tx := translate(t, "int a[2]; int b;\nb = 2 * a;")

	be.Equal(t, messages(tx.Errors()), []string{
		"#2 : Semantic Error! Type mismatch in operands, Got array instead of int.",
	})
}

func TestArgumentCountMismatch(t *testing.T) {
	tx := translate(t, "int f(int a) { return a; }\nvoid main(void) { f(1, 2); }")

	be.Equal(t, messages(tx.Errors()), []string{
		"#2 : Semantic Error! Mismatch in numbers of arguments of 'f'.",
	})
}

func TestArgumentTypeMismatch(t *testing.T) {
	tx := translate(t, "int f(int a) { return a; }\nint arr[2];\nvoid main(void) { f(arr); }")

	be.Equal(t, messages(tx.Errors()), []string{
		"#3 : Semantic Error! Mismatch in type of argument 1 of 'f'. Expected 'int' but got 'array' instead.",
	})
}

func TestUndefinedFunction(t *testing.T) {
	tx := translate(t, "void main(void) { g(); g(1); }")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! 'g' is not defined.",
		"#1 : Semantic Error! 'g' is not defined.",
		"#1 : Semantic Error! Mismatch in numbers of arguments of 'g'.",
	})
	be.Equal(t, tx.Stack.Len(), 0)
}

func TestUndefinedCalleeBelowUndefinedTarget(t *testing.T) {
	tx := translate(t, "void main(void) { y = foo(1); }")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! 'y' is not defined.",
		"#1 : Semantic Error! 'foo' is not defined.",
		"#1 : Semantic Error! Mismatch in numbers of arguments of 'foo'.",
	})
	be.Equal(t, tx.Stack.Len(), 0)
}

func TestUndefinedCalleeInsideArguments(t *testing.T) {
	tx := translate(t, `int f(int a, int b) { return a; }
void main(void) {
  int x;
  f(x, g(1));
}`)

	be.Equal(t, messages(tx.Errors()), []string{
		"#4 : Semantic Error! 'g' is not defined.",
		"#4 : Semantic Error! Mismatch in numbers of arguments of 'g'.",
	})
	be.Equal(t, tx.Stack.Len(), 0)
}

func TestNumberOutOfRange(t *testing.T) {
	tx := translate(t, "int x;\nx = 99999999999999999999;")

	be.Equal(t, messages(tx.Errors()), []string{
		"#2 : Semantic Error! Number '99999999999999999999' is out of range.",
	})
	be.Equal(t, listing(&tx.Program), []string{
		"ASSIGN #0 500",
		"ASSIGN #0 500",
	})
}

func TestArraySizeOutOfRange(t *testing.T) {
	tx := translate(t, "int a[99999999999999999999];")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! Number '99999999999999999999' is out of range.",
	})
	be.Equal(t, listing(&tx.Program), []string{
		"ASSIGN #0 500",
		"ASSIGN #504 500",
	})
}

func TestReturnOutsideFunction(t *testing.T) {
	tx := translate(t, "return 1;\noutput(2);")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! No function found for 'return'.",
	})
	be.Equal(t, listing(&tx.Program), []string{"PRINT #2"})
}

func TestOutputArgumentCount(t *testing.T) {
	tx := translate(t, "output(1, 2);")

	be.Equal(t, messages(tx.Errors()), []string{
		"#1 : Semantic Error! Mismatch in numbers of arguments of 'output'.",
	})
}

func TestSemanticErrorsString(t *testing.T) {
	var errs SemanticErrors
	be.Equal(t, errs.String(), "The input program is semantically correct.")

	errs = SemanticErrors{{Line: 3, Message: "'x' is not defined."}, {Line: 5, Message: "Illegal type of void for 'y'."}}
	be.Equal(t, errs.String(), "#3 : Semantic Error! 'x' is not defined.\n#5 : Semantic Error! Illegal type of void for 'y'.")
}

func TestRecoveryDoesNotPanic(t *testing.T) {
	for _, src := range []string{
		"int f(5) {}",
		"x = ;",
		"if (1) else",
		"int a[; a[1 = ;",
		"void main(void) { return }",
		"repeat until",
	} {
		tx := New()
		parser.Parse(grammar.Default(), lexer.NewScanner([]byte(src)), tx)
	}
}
