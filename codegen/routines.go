package codegen

import (
	"github.com/strager/cminus/lexer"
	"github.com/strager/cminus/tac"
)

// Declarations.

func (tx *Translation) ptype(lookahead lexer.Token) {
	tx.declType = lookahead
}

func (tx *Translation) pid(lookahead lexer.Token) {
	tx.Stack.Push(identValue(lookahead.Text))
}

func (tx *Translation) pnum(lookahead lexer.Token) {
	n := tx.Logger.NumberCheck(lookahead)
	tx.Stack.Push(operandValue(tac.Imm(n)))
}

func (tx *Translation) declare(id string, kind Kind, addr int) {
	tx.Symbols.Append(&Symbol{ID: id, Kind: kind, Address: addr, Scope: tx.Scope})
}

func (tx *Translation) defVar(lookahead lexer.Token) {
	id := tx.Stack.Pop()
	tx.Logger.VoidCheck(tx.declType, id.Text, lookahead.Line)
	tx.declare(id.Text, KindInt, tx.allocate(1))
}

// defArr lays an array out as a header word followed by its elements. The
// header holds the address of element 0.
func (tx *Translation) defArr(lookahead lexer.Token) {
	size := tx.Stack.Pop()
	id := tx.Stack.Pop()
	tx.Logger.VoidCheck(tx.declType, id.Text, lookahead.Line)
	header := tx.allocate(1)
	base := tx.allocate(size.Operand.Value)
	tx.Program.Emit(tac.ASSIGN, tac.Imm(base), tac.Addr(header))
	tx.declare(id.Text, KindArray, header)
}

func (tx *Translation) paramVar(lookahead lexer.Token) {
	tx.defVar(lookahead)
}

// paramArr declares an array parameter. Only the header word is local; the
// caller passes in the address of its own elements.
func (tx *Translation) paramArr(lookahead lexer.Token) {
	id := tx.Stack.Pop()
	tx.Logger.VoidCheck(tx.declType, id.Text, lookahead.Line)
	tx.declare(id.Text, KindArray, tx.allocate(1))
}

// Expressions.

func (tx *Translation) paddr(lookahead lexer.Token) {
	if lookahead.Text == builtinOutput && tx.Symbols.Lookup(builtinOutput, tx.Scope) == nil {
		tx.Stack.Push(Value{Kind: ValueBuiltin})
		return
	}
	sym := tx.Logger.ScopeCheck(lookahead, &tx.Symbols, tx.Scope)
	switch {
	case sym == nil:
		tx.Stack.Push(identValue(lookahead.Text))
	case sym.Kind == KindFunction:
		tx.Stack.Push(functionValue(sym))
	default:
		tx.Stack.Push(operandValue(tac.Addr(sym.Address)))
	}
}

func (tx *Translation) popr(lookahead lexer.Token) {
	tx.Stack.Push(operatorValue(lookahead.Text))
}

func (tx *Translation) saveOpr(lookahead lexer.Token) {
	b := tx.Stack.Pop()
	op := tx.Stack.Pop()
	a := tx.Stack.Pop()
	tx.Logger.TypeMismatch(lookahead.Line, &tx.Symbols, a, b, false)
	result := tx.temp()
	if opcode, ok := tac.OpcodeFor(op.Text); ok {
		tx.Program.Emit(opcode, a.Operand, b.Operand, result)
	}
	tx.Stack.Push(operandValue(result))
}

func (tx *Translation) mult(lookahead lexer.Token) {
	b := tx.Stack.Pop()
	a := tx.Stack.Pop()
	tx.Logger.TypeMismatch(lookahead.Line, &tx.Symbols, a, b, true)
	result := tx.temp()
	tx.Program.Emit(tac.MULT, a.Operand, b.Operand, result)
	tx.Stack.Push(operandValue(result))
}

// assign leaves the destination on the stack as the value of the
// expression.
func (tx *Translation) assign(lookahead lexer.Token) {
	src := tx.Stack.Top(0)
	dst := tx.Stack.Top(1)
	tx.Logger.TypeMismatch(lookahead.Line, &tx.Symbols, dst, src, false)
	tx.Program.Emit(tac.ASSIGN, src.Operand, dst.Operand)
	tx.Stack.Pop()
}

// arrIdx computes header + index*WordSize and pushes it as an indirect
// operand.
func (tx *Translation) arrIdx(lookahead lexer.Token) {
	index := tx.Stack.Pop()
	array := tx.Stack.Pop()
	offset := tx.temp()
	addr := tx.temp()
	tx.Program.Emit(tac.MULT, index.Operand, tac.Imm(WordSize), offset)
	tx.Program.Emit(tac.ASSIGN, array.Operand, addr)
	tx.Program.Emit(tac.ADD, addr, offset, addr)
	tx.Stack.Push(operandValue(tac.Ind(addr.Value)))
}

func (tx *Translation) cleanUp(lookahead lexer.Token) {
	tx.Stack.Pop()
}

// Control flow.

func (tx *Translation) label(lookahead lexer.Token) {
	tx.Stack.Push(indexValue(tx.Program.Len()))
}

func (tx *Translation) save(lookahead lexer.Token) {
	tx.Stack.Push(indexValue(tx.Program.Reserve()))
}

// jpfSave closes the then-branch: the saved slot jumps past the else jump
// when the condition is false, and a new slot is reserved for that jump.
func (tx *Translation) jpfSave(lookahead lexer.Token) {
	slot := tx.Stack.Pop()
	cond := tx.Stack.Pop()
	tx.patch(slot, tac.JPF, cond.Operand, tac.Addr(tx.Program.Len()+1))
	tx.Stack.Push(indexValue(tx.Program.Reserve()))
}

func (tx *Translation) jump(lookahead lexer.Token) {
	slot := tx.Stack.Pop()
	tx.patch(slot, tac.JP, tac.Addr(tx.Program.Len()))
}

func (tx *Translation) until(lookahead lexer.Token) {
	cond := tx.Stack.Pop()
	top := tx.Stack.Pop()
	tx.Program.Emit(tac.JPF, cond.Operand, tac.Addr(top.Index))
}

func (tx *Translation) newBreak(lookahead lexer.Token) {
	tx.breaks.mark()
}

func (tx *Translation) breakLoop(lookahead lexer.Token) {
	tx.Logger.BreakCheck(lookahead.Line, tx.breaks.hasMarker())
	tx.breaks.add(tx.Program.Reserve(), tac.Operand{})
}

func (tx *Translation) endBreak(lookahead lexer.Token) {
	pending, _ := tx.breaks.release()
	for _, p := range pending {
		tx.Program.Patch(p.index, tac.NewInstruction(tac.JP, tac.Addr(tx.Program.Len())))
	}
}

// Scopes.

func (tx *Translation) pushScope(lookahead lexer.Token) {
	tx.Scope++
}

func (tx *Translation) popScope(lookahead lexer.Token) {
	tx.Symbols.PopScope(tx.Scope)
	tx.Scope--
}

// Functions.

// startParams reserves the slot that jumps over the function body and
// opens the parameter list. The function's name goes back on the stack
// above the slot index.
func (tx *Translation) startParams(lookahead lexer.Token) {
	id := tx.Stack.Pop()
	tx.Stack.Push(indexValue(tx.Program.Reserve()))
	tx.Stack.Push(id)
	tx.Symbols.markArgs(tx.Scope)
}

// createRecord replaces the parameter-list marker with the function's
// record. The body starts at the current index.
func (tx *Translation) createRecord(lookahead lexer.Token) {
	id := tx.Stack.Pop()
	retAddr := tx.allocate(1)
	retVal := tx.allocate(1)
	args, at, scope, ok := tx.Symbols.takeArgs()
	if !ok {
		scope = tx.Scope
	}
	fn := &Symbol{
		ID:      id.Text,
		Kind:    KindFunction,
		Address: -1,
		Scope:   scope,
		Function: &Function{
			ReturnAddress: retAddr,
			ReturnValue:   retVal,
			EntryIndex:    tx.Program.Len(),
			Args:          args,
		},
	}
	tx.Symbols.insertAt(at, fn)
	tx.returns.mark()
	tx.Stack.Push(Value{Kind: ValueRecord, Func: fn})
}

// endFunction backpatches every return in the body, then the slot that
// skips over it. main is entered by falling into it and has no caller, so
// its returns jump straight past its body and its skip slot becomes a
// harmless assignment.
func (tx *Translation) endFunction(lookahead lexer.Token) {
	record := tx.Stack.Pop()
	skip := tx.Stack.Pop()
	pending, _ := tx.returns.release()
	if record.Kind != ValueRecord {
		tx.patch(skip, tac.JP, tac.Addr(tx.Program.Len()))
		return
	}

	fn := record.Func.Function
	isMain := record.Func.ID == entryPoint
	leave := tac.Ind(fn.ReturnAddress)
	if isMain {
		leave = tac.Addr(tx.Program.Len())
	}
	for _, p := range pending {
		tx.Program.Patch(p.index, tac.NewInstruction(tac.ASSIGN, p.value, tac.Addr(fn.ReturnValue)))
		tx.Program.Patch(p.index+1, tac.NewInstruction(tac.JP, leave))
	}

	if isMain {
		tx.patch(skip, tac.ASSIGN, tac.Imm(0), tac.Addr(fn.ReturnAddress))
		return
	}
	tx.Program.Emit(tac.JP, tac.Ind(fn.ReturnAddress))
	tx.patch(skip, tac.JP, tac.Addr(tx.Program.Len()))
}

func (tx *Translation) returnValue(lookahead lexer.Token) {
	v := tx.Stack.Pop()
	tx.reserveReturn(lookahead.Line, v.Operand)
}

func (tx *Translation) returnVoid(lookahead lexer.Token) {
	tx.reserveReturn(lookahead.Line, tac.Imm(0))
}

// reserveReturn leaves two slots for the function exit to patch. Outside a
// function nothing would patch them, so nothing is reserved.
func (tx *Translation) reserveReturn(line int, v tac.Operand) {
	if !tx.Logger.ReturnCheck(line, tx.returns.hasMarker()) {
		return
	}
	i := tx.Program.Reserve()
	tx.Program.Reserve()
	tx.returns.add(i, v)
}

func (tx *Translation) beginArgs(lookahead lexer.Token) {
	tx.Stack.Push(Value{Kind: ValueArgs})
}

// call pops the arguments pushed since beginArgs, then the callee below
// them.
func (tx *Translation) call(lookahead lexer.Token) {
	var args []Value
	for tx.Stack.Len() > 0 && tx.Stack.Top(0).Kind != ValueArgs {
		args = append(args, tx.Stack.Pop())
	}
	tx.Stack.Pop()
	// Restore source order.
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}

	switch callee := tx.Stack.Pop(); callee.Kind {
	case ValueBuiltin:
		tx.Logger.ParameterCount(lookahead.Line, builtinOutput, 1, len(args))
		if len(args) > 0 {
			tx.Program.Emit(tac.PRINT, args[0].Operand)
		}
		tx.Stack.Push(operandValue(tac.Imm(0)))

	case ValueFunction:
		tx.callFunction(lookahead, callee.Func, args)

	default:
		// No function record: check against an empty signature. An
		// undefined name was already reported by paddr.
		name := callee.Text
		if callee.Kind == ValueOperand {
			if sym := tx.Symbols.ByAddress(callee.Operand.Value); sym != nil {
				name = sym.ID
			}
		}
		tx.Logger.ParameterCount(lookahead.Line, name, 0, len(args))
		tx.Stack.Push(identValue(name))
	}
}

func (tx *Translation) callFunction(lookahead lexer.Token, sym *Symbol, args []Value) {
	fn := sym.Function
	if tx.Logger.ParameterCount(lookahead.Line, sym.ID, len(fn.Args), len(args)) {
		tx.Logger.ParameterTypes(lookahead.Line, &tx.Symbols, sym, args)
	}
	for i, param := range fn.Args {
		if i >= len(args) {
			break
		}
		tx.Program.Emit(tac.ASSIGN, args[i].Operand, tac.Addr(param.Address))
	}
	tx.Program.Emit(tac.ASSIGN, tac.Imm(tx.Program.Len()+2), tac.Addr(fn.ReturnAddress))
	tx.Program.Emit(tac.JP, tac.Addr(fn.EntryIndex))
	result := tx.temp()
	tx.Program.Emit(tac.ASSIGN, tac.Addr(fn.ReturnValue), result)
	tx.Stack.Push(operandValue(result))
}
