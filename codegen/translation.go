// Package codegen turns the action symbols reached by the parser into
// three-address code, checking the program's meaning as it goes.
package codegen

import (
	"log"

	"github.com/strager/cminus/grammar"
	"github.com/strager/cminus/lexer"
	"github.com/strager/cminus/tac"
)

const (
	// DataStart is the first data address handed out.
	DataStart = 500
	// WordSize is the distance between consecutive data addresses.
	WordSize = 4

	builtinOutput = "output"
	entryPoint    = "main"
)

// Translation holds all state threaded through the action routines of one
// compilation.
type Translation struct {
	Stack   Stack
	Symbols Table
	Program tac.Program
	Logger  ErrorLogger
	// Scope is the current nesting depth; globals live at 0.
	Scope int

	// Trace, when set, logs every dispatched action.
	Trace *log.Logger

	breaks   controlStack
	returns  controlStack
	nextAddr int
	declType lexer.Token
}

func New() *Translation {
	return &Translation{nextAddr: DataStart}
}

type routine func(tx *Translation, lookahead lexer.Token)

var routines = [grammar.NumActions]routine{
	grammar.ActionPType:        (*Translation).ptype,
	grammar.ActionPID:          (*Translation).pid,
	grammar.ActionPNum:         (*Translation).pnum,
	grammar.ActionPAddr:        (*Translation).paddr,
	grammar.ActionPOpr:         (*Translation).popr,
	grammar.ActionDefVar:       (*Translation).defVar,
	grammar.ActionDefArr:       (*Translation).defArr,
	grammar.ActionParamVar:     (*Translation).paramVar,
	grammar.ActionParamArr:     (*Translation).paramArr,
	grammar.ActionSaveOpr:      (*Translation).saveOpr,
	grammar.ActionMult:         (*Translation).mult,
	grammar.ActionAssign:       (*Translation).assign,
	grammar.ActionArrIdx:       (*Translation).arrIdx,
	grammar.ActionCleanUp:      (*Translation).cleanUp,
	grammar.ActionLabel:        (*Translation).label,
	grammar.ActionSave:         (*Translation).save,
	grammar.ActionJpfSave:      (*Translation).jpfSave,
	grammar.ActionJump:         (*Translation).jump,
	grammar.ActionUntil:        (*Translation).until,
	grammar.ActionNewBreak:     (*Translation).newBreak,
	grammar.ActionBreakLoop:    (*Translation).breakLoop,
	grammar.ActionEndBreak:     (*Translation).endBreak,
	grammar.ActionPushScope:    (*Translation).pushScope,
	grammar.ActionPopScope:     (*Translation).popScope,
	grammar.ActionStartParams:  (*Translation).startParams,
	grammar.ActionCreateRecord: (*Translation).createRecord,
	grammar.ActionEndFunction:  (*Translation).endFunction,
	grammar.ActionReturnValue:  (*Translation).returnValue,
	grammar.ActionReturnVoid:   (*Translation).returnVoid,
	grammar.ActionBeginArgs:    (*Translation).beginArgs,
	grammar.ActionCall:         (*Translation).call,
}

// Dispatch runs the routine bound to action.
func (tx *Translation) Dispatch(action grammar.Action, lookahead lexer.Token) {
	if int(action) >= len(routines) || routines[action] == nil {
		return
	}
	if tx.Trace != nil {
		tx.Trace.Printf("%-13s lookahead=%s stack=%s", action, lookahead, &tx.Stack)
	}
	routines[action](tx, lookahead)
}

// Errors returns the semantic errors found so far.
func (tx *Translation) Errors() SemanticErrors {
	return tx.Logger.Errors
}

// allocate hands out count consecutive data words, emitting a zero
// initialization for each, and returns the first address.
func (tx *Translation) allocate(count int) int {
	first := tx.nextAddr
	for i := 0; i < count; i++ {
		tx.Program.Emit(tac.ASSIGN, tac.Imm(0), tac.Addr(tx.nextAddr))
		tx.nextAddr += WordSize
	}
	return first
}

func (tx *Translation) temp() tac.Operand {
	return tac.Addr(tx.allocate(1))
}

// patch overwrites a reserved slot. Slots that were never reserved only
// show up after syntax errors and are left alone.
func (tx *Translation) patch(v Value, op tac.Opcode, args ...tac.Operand) {
	tx.Program.Patch(v.index(), tac.NewInstruction(op, args...))
}
