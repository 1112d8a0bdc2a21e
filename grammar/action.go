package grammar

// Action identifies a code-generation routine. Action symbols in grammar
// text (#name) must name one of these; the set is closed so every action in
// a loaded grammar has a routine behind it.
type Action uint8

const (
	ActionNone Action = iota
	ActionPType
	ActionPID
	ActionPNum
	ActionPAddr
	ActionPOpr
	ActionDefVar
	ActionDefArr
	ActionParamVar
	ActionParamArr
	ActionSaveOpr
	ActionMult
	ActionAssign
	ActionArrIdx
	ActionCleanUp
	ActionLabel
	ActionSave
	ActionJpfSave
	ActionJump
	ActionUntil
	ActionNewBreak
	ActionBreakLoop
	ActionEndBreak
	ActionPushScope
	ActionPopScope
	ActionStartParams
	ActionCreateRecord
	ActionEndFunction
	ActionReturnValue
	ActionReturnVoid
	ActionBeginArgs
	ActionCall

	// NumActions bounds the enumeration; it is not an action.
	NumActions
)

var actionNames = [NumActions]string{
	ActionNone:         "",
	ActionPType:        "ptype",
	ActionPID:          "pid",
	ActionPNum:         "pnum",
	ActionPAddr:        "paddr",
	ActionPOpr:         "popr",
	ActionDefVar:       "def_var",
	ActionDefArr:       "def_arr",
	ActionParamVar:     "param_var",
	ActionParamArr:     "param_arr",
	ActionSaveOpr:      "save_opr",
	ActionMult:         "mult",
	ActionAssign:       "assign",
	ActionArrIdx:       "arr_idx",
	ActionCleanUp:      "clean_up",
	ActionLabel:        "label",
	ActionSave:         "save",
	ActionJpfSave:      "jpf_save",
	ActionJump:         "jump",
	ActionUntil:        "until",
	ActionNewBreak:     "new_break",
	ActionBreakLoop:    "break_loop",
	ActionEndBreak:     "end_break",
	ActionPushScope:    "push_scope",
	ActionPopScope:     "pop_scope",
	ActionStartParams:  "start_params",
	ActionCreateRecord: "create_record",
	ActionEndFunction:  "end_function",
	ActionReturnValue:  "return_value",
	ActionReturnVoid:   "return_void",
	ActionBeginArgs:    "begin_args",
	ActionCall:         "call",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, NumActions)
	for a := ActionNone + 1; a < NumActions; a++ {
		m[actionNames[a]] = a
	}
	return m
}()

func (a Action) String() string {
	if a >= NumActions {
		return "action(?)"
	}
	return actionNames[a]
}

// LookupAction resolves an action name, without its marker.
func LookupAction(name string) (Action, bool) {
	a, ok := actionsByName[name]
	return a, ok
}
