package vm

import "ncc/internal/vmhost/asm"

// Result summarizes how one Eval run ended: either the program hit an
// `exit` instruction (ExitCode set, HasExit true) or a top-level `ret`
// left a value on the stack for the host (Value set, HasValue true).
// Neither is set for a program that runs off the end of its code
// without reaching either, which Eval would already have reported as
// an error before Run ever gets here.
type Result struct {
	HasExit  bool
	ExitCode int64
	HasValue bool
	Value    uint64
}

// Run drives prog to completion and reports how it stopped, the way
// original_source/src/main.rs's main() inspects VM::stack_size/pop
// after VM::eval returns.
func Run(prog *asm.Program) (Result, error) {
	v := New(prog)
	if err := v.Eval(); err != nil {
		return Result{}, err
	}
	if code, ok := v.Exited(); ok {
		return Result{HasExit: true, ExitCode: code}, nil
	}
	if v.StackSize() > 0 {
		return Result{HasValue: true, Value: v.Pop()}, nil
	}
	return Result{}, nil
}

