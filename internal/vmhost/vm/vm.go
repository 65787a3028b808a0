// Package vm is a minimal interpreter for the stack-VM dialect of
// spec.md §6, grounded on original_source/src/main.rs's shape
// (VM::new(code), eval(), stack_size(), pop()): a flat byte-addressed
// data memory plus a word stack, run by one eval loop. It exists so
// internal/codegen's own test suite can assemble and execute the six
// end-to-end scenarios of spec.md §8 and check runtime results instead
// of only snapshotting the emitted text.
package vm

import (
	"fmt"

	"ncc/internal/vmhost/asm"
)

// frame is one active call's bookkeeping: where its arguments and
// locals begin on the operand stack, how many arguments it has (so
// get_local/set_local can find the first slot past them), and where to
// resume the caller.
type frame struct {
	base  int
	argc  int
	retIP int
}

// VM is a single, non-reentrant interpreter instance over one assembled
// Program. Construct with New, run with Eval.
type VM struct {
	mem    []byte
	code   []asm.Instr
	stack  []uint64
	frames []frame
	ip     int

	exited   bool
	exitCode int64
}

// New builds a VM ready to execute prog from its entry point (ip 0),
// the position the first instruction after `.code` occupies.
func New(prog *asm.Program) *VM {
	mem := make([]byte, len(prog.Data))
	copy(mem, prog.Data)
	return &VM{
		mem:  mem,
		code: prog.Code,
	}
}

// StackSize reports the current operand stack depth, mirroring the
// Rust prototype's VM::stack_size.
func (v *VM) StackSize() int { return len(v.stack) }

// Pop removes and returns the top of the operand stack, mirroring the
// Rust prototype's VM::pop. Panics on an empty stack, matching the
// precondition callers are expected to check via StackSize first.
func (v *VM) Pop() uint64 {
	top := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return top
}

// Exited reports whether the last Eval run stopped via the `exit`
// instruction, and if so its exit code.
func (v *VM) Exited() (code int64, ok bool) {
	return v.exitCode, v.exited
}

// Peek reads bits (8/16/32/64) from data memory at addr without
// affecting the operand stack, for a host inspecting a global's final
// value the way a test checks a buffer after Eval returns.
func (v *VM) Peek(addr uint64, bits int) (uint64, error) {
	return v.loadU(addr, bits)
}

// Eval runs instructions starting at the current ip until either an
// `exit` instruction executes or a top-level `ret` (one with no
// enclosing call frame) hands control back to the host, leaving its
// value on the stack for Pop. It returns an error on any malformed
// program the assembler's static checks didn't already catch (stack
// underflow, out-of-bounds memory access, running off the end of code).
func (v *VM) Eval() error {
	for {
		if v.ip < 0 || v.ip >= len(v.code) {
			return fmt.Errorf("ip %d out of range (code length %d)", v.ip, len(v.code))
		}
		instr := v.code[v.ip]
		stop, err := v.step(instr)
		if err != nil {
			return fmt.Errorf("ip %d (%s): %w", v.ip, instr.Op, err)
		}
		if stop {
			return nil
		}
	}
}

func (v *VM) push(x uint64) { v.stack = append(v.stack, x) }

func (v *VM) pop() (uint64, error) {
	if len(v.stack) == 0 {
		return 0, fmt.Errorf("stack underflow")
	}
	top := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return top, nil
}

func (v *VM) peek() (uint64, error) {
	if len(v.stack) == 0 {
		return 0, fmt.Errorf("stack underflow")
	}
	return v.stack[len(v.stack)-1], nil
}
