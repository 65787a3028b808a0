package vm

import (
	"testing"

	"ncc/internal/vmhost/asm"
)

// prog builds a Program with no data segment and the given instructions.
func prog(instrs ...asm.Instr) *asm.Program {
	return &asm.Program{Code: instrs}
}

func push(v int64) asm.Instr { return asm.Instr{Op: "push", Imm: v} }

func TestArithmeticWidthAndTruncation(t *testing.T) {
	// (0xFFFFFFFF + 1) as add_u32 wraps to 0, proving 32-bit masking.
	v := New(prog(
		push(0xFFFFFFFF),
		push(1),
		asm.Instr{Op: "add_u32"},
		asm.Instr{Op: "exit"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, ok := v.Exited()
	if !ok || code != 0 {
		t.Fatalf("exit code = %d, ok=%v, want 0", code, ok)
	}
}

func TestSignedVsUnsignedComparison(t *testing.T) {
	// lt_i64: -1 < 1 is true (signed); lt_u64 would say false since -1
	// as unsigned is huge. uint64(-1) = 0xFFFFFFFFFFFFFFFF.
	v := New(prog(
		push(int64(-1)),
		push(1),
		asm.Instr{Op: "lt_i64"},
		asm.Instr{Op: "exit"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, _ := v.Exited()
	if code != 1 {
		t.Fatalf("lt_i64(-1, 1) = %d, want 1 (true)", code)
	}

	v2 := New(prog(
		push(int64(-1)),
		push(1),
		asm.Instr{Op: "lt_u64"},
		asm.Instr{Op: "exit"},
	))
	if err := v2.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code2, _ := v2.Exited()
	if code2 != 0 {
		t.Fatalf("lt_u64(-1, 1) = %d, want 0 (false, -1 is huge unsigned)", code2)
	}
}

func TestDivisionByZero(t *testing.T) {
	v := New(prog(
		push(10),
		push(0),
		asm.Instr{Op: "div_u64"},
		asm.Instr{Op: "exit"},
	))
	if err := v.Eval(); err == nil {
		t.Fatalf("expected division-by-zero error")
	}
}

func TestMinInt64DivByNegOneOverflowGuard(t *testing.T) {
	minInt64 := int64(-1) << 63
	v := New(prog(
		push(minInt64),
		push(-1),
		asm.Instr{Op: "div_i64"},
		asm.Instr{Op: "exit"},
	))
	if err := v.Eval(); err == nil {
		t.Fatalf("expected overflow error for MinInt64 / -1")
	}
}

func TestCallRetFrameMechanics(t *testing.T) {
	// fn(a, b) { return a + b; }; main-equivalent: call fn(3,4) -> 7.
	// Layout:
	//   0: push 3
	//   1: push 4
	//   2: call 4, 2     (target index 4, argc 2)
	//   3: exit
	//   4: get_arg 0     (fn entry)
	//   5: get_arg 1
	//   6: add_u64
	//   7: ret
	v := New(prog(
		push(3),
		push(4),
		asm.Instr{Op: "call", Imm: 4, Imm2: 2},
		asm.Instr{Op: "exit"},
		asm.Instr{Op: "get_arg", Imm: 0},
		asm.Instr{Op: "get_arg", Imm: 1},
		asm.Instr{Op: "add_u64"},
		asm.Instr{Op: "ret"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, ok := v.Exited()
	if !ok || code != 7 {
		t.Fatalf("call/ret result = %d, ok=%v, want 7", code, ok)
	}
}

func TestLocalSlotsFollowArgsInFrame(t *testing.T) {
	// fn(a) { local x = a*2; return x; }; call fn(5) -> 10.
	// The callee's own prologue pushes the zeroed local slot after the
	// call already fixed frame.base from the one real argument, mirroring
	// internal/codegen/function.go's "push 0" per local.
	v := New(prog(
		push(5), // arg
		asm.Instr{Op: "call", Imm: 3, Imm2: 1},
		asm.Instr{Op: "exit"},
		push(0), // fn entry: local x, zeroed
		asm.Instr{Op: "get_arg", Imm: 0},
		asm.Instr{Op: "push", Imm: 2},
		asm.Instr{Op: "mul_u64"},
		asm.Instr{Op: "set_local", Imm: 0},
		asm.Instr{Op: "get_local", Imm: 0},
		asm.Instr{Op: "ret"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, ok := v.Exited()
	if !ok || code != 10 {
		t.Fatalf("result = %d, ok=%v, want 10", code, ok)
	}
}

func TestGetnStashesValueBelowTop(t *testing.T) {
	v := New(prog(
		push(111),
		push(222),
		asm.Instr{Op: "getn", Imm: 1}, // duplicate 111 (1 below top) onto top
		asm.Instr{Op: "exit"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, _ := v.Exited()
	if code != 111 {
		t.Fatalf("getn 1 top = %d, want 111", code)
	}
	if v.StackSize() != 2 {
		t.Fatalf("stack size after exit pop = %d, want 2 (222, 111 remain)", v.StackSize())
	}
}

func TestLoadStoreMemoryRoundTrip(t *testing.T) {
	p := &asm.Program{Data: make([]byte, 8)}
	p.Code = []asm.Instr{
		{Op: "push", Imm: 0},   // addr
		{Op: "push", Imm: 999}, // value
		{Op: "store_u32"},
		{Op: "push", Imm: 0},
		{Op: "load_u32"},
		{Op: "exit"},
	}
	v := New(p)
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	code, _ := v.Exited()
	if code != 999 {
		t.Fatalf("round-tripped value = %d, want 999", code)
	}
}

func TestPeekReadsMemoryWithoutAffectingStack(t *testing.T) {
	p := &asm.Program{Data: make([]byte, 8)}
	p.Code = []asm.Instr{
		{Op: "push", Imm: 0},
		{Op: "push", Imm: 42},
		{Op: "store_u8"},
		{Op: "push", Imm: 7},
		{Op: "exit"},
	}
	v := New(p)
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got, err := v.Peek(0, 8)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if got != 42 {
		t.Fatalf("Peek(0,8) = %d, want 42", got)
	}
}

func TestTopLevelRetLeavesValueForHost(t *testing.T) {
	// No call frame active: ret at the top level hands control back with
	// its value left on the stack, mirroring __ret_to_event_loop__.
	v := New(prog(
		push(55),
		asm.Instr{Op: "ret"},
	))
	if err := v.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.StackSize() != 1 {
		t.Fatalf("stack size = %d, want 1", v.StackSize())
	}
	if v.Pop() != 55 {
		t.Fatalf("top-level ret value wrong")
	}
}
