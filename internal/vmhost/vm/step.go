// step.go dispatches one resolved instruction. One mnemonic per
// spec.md §6's list; the width/signedness suffix conventions mirror
// internal/codegen/operators.go's emission rules exactly, since the
// generator and this interpreter must agree on what e.g. `add_u32`
// means.
package vm

import (
	"fmt"

	"ncc/internal/vmhost/asm"
)

// step executes one instruction and reports whether Eval should stop.
func (v *VM) step(instr asm.Instr) (stop bool, err error) {
	switch instr.Op {
	case "push":
		v.push(uint64(instr.Imm))

	case "pop":
		if _, err := v.pop(); err != nil {
			return false, err
		}

	case "dup":
		top, err := v.peek()
		if err != nil {
			return false, err
		}
		v.push(top)

	case "swap":
		if len(v.stack) < 2 {
			return false, fmt.Errorf("stack underflow")
		}
		n := len(v.stack)
		v.stack[n-1], v.stack[n-2] = v.stack[n-2], v.stack[n-1]

	case "getn":
		n := int(instr.Imm)
		idx := len(v.stack) - 1 - n
		if idx < 0 {
			return false, fmt.Errorf("getn %d: stack underflow", n)
		}
		v.push(v.stack[idx])

	case "load_u8", "load_u16", "load_u32", "load_u64":
		addr, err := v.pop()
		if err != nil {
			return false, err
		}
		val, err := v.loadU(addr, bitsOf(instr.Op))
		if err != nil {
			return false, err
		}
		v.push(val)

	case "store_u8", "store_u16", "store_u32", "store_u64":
		val, err := v.pop()
		if err != nil {
			return false, err
		}
		addr, err := v.pop()
		if err != nil {
			return false, err
		}
		if err := v.storeU(addr, bitsOf(instr.Op), val); err != nil {
			return false, err
		}

	case "sx_i32_i64":
		top, err := v.pop()
		if err != nil {
			return false, err
		}
		v.push(uint64(signExtend(top, 32)))

	case "trunc_u8", "trunc_u16", "trunc_u32":
		top, err := v.pop()
		if err != nil {
			return false, err
		}
		v.push(maskWidth(top, bitsOf(instr.Op)))

	case "not_u32", "not_u64":
		top, err := v.pop()
		if err != nil {
			return false, err
		}
		bits := bitsOf(instr.Op)
		v.push(maskWidth(^top, bits))

	case "add_u32", "add_u64", "sub_u32", "sub_u64", "mul_u64",
		"and_u32", "and_u64", "or_u32", "or_u64", "xor_u32", "xor_u64",
		"lshift_u32", "lshift_u64":
		if err := v.binArith(instr.Op); err != nil {
			return false, err
		}

	case "div_i64", "div_u64", "mod_i64", "mod_u64":
		if err := v.divMod(instr.Op); err != nil {
			return false, err
		}

	case "rshift_u32", "rshift_u64", "rshift_i32", "rshift_i64":
		if err := v.rshift(instr.Op); err != nil {
			return false, err
		}

	case "eq_u32", "eq_u64", "ne_u32", "ne_u64",
		"lt_i32", "lt_i64", "lt_u32", "lt_u64",
		"le_i32", "le_i64", "le_u32", "le_u64",
		"gt_i32", "gt_i64", "gt_u32", "gt_u64",
		"ge_i32", "ge_i64", "ge_u32", "ge_u64":
		if err := v.compare(instr.Op); err != nil {
			return false, err
		}

	case "jmp":
		v.ip = int(instr.Imm)
		return false, nil

	case "jz":
		top, err := v.pop()
		if err != nil {
			return false, err
		}
		if top == 0 {
			v.ip = int(instr.Imm)
			return false, nil
		}

	case "jnz":
		top, err := v.pop()
		if err != nil {
			return false, err
		}
		if top != 0 {
			v.ip = int(instr.Imm)
			return false, nil
		}

	case "call":
		argc := int(instr.Imm2)
		if len(v.stack) < argc {
			return false, fmt.Errorf("call: stack has %d items, need %d arguments", len(v.stack), argc)
		}
		v.frames = append(v.frames, frame{
			base:  len(v.stack) - argc,
			argc:  argc,
			retIP: v.ip + 1,
		})
		v.ip = int(instr.Imm)
		return false, nil

	case "ret":
		retval, err := v.pop()
		if err != nil {
			return false, err
		}
		if len(v.frames) == 0 {
			v.stack = append(v.stack, retval)
			return true, nil
		}
		fr := v.frames[len(v.frames)-1]
		v.frames = v.frames[:len(v.frames)-1]
		v.stack = append(v.stack[:fr.base], retval)
		v.ip = fr.retIP
		return false, nil

	case "exit":
		code, err := v.pop()
		if err != nil {
			return false, err
		}
		v.exited = true
		v.exitCode = int64(code)
		return true, nil

	case "get_arg":
		if err := v.pushSlot(argSlot, int(instr.Imm)); err != nil {
			return false, err
		}
	case "set_arg":
		if err := v.popIntoSlot(argSlot, int(instr.Imm)); err != nil {
			return false, err
		}
	case "get_local":
		if err := v.pushSlot(localSlot, int(instr.Imm)); err != nil {
			return false, err
		}
	case "set_local":
		if err := v.popIntoSlot(localSlot, int(instr.Imm)); err != nil {
			return false, err
		}

	default:
		return false, fmt.Errorf("unknown opcode %q", instr.Op)
	}

	v.ip++
	return false, nil
}

// slotKind distinguishes argument slots from local slots, both of
// which live on the operand stack within the active call frame.
type slotKind int

const (
	argSlot slotKind = iota
	localSlot
)

func (v *VM) slotIndex(kind slotKind, idx int) (int, error) {
	if len(v.frames) == 0 {
		return 0, fmt.Errorf("slot access outside any call frame")
	}
	fr := v.frames[len(v.frames)-1]
	base := fr.base
	if kind == localSlot {
		base += fr.argc
	}
	i := base + idx
	if i < 0 || i >= len(v.stack) {
		return 0, fmt.Errorf("slot index %d out of range", idx)
	}
	return i, nil
}

func (v *VM) pushSlot(kind slotKind, idx int) error {
	i, err := v.slotIndex(kind, idx)
	if err != nil {
		return err
	}
	v.push(v.stack[i])
	return nil
}

func (v *VM) popIntoSlot(kind slotKind, idx int) error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	i, err := v.slotIndex(kind, idx)
	if err != nil {
		return err
	}
	v.stack[i] = val
	return nil
}
