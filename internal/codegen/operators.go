// operators.go implements binary operator dispatch (spec.md §4.6):
// evaluation order, Assign/Comma/And/Or special-casing, the integer
// width convention, signedness dispatch, pointer/array arithmetic
// scaling and the mnemonic table. Grounded directly on
// _examples/original_source/ncc/src/codegen.rs's gen_bin_op,
// emit_int_op and emit_cmp_op.

package codegen

import (
	"ncc/internal/ast"
	"ncc/internal/emit"
)

// genBinaryExpr dispatches a Binary expression in rvalue position.
func genBinaryExpr(b ast.Binary, sym *SymGen, out *emit.Buffer) error {
	outType, err := b.EvalType()
	if err != nil {
		return err
	}
	return genBinOp(b.Op, b.LHS, b.RHS, outType, sym, out)
}

// genBinOp is the shared dispatcher used both by rvalue Binary
// expressions and by Expr statements discarding an assignment's value.
func genBinOp(op ast.BinOp, lhs, rhs ast.Expr, outType ast.Type, sym *SymGen, out *emit.Buffer) error {
	if op == ast.BinAssign {
		return genAssign(lhs, rhs, sym, out, true)
	}

	if op == ast.BinComma {
		if err := genExpr(lhs, sym, out); err != nil {
			return err
		}
		out.Line("pop")
		return genExpr(rhs, sym, out)
	}

	if op == ast.BinAnd {
		falseLabel := sym.GenSym("and_false")
		doneLabel := sym.GenSym("and_done")

		if err := genExpr(lhs, sym, out); err != nil {
			return err
		}
		out.Line("jz %s", falseLabel)

		if err := genExpr(rhs, sym, out); err != nil {
			return err
		}
		out.Line("jz %s", falseLabel)

		out.Line("push 1")
		out.Line("jmp %s", doneLabel)

		out.Label(falseLabel)
		out.Line("push 0")

		out.Label(doneLabel)
		return nil
	}

	if op == ast.BinOr {
		trueLabel := sym.GenSym("or_true")
		doneLabel := sym.GenSym("or_done")

		if err := genExpr(lhs, sym, out); err != nil {
			return err
		}
		out.Line("jnz %s", trueLabel)

		if err := genExpr(rhs, sym, out); err != nil {
			return err
		}
		out.Line("jnz %s", trueLabel)

		out.Line("push 0")
		out.Line("jmp %s", doneLabel)

		out.Label(trueLabel)
		out.Line("push 1")

		out.Label(doneLabel)
		return nil
	}

	// Ordinary arithmetic/bitwise/comparison operators: left, then right.
	if err := genExpr(lhs, sym, out); err != nil {
		return err
	}
	if err := genExpr(rhs, sym, out); err != nil {
		return err
	}

	lhsType, err := lhs.EvalType()
	if err != nil {
		return err
	}
	rhsType, err := rhs.EvalType()
	if err != nil {
		return err
	}
	bothSigned := lhsType.IsSigned() && rhsType.IsSigned()

	switch op {
	case ast.BinBitAnd:
		emitIntOp(outType, "and_u", out)
	case ast.BinBitOr:
		emitIntOp(outType, "or_u", out)
	case ast.BinBitXor:
		emitIntOp(outType, "xor_u", out)
	case ast.BinLShift:
		emitIntOp(outType, "lshift_u", out)
	case ast.BinRShift:
		emitShiftOp(outType, bothSigned, out)

	case ast.BinAdd:
		return genAdd(lhsType, rhsType, outType, out)
	case ast.BinSub:
		return genSub(lhsType, rhsType, outType, out)

	case ast.BinMul:
		out.Line("mul_u64")

	case ast.BinDiv:
		if bothSigned {
			out.Line("div_i64")
		} else {
			out.Line("div_u64")
		}

	case ast.BinMod:
		if bothSigned {
			out.Line("mod_i64")
		} else {
			out.Line("mod_u64")
		}

	case ast.BinEq:
		emitCmpOp(lhsType, rhsType, "eq_u", "eq_u", out)
	case ast.BinNe:
		emitCmpOp(lhsType, rhsType, "ne_u", "ne_u", out)
	case ast.BinLt:
		emitCmpOp(lhsType, rhsType, "lt_i", "lt_u", out)
	case ast.BinLe:
		emitCmpOp(lhsType, rhsType, "le_i", "le_u", out)
	case ast.BinGt:
		emitCmpOp(lhsType, rhsType, "gt_i", "gt_u", out)
	case ast.BinGe:
		emitCmpOp(lhsType, rhsType, "ge_i", "ge_u", out)

	default:
		return newErr(UnsupportedConstruct, "binary operator %d", op)
	}

	return nil
}

// emitIntOp applies the integer width convention of spec.md §4.6: pick
// 64-bit ops only when the output type is itself 64 bits wide, otherwise
// 32-bit ops, then truncate explicitly if the output is narrower than 32
// bits.
func emitIntOp(outType ast.Type, mnemonic string, out *emit.Buffer) {
	outBits := outType.Sizeof() * 8
	opBits := 32
	if outBits == 64 {
		opBits = 64
	}
	out.Line("%s%d", mnemonic, opBits)
	if outBits < 32 {
		out.Line("trunc_u%d", outBits)
	}
}

// emitShiftOp applies the width convention plus the signed/unsigned
// mnemonic choice for RShift (arithmetic vs logical shift).
func emitShiftOp(outType ast.Type, signed bool, out *emit.Buffer) {
	mnemonic := "rshift_u"
	if signed {
		mnemonic = "rshift_i"
	}
	emitIntOp(outType, mnemonic, out)
}

// emitCmpOp implements spec.md §4.6's comparison dispatch: signedness
// comes from the operand types (both must be signed), and width is
// max(sizeof(lhs), sizeof(rhs))*8 capped at 64.
func emitCmpOp(lhsType, rhsType ast.Type, signedOp, unsignedOp string, out *emit.Buffer) {
	signed := lhsType.IsSigned() && rhsType.IsSigned()

	numBits := lhsType.Sizeof() * 8
	if rb := rhsType.Sizeof() * 8; rb > numBits {
		numBits = rb
	}

	opBits := 64
	if numBits <= 32 {
		opBits = 32
	}

	if signed {
		out.Line("%s%d", signedOp, opBits)
	} else {
		out.Line("%s%d", unsignedOp, opBits)
	}
}

// genAdd implements Add's pointer/array-scaling and plain-integer cases.
func genAdd(lhsType, rhsType, outType ast.Type, out *emit.Buffer) error {
	switch {
	case lhsType.Kind == ast.KindPointer && isInteger(rhsType):
		out.Line("push %d", lhsType.ElemType().Sizeof())
		out.Line("mul_u64")
		out.Line("add_u64")
		return nil

	case lhsType.Kind == ast.KindArray && isInteger(rhsType):
		out.Line("push %d", lhsType.ElemType().Sizeof())
		out.Line("mul_u64")
		out.Line("add_u64")
		return nil

	case isInteger(lhsType) && isInteger(rhsType):
		emitIntOp(outType, "add_u", out)
		return nil

	default:
		return newErr(UnsupportedConstruct, "add between %s and %s", lhsType, rhsType)
	}
}

// genSub implements Sub's pointer-scaling and plain-integer cases.
// Pointer minus pointer is not specified by spec.md §4.6 and is rejected
// (see DESIGN.md's Open Question decisions).
func genSub(lhsType, rhsType, outType ast.Type, out *emit.Buffer) error {
	switch {
	case lhsType.Kind == ast.KindPointer && rhsType.Kind == ast.KindPointer:
		return newErr(UnsupportedConstruct, "pointer minus pointer")

	case lhsType.Kind == ast.KindPointer && isInteger(rhsType):
		out.Line("push %d", lhsType.ElemType().Sizeof())
		out.Line("mul_u64")
		out.Line("sub_u64")
		return nil

	case isInteger(lhsType) && isInteger(rhsType):
		emitIntOp(outType, "sub_u", out)
		return nil

	default:
		return newErr(UnsupportedConstruct, "sub between %s and %s", lhsType, rhsType)
	}
}

func isInteger(t ast.Type) bool {
	return t.Kind == ast.KindUInt || t.Kind == ast.KindInt
}
