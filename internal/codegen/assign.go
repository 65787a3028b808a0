// assign.go implements the assignment and lvalue path of spec.md §4.7:
// Deref, Arg/Local and Global destinations, each with value-needed and
// value-discarded emission modes. Grounded directly on
// _examples/original_source/ncc/src/codegen.rs's gen_assign.

package codegen

import (
	"ncc/internal/ast"
	"ncc/internal/emit"
)

// genAssign emits an assignment lhs = rhs. needValue selects between the
// value-needed mode (assignment used as an expression, result left on
// top of stack) and the value-discarded mode (assignment used as a
// statement, net stack delta zero).
func genAssign(lhs, rhs ast.Expr, sym *SymGen, out *emit.Buffer, needValue bool) error {
	switch l := lhs.(type) {
	case ast.Unary:
		if l.Op != ast.UnDeref {
			return newErr(UnsupportedConstruct, "assignment target: unary operator %d", l.Op)
		}
		return genAssignDeref(l.Child, rhs, sym, out, needValue)

	case ast.Ref:
		switch l.Decl.Kind {
		case ast.DeclArg:
			return genAssignSlot(rhs, "set_arg", l.Decl.Idx, sym, out, needValue)
		case ast.DeclLocal:
			return genAssignSlot(rhs, "set_local", l.Decl.Idx, sym, out, needValue)
		case ast.DeclGlobal:
			return genAssignGlobal(l.Decl, rhs, sym, out, needValue)
		default:
			return newErr(UnsupportedConstruct, "assignment target: declaration kind %d", l.Decl.Kind)
		}

	default:
		return newErr(UnsupportedConstruct, "assignment target %T", lhs)
	}
}

// genAssignDeref implements `*addr = val`.
func genAssignDeref(addr, val ast.Expr, sym *SymGen, out *emit.Buffer, needValue bool) error {
	addrType, err := addr.EvalType()
	if err != nil {
		return err
	}
	if addrType.Kind != ast.KindPointer {
		return newErr(UnsupportedConstruct, "deref assignment through non-pointer type %s", addrType)
	}
	elemBits := addrType.ElemType().Sizeof() * 8

	if needValue {
		if err := genExpr(val, sym, out); err != nil {
			return err
		}
		if err := genExpr(addr, sym, out); err != nil {
			return err
		}
		out.Line("getn 1")
	} else {
		if err := genExpr(addr, sym, out); err != nil {
			return err
		}
		if err := genExpr(val, sym, out); err != nil {
			return err
		}
	}

	out.Line("store_u%d", elemBits)
	return nil
}

// genAssignSlot implements `arg = val` and `local = val`.
func genAssignSlot(val ast.Expr, setMnemonic string, idx int, sym *SymGen, out *emit.Buffer, needValue bool) error {
	if err := genExpr(val, sym, out); err != nil {
		return err
	}
	if needValue {
		out.Line("dup")
	}
	out.Line("%s %d", setMnemonic, idx)
	return nil
}

// genAssignGlobal implements `global = val`.
func genAssignGlobal(decl ast.Decl, val ast.Expr, sym *SymGen, out *emit.Buffer, needValue bool) error {
	if needValue {
		if err := genExpr(val, sym, out); err != nil {
			return err
		}
		out.Line("push %s", decl.Name)
		out.Line("getn 1")
	} else {
		out.Line("push %s", decl.Name)
		if err := genExpr(val, sym, out); err != nil {
			return err
		}
	}

	t := decl.Type
	switch t.Kind {
	case ast.KindUInt, ast.KindInt:
		out.Line("store_u%d", t.Bits)
	case ast.KindPointer:
		out.Line("store_u64")
	default:
		return newErr(UnsupportedConstruct, "assignment to global of type %s", t)
	}
	return nil
}
