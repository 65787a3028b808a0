// stmt.go is the statement emitter (spec.md §4.4). Every statement is
// stack-neutral. Break/continue targets are threaded through a loopStack
// rather than the pair of *string parameters the Rust prototype uses,
// since Go's zero-value-friendly structs make a small stack simpler to
// reason about across the nested While/DoWhile/For cases without
// re-deriving the enclosing pair by hand at each level.

package codegen

import (
	"ncc/internal/ast"
	"ncc/internal/emit"
)

// genStmt emits code for one statement. loops holds the break/continue
// targets of every loop enclosing stmt.
func genStmt(stmt ast.Stmt, loops *loopStack, sym *SymGen, out *emit.Buffer) error {
	switch s := stmt.(type) {
	case ast.ExprStmt:
		return genExprStmt(s.X, sym, out)

	case ast.ReturnVoid:
		out.Line("push 0")
		out.Line("ret")
		return nil

	case ast.ReturnExpr:
		return genReturnExpr(s.X, sym, out)

	case ast.Break:
		l, ok := loops.peek()
		if !ok {
			return &Error{Kind: BreakOutsideLoop, Detail: "break outside of loop context"}
		}
		out.Line("jmp %s", l.breakLabel)
		return nil

	case ast.Continue:
		l, ok := loops.peek()
		if !ok {
			return &Error{Kind: ContinueOutsideLoop, Detail: "continue outside of loop context"}
		}
		out.Line("jmp %s", l.contLabel)
		return nil

	case ast.If:
		return genIf(s, loops, sym, out)

	case ast.While:
		return genWhile(s, loops, sym, out)

	case ast.DoWhile:
		return genDoWhile(s, loops, sym, out)

	case ast.For:
		return genFor(s, loops, sym, out)

	case ast.Block:
		for _, child := range s.Stmts {
			if err := genStmt(child, loops, sym, out); err != nil {
				return err
			}
		}
		return nil

	case ast.VarDecl:
		return genVarDecl(s, sym, out)

	default:
		return newErr(UnsupportedConstruct, "statement node %T", stmt)
	}
}

// genExprStmt implements spec.md §4.4's three Expr sub-cases: a
// discarded assignment (no dup/pop), a Void Asm (emitted as-is, no
// pop), and the general case (evaluate then pop to rebalance the
// stack).
func genExprStmt(x ast.Expr, sym *SymGen, out *emit.Buffer) error {
	if bin, ok := x.(ast.Binary); ok && bin.Op == ast.BinAssign {
		return genAssign(bin.LHS, bin.RHS, sym, out, false)
	}

	if asmExpr, ok := x.(ast.Asm); ok && asmExpr.OutType.Kind == ast.KindVoid {
		return genAsm(asmExpr, sym, out)
	}

	if err := genExpr(x, sym, out); err != nil {
		return err
	}
	out.Line("pop")
	return nil
}

// genReturnExpr implements spec.md §4.4's ReturnExpr contract.
func genReturnExpr(x ast.Expr, sym *SymGen, out *emit.Buffer) error {
	if asmExpr, ok := x.(ast.Asm); ok && asmExpr.OutType.Kind == ast.KindVoid {
		if err := genAsm(asmExpr, sym, out); err != nil {
			return err
		}
		out.Line("push 0")
		out.Line("ret")
		return nil
	}

	if err := genExpr(x, sym, out); err != nil {
		return err
	}
	out.Line("ret")
	return nil
}

// genIf implements spec.md §4.4's If contract.
func genIf(s ast.If, loops *loopStack, sym *SymGen, out *emit.Buffer) error {
	if err := genExpr(s.Test, sym, out); err != nil {
		return err
	}

	falseLabel := sym.GenSym("if_false")
	out.Line("jz %s", falseLabel)

	if s.Else != nil {
		joinLabel := sym.GenSym("if_join")

		if err := genStmt(s.Then, loops, sym, out); err != nil {
			return err
		}
		out.Line("jmp %s", joinLabel)

		out.Label(falseLabel)
		if err := genStmt(s.Else, loops, sym, out); err != nil {
			return err
		}
		out.Label(joinLabel)
	} else {
		if err := genStmt(s.Then, loops, sym, out); err != nil {
			return err
		}
		out.Label(falseLabel)
	}
	return nil
}

// genWhile implements spec.md §4.4's While contract.
func genWhile(s ast.While, loops *loopStack, sym *SymGen, out *emit.Buffer) error {
	loopLabel := sym.GenSym("while_loop")
	breakLabel := sym.GenSym("while_break")

	out.Label(loopLabel)
	if err := genExpr(s.Test, sym, out); err != nil {
		return err
	}
	out.Line("jz %s", breakLabel)

	loops.push(loopLabels{breakLabel: breakLabel, contLabel: loopLabel})
	err := genStmt(s.Body, loops, sym, out)
	loops.pop()
	if err != nil {
		return err
	}

	out.Line("jmp %s", loopLabel)
	out.Label(breakLabel)
	return nil
}

// genDoWhile implements spec.md §4.4's DoWhile contract. Continue jumps
// after the body to the test, not back to the top.
func genDoWhile(s ast.DoWhile, loops *loopStack, sym *SymGen, out *emit.Buffer) error {
	loopLabel := sym.GenSym("dowhile_loop")
	contLabel := sym.GenSym("dowhile_cont")
	breakLabel := sym.GenSym("dowhile_break")

	out.Label(loopLabel)

	loops.push(loopLabels{breakLabel: breakLabel, contLabel: contLabel})
	err := genStmt(s.Body, loops, sym, out)
	loops.pop()
	if err != nil {
		return err
	}

	out.Label(contLabel)
	if err := genExpr(s.Test, sym, out); err != nil {
		return err
	}
	out.Line("jz %s", breakLabel)
	out.Line("jmp %s", loopLabel)

	out.Label(breakLabel)
	return nil
}

// genFor implements spec.md §4.4's For contract. The increment is always
// evaluated as an expression whose value is discarded.
func genFor(s ast.For, loops *loopStack, sym *SymGen, out *emit.Buffer) error {
	if s.Init != nil {
		if err := genStmt(s.Init, loops, sym, out); err != nil {
			return err
		}
	}

	loopLabel := sym.GenSym("for_loop")
	contLabel := sym.GenSym("for_cont")
	breakLabel := sym.GenSym("for_break")

	out.Label(loopLabel)
	if err := genExpr(s.Test, sym, out); err != nil {
		return err
	}
	out.Line("jz %s", breakLabel)

	loops.push(loopLabels{breakLabel: breakLabel, contLabel: contLabel})
	err := genStmt(s.Body, loops, sym, out)
	loops.pop()
	if err != nil {
		return err
	}

	out.Label(contLabel)
	if err := genExpr(s.Incr, sym, out); err != nil {
		return err
	}
	out.Line("pop")
	out.Line("jmp %s", loopLabel)

	out.Label(breakLabel)
	return nil
}

// genVarDecl implements spec.md §4.4's VarDecl contract: the slot has
// already been zeroed by the function prologue, so this only needs to
// store the initializer's value into it.
func genVarDecl(s ast.VarDecl, sym *SymGen, out *emit.Buffer) error {
	return genAssign(ast.Ref{Decl: s.Decl}, s.Init, sym, out, false)
}
