// function.go is the function emitter (spec.md §4.3). Grounded directly
// on _examples/original_source/ncc/src/codegen.rs's Function::gen_code.

package codegen

import (
	"ncc/internal/ast"
	"ncc/internal/emit"
)

// genFunction emits one function's signature comment, label, local-slot
// reservation, body, and implicit trailing return.
func genFunction(fn ast.Function, sym *SymGen, out *emit.Buffer) error {
	out.Comment("")
	out.WriteString("# " + fn.RetType.String() + " " + fn.Name + "(")
	for i, p := range fn.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.Type.String() + " " + p.Name)
	}
	out.WriteString(")\n")
	out.Comment("")

	out.Label(fn.Name)

	for i := 0; i < fn.NumLocals; i++ {
		out.Line("push 0")
	}

	loops := &loopStack{}
	if err := genStmt(fn.Body, loops, sym, out); err != nil {
		return err
	}

	if needsFinalReturn(fn.Body) {
		out.Line("push 0")
		out.Line("ret")
	}

	out.Blank()
	return nil
}

// needsFinalReturn implements spec.md §4.3 step 5: purely syntactic over
// the outermost Block, not examining nested control flow.
func needsFinalReturn(body ast.Stmt) bool {
	block, ok := body.(ast.Block)
	if !ok || len(block.Stmts) == 0 {
		return true
	}
	last := block.Stmts[len(block.Stmts)-1]
	switch last.(type) {
	case ast.ReturnVoid, ast.ReturnExpr:
		return false
	default:
		return true
	}
}
