// invariants_test.go checks the cross-cutting properties spec.md §8
// lists as testable, in place of the register-allocated IR validator
// (src/ir/validate.go) the teacher used to check analogous properties
// over a different type system: every statement nets to zero stack
// depth, every function path returns, break/continue outside a loop is
// rejected, generated labels never collide even across deeply nested
// control flow, and no user global ever lands on the reserved address.
package codegen_test

import (
	"errors"
	"strings"
	"testing"

	"ncc/internal/ast"
	"ncc/internal/codegen"
	"ncc/internal/vmhost/asm"
)

// TestBreakOutsideLoopRejected: Break with no enclosing loop is a
// structured error, not a panic or a silently wrong jump.
func TestBreakOutsideLoopRejected(t *testing.T) {
	unit := ast.Unit{Funcs: []ast.Function{{
		Name:    "f",
		RetType: ast.UInt(64),
		Body:    ast.Block{Stmts: []ast.Stmt{ast.Break{}}},
	}}}

	_, err := codegen.GenCode(unit)
	var cerr *codegen.Error
	if !errors.As(err, &cerr) || cerr.Kind != codegen.BreakOutsideLoop {
		t.Fatalf("got %v, want a BreakOutsideLoop *Error", err)
	}
}

// TestContinueOutsideLoopRejected mirrors TestBreakOutsideLoopRejected
// for Continue.
func TestContinueOutsideLoopRejected(t *testing.T) {
	unit := ast.Unit{Funcs: []ast.Function{{
		Name:    "f",
		RetType: ast.UInt(64),
		Body:    ast.Block{Stmts: []ast.Stmt{ast.Continue{}}},
	}}}

	_, err := codegen.GenCode(unit)
	var cerr *codegen.Error
	if !errors.As(err, &cerr) || cerr.Kind != codegen.ContinueOutsideLoop {
		t.Fatalf("got %v, want a ContinueOutsideLoop *Error", err)
	}
}

// TestImplicitReturnCoverage: a function whose body falls off the end
// without an explicit return still reaches a ret, never running off the
// end of .code (spec.md §4.3 step 5).
func TestImplicitReturnCoverage(t *testing.T) {
	g := ast.NewGlobalDecl("g", ast.UInt(64))
	unit := ast.Unit{
		Globals: []ast.Global{{Name: "g", Type: ast.UInt(64), Init: u64(0)}},
		Funcs: []ast.Function{{
			Name:    "main",
			RetType: ast.UInt(64),
			Body: ast.Block{Stmts: []ast.Stmt{
				ast.ExprStmt{X: ast.Binary{Op: ast.BinAssign, LHS: ast.Ref{Decl: g}, RHS: u64(9)}},
			}},
		}},
	}

	res := runUnit(t, unit)
	if !res.HasExit || res.ExitCode != 0 {
		t.Fatalf("got %+v, want the implicit `return 0` exit code", res)
	}
}

// TestNestedControlFlowProducesUniqueLabels: several loops and ifs at
// varying nesting depth, generated by one SymGen, must assemble without
// a duplicate-label error — the generator's only defense against label
// collisions is GenSym's monotonic counter, and this exercises it across
// every label-producing construct at once.
func TestNestedControlFlowProducesUniqueLabels(t *testing.T) {
	i := ast.Ref{Decl: ast.NewLocalDecl(0, ast.UInt(64))}
	j := ast.Ref{Decl: ast.NewLocalDecl(1, ast.UInt(64))}
	acc := ast.Ref{Decl: ast.NewLocalDecl(2, ast.UInt(64))}

	body := ast.Block{Stmts: []ast.Stmt{
		ast.VarDecl{Decl: ast.NewLocalDecl(2, ast.UInt(64)), Init: u64(0)},
		ast.For{
			Init: ast.VarDecl{Decl: ast.NewLocalDecl(0, ast.UInt(64)), Init: u64(0)},
			Test: ast.Binary{Op: ast.BinLt, LHS: i, RHS: u64(3)},
			Incr: ast.Binary{Op: ast.BinAssign, LHS: i, RHS: ast.Binary{Op: ast.BinAdd, LHS: i, RHS: u64(1)}},
			Body: ast.Block{Stmts: []ast.Stmt{
				ast.While{
					Test: ast.Binary{Op: ast.BinLt, LHS: j, RHS: u64(3)},
					Body: ast.Block{Stmts: []ast.Stmt{
						ast.If{
							Test: ast.Binary{Op: ast.BinEq, LHS: j, RHS: u64(1)},
							Then: ast.Block{Stmts: []ast.Stmt{ast.Continue{}}},
							Else: ast.Block{Stmts: []ast.Stmt{
								ast.ExprStmt{X: ast.Binary{
									Op: ast.BinAssign, LHS: acc,
									RHS: ast.Binary{Op: ast.BinAdd, LHS: acc, RHS: u64(1)},
								}},
							}},
						},
						ast.DoWhile{
							Test: u64(0),
							Body: ast.Block{Stmts: []ast.Stmt{
								ast.ExprStmt{X: ast.Binary{
									Op: ast.BinAssign, LHS: j,
									RHS: ast.Binary{Op: ast.BinAdd, LHS: j, RHS: u64(1)},
								}},
							}},
						},
					}},
				},
				ast.VarDecl{Decl: ast.NewLocalDecl(1, ast.UInt(64)), Init: u64(0)},
			}},
		},
		ast.ReturnExpr{X: acc},
	}}

	unit := ast.Unit{Funcs: []ast.Function{{
		Name:      "main",
		RetType:   ast.UInt(64),
		NumLocals: 3,
		Body:      body,
	}}}

	src, err := codegen.GenCode(unit)
	if err != nil {
		t.Fatalf("GenCode: %v", err)
	}
	if _, err := asm.Assemble(src); err != nil {
		t.Fatalf("Assemble: %v (labels collided)\n--- source ---\n%s", err, src)
	}
}

// TestUserGlobalsNeverClaimReservedAddress: address 0 is reserved as a
// permanent null guard (spec.md §4.2 step 1); no user global may land
// there regardless of declaration order.
func TestUserGlobalsNeverClaimReservedAddress(t *testing.T) {
	unit := ast.Unit{
		Globals: []ast.Global{
			{Name: "first", Type: ast.UInt(8), Init: ast.IntLit{Value: 1, Type: ast.UInt(8)}},
			{Name: "second", Type: ast.UInt(64), Init: u64(2)},
		},
		Funcs: []ast.Function{{
			Name:    "main",
			RetType: ast.UInt(64),
			Body:    ast.Block{Stmts: []ast.Stmt{ast.ReturnExpr{X: u64(0)}}},
		}},
	}

	src, err := codegen.GenCode(unit)
	if err != nil {
		t.Fatalf("GenCode: %v", err)
	}
	prog, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, name := range []string{"first", "second"} {
		if addr, ok := prog.DataLabels[name]; !ok {
			t.Fatalf("label %q missing from data section", name)
		} else if addr == 0 {
			t.Fatalf("global %q claimed the reserved null-guard address", name)
		}
	}
}

// TestLongDiscardedAssignmentChainStaysStackNeutral: a run of
// value-discarded assignments and arithmetic expression statements must
// leave the operand stack exactly as deep as it started, or the VM
// would either underflow or grow unbounded across iterations. A for
// loop repeating the chain ten times without error is strong evidence
// each iteration's net stack effect is zero.
func TestLongDiscardedAssignmentChainStaysStackNeutral(t *testing.T) {
	x := ast.Ref{Decl: ast.NewLocalDecl(0, ast.UInt(64))}
	y := ast.Ref{Decl: ast.NewLocalDecl(1, ast.UInt(64))}
	i := ast.Ref{Decl: ast.NewLocalDecl(2, ast.UInt(64))}

	unit := ast.Unit{Funcs: []ast.Function{{
		Name:      "main",
		RetType:   ast.UInt(64),
		NumLocals: 3,
		Body: ast.Block{Stmts: []ast.Stmt{
			ast.VarDecl{Decl: ast.NewLocalDecl(0, ast.UInt(64)), Init: u64(1)},
			ast.VarDecl{Decl: ast.NewLocalDecl(1, ast.UInt(64)), Init: u64(1)},
			ast.For{
				Init: ast.VarDecl{Decl: ast.NewLocalDecl(2, ast.UInt(64)), Init: u64(0)},
				Test: ast.Binary{Op: ast.BinLt, LHS: i, RHS: u64(10)},
				Incr: ast.Binary{Op: ast.BinAssign, LHS: i, RHS: ast.Binary{Op: ast.BinAdd, LHS: i, RHS: u64(1)}},
				Body: ast.Block{Stmts: []ast.Stmt{
					ast.ExprStmt{X: ast.Binary{Op: ast.BinAssign, LHS: x, RHS: ast.Binary{Op: ast.BinAdd, LHS: x, RHS: y}}},
					ast.ExprStmt{X: ast.Binary{Op: ast.BinAssign, LHS: y, RHS: ast.Binary{Op: ast.BinMul, LHS: y, RHS: u64(2)}}},
					ast.ExprStmt{X: ast.Binary{Op: ast.BinComma, LHS: x, RHS: y}},
				}},
			},
			ast.ReturnExpr{X: x},
		}},
	}}}

	res := runUnit(t, unit)
	if !res.HasExit {
		t.Fatalf("got %+v, want a normal exit", res)
	}
	// x starts at 1, y doubles each round starting at 1: x_n = 1 + sum(2^0..2^9) = 1 + 1023.
	if res.ExitCode != 1024 {
		t.Fatalf("exit code = %d, want 1024 (stack imbalance would diverge or error instead)", res.ExitCode)
	}
}

// TestAddressOfSharesUnitSymGenAcrossFunctions: two functions in the
// same unit each take &*(cond ? p : q) — AddressOf over a Deref over a
// Ternary, the one AddressOf shape that recurses back into genExpr.
// That recursive call must thread the unit's real SymGen through
// rather than resetting a fresh counter, or both functions emit the
// identical ternary labels and Assemble rejects the unit as having a
// label defined twice.
func TestAddressOfSharesUnitSymGenAcrossFunctions(t *testing.T) {
	p := ast.NewGlobalDecl("p", ast.Pointer(ast.UInt(64)))
	q := ast.NewGlobalDecl("q", ast.Pointer(ast.UInt(64)))

	addrOfTernaryDeref := func(test ast.Expr) ast.Expr {
		return ast.Unary{
			Op: ast.UnAddressOf,
			Child: ast.Unary{
				Op: ast.UnDeref,
				Child: ast.Ternary{
					Test: test,
					Then: ast.Ref{Decl: p},
					Else: ast.Ref{Decl: q},
				},
			},
		}
	}

	unit := ast.Unit{
		Globals: []ast.Global{
			{Name: "p", Type: ast.Pointer(ast.UInt(64))},
			{Name: "q", Type: ast.Pointer(ast.UInt(64))},
		},
		Funcs: []ast.Function{
			{
				Name:    "f1",
				RetType: ast.UInt(64),
				Body: ast.Block{Stmts: []ast.Stmt{
					ast.ExprStmt{X: addrOfTernaryDeref(u64(1))},
					ast.ReturnExpr{X: u64(0)},
				}},
			},
			{
				Name:    "f2",
				RetType: ast.UInt(64),
				Body: ast.Block{Stmts: []ast.Stmt{
					ast.ExprStmt{X: addrOfTernaryDeref(u64(0))},
					ast.ReturnExpr{X: u64(0)},
				}},
			},
		},
	}

	src, err := codegen.GenCode(unit)
	if err != nil {
		t.Fatalf("GenCode: %v", err)
	}
	if strings.Count(src, "_ternary_else_0:") != 1 {
		t.Fatalf("want exactly one _ternary_else_0 label across the unit, got source:\n%s", src)
	}
	if _, err := asm.Assemble(src); err != nil {
		t.Fatalf("Assemble: %v (labels collided across functions)\n--- source ---\n%s", err, src)
	}
}
