// Package astjson decodes the JSON representation of an already resolved
// and type-checked ast.Unit. The ncc front end (lexer, parser, symbol
// resolver, type checker) is out of scope for this repository (spec.md
// §1 treats it as a collaborator whose only contract with code
// generation is the AST itself); astjson is the boundary format a
// front end living elsewhere hands units across. The shape mirrors the
// tagged-union convention other retrieved repos use for wire formats
// (a "kind"/"node" discriminator field per variant) rather than
// reflection-based struct tags, since ast.Type/Expr/Stmt are closed
// interface hierarchies, not flat structs.
package astjson

import (
	"encoding/json"
	"fmt"

	"ncc/internal/ast"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

type typeJSON struct {
	Kind   string     `json:"kind"`
	Bits   int        `json:"bits,omitempty"`
	Elem   *typeJSON  `json:"elem,omitempty"`
	Size   *exprJSON  `json:"size,omitempty"`
	Params []typeJSON `json:"params,omitempty"`
	Ret    *typeJSON  `json:"ret,omitempty"`
}

type declJSON struct {
	Kind string   `json:"kind"`
	Name string   `json:"name,omitempty"`
	Idx  int      `json:"idx,omitempty"`
	Type typeJSON `json:"type"`
}

type exprJSON struct {
	Node    string     `json:"node"`
	Value   int64      `json:"value,omitempty"`
	Type    *typeJSON  `json:"type,omitempty"`
	Name    string     `json:"name,omitempty"`
	Decl    *declJSON  `json:"decl,omitempty"`
	Child   *exprJSON  `json:"child,omitempty"`
	Op      string     `json:"op,omitempty"`
	LHS     *exprJSON  `json:"lhs,omitempty"`
	RHS     *exprJSON  `json:"rhs,omitempty"`
	Test    *exprJSON  `json:"test,omitempty"`
	Then    *exprJSON  `json:"then,omitempty"`
	Else    *exprJSON  `json:"else,omitempty"`
	Callee  *exprJSON  `json:"callee,omitempty"`
	Args    []exprJSON `json:"args,omitempty"`
	Text    string     `json:"text,omitempty"`
	OutType *typeJSON  `json:"out_type,omitempty"`
}

type stmtJSON struct {
	Node  string     `json:"node"`
	X     *exprJSON  `json:"x,omitempty"`
	Stmts []stmtJSON `json:"stmts,omitempty"`
	Test  *exprJSON  `json:"test,omitempty"`
	Then  *stmtJSON  `json:"then,omitempty"`
	Else  *stmtJSON  `json:"else,omitempty"`
	Body  *stmtJSON  `json:"body,omitempty"`
	Init  *stmtJSON  `json:"init,omitempty"`
	Incr  *exprJSON  `json:"incr,omitempty"`
	Decl  *declJSON  `json:"decl,omitempty"`
}

type paramJSON struct {
	Name string   `json:"name"`
	Type typeJSON `json:"type"`
}

type functionJSON struct {
	Name      string      `json:"name"`
	RetType   typeJSON    `json:"ret_type"`
	Params    []paramJSON `json:"params"`
	Body      stmtJSON    `json:"body"`
	NumLocals int         `json:"num_locals"`
}

type globalJSON struct {
	Name string    `json:"name"`
	Type typeJSON  `json:"type"`
	Init *exprJSON `json:"init,omitempty"`
}

type unitJSON struct {
	Globals []globalJSON   `json:"globals"`
	Funcs   []functionJSON `json:"funcs"`
}

// ---------------------
// ----- functions -----
// ---------------------

// Decode parses the JSON representation of a Unit.
func Decode(data []byte) (ast.Unit, error) {
	var uj unitJSON
	if err := json.Unmarshal(data, &uj); err != nil {
		return ast.Unit{}, fmt.Errorf("decode unit: %w", err)
	}
	return unitFromJSON(uj)
}

func unitFromJSON(uj unitJSON) (ast.Unit, error) {
	unit := ast.Unit{
		Globals: make([]ast.Global, 0, len(uj.Globals)),
		Funcs:   make([]ast.Function, 0, len(uj.Funcs)),
	}
	for _, gj := range uj.Globals {
		g, err := globalFromJSON(gj)
		if err != nil {
			return ast.Unit{}, err
		}
		unit.Globals = append(unit.Globals, g)
	}
	for _, fj := range uj.Funcs {
		f, err := functionFromJSON(fj)
		if err != nil {
			return ast.Unit{}, err
		}
		unit.Funcs = append(unit.Funcs, f)
	}
	return unit, nil
}

func globalFromJSON(gj globalJSON) (ast.Global, error) {
	t, err := typeFromJSON(gj.Type)
	if err != nil {
		return ast.Global{}, err
	}
	g := ast.Global{Name: gj.Name, Type: t}
	if gj.Init != nil {
		init, err := exprFromJSON(*gj.Init)
		if err != nil {
			return ast.Global{}, err
		}
		g.Init = init
	}
	return g, nil
}

func functionFromJSON(fj functionJSON) (ast.Function, error) {
	retType, err := typeFromJSON(fj.RetType)
	if err != nil {
		return ast.Function{}, err
	}
	params := make([]ast.Param, 0, len(fj.Params))
	for _, pj := range fj.Params {
		pt, err := typeFromJSON(pj.Type)
		if err != nil {
			return ast.Function{}, err
		}
		params = append(params, ast.Param{Name: pj.Name, Type: pt})
	}
	body, err := stmtFromJSON(fj.Body)
	if err != nil {
		return ast.Function{}, err
	}
	return ast.Function{
		Name:      fj.Name,
		RetType:   retType,
		Params:    params,
		Body:      body,
		NumLocals: fj.NumLocals,
	}, nil
}

func typeFromJSON(tj typeJSON) (ast.Type, error) {
	switch tj.Kind {
	case "void":
		return ast.Void, nil
	case "uint":
		return ast.UInt(tj.Bits), nil
	case "int":
		return ast.Int(tj.Bits), nil
	case "pointer":
		if tj.Elem == nil {
			return ast.Type{}, fmt.Errorf("pointer type missing elem")
		}
		elem, err := typeFromJSON(*tj.Elem)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Pointer(elem), nil
	case "array":
		if tj.Elem == nil || tj.Size == nil {
			return ast.Type{}, fmt.Errorf("array type missing elem or size")
		}
		elem, err := typeFromJSON(*tj.Elem)
		if err != nil {
			return ast.Type{}, err
		}
		size, err := exprFromJSON(*tj.Size)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Array(elem, size), nil
	case "fun":
		params := make([]ast.Type, 0, len(tj.Params))
		for _, pt := range tj.Params {
			t, err := typeFromJSON(pt)
			if err != nil {
				return ast.Type{}, err
			}
			params = append(params, t)
		}
		var ret ast.Type
		if tj.Ret != nil {
			r, err := typeFromJSON(*tj.Ret)
			if err != nil {
				return ast.Type{}, err
			}
			ret = r
		}
		return ast.Fun(params, ret), nil
	default:
		return ast.Type{}, fmt.Errorf("unknown type kind %q", tj.Kind)
	}
}

func declFromJSON(dj declJSON) (ast.Decl, error) {
	t, err := typeFromJSON(dj.Type)
	if err != nil {
		return ast.Decl{}, err
	}
	switch dj.Kind {
	case "global":
		return ast.NewGlobalDecl(dj.Name, t), nil
	case "arg":
		return ast.NewArgDecl(dj.Idx, t), nil
	case "local":
		return ast.NewLocalDecl(dj.Idx, t), nil
	case "fun":
		return ast.NewFunDecl(dj.Name, t), nil
	default:
		return ast.Decl{}, fmt.Errorf("unknown decl kind %q", dj.Kind)
	}
}

var unaryOps = map[string]ast.UnOp{
	"minus": ast.UnMinus, "not": ast.UnNot, "bit_not": ast.UnBitNot,
	"deref": ast.UnDeref, "address_of": ast.UnAddressOf,
}

var binaryOps = map[string]ast.BinOp{
	"assign": ast.BinAssign, "comma": ast.BinComma, "and": ast.BinAnd, "or": ast.BinOr,
	"bit_and": ast.BinBitAnd, "bit_or": ast.BinBitOr, "bit_xor": ast.BinBitXor,
	"lshift": ast.BinLShift, "rshift": ast.BinRShift,
	"add": ast.BinAdd, "sub": ast.BinSub, "mul": ast.BinMul, "div": ast.BinDiv, "mod": ast.BinMod,
	"eq": ast.BinEq, "ne": ast.BinNe, "lt": ast.BinLt, "le": ast.BinLe, "gt": ast.BinGt, "ge": ast.BinGe,
}

func exprFromJSON(ej exprJSON) (ast.Expr, error) {
	switch ej.Node {
	case "int":
		t := ast.UInt(64)
		if ej.Type != nil {
			tt, err := typeFromJSON(*ej.Type)
			if err != nil {
				return nil, err
			}
			t = tt
		}
		return ast.IntLit{Value: ej.Value, Type: t}, nil

	case "string":
		return ast.StringLit{Value: ej.Name}, nil

	case "ident":
		return ast.Ident{Name: ej.Name}, nil

	case "ref":
		if ej.Decl == nil {
			return nil, fmt.Errorf("ref expression missing decl")
		}
		d, err := declFromJSON(*ej.Decl)
		if err != nil {
			return nil, err
		}
		return ast.Ref{Decl: d}, nil

	case "cast":
		if ej.Type == nil || ej.Child == nil {
			return nil, fmt.Errorf("cast expression missing type or child")
		}
		t, err := typeFromJSON(*ej.Type)
		if err != nil {
			return nil, err
		}
		child, err := exprFromJSON(*ej.Child)
		if err != nil {
			return nil, err
		}
		return ast.Cast{NewType: t, Child: child}, nil

	case "sizeof_expr":
		if ej.Child == nil {
			return nil, fmt.Errorf("sizeof_expr missing child")
		}
		child, err := exprFromJSON(*ej.Child)
		if err != nil {
			return nil, err
		}
		return ast.SizeofExpr{Child: child}, nil

	case "sizeof_type":
		if ej.Type == nil {
			return nil, fmt.Errorf("sizeof_type missing type")
		}
		t, err := typeFromJSON(*ej.Type)
		if err != nil {
			return nil, err
		}
		return ast.SizeofType{Of: t}, nil

	case "unary":
		op, ok := unaryOps[ej.Op]
		if !ok {
			return nil, fmt.Errorf("unknown unary op %q", ej.Op)
		}
		if ej.Child == nil {
			return nil, fmt.Errorf("unary expression missing child")
		}
		child, err := exprFromJSON(*ej.Child)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: op, Child: child}, nil

	case "binary":
		op, ok := binaryOps[ej.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary op %q", ej.Op)
		}
		if ej.LHS == nil || ej.RHS == nil {
			return nil, fmt.Errorf("binary expression missing lhs or rhs")
		}
		lhs, err := exprFromJSON(*ej.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := exprFromJSON(*ej.RHS)
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: op, LHS: lhs, RHS: rhs}, nil

	case "ternary":
		if ej.Test == nil || ej.Then == nil || ej.Else == nil {
			return nil, fmt.Errorf("ternary expression missing test, then or else")
		}
		test, err := exprFromJSON(*ej.Test)
		if err != nil {
			return nil, err
		}
		then, err := exprFromJSON(*ej.Then)
		if err != nil {
			return nil, err
		}
		els, err := exprFromJSON(*ej.Else)
		if err != nil {
			return nil, err
		}
		return ast.Ternary{Test: test, Then: then, Else: els}, nil

	case "call":
		if ej.Callee == nil {
			return nil, fmt.Errorf("call expression missing callee")
		}
		callee, err := exprFromJSON(*ej.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(ej.Args))
		for _, aj := range ej.Args {
			a, err := exprFromJSON(aj)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return ast.Call{Callee: callee, Args: args}, nil

	case "asm":
		outType := ast.Void
		if ej.OutType != nil {
			t, err := typeFromJSON(*ej.OutType)
			if err != nil {
				return nil, err
			}
			outType = t
		}
		args := make([]ast.Expr, 0, len(ej.Args))
		for _, aj := range ej.Args {
			a, err := exprFromJSON(aj)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return ast.Asm{Text: ej.Text, Args: args, OutType: outType}, nil

	default:
		return nil, fmt.Errorf("unknown expression node %q", ej.Node)
	}
}

func stmtFromJSON(sj stmtJSON) (ast.Stmt, error) {
	switch sj.Node {
	case "expr":
		if sj.X == nil {
			return nil, fmt.Errorf("expr statement missing x")
		}
		x, err := exprFromJSON(*sj.X)
		if err != nil {
			return nil, err
		}
		return ast.ExprStmt{X: x}, nil

	case "return_void":
		return ast.ReturnVoid{}, nil

	case "return_expr":
		if sj.X == nil {
			return nil, fmt.Errorf("return_expr statement missing x")
		}
		x, err := exprFromJSON(*sj.X)
		if err != nil {
			return nil, err
		}
		return ast.ReturnExpr{X: x}, nil

	case "break":
		return ast.Break{}, nil

	case "continue":
		return ast.Continue{}, nil

	case "block":
		stmts := make([]ast.Stmt, 0, len(sj.Stmts))
		for _, cj := range sj.Stmts {
			c, err := stmtFromJSON(cj)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, c)
		}
		return ast.Block{Stmts: stmts}, nil

	case "if":
		if sj.Test == nil || sj.Then == nil {
			return nil, fmt.Errorf("if statement missing test or then")
		}
		test, err := exprFromJSON(*sj.Test)
		if err != nil {
			return nil, err
		}
		then, err := stmtFromJSON(*sj.Then)
		if err != nil {
			return nil, err
		}
		var elseStmt ast.Stmt
		if sj.Else != nil {
			elseStmt, err = stmtFromJSON(*sj.Else)
			if err != nil {
				return nil, err
			}
		}
		return ast.If{Test: test, Then: then, Else: elseStmt}, nil

	case "while":
		if sj.Test == nil || sj.Body == nil {
			return nil, fmt.Errorf("while statement missing test or body")
		}
		test, err := exprFromJSON(*sj.Test)
		if err != nil {
			return nil, err
		}
		body, err := stmtFromJSON(*sj.Body)
		if err != nil {
			return nil, err
		}
		return ast.While{Test: test, Body: body}, nil

	case "do_while":
		if sj.Test == nil || sj.Body == nil {
			return nil, fmt.Errorf("do_while statement missing test or body")
		}
		test, err := exprFromJSON(*sj.Test)
		if err != nil {
			return nil, err
		}
		body, err := stmtFromJSON(*sj.Body)
		if err != nil {
			return nil, err
		}
		return ast.DoWhile{Test: test, Body: body}, nil

	case "for":
		if sj.Test == nil || sj.Incr == nil || sj.Body == nil {
			return nil, fmt.Errorf("for statement missing test, incr or body")
		}
		var initStmt ast.Stmt
		if sj.Init != nil {
			var err error
			initStmt, err = stmtFromJSON(*sj.Init)
			if err != nil {
				return nil, err
			}
		}
		test, err := exprFromJSON(*sj.Test)
		if err != nil {
			return nil, err
		}
		incr, err := exprFromJSON(*sj.Incr)
		if err != nil {
			return nil, err
		}
		body, err := stmtFromJSON(*sj.Body)
		if err != nil {
			return nil, err
		}
		return ast.For{Init: initStmt, Test: test, Incr: incr, Body: body}, nil

	case "var_decl":
		if sj.Decl == nil || sj.X == nil {
			return nil, fmt.Errorf("var_decl statement missing decl or x")
		}
		d, err := declFromJSON(*sj.Decl)
		if err != nil {
			return nil, err
		}
		init, err := exprFromJSON(*sj.X)
		if err != nil {
			return nil, err
		}
		return ast.VarDecl{Decl: d, Init: init}, nil

	default:
		return nil, fmt.Errorf("unknown statement node %q", sj.Node)
	}
}
