// expr.go defines ncc's expression forms (spec.md §3) and the EvalType
// contract: by the time a tree reaches code generation every expression
// must resolve to a concrete Type. EvalType is total over well-formed,
// already type-checked trees; it only returns an error on a shape the
// (assumed, out of scope) type checker could not have produced, mirroring
// the Rust prototype's eval_type() contract.

package ast

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// UnOp is a unary operator.
type UnOp int

const (
	UnMinus UnOp = iota
	UnNot
	UnBitNot
	UnDeref
	UnAddressOf
)

// BinOp is a binary operator.
type BinOp int

const (
	BinAssign BinOp = iota
	BinComma
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinLShift
	BinRShift
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

// Expr is any ncc expression node. Every variant implements EvalType,
// which the code generator calls to determine output width/signedness
// and operator dispatch (spec.md §4.5, §4.6).
type Expr interface {
	EvalType() (Type, error)
	isExpr()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Type  Type // The literal's type, assigned by the type checker (e.g. default i64, or contextually narrowed).
}

// StringLit is a string literal; its Type is always Pointer(UInt(8)).
type StringLit struct {
	Value string
}

// Ident is an unresolved identifier. It never reaches code generation in
// a well-formed tree (the symbol resolver always replaces it with a
// Ref) but is kept in the AST to mirror spec.md §3's closed expression
// set, which still lists Ident as a pre-resolution node.
type Ident struct {
	Name string
}

// Ref is a resolved reference to a declaration.
type Ref struct {
	Decl Decl
}

// Cast changes the static type of child to NewType.
type Cast struct {
	NewType Type
	Child   Expr
}

// SizeofExpr yields sizeof(typeof(child)) without evaluating child.
type SizeofExpr struct {
	Child Expr
}

// SizeofType yields sizeof(T) directly.
type SizeofType struct {
	Of Type
}

// Unary is a unary operator expression.
type Unary struct {
	Op    UnOp
	Child Expr
}

// Binary is a binary operator expression.
type Binary struct {
	Op  BinOp
	LHS Expr
	RHS Expr
}

// Ternary is the `test ? then : else` conditional expression.
type Ternary struct {
	Test Expr
	Then Expr
	Else Expr
}

// Call is a function call. Per spec.md §4.5 only direct calls by name
// (Callee is a Ref to a Fun Decl) are supported.
type Call struct {
	Callee Expr
	Args   []Expr
}

// Asm splices raw assembly text into the output, pushing Args left to
// right first. OutType determines whether the surrounding statement
// emitter must pop a result.
type Asm struct {
	Text    string
	Args    []Expr
	OutType Type
}

func (IntLit) isExpr()     {}
func (StringLit) isExpr()  {}
func (Ident) isExpr()      {}
func (Ref) isExpr()        {}
func (Cast) isExpr()       {}
func (SizeofExpr) isExpr() {}
func (SizeofType) isExpr() {}
func (Unary) isExpr()      {}
func (Binary) isExpr()     {}
func (Ternary) isExpr()    {}
func (Call) isExpr()       {}
func (Asm) isExpr()        {}

// ---------------------
// ----- functions -----
// ---------------------

// EvalType implementations. One per node, grounded on the Rust
// prototype's eval_type dispatch referenced throughout codegen.rs.

func (e IntLit) EvalType() (Type, error) { return e.Type, nil }

func (e StringLit) EvalType() (Type, error) { return Pointer(UInt(8)), nil }

func (e Ident) EvalType() (Type, error) {
	return Type{}, fmt.Errorf("unresolved identifier %q reached code generation", e.Name)
}

func (e Ref) EvalType() (Type, error) { return e.Decl.GetType(), nil }

func (e Cast) EvalType() (Type, error) { return e.NewType, nil }

func (e SizeofExpr) EvalType() (Type, error) { return UInt(64), nil }

func (e SizeofType) EvalType() (Type, error) { return UInt(64), nil }

func (e Unary) EvalType() (Type, error) {
	switch e.Op {
	case UnDeref:
		ct, err := e.Child.EvalType()
		if err != nil {
			return Type{}, err
		}
		if ct.Kind != KindPointer {
			return Type{}, fmt.Errorf("deref of non-pointer type %s", ct)
		}
		return ct.ElemType(), nil
	case UnAddressOf:
		ct, err := e.Child.EvalType()
		if err != nil {
			return Type{}, err
		}
		return Pointer(ct), nil
	case UnMinus, UnBitNot:
		return e.Child.EvalType()
	case UnNot:
		return UInt(64), nil
	default:
		return Type{}, fmt.Errorf("unhandled unary operator %d", e.Op)
	}
}

func (e Binary) EvalType() (Type, error) {
	switch e.Op {
	case BinAssign, BinComma:
		return e.RHS.EvalType()
	case BinAnd, BinOr, BinEq, BinNe, BinLt, BinLe, BinGt, BinGe:
		return UInt(64), nil
	default:
		lt, err := e.LHS.EvalType()
		if err != nil {
			return Type{}, err
		}
		switch lt.Kind {
		case KindPointer, KindArray:
			return Pointer(lt.ElemType()), nil
		default:
			return lt, nil
		}
	}
}

func (e Ternary) EvalType() (Type, error) { return e.Then.EvalType() }

func (e Call) EvalType() (Type, error) {
	ref, ok := e.Callee.(Ref)
	if !ok || ref.Decl.Kind != DeclFun {
		return Type{}, fmt.Errorf("call to non-function callee")
	}
	if ref.Decl.Type.Kind == KindFun {
		return *ref.Decl.Type.Ret, nil
	}
	return UInt(64), nil
}

func (e Asm) EvalType() (Type, error) { return e.OutType, nil }
