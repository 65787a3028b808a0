// unit.go defines Function, Global and Unit, the top-level entities the
// unit emitter walks (spec.md §3, §4.2).

package ast

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Param is one function parameter: its declared type and source name
// (the name is carried only for the signature comment emitted by the
// function emitter, spec.md §4.3 step 1; lookups use the Arg index).
type Param struct {
	Name string
	Type Type
}

// Function is one ncc function definition.
type Function struct {
	Name      string
	RetType   Type
	Params    []Param
	Body      Stmt // Always a Block in a well-formed tree.
	NumLocals int  // Total slot count needed by the body, including nested blocks (spec.md §4.3).
}

// Global is one top-level variable declaration with an optional
// initializer expression (spec.md §4.2 step 5). Init is nil when the
// global has no initializer (emits .zero).
type Global struct {
	Name string
	Type Type
	Init Expr
}

// Unit is one compilation unit: an ordered list of globals and an
// ordered list of function declarations (spec.md §3).
type Unit struct {
	Globals []Global
	Funcs   []Function
}
