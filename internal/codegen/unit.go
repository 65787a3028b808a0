// unit.go is the unit emitter (spec.md §4.2): header, data section with
// global initializers, entry trampoline, code section. Grounded directly
// on _examples/original_source/ncc/src/codegen.rs's Unit::gen_code.

package codegen

import (
	"strconv"
	"strings"

	"ncc/internal/ast"
	"ncc/internal/emit"
)

// GenCode walks unit and returns its generated assembly text, or the
// first structured error encountered (spec.md §7's fail-fast policy: no
// partial recovery). sym is a fresh SymGen scoped to this call; callers
// generating several units in parallel (spec.md §5) must not share one.
func GenCode(unit ast.Unit) (string, error) {
	sym := &SymGen{}
	out := &emit.Buffer{}

	out.Comment("")
	out.Comment("This file was automatically generated by the ncc compiler.")
	out.Comment("")
	out.Blank()

	out.Line(".data")
	out.Blank()

	out.Comment("Reserve the first heap word so we can use address 0 as null")
	out.Line(".u64 0")
	out.Blank()

	out.Label("__EVENT_LOOP_ENABLED__")
	out.Line(".u8 0")
	out.Blank()

	for _, g := range unit.Globals {
		if err := genGlobal(g, out); err != nil {
			return "", err
		}
	}

	out.WriteString(strings.Repeat("#", 78) + "\n")
	out.Blank()
	out.Line(".code")
	out.Blank()

	if mainFn, ok := findMain(unit); ok {
		_ = mainFn
		out.Comment("call the main function and then exit")
		out.Line("call main, 0")
		out.Line("push __EVENT_LOOP_ENABLED__")
		out.Line("load_u8")
		out.Line("jnz __ret_to_event_loop__")
		out.Line("exit")
		out.Label("__ret_to_event_loop__")
		out.Line("ret")
		out.Blank()
	} else {
		out.Line("push 0")
		out.Line("exit")
	}

	for _, fn := range unit.Funcs {
		if err := genFunction(fn, sym, out); err != nil {
			return "", err
		}
	}

	return out.String(), nil
}

// findMain returns the unit's main function, if any.
func findMain(unit ast.Unit) (ast.Function, bool) {
	for _, fn := range unit.Funcs {
		if fn.Name == "main" {
			return fn, true
		}
	}
	return ast.Function{}, false
}

// genGlobal emits one global's alignment directive, label and
// initializer, per the table in spec.md §4.2 step 5.
func genGlobal(g ast.Global, out *emit.Buffer) error {
	out.Line(".align %d", g.Type.AlignBytes())
	out.Label(g.Name)

	switch {
	case g.Type.Kind == ast.KindArray:
		if g.Init != nil {
			return newErr(UnsupportedInitializer, "global %q: array initializer lists are not supported", g.Name)
		}
		n, ok := g.Type.ArraySize.(ast.IntLit)
		if !ok {
			return newErr(UnsupportedInitializer, "global %q: array size must be a constant integer literal", g.Name)
		}
		out.Line(".zero %d", g.Type.Elem.Sizeof()*int(n.Value))

	case g.Init == nil:
		out.Line(".zero %d", g.Type.Sizeof())

	case g.Type.Kind == ast.KindUInt:
		v, ok := g.Init.(ast.IntLit)
		if !ok {
			return newErr(UnsupportedInitializer, "global %q: UInt requires an integer literal initializer", g.Name)
		}
		out.Line(".u%d %d", g.Type.Bits, v.Value)

	case g.Type.Kind == ast.KindInt:
		v, ok := g.Init.(ast.IntLit)
		if !ok {
			return newErr(UnsupportedInitializer, "global %q: Int requires an integer literal initializer", g.Name)
		}
		out.Line(".i%d %d", g.Type.Bits, v.Value)

	case g.Type.Kind == ast.KindPointer:
		switch v := g.Init.(type) {
		case ast.IntLit:
			out.Line(".u64 %d", v.Value)
		case ast.StringLit:
			out.Line(".stringz \"%s\"", escapeString(v.Value))
		default:
			return newErr(UnsupportedInitializer, "global %q: Pointer initializer must be an integer or string literal", g.Name)
		}

	default:
		return newErr(UnsupportedInitializer, "global %q: unsupported initializer for type %s", g.Name, g.Type)
	}

	out.Blank()
	return nil
}

// escapeString renders s with standard C-style backslash escapes, per
// spec.md §6's output dialect.
func escapeString(s string) string {
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}
