// buffer.go provides the append-only output buffer that a single Unit
// code-generation walk writes into. Unlike vslc's util.Writer (io.go),
// which buffers output from many concurrently running worker threads and
// must guard its builder with a channel, one Buffer is owned exclusively
// by one codegen.GenCode walk (spec.md §5): no mutex, no channel, just a
// strings.Builder with the same Write/WriteString/Label helper shape.

package emit

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Buffer accumulates the textual assembly output of one unit.
type Buffer struct {
	sb strings.Builder
}

// ---------------------
// ----- functions -----
// ---------------------

// Write writes formatted text to the buffer, with no terminator or newline.
func (b *Buffer) Write(format string, args ...interface{}) {
	b.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes a plain string to the buffer verbatim.
func (b *Buffer) WriteString(s string) {
	b.sb.WriteString(s)
}

// Line writes s followed by a semicolon and newline, the terminator used
// by every instruction and directive in the output dialect (spec.md §6).
func (b *Buffer) Line(format string, args ...interface{}) {
	b.sb.WriteString(fmt.Sprintf(format, args...))
	b.sb.WriteString(";\n")
}

// Label writes a one-line label definition.
func (b *Buffer) Label(name string) {
	b.sb.WriteString(name)
	b.sb.WriteString(":\n")
}

// Comment writes a `#`-prefixed comment line.
func (b *Buffer) Comment(format string, args ...interface{}) {
	b.sb.WriteString("# ")
	b.sb.WriteString(fmt.Sprintf(format, args...))
	b.sb.WriteString("\n")
}

// Blank writes a single blank line, used to separate sections and
// functions the way the Rust prototype does between declarations.
func (b *Buffer) Blank() {
	b.sb.WriteString("\n")
}

// String returns the accumulated output text.
func (b *Buffer) String() string {
	return b.sb.String()
}
