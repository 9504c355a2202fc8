// Package diag carries source positions and fatal diagnostics through the
// compiler. Compilation stops at the first error: Abortf unwinds the parse
// with a panic that the Compile boundary converts back into an error, so no
// rule method ever has to thread an error return through the grammar.
package diag

import "fmt"

// Pos is a source position, 1-based in both line and column.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Diagnostic is one fatal compilation error at a source position.
type Diagnostic struct {
	Pos Pos
	Msg string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
}

// Abortf raises a fatal diagnostic at pos. It never returns.
func Abortf(pos Pos, format string, args ...any) {
	panic(&Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Recover converts a Diagnostic raised by Abortf into *errp. Any other panic
// is re-raised. Use it in a deferred call at the compilation boundary:
//
//	defer diag.Recover(&err)
func Recover(errp *error) {
	switch v := recover().(type) {
	case nil:
	case *Diagnostic:
		*errp = v
	default:
		panic(v)
	}
}
