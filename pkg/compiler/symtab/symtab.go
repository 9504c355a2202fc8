// Package symtab implements the two-level scoped symbol table of the
// compiler: a persistent global scope for routine names (and the main
// program's variables) plus at most one active local scope for the
// subroutine currently being compiled.
package symtab

import (
	"fmt"
	"strings"

	"github.com/dvreede/amplc/pkg/compiler/valtype"
	"github.com/dvreede/amplc/pkg/core/hashtab"
)

const loadFactor = 0.75

// IDProp holds the semantic properties of one identifier. Offset is the
// frame slot of a variable (meaningless for callables); Params is the
// ordered parameter signature of a callable (nil for variables). An IDProp
// is never mutated after insertion.
type IDProp struct {
	Type   valtype.ValType
	Offset int
	Params []valtype.ValType
}

type scope struct {
	tab    *hashtab.Table[string, *IDProp]
	offset int
}

func newScope() scope {
	return scope{tab: hashtab.New[string, *IDProp](loadFactor, shiftHash, strings.Compare)}
}

// Table is the scoped symbol table. The zero value is not usable; call New.
type Table struct {
	global scope
	local  *scope // nil outside subroutine bodies
}

// New creates a symbol table with an empty global scope.
func New() *Table {
	return &Table{global: newScope()}
}

// Insert records id in the current scope. Variables (non-callables) consume
// the next sequential frame offset; callables never do. Inserting a name
// that is already visible under the Lookup rule fails.
func (t *Table) Insert(id string, prop *IDProp) error {
	if _, ok := t.Lookup(id); ok {
		return fmt.Errorf("multiple definition of '%s'", id)
	}
	cur := t.current()
	if !prop.Type.IsCallable() {
		prop.Offset = cur.offset
		cur.offset++
	}
	return cur.tab.Insert(id, prop)
}

// Lookup resolves id against the local scope first, then the global scope.
// A fallthrough to the global scope only succeeds for callables: a caller's
// plain variables are not visible inside an unrelated subroutine, but
// routine names are visible from every subroutine body, including their own.
func (t *Table) Lookup(id string) (*IDProp, bool) {
	if t.local != nil {
		if p, ok := t.local.tab.Search(id); ok {
			return p, true
		}
		p, ok := t.global.tab.Search(id)
		if ok && !p.Type.IsCallable() {
			return nil, false
		}
		return p, ok
	}
	return t.global.tab.Search(id)
}

// OpenSubroutine inserts the routine's own name into the global scope, and
// only if that succeeds activates a fresh local scope with its frame-offset
// counter at zero.
func (t *Table) OpenSubroutine(id string, prop *IDProp) error {
	if err := t.Insert(id, prop); err != nil {
		return err
	}
	s := newScope()
	t.local = &s
	return nil
}

// CloseSubroutine discards the local scope and reactivates the global one.
func (t *Table) CloseSubroutine() {
	t.local = nil
}

// FrameWidth returns the number of local-variable slots allocated in the
// current scope: one per scalar, and one reference slot per array.
func (t *Table) FrameWidth() int {
	return t.current().offset
}

func (t *Table) current() *scope {
	if t.local != nil {
		return t.local
	}
	return &t.global
}

// shiftHash is a cyclic-shift accumulation over the key bytes. A plain
// additive sum clusters the short, similar identifiers a compiler sees.
func shiftHash(key string, size uint) uint {
	var h uint32
	for i := 0; i < len(key); i++ {
		h = (h << 5) | (h >> 27)
		h += uint32(key[i])
	}
	return uint(h) % size
}
