package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvreede/amplc/pkg/compiler/symtab"
	"github.com/dvreede/amplc/pkg/compiler/valtype"
)

func TestOffsetsAreSequential(t *testing.T) {
	st := symtab.New()

	a := &symtab.IDProp{Type: valtype.Integer}
	b := &symtab.IDProp{Type: valtype.Boolean}
	c := &symtab.IDProp{Type: valtype.Integer | valtype.Array}
	require.NoError(t, st.Insert("a", a))
	require.NoError(t, st.Insert("b", b))
	require.NoError(t, st.Insert("c", c))

	assert.Equal(t, 0, a.Offset)
	assert.Equal(t, 1, b.Offset)
	assert.Equal(t, 2, c.Offset, "arrays take one reference slot")
	assert.Equal(t, 3, st.FrameWidth())
}

func TestCallablesConsumeNoOffset(t *testing.T) {
	st := symtab.New()

	require.NoError(t, st.Insert("f", &symtab.IDProp{Type: valtype.Callable | valtype.Integer}))
	v := &symtab.IDProp{Type: valtype.Integer}
	require.NoError(t, st.Insert("x", v))

	assert.Equal(t, 0, v.Offset)
	assert.Equal(t, 1, st.FrameWidth())
}

func TestDuplicateDefinition(t *testing.T) {
	st := symtab.New()
	require.NoError(t, st.Insert("x", &symtab.IDProp{Type: valtype.Integer}))

	err := st.Insert("x", &symtab.IDProp{Type: valtype.Boolean})
	require.Error(t, err)
	assert.EqualError(t, err, "multiple definition of 'x'")
}

func TestSubroutineScoping(t *testing.T) {
	st := symtab.New()
	require.NoError(t, st.Insert("g", &symtab.IDProp{Type: valtype.Callable}))

	f := &symtab.IDProp{Type: valtype.Callable | valtype.Integer,
		Params: []valtype.ValType{valtype.Integer}}
	require.NoError(t, st.OpenSubroutine("f", f))

	n := &symtab.IDProp{Type: valtype.Integer}
	require.NoError(t, st.Insert("n", n))
	assert.Equal(t, 0, n.Offset, "local offsets restart at zero")
	assert.Equal(t, 1, st.FrameWidth())

	// routine names fall through to the global scope, so f sees both
	// itself (recursion) and g
	got, ok := st.Lookup("f")
	require.True(t, ok)
	assert.Same(t, f, got)
	_, ok = st.Lookup("g")
	assert.True(t, ok)

	// a local name shadows nothing and redefinition fails
	err := st.Insert("n", &symtab.IDProp{Type: valtype.Boolean})
	assert.EqualError(t, err, "multiple definition of 'n'")

	st.CloseSubroutine()
	_, ok = st.Lookup("n")
	assert.False(t, ok, "locals are discarded with the scope")
}

func TestGlobalVariablesInvisibleInSubroutine(t *testing.T) {
	st := symtab.New()
	require.NoError(t, st.Insert("x", &symtab.IDProp{Type: valtype.Integer}))

	require.NoError(t, st.OpenSubroutine("f", &symtab.IDProp{Type: valtype.Callable}))
	_, ok := st.Lookup("x")
	assert.False(t, ok, "only callables fall through to the global scope")

	// invisible also means insertable: a local x is a fresh name
	require.NoError(t, st.Insert("x", &symtab.IDProp{Type: valtype.Boolean}))
	st.CloseSubroutine()

	got, ok := st.Lookup("x")
	require.True(t, ok)
	assert.True(t, got.Type.IsIntegerType(), "global x is intact")
}

func TestSubroutineNameCollision(t *testing.T) {
	st := symtab.New()
	require.NoError(t, st.OpenSubroutine("f", &symtab.IDProp{Type: valtype.Callable}))
	st.CloseSubroutine()

	err := st.OpenSubroutine("f", &symtab.IDProp{Type: valtype.Callable})
	assert.EqualError(t, err, "multiple definition of 'f'")
}

func TestManyGlobals(t *testing.T) {
	// push the underlying table through several rehashes
	st := symtab.New()
	names := []string{}
	for c1 := byte('a'); c1 <= 'z'; c1++ {
		for c2 := byte('a'); c2 <= 'd'; c2++ {
			names = append(names, string([]byte{c1, c2}))
		}
	}
	for i, name := range names {
		prop := &symtab.IDProp{Type: valtype.Integer}
		require.NoError(t, st.Insert(name, prop))
		assert.Equal(t, i, prop.Offset)
	}
	for _, name := range names {
		_, ok := st.Lookup(name)
		require.True(t, ok, "lost %q", name)
	}
	assert.Equal(t, len(names), st.FrameWidth())
}
