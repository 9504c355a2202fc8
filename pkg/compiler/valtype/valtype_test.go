package valtype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvreede/amplc/pkg/compiler/valtype"
)

func TestPredicates(t *testing.T) {
	intArr := valtype.Integer | valtype.Array
	fn := valtype.Callable | valtype.Boolean
	proc := valtype.Callable

	assert.True(t, intArr.IsArray())
	assert.True(t, intArr.IsVariable())
	assert.False(t, intArr.IsCallable())

	assert.True(t, fn.IsFunction())
	assert.False(t, fn.IsProcedure())
	assert.False(t, fn.IsVariable())

	assert.True(t, proc.IsProcedure())
	assert.False(t, proc.IsFunction())

	arrFn := valtype.Callable | valtype.Integer | valtype.Array
	assert.False(t, arrFn.IsArray(), "a function returning an array is not an array variable")
	assert.True(t, arrFn.ReturnType().IsArray())
}

func TestBaseAndReturnType(t *testing.T) {
	assert.Equal(t, valtype.Integer, (valtype.Integer | valtype.Array).Base())
	assert.Equal(t, valtype.Boolean, valtype.Boolean.Base())
	assert.Equal(t, valtype.Integer, (valtype.Callable | valtype.Integer).ReturnType())
	assert.Equal(t, valtype.None, valtype.Callable.ReturnType())
}

func TestString(t *testing.T) {
	tests := []struct {
		t    valtype.ValType
		want string
	}{
		{valtype.None, "no type"},
		{valtype.Integer, "integer"},
		{valtype.Boolean, "boolean"},
		{valtype.Integer | valtype.Array, "integer array"},
		{valtype.Boolean | valtype.Array, "boolean array"},
		{valtype.Callable, "procedure"},
		{valtype.Callable | valtype.Integer, "function returning integer"},
		{valtype.Callable | valtype.Boolean | valtype.Array, "function returning boolean array"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.t.String())
	}
}
