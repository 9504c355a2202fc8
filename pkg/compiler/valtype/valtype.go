// Package valtype defines the value types of the language as a small bitset.
// Composites are unions: an integer array is Integer|Array, a function
// returning boolean is Callable|Boolean. Procedures are bare Callable.
package valtype

import "strings"

// ValType is a bitset of type properties.
type ValType uint8

const (
	None     ValType = 0
	Array    ValType = 1
	Boolean  ValType = 2
	Integer  ValType = 4
	Callable ValType = 8
)

// IsArrayType reports whether t is an array type.
func (t ValType) IsArrayType() bool { return t&Array != 0 }

// IsArray reports whether t is an array variable, not a callable whose
// return type happens to be an array.
func (t ValType) IsArray() bool { return t.IsArrayType() && !t.IsCallable() }

// IsBooleanType reports whether t has the boolean base type.
func (t ValType) IsBooleanType() bool { return t&Boolean != 0 }

// IsIntegerType reports whether t has the integer base type.
func (t ValType) IsIntegerType() bool { return t&Integer != 0 }

// IsCallable reports whether t is a function or procedure.
func (t ValType) IsCallable() bool { return t&Callable != 0 }

// IsFunction reports whether t is a callable that returns a value.
func (t ValType) IsFunction() bool {
	return t.IsCallable() && t&(Boolean|Integer) != 0
}

// IsProcedure reports whether t is a callable that returns no value.
func (t ValType) IsProcedure() bool {
	return t.IsCallable() && t&(Boolean|Integer) == 0
}

// IsVariable reports whether t is a variable type, scalar or array.
func (t ValType) IsVariable() bool {
	return !t.IsCallable() && t&(Boolean|Integer) != 0
}

// Base strips the array property, yielding the element type of an array and
// leaving scalars unchanged.
func (t ValType) Base() ValType { return t &^ Array }

// ReturnType strips the callable property, yielding the type a call to t
// produces.
func (t ValType) ReturnType() ValType { return t &^ Callable }

// String renders t the way diagnostics spell types.
func (t ValType) String() string {
	if t == None {
		return "no type"
	}
	var b strings.Builder
	if t.IsCallable() {
		if t.IsProcedure() {
			return "procedure"
		}
		b.WriteString("function returning ")
	}
	switch {
	case t.IsBooleanType():
		b.WriteString("boolean")
	case t.IsIntegerType():
		b.WriteString("integer")
	}
	if t.IsArrayType() {
		b.WriteString(" array")
	}
	return b.String()
}
