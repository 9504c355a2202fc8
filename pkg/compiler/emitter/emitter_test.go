package emitter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvreede/amplc/pkg/compiler/emitter"
	"github.com/dvreede/amplc/pkg/compiler/valtype"
)

func TestFinalizeLayout(t *testing.T) {
	b := emitter.NewBuilder()
	b.SetClassName("demo")

	b.BeginRoutine("main", nil, valtype.None)
	l := b.NewLabel()
	b.EmitInt(emitter.Ldc, 1)
	b.EmitBranch(emitter.Goto, l)
	b.PlaceLabel(l)
	b.Emit(emitter.Return)
	b.EndRoutine(1, 1)

	out := b.Finalize()
	assert.True(t, strings.HasPrefix(out, ".class public demo\n.super java/lang/Object\n"))
	assert.Contains(t, out, ".method public static main([Ljava/lang/String;)V\n")
	assert.Contains(t, out, ".limit locals 1\n.limit stack 1\n")
	assert.Contains(t, out, "\tldc 1\n")
	assert.Contains(t, out, "\tgoto L0\n")
	assert.Contains(t, out, "\nL0:\n", "labels are not indented")
	assert.Contains(t, out, ".end method\n")
	assert.NotContains(t, out, "$in", "no Scanner field without input")
}

func TestDescriptors(t *testing.T) {
	b := emitter.NewBuilder()
	b.SetClassName("demo")

	b.BeginRoutine("f", []valtype.ValType{
		valtype.Integer,
		valtype.Boolean,
		valtype.Integer | valtype.Array,
	}, valtype.Integer)
	b.EndRoutine(3, 0)

	m := b.Method("f")
	require.NotNil(t, m)
	assert.Equal(t, "(II[I)I", m.Descriptor)
}

func TestCompareShape(t *testing.T) {
	b := emitter.NewBuilder()
	b.SetClassName("demo")
	b.BeginRoutine("f", nil, valtype.Integer)
	b.EmitCompare(emitter.IfIcmpLE)
	b.EndRoutine(0, 2)

	assert.Equal(t, []string{
		"if_icmple L0",
		"ldc 0",
		"goto L1",
		"L0:",
		"ldc 1",
		"L1:",
	}, b.Method("f").Code)
}

func TestReadHelperEmittedOnDemand(t *testing.T) {
	b := emitter.NewBuilder()
	b.SetClassName("demo")
	b.BeginRoutine("main", nil, valtype.None)
	b.EmitRead()
	b.Emit(emitter.Return)
	b.EndRoutine(1, 1)

	out := b.Finalize()
	assert.Contains(t, out, ".field private static $in Ljava/util/Scanner;")
	assert.Contains(t, out, "invokestatic demo/$read()I")
	assert.Contains(t, out, ".method static <clinit>()V")
	assert.Contains(t, out, ".method private static $read()I")
}

func TestStringQuoting(t *testing.T) {
	b := emitter.NewBuilder()
	b.SetClassName("demo")
	b.BeginRoutine("main", nil, valtype.None)
	b.EmitPrintString("a\nb\t\"c\"\\d")
	b.EndRoutine(1, 2)

	assert.Contains(t, b.Method("main").Code, `ldc "a\nb\t\"c\"\\d"`)
}
