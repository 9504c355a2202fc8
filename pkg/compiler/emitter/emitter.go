// Package emitter is the code emission sink of the compiler: it accepts
// opcode/operand instructions, label definitions and references, and
// per-routine frame bookkeeping, and serializes a complete Jasmin assembly
// class file. The parser only issues the instruction stream in program
// order; the textual layout lives entirely here.
package emitter

import (
	"fmt"
	"strings"

	"github.com/dvreede/amplc/pkg/compiler/valtype"
)

// Opcode enumerates the JVM instructions the compiler emits.
type Opcode uint8

const (
	Ldc Opcode = iota
	Iload
	Istore
	Aload
	Astore
	Iaload
	Iastore
	Iadd
	Isub
	Imul
	Idiv
	Irem
	Ineg
	Iand
	Ior
	Ixor
	Swap
	Goto
	Ireturn
	Return
	IfIcmpEq
	IfIcmpNE
	IfIcmpGE
	IfIcmpGT
	IfIcmpLE
	IfIcmpLT
)

var mnemonics = [...]string{
	Ldc:      "ldc",
	Iload:    "iload",
	Istore:   "istore",
	Aload:    "aload",
	Astore:   "astore",
	Iaload:   "iaload",
	Iastore:  "iastore",
	Iadd:     "iadd",
	Isub:     "isub",
	Imul:     "imul",
	Idiv:     "idiv",
	Irem:     "irem",
	Ineg:     "ineg",
	Iand:     "iand",
	Ior:      "ior",
	Ixor:     "ixor",
	Swap:     "swap",
	Goto:     "goto",
	Ireturn:  "ireturn",
	Return:   "return",
	IfIcmpEq: "if_icmpeq",
	IfIcmpNE: "if_icmpne",
	IfIcmpGE: "if_icmpge",
	IfIcmpGT: "if_icmpgt",
	IfIcmpLE: "if_icmple",
	IfIcmpLT: "if_icmplt",
}

func (op Opcode) String() string { return mnemonics[op] }

// Label is an opaque branch target. Labels are allocated monotonically and
// never reused within one class file.
type Label int

func (l Label) String() string { return fmt.Sprintf("L%d", l) }

// Method is one emitted routine. Code holds the instruction lines in
// program order, one mnemonic (or "Ln:" label definition) per entry.
type Method struct {
	Name       string
	Descriptor string
	Locals     int
	MaxStack   int
	Code       []string
}

// Builder accumulates the instruction stream for one class file.
type Builder struct {
	className string
	methods   []*Method
	cur       *Method
	nextLabel int
	needsRead bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetClassName sets the name of the emitted class.
func (b *Builder) SetClassName(name string) { b.className = name }

// ClassName returns the name set with SetClassName.
func (b *Builder) ClassName() string { return b.className }

// Methods returns the routines emitted so far, in program order.
func (b *Builder) Methods() []*Method { return b.methods }

// Method returns the emitted routine with the given name, or nil.
func (b *Builder) Method(name string) *Method {
	for _, m := range b.methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// BeginRoutine starts a new method. Parameter and return slots use the I
// and [I descriptors; booleans are ints on the JVM operand stack. The main
// routine gets the JVM entry-point signature.
func (b *Builder) BeginRoutine(name string, params []valtype.ValType, ret valtype.ValType) {
	m := &Method{Name: name, Descriptor: descriptor(name, params, ret)}
	b.methods = append(b.methods, m)
	b.cur = m
}

// EndRoutine closes the current method, recording its local-variable slot
// count and the maximum operand-stack depth its body reaches.
func (b *Builder) EndRoutine(localSlots, maxStack int) {
	b.cur.Locals = localSlots
	b.cur.MaxStack = maxStack
	b.cur = nil
}

// Emit appends a zero-operand instruction.
func (b *Builder) Emit(op Opcode) {
	b.line("%s", op)
}

// EmitInt appends an instruction with one integer operand.
func (b *Builder) EmitInt(op Opcode, n int) {
	b.line("%s %d", op, n)
}

// EmitBranch appends a branch to the given label.
func (b *Builder) EmitBranch(op Opcode, l Label) {
	b.line("%s %s", op, l)
}

// NewLabel allocates a fresh label.
func (b *Builder) NewLabel() Label {
	l := Label(b.nextLabel)
	b.nextLabel++
	return l
}

// PlaceLabel defines l at the current position in the instruction stream.
func (b *Builder) PlaceLabel(l Label) {
	b.cur.Code = append(b.cur.Code, l.String()+":")
}

// EmitCompare pops two integers and pushes the boolean result of the given
// if_icmp comparison as 0 or 1.
func (b *Builder) EmitCompare(op Opcode) {
	t, done := b.NewLabel(), b.NewLabel()
	b.EmitBranch(op, t)
	b.EmitInt(Ldc, 0)
	b.EmitBranch(Goto, done)
	b.PlaceLabel(t)
	b.EmitInt(Ldc, 1)
	b.PlaceLabel(done)
}

// EmitNewArray pops an element count and pushes a new integer array.
func (b *Builder) EmitNewArray() {
	b.line("newarray int")
}

// EmitCall appends an invocation of another routine of this class.
func (b *Builder) EmitCall(name string, params []valtype.ValType, ret valtype.ValType) {
	b.line("invokestatic %s/%s%s", b.className, name, descriptor(name, params, ret))
}

// EmitPrintString prints a string literal.
func (b *Builder) EmitPrintString(s string) {
	b.line("getstatic java/lang/System/out Ljava/io/PrintStream;")
	b.line("ldc %s", quote(s))
	b.line("invokevirtual java/io/PrintStream/print(Ljava/lang/String;)V")
}

// EmitPrint prints the value on top of the operand stack, formatted as the
// given scalar type.
func (b *Builder) EmitPrint(t valtype.ValType) {
	b.line("getstatic java/lang/System/out Ljava/io/PrintStream;")
	b.Emit(Swap)
	if t.IsBooleanType() {
		b.line("invokevirtual java/io/PrintStream/print(Z)V")
	} else {
		b.line("invokevirtual java/io/PrintStream/print(I)V")
	}
}

// EmitRead pushes one integer read from standard input. The synthetic
// $read helper it calls is appended by Finalize.
func (b *Builder) EmitRead() {
	b.needsRead = true
	b.line("invokestatic %s/$read()I", b.className)
}

// Finalize serializes the complete class file as Jasmin assembly text.
func (b *Builder) Finalize() string {
	var w strings.Builder
	fmt.Fprintf(&w, ".class public %s\n", b.className)
	w.WriteString(".super java/lang/Object\n")
	if b.needsRead {
		fmt.Fprintf(&w, ".field private static $in Ljava/util/Scanner;\n")
	}
	for _, m := range b.methods {
		w.WriteByte('\n')
		fmt.Fprintf(&w, ".method public static %s%s\n", m.Name, m.Descriptor)
		fmt.Fprintf(&w, ".limit locals %d\n", m.Locals)
		fmt.Fprintf(&w, ".limit stack %d\n", m.MaxStack)
		for _, line := range m.Code {
			if strings.HasSuffix(line, ":") {
				w.WriteString(line)
			} else {
				w.WriteByte('\t')
				w.WriteString(line)
			}
			w.WriteByte('\n')
		}
		w.WriteString(".end method\n")
	}
	if b.needsRead {
		b.writeReadHelper(&w)
	}
	return w.String()
}

func (b *Builder) writeReadHelper(w *strings.Builder) {
	fmt.Fprintf(w, `
.method static <clinit>()V
.limit locals 0
.limit stack 3
	new java/util/Scanner
	dup
	getstatic java/lang/System/in Ljava/io/InputStream;
	invokespecial java/util/Scanner/<init>(Ljava/io/InputStream;)V
	putstatic %[1]s/$in Ljava/util/Scanner;
	return
.end method

.method private static $read()I
.limit locals 0
.limit stack 1
	getstatic %[1]s/$in Ljava/util/Scanner;
	invokevirtual java/util/Scanner/nextInt()I
	ireturn
.end method
`, b.className)
}

func (b *Builder) line(format string, args ...any) {
	b.cur.Code = append(b.cur.Code, fmt.Sprintf(format, args...))
}

func descriptor(name string, params []valtype.ValType, ret valtype.ValType) string {
	if name == "main" {
		return "([Ljava/lang/String;)V"
	}
	var d strings.Builder
	d.WriteByte('(')
	for _, p := range params {
		if p.IsArrayType() {
			d.WriteByte('[')
		}
		d.WriteByte('I')
	}
	d.WriteByte(')')
	switch {
	case ret == valtype.None:
		d.WriteByte('V')
	case ret.IsArrayType():
		d.WriteString("[I")
	default:
		d.WriteByte('I')
	}
	return d.String()
}

// quote renders s as a Jasmin string literal, re-escaping the characters the
// scanner decoded.
func quote(s string) string {
	var q strings.Builder
	q.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			q.WriteString(`\\`)
		case '"':
			q.WriteString(`\"`)
		case '\n':
			q.WriteString(`\n`)
		case '\t':
			q.WriteString(`\t`)
		default:
			q.WriteByte(s[i])
		}
	}
	q.WriteByte('"')
	return q.String()
}
