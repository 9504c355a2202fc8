// Package parser implements the syntax analyser, type checker and code
// generator of the compiler. There is no intermediate tree: one method per
// grammar production consumes tokens, enforces the type rules and pushes
// instructions to the emission sink as each construct is recognised.
//
// The grammar is LL(1); the single lookahead token is the whole parse state,
// together with the active symbol-table scope, the running operand-stack
// depth and the return-type context of the routine being compiled. There is
// no backtracking and no error recovery: the first violated contract raises
// a fatal diagnostic through the diag package.
package parser

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvreede/amplc/pkg/compiler/diag"
	"github.com/dvreede/amplc/pkg/compiler/emitter"
	"github.com/dvreede/amplc/pkg/compiler/lexer"
	"github.com/dvreede/amplc/pkg/compiler/symtab"
	"github.com/dvreede/amplc/pkg/compiler/valtype"
)

// Compiler threads the compilation state through the grammar-rule methods.
type Compiler struct {
	sc  *lexer.Scanner
	tok lexer.Token // the lookahead
	st  *symtab.Table
	b   *emitter.Builder

	returnType valtype.ValType // of the routine being compiled; None for main
	sawBack    bool            // routine produced a value-returning 'back'
	depth      int             // running operand-stack depth
	maxDepth   int

	log zerolog.Logger
}

// Compile runs one full compilation of src into b. It returns the first
// (and only) fatal diagnostic as an error.
func Compile(src []byte, b *emitter.Builder, log zerolog.Logger) (err error) {
	defer diag.Recover(&err)

	c := &Compiler{sc: lexer.New(src), st: symtab.New(), b: b, log: log}
	c.advance()
	c.program()
	return nil
}

// varDecl is one identifier of a declaration group, waiting for the trailing
// type annotation of its varseq.
type varDecl struct {
	id  string
	pos diag.Pos
	typ valtype.ValType
}

/* --- grammar rules --------------------------------------------------------- */

// program = "program" id ":" {funcdef} "main" ":" body
func (c *Compiler) program() {
	c.trace("program")

	c.expect(lexer.Program)
	name, _ := c.expectID()
	c.b.SetClassName(name)
	c.expect(lexer.Colon)

	for c.tok.Type == lexer.ID {
		c.funcdef()
	}

	mainPos := c.tok.Pos
	c.expect(lexer.Main)
	if err := c.st.Insert("main", &symtab.IDProp{Type: valtype.Callable}); err != nil {
		diag.Abortf(mainPos, "%s", err)
	}
	c.expect(lexer.Colon)

	c.beginRoutine("main", nil, valtype.None)
	c.body()
	c.b.Emit(emitter.Return)
	// +1 covers the JVM argument slot of the entry point
	c.b.EndRoutine(c.st.FrameWidth()+1, c.maxDepth)

	c.expect(lexer.EOF)
	c.log.Debug().Str("program", name).Msg("compiled")
}

// funcdef = id ":" "takes" varseq {";" varseq} ["returns" type] body
func (c *Compiler) funcdef() {
	c.trace("funcdef")

	id, idPos := c.expectID()
	if _, ok := c.st.Lookup(id); ok {
		diag.Abortf(idPos, "multiple definition of '%s'", id)
	}
	c.expect(lexer.Colon)
	c.expect(lexer.Takes)

	// seed the declaration list with the routine's own name so a parameter
	// cannot shadow it
	decls := []varDecl{{id: id, pos: idPos}}
	c.varseq(&decls)
	for c.tok.Type == lexer.Semicolon {
		c.advance()
		c.varseq(&decls)
	}
	params := decls[1:]

	ret := valtype.None
	if c.tok.Type == lexer.Returns {
		c.advance()
		ret = c.typeSpec()
	}

	ptypes := make([]valtype.ValType, len(params))
	for i, p := range params {
		ptypes[i] = p.typ
	}
	prop := &symtab.IDProp{Type: valtype.Callable | ret, Params: ptypes}
	if err := c.st.OpenSubroutine(id, prop); err != nil {
		diag.Abortf(idPos, "%s", err)
	}
	for _, p := range params {
		if err := c.st.Insert(p.id, &symtab.IDProp{Type: p.typ}); err != nil {
			diag.Abortf(p.pos, "%s", err)
		}
	}

	c.beginRoutine(id, ptypes, ret)
	c.body()
	if ret != valtype.None && !c.sawBack {
		diag.Abortf(c.tok.Pos, "missing 'back' expression in function")
	}
	if ret == valtype.None {
		c.b.Emit(emitter.Return)
	}
	c.b.EndRoutine(c.st.FrameWidth(), c.maxDepth)
	c.st.CloseSubroutine()
}

// body = ["vars" varseq {";" varseq}] statements
func (c *Compiler) body() {
	c.trace("body")

	if c.tok.Type == lexer.Vars {
		c.advance()
		var decls []varDecl
		c.varseq(&decls)
		for c.tok.Type == lexer.Semicolon {
			c.advance()
			c.varseq(&decls)
		}
		for _, d := range decls {
			if err := c.st.Insert(d.id, &symtab.IDProp{Type: d.typ}); err != nil {
				diag.Abortf(d.pos, "%s", err)
			}
		}
	}
	c.statements()
}

// varseq = id {"," id} "as" type
//
// The identifiers accumulate in decls; once the trailing type annotation is
// parsed, it is written into every identifier this call added. A duplicate
// is anything already in decls or already visible in the symbol table.
func (c *Compiler) varseq(decls *[]varDecl) {
	c.trace("varseq")

	start := len(*decls)
	for {
		id, pos := c.expectID()
		c.checkRedeclared(*decls, id, pos)
		*decls = append(*decls, varDecl{id: id, pos: pos})
		if c.tok.Type != lexer.Comma {
			break
		}
		c.advance()
	}
	c.expect(lexer.As)
	t := c.typeSpec()
	for i := start; i < len(*decls); i++ {
		(*decls)[i].typ = t
	}
}

// type = ("boolean"|"integer") ["array"]
func (c *Compiler) typeSpec() valtype.ValType {
	c.trace("type")

	var t valtype.ValType
	switch c.tok.Type {
	case lexer.Boolean:
		t = valtype.Boolean
	case lexer.Integer:
		t = valtype.Integer
	default:
		diag.Abortf(c.tok.Pos, "expected type, but found %s", c.tok.Type)
	}
	c.advance()
	if c.tok.Type == lexer.Array {
		c.advance()
		t |= valtype.Array
	}
	return t
}

// statements = "chillax" | statement {";" statement} "end"
func (c *Compiler) statements() {
	c.trace("statements")

	if c.tok.Type == lexer.Chillax {
		c.advance()
		return
	}
	c.statement()
	for c.tok.Type == lexer.Semicolon {
		c.advance()
		c.statement()
	}
	c.expect(lexer.End)
}

// statement = assign | back | do | if | input | output | while
func (c *Compiler) statement() {
	c.trace("statement")

	switch c.tok.Type {
	case lexer.Let:
		c.assign()
	case lexer.Back:
		c.back()
	case lexer.Do:
		c.doStmt()
	case lexer.If:
		c.ifStmt()
	case lexer.Input:
		c.input()
	case lexer.Output:
		c.output()
	case lexer.While:
		c.whileStmt()
	default:
		diag.Abortf(c.tok.Pos, "expected statement, but found %s", c.tok.Type)
	}
}

// assign = "let" id ["[" simple "]"] "=" (expr | "array" simple)
func (c *Compiler) assign() {
	c.trace("assign")

	c.expect(lexer.Let)
	id, idPos := c.expectID()
	prop := c.lookupID(id, idPos)
	if prop.Type.IsCallable() {
		diag.Abortf(idPos, "'%s' is not a variable", id)
	}

	indexed := false
	if c.tok.Type == lexer.LBrack {
		if !prop.Type.IsArray() {
			diag.Abortf(idPos, "'%s' is not an array", id)
		}
		indexed = true
		c.advance()
		c.b.EmitInt(emitter.Aload, prop.Offset)
		c.push(1)
		idxPos := c.tok.Pos
		c.checkTypes(c.simple(), valtype.Integer, idxPos, "for array index of '%s'", id)
		c.expect(lexer.RBrack)
	}

	c.expect(lexer.Eq)

	switch {
	case c.tok.Type == lexer.Array:
		arrPos := c.tok.Pos
		if indexed {
			diag.Abortf(arrPos, "illegal allocation to indexed array '%s'", id)
		}
		if !prop.Type.IsArray() {
			diag.Abortf(arrPos, "'%s' is not an array", id)
		}
		c.advance()
		sizePos := c.tok.Pos
		c.checkTypes(c.simple(), valtype.Integer, sizePos, "for array size of '%s'", id)
		c.b.EmitNewArray()
		c.b.EmitInt(emitter.Astore, prop.Offset)
		c.pop(1)

	case startsExpr(c.tok.Type):
		rhsPos := c.tok.Pos
		t := c.expr()
		if indexed {
			if t.IsArrayType() {
				diag.Abortf(rhsPos, "illegal allocation to indexed array '%s'", id)
			}
			c.checkTypes(t, prop.Type.Base(), rhsPos, "for assignment to '%s'", id)
			c.b.Emit(emitter.Iastore)
			c.pop(3)
		} else {
			c.checkTypes(t, prop.Type, rhsPos, "for assignment to '%s'", id)
			if prop.Type.IsArrayType() {
				c.b.EmitInt(emitter.Astore, prop.Offset)
			} else {
				c.b.EmitInt(emitter.Istore, prop.Offset)
			}
			c.pop(1)
		}

	default:
		diag.Abortf(c.tok.Pos, "expected array allocation or expression, but found %s", c.tok.Type)
	}
}

// back = "back" [expr]
//
// A function must return through a value-producing back; a procedure (or
// main) must not produce a value, but a bare back ends it early.
func (c *Compiler) back() {
	c.trace("back")

	backPos := c.tok.Pos
	c.expect(lexer.Back)

	if startsExpr(c.tok.Type) {
		if c.returnType == valtype.None {
			diag.Abortf(backPos, "'back' expression not allowed in procedure")
		}
		exprPos := c.tok.Pos
		c.checkTypes(c.expr(), c.returnType, exprPos, "for 'back' statement")
		c.b.Emit(emitter.Ireturn)
		c.pop(1)
		c.sawBack = true
		return
	}
	if c.returnType != valtype.None {
		diag.Abortf(backPos, "missing 'back' expression in function")
	}
	c.b.Emit(emitter.Return)
}

// do = "do" id "(" expr {"," expr} ")"
func (c *Compiler) doStmt() {
	c.trace("do")

	c.expect(lexer.Do)
	id, idPos := c.expectID()
	prop := c.lookupID(id, idPos)
	if !prop.Type.IsProcedure() {
		diag.Abortf(idPos, "'%s' is not a procedure", id)
	}
	c.callArgs(id, prop)
	c.b.EmitCall(id, prop.Params, valtype.None)
	c.pop(len(prop.Params))
}

// if = "if" expr ":" statements {"elif" expr ":" statements}
//      ["else" ":" statements]
//
// Every guard compiles to a comparison against the true literal and a
// conditional branch to the next arm; every arm ends with a jump to the
// shared exit label.
func (c *Compiler) ifStmt() {
	c.trace("if")

	exit := c.b.NewLabel()

	c.expect(lexer.If)
	c.guard("for 'if' guard")
	next := c.branchUnlessTrue()
	c.expect(lexer.Colon)
	c.statements()
	c.b.EmitBranch(emitter.Goto, exit)

	for c.tok.Type == lexer.Elif {
		c.advance()
		c.b.PlaceLabel(next)
		c.guard("for 'elif' guard")
		next = c.branchUnlessTrue()
		c.expect(lexer.Colon)
		c.statements()
		c.b.EmitBranch(emitter.Goto, exit)
	}

	c.b.PlaceLabel(next)
	if c.tok.Type == lexer.Else {
		c.advance()
		c.expect(lexer.Colon)
		c.statements()
	}
	c.b.PlaceLabel(exit)
}

// input = "input" id ["[" simple "]"]
func (c *Compiler) input() {
	c.trace("input")

	c.expect(lexer.Input)
	id, idPos := c.expectID()
	prop := c.lookupID(id, idPos)
	if prop.Type.IsCallable() {
		diag.Abortf(idPos, "'%s' is not a variable", id)
	}

	if c.tok.Type == lexer.LBrack {
		if !prop.Type.IsArray() {
			diag.Abortf(idPos, "'%s' is not an array", id)
		}
		c.advance()
		c.b.EmitInt(emitter.Aload, prop.Offset)
		c.push(1)
		idxPos := c.tok.Pos
		c.checkTypes(c.simple(), valtype.Integer, idxPos, "for array index of '%s'", id)
		c.expect(lexer.RBrack)
		c.checkTypes(prop.Type.Base(), valtype.Integer, idPos, "for 'input' statement")
		c.b.EmitRead()
		c.push(1)
		c.b.Emit(emitter.Iastore)
		c.pop(3)
		return
	}

	if prop.Type.IsArrayType() {
		diag.Abortf(idPos, "expected scalar variable instead of '%s'", id)
	}
	c.checkTypes(prop.Type, valtype.Integer, idPos, "for 'input' statement")
	c.b.EmitRead()
	c.push(1)
	c.b.EmitInt(emitter.Istore, prop.Offset)
	c.pop(1)
}

// output = "output" (string|expr) {"&" (string|expr)}
func (c *Compiler) output() {
	c.trace("output")

	c.expect(lexer.Output)
	c.outputPiece()
	for c.tok.Type == lexer.Cat {
		c.advance()
		c.outputPiece()
	}
}

func (c *Compiler) outputPiece() {
	switch {
	case c.tok.Type == lexer.Str:
		s := c.tok.Lexeme
		c.advance()
		c.b.EmitPrintString(s)
		c.push(2)
		c.pop(2)
	case startsExpr(c.tok.Type):
		pos := c.tok.Pos
		t := c.expr()
		c.checkTypes(t, t.Base(), pos, "for 'output' statement")
		c.b.EmitPrint(t)
		c.push(1)
		c.pop(2)
	default:
		diag.Abortf(c.tok.Pos, "expected string or expression, but found %s", c.tok.Type)
	}
}

// while = "while" expr ":" statements
func (c *Compiler) whileStmt() {
	c.trace("while")

	start := c.b.NewLabel()
	exit := c.b.NewLabel()

	c.expect(lexer.While)
	c.b.PlaceLabel(start)
	c.guard("for 'while' guard")
	c.b.EmitInt(emitter.Ldc, 1)
	c.push(1)
	c.b.EmitBranch(emitter.IfIcmpNE, exit)
	c.pop(2)
	c.expect(lexer.Colon)
	c.statements()
	c.b.EmitBranch(emitter.Goto, start)
	c.b.PlaceLabel(exit)
}

// expr = simple [relop simple]
func (c *Compiler) expr() valtype.ValType {
	c.trace("expr")

	lhsPos := c.tok.Pos
	t1 := c.simple()
	if !isRelop(c.tok.Type) {
		return t1
	}

	op := c.tok
	if t1.IsArrayType() {
		diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
	}
	c.advance()
	rhsPos := c.tok.Pos

	switch op.Type {
	case lexer.Eq, lexer.NE:
		t2 := c.simple()
		if t2.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		c.checkTypes(t2, t1, rhsPos, "")
	default: // ordering relations compare integers only
		c.checkTypes(t1, valtype.Integer, lhsPos, "")
		t2 := c.simple()
		if t2.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		c.checkTypes(t2, valtype.Integer, rhsPos, "")
	}

	c.b.EmitCompare(relopInstr[op.Type])
	c.pop(2)
	c.push(1)
	return valtype.Boolean
}

var relopInstr = map[lexer.Type]emitter.Opcode{
	lexer.Eq: emitter.IfIcmpEq,
	lexer.NE: emitter.IfIcmpNE,
	lexer.GE: emitter.IfIcmpGE,
	lexer.GT: emitter.IfIcmpGT,
	lexer.LE: emitter.IfIcmpLE,
	lexer.LT: emitter.IfIcmpLT,
}

// simple = ["-"] term {addop term}
func (c *Compiler) simple() valtype.ValType {
	c.trace("simple")

	negated := false
	var negPos diag.Pos
	if c.tok.Type == lexer.Minus {
		negated = true
		negPos = c.tok.Pos
		c.advance()
	}

	lhsPos := c.tok.Pos
	t1 := c.term()
	if negated {
		if t1.IsArrayType() {
			diag.Abortf(negPos, "%s is an illegal array operation", lexer.Minus)
		}
		c.checkTypes(t1, valtype.Integer, lhsPos, "")
		c.b.Emit(emitter.Ineg)
	}

	for isAddop(c.tok.Type) {
		op := c.tok
		if t1.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		operand := valtype.Integer
		if op.Type == lexer.Or {
			operand = valtype.Boolean
		}
		c.checkTypes(t1, operand, lhsPos, "")
		c.advance()

		rhsPos := c.tok.Pos
		t2 := c.term()
		if t2.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		c.checkTypes(t2, operand, rhsPos, "")

		switch op.Type {
		case lexer.Plus:
			c.b.Emit(emitter.Iadd)
		case lexer.Minus:
			c.b.Emit(emitter.Isub)
		case lexer.Or:
			c.b.Emit(emitter.Ior)
		}
		c.pop(1)
		t1 = operand
	}
	return t1
}

// term = factor {mulop factor}
func (c *Compiler) term() valtype.ValType {
	c.trace("term")

	lhsPos := c.tok.Pos
	t1 := c.factor()

	for isMulop(c.tok.Type) {
		op := c.tok
		if t1.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		operand := valtype.Integer
		if op.Type == lexer.And {
			operand = valtype.Boolean
		}
		c.checkTypes(t1, operand, lhsPos, "")
		c.advance()

		rhsPos := c.tok.Pos
		t2 := c.factor()
		if t2.IsArrayType() {
			diag.Abortf(op.Pos, "%s is an illegal array operation", op.Type)
		}
		c.checkTypes(t2, operand, rhsPos, "")

		switch op.Type {
		case lexer.Mul:
			c.b.Emit(emitter.Imul)
		case lexer.Div:
			c.b.Emit(emitter.Idiv)
		case lexer.Mod:
			c.b.Emit(emitter.Irem)
		case lexer.And:
			c.b.Emit(emitter.Iand)
		}
		c.pop(1)
		t1 = operand
	}
	return t1
}

// factor = id ["[" simple "]" | "(" expr {"," expr} ")"] | num
//        | "(" expr ")" | "not" factor | "true" | "false"
func (c *Compiler) factor() valtype.ValType {
	c.trace("factor")

	switch c.tok.Type {
	case lexer.ID:
		id, idPos := c.expectID()
		prop := c.lookupID(id, idPos)

		switch c.tok.Type {
		case lexer.LBrack:
			if !prop.Type.IsArray() {
				diag.Abortf(idPos, "'%s' is not an array", id)
			}
			c.advance()
			c.b.EmitInt(emitter.Aload, prop.Offset)
			c.push(1)
			idxPos := c.tok.Pos
			c.checkTypes(c.simple(), valtype.Integer, idxPos, "for array index of '%s'", id)
			c.expect(lexer.RBrack)
			c.b.Emit(emitter.Iaload)
			c.pop(2)
			c.push(1)
			return prop.Type.Base()

		case lexer.LPar:
			// a factor is always a value position, so a procedure call is
			// rejected here outright
			if !prop.Type.IsFunction() {
				diag.Abortf(idPos, "'%s' is not a function", id)
			}
			c.callArgs(id, prop)
			c.b.EmitCall(id, prop.Params, prop.Type.ReturnType())
			c.pop(len(prop.Params))
			c.push(1)
			return prop.Type.ReturnType()

		default:
			if !prop.Type.IsVariable() {
				diag.Abortf(idPos, "'%s' is not a variable", id)
			}
			if prop.Type.IsArrayType() {
				c.b.EmitInt(emitter.Aload, prop.Offset)
			} else {
				c.b.EmitInt(emitter.Iload, prop.Offset)
			}
			c.push(1)
			return prop.Type
		}

	case lexer.Num:
		v := c.tok.Value
		c.advance()
		c.b.EmitInt(emitter.Ldc, v)
		c.push(1)
		return valtype.Integer

	case lexer.LPar:
		c.advance()
		t := c.expr()
		c.expect(lexer.RPar)
		return t

	case lexer.Not:
		c.advance()
		fPos := c.tok.Pos
		c.checkTypes(c.factor(), valtype.Boolean, fPos, "")
		c.b.EmitInt(emitter.Ldc, 1)
		c.push(1)
		c.b.Emit(emitter.Ixor)
		c.pop(1)
		return valtype.Boolean

	case lexer.True:
		c.advance()
		c.b.EmitInt(emitter.Ldc, 1)
		c.push(1)
		return valtype.Boolean

	case lexer.False:
		c.advance()
		c.b.EmitInt(emitter.Ldc, 0)
		c.push(1)
		return valtype.Boolean
	}

	diag.Abortf(c.tok.Pos, "expected factor, but found %s", c.tok.Type)
	return valtype.None // unreachable
}

/* --- shared rule fragments -------------------------------------------------- */

// guard parses a control-flow guard expression and requires it to be boolean.
func (c *Compiler) guard(context string) {
	pos := c.tok.Pos
	c.checkTypes(c.expr(), valtype.Boolean, pos, context)
}

// branchUnlessTrue emits the comparison of a guard value against the true
// literal and a conditional branch to a fresh "false" continuation label.
func (c *Compiler) branchUnlessTrue() emitter.Label {
	next := c.b.NewLabel()
	c.b.EmitInt(emitter.Ldc, 1)
	c.push(1)
	c.b.EmitBranch(emitter.IfIcmpNE, next)
	c.pop(2)
	return next
}

// callArgs parses a parenthesised argument list and checks it positionally
// against the callee's signature. The arguments are left on the operand
// stack for the call instruction.
func (c *Compiler) callArgs(id string, prop *symtab.IDProp) {
	c.expect(lexer.LPar)
	for i := 0; ; i++ {
		if i == len(prop.Params) {
			diag.Abortf(c.tok.Pos, "too many arguments for call to '%s'", id)
		}
		argPos := c.tok.Pos
		c.checkTypes(c.expr(), prop.Params[i], argPos,
			"for parameter %d of call to '%s'", i+1, id)
		if c.tok.Type != lexer.Comma {
			if i < len(prop.Params)-1 {
				diag.Abortf(c.tok.Pos, "too few arguments for call to '%s'", id)
			}
			break
		}
		c.advance()
	}
	c.expect(lexer.RPar)
}

// beginRoutine opens a method in the emission sink and resets the per-routine
// checking and stack-depth state.
func (c *Compiler) beginRoutine(name string, params []valtype.ValType, ret valtype.ValType) {
	c.b.BeginRoutine(name, params, ret)
	c.returnType = ret
	c.sawBack = false
	c.depth = 0
	c.maxDepth = 0
	c.log.Debug().Str("routine", name).Msg("compiling")
}

/* --- helpers ---------------------------------------------------------------- */

func (c *Compiler) advance() { c.tok = c.sc.Next() }

// expect consumes the lookahead if it has the wanted type, and aborts
// otherwise.
func (c *Compiler) expect(t lexer.Type) {
	if c.tok.Type != t {
		diag.Abortf(c.tok.Pos, "expected %s, but found %s", t, c.tok.Type)
	}
	c.advance()
}

// expectID consumes an identifier and returns its text and position.
func (c *Compiler) expectID() (string, diag.Pos) {
	if c.tok.Type != lexer.ID {
		diag.Abortf(c.tok.Pos, "expected %s, but found %s", lexer.ID, c.tok.Type)
	}
	id, pos := c.tok.Lexeme, c.tok.Pos
	c.advance()
	return id, pos
}

// lookupID resolves id or aborts with an unknown-identifier diagnostic at
// the identifier's own position.
func (c *Compiler) lookupID(id string, pos diag.Pos) *symtab.IDProp {
	prop, ok := c.st.Lookup(id)
	if !ok {
		diag.Abortf(pos, "unknown identifier '%s'", id)
	}
	return prop
}

// checkRedeclared rejects id if it already occurs in the open declaration
// group or is already visible under the symbol table's lookup rule.
func (c *Compiler) checkRedeclared(decls []varDecl, id string, pos diag.Pos) {
	for _, d := range decls {
		if d.id == id {
			diag.Abortf(pos, "multiple definition of '%s'", id)
		}
	}
	if _, ok := c.st.Lookup(id); ok {
		diag.Abortf(pos, "multiple definition of '%s'", id)
	}
}

// checkTypes aborts with an incompatible-types diagnostic at pos unless
// found equals expected. The context phrase names the construct, e.g.
// "for array index of 'x'".
func (c *Compiler) checkTypes(found, expected valtype.ValType, pos diag.Pos, context string, args ...any) {
	if found == expected {
		return
	}
	msg := fmt.Sprintf("incompatible types (expected %s, found %s)", expected, found)
	if context != "" {
		msg += " " + fmt.Sprintf(context, args...)
	}
	diag.Abortf(pos, "%s", msg)
}

// push records n values pushed on the operand stack.
func (c *Compiler) push(n int) {
	c.depth += n
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

// pop records n values consumed from the operand stack.
func (c *Compiler) pop(n int) { c.depth -= n }

func (c *Compiler) trace(rule string) {
	c.log.Trace().Int("line", c.tok.Pos.Line).Int("col", c.tok.Pos.Col).Msg(rule)
}

/* --- token classification ---------------------------------------------------- */

func startsFactor(t lexer.Type) bool {
	return t == lexer.ID || t == lexer.Num || t == lexer.LPar ||
		t == lexer.Not || t == lexer.True || t == lexer.False
}

func startsExpr(t lexer.Type) bool {
	return t == lexer.Minus || startsFactor(t)
}

func isRelop(t lexer.Type) bool {
	return t >= lexer.Eq && t <= lexer.NE
}

func isAddop(t lexer.Type) bool {
	return t >= lexer.Minus && t <= lexer.Plus
}

func isMulop(t lexer.Type) bool {
	return t == lexer.And || t == lexer.Div || t == lexer.Mod || t == lexer.Mul
}
