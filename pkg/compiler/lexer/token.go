package lexer

import "github.com/dvreede/amplc/pkg/compiler/diag"

// Type identifies the kind of a token.
type Type uint8

const (
	EOF Type = iota
	ID       // identifier
	Num      // number literal
	Str      // string literal

	// keywords
	Array
	As
	Back
	Boolean
	Chillax
	Do
	Elif
	Else
	End
	False
	If
	Input
	Integer
	Let
	Main
	Not
	Output
	Program
	Returns
	Takes
	True
	Vars
	While

	// relational operators; the order is significant, it allows range
	// checks in the parser
	Eq
	GE
	GT
	LE
	LT
	NE

	// additive operators
	Minus
	Or
	Plus

	// multiplicative operators
	And
	Div
	Mod
	Mul

	// other non-alphabetic operators
	LPar
	RPar
	Cat
	Comma
	Colon
	Semicolon
	LBrack
	RBrack
)

var tokenStrings = map[Type]string{
	EOF:       "end-of-file",
	ID:        "identifier",
	Num:       "number",
	Str:       "string",
	Array:     "'array'",
	As:        "'as'",
	Back:      "'back'",
	Boolean:   "'boolean'",
	Chillax:   "'chillax'",
	Do:        "'do'",
	Elif:      "'elif'",
	Else:      "'else'",
	End:       "'end'",
	False:     "'false'",
	If:        "'if'",
	Input:     "'input'",
	Integer:   "'integer'",
	Let:       "'let'",
	Main:      "'main'",
	Not:       "'not'",
	Output:    "'output'",
	Program:   "'program'",
	Returns:   "'returns'",
	Takes:     "'takes'",
	True:      "'true'",
	Vars:      "'vars'",
	While:     "'while'",
	Eq:        "'='",
	GE:        "'>='",
	GT:        "'>'",
	LE:        "'<='",
	LT:        "'<'",
	NE:        "'/='",
	Minus:     "'-'",
	Or:        "'or'",
	Plus:      "'+'",
	And:       "'and'",
	Div:       "'/'",
	Mod:       "'mod'",
	Mul:       "'*'",
	LPar:      "'('",
	RPar:      "')'",
	Cat:       "'&'",
	Comma:     "','",
	Colon:     "':'",
	Semicolon: "';'",
	LBrack:    "'['",
	RBrack:    "']'",
}

// String returns the representation of the token type used in diagnostics.
func (t Type) String() string {
	if s, ok := tokenStrings[t]; ok {
		return s
	}
	return "unknown token"
}

// Token is one lexical unit. Value is set for number literals; Lexeme holds
// the text of identifiers and the decoded body of string literals. Pos is the
// position of the token's first character, kept so the parser can point a
// diagnostic at a token the lookahead has already moved past.
type Token struct {
	Type   Type
	Value  int
	Lexeme string
	Pos    diag.Pos
}
