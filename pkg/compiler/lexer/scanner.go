// Package lexer performs lexical analysis of AMPL source text.
//
// The scanner is pull-based: the parser requests one token at a time with
// Next. All lexical errors are fatal and raised through the diag package at
// the position of the offending text.
package lexer

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/dvreede/amplc/pkg/compiler/diag"
)

// MaxIDLength is the maximum number of characters in an identifier.
const MaxIDLength = 32

type resWord struct {
	word string
	typ  Type
}

// reserved words, sorted lexicographically for binary search
var reserved = []resWord{
	{"and", And},
	{"array", Array},
	{"as", As},
	{"back", Back},
	{"boolean", Boolean},
	{"chillax", Chillax},
	{"do", Do},
	{"elif", Elif},
	{"else", Else},
	{"end", End},
	{"false", False},
	{"if", If},
	{"input", Input},
	{"integer", Integer},
	{"let", Let},
	{"main", Main},
	{"mod", Mod},
	{"not", Not},
	{"or", Or},
	{"output", Output},
	{"program", Program},
	{"returns", Returns},
	{"takes", Takes},
	{"true", True},
	{"vars", Vars},
	{"while", While},
}

// Scanner performs lexical analysis on AMPL source.
type Scanner struct {
	source []byte
	cursor int
	line   int
	col    int
}

// New creates a scanner for the given source.
func New(source []byte) *Scanner {
	return &Scanner{source: source, line: 1, col: 1}
}

// Next returns the next token from the source. It raises a fatal diagnostic
// on any lexical error.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.eof() {
		return Token{Type: EOF, Pos: s.pos()}
	}

	start := s.pos()
	ch := s.source[s.cursor]

	switch {
	case isAlpha(ch) || ch == '_':
		return s.scanWord(start)
	case isDigit(ch):
		return s.scanNumber(start)
	}

	switch ch {
	case '"':
		return s.scanString(start)
	case '{':
		s.advance()
		s.skipComment(start)
		return s.Next()
	case '=':
		s.advance()
		return Token{Type: Eq, Pos: start}
	case '>':
		s.advance()
		if !s.eof() && s.source[s.cursor] == '=' {
			s.advance()
			return Token{Type: GE, Pos: start}
		}
		return Token{Type: GT, Pos: start}
	case '<':
		s.advance()
		if !s.eof() && s.source[s.cursor] == '=' {
			s.advance()
			return Token{Type: LE, Pos: start}
		}
		return Token{Type: LT, Pos: start}
	case '/':
		s.advance()
		if !s.eof() && s.source[s.cursor] == '=' {
			s.advance()
			return Token{Type: NE, Pos: start}
		}
		return Token{Type: Div, Pos: start}
	case '-':
		s.advance()
		return Token{Type: Minus, Pos: start}
	case '+':
		s.advance()
		return Token{Type: Plus, Pos: start}
	case '%':
		s.advance()
		return Token{Type: Mod, Pos: start}
	case '*':
		s.advance()
		return Token{Type: Mul, Pos: start}
	case '(':
		s.advance()
		return Token{Type: LPar, Pos: start}
	case ')':
		s.advance()
		return Token{Type: RPar, Pos: start}
	case '&':
		s.advance()
		return Token{Type: Cat, Pos: start}
	case ',':
		s.advance()
		return Token{Type: Comma, Pos: start}
	case ':':
		s.advance()
		return Token{Type: Colon, Pos: start}
	case ';':
		s.advance()
		return Token{Type: Semicolon, Pos: start}
	case '[':
		s.advance()
		return Token{Type: LBrack, Pos: start}
	case ']':
		s.advance()
		return Token{Type: RBrack, Pos: start}
	}

	diag.Abortf(start, "illegal character '%c' (ASCII #%d)", ch, ch)
	return Token{} // unreachable
}

func (s *Scanner) scanWord(start diag.Pos) Token {
	var b strings.Builder
	lastDigit := false
	for !s.eof() {
		ch := s.source[s.cursor]
		if !isAlpha(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		if ch == '_' && lastDigit {
			diag.Abortf(s.pos(), "illegal character '_' after digit in identifier")
		}
		if b.Len() == MaxIDLength {
			diag.Abortf(start, "identifier too long")
		}
		b.WriteByte(ch)
		lastDigit = isDigit(ch)
		s.advance()
	}

	lexeme := b.String()
	if i, ok := slices.BinarySearchFunc(reserved, lexeme, func(r resWord, w string) int {
		return strings.Compare(r.word, w)
	}); ok {
		return Token{Type: reserved[i].typ, Pos: start}
	}
	return Token{Type: ID, Lexeme: lexeme, Pos: start}
}

func (s *Scanner) scanNumber(start diag.Pos) Token {
	value := 0
	for !s.eof() && isDigit(s.source[s.cursor]) {
		d := int(s.source[s.cursor] - '0')
		if value > (math.MaxInt32-d)/10 {
			diag.Abortf(start, "number too large")
		}
		value = value*10 + d
		s.advance()
	}
	if !s.eof() && (isAlpha(s.source[s.cursor]) || s.source[s.cursor] == '_') {
		ch := s.source[s.cursor]
		diag.Abortf(s.pos(), "illegal character '%c' (ASCII #%d)", ch, ch)
	}
	return Token{Type: Num, Value: value, Pos: start}
}

func (s *Scanner) scanString(start diag.Pos) Token {
	var b strings.Builder
	s.advance() // opening quote
	for {
		if s.eof() {
			diag.Abortf(start, "string not closed")
		}
		ch := s.source[s.cursor]
		if ch == '"' {
			s.advance()
			return Token{Type: Str, Lexeme: b.String(), Pos: start}
		}
		if ch < 0x20 || ch > 0x7e {
			diag.Abortf(s.pos(), "non-printable character (ASCII #%d)", ch)
		}
		if ch == '\\' {
			escPos := s.pos()
			s.advance()
			if s.eof() {
				diag.Abortf(start, "string not closed")
			}
			switch s.source[s.cursor] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				diag.Abortf(escPos, "illegal escape code '\\%c' in string", s.source[s.cursor])
			}
			s.advance()
			continue
		}
		b.WriteByte(ch)
		s.advance()
	}
}

// skipComment consumes a (possibly nested) block comment whose opening brace
// has already been consumed. Nesting is handled by recursion; an unterminated
// comment is reported at the position of the outermost opening brace.
func (s *Scanner) skipComment(outer diag.Pos) {
	for {
		if s.eof() {
			diag.Abortf(outer, "comment not closed")
		}
		switch s.source[s.cursor] {
		case '}':
			s.advance()
			return
		case '{':
			s.advance()
			s.skipComment(outer)
		default:
			s.advance()
		}
	}
}

func (s *Scanner) skipWhitespace() {
	for !s.eof() {
		switch s.source[s.cursor] {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

// advance consumes the current character. A newline's own position belongs
// to the line it ends; the line number changes on the character after it.
func (s *Scanner) advance() {
	if s.source[s.cursor] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.cursor++
}

func (s *Scanner) eof() bool { return s.cursor >= len(s.source) }

func (s *Scanner) pos() diag.Pos { return diag.Pos{Line: s.line, Col: s.col} }

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
