package lang

import (
	"iter"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/edwingeng/deque"
)

// Lexer splits source text into tokens on demand.
// Tokens returned to it with [Lexer.Putback] are replayed in LIFO order
// before any new input is scanned.
type Lexer struct {
	src     []rune
	putback deque.Deque
	pos     int
	line    int
	col     int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     []rune(src),
		putback: deque.NewDeque(),
		line:    1,
		col:     1,
	}
}

// Putback returns t to the lexer. The next call to [Lexer.Next] yields it.
func (l *Lexer) Putback(t Token) { l.putback.PushBack(t) }

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	t := l.Next()
	l.Putback(t)

	return t
}

// All returns an iterator over the remaining tokens, ending with (and
// including) the first EOF or illegal token.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			t := l.Next()
			if !yield(t) || t.Kind == KindEOF || t.Kind == KindIllegal {
				return
			}
		}
	}
}

// Next returns the next token. At end of input it returns a token of
// kind [KindEOF] indefinitely.
func (l *Lexer) Next() Token {
	if !l.putback.Empty() {
		t, _ := l.putback.PopBack().(Token)

		return t
	}

	l.skipSpace()

	pos := Position{Line: l.line, Column: l.col}

	if l.eof() {
		return Token{Kind: KindEOF, Pos: pos}
	}

	r := l.peek()

	switch {
	case r == 'π':
		l.advance()

		return Token{Kind: KindNumber, Num: math.Pi, Pos: pos}

	case unicode.IsDigit(r):
		return l.number(pos)

	case r == '_' || unicode.IsLetter(r):
		return l.word(pos)
	}

	l.advance()

	single := func(k Kind) Token { return Token{Kind: k, Pos: pos} }

	switch r {
	case ',':
		return single(KindComma)
	case ':':
		return single(KindColon)
	case ';':
		return single(KindSemicolon)
	case '[':
		return single(KindLBrack)
	case ']':
		return single(KindRBrack)
	case '(':
		return single(KindLParen)
	case ')':
		return single(KindRParen)
	case '#':
		return single(KindHash)
	case '.':
		return Token{Kind: KindOperator, Op: OpDot, Pos: pos}
	}

	return l.operator(r, pos)
}

func (l *Lexer) operator(r rune, pos Position) Token {
	op := func(o Operator) Token { return Token{Kind: KindOperator, Op: o, Pos: pos} }
	eq := l.peek() == '='

	if eq {
		switch r {
		case '=':
			l.advance()

			return op(OpEq)
		case '!':
			l.advance()

			return op(OpNeq)
		case '<':
			l.advance()

			return op(OpLte)
		case '>':
			l.advance()

			return op(OpGte)
		}
	}

	var o Operator

	switch r {
	case '+':
		o = OpAdd
	case '-':
		o = OpSub
	case '*':
		o = OpMul
	case '/':
		o = OpDiv
	case '%':
		o = OpMod
	case '^':
		o = OpPow
	case '!':
		return op(OpNot)
	case '=':
		return op(OpAssign)
	case '<':
		return op(OpLt)
	case '>':
		return op(OpGt)
	default:
		return Token{
			Kind: KindIllegal,
			Text: "unexpected character " + strconv.QuoteRune(r),
			Pos:  pos,
		}
	}

	if eq {
		l.advance()

		return Token{Kind: KindOperatorAssign, Op: o, Pos: pos}
	}

	return op(o)
}

func (l *Lexer) number(pos Position) Token {
	var sb strings.Builder

	for !l.eof() {
		r := l.peek()
		if !unicode.IsDigit(r) && r != '.' && r != 'e' && r != '_' {
			break
		}

		if r != '_' {
			sb.WriteRune(r)
		}

		l.advance()
	}

	f, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return Token{
			Kind: KindIllegal,
			Text: "malformed number '" + sb.String() + "'",
			Pos:  pos,
		}
	}

	return Token{Kind: KindNumber, Num: f, Pos: pos}
}

func (l *Lexer) word(pos Position) Token {
	start := l.pos

	for !l.eof() {
		r := l.peek()
		if r != '_' && r != '\'' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		l.advance()
	}

	text := string(l.src[start:l.pos])

	if k, ok := keywords[text]; ok {
		return Token{Kind: KindKeyword, Keyword: k, Pos: pos}
	}

	lower := strings.ToLower(text)

	if o, ok := wordOperators[lower]; ok {
		return Token{Kind: KindOperator, Op: o, Pos: pos}
	}

	if lower == "null" {
		return Token{Kind: KindHash, Pos: pos}
	}

	return Token{Kind: KindIdent, Text: text, Pos: pos}
}

func (l *Lexer) skipSpace() {
	for !l.eof() {
		r := l.peek()

		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune { return l.peekAt(0) }

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}

	return l.src[l.pos+n]
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}
