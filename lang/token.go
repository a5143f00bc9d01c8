package lang

import (
	"slices"
	"strconv"
	"strings"
)

// Kind classifies a [Token].
type Kind int

// Token kinds.
const (
	KindEOF Kind = iota
	KindIllegal
	KindComma
	KindColon
	KindSemicolon
	KindLBrack
	KindRBrack
	KindLParen
	KindRParen
	KindHash
	KindKeyword
	KindOperator
	KindOperatorAssign
	KindIdent
	KindNumber
)

var kindName = [...]string{
	KindEOF:            "end of input",
	KindIllegal:        "illegal token",
	KindComma:          "','",
	KindColon:          "':'",
	KindSemicolon:      "';'",
	KindLBrack:         "'['",
	KindRBrack:         "']'",
	KindLParen:         "'('",
	KindRParen:         "')'",
	KindHash:           "'#'",
	KindKeyword:        "keyword",
	KindOperator:       "operator",
	KindOperatorAssign: "compound assignment",
	KindIdent:          "identifier",
	KindNumber:         "number",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Keyword identifies a reserved word.
type Keyword int

// Reserved words.
const (
	KeywordIf Keyword = iota
	KeywordElse
	KeywordLet
	KeywordFor
	KeywordWhile
	KeywordBreak
	KeywordContinue
	KeywordExport
	KeywordInput
	KeywordBool
	KeywordNumber
	KeywordVec2
	KeywordShape
	KeywordIn
	KeywordEnd
	KeywordAdaptive
	KeywordBegin
	KeywordFunction
	KeywordReturn
	KeywordTrue
	KeywordFalse
	KeywordType
	KeywordAs
)

var keywordText = [...]string{
	KeywordIf:       "if",
	KeywordElse:     "else",
	KeywordLet:      "let",
	KeywordFor:      "for",
	KeywordWhile:    "while",
	KeywordBreak:    "break",
	KeywordContinue: "continue",
	KeywordExport:   "export",
	KeywordInput:    "input",
	KeywordBool:     "Bool",
	KeywordNumber:   "Number",
	KeywordVec2:     "Vec2",
	KeywordShape:    "Shape",
	KeywordIn:       "in",
	KeywordEnd:      "end",
	KeywordAdaptive: "adaptive",
	KeywordBegin:    "begin",
	KeywordFunction: "function",
	KeywordReturn:   "return",
	KeywordTrue:     "true",
	KeywordFalse:    "false",
	KeywordType:     "type",
	KeywordAs:       "as",
}

var keywords = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordText))
	for k, s := range keywordText {
		m[s] = Keyword(k)
	}

	return m
}()

func (k Keyword) String() string {
	if k < 0 || int(k) >= len(keywordText) {
		return "Keyword(" + strconv.Itoa(int(k)) + ")"
	}

	return keywordText[k]
}

// Keywords returns the reserved words, excluding word operators, in
// declaration order.
func Keywords() []string { return slices.Clone(keywordText[:]) }

// IsKeyword reports whether s is reserved, including the word operators.
func IsKeyword(s string) bool {
	if _, ok := keywords[s]; ok {
		return true
	}

	_, ok := wordOperators[strings.ToLower(s)]

	return ok || strings.EqualFold(s, "null")
}

// Operator identifies a unary or binary operator.
type Operator int

// Operators.
const (
	OpDot Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNot
	OpAssign
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

var operatorText = [...]string{
	OpDot:    ".",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpPow:    "^",
	OpNot:    "!",
	OpAssign: "=",
	OpEq:     "==",
	OpNeq:    "!=",
	OpLt:     "<",
	OpLte:    "<=",
	OpGt:     ">",
	OpGte:    ">=",
	OpAnd:    "and",
	OpOr:     "or",
}

var wordOperators = map[string]Operator{
	"is":    OpEq,
	"isnt":  OpNeq,
	"isn't": OpNeq,
	"and":   OpAnd,
	"or":    OpOr,
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorText) {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}

	return operatorText[o]
}

// Precedence returns the binding power of o as a binary operator.
// Higher binds tighter.
func (o Operator) Precedence() int {
	switch o {
	case OpDot:
		return 7
	case OpNot:
		return 6
	case OpPow:
		return 5
	case OpMul, OpDiv, OpMod:
		return 4
	case OpAdd, OpSub:
		return 3
	case OpLt, OpLte, OpGt, OpGte:
		return 2
	case OpEq, OpNeq:
		return 1
	default:
		return 0
	}
}

// Binary reports whether o may appear between two operands.
func (o Operator) Binary() bool { return o != OpNot }

// Compound reports whether o has an "o=" assignment form.
func (o Operator) Compound() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return true
	default:
		return false
	}
}

// Position is a 1-based line and column in source text.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a lexical unit. Only the fields relevant to Kind are set:
// Keyword for keywords, Op for operators, Num for numbers, and Text for
// identifiers and illegal tokens.
type Token struct {
	Text    string
	Num     float64
	Pos     Position
	Kind    Kind
	Keyword Keyword
	Op      Operator
}

// Is reports whether t is the keyword k.
func (t Token) Is(k Keyword) bool { return t.Kind == KindKeyword && t.Keyword == k }

// IsOp reports whether t is the plain operator o.
func (t Token) IsOp(o Operator) bool { return t.Kind == KindOperator && t.Op == o }

func (t Token) String() string {
	switch t.Kind {
	case KindKeyword:
		return "'" + t.Keyword.String() + "'"
	case KindOperator:
		return "'" + t.Op.String() + "'"
	case KindOperatorAssign:
		return "'" + t.Op.String() + "='"
	case KindIdent:
		return "identifier '" + t.Text + "'"
	case KindNumber:
		return "number " + strconv.FormatFloat(t.Num, 'g', -1, 64)
	case KindIllegal:
		return t.Text
	default:
		return t.Kind.String()
	}
}
