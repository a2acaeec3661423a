package ast

import "fmt"

// TokenKind classifies a terminal token attached to a syntax-tree leaf.
type TokenKind uint8

const (
	TokenNil TokenKind = iota
	TokenFalse
	TokenTrue
	TokenNumber
	TokenString
	TokenName
	TokenVarArg
	TokenOperator
)

var tokenKindNames = [...]string{
	TokenNil:      "nil",
	TokenFalse:    "false",
	TokenTrue:     "true",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenName:     "name",
	TokenVarArg:   "...",
	TokenOperator: "operator",
}

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// Token is a terminal produced by the external lexer. Str carries the
// literal for names, strings and operators; Num carries parsed number
// literals. Line is the 1-based source line used for instruction
// attribution.
type Token struct {
	Kind TokenKind
	Str  string
	Num  float64
	Line int
}
