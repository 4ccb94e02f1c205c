package lang

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	INT    // decimal integer literal
	STRING // string literal
	IDENT  // identifier
	KW     // reserved keyword
	SYM    // symbol/operator/punctuation
)

var tokenNames = [...]string{
	EOF:    "EOF",
	INT:    "INT",
	STRING: "STRING",
	IDENT:  "IDENT",
	KW:     "KW",
	SYM:    "SYM",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
//
// Value holds an int for INT tokens and a string for every other kind
// (including EOF, whose Value is the literal string "EOF").
type Token struct {
	Type   TokenType
	Value  any
	Line   int
	Column int
}

// Str returns Value as a string; it panics if Value is not a string, which
// is a parser bug (callers only call Str on non-INT tokens).
func (t Token) Str() string {
	return t.Value.(string)
}

// Int returns Value as an int; it panics if Value is not an int.
func (t Token) Int() int {
	return t.Value.(int)
}

func (t Token) String() string {
	return fmt.Sprintf("%-6s %-12v line %d:%d", t.Type, t.Value, t.Line, t.Column)
}

// Reserved is the set of identifier-shaped words classified as keywords
// instead of IDENT by the lexer.
var Reserved = map[string]bool{
	"Frame": true, "int": true, "color": true, "pixel": true, "bool": true,
	"string": true, "list": true, "None": true, "true": true, "false": true,
	"none": true, "Do": true, "Publish": true, "Send": true, "return": true,
	"While": true, "For": true, "in": true, "if": true, "and": true,
	"or": true, "xor": true, "not": true,
}

// TypeKeywords is the subset of Reserved that names a value type usable in
// a VarDecl, Param, ForStmt annotation, or zero-argument type constructor.
var TypeKeywords = map[string]bool{
	"Frame": true, "int": true, "color": true, "pixel": true, "bool": true,
	"string": true, "list": true, "None": true,
}

// multiChar lists multi-character symbols, longest-match order handled by
// the lexer trying each in turn.
var multiChar = []string{"!?", "==", "<=", ">=", "->", "=>"}

// singleChar is the set of single-character symbols/punctuation.
var singleChar = "(){}[]<>:.,?!=+-*|&~"
