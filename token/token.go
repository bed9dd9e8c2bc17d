// Package token defines the lexical token representation shared by the
// tokenizer, preprocessor, and parser.
package token

import "fmt"

// Kind classifies a Token. Unlike a scripting-language lexer, punctuators
// and keywords share a single kind (PunctOrKeyword); the distinguishing
// information is carried in the token's Lexeme text, mirroring the
// "reserved word is just a spelled-out punctuator" treatment used by the
// C compilers this tokenizer is modeled on.
type Kind int

const (
	// PunctOrKeyword covers both punctuation ("+", "{", "->") and reserved
	// words ("if", "return", "struct", ...).
	PunctOrKeyword Kind = iota
	Ident
	String
	Number
	EOF
)

func (k Kind) String() string {
	switch k {
	case PunctOrKeyword:
		return "PUNCT_OR_KEYWORD"
	case Ident:
		return "IDENT"
	case String:
		return "STRING"
	case Number:
		return "NUMBER"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Keywords is the fixed reserved-word set. An identifier lexeme found in
// this set is tokenized as PunctOrKeyword rather than Ident, with the
// keyword spelling preserved as the Lexeme.
var Keywords = map[string]bool{
	"return":  true,
	"if":      true,
	"else":    true,
	"while":   true,
	"for":     true,
	"int":     true,
	"char":    true,
	"short":   true,
	"long":    true,
	"void":    true,
	"struct":  true,
	"union":   true,
	"typedef": true,
	"sizeof":  true,
}

// Token is an immutable node in the singly-linked token stream produced by
// the tokenizer. The stream is walked via Next; there is no back edge.
//
// Fields:
//   - Kind: the token's lexical category.
//   - Lexeme: the exact source text that produced this token.
//   - Val: the decoded numeric value, valid only when Kind == Number.
//   - Contents: the decoded string bytes (escapes resolved) plus a
//     trailing NUL, valid only when Kind == String.
//   - File: the originating file name, used for diagnostics.
//   - Line: 1-based source line number.
//   - Column: 1-based column of the first character of Lexeme.
//   - Src: the full text of the file this token was scanned from, so any
//     later pass (parser, type annotator, code generator) can render a
//     diagnostic with the offending source line and a caret without
//     threading a separate file-contents map through every call.
//   - AtBOL: true if this is the first token on its source line (or the
//     first token overall). The preprocessor uses this flag to find the
//     end of a directive line.
//   - Next: the following token; nil only past EOF.
type Token struct {
	Kind     Kind
	Lexeme   string
	Val      int64
	Contents []byte
	File     string
	Line     int
	Column   int
	Src      []byte
	AtBOL    bool
	Next     *Token
}

// Is reports whether the token is a PunctOrKeyword (or, degenerately, any
// kind) whose Lexeme equals s. This is the workhorse comparison used
// throughout the parser and preprocessor in place of a kind+value switch.
func (t *Token) Is(s string) bool {
	return t != nil && t.Lexeme == s
}

// IsEOF reports whether t is the stream's terminating sentinel.
func (t *Token) IsEOF() bool {
	return t == nil || t.Kind == EOF
}

// String renders the token for diagnostics and debug dumps.
func (t *Token) String() string {
	if t == nil {
		return "<nil token>"
	}
	return fmt.Sprintf("Token{%s %q line:%d col:%d}", t.Kind, t.Lexeme, t.Line, t.Column)
}
