package token

import "fmt"

// Kind classifies a SystemVerilog lexical token.
type Kind int

const (
	Illegal Kind = iota
	EOF

	// Formatting tokens. These never carry semantic meaning and are
	// skipped by every token stream rule.
	Space
	Newline
	CommentBlock
	CommentEOL

	Identifier
	SystemIdentifier // $display, $finish, ...
	Number
	String

	LParen
	RParen
	At
	Star
	Semicolon
	Operator // any operator or punctuation not listed above

	// Keywords tracked individually by rules.
	KwBegin
	KwEnd
	KwIf
	KwElse
	KwAlways
	KwAlwaysComb
	KwAlwaysLatch
	KwAlwaysFF
	KwForever
	KwInitial
	KwFor
	KwForeach
	KwWhile

	Keyword // any other reserved word
)

var kindNames = map[Kind]string{
	Illegal:          "illegal",
	EOF:              "eof",
	Space:            "space",
	Newline:          "newline",
	CommentBlock:     "comment-block",
	CommentEOL:       "comment-eol",
	Identifier:       "identifier",
	SystemIdentifier: "system-identifier",
	Number:           "number",
	String:           "string",
	LParen:           "lparen",
	RParen:           "rparen",
	At:               "at",
	Star:             "star",
	Semicolon:        "semicolon",
	Operator:         "operator",
	KwBegin:          "begin",
	KwEnd:            "end",
	KwIf:             "if",
	KwElse:           "else",
	KwAlways:         "always",
	KwAlwaysComb:     "always_comb",
	KwAlwaysLatch:    "always_latch",
	KwAlwaysFF:       "always_ff",
	KwForever:        "forever",
	KwInitial:        "initial",
	KwFor:            "for",
	KwForeach:        "foreach",
	KwWhile:          "while",
	Keyword:          "keyword",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsFormatting reports whether tokens of this kind are pure formatting
// (whitespace or comments) and carry no semantic content.
func (k Kind) IsFormatting() bool {
	switch k {
	case Space, Newline, CommentBlock, CommentEOL:
		return true
	}
	return false
}

// keywords maps the spelling of tracked keywords to their dedicated kinds.
// Everything else in reservedWords lexes as the generic Keyword kind.
var keywords = map[string]Kind{
	"begin":        KwBegin,
	"end":          KwEnd,
	"if":           KwIf,
	"else":         KwElse,
	"always":       KwAlways,
	"always_comb":  KwAlwaysComb,
	"always_latch": KwAlwaysLatch,
	"always_ff":    KwAlwaysFF,
	"forever":      KwForever,
	"initial":      KwInitial,
	"for":          KwFor,
	"foreach":      KwForeach,
	"while":        KwWhile,
}

var reservedWords = map[string]struct{}{
	"module": {}, "endmodule": {}, "case": {}, "endcase": {},
	"function": {}, "endfunction": {}, "task": {}, "endtask": {},
	"generate": {}, "endgenerate": {}, "package": {}, "endpackage": {},
	"interface": {}, "endinterface": {}, "class": {}, "endclass": {},
	"assign": {}, "wire": {}, "reg": {}, "logic": {}, "bit": {},
	"input": {}, "output": {}, "inout": {}, "parameter": {},
	"localparam": {}, "posedge": {}, "negedge": {}, "edge": {},
	"do": {}, "repeat": {}, "return": {}, "break": {}, "continue": {},
	"typedef": {}, "enum": {}, "struct": {}, "union": {}, "unique": {},
	"priority": {}, "default": {}, "integer": {}, "int": {}, "signed": {},
	"unsigned": {}, "genvar": {}, "wait": {}, "fork": {}, "join": {},
	"disable": {}, "assert": {},
}

// Lookup classifies an identifier spelling, returning the keyword kind
// for reserved words and Identifier otherwise.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	if _, ok := reservedWords[ident]; ok {
		return Keyword
	}
	return Identifier
}

// Position is a source location within a single file.
type Position struct {
	Filename string
	Offset   int // byte offset, starting at 0
	Line     int // starting at 1
	Column   int // starting at 1
}

func (p Position) String() string {
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
}

// Token is one classified lexical unit of a source file.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// End returns the position one past the last byte of the token.
func (t Token) End() Position {
	end := t.Pos
	end.Offset += len(t.Text)
	end.Column += len(t.Text)
	return end
}
