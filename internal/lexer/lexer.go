// Package lexer turns SystemVerilog source text into a flat stream of
// classified tokens. It is a purely lexical scanner: it knows spellings
// and token categories, nothing about the grammar above them.
package lexer

import (
	"github.com/veridian-labs/vlin/internal/token"
)

// Lexer scans the input buffer and produces tokens with source positions.
type Lexer struct {
	filename string
	input    string
	position int // byte offset of the next unread character
	line     int
	column   int
	tokens   []token.Token
}

// New returns a Lexer over the given source buffer. The filename is only
// used to stamp token positions.
func New(filename string, src []byte) *Lexer {
	return &Lexer{
		filename: filename,
		input:    string(src),
		line:     1,
		column:   1,
		tokens:   make([]token.Token, 0, len(src)/4),
	}
}

// multi-character operators, longest match first
var operators = []string{
	"<<<", ">>>", "===", "!==", "<->",
	"<=", ">=", "==", "!=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "->", "::", "++", "--", "##",
}

// Tokenize scans the entire input and returns the token stream, terminated
// by an EOF token.
func (l *Lexer) Tokenize() []token.Token {
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == '\n':
			l.lexNewlines()
		case c == ' ' || c == '\t' || c == '\r':
			l.lexSpace()
		case c == '/' && l.peekAt(1) == '/':
			l.lexEOLComment()
		case c == '/' && l.peekAt(1) == '*':
			l.lexBlockComment()
		case c == '(':
			l.emit(token.LParen, "(")
		case c == ')':
			l.emit(token.RParen, ")")
		case c == '@':
			l.emit(token.At, "@")
		case c == '*' && l.peekAt(1) != '=':
			l.emit(token.Star, "*")
		case c == ';':
			l.emit(token.Semicolon, ";")
		case c == '"':
			l.lexString()
		case c == '$' && isIdentStart(l.peekAt(1)):
			l.lexIdentifier(token.SystemIdentifier)
		case isIdentStart(c):
			l.lexIdentifier(token.Identifier)
		case isDigit(c) || c == '\'':
			l.lexNumber()
		default:
			l.lexOperator()
		}
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Pos: l.pos()})
	return l.tokens
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Filename: l.filename,
		Offset:   l.position,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) peekAt(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

// emit records a token whose text is already known and advances past it.
func (l *Lexer) emit(kind token.Kind, text string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: text, Pos: l.pos()})
	l.advance(len(text))
}

// advance moves the cursor n bytes forward, tracking line and column.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.position < len(l.input); i++ {
		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
	}
}

// emitSpan records a token covering input[start:l.position+n) and advances
// past its remaining n bytes.
func (l *Lexer) emitSpan(kind token.Kind, pos token.Position, start, n int) {
	l.advance(n)
	l.tokens = append(l.tokens, token.Token{
		Kind: kind,
		Text: l.input[start:l.position],
		Pos:  pos,
	})
}

func (l *Lexer) lexNewlines() {
	pos := l.pos()
	start := l.position
	n := 0
	for l.position+n < len(l.input) && l.input[l.position+n] == '\n' {
		n++
	}
	l.emitSpan(token.Newline, pos, start, n)
}

func (l *Lexer) lexSpace() {
	pos := l.pos()
	start := l.position
	n := 0
	for {
		c := l.peekAt(n)
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
		n++
	}
	l.emitSpan(token.Space, pos, start, n)
}

func (l *Lexer) lexEOLComment() {
	pos := l.pos()
	start := l.position
	n := 0
	for l.peekAt(n) != '\n' && l.position+n < len(l.input) {
		n++
	}
	l.emitSpan(token.CommentEOL, pos, start, n)
}

func (l *Lexer) lexBlockComment() {
	pos := l.pos()
	start := l.position
	n := 2 // past "/*"
	for l.position+n < len(l.input) {
		if l.peekAt(n) == '*' && l.peekAt(n+1) == '/' {
			n += 2
			break
		}
		n++
	}
	l.emitSpan(token.CommentBlock, pos, start, n)
}

func (l *Lexer) lexString() {
	pos := l.pos()
	start := l.position
	n := 1 // past opening quote
	for l.position+n < len(l.input) {
		c := l.peekAt(n)
		if c == '\\' {
			n += 2
			continue
		}
		n++
		if c == '"' {
			break
		}
	}
	l.emitSpan(token.String, pos, start, n)
}

func (l *Lexer) lexIdentifier(kind token.Kind) {
	pos := l.pos()
	start := l.position
	n := 0
	if kind == token.SystemIdentifier {
		n = 1 // past '$'
	}
	for isIdentPart(l.peekAt(n)) {
		n++
	}
	text := l.input[start : start+n]
	if kind == token.Identifier {
		kind = token.Lookup(text)
	}
	l.emitSpan(kind, pos, start, n)
}

// lexNumber scans decimal literals and based literals such as 8'hFF,
// 'b1010 or '0. The internal digit set is deliberately loose; the linter
// only needs the extent of the literal, not its value.
func (l *Lexer) lexNumber() {
	pos := l.pos()
	start := l.position
	n := 0
	for isDigit(l.peekAt(n)) || l.peekAt(n) == '_' {
		n++
	}
	if l.peekAt(n) == '\'' {
		n++
		if c := l.peekAt(n); c == 's' || c == 'S' {
			n++
		}
		if isBaseChar(l.peekAt(n)) {
			n++
		}
		for isBasedDigit(l.peekAt(n)) {
			n++
		}
	} else {
		for isDigit(l.peekAt(n)) || l.peekAt(n) == '.' || l.peekAt(n) == '_' {
			n++
		}
	}
	l.emitSpan(token.Number, pos, start, n)
}

// lexOperator scans one operator token, preferring the longest spelling
// from the operator table, falling back to a single character.
func (l *Lexer) lexOperator() {
	for _, op := range operators {
		if l.position+len(op) <= len(l.input) && l.input[l.position:l.position+len(op)] == op {
			l.emit(token.Operator, op)
			return
		}
	}
	l.emit(token.Operator, l.input[l.position:l.position+1])
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBaseChar(c byte) bool {
	switch c {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	}
	return false
}

func isBasedDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == 'x' || c == 'X' || c == 'z' || c == 'Z' || c == '_' || c == '?'
}
