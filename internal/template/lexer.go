package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText TokenType = iota // Literal source text
	TokenExpr                  // Expression content (between {{ and }})
	TokenStmt                  // Statement content (between {* and *})
	TokenEOF                   // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenExpr:
		return "EXPR"
	case TokenStmt:
		return "STMT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// Option configures a Lexer.
type Option func(*Lexer)

// TrimStatementLines removes the indentation in front of a {* stmt *} and the
// line break right after it, so control flow on its own line leaves no blank
// lines in generated files.
func TrimStatementLines() Option {
	return func(l *Lexer) {
		l.trimStmtLines = true
	}
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token

	trimStmtLines bool
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string, opts ...Option) *Lexer {
	l := &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	if l.trimStmtLines {
		tokens = trimStatementLines(tokens)
	}

	return tokens, nil
}

// trimStatementLines strips the trailing spaces/tabs of the text before a
// statement and the newline after it. Only statements followed by a newline
// are touched.
func trimStatementLines(tokens []Token) []Token {
	for i := range tokens {
		if tokens[i].Type != TokenStmt || i+1 >= len(tokens) {
			continue
		}
		next := &tokens[i+1]
		if next.Type != TokenText {
			continue
		}
		switch {
		case strings.HasPrefix(next.Value, "\r\n"):
			next.Value = next.Value[2:]
		case strings.HasPrefix(next.Value, "\n"):
			next.Value = next.Value[1:]
		default:
			continue
		}
		if i > 0 && tokens[i-1].Type == TokenText {
			tokens[i-1].Value = strings.TrimRight(tokens[i-1].Value, " \t")
		}
	}

	out := tokens[:0]
	for _, tok := range tokens {
		if tok.Type == TokenText && tok.Value == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// nextToken returns the next token from the input.
func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}

	if l.matchString("{{") {
		return l.scanExpression()
	}

	if l.matchString("{*") {
		return l.scanStatement()
	}

	return l.scanText()
}

// scanText scans literal text until a delimiter or EOF.
func (l *Lexer) scanText() (Token, error) {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) {
		if l.matchString("{{") || l.matchString("{*") {
			break
		}
		l.advance()
	}

	if l.pos == start {
		return Token{}, NewLexError(l.position(), "unexpected state in lexer")
	}

	return Token{
		Type:  TokenText,
		Value: l.input[start:l.pos],
		Pos:   l.startPosition(),
	}, nil
}

// scanExpression scans a {{ expr }} expression.
func (l *Lexer) scanExpression() (Token, error) {
	l.markStart()

	l.pos += 2
	l.col += 2

	l.skipWhitespace()

	exprStart := l.pos
	depth := 0 // nested braces, e.g. dict literals

	for l.pos < len(l.input) {
		if l.matchString("}}") && depth == 0 {
			expr := strings.TrimSpace(l.input[exprStart:l.pos])

			l.pos += 2
			l.col += 2

			return Token{
				Type:  TokenExpr,
				Value: expr,
				Pos:   l.startPosition(),
			}, nil
		}

		r := l.peek()
		if r == '{' {
			depth++
		} else if r == '}' && depth > 0 {
			depth--
		}

		l.advance()
	}

	return Token{}, NewLexError(l.startPosition(), "unclosed expression: missing '}}'")
}

// scanStatement scans a {* stmt *} statement.
func (l *Lexer) scanStatement() (Token, error) {
	l.markStart()

	l.pos += 2
	l.col += 2

	l.skipWhitespace()

	stmtStart := l.pos

	for l.pos < len(l.input) {
		if l.matchString("*}") {
			stmt := strings.TrimSpace(l.input[stmtStart:l.pos])

			l.pos += 2
			l.col += 2

			return Token{
				Type:  TokenStmt,
				Value: stmt,
				Pos:   l.startPosition(),
			}, nil
		}
		l.advance()
	}

	return Token{}, NewLexError(l.startPosition(), "unclosed statement: missing '*}'")
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r := l.peek()
		if r != ' ' && r != '\t' {
			break
		}
		l.advance()
	}
}

func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
