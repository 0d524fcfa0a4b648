package template

import "fmt"

// Error is a failure tied to a place in a sample template. Every error this
// package returns implements it.
type Error interface {
	error
	Position() Position
}

// String formats p as file:line:col, or line:col for templates without a
// file name, the form compilers and editors print.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// LexError reports an unterminated {{ }} or {* *} delimiter.
type LexError struct {
	Pos Position
	Msg string
}

// NewLexError creates a LexError at pos.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{Pos: pos, Msg: msg}
}

func (e *LexError) Error() string      { return e.Pos.String() + ": " + e.Msg }
func (e *LexError) Position() Position { return e.Pos }

// ParseError reports a statement that is not a valid for/if/elif/else line,
// or an empty {{ }}.
type ParseError struct {
	Pos Position
	Msg string
}

// NewParseErrorf creates a ParseError at pos.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string      { return e.Pos.String() + ": " + e.Msg }
func (e *ParseError) Position() Position { return e.Pos }

// RenderError reports a failure while producing the generated file, usually
// an input expression Starlark could not evaluate. Cause holds that
// evaluation error.
type RenderError struct {
	Pos   Position
	Msg   string
	Cause error
}

// NewRenderErrorf creates a RenderError at pos without a cause.
func NewRenderErrorf(pos Position, format string, args ...any) *RenderError {
	return &RenderError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// WrapRenderError creates a RenderError at pos caused by err.
func WrapRenderError(pos Position, msg string, err error) *RenderError {
	return &RenderError{Pos: pos, Msg: msg, Cause: err}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Pos.String() + ": " + e.Msg
	}
	return fmt.Sprintf("%s: %s: %v", e.Pos, e.Msg, e.Cause)
}

func (e *RenderError) Position() Position { return e.Pos }
func (e *RenderError) Unwrap() error      { return e.Cause }

// blockCloser maps a block opener to the statement that ends it; blockOpener
// maps endfor/endif/else/elif to the opener they require.
var (
	blockCloser = map[StmtKind]StmtKind{StmtFor: StmtEndFor, StmtIf: StmtEndIf}
	blockOpener = map[StmtKind]StmtKind{StmtEndFor: StmtFor, StmtEndIf: StmtIf, StmtElse: StmtIf, StmtElif: StmtIf}
)

// UnmatchedBlockError reports a for/if without its end statement, or an
// endfor/endif/else/elif with no block to attach to.
type UnmatchedBlockError struct {
	Pos       Position
	BlockKind StmtKind
}

// NewUnmatchedBlockError creates an UnmatchedBlockError for the statement of
// the given kind at pos.
func NewUnmatchedBlockError(pos Position, kind StmtKind) *UnmatchedBlockError {
	return &UnmatchedBlockError{Pos: pos, BlockKind: kind}
}

func (e *UnmatchedBlockError) Error() string {
	var msg string
	if closer, ok := blockCloser[e.BlockKind]; ok {
		msg = fmt.Sprintf("unclosed '%s' block (missing '%s')", e.BlockKind, closer)
	} else if opener, ok := blockOpener[e.BlockKind]; ok {
		msg = fmt.Sprintf("'%s' without matching '%s'", e.BlockKind, opener)
	} else {
		msg = fmt.Sprintf("unmatched block: %s", e.BlockKind)
	}
	return e.Pos.String() + ": " + msg
}

func (e *UnmatchedBlockError) Position() Position { return e.Pos }
