package starlark

import (
	"fmt"
	"maps"

	"go.starlark.net/starlark"
)

// ExecutionContext holds the globals for evaluating template expressions.
// It is immutable after construction and safe to share between renders of
// the same input.
type ExecutionContext struct {
	// Input is the filled input object, accessible as input["name"] or name.
	Input *starlark.Dict

	// Sample describes the sample being rendered. May be nil.
	Sample *SampleInfo

	globals starlark.StringDict
}

// ContextOption is a functional option for configuring ExecutionContext.
type ContextOption func(*ExecutionContext)

// WithSample exposes sample metadata as the "sample" global.
func WithSample(info *SampleInfo) ContextOption {
	return func(ctx *ExecutionContext) {
		ctx.Sample = info
	}
}

// NewContext creates an execution context for the given input values.
func NewContext(input map[string]any, opts ...ContextOption) (*ExecutionContext, error) {
	dict, err := InputToStarlark(input)
	if err != nil {
		return nil, fmt.Errorf("convert input: %w", err)
	}

	ctx := &ExecutionContext{Input: dict}
	for _, opt := range opts {
		opt(ctx)
	}

	ctx.globals = Predeclared(ctx.Input, ctx.Sample)
	ctx.globals.Freeze()
	return ctx, nil
}

// Globals returns the globals dictionary for Starlark execution.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	return ctx.globals
}

// EvalExpr evaluates a single Starlark expression and returns the result.
func (ctx *ExecutionContext) EvalExpr(expr string, filename string, line int) (starlark.Value, error) {
	return ctx.EvalExprWithLocals(expr, filename, line, nil)
}

// EvalExprWithLocals evaluates a Starlark expression with additional local
// variables, such as loop variables. Locals shadow globals.
func (ctx *ExecutionContext) EvalExprWithLocals(expr string, filename string, line int, locals starlark.StringDict) (starlark.Value, error) {
	thread := ctx.newThread(filename)

	env := ctx.globals
	if len(locals) > 0 {
		env = make(starlark.StringDict, len(ctx.globals)+len(locals))
		maps.Copy(env, ctx.globals)
		maps.Copy(env, locals)
	}

	result, err := starlark.Eval(thread, filename, expr, env) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return nil, &EvalError{
			File:    filename,
			Line:    line,
			Expr:    expr,
			Message: err.Error(),
		}
	}

	return result, nil
}

// EvalExprString evaluates a Starlark expression and returns the string result.
func (ctx *ExecutionContext) EvalExprString(expr string, filename string, line int) (string, error) {
	return ctx.EvalExprStringWithLocals(expr, filename, line, nil)
}

// EvalExprStringWithLocals evaluates a Starlark expression with local
// variables and returns the string result. None renders as the empty string.
func (ctx *ExecutionContext) EvalExprStringWithLocals(expr string, filename string, line int, locals starlark.StringDict) (string, error) {
	result, err := ctx.EvalExprWithLocals(expr, filename, line, locals)
	if err != nil {
		return "", err
	}

	switch v := result.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return result.String(), nil
	}
}

func (ctx *ExecutionContext) newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: error evaluating %q: %s", e.File, e.Line, e.Expr, e.Message)
	}
	return fmt.Sprintf("%s: error evaluating %q: %s", e.File, e.Expr, e.Message)
}
