package template

import (
	"maps"
	"strings"

	starctx "github.com/brandor64/caleuche/internal/starlark"
	"go.starlark.net/starlark"
)

// Render evaluates a parsed template against the execution context.
func Render(tmpl *Template, ctx *starctx.ExecutionContext) (string, error) {
	r := &renderer{ctx: ctx, file: tmpl.File}
	var sb strings.Builder
	if err := r.renderNodes(&sb, tmpl.Nodes, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderString parses and renders a template in one step.
func RenderString(input, file string, ctx *starctx.ExecutionContext, opts ...Option) (string, error) {
	tmpl, err := ParseString(input, file, opts...)
	if err != nil {
		return "", err
	}
	return Render(tmpl, ctx)
}

type renderer struct {
	ctx  *starctx.ExecutionContext
	file string
}

func (r *renderer) renderNodes(sb *strings.Builder, nodes []Node, locals starlark.StringDict) error {
	for _, n := range nodes {
		if err := r.renderNode(sb, n, locals); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(sb *strings.Builder, n Node, locals starlark.StringDict) error {
	switch node := n.(type) {
	case *TextNode:
		sb.WriteString(node.Text)

	case *ExprNode:
		s, err := r.ctx.EvalExprStringWithLocals(node.Expr, r.file, node.Pos().Line, locals)
		if err != nil {
			return WrapRenderError(node.Pos(), "failed to evaluate expression", err)
		}
		sb.WriteString(s)

	case *ForBlock:
		return r.renderFor(sb, node, locals)

	case *IfBlock:
		return r.renderIf(sb, node, locals)

	default:
		return NewRenderErrorf(n.Pos(), "unexpected node type %T", n)
	}
	return nil
}

func (r *renderer) renderFor(sb *strings.Builder, node *ForBlock, locals starlark.StringDict) error {
	iterable, err := r.ctx.EvalExprWithLocals(node.IterExpr, r.file, node.Pos().Line, locals)
	if err != nil {
		return WrapRenderError(node.Pos(), "failed to evaluate loop iterator", err)
	}

	iter := starlark.Iterate(iterable)
	if iter == nil {
		return NewRenderErrorf(node.Pos(), "value of type %s is not iterable", iterable.Type())
	}
	defer iter.Done()

	loopLocals := make(starlark.StringDict, len(locals)+1)
	maps.Copy(loopLocals, locals)

	var item starlark.Value
	for iter.Next(&item) {
		loopLocals[node.VarName] = item
		if err := r.renderNodes(sb, node.Body, loopLocals); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderIf(sb *strings.Builder, node *IfBlock, locals starlark.StringDict) error {
	ok, err := r.truth(node.Condition, node.Pos(), locals)
	if err != nil {
		return err
	}
	if ok {
		return r.renderNodes(sb, node.Body, locals)
	}

	for _, branch := range node.ElseIfs {
		ok, err := r.truth(branch.Condition, branch.pos, locals)
		if err != nil {
			return err
		}
		if ok {
			return r.renderNodes(sb, branch.Body, locals)
		}
	}

	return r.renderNodes(sb, node.Else, locals)
}

func (r *renderer) truth(cond string, pos Position, locals starlark.StringDict) (bool, error) {
	v, err := r.ctx.EvalExprWithLocals(cond, r.file, pos.Line, locals)
	if err != nil {
		return false, WrapRenderError(pos, "failed to evaluate condition", err)
	}
	return bool(v.Truth()), nil
}
