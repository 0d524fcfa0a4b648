package template

import (
	"regexp"
	"slices"
	"strings"
)

var forPattern = regexp.MustCompile(`^for\s+([A-Za-z_][A-Za-z0-9_]*)\s+in\s+(.+?)\s*:?$`)

// ParseString tokenizes and parses a template.
func ParseString(input, file string, opts ...Option) (*Template, error) {
	tokens, err := NewLexer(input, file, opts...).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	nodes, end, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if end != nil {
		return nil, NewUnmatchedBlockError(end.pos, end.Kind)
	}

	return &Template{Nodes: nodes, File: file}, nil
}

type parser struct {
	tokens []Token
	pos    int
}

// parseNodes collects nodes until EOF or until a statement of one of the
// given kinds. The terminating statement is returned so the caller can decide
// how the enclosing block continues. A nil statement means EOF was reached.
func (p *parser) parseNodes(until ...StmtKind) ([]Node, *StmtNode, error) {
	var nodes []Node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.Type {
		case TokenEOF:
			return nodes, nil, nil

		case TokenText:
			nodes = append(nodes, &TextNode{nodeBase: nodeBase{pos: tok.Pos}, Text: tok.Value})

		case TokenExpr:
			if tok.Value == "" {
				return nil, nil, NewParseErrorf(tok.Pos, "empty expression")
			}
			nodes = append(nodes, &ExprNode{nodeBase: nodeBase{pos: tok.Pos}, Expr: tok.Value})

		case TokenStmt:
			stmt, err := classify(tok)
			if err != nil {
				return nil, nil, err
			}

			switch stmt.Kind {
			case StmtFor:
				block, err := p.parseFor(stmt)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			case StmtIf:
				block, err := p.parseIf(stmt)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, block)
			default:
				if slices.Contains(until, stmt.Kind) {
					return nodes, stmt, nil
				}
				return nil, nil, NewUnmatchedBlockError(stmt.pos, stmt.Kind)
			}
		}
	}

	return nodes, nil, nil
}

func (p *parser) parseFor(stmt *StmtNode) (*ForBlock, error) {
	body, end, err := p.parseNodes(StmtEndFor)
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, NewUnmatchedBlockError(stmt.pos, StmtFor)
	}
	return &ForBlock{
		nodeBase: stmt.nodeBase,
		VarName:  stmt.VarName,
		IterExpr: stmt.Expr,
		Body:     body,
	}, nil
}

func (p *parser) parseIf(stmt *StmtNode) (*IfBlock, error) {
	block := &IfBlock{nodeBase: stmt.nodeBase, Condition: stmt.Expr}

	body, end, err := p.parseNodes(StmtElif, StmtElse, StmtEndIf)
	if err != nil {
		return nil, err
	}
	block.Body = body

	for {
		if end == nil {
			return nil, NewUnmatchedBlockError(stmt.pos, StmtIf)
		}

		switch end.Kind {
		case StmtElif:
			branch := Branch{Condition: end.Expr, pos: end.pos}
			branch.Body, end, err = p.parseNodes(StmtElif, StmtElse, StmtEndIf)
			if err != nil {
				return nil, err
			}
			block.ElseIfs = append(block.ElseIfs, branch)

		case StmtElse:
			elseBody, elseEnd, err := p.parseNodes(StmtEndIf)
			if err != nil {
				return nil, err
			}
			if elseEnd == nil {
				return nil, NewUnmatchedBlockError(stmt.pos, StmtIf)
			}
			if elseBody == nil {
				elseBody = []Node{}
			}
			block.Else = elseBody
			return block, nil

		default: // endif
			return block, nil
		}
	}
}

// classify turns a raw statement token into a StmtNode.
func classify(tok Token) (*StmtNode, error) {
	stmt := &StmtNode{nodeBase: nodeBase{pos: tok.Pos}}
	src := tok.Value

	switch {
	case src == "endfor":
		stmt.Kind = StmtEndFor
	case src == "endif":
		stmt.Kind = StmtEndIf
	case src == "else" || src == "else:":
		stmt.Kind = StmtElse
	case strings.HasPrefix(src, "for "):
		m := forPattern.FindStringSubmatch(src)
		if m == nil {
			return nil, NewParseErrorf(tok.Pos, "malformed for statement: %q", src)
		}
		stmt.Kind = StmtFor
		stmt.VarName = m[1]
		stmt.Expr = m[2]
	case strings.HasPrefix(src, "if "):
		stmt.Kind = StmtIf
		stmt.Expr = condition(src, "if ")
	case strings.HasPrefix(src, "elif "):
		stmt.Kind = StmtElif
		stmt.Expr = condition(src, "elif ")
	default:
		return nil, NewParseErrorf(tok.Pos, "unknown statement: %q", src)
	}

	if (stmt.Kind == StmtIf || stmt.Kind == StmtElif) && stmt.Expr == "" {
		return nil, NewParseErrorf(tok.Pos, "%s statement without a condition", stmt.Kind)
	}
	return stmt, nil
}

func condition(src, keyword string) string {
	cond := strings.TrimPrefix(src, keyword)
	cond = strings.TrimSuffix(strings.TrimSpace(cond), ":")
	return strings.TrimSpace(cond)
}
