package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ValidInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		checkFunc func(t *testing.T, tmpl *Template)
	}{
		{
			name:      "plain text",
			input:     `print("hi")`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				text, ok := tmpl.Nodes[0].(*TextNode)
				require.True(t, ok, "expected TextNode, got %T", tmpl.Nodes[0])
				assert.Equal(t, `print("hi")`, text.Text)
			},
		},
		{
			name:      "simple expression",
			input:     `print("{{ greeting }}")`,
			wantNodes: 3,
			checkFunc: func(t *testing.T, tmpl *Template) {
				expr, ok := tmpl.Nodes[1].(*ExprNode)
				require.True(t, ok, "node[1]: expected ExprNode, got %T", tmpl.Nodes[1])
				assert.Equal(t, "greeting", expr.Expr)
			},
		},
		{
			name: "for loop",
			input: `{* for dep in dependencies: *}
{{ dep }}
{* endfor *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				forBlock, ok := tmpl.Nodes[0].(*ForBlock)
				require.True(t, ok, "expected ForBlock, got %T", tmpl.Nodes[0])
				assert.Equal(t, "dep", forBlock.VarName)
				assert.Equal(t, "dependencies", forBlock.IterExpr)
				require.Len(t, forBlock.Body, 3)
				expr, ok := forBlock.Body[1].(*ExprNode)
				require.True(t, ok, "body[1]: expected ExprNode, got %T", forBlock.Body[1])
				assert.Equal(t, "dep", expr.Expr)
			},
		},
		{
			name:      "for loop with list literal",
			input:     `{* for x in ["a", "b", "c"]: *}{{ x }}{* endfor *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				forBlock, ok := tmpl.Nodes[0].(*ForBlock)
				require.True(t, ok, "expected ForBlock, got %T", tmpl.Nodes[0])
				assert.Equal(t, `["a", "b", "c"]`, forBlock.IterExpr)
			},
		},
		{
			name: "if-else",
			input: `{* if verbose: *}
yes
{* else: *}
no
{* endif *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				ifBlock, ok := tmpl.Nodes[0].(*IfBlock)
				require.True(t, ok, "expected IfBlock, got %T", tmpl.Nodes[0])
				assert.Equal(t, "verbose", ifBlock.Condition)
				assert.Len(t, ifBlock.Body, 1)
				require.NotNil(t, ifBlock.Else)
				assert.Len(t, ifBlock.Else, 1)
			},
		},
		{
			name:      "empty else",
			input:     `{* if a: *}A{* else *}{* endif *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				ifBlock, ok := tmpl.Nodes[0].(*IfBlock)
				require.True(t, ok, "expected IfBlock, got %T", tmpl.Nodes[0])
				assert.NotNil(t, ifBlock.Else)
				assert.Empty(t, ifBlock.Else)
			},
		},
		{
			name: "if-elif-else",
			input: `{* if a: *}
A
{* elif b: *}
B
{* elif c: *}
C
{* else: *}
D
{* endif *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				ifBlock, ok := tmpl.Nodes[0].(*IfBlock)
				require.True(t, ok, "expected IfBlock, got %T", tmpl.Nodes[0])
				assert.Equal(t, "a", ifBlock.Condition)
				require.Len(t, ifBlock.ElseIfs, 2)
				assert.Equal(t, "b", ifBlock.ElseIfs[0].Condition)
				assert.Equal(t, "c", ifBlock.ElseIfs[1].Condition)
				assert.NotNil(t, ifBlock.Else)
			},
		},
		{
			name: "nested blocks",
			input: `{* for x in items: *}
{* if x > 0: *}
{{ x }}
{* endif *}
{* endfor *}`,
			wantNodes: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				forBlock, ok := tmpl.Nodes[0].(*ForBlock)
				require.True(t, ok, "expected ForBlock, got %T", tmpl.Nodes[0])

				var foundIf bool
				for _, node := range forBlock.Body {
					if _, ok := node.(*IfBlock); ok {
						foundIf = true
						break
					}
				}
				assert.True(t, foundIf, "expected nested IfBlock in ForBlock body")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseString(tt.input, "sample.py")
			require.NoError(t, err)
			require.Len(t, tmpl.Nodes, tt.wantNodes)
			assert.Equal(t, "sample.py", tmpl.File)
			if tt.checkFunc != nil {
				tt.checkFunc(t, tmpl)
			}
		})
	}
}

func TestParser_ForWithoutColon(t *testing.T) {
	inputs := []string{
		`{* for x in items: *}{{ x }}{* endfor *}`,
		`{* for x in items *}{{ x }}{* endfor *}`,
	}

	for _, input := range inputs {
		t.Run(input[:20]+"...", func(t *testing.T) {
			tmpl, err := ParseString(input, "sample.py")
			require.NoError(t, err, "input %q", input)

			forBlock, ok := tmpl.Nodes[0].(*ForBlock)
			require.True(t, ok, "input %q: expected ForBlock, got %T", input, tmpl.Nodes[0])
			assert.Equal(t, "x", forBlock.VarName)
			assert.Equal(t, "items", forBlock.IterExpr)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  StmtKind // set when an UnmatchedBlockError is expected
		wantInErr string
	}{
		{name: "unmatched for", input: "{* for x in items: *}\n{{ x }}", wantKind: StmtFor},
		{name: "unmatched endfor", input: "{{ x }}\n{* endfor *}", wantKind: StmtEndFor},
		{name: "unmatched if", input: "{* if cond: *}\nyes", wantKind: StmtIf},
		{name: "unmatched if after else", input: "{* if cond: *}a{* else: *}b", wantKind: StmtIf},
		{name: "unmatched else", input: "yes\n{* else: *}\nno", wantKind: StmtElse},
		{name: "unmatched elif", input: "{* elif x: *}", wantKind: StmtElif},
		{name: "endif closing for", input: "{* for x in xs: *}{* endif *}", wantKind: StmtEndIf},
		{name: "unknown statement", input: "{* while True: *}", wantInErr: "unknown statement"},
		{name: "malformed for", input: "{* for in xs: *}{* endfor *}", wantInErr: "malformed for"},
		{name: "if without condition", input: "{* if : *}{* endif *}", wantInErr: "without a condition"},
		{name: "empty expression", input: "{{ }}", wantInErr: "empty expression"},
		{name: "lexer error", input: "{{ x", wantInErr: "unclosed expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input, "sample.py")
			require.Error(t, err)

			if tt.wantKind != StmtUnknown {
				unmatched, ok := err.(*UnmatchedBlockError)
				require.True(t, ok, "expected UnmatchedBlockError, got %T: %v", err, err)
				assert.Equal(t, tt.wantKind, unmatched.BlockKind)
			}
			if tt.wantInErr != "" {
				assert.Contains(t, err.Error(), tt.wantInErr)
			}

			_, ok := err.(Error)
			assert.True(t, ok, "errors carry a position, got %T", err)
		})
	}
}
