package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/adapters/outbound/parser"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

func collect(tree *syntax.Tree, kind syntax.Kind) []*syntax.Node {
	var out []*syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
	})
	return out
}

func TestParseSource_Imports(t *testing.T) {
	src := "import { api } from '@shared/api'\nimport React from \"react\"\n"
	tree := parser.New().ParseSource("web/app.tsx", src)

	imports := collect(tree, syntax.KindImportDecl)
	require.Len(t, imports, 2)
	assert.Equal(t, 1, imports[0].Line)
	assert.Equal(t, 2, imports[1].Line)

	require.NotEmpty(t, imports[0].Children)
	spec := imports[0].Children[0]
	assert.Equal(t, syntax.KindStringLit, spec.Kind)
	assert.Equal(t, "'@shared/api'", spec.Text)
}

func TestParseSource_ClassWithMethods(t *testing.T) {
	src := `export class Invoice {
  private total: number

  addLine(amount: number): void {
    this.total += amount
  }
}
`
	tree := parser.New().ParseSource("server/billing/domain/invoice.ts", src)

	classes := collect(tree, syntax.KindClassDecl)
	require.Len(t, classes, 1)
	assert.Equal(t, "Invoice", classes[0].Name)
	assert.Equal(t, 1, classes[0].Line)

	methods := collect(tree, syntax.KindMethodDecl)
	require.Len(t, methods, 1)
	assert.Equal(t, "addLine", methods[0].Name)
	assert.Equal(t, 4, methods[0].Line)
}

func TestParseSource_CallExpressions(t *testing.T) {
	src := `function handler() {
  console.log('starting')
  logger.info('ready')
}
`
	tree := parser.New().ParseSource("server/handler.ts", src)

	calls := collect(tree, syntax.KindCallExpr)
	require.Len(t, calls, 2)
	assert.Equal(t, "console.log", calls[0].Name)
	assert.Equal(t, 2, calls[0].Line)
	assert.Equal(t, "logger.info", calls[1].Name)

	// The first string argument rides along as a child.
	var strArg *syntax.Node
	for _, c := range calls[0].Children {
		if c.Kind == syntax.KindStringLit {
			strArg = c
		}
	}
	require.NotNil(t, strArg)
	assert.Equal(t, "'starting'", strArg.Text)
}

func TestParseSource_MaskingIgnoresLiteralsAndComments(t *testing.T) {
	src := `// console.log('in a comment')
const msg = "console.log('in a string')"
/* console.log('in a block comment') */
`
	tree := parser.New().ParseSource("server/app.ts", src)

	for _, call := range collect(tree, syntax.KindCallExpr) {
		assert.NotEqual(t, "console.log", call.Name,
			"calls inside comments and strings must not surface")
	}
}

func TestParseSource_KeywordsAreNotCalls(t *testing.T) {
	src := `function check(x: number) {
  if (x > 0) {
    return x
  }
  for (let i = 0; i < x; i++) {
  }
  while (x > 0) {
  }
}
`
	tree := parser.New().ParseSource("server/check.ts", src)

	for _, call := range collect(tree, syntax.KindCallExpr) {
		assert.NotContains(t, []string{"if", "for", "while", "check"}, call.Name)
	}
}

func TestParseSource_InterfaceAndArrowFunc(t *testing.T) {
	src := `export interface PaymentPort {
  charge(amount: number): Promise<void>
}

export const toCents = (amount: number) => Math.round(amount * 100)
`
	tree := parser.New().ParseSource("server/ports.ts", src)

	ifaces := collect(tree, syntax.KindInterfaceDecl)
	require.Len(t, ifaces, 1)
	assert.Equal(t, "PaymentPort", ifaces[0].Name)

	funcs := collect(tree, syntax.KindFuncDecl)
	require.Len(t, funcs, 1)
	assert.Equal(t, "toCents", funcs[0].Name)
	assert.Equal(t, 5, funcs[0].Line)
}

func TestParseSource_Deterministic(t *testing.T) {
	src := `import { a } from './a'
export class Widget {
  render() {
    draw('frame')
  }
}
`
	p := parser.New()
	first := p.ParseSource("web/widget.tsx", src)
	second := p.ParseSource("web/widget.tsx", src)
	assert.Equal(t, first, second)
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := parser.New().ParseFile("/does/not/exist.ts")
	require.Error(t, err)
}
