package rule_test

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

// stubParser serves canned trees and records which files were parsed.
type stubParser struct {
	trees  map[string]*syntax.Tree
	parsed []string
}

func (p *stubParser) ParseFile(path string) (*syntax.Tree, error) {
	p.parsed = append(p.parsed, path)
	tree, ok := p.trees[path]
	if !ok {
		return nil, fmt.Errorf("unreadable: %s", path)
	}
	return tree, nil
}

func (p *stubParser) ParseSource(path, source string) *syntax.Tree {
	return &syntax.Tree{Path: path, Source: source, Root: &syntax.Node{Kind: syntax.KindSourceFile}}
}

func treeWithCall(path, callee string, line int) *syntax.Tree {
	return &syntax.Tree{
		Path: path,
		Root: &syntax.Node{
			Kind: syntax.KindSourceFile,
			Children: []*syntax.Node{
				{Kind: syntax.KindCallExpr, Name: callee, Line: line, Col: 3},
			},
		},
	}
}

func flagCallsRule(id, pattern string) rule.Rule {
	return rule.Rule{
		ID:          id,
		FilePattern: regexp.MustCompile(pattern),
		Visit: func(n *syntax.Node, ctx *rule.Context) {
			if n.Kind == syntax.KindCallExpr {
				ctx.Report(n, "call to "+n.Name)
			}
		},
	}
}

func TestEngine_SkipsFilesNoRuleMatches(t *testing.T) {
	parser := &stubParser{trees: map[string]*syntax.Tree{}}
	engine := rule.NewEngine(parser)

	report := engine.Run(
		[]rule.Rule{flagCallsRule("no-foo", `\.ts$`)},
		[]string{"readme.md", "diagram.svg"},
	)

	assert.Empty(t, parser.parsed, "non-matching files must not be parsed")
	assert.Empty(t, report.Violations)
	assert.Empty(t, report.RuleErrors)
	assert.Equal(t, 2, report.Files)
}

func TestEngine_ParsesMatchedFileOnce(t *testing.T) {
	parser := &stubParser{trees: map[string]*syntax.Tree{
		"src/a.ts": treeWithCall("src/a.ts", "foo", 1),
	}}
	engine := rule.NewEngine(parser)

	report := engine.Run(
		[]rule.Rule{
			flagCallsRule("rule-one", `\.ts$`),
			flagCallsRule("rule-two", `\.ts$`),
		},
		[]string{"src/a.ts"},
	)

	assert.Equal(t, []string{"src/a.ts"}, parser.parsed)
	assert.Len(t, report.Violations, 2)
}

func TestEngine_ParseFailureIsIsolated(t *testing.T) {
	parser := &stubParser{trees: map[string]*syntax.Tree{
		"src/good.ts": treeWithCall("src/good.ts", "foo", 4),
	}}
	engine := rule.NewEngine(parser)

	report := engine.Run(
		[]rule.Rule{flagCallsRule("no-foo", `\.ts$`)},
		[]string{"src/bad.ts", "src/good.ts"},
	)

	require.Len(t, report.RuleErrors, 1)
	assert.Equal(t, "src/bad.ts", report.RuleErrors[0].File)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "src/good.ts", report.Violations[0].File)
}

func TestEngine_VisitorPanicBecomesRuleError(t *testing.T) {
	parser := &stubParser{trees: map[string]*syntax.Tree{
		"src/a.ts": treeWithCall("src/a.ts", "foo", 2),
	}}
	engine := rule.NewEngine(parser)

	panicky := rule.Rule{
		ID:          "panics",
		FilePattern: regexp.MustCompile(`\.ts$`),
		Visit: func(n *syntax.Node, ctx *rule.Context) {
			panic("boom")
		},
	}

	report := engine.Run(
		[]rule.Rule{panicky, flagCallsRule("no-foo", `\.ts$`)},
		[]string{"src/a.ts"},
	)

	require.Len(t, report.RuleErrors, 1)
	assert.Equal(t, "panics", report.RuleErrors[0].RuleID)
	assert.Contains(t, report.RuleErrors[0].Message, "boom")
	// The healthy rule still ran on the same file.
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "no-foo", report.Violations[0].RuleID)
}

func TestEngine_DeterministicOrdering(t *testing.T) {
	trees := map[string]*syntax.Tree{
		"src/b.ts": treeWithCall("src/b.ts", "foo", 9),
		"src/a.ts": {
			Path: "src/a.ts",
			Root: &syntax.Node{
				Kind: syntax.KindSourceFile,
				Children: []*syntax.Node{
					{Kind: syntax.KindCallExpr, Name: "foo", Line: 5, Col: 1},
					{Kind: syntax.KindCallExpr, Name: "foo", Line: 2, Col: 1},
				},
			},
		},
	}
	engine := rule.NewEngine(&stubParser{trees: trees})
	rules := []rule.Rule{flagCallsRule("no-foo", `\.ts$`)}

	first := engine.Run(rules, []string{"src/b.ts", "src/a.ts"})
	second := engine.Run(rules, []string{"src/b.ts", "src/a.ts"})

	require.Len(t, first.Violations, 3)
	assert.Equal(t, "src/a.ts", first.Violations[0].File)
	assert.Equal(t, 2, first.Violations[0].Line)
	assert.Equal(t, "src/a.ts", first.Violations[1].File)
	assert.Equal(t, 5, first.Violations[1].Line)
	assert.Equal(t, "src/b.ts", first.Violations[2].File)

	// Same input, same output.
	assert.Equal(t, first.Violations, second.Violations)
}

func TestEngine_DefaultSeverityIsError(t *testing.T) {
	parser := &stubParser{trees: map[string]*syntax.Tree{
		"src/a.ts": treeWithCall("src/a.ts", "foo", 1),
	}}
	engine := rule.NewEngine(parser)

	report := engine.Run([]rule.Rule{flagCallsRule("no-foo", `\.ts$`)}, []string{"src/a.ts"})

	require.Len(t, report.Violations, 1)
	assert.Equal(t, domain.SeverityError, report.Violations[0].Severity)
}
