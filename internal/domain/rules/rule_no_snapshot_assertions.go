package rules

import (
	"regexp"
	"strings"

	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

func init() {
	Register(rule.Rule{
		ID:          "no-snapshot-in-component-test",
		Description: "snapshot assertions belong in *.snap.test.tsx files",
		FilePattern: regexp.MustCompile(`\.test\.tsx$`),
		Visit:       visitSnapshotInComponentTest,
	})
}

func visitSnapshotInComponentTest(n *syntax.Node, ctx *rule.Context) {
	if n.Kind != syntax.KindCallExpr {
		return
	}
	if strings.HasSuffix(ctx.Path, ".snap.test.tsx") {
		return
	}
	if strings.HasSuffix(n.Name, "toMatchSnapshot") || strings.HasSuffix(n.Name, "toMatchInlineSnapshot") {
		ctx.Report(n, "snapshot assertion in a component test; move it to a .snap.test.tsx file")
	}
}
