package rules

import (
	"regexp"
	"strings"

	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

func init() {
	Register(rule.Rule{
		ID:          "no-console-in-domain",
		Description: "server code must use the structured logger, not console",
		FilePattern: regexp.MustCompile(`(^|/)server/.*\.ts$`),
		Visit:       visitNoConsole,
	})
}

func visitNoConsole(n *syntax.Node, ctx *rule.Context) {
	if n.Kind != syntax.KindCallExpr {
		return
	}
	if strings.HasSuffix(ctx.Path, ".test.ts") {
		return
	}
	if strings.HasPrefix(n.Name, "console.") {
		ctx.Report(n, "use the structured logger instead of "+n.Name)
	}
}
