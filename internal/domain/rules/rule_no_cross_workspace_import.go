package rules

import (
	"regexp"
	"strings"

	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

func init() {
	Register(rule.Rule{
		ID:          "no-cross-workspace-import",
		Description: "web code must not reach into server internals",
		FilePattern: regexp.MustCompile(`(^|/)web/.*\.tsx?$`),
		Visit:       visitCrossWorkspaceImport,
	})
}

func visitCrossWorkspaceImport(n *syntax.Node, ctx *rule.Context) {
	if n.Kind != syntax.KindImportDecl {
		return
	}
	spec := importSpecifier(n)
	if spec == "" {
		return
	}
	if strings.Contains(spec, "../server/") || strings.HasPrefix(spec, "@server/") {
		ctx.Report(n, "web must not import server internals ("+spec+"); use the shared API contract")
	}
}

// importSpecifier returns the module path of an import declaration, taken
// from its first string literal child.
func importSpecifier(n *syntax.Node) string {
	for _, c := range n.Children {
		if c.Kind == syntax.KindStringLit {
			return strings.Trim(c.Text, "'\"")
		}
	}
	return ""
}
