package rules

import (
	"regexp"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

func init() {
	Register(rule.Rule{
		ID:          "entity-naming",
		Description: "domain entity classes are singular PascalCase",
		FilePattern: regexp.MustCompile(`(^|/)server/.*/domain/.*\.ts$`),
		Visit:       visitEntityNaming,
	})
}

// splitCache memoizes camelcase splits; class names repeat heavily across
// a workspace and the split is the expensive part of this rule.
var splitCache = map[string][]string{}

func nameWords(name string) []string {
	if words, ok := splitCache[name]; ok {
		return words
	}
	words := camelcase.Split(name)
	splitCache[name] = words
	return words
}

func visitEntityNaming(n *syntax.Node, ctx *rule.Context) {
	if n.Kind != syntax.KindClassDecl || n.Name == "" {
		return
	}
	if strings.Contains(n.Name, "_") {
		ctx.Report(n, "entity class "+n.Name+" must be PascalCase, not snake_case")
		return
	}
	words := nameWords(n.Name)
	if len(words) == 0 {
		return
	}
	first := words[0]
	if first[0] >= 'a' && first[0] <= 'z' {
		ctx.Report(n, "entity class "+n.Name+" must start with an uppercase letter")
	}
	last := strings.ToLower(words[len(words)-1])
	if strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") && !strings.HasSuffix(last, "us") {
		ctx.Report(n, "entity class "+n.Name+" should be singular")
	}
}
