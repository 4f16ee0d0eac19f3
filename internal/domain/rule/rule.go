package rule

import (
	"regexp"

	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

// Rule is a named, file-pattern-scoped visitor over syntax trees. Visit is
// invoked for every node of a matching file in depth-first document order
// and must be stateless across invocations; it reports violations through
// the context and never mutates sources.
type Rule struct {
	ID          string
	Description string
	FilePattern *regexp.Regexp
	Severity    string // defaults to domain.SeverityError when empty
	Visit       func(n *syntax.Node, ctx *Context)
}

// Matches reports whether the rule applies to the given slash path.
func (r Rule) Matches(path string) bool {
	return r.FilePattern != nil && r.FilePattern.MatchString(path)
}

// Context carries per-file metadata into a rule's visitor and collects its
// violations. Source is the full file text, enabling textual heuristics
// alongside structural checks.
type Context struct {
	Path   string
	Source string

	ruleID   string
	severity string
	out      []domain.Violation
}

// Report records one violation at the node's position.
func (c *Context) Report(n *syntax.Node, message string) {
	c.out = append(c.out, domain.Violation{
		RuleID:   c.ruleID,
		File:     c.Path,
		Line:     n.Line,
		Column:   n.Col,
		Message:  message,
		Severity: c.severity,
	})
}
