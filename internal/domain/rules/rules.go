// Package rules holds the built-in rule catalog. Each rule lives in its
// own file and registers itself at init time; duplicate IDs panic at
// startup.
package rules

import "github.com/guardrails/guardrails/internal/domain/rule"

var builtin = rule.NewRegistry()

// Register adds a rule to the built-in registry.
func Register(r rule.Rule) {
	builtin.Register(r)
}

// Builtin returns the registered rules sorted by ID.
func Builtin() []rule.Rule {
	return builtin.All()
}

// Get returns a built-in rule by ID.
func Get(id string) (rule.Rule, bool) {
	return builtin.Get(id)
}
