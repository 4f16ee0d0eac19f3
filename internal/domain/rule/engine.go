package rule

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/syntax"
)

// Engine dispatches rules over source files. A file whose path matches no
// rule is never parsed; a matching file is parsed once and shared by every
// rule that applies to it.
type Engine struct {
	parser domain.CodeParser
}

func NewEngine(parser domain.CodeParser) *Engine {
	return &Engine{parser: parser}
}

// Run checks every file against every rule and returns the aggregate
// report. Violations are sorted by file, line, column and rule ID so that
// identical inputs always yield identical output. A panicking visitor is
// isolated to that rule and file.
func (e *Engine) Run(rules []Rule, files []string) *domain.CheckReport {
	report := &domain.CheckReport{Files: len(files)}

	for _, file := range files {
		path := filepath.ToSlash(file)

		var matched []Rule
		for _, r := range rules {
			if r.Matches(path) {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			continue
		}

		tree, err := e.parser.ParseFile(file)
		if err == nil {
			tree.Path = path
		}
		if err != nil {
			report.RuleErrors = append(report.RuleErrors, domain.RuleError{
				File:    path,
				Message: fmt.Sprintf("parse failed: %v", err),
			})
			continue
		}

		for _, r := range matched {
			violations, ruleErr := runRule(r, tree)
			report.Violations = append(report.Violations, violations...)
			if ruleErr != nil {
				report.RuleErrors = append(report.RuleErrors, *ruleErr)
			}
		}
	}

	sort.Slice(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})

	return report
}

// runRule traverses one tree with one rule, converting a visitor panic
// into a RuleError instead of aborting the batch.
func runRule(r Rule, tree *syntax.Tree) (violations []domain.Violation, ruleErr *domain.RuleError) {
	severity := r.Severity
	if severity == "" {
		severity = domain.SeverityError
	}
	ctx := &Context{
		Path:     tree.Path,
		Source:   tree.Source,
		ruleID:   r.ID,
		severity: severity,
	}

	defer func() {
		if rec := recover(); rec != nil {
			violations = ctx.out
			ruleErr = &domain.RuleError{
				RuleID:  r.ID,
				File:    tree.Path,
				Message: fmt.Sprintf("visitor panicked: %v", rec),
			}
		}
	}()

	syntax.Walk(tree.Root, func(n *syntax.Node) {
		r.Visit(n, ctx)
	})

	return ctx.out, nil
}
