package domain

// Severity levels used across violations and analysis issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Violation is one policy infraction reported by a rule, tied to a
// 1-based source position.
type Violation struct {
	RuleID   string `json:"rule_id"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// RuleError records a rule whose visitor panicked while traversing a file.
// It is a tooling fault, not a violation; other rules and files continue.
type RuleError struct {
	RuleID  string `json:"rule_id"`
	File    string `json:"file"`
	Message string `json:"message"`
}

// CheckReport is the result of running the built-in rules over a tree.
type CheckReport struct {
	Root       string      `json:"root"`
	Files      int         `json:"files"`
	Violations []Violation `json:"violations"`
	RuleErrors []RuleError `json:"rule_errors,omitempty"`
}

// CheckInfo is rule metadata extracted from a rule-definition file without
// executing the rule.
type CheckInfo struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	Description string `json:"description"`
}

// LayerPolicies groups the checks of one layer inside a workspace.
type LayerPolicies struct {
	Layer  string      `json:"layer"`
	Checks []CheckInfo `json:"checks"`
}

// WorkspacePolicies groups the layers of one governed workspace.
type WorkspacePolicies struct {
	Workspace string          `json:"workspace"`
	Layers    []LayerPolicies `json:"layers"`
}

// AnalysisType selects which external tool an analysis run drives.
type AnalysisType string

const (
	AnalysisTypeCheck     AnalysisType = "typecheck"
	AnalysisLint          AnalysisType = "lint"
	AnalysisInfraFormat   AnalysisType = "infra-format"
	AnalysisInfraLint     AnalysisType = "infra-lint"
	AnalysisInfraSecurity AnalysisType = "infra-security"
)

// AnalysisTypes lists every valid analysis type, for input validation.
func AnalysisTypes() []AnalysisType {
	return []AnalysisType{
		AnalysisTypeCheck,
		AnalysisLint,
		AnalysisInfraFormat,
		AnalysisInfraLint,
		AnalysisInfraSecurity,
	}
}

// TypeIssue is one compiler diagnostic from the type-check run.
type TypeIssue struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LintIssue is one normalized lint diagnostic.
type LintIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	RuleID   string `json:"rule_id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// FormatIssue names one file the infra formatter would rewrite.
type FormatIssue struct {
	File string `json:"file"`
}

// Security severity tiers, highest first.
const (
	SecCritical = "CRITICAL"
	SecHigh     = "HIGH"
	SecMedium   = "MEDIUM"
	SecLow      = "LOW"
)

// SecurityRank orders security severities for sorting; unknown tiers sink.
func SecurityRank(severity string) int {
	switch severity {
	case SecCritical:
		return 4
	case SecHigh:
		return 3
	case SecMedium:
		return 2
	case SecLow:
		return 1
	}
	return 0
}

// SecurityIssue is one finding from the infra security scanner.
type SecurityIssue struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Resolution  string `json:"resolution,omitempty"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// AnalysisRequest carries the validated input of one analysis run.
type AnalysisRequest struct {
	Workspace   string       `json:"workspace"`
	Type        AnalysisType `json:"analysis_type"`
	TargetDirs  []string     `json:"target_directories,omitempty"`
	ProjectRoot string       `json:"project_root"`
}

// AnalysisReport is the normalized result of one analysis run. Exactly one
// of the issue slices is populated, matching Type.
type AnalysisReport struct {
	Type           AnalysisType    `json:"analysis_type"`
	Success        bool            `json:"success"`
	TypeIssues     []TypeIssue     `json:"type_issues,omitempty"`
	LintIssues     []LintIssue     `json:"lint_issues,omitempty"`
	FormatIssues   []FormatIssue   `json:"format_issues,omitempty"`
	SecurityIssues []SecurityIssue `json:"security_issues,omitempty"`
	RawOutput      string          `json:"-"`
	Error          string          `json:"error,omitempty"`
}

// IssueCount returns the number of issues of the report's own type.
func (r *AnalysisReport) IssueCount() int {
	return len(r.TypeIssues) + len(r.LintIssues) + len(r.FormatIssues) + len(r.SecurityIssues)
}

// UnusedExport is one dead export found by the unused-export detector.
type UnusedExport struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"col"`
}

// UnusedReport is the result of one unused-export run.
type UnusedReport struct {
	Workspace string         `json:"workspace"`
	Success   bool           `json:"success"`
	Exports   []UnusedExport `json:"exports,omitempty"`
	RawOutput string         `json:"-"`
	Error     string         `json:"error,omitempty"`
}

// PolicyDoc is a narrative policy document consumed only by the
// qualitative reviewer, never machine-checked.
type PolicyDoc struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"-"`
}

// ReviewResult is the outcome of one file's qualitative review.
type ReviewResult struct {
	FilePath        string   `json:"file_path"`
	AppliedPolicies []string `json:"applied_policies,omitempty"`
	ReviewText      string   `json:"review_text,omitempty"`
	Success         bool     `json:"success"`
	Error           string   `json:"error,omitempty"`
}

// ReviewSummary aggregates a batch of review results.
type ReviewSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Summarize counts successes and failures in a batch.
func Summarize(results []ReviewResult) ReviewSummary {
	s := ReviewSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

// RunRecord is one persisted history entry for an analysis run.
type RunRecord struct {
	Timestamp  string       `json:"timestamp"`
	CommitHash string       `json:"commit_hash,omitempty"`
	Type       AnalysisType `json:"analysis_type"`
	Issues     int          `json:"issues"`
	Success    bool         `json:"success"`
}
