package application

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/guardrails/guardrails/internal/domain"
)

// tscLineRe matches "path/file.ts(12,5): error TS2345: message".
var tscLineRe = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\): error (TS\d+): (.+)$`)

func parseTypeCheck(output, workDir string) ([]domain.TypeIssue, error) {
	var issues []domain.TypeIssue
	for _, line := range strings.Split(output, "\n") {
		m := tscLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		issues = append(issues, domain.TypeIssue{
			File:    absolve(m[1], workDir),
			Line:    atoi(m[2]),
			Column:  atoi(m[3]),
			Code:    m[4],
			Message: m[5],
		})
	}
	return issues, nil
}

// eslintResult mirrors eslint's --format json output.
type eslintResult struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
	} `json:"messages"`
}

func parseESLint(output, workDir string) ([]domain.LintIssue, error) {
	start := strings.IndexByte(output, '[')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON array in lint output", domain.ErrParse)
	}

	var results []eslintResult
	if err := json.Unmarshal([]byte(output[start:]), &results); err != nil {
		return nil, fmt.Errorf("%w: lint output: %v", domain.ErrParse, err)
	}

	var issues []domain.LintIssue
	for _, r := range results {
		for _, m := range r.Messages {
			severity := domain.SeverityWarning
			if m.Severity == 2 {
				severity = domain.SeverityError
			}
			issues = append(issues, domain.LintIssue{
				File:     absolve(r.FilePath, workDir),
				Line:     m.Line,
				Column:   m.Column,
				RuleID:   m.RuleID,
				Message:  m.Message,
				Severity: severity,
			})
		}
	}
	return issues, nil
}

func parseTerraformFmt(output, workDir string) ([]domain.FormatIssue, error) {
	var issues []domain.FormatIssue
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, ".tf") {
			continue
		}
		issues = append(issues, domain.FormatIssue{File: absolve(line, workDir)})
	}
	return issues, nil
}

// tflintOutput mirrors tflint --format json.
type tflintOutput struct {
	Issues []struct {
		Rule struct {
			Name     string `json:"name"`
			Severity string `json:"severity"`
		} `json:"rule"`
		Message string `json:"message"`
		Range   struct {
			Filename string `json:"filename"`
			Start    struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"start"`
		} `json:"range"`
	} `json:"issues"`
}

func parseTFLint(output, workDir string) ([]domain.LintIssue, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in tflint output", domain.ErrParse)
	}

	var parsed tflintOutput
	if err := json.Unmarshal([]byte(output[start:]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: tflint output: %v", domain.ErrParse, err)
	}

	var issues []domain.LintIssue
	for _, i := range parsed.Issues {
		severity := domain.SeverityWarning
		if i.Rule.Severity == "error" {
			severity = domain.SeverityError
		}
		issues = append(issues, domain.LintIssue{
			File:     absolve(i.Range.Filename, workDir),
			Line:     i.Range.Start.Line,
			Column:   i.Range.Start.Column,
			RuleID:   i.Rule.Name,
			Message:  i.Message,
			Severity: severity,
		})
	}
	return issues, nil
}

// tfsecOutput mirrors tfsec --format json.
type tfsecOutput struct {
	Results []struct {
		RuleID      string `json:"rule_id"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
		Resolution  string `json:"resolution"`
		Location    struct {
			Filename  string `json:"filename"`
			StartLine int    `json:"start_line"`
		} `json:"location"`
	} `json:"results"`
}

func parseTFSec(output, workDir string) ([]domain.SecurityIssue, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in security output", domain.ErrParse)
	}

	var parsed tfsecOutput
	if err := json.Unmarshal([]byte(output[start:]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: security output: %v", domain.ErrParse, err)
	}

	var issues []domain.SecurityIssue
	for _, r := range parsed.Results {
		issues = append(issues, domain.SecurityIssue{
			ID:          r.RuleID,
			Severity:    strings.ToUpper(r.Severity),
			Description: r.Description,
			Resolution:  r.Resolution,
			File:        absolve(r.Location.Filename, workDir),
			Line:        r.Location.StartLine,
		})
	}
	// Highest tier first; stable within a tier.
	sort.SliceStable(issues, func(i, j int) bool {
		return domain.SecurityRank(issues[i].Severity) > domain.SecurityRank(issues[j].Severity)
	})
	return issues, nil
}

// knipOutput mirrors the dead-export detector's JSON payload.
type knipOutput struct {
	Files map[string]struct {
		Exports []struct {
			Name string `json:"name"`
			Line int    `json:"line"`
			Col  int    `json:"col"`
		} `json:"exports"`
	} `json:"files"`
}

// parseUnusedExports locates the JSON payload at the first '{' of the
// combined output; tool logs may precede it.
func parseUnusedExports(output, workDir string) ([]domain.UnusedExport, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in unused-export output", domain.ErrParse)
	}

	var parsed knipOutput
	if err := json.Unmarshal([]byte(output[start:]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: unused-export output: %v", domain.ErrParse, err)
	}

	var exports []domain.UnusedExport
	for file, entry := range parsed.Files {
		for _, e := range entry.Exports {
			exports = append(exports, domain.UnusedExport{
				Name:   e.Name,
				File:   absolve(file, workDir),
				Line:   e.Line,
				Column: e.Col,
			})
		}
	}
	sort.Slice(exports, func(i, j int) bool {
		if exports[i].File != exports[j].File {
			return exports[i].File < exports[j].File
		}
		return exports[i].Line < exports[j].Line
	})
	return exports, nil
}

// absolve makes a tool-reported path absolute relative to the tool's
// working directory.
func absolve(path, workDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

// inTargets reports whether file sits under any of the absolute target
// directories. An empty target list keeps everything.
func inTargets(file string, targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		prefix := strings.TrimSuffix(filepath.ToSlash(t), "/") + "/"
		if strings.HasPrefix(filepath.ToSlash(file)+"/", prefix) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
