// Package scanner catalogs rule-definition files under a governed policy
// root laid out as <root>/<workspace>/<layer>/<rule files>.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/guardrails/guardrails/internal/domain"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"coverage":     true,
}

const whatTag = "@what"

// PolicyScanner implements domain.PolicyScanner by walking the filesystem.
// Every Scan recomputes from disk; results are an immutable snapshot.
type PolicyScanner struct{}

func New() *PolicyScanner {
	return &PolicyScanner{}
}

// Scan walks root and returns each workspace with its layers and checks.
// Empty workspaces and layers are pruned. A missing root yields an empty
// list, not an error.
func (s *PolicyScanner) Scan(root string) ([]domain.WorkspacePolicies, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []domain.WorkspacePolicies
	for _, ws := range sortedDirs(entries) {
		layers, err := scanWorkspace(filepath.Join(root, ws))
		if err != nil {
			return nil, err
		}
		if len(layers) > 0 {
			out = append(out, domain.WorkspacePolicies{Workspace: ws, Layers: layers})
		}
	}
	return out, nil
}

func scanWorkspace(dir string) ([]domain.LayerPolicies, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var layers []domain.LayerPolicies
	for _, layer := range sortedDirs(entries) {
		checks, err := scanLayer(filepath.Join(dir, layer))
		if err != nil {
			return nil, err
		}
		if len(checks) > 0 {
			layers = append(layers, domain.LayerPolicies{Layer: layer, Checks: checks})
		}
	}
	return layers, nil
}

func scanLayer(dir string) ([]domain.CheckInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var checks []domain.CheckInfo
	for _, e := range entries {
		if e.IsDir() || !isRuleFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // unreadable rule file is skipped, not fatal
		}
		checks = append(checks, domain.CheckInfo{
			ID:          strings.TrimSuffix(e.Name(), ".check.ts"),
			File:        filepath.ToSlash(path),
			Description: extractWhat(string(data)),
		})
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID < checks[j].ID })
	return checks, nil
}

// isRuleFile keeps *.check.ts and drops barrels and declaration files.
func isRuleFile(name string) bool {
	if !strings.HasSuffix(name, ".check.ts") {
		return false
	}
	if strings.HasPrefix(name, "index.") || strings.HasSuffix(name, ".d.ts") {
		return false
	}
	return true
}

// extractWhat pulls the one-line description after the @what tag from the
// file's leading comment block. Only the tag's own line is kept.
func extractWhat(source string) string {
	idx := strings.Index(source, whatTag)
	if idx < 0 {
		return ""
	}
	rest := source[idx+len(whatTag):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.TrimSpace(rest)
	return strings.TrimSpace(strings.TrimSuffix(rest, "*/"))
}

func sortedDirs(entries []os.DirEntry) []string {
	var names []string
	for _, e := range entries {
		if e.IsDir() && !skipDirs[e.Name()] && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
