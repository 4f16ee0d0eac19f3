package application

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/guardrails/guardrails/internal/domain"
)

// PolicyService lists cataloged checks and selects the policy documents
// that apply to a target file.
type PolicyService struct {
	scanner domain.PolicyScanner
}

func NewPolicyService(scanner domain.PolicyScanner) *PolicyService {
	return &PolicyService{scanner: scanner}
}

// List catalogs every workspace, layer and check under the policy root.
func (s *PolicyService) List(policyRoot string) ([]domain.WorkspacePolicies, error) {
	return s.scanner.Scan(policyRoot)
}

// conventions maps a target file's naming convention to policy doc names,
// most specific first.
var conventions = []struct {
	matches func(path string) bool
	doc     string
}{
	{func(p string) bool { return strings.HasSuffix(p, ".snap.test.tsx") }, "snapshot-tests"},
	{func(p string) bool { return strings.HasSuffix(p, ".test.tsx") }, "component-tests"},
	{func(p string) bool { return strings.HasSuffix(p, ".test.ts") }, "unit-tests"},
	{func(p string) bool { return strings.Contains(filepath.ToSlash(p), "/domain/") }, "domain-model"},
}

// SelectDocs returns the policy documents that apply to targetFile,
// always including the general document when present. Docs that do not
// exist on disk are silently skipped; the reviewer degrades to its
// generic prompt.
func (s *PolicyService) SelectDocs(policyRoot, targetFile string) []domain.PolicyDoc {
	names := []string{"general"}
	for _, c := range conventions {
		if c.matches(targetFile) {
			names = append(names, c.doc)
		}
	}

	var docs []domain.PolicyDoc
	for _, name := range names {
		if doc, ok := findPolicyDoc(policyRoot, name); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// findPolicyDoc locates <name>.policy.md anywhere under the policy root.
func findPolicyDoc(policyRoot, name string) (domain.PolicyDoc, bool) {
	var found domain.PolicyDoc
	ok := false

	filepath.WalkDir(policyRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || ok || d.IsDir() {
			return nil
		}
		if d.Name() != name+".policy.md" {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		found = domain.PolicyDoc{Name: name, Path: filepath.ToSlash(path), Content: string(data)}
		ok = true
		return filepath.SkipAll
	})

	return found, ok
}
