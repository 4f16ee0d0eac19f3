package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/adapters/outbound/parser"
	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/rules"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newCheckService() *application.CheckService {
	return application.NewCheckService(
		rule.NewEngine(parser.New()), rules.Builtin(), domain.DefaultConfig())
}

func TestCheck_FindsViolationsAcrossWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "server/billing/invoice.ts",
		"export function pay() {\n  console.log('paying')\n}\n")
	writeSource(t, root, "web/pages/billing.tsx",
		"import { Invoice } from '../server/billing/invoice'\n")

	report, err := newCheckService().Check(root, "")
	require.NoError(t, err)

	ids := make(map[string]int)
	for _, v := range report.Violations {
		ids[v.RuleID]++
	}
	assert.Equal(t, 1, ids["no-console-in-domain"])
	assert.Equal(t, 1, ids["no-cross-workspace-import"])
	assert.Empty(t, report.RuleErrors)
	assert.Equal(t, root, report.Root)
}

func TestCheck_WorkspaceScoping(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "server/app.ts", "console.log('x')\n")
	writeSource(t, root, "web/app.tsx", "import { x } from '@server/auth'\n")

	report, err := newCheckService().Check(root, "web")
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, "no-cross-workspace-import", report.Violations[0].RuleID)
}

func TestCheck_UnknownWorkspace(t *testing.T) {
	_, err := newCheckService().Check(t.TempDir(), "mobile")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheck_MissingWorkspaceDirIsEmpty(t *testing.T) {
	report, err := newCheckService().Check(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
	assert.Empty(t, report.RuleErrors)
}

func TestCheck_SkipsVendorDirs(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "server/node_modules/pkg/index.ts", "console.log('vendored')\n")

	report, err := newCheckService().Check(root, "")
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
}

func TestCheck_RunTwiceSameResult(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "server/billing/domain/entity.ts",
		"export class invoice_records {\n}\n")

	svc := newCheckService()
	first, err := svc.Check(root, "")
	require.NoError(t, err)
	second, err := svc.Check(root, "")
	require.NoError(t, err)

	assert.Equal(t, first.Violations, second.Violations)
	assert.NotEmpty(t, first.Violations)
}
