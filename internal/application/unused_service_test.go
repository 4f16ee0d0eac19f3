package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
)

func TestUnused_ReportsExports(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `{"files":{
			"src/util.ts":{"exports":[{"name":"unusedHelper","line":10,"col":14}]},
			"src/api.ts":{"exports":[{"name":"legacyFetch","line":3,"col":1}]}
		}}`,
	}}
	svc := application.NewUnusedExportService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), "/proj", "web", nil)
	require.NoError(t, err)

	assert.Equal(t, "/proj/web", runner.gotDir)
	assert.False(t, report.Success)
	require.Len(t, report.Exports, 2)
	// Sorted by file, then line.
	assert.Equal(t, "legacyFetch", report.Exports[0].Name)
	assert.Equal(t, "/proj/web/src/api.ts", report.Exports[0].File)
	assert.Equal(t, "unusedHelper", report.Exports[1].Name)
}

func TestUnused_LogsBeforeJSON(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: "Analyzing workspace...\nDone in 2.3s\n{\"files\":{}}",
	}}
	svc := application.NewUnusedExportService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), "/proj", "web", nil)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Error)
}

func TestUnused_TargetFilteringDrivesSuccess(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `{"files":{"src/util.ts":{"exports":[{"name":"helper","line":1,"col":1}]}}}`,
	}}
	svc := application.NewUnusedExportService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), "/proj", "web", []string{"/proj/web/src/components"})
	require.NoError(t, err)
	assert.True(t, report.Success, "no exports remain after filtering")
	assert.Empty(t, report.Exports)
}

func TestUnused_UnknownWorkspace(t *testing.T) {
	svc := application.NewUnusedExportService(&fakeRunner{}, domain.DefaultConfig())
	_, err := svc.Run(context.Background(), "/proj", "mobile", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnused_NoJSONIsCaptured(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{Stdout: "command not found: knip\n", ExitCode: 127}}
	svc := application.NewUnusedExportService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), "/proj", "web", nil)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.NotEmpty(t, report.Error)
}
