package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
)

// fakeRunner returns canned tool output and records the invocation.
type fakeRunner struct {
	out     *domain.ToolOutput
	err     error
	gotDir  string
	gotArgv []string
}

func (f *fakeRunner) Run(ctx context.Context, dir string, argv []string) (*domain.ToolOutput, error) {
	f.gotDir = dir
	f.gotArgv = argv
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func typecheckRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Workspace:   "server",
		Type:        domain.AnalysisTypeCheck,
		ProjectRoot: "/proj",
	}
}

func TestAnalysis_ValidateRejectsBeforeIO(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	cases := []struct {
		name string
		req  domain.AnalysisRequest
	}{
		{"missing project root", domain.AnalysisRequest{Workspace: "server", Type: domain.AnalysisTypeCheck}},
		{"unknown workspace", domain.AnalysisRequest{Workspace: "mobile", Type: domain.AnalysisTypeCheck, ProjectRoot: "/proj"}},
		{"unknown type", domain.AnalysisRequest{Workspace: "server", Type: "spellcheck", ProjectRoot: "/proj"}},
		{"relative target", domain.AnalysisRequest{Workspace: "server", Type: domain.AnalysisTypeCheck, ProjectRoot: "/proj", TargetDirs: []string{"src"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Run(context.Background(), tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, runner.gotArgv, "tool must not run on invalid input")
		})
	}
}

func TestAnalysis_TypeCheckIssues(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: "src/billing.ts(12,5): error TS2345: wrong argument type\n" +
			"src/auth.ts(3,1): error TS2304: cannot find name 'session'\n",
		ExitCode: 2,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), typecheckRequest())
	require.NoError(t, err)

	assert.Equal(t, "/proj/server", runner.gotDir)
	assert.False(t, report.Success)
	require.Len(t, report.TypeIssues, 2)
	assert.Equal(t, "/proj/server/src/billing.ts", report.TypeIssues[0].File)
	assert.Equal(t, 12, report.TypeIssues[0].Line)
	assert.Equal(t, 5, report.TypeIssues[0].Column)
	assert.Equal(t, "TS2345", report.TypeIssues[0].Code)
}

func TestAnalysis_TypeCheckClean(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{Stdout: "\n"}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), typecheckRequest())
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.TypeIssues)
}

func TestAnalysis_LintWarningsDoNotBlock(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `[{"filePath":"/proj/server/src/a.ts","messages":[
			{"ruleId":"no-unused-vars","severity":1,"message":"x is unused","line":4,"column":7}
		]}]`,
		ExitCode: 0,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := typecheckRequest()
	req.Type = domain.AnalysisLint
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, report.Success, "warnings alone must not block")
	require.Len(t, report.LintIssues, 1)
	assert.Equal(t, domain.SeverityWarning, report.LintIssues[0].Severity)
}

func TestAnalysis_LintErrorsBlock(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `[{"filePath":"/proj/server/src/a.ts","messages":[
			{"ruleId":"no-undef","severity":2,"message":"y is not defined","line":9,"column":2},
			{"ruleId":"no-unused-vars","severity":1,"message":"x is unused","line":4,"column":7}
		]}]`,
		ExitCode: 1,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := typecheckRequest()
	req.Type = domain.AnalysisLint
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, report.Success)
	require.Len(t, report.LintIssues, 2)
	assert.Equal(t, domain.SeverityError, report.LintIssues[0].Severity)
}

func TestAnalysis_LintLogsBeforeJSON(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: "npm WARN deprecated something\n[]",
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := typecheckRequest()
	req.Type = domain.AnalysisLint
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Error)
}

func TestAnalysis_MalformedOutputIsCaptured(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{Stdout: "[not json at all"}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := typecheckRequest()
	req.Type = domain.AnalysisLint
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err, "parse failures are captured, not returned")
	assert.False(t, report.Success)
	assert.Contains(t, report.Error, "lint output")
}

func TestAnalysis_ToolFailureIsCaptured(t *testing.T) {
	runner := &fakeRunner{err: domain.ErrToolInvocation}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), typecheckRequest())
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.NotEmpty(t, report.Error)
}

func TestAnalysis_SilentNonZeroExitIsParseError(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{ExitCode: 127}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), typecheckRequest())
	require.NoError(t, err)
	assert.Contains(t, report.Error, "exited 127")
}

func TestAnalysis_TargetDirectoryFiltering(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: "src/billing/invoice.ts(1,1): error TS1005: ';' expected\n" +
			"src/auth/session.ts(2,2): error TS1005: ';' expected\n",
		ExitCode: 2,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := typecheckRequest()
	req.TargetDirs = []string{"/proj/server/src/billing"}
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, report.TypeIssues, 1)
	assert.Equal(t, "/proj/server/src/billing/invoice.ts", report.TypeIssues[0].File)
}

func TestAnalysis_InfraFormat(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout:   "modules/vpc/main.tf\nmodules/rds/variables.tf\n",
		ExitCode: 3,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := domain.AnalysisRequest{
		Workspace:   "infra",
		Type:        domain.AnalysisInfraFormat,
		ProjectRoot: "/proj",
	}
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, report.Success)
	require.Len(t, report.FormatIssues, 2)
	assert.Equal(t, "/proj/infra/modules/vpc/main.tf", report.FormatIssues[0].File)
}

func TestAnalysis_InfraLintSeverityMapping(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `{"issues":[
			{"rule":{"name":"terraform_deprecated_syntax","severity":"error"},"message":"deprecated","range":{"filename":"main.tf","start":{"line":5,"column":1}}},
			{"rule":{"name":"terraform_naming","severity":"warning"},"message":"name style","range":{"filename":"vars.tf","start":{"line":2,"column":1}}}
		]}`,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := domain.AnalysisRequest{
		Workspace:   "infra",
		Type:        domain.AnalysisInfraLint,
		ProjectRoot: "/proj",
	}
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, report.Success, "one error blocks")
	require.Len(t, report.LintIssues, 2)
	assert.Equal(t, domain.SeverityError, report.LintIssues[0].Severity)
	assert.Equal(t, domain.SeverityWarning, report.LintIssues[1].Severity)
}

func TestAnalysis_SecurityAnyFindingBlocks(t *testing.T) {
	runner := &fakeRunner{out: &domain.ToolOutput{
		Stdout: `{"results":[
			{"rule_id":"aws-s3-encryption","severity":"low","description":"bucket unencrypted","resolution":"enable SSE","location":{"filename":"s3.tf","start_line":3}},
			{"rule_id":"aws-iam-wildcard","severity":"critical","description":"wildcard policy","resolution":"scope the policy","location":{"filename":"iam.tf","start_line":9}}
		]}`,
	}}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	req := domain.AnalysisRequest{
		Workspace:   "infra",
		Type:        domain.AnalysisInfraSecurity,
		ProjectRoot: "/proj",
	}
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, report.Success, "a low-tier finding still blocks")
	require.Len(t, report.SecurityIssues, 2)
	// Highest tier first.
	assert.Equal(t, domain.SecCritical, report.SecurityIssues[0].Severity)
	assert.Equal(t, domain.SecLow, report.SecurityIssues[1].Severity)
}

func TestAnalysis_RunnerErrorTypeNotLeaked(t *testing.T) {
	runner := &fakeRunner{err: errors.New("spawn failure")}
	svc := application.NewAnalysisService(runner, domain.DefaultConfig())

	report, err := svc.Run(context.Background(), typecheckRequest())
	require.NoError(t, err)
	assert.Equal(t, "spawn failure", report.Error)
}
