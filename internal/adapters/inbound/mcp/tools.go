package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/guardrails/guardrails/internal/adapters/outbound/config"
	"github.com/guardrails/guardrails/internal/adapters/outbound/execrunner"
	"github.com/guardrails/guardrails/internal/adapters/outbound/llm"
	"github.com/guardrails/guardrails/internal/adapters/outbound/parser"
	"github.com/guardrails/guardrails/internal/adapters/outbound/scanner"
	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/rules"
)

// registerTools registers all Guardrails MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. guardrails_list_policies
	s.AddTool(
		mcplib.NewTool("guardrails_list_policies",
			mcplib.WithDescription("Returns the policy catalog grouped by workspace and layer as JSON"),
		),
		handleListPolicies(projectPath),
	)

	// 2. guardrails_check
	s.AddTool(
		mcplib.NewTool("guardrails_check",
			mcplib.WithDescription("Run the built-in policy rules and return violations with file positions"),
			mcplib.WithString("workspace",
				mcplib.Description("Limit the check to one workspace"),
			),
		),
		handleCheck(projectPath),
	)

	// 3. guardrails_analyze
	s.AddTool(
		mcplib.NewTool("guardrails_analyze",
			mcplib.WithDescription("Run a static or infrastructure analysis tool and return normalized findings"),
			mcplib.WithString("analysis_type",
				mcplib.Required(),
				mcplib.Description("One of: typecheck, lint, infra-format, infra-lint, infra-security"),
			),
			mcplib.WithString("workspace",
				mcplib.Required(),
				mcplib.Description("Workspace to analyze"),
			),
			mcplib.WithString("target_directories",
				mcplib.Description("Comma-separated absolute directories to filter findings to"),
			),
		),
		handleAnalyze(projectPath),
	)

	// 4. guardrails_unused_exports
	s.AddTool(
		mcplib.NewTool("guardrails_unused_exports",
			mcplib.WithDescription("Find exported symbols nothing imports in a workspace"),
			mcplib.WithString("workspace",
				mcplib.Required(),
				mcplib.Description("Workspace to analyze"),
			),
			mcplib.WithString("target_directories",
				mcplib.Description("Comma-separated absolute directories to filter findings to"),
			),
		),
		handleUnusedExports(projectPath),
	)

	// 5. guardrails_review
	s.AddTool(
		mcplib.NewTool("guardrails_review",
			mcplib.WithDescription("Run an LLM-assisted qualitative review of files against the matching policy documents. Requires ANTHROPIC_API_KEY."),
			mcplib.WithString("files",
				mcplib.Required(),
				mcplib.Description("Comma-separated file paths relative to the project root"),
			),
		),
		handleReview(projectPath),
	)
}

func loadConfig(projectPath string) (domain.ProjectConfig, error) {
	return configAdapter.New().Load(projectPath)
}

func handleListPolicies(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := loadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewPolicyService(scanner.New())
		workspaces, err := svc.List(filepath.Join(projectPath, cfg.PolicyRoot))
		if err != nil {
			return errorResult(fmt.Sprintf("listing policies: %v", err)), nil
		}
		return jsonResult(cfg, workspaces)
	}
}

func handleCheck(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := loadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		workspace, _ := request.GetArguments()["workspace"].(string)

		svc := application.NewCheckService(rule.NewEngine(parser.New()), rules.Builtin(), cfg)
		report, err := svc.Check(projectPath, workspace)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(cfg, report)
	}
}

func handleAnalyze(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		analysisType, err := request.RequireString("analysis_type")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		workspace, err := request.RequireString("workspace")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := loadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		targetDirs, _ := request.GetArguments()["target_directories"].(string)

		svc := application.NewAnalysisService(
			execrunner.New(cfg.ToolTimeout(), cfg.OutputLimit()), cfg)
		report, err := svc.Run(ctx, domain.AnalysisRequest{
			Workspace:   workspace,
			Type:        domain.AnalysisType(analysisType),
			TargetDirs:  splitList(targetDirs),
			ProjectRoot: projectPath,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("analyze failed: %v", err)), nil
		}
		return jsonResult(cfg, report)
	}
}

func handleUnusedExports(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		workspace, err := request.RequireString("workspace")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := loadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		targetDirs, _ := request.GetArguments()["target_directories"].(string)

		svc := application.NewUnusedExportService(
			execrunner.New(cfg.ToolTimeout(), cfg.OutputLimit()), cfg)
		report, err := svc.Run(ctx, projectPath, workspace, splitList(targetDirs))
		if err != nil {
			return errorResult(fmt.Sprintf("unused-export analysis failed: %v", err)), nil
		}
		return jsonResult(cfg, report)
	}
}

func handleReview(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		files, err := request.RequireString("files")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		targets := splitList(files)
		if len(targets) == 0 {
			return errorResult("files must name at least one path"), nil
		}

		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return errorResult("ANTHROPIC_API_KEY is not set"), nil
		}

		cfg, err := loadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		model := llm.NewClient(apiKey, cfg.Review.Model)
		policies := application.NewPolicyService(scanner.New())
		svc := application.NewReviewService(model, policies, cfg)

		results, summary := svc.ReviewBatch(ctx, projectPath, targets)
		return jsonResult(cfg, struct {
			Results []domain.ReviewResult `json:"results"`
			Summary domain.ReviewSummary  `json:"summary"`
		}{results, summary})
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// jsonResult marshals v and trims the payload to the configured budget.
func jsonResult(cfg domain.ProjectConfig, v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(domain.Truncate(string(data), cfg.ReportBudget))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
