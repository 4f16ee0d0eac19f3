package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/review"
)

const reviewSystemPrompt = `You are a senior engineer reviewing one source file against the team's
written policies. Read the policies and the file, use the read_file tool
when you need surrounding context (imports, siblings, tests), and then
reply with a concise narrative review: what the file does well, where it
violates or strains a policy, and concrete suggestions. Reply with plain
text only once the review is complete.`

// ReviewService drives qualitative LLM reviews: one bounded tool-use
// loop per file, independent loops in a bounded worker pool.
type ReviewService struct {
	model    domain.ChatModel
	policies *PolicyService
	cfg      domain.ProjectConfig
}

func NewReviewService(model domain.ChatModel, policies *PolicyService, cfg domain.ProjectConfig) *ReviewService {
	return &ReviewService{model: model, policies: policies, cfg: cfg}
}

// ReviewFile reviews a single file. Failures are captured in the result,
// never raised, so a batch caller can treat every slot uniformly.
func (s *ReviewService) ReviewFile(ctx context.Context, projectRoot, targetFile string) domain.ReviewResult {
	result := domain.ReviewResult{FilePath: targetFile}

	content, err := os.ReadFile(targetFile)
	if err != nil {
		result.Error = fmt.Sprintf("reading target: %v", err)
		return result
	}

	policyRoot := filepath.Join(projectRoot, s.cfg.PolicyRoot)
	docs := s.policies.SelectDocs(policyRoot, targetFile)
	for _, d := range docs {
		result.AppliedPolicies = append(result.AppliedPolicies, d.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Review.FileTimeout())
	defer cancel()

	session := s.model.NewSession(reviewSystemPrompt, buildReviewPrompt(targetFile, string(content), docs), reviewTools())
	loop := review.New(session, &fileReader{root: projectRoot}, s.cfg.Review.MaxTurns)

	text, err := loop.Run(ctx)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ReviewText = text
	result.Success = true
	return result
}

// ReviewBatch reviews every file with independent loops. One file's
// failure never affects its siblings; results keep input order.
func (s *ReviewService) ReviewBatch(ctx context.Context, projectRoot string, targetFiles []string) ([]domain.ReviewResult, domain.ReviewSummary) {
	results := make([]domain.ReviewResult, len(targetFiles))

	workers := s.cfg.Review.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.ReviewFile(ctx, projectRoot, targetFiles[idx])
			}
		}()
	}
	for i := range targetFiles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, domain.Summarize(results)
}

func buildReviewPrompt(path, content string, docs []domain.PolicyDoc) string {
	var b strings.Builder
	if len(docs) > 0 {
		b.WriteString("Policies in effect:\n\n")
		for _, d := range docs {
			b.WriteString("## ")
			b.WriteString(d.Name)
			b.WriteString("\n\n")
			b.WriteString(d.Content)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("File under review: ")
	b.WriteString(path)
	b.WriteString("\n\n```\n")
	b.WriteString(content)
	b.WriteString("\n```\n")
	return b.String()
}

func reviewTools() []domain.ToolSpec {
	return []domain.ToolSpec{
		{
			Name:        "read_file",
			Description: "Read a file from the project by path, for surrounding context.",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the file to read, absolute or relative to the project root.",
				},
			},
			Required: []string{"path"},
		},
	}
}

// fileReader executes the read_file tool, confined to the project root.
type fileReader struct {
	root string
}

func (f *fileReader) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	if name != "read_file" {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("bad read_file input: %v", err)
	}

	path := args.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rootAbs, err := filepath.Abs(f.root)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs+string(filepath.Separator), rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the project", args.Path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
