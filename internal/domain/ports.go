package domain

import (
	"context"
	"encoding/json"

	"github.com/guardrails/guardrails/internal/domain/syntax"
)

// CodeParser parses a source file into a syntax tree.
type CodeParser interface {
	ParseFile(path string) (*syntax.Tree, error)
	ParseSource(path, source string) *syntax.Tree
}

// PolicyScanner catalogs rule-definition files under a governed root.
type PolicyScanner interface {
	Scan(root string) ([]WorkspacePolicies, error)
}

// ToolOutput is the captured result of a finished subprocess. A non-zero
// exit code is not an error; callers decide from the parsed output.
type ToolOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr.
func (o *ToolOutput) Combined() string {
	if o.Stderr == "" {
		return o.Stdout
	}
	return o.Stdout + o.Stderr
}

// CommandRunner executes an external tool from a working directory,
// capturing both streams under a timeout and an output ceiling.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string) (*ToolOutput, error)
}

// ToolSpec declares one tool the model may call during a review.
type ToolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// ToolCall is one tool-use request in a model response.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ToolResult is the outcome of executing one tool call, fed back to the
// model as the next turn.
type ToolResult struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// ModelResponse is one model turn: narrative text, tool-use requests, or both.
type ModelResponse struct {
	Text      string
	ToolCalls []ToolCall
}

// ChatSession is a running multi-turn conversation. Send appends the given
// tool results (nil on the first turn) and returns the next model response.
type ChatSession interface {
	Send(ctx context.Context, results []ToolResult) (*ModelResponse, error)
}

// ChatModel opens tool-augmented chat sessions.
type ChatModel interface {
	NewSession(system, user string, tools []ToolSpec) ChatSession
}

// GitInfo reads commit metadata for history records.
type GitInfo interface {
	// HeadCommit returns the abbreviated hash of HEAD, or false when the
	// project is not a git repository or has no commits yet.
	HeadCommit(projectPath string) (string, bool)
}

// HistoryStore persists analysis run records.
type HistoryStore interface {
	Append(projectPath string, record RunRecord) error
	List(projectPath string, limit int) ([]RunRecord, error)
}
