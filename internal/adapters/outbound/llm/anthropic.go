// Package llm implements domain.ChatModel on the Anthropic Messages API,
// including multi-turn tool use.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/guardrails/guardrails/internal/domain"
)

const (
	maxTokens     = 4096
	retryAttempts = 2
	retryBackoff  = 500 * time.Millisecond
)

// Client wraps the Anthropic API.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates a chat client. An empty apiKey falls back to the
// SDK's environment lookup.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// NewSession opens a conversation seeded with the system prompt, the
// first user turn and the declared toolset.
func (c *Client) NewSession(system, user string, tools []domain.ToolSpec) domain.ChatSession {
	s := &session{
		client: c,
		system: system,
		history: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	for _, t := range tools {
		s.tools = append(s.tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Properties,
					Required:   t.Required,
				},
			},
		})
	}
	return s
}

type session struct {
	client  *Client
	system  string
	tools   []anthropic.ToolUnionParam
	history []anthropic.MessageParam
}

// Send appends the given tool results as a user turn, invokes the model
// with the running history, and returns the parsed response. Transport
// errors are retried with a short backoff; a malformed response is not.
func (s *session) Send(ctx context.Context, results []domain.ToolResult) (*domain.ModelResponse, error) {
	if len(results) > 0 {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(results))
		for _, r := range results {
			blocks = append(blocks, anthropic.NewToolResultBlock(r.ToolUseID, r.Content, r.IsError))
		}
		s.history = append(s.history, anthropic.NewUserMessage(blocks...))
	}

	msg, err := s.call(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAPI, err)
	}
	s.history = append(s.history, msg.ToParam())

	resp := &domain.ModelResponse{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Text += v.Text
		case anthropic.ToolUseBlock:
			input, merr := json.Marshal(v.Input)
			if merr != nil {
				return nil, fmt.Errorf("%w: tool input for %s: %v", domain.ErrUpstreamAPI, v.Name, merr)
			}
			resp.ToolCalls = append(resp.ToolCalls, domain.ToolCall{
				ID:    v.ID,
				Name:  v.Name,
				Input: input,
			})
		}
	}
	return resp, nil
}

func (s *session) call(ctx context.Context) (*anthropic.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     s.client.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: s.system},
		},
		Messages: s.history,
		Tools:    s.tools,
	}

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
		msg, err := s.client.api.Messages.New(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
