// Package review drives the bounded tool-use conversation behind a
// qualitative code review. The loop is an explicit state machine so that
// termination and the turn limit are testable in isolation.
package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guardrails/guardrails/internal/domain"
)

// State of one review loop.
type State int

const (
	StateAwaitingModel State = iota
	StateToolDispatch
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateToolDispatch:
		return "tool_dispatch"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// StepResult is the typed outcome of one loop step.
type StepResult interface{ isStepResult() }

// Continue means tool calls were dispatched and their results queued for
// the next model turn.
type Continue struct {
	Results []domain.ToolResult
}

// Done carries the final review text.
type Done struct {
	Text string
}

// Failed carries the unrecoverable error that ended the loop.
type Failed struct {
	Err error
}

func (Continue) isStepResult() {}
func (Done) isStepResult()     {}
func (Failed) isStepResult()   {}

// ToolExecutor runs one tool call requested by the model. An execution
// error is fed back to the model as an error tool result, not a loop
// failure.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) (string, error)
}

// Loop is one file's review conversation.
type Loop struct {
	session  domain.ChatSession
	executor ToolExecutor
	maxTurns int

	state   State
	turns   int
	pending []domain.ToolResult
}

// New creates a loop in StateAwaitingModel. maxTurns bounds the number of
// model invocations; a model that never stops requesting tools fails the
// loop instead of spinning.
func New(session domain.ChatSession, executor ToolExecutor, maxTurns int) *Loop {
	return &Loop{session: session, executor: executor, maxTurns: maxTurns}
}

// State returns the loop's current state.
func (l *Loop) State() State { return l.state }

// Turns returns the number of model invocations so far.
func (l *Loop) Turns() int { return l.turns }

// Step advances the machine by one model turn.
func (l *Loop) Step(ctx context.Context) StepResult {
	switch l.state {
	case StateDone, StateFailed:
		return Failed{Err: fmt.Errorf("step on terminal state %s", l.state)}
	}

	if l.turns >= l.maxTurns {
		l.state = StateFailed
		return Failed{Err: fmt.Errorf("model did not converge within %d turns", l.maxTurns)}
	}
	l.turns++

	l.state = StateAwaitingModel
	resp, err := l.session.Send(ctx, l.pending)
	l.pending = nil
	if err != nil {
		l.state = StateFailed
		return Failed{Err: fmt.Errorf("%w: %v", domain.ErrUpstreamAPI, err)}
	}

	if len(resp.ToolCalls) == 0 {
		l.state = StateDone
		return Done{Text: resp.Text}
	}

	l.state = StateToolDispatch
	results := make([]domain.ToolResult, 0, len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		content, execErr := l.executor.Execute(ctx, call.Name, call.Input)
		result := domain.ToolResult{ToolUseID: call.ID, Content: content}
		if execErr != nil {
			result.Content = execErr.Error()
			result.IsError = true
		}
		results = append(results, result)
	}
	l.pending = results
	l.state = StateAwaitingModel
	return Continue{Results: results}
}

// Run steps the loop to a terminal state and returns the review text.
func (l *Loop) Run(ctx context.Context) (string, error) {
	for {
		switch result := l.Step(ctx).(type) {
		case Done:
			return result.Text, nil
		case Failed:
			return "", result.Err
		}
	}
}
