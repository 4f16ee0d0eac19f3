package domain

import "errors"

// Error categories. Input validation errors are raised before any I/O;
// tool and parse errors are captured into report results so batch output
// still renders; upstream API errors may be retried, parse errors never.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrToolInvocation = errors.New("tool invocation failed")
	ErrParse          = errors.New("unparseable tool output")
	ErrUpstreamAPI    = errors.New("upstream api error")
)
