package jagriti

import (
	"errors"
	"fmt"
	"strings"
)

// strategy probe sentinels
var (
	// ErrNotSupported means the strategy cannot serve this operation
	// at all (e.g. the browser tier only enumerates states).
	ErrNotSupported = errors.New("operation not supported by this strategy")
	// ErrUnreachable means every candidate access path of the
	// strategy errored.
	ErrUnreachable = errors.New("strategy could not reach the portal")
	// ErrEmpty means the strategy reached the portal but the response
	// held no recognizable data.
	ErrEmpty = errors.New("strategy returned no data")
)

// transport failures
var (
	// ErrTimeout is returned once the retry budget for slow upstream
	// responses is exhausted.
	ErrTimeout = errors.New("upstream timed out after retries")
	// ErrRateLimited is returned when a 429 persists through the
	// cooldown retry.
	ErrRateLimited = errors.New("upstream rate limit persisted after cooldown")
)

// ErrParse wraps normalizer failures so the chain can treat them as
// that strategy's failure instead of aborting.
var ErrParse = errors.New("could not interpret strategy payload")

// UpstreamError is a non-retryable HTTP failure.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, body)
}

// StrategyFailure records why one tier of a chain failed.
type StrategyFailure struct {
	Strategy string
	Err      error
}

// ExhaustedError means every strategy in a chain failed without any
// tier even reaching well-formed portal data. Callers use it to tell
// "the portal is unreachable" apart from a genuinely empty result.
type ExhaustedError struct {
	Operation string
	Failures  []StrategyFailure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Strategy, f.Err)
	}
	return fmt.Sprintf(
		"all strategies exhausted for %s: [%s]",
		e.Operation, strings.Join(parts, "; "),
	)
}
