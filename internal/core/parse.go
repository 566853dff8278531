package core

import (
	"context"
	"fmt"
	"strings"
)

// ParseAttempt records one attempt to parse a raw completion into an Action.
type ParseAttempt struct {
	RawOutput    string
	ParsedAction *Action
	Success      bool
	ErrorMessage string
}

// ParseAction trims whitespace and upper-cases raw, then accepts it iff the
// result is exactly "C" or "D". Anything else is a parse error.
func ParseAction(raw string) (Action, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	return ParseActionStrict(cleaned)
}

// TryParseAction parses raw, returning a ParseAttempt describing success or
// failure rather than an error.
func TryParseAction(raw string) ParseAttempt {
	action, err := ParseAction(raw)
	if err != nil {
		return ParseAttempt{RawOutput: raw, Success: false, ErrorMessage: err.Error()}
	}
	a := action
	return ParseAttempt{RawOutput: raw, ParsedAction: &a, Success: true}
}

// CorrectionPrompt is the fixed text appended to the original user prompt on
// retry. Its substance, not exact wording, is what spec §4.7 requires.
const CorrectionPrompt = "Your previous response was invalid. " +
	"Respond with ONLY a single character: C or D; no explanation, no punctuation."

// DefaultMaxRetries is the default number of additional attempts after the
// first parse failure.
const DefaultMaxRetries = 2

// RetryCallback asks the completion adapter again, given the correction
// prompt, and returns the new raw output.
type RetryCallback func(ctx context.Context, correctionPrompt string) (string, error)

// CompletionError wraps a RetryCallback failure, distinguishing "the
// completion adapter itself errored" from ordinary parse exhaustion.
// Callers must treat it as fatal (run aborts), never as the trigger for the
// cooperate-on-parse-failure fallback.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("core: retry completion failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// RetryParser wraps ParseAction with a bounded reprompt loop for LLM agents.
// It is not safe for concurrent use by multiple goroutines sharing the same
// agent instance (no agent is expected to be, since each game owns its own
// agents).
type RetryParser struct {
	MaxRetries int
	attempts   []ParseAttempt
}

// NewRetryParser constructs a parser with the given retry budget.
// maxRetries < 0 selects DefaultMaxRetries.
func NewRetryParser(maxRetries int) *RetryParser {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RetryParser{MaxRetries: maxRetries}
}

// Attempts returns the parse-attempt trail from the most recent
// ParseWithRetry call, for post-hoc diagnosis of failed rounds.
func (p *RetryParser) Attempts() []ParseAttempt {
	return p.attempts
}

// ParseWithRetry parses initialOutput; on failure it calls retry up to
// MaxRetries additional times, each time asking the completion adapter again
// with the correction prompt. It always returns in bounded time (at most
// 1+MaxRetries completion calls) and never panics. It returns two distinct
// kinds of error, and the caller (the LLM agent) must tell them apart: a
// *CompletionError means retry itself failed (the completion adapter is
// unreachable or erroring) and is fatal; any other error means every
// attempt produced unparseable text, and the caller is responsible for
// applying the fixed cooperate-on-failure fallback.
func (p *RetryParser) ParseWithRetry(ctx context.Context, initialOutput string, retry RetryCallback) (Action, error) {
	p.attempts = p.attempts[:0]

	attempt := TryParseAction(initialOutput)
	p.attempts = append(p.attempts, attempt)
	if attempt.Success {
		return *attempt.ParsedAction, nil
	}

	for i := 0; i < p.MaxRetries; i++ {
		if retry == nil {
			break
		}
		output, err := retry(ctx, CorrectionPrompt)
		if err != nil {
			return 0, &CompletionError{Err: err}
		}
		attempt = TryParseAction(output)
		p.attempts = append(p.attempts, attempt)
		if attempt.Success {
			return *attempt.ParsedAction, nil
		}
	}

	return 0, fmt.Errorf("core: failed to parse action after %d attempts, last output %q",
		len(p.attempts), p.attempts[len(p.attempts)-1].RawOutput)
}
