package domain

import "errors"

// Failure kinds surfaced by the generation pipeline. Callers classify with
// errors.Is; the HTTP layer maps kinds to status codes and localized
// messages via Classify.
var (
	// ErrEmptyInput marks a generation attempt with nothing to work from:
	// no prompt text and no references, or an edit without an instruction.
	ErrEmptyInput = errors.New("empty input")

	// ErrStyleAnalysis marks a failed style-analysis sub-call. The
	// orchestrator swallows it and proceeds with an empty style context.
	ErrStyleAnalysis = errors.New("style analysis failed")

	// ErrTransport marks a synthesis call that failed to complete at the
	// network or remote level.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyResponse marks a synthesis call that completed but returned
	// no image part. Commonly correlates with quota exhaustion or content
	// policy blocks; the core only classifies the condition.
	ErrEmptyResponse = errors.New("no image data returned")

	// ErrNotFound marks a history selection for an id that is not in the
	// ledger.
	ErrNotFound = errors.New("not found")

	// ErrBusy marks an attempt to start a generation while another is in
	// flight for the same session.
	ErrBusy = errors.New("generation already in progress")

	// ErrNoActiveResult marks an edit or export attempt before any result
	// exists.
	ErrNoActiveResult = errors.New("no active result")
)

// Classify reduces an error to a stable kind code for API responses and logs.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrStyleAnalysis):
		return "style_analysis"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrNoActiveResult):
		return "no_active_result"
	default:
		return "internal"
	}
}
