package captcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind classifies solve failures for caller-side handling.
type Kind int

const (
	// KindCreation — createTask returned no usable task id. Not retried
	// internally; callers may retry at their own discretion.
	KindCreation Kind = iota + 1
	// KindSolve — the service reported the task failed. Usually means an
	// unsolvable challenge or bad input; retrying rarely helps.
	KindSolve
	// KindTimeout — the poll attempt ceiling was reached without a terminal
	// status. Retryable with backoff.
	KindTimeout
	// KindTransport — network or HTTP-level fault. Retryable with backoff.
	KindTransport
	// KindCancelled — the caller's context was cancelled mid-solve.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindCreation:
		return "task creation failed"
	case KindSolve:
		return "task failed"
	case KindTimeout:
		return "solve timeout"
	case KindTransport:
		return "transport fault"
	case KindCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("unknown kind %d", int(k))
}

// Error is the failure type returned by Solve and Balance.
type Error struct {
	Kind Kind
	Op   string // service operation: "createTask", "getTaskResult", "getBalance"
	Code string // service error code, when reported

	// Raw is the raw service response body, kept for diagnostics.
	Raw json.RawMessage

	// Attempts and Elapsed describe how far polling got before failing.
	Attempts int
	Elapsed  time.Duration

	Err error
}

func (e *Error) Error() string {
	s := "captcha " + e.Op + ": " + e.Kind.String()
	if e.Code != "" {
		s += " (" + e.Code + ")"
	}
	if e.Kind == KindTimeout {
		s += fmt.Sprintf(" after %d attempts in %s", e.Attempts, e.Elapsed.Round(time.Millisecond))
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the whole solve could plausibly succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindTransport:
		return true
	case KindCreation:
		return !fatalCodes[e.Code]
	}
	return false
}

// KindOf extracts the failure Kind from err. Returns 0 for nil and for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// fatalCodes are service error codes caused by bad input or account state.
// Repeating the same request cannot succeed, no matter how many retries.
var fatalCodes = map[string]bool{
	"ERROR_KEY_DOES_NOT_EXIST":        true,
	"ERROR_WRONG_USER_KEY":            true,
	"ERROR_ZERO_BALANCE":              true,
	"ERROR_IP_NOT_ALLOWED":            true,
	"ERROR_PAGEURL":                   true,
	"ERROR_WRONG_GOOGLEKEY":           true,
	"ERROR_RECAPTCHA_INVALID_SITEKEY": true,
	"ERROR_TASK_NOT_SUPPORTED":        true,
}
