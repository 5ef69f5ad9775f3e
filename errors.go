package examgen

import "fmt"

// InvalidRequestError reports a generation request rejected before any call
// to the completion service is made.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// FailureKind classifies completion service failures
type FailureKind string

const (
	FailureAuth        FailureKind = "auth"
	FailureRateLimit   FailureKind = "rate_limit"
	FailureTimeout     FailureKind = "timeout"
	FailureNetwork     FailureKind = "network"
	FailureBadResponse FailureKind = "bad_response"
)

// ServiceError wraps a failed completion call with its classification. The
// caller decides whether to offer a retry; the client itself never retries.
type ServiceError struct {
	Kind FailureKind
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("completion service failure (%s)", e.Kind)
	}
	return fmt.Sprintf("completion service failure (%s): %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ParseReason identifies why a model response could not be parsed
type ParseReason string

const (
	ReasonEmptyResult  ParseReason = "empty_result"
	ReasonNoAssignment ParseReason = "no_assignment"
)

// ParseError reports a model response from which no usable content could be
// extracted. Partial content is never reported as a ParseError; it comes
// back as a flagged result instead.
type ParseError struct {
	Reason  ParseReason
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure (%s): %s", e.Reason, e.Message)
}
