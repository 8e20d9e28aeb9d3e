// errors.go - Pipeline error taxonomy and classification
package chat

import (
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

// Kind identifies the user-facing category of a pipeline failure.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindSafetyBlocked  Kind = "safety_blocked"
	KindQuotaExceeded  Kind = "quota_exceeded"
	KindUnknown        Kind = "unknown"
)

// Fixed user-facing messages. Raw model error text is never surfaced
// directly; it travels on Cause for development-mode diagnostics.
const (
	msgSafetyBlocked = "The request was declined by the model's safety filters. Please rephrase and try again."
	msgQuotaExceeded = "The model quota is currently exhausted. Please try again later."
	msgAuthRejected  = "The model rejected the service credential. Check the server configuration."
	msgUnknown       = "The model request failed."
	// MsgNotConfigured is also reported by the health endpoint.
	MsgNotConfigured = "The model API key is not configured."
)

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying failure for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify maps any failure raised by a pipeline stage onto the error
// taxonomy. Already-classified errors pass through unchanged. Typed errors
// from the model client are checked first; message sniffing is the
// fallback for transport shapes that carry no type information.
func Classify(err error) *Error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &Error{Kind: KindSafetyBlocked, Message: msgSafetyBlocked, Cause: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429:
			return &Error{Kind: KindQuotaExceeded, Message: msgQuotaExceeded, Cause: err}
		case 401, 403:
			return &Error{Kind: KindAuthentication, Message: msgAuthRejected, Cause: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "api key", "api_key", "credential", "unauthenticated", "authentication"):
		return &Error{Kind: KindAuthentication, Message: msgAuthRejected, Cause: err}
	case containsAny(msg, "safety", "blocked"):
		return &Error{Kind: KindSafetyBlocked, Message: msgSafetyBlocked, Cause: err}
	case containsAny(msg, "quota", "rate limit", "resource exhausted", "429"):
		return &Error{Kind: KindQuotaExceeded, Message: msgQuotaExceeded, Cause: err}
	}

	return &Error{Kind: KindUnknown, Message: msgUnknown, Cause: err}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
