// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// EmptyAPIKey indicates the supplied API key was empty or whitespace.
	EmptyAPIKey Kind = "empty_api_key"
	// MalformedAPIKey indicates the supplied API key does not match the
	// expected "sk_" prefix convention.
	MalformedAPIKey Kind = "malformed_api_key"
	// ValidationFailed indicates the identity endpoint rejected the API key
	// or could not be reached.
	ValidationFailed Kind = "validation_failed"
	// RevalidationFailed indicates a stored API key could not be re-validated
	// to recover the user identity.
	RevalidationFailed Kind = "revalidation_failed"
	// StorageUnavailable indicates the secure credential store failed.
	StorageUnavailable Kind = "storage_unavailable"
	// UploadFailed indicates a recording-session upload failed.
	UploadFailed Kind = "upload_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E with the same kind, so callers can
// match on category with errors.Is.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	return ok && t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
