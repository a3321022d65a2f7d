package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrInvalidTransition rejects a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports bad form input; surfaced to the end user and
// blocks submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthError carries a single indistinct message so a failed login never
// reveals which part of the credentials was wrong.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// SignatureError rejects a webhook payload whose signature did not verify.
// The request is answered 400 and the store is never touched.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature verification failed: %v", e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// IntegrationError marks a notification or payment provider failure. These
// are logged and recovered around; the booking itself already succeeded and
// the error is never surfaced to the customer.
type IntegrationError struct {
	Provider string
	Err      error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }
