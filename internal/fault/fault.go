package fault

import (
	"errors"
	"fmt"
)

// Kind classifies failures at external client boundaries.
type Kind string

const (
	// KindConfigurationMissing marks a client constructed without credentials.
	KindConfigurationMissing Kind = "configuration_missing"
	// KindAuthentication marks an upstream auth handshake that did not succeed.
	KindAuthentication Kind = "authentication"
	// KindExternalCall marks any other failing call to an external service.
	KindExternalCall Kind = "external_call"
)

// Error carries the failure kind and the client it came from, so callers can
// tell "no data" apart from "call failed" and label metrics accordingly.
type Error struct {
	Kind   Kind
	Client string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Client, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Client, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and client name.
func New(kind Kind, client string, err error) *Error {
	return &Error{Kind: kind, Client: client, Err: err}
}

// External is shorthand for the common call-failure case.
func External(client string, err error) *Error {
	return New(KindExternalCall, client, err)
}

// KindOf extracts the classified kind; unclassified errors count as
// external call failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindExternalCall
}

// ClientOf extracts the originating client name, or "unknown".
func ClientOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Client
	}
	return "unknown"
}
