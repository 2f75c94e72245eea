// Package soapfault implements the Fault Transformer: converting any
// failure raised during dispatch into a version-correct SOAP fault
// envelope.
package soapfault

import "fmt"

// Kind is the dispatch error taxonomy: every error the dispatcher raises
// between envelope read and response write carries one of these.
type Kind string

const (
	KindMalformedEnvelope  Kind = "malformed_envelope"
	KindNoOperation        Kind = "no_operation"
	KindBindingError       Kind = "binding_error"
	KindFilterRejection    Kind = "filter_rejection"
	KindInvocationError    Kind = "invocation_error"
	KindResponseWriteError Kind = "response_write_error"
	KindInternalError      Kind = "internal_error"
)

// DispatchError wraps a taxonomy Kind around the underlying cause, so
// dispatch code can route it to the Fault Transformer and so
// requestlog/logging call sites can report it without re-deriving the kind.
type DispatchError struct {
	Kind Kind
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// New wraps err with kind, or returns nil if err is nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &DispatchError{Kind: kind, Err: err}
}
