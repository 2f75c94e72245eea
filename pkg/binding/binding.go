// Package binding implements the Argument Binder: decoding a parsed SOAP
// envelope into a positional argument array matching an operation's
// signature, across the wrapped/bare/RPC/message-contract styles described
// by servicemodel.OperationDescription.
//
// The streaming walk over body children is grounded in go-ee-gowsdl's
// soap.BodyResponse.UnmarshalXML: a label-scoped for/switch over
// decoder tokens, rather than a single struct unmarshal, since the set of
// expected child elements (and their order) is only known via the
// operation's parameter table, not via a fixed Go struct shape.
package binding

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"reflect"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
)

// Error is the Argument Binder's error type, always a BindingError per the
// taxonomy.
type Error struct {
	Parameter string
	Err       error
}

func (e *Error) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("binding: %v", e.Err)
	}
	return fmt.Sprintf("binding parameter %q: %v", e.Parameter, e.Err)
}
func (e *Error) Unwrap() error { return e.Err }

// Bind decodes env's body (and, for message contracts, its headers) into an
// argument array sized to op's full parameter arity, ready to pass to
// servicemodel.Invoke.
func Bind(env *soap.Envelope, op *servicemodel.OperationDescription, httpReq *http.Request) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(op.Parameters))
	for i, p := range op.Parameters {
		args[i] = reflect.New(p.Type).Elem()
	}

	if op.Style == servicemodel.StyleMessageContract {
		if err := bindMessageContract(env, op, args); err != nil {
			return nil, err
		}
	} else if !env.IsEmpty {
		if err := bindPositional(env, op, args); err != nil {
			return nil, err
		}
	}

	fillRequestContext(env, op, httpReq, args)
	DefaultOutParameters(op, args)

	return args, nil
}

// fillRequestContext populates the single ambient *servicemodel.RequestContext
// parameter, if the operation declares one.
func fillRequestContext(env *soap.Envelope, op *servicemodel.OperationDescription, httpReq *http.Request, args []reflect.Value) {
	for i, p := range op.Parameters {
		if !p.IsRequestContext {
			continue
		}
		args[i].Set(reflect.ValueOf(&servicemodel.RequestContext{
			HTTPRequest: httpReq,
			Envelope:    env,
		}))
	}
}

// bindPositional implements Case A: stream the body's children, matching
// each to an In parameter by local name, in whatever order they arrive.
func bindPositional(env *soap.Envelope, op *servicemodel.OperationDescription, args []reflect.Value) error {
	dec, err := env.BodyReader()
	if err != nil {
		return &Error{Err: err}
	}

	// Advance past the wrapper start element (document-wrapped and RPC
	// styles nest members inside <OperationName>; bare style has no
	// wrapper, so the first token we see is already a member).
	if op.Style != servicemodel.StyleDocBare {
		if err := skipWrapperStart(dec); err != nil {
			return &Error{Err: err}
		}
	}

	lastMatched := -1
Loop:
	for {
		tok, err := dec.Token()
		if err != nil {
			break Loop
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue Loop
		}

		idx := findInParameter(op, se.Name.Local)
		if idx < 0 {
			if err := dec.Skip(); err != nil {
				break Loop
			}
			continue Loop
		}
		if idx == lastMatched {
			// Guard against a malformed stream that would otherwise loop
			// forever re-matching the same parameter.
			break Loop
		}
		lastMatched = idx

		target := args[idx]
		ptr := reflect.New(derefType(op.Parameters[idx].Type))
		if err := decodeWithNamespaceFallback(dec, se, ptr.Elem(), op.Parameters[idx].Namespace); err != nil {
			return &Error{Parameter: op.Parameters[idx].Name, Err: err}
		}
		assignDecoded(target, ptr, op.Parameters[idx].Type)
	}

	return nil
}

// findInParameter returns the index of the In or InOut parameter whose
// declared name matches localName, or -1.
func findInParameter(op *servicemodel.OperationDescription, localName string) int {
	for i, p := range op.Parameters {
		if p.IsRequestContext {
			continue
		}
		if p.Direction == servicemodel.DirOut {
			continue
		}
		if p.Name == localName {
			return i
		}
	}
	return -1
}

// decodeWithNamespaceFallback decodes the element se (and its children, read
// from dec) into target. It first decodes the element exactly as it
// appeared on the wire; if that yields the zero value, it retries once more
// reinterpreting the element as if it had been declared in fallbackNS
// instead, so a client that omits or mismatches a parameter's namespace
// still binds against the operation's own declared namespace.
func decodeWithNamespaceFallback(dec *xml.Decoder, se xml.StartElement, target reflect.Value, fallbackNS string) error {
	var raw struct {
		InnerXML []byte `xml:",innerxml"`
	}
	if err := dec.DecodeElement(&raw, &se); err != nil {
		return err
	}

	first := reflect.New(target.Type())
	firstErr := unmarshalElementAs(se.Name.Space, raw.InnerXML, first.Interface())
	if firstErr == nil && !first.Elem().IsZero() {
		target.Set(first.Elem())
		return nil
	}

	if fallbackNS != "" && fallbackNS != se.Name.Space {
		second := reflect.New(target.Type())
		if err := unmarshalElementAs(fallbackNS, raw.InnerXML, second.Interface()); err == nil && !second.Elem().IsZero() {
			target.Set(second.Elem())
			return nil
		}
	}

	if firstErr != nil {
		return firstErr
	}
	target.Set(first.Elem())
	return nil
}

// unmarshalElementAs re-parses innerXML as the content of an element
// declared in namespace, so a namespace retry can be attempted without
// re-reading from the live decoder stream (whose tokens for this element
// have already been consumed).
func unmarshalElementAs(namespace string, innerXML []byte, target any) error {
	var buf bytes.Buffer
	buf.WriteString("<e")
	if namespace != "" {
		buf.WriteString(` xmlns="`)
		xml.EscapeText(&buf, []byte(namespace))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	buf.Write(innerXML)
	buf.WriteString("</e>")
	return xml.Unmarshal(buf.Bytes(), target)
}

func skipWrapperStart(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			return nil
		}
	}
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// assignDecoded copies a decoded value into target, boxing it in a pointer
// when the parameter's declared type itself is a pointer (Out/InOut).
func assignDecoded(target reflect.Value, decoded reflect.Value, paramType reflect.Type) {
	if paramType.Kind() == reflect.Ptr {
		target.Set(decoded)
		return
	}
	target.Set(decoded.Elem())
}
