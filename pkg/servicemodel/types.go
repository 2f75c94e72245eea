// Package servicemodel builds an immutable, reflective description of a
// SOAP service from a small author-declared metadata table plus the
// service's own reflect.Type. Go cannot recover parameter names or
// directions from a method signature at runtime the way attribute-driven
// reflection can in other languages, so the table supplies what reflection
// cannot: parameter names, XML namespaces, and in/out/in-out direction. The
// reflect.Type is still what's actually invoked and what validates the
// table against the method it describes.
package servicemodel

import (
	"net/http"
	"reflect"

	"github.com/vikstrom/soaphost/pkg/soap"
)

// Direction classifies a parameter's data flow, the Go idiom for C#/WCF's
// ref/out parameters: Out and InOut parameters are always pointer types.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return "in"
	}
}

// Style selects the argument-binding and response-building strategy for an
// operation.
type Style int

const (
	// StyleDocWrapped: body members nested in a wrapper element named after
	// the operation.
	StyleDocWrapped Style = iota
	// StyleDocBare: body members are direct children of the Body element.
	StyleDocBare
	// StyleRPC: RPC-style wrapper, bound the same way as StyleDocWrapped by
	// the binder but flagged separately for response-building conventions.
	StyleRPC
	// StyleMessageContract: exactly one parameter, itself a message
	// contract type carrying headers and ordered body parts.
	StyleMessageContract
)

// RequestContext is the ambient, per-request object a service method may
// declare a *RequestContext parameter to receive. It is populated by the
// dispatcher, never constructed by user code.
type RequestContext struct {
	HTTPRequest *http.Request
	Envelope    *soap.Envelope
}

var requestContextType = reflect.TypeOf(&RequestContext{})

// IsRequestContextType reports whether t is the ambient request-context
// parameter type.
func IsRequestContextType(t reflect.Type) bool {
	return t == requestContextType
}

// ParameterDescription describes one positional parameter of an operation.
type ParameterDescription struct {
	Index            int
	Name             string
	Namespace        string
	Direction        Direction
	Type             reflect.Type
	IsRequestContext bool
}

// MessageContractMember describes one header or body-part member of a
// message-contract type, addressed by its Go struct field name.
type MessageContractMember struct {
	FieldName      string
	Name           string
	Namespace      string
	Order          int
	MustUnderstand bool
}

// MessageContractInfo describes a message-contract parameter: a struct type
// whose fields map directly to SOAP headers and body parts.
type MessageContractInfo struct {
	Type             reflect.Type
	IsWrapped        bool
	WrapperName      string
	WrapperNamespace string
	Headers          []MessageContractMember
	BodyParts        []MessageContractMember
}

// OperationDescription is the built, validated description of one service
// method.
type OperationDescription struct {
	Name            string
	Action          string
	ReplyAction     string
	IsOneWay        bool
	Style           Style
	Method          reflect.Method
	Parameters      []ParameterDescription
	MessageContract *MessageContractInfo
	KnownTypes      []reflect.Type

	// HasReturnValue reports whether the method yields a non-error return
	// value (as opposed to only an error, or nothing). Response-building
	// uses this to decide whether ReturnName appears in the reply body.
	HasReturnValue bool
	// ReturnName is the element name given to the return value in the
	// reply body, conventionally "<Name>Result".
	ReturnName string
	// ResponseHeaders names members of the return value, by Go field name,
	// that belong in soap:Header entries rather than the reply body.
	ResponseHeaders []MessageContractMember
}

// ContractDescription is one service contract: a named, namespaced group of
// operations.
type ContractDescription struct {
	Name       string
	Namespace  string
	Operations []OperationDescription
}

// ServiceDescription is the complete, immutable description of a service,
// built once at endpoint construction and shared across all requests.
type ServiceDescription struct {
	ServiceType reflect.Type
	Contracts   []ContractDescription
}

// FindOperation returns the operation whose SOAP action matches per the
// matching rules, searching every contract in declared order.
// Returns false if no contract has a matching operation.
func (sd *ServiceDescription) FindOperation(action string) (*ContractDescription, *OperationDescription, bool) {
	for ci := range sd.Contracts {
		c := &sd.Contracts[ci]
		if op, ok := matchAction(c, action); ok {
			return c, op, true
		}
	}
	return nil, nil, false
}
