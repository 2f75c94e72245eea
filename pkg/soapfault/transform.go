package soapfault

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/vikstrom/soaphost/pkg/soap"
)

// baseCode11 gives each taxonomy Kind its SOAP 1.1 faultcode local name:
// Client for errors attributable to the request, Server otherwise.
var baseCode11 = map[Kind]string{
	KindMalformedEnvelope:  "Client",
	KindNoOperation:        "Client",
	KindBindingError:       "Client",
	KindFilterRejection:    "Client",
	KindInvocationError:    "Server",
	KindResponseWriteError: "Server",
	KindInternalError:      "Server",
}

func codeFor(kind Kind) string {
	if c, ok := baseCode11[kind]; ok {
		return c
	}
	return "Server"
}

// reasonFor derives the human-readable fault text. A DispatchError wrapping
// an InvocationError has already had that layer unwrapped by the caller
// (servicemodel.UnwrapInvocation), so cause here is always the user's own
// error or the binder/router's own message.
func reasonFor(kind Kind, cause error) string {
	if cause == nil {
		return string(kind)
	}
	return cause.Error()
}

// Build produces the marshaled <soap:Fault> (or <soap12:Fault>) element for
// the given version, ready to be embedded as the response envelope's Body
// content.
func Build(version soap.Version, kind Kind, cause error) ([]byte, error) {
	var dispatchErr *DispatchError
	if errors.As(cause, &dispatchErr) {
		kind = dispatchErr.Kind
		cause = dispatchErr.Err
	}

	code := codeFor(kind)
	reason := reasonFor(kind, cause)

	fe := &soap.FaultElement{}
	if version == soap.Version12 {
		fe.XMLName = xml.Name{Space: soap.NS12, Local: "Fault"}
	} else {
		fe.XMLName = xml.Name{Space: soap.NS11, Local: "Fault"}
	}
	if version == soap.Version12 {
		fe.Code12 = &soap.FaultCode12{Value: "soap:" + soap.Translate11To12(code)}
		fe.Reason12 = &soap.FaultReason{Text: reason}
	} else {
		fe.FaultCode = "soap:" + code
		fe.FaultString = reason
	}

	body, err := xml.Marshal(fe)
	if err != nil {
		return nil, fmt.Errorf("soapfault: marshaling fault: %w", err)
	}
	return body, nil
}
