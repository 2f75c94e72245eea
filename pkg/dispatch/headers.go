package dispatch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
)

// buildResponseHeaders renders the WS-Addressing 1.0 reply headers when the
// endpoint's encoder is configured for it: wsa:Action names the operation's
// reply action, wsa:RelatesTo echoes the request's MessageID so an
// asynchronous client can correlate the reply, and wsa:To mirrors the
// request's ReplyTo when the client supplied one. A fault response carries
// no wsa:Action (decided: the taxonomy's Kind, not a WS-Addressing action
// URI, is what identifies a fault to the caller).
func buildResponseHeaders(enc *soap.Encoder, env *soap.Envelope, op *servicemodel.OperationDescription) []byte {
	if enc.Options.Addressing != soap.Addressing10 {
		return nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<wsa:Action xmlns:wsa=%q>%s</wsa:Action>`, soap.NSAddressing10, op.ReplyAction)
	if env.MessageID != "" {
		fmt.Fprintf(&buf, `<wsa:RelatesTo xmlns:wsa=%q>%s</wsa:RelatesTo>`, soap.NSAddressing10, env.MessageID)
	}
	if env.ReplyTo != "" {
		fmt.Fprintf(&buf, `<wsa:To xmlns:wsa=%q>%s</wsa:To>`, soap.NSAddressing10, env.ReplyTo)
	}
	return buf.Bytes()
}

// responseHeaderElements renders op.ResponseHeaders: members of a
// message-contract-style return value that belong in soap:Header entries
// rather than the reply body. result is the method's unmodified return
// value (a struct or pointer-to-struct); contractNS is the fallback
// namespace for a member that declares none of its own.
//
// The mustUnderstand attribute is emitted unprefixed (bound to no
// namespace) rather than qualified to the envelope namespace: encoding/xml
// writes an attribute's Name.Space as a literal prefix string rather than
// resolving or declaring it, so qualifying it correctly would mean
// hand-assembling the tag instead of using the encoder, for a flag most
// clients treat permissively either way.
func responseHeaderElements(op *servicemodel.OperationDescription, contractNS string, result reflect.Value) ([]byte, error) {
	if len(op.ResponseHeaders) == 0 || !result.IsValid() {
		return nil, nil
	}
	for result.Kind() == reflect.Ptr {
		if result.IsNil() {
			return nil, nil
		}
		result = result.Elem()
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	for _, h := range op.ResponseHeaders {
		f := result.FieldByName(h.FieldName)
		if !f.IsValid() {
			continue
		}
		ns := h.Namespace
		if ns == "" {
			ns = contractNS
		}
		attrs := []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ns}}
		if h.MustUnderstand {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "mustUnderstand"}, Value: "1"})
		}
		start := xml.StartElement{Name: xml.Name{Local: h.Name}, Attr: attrs}
		if err := enc.EncodeElement(f.Interface(), start); err != nil {
			return nil, fmt.Errorf("encoding response header %q: %w", h.Name, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
