package dispatch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
)

// buildResponseBody renders a successful operation's non-error return value
// and its Out/InOut parameters into reply body XML. Document-wrapped and RPC
// styles nest these elements inside a "<OperationName>Response>" wrapper;
// document-bare style emits them as direct Body children. Message-contract
// responses are rendered the same way as document-wrapped, since this
// module's MessageContractInfo only describes the request shape — a
// method's return value on a message-contract operation is treated as a
// single wrapped result, not as its own contract type.
func buildResponseBody(contract *servicemodel.ContractDescription, op *servicemodel.OperationDescription, args, results []reflect.Value) ([]byte, error) {
	var members bytes.Buffer
	enc := xml.NewEncoder(&members)

	if op.HasReturnValue && len(results) > 0 {
		bodyValue := results[0]
		if len(op.ResponseHeaders) > 0 {
			bodyValue = stripHeaderFields(bodyValue, op.ResponseHeaders)
		}
		if err := encodeMember(enc, op.ReturnName, bodyValue); err != nil {
			return nil, fmt.Errorf("encoding return value: %w", err)
		}
	}

	for i, p := range op.Parameters {
		if p.Direction != servicemodel.DirOut && p.Direction != servicemodel.DirInOut {
			continue
		}
		if err := encodeMember(enc, p.Name, args[i]); err != nil {
			return nil, fmt.Errorf("encoding out parameter %q: %w", p.Name, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	if op.Style == servicemodel.StyleDocBare {
		return members.Bytes(), nil
	}

	var body bytes.Buffer
	wrapperName := op.Name + "Response"
	fmt.Fprintf(&body, `<%s xmlns=%q>`, wrapperName, contract.Namespace)
	body.Write(members.Bytes())
	fmt.Fprintf(&body, `</%s>`, wrapperName)
	return body.Bytes(), nil
}

// stripHeaderFields returns a copy of v (a return value whose underlying
// type is a struct or pointer-to-struct) with every member named in headers
// zeroed out, so those members appear only in the soap:Header block that
// responseHeaderElements builds from the unmodified original.
func stripHeaderFields(v reflect.Value, headers []servicemodel.MessageContractMember) reflect.Value {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return v
		}
		cp := reflect.New(v.Type().Elem())
		cp.Elem().Set(v.Elem())
		zeroMembers(cp.Elem(), headers)
		return cp
	}

	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	zeroMembers(cp, headers)
	return cp
}

func zeroMembers(structValue reflect.Value, headers []servicemodel.MessageContractMember) {
	for _, h := range headers {
		f := structValue.FieldByName(h.FieldName)
		if f.IsValid() && f.CanSet() {
			f.Set(reflect.Zero(f.Type()))
		}
	}
}

// encodeMember writes v (dereferencing every pointer level, as Out/InOut
// parameters and error-checked returns are pointers or plain values) as an
// element named name; a nil pointer is written as an empty element.
func encodeMember(enc *xml.Encoder, name string, v reflect.Value) error {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return enc.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: name}})
		}
		v = v.Elem()
	}
	return enc.EncodeElement(v.Interface(), xml.StartElement{Name: xml.Name{Local: name}})
}
