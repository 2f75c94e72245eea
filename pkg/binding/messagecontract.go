package binding

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
)

// bindMessageContract implements Case C: the operation's single parameter
// is itself a message-contract type. Headers are matched by name against
// the request's SOAP headers; body parts are read in ascending
// MessageContractMember.Order, after skipping the wrapper start element
// when the contract is wrapped.
func bindMessageContract(env *soap.Envelope, op *servicemodel.OperationDescription, args []reflect.Value) error {
	mc := op.MessageContract
	wrapper := reflect.New(mc.Type) // *StructType

	if hdec := env.HeaderReader(); hdec != nil && len(mc.Headers) > 0 {
		if err := bindHeaders(hdec, mc, wrapper); err != nil {
			return err
		}
	}

	if !env.IsEmpty && len(mc.BodyParts) > 0 {
		bdec, err := env.BodyReader()
		if err != nil {
			return &Error{Err: err}
		}
		if mc.IsWrapped {
			if err := skipWrapperStart(bdec); err != nil {
				return &Error{Err: err}
			}
		}
		if err := bindBodyParts(bdec, mc, wrapper); err != nil {
			return err
		}
	}

	paramType := op.Parameters[0].Type
	if paramType.Kind() == reflect.Ptr {
		args[0].Set(wrapper)
	} else {
		args[0].Set(wrapper.Elem())
	}
	return nil
}

func bindHeaders(dec *xml.Decoder, mc *servicemodel.MessageContractInfo, wrapper reflect.Value) error {
	byName := make(map[string]servicemodel.MessageContractMember, len(mc.Headers))
	for _, h := range mc.Headers {
		byName[h.Name] = h
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		member, ok := byName[se.Name.Local]
		if !ok {
			if err := dec.Skip(); err != nil {
				return nil
			}
			continue
		}
		field := wrapper.Elem().FieldByName(member.FieldName)
		ptr := reflect.New(field.Type())
		if err := dec.DecodeElement(ptr.Interface(), &se); err != nil {
			return &Error{Parameter: member.FieldName, Err: err}
		}
		field.Set(ptr.Elem())
	}
}

func bindBodyParts(dec *xml.Decoder, mc *servicemodel.MessageContractInfo, wrapper reflect.Value) error {
	ordered := make([]servicemodel.MessageContractMember, len(mc.BodyParts))
	copy(ordered, mc.BodyParts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	next := 0
Loop:
	for next < len(ordered) {
		tok, err := dec.Token()
		if err != nil {
			break Loop
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue Loop
		}
		member := ordered[next]
		if se.Name.Local != member.Name {
			if err := dec.Skip(); err != nil {
				break Loop
			}
			continue Loop
		}
		field := wrapper.Elem().FieldByName(member.FieldName)
		ptr := reflect.New(field.Type())
		if err := dec.DecodeElement(ptr.Interface(), &se); err != nil {
			return &Error{Parameter: member.FieldName, Err: err}
		}
		field.Set(ptr.Elem())
		next++
	}

	if next < len(ordered) {
		return &Error{Err: fmt.Errorf("message contract: missing body part %q", ordered[next].Name)}
	}
	return nil
}
