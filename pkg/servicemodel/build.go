package servicemodel

import (
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
)

// Build validates a declarative []ContractDescriptor table against
// service's reflect.Type and returns the immutable ServiceDescription used
// by the rest of the endpoint. service must be a non-nil pointer whose
// method set contains every operation named in the table.
//
// Build is the one place in this module that does real reflection work; it
// runs once at endpoint construction, never per request.
func Build(service any, contracts []ContractDescriptor) (*ServiceDescription, error) {
	if service == nil {
		return nil, fmt.Errorf("servicemodel: service cannot be nil")
	}
	v := reflect.ValueOf(service)
	t := v.Type()
	if t.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("servicemodel: service must be a pointer, got %s", t.Kind())
	}

	sd := &ServiceDescription{ServiceType: t}
	seenActions := make(map[string]bool)

	for _, cd := range contracts {
		contract := ContractDescription{Name: cd.Name, Namespace: cd.Namespace}
		for _, od := range cd.Operations {
			op, err := buildOperation(t, cd, od)
			if err != nil {
				return nil, fmt.Errorf("servicemodel: contract %s operation %s: %w", cd.Name, od.Name, err)
			}
			if seenActions[op.Action] {
				return nil, fmt.Errorf("servicemodel: contract %s: duplicate SOAP action %q", cd.Name, op.Action)
			}
			seenActions[op.Action] = true
			contract.Operations = append(contract.Operations, *op)
		}
		sd.Contracts = append(sd.Contracts, contract)
	}

	return sd, nil
}

func buildOperation(serviceType reflect.Type, cd ContractDescriptor, od OperationDescriptor) (*OperationDescription, error) {
	method, ok := serviceType.MethodByName(od.Name)
	if !ok {
		return nil, fmt.Errorf("method %s not found on %s", od.Name, serviceType)
	}

	action := od.Action
	if action == "" {
		action = fmt.Sprintf("%s/%s/%s", cd.Namespace, cd.Name, od.Name)
	}
	replyAction := od.ReplyAction
	if replyAction == "" && !od.IsOneWay {
		replyAction = action + "Response"
	}

	op := &OperationDescription{
		Name:        od.Name,
		Action:      action,
		ReplyAction: replyAction,
		IsOneWay:    od.IsOneWay,
		Style:       od.Style,
		Method:      method,
	}

	// method.Type includes the receiver at index 0.
	wantIn := method.Type.NumIn() - 1
	if od.Style == StyleMessageContract {
		if len(od.Parameters) != 1 {
			return nil, fmt.Errorf("message-contract operations must declare exactly one parameter, got %d", len(od.Parameters))
		}
	}
	if wantIn != len(od.Parameters) {
		return nil, fmt.Errorf("declared %d parameters but method has %d", len(od.Parameters), wantIn)
	}

	for i, pd := range od.Parameters {
		paramType := method.Type.In(i + 1)
		ns := pd.Namespace
		if ns == "" {
			ns = cd.Namespace
		}
		if pd.IsRequestContext && !IsRequestContextType(paramType) {
			return nil, fmt.Errorf("parameter %d marked as request context but has type %s", i, paramType)
		}
		if pd.Direction != DirIn && paramType.Kind() != reflect.Ptr {
			return nil, fmt.Errorf("parameter %q has direction %s but is not a pointer type (%s)", pd.Name, pd.Direction, paramType)
		}
		op.Parameters = append(op.Parameters, ParameterDescription{
			Index:            i,
			Name:             pd.Name,
			Namespace:        ns,
			Direction:        pd.Direction,
			Type:             paramType,
			IsRequestContext: pd.IsRequestContext,
		})
	}

	if od.MessageContract != nil {
		mc, err := buildMessageContract(cd, od, op.Parameters[0].Type)
		if err != nil {
			return nil, err
		}
		op.MessageContract = mc
	}

	for _, kt := range od.KnownTypes {
		op.KnownTypes = append(op.KnownTypes, reflect.TypeOf(kt))
	}

	if err := resolveReturn(method, od, op); err != nil {
		return nil, err
	}

	return op, nil
}

// resolveReturn validates the method's return arity against the Go
// convention this module supports: zero, one (either the return value or a
// bare error), or two returns (the return value followed by an error).
func resolveReturn(method reflect.Method, od OperationDescriptor, op *OperationDescription) error {
	numOut := method.Type.NumOut()
	switch numOut {
	case 0:
		// no return value
	case 1:
		if method.Type.Out(0) != errType {
			op.HasReturnValue = true
		}
	case 2:
		if method.Type.Out(1) != errType {
			return fmt.Errorf("method %s: second return value must be error, got %s", od.Name, method.Type.Out(1))
		}
		op.HasReturnValue = true
	default:
		return fmt.Errorf("method %s: unsupported return arity %d", od.Name, numOut)
	}

	if !op.HasReturnValue {
		if len(od.ResponseHeaders) > 0 {
			return fmt.Errorf("method %s: response headers declared but method has no return value", od.Name)
		}
		return nil
	}

	op.ReturnName = od.ReturnName
	if op.ReturnName == "" {
		op.ReturnName = od.Name + "Result"
	}

	if len(od.ResponseHeaders) > 0 {
		returnType := method.Type.Out(0)
		structType := returnType
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
		if structType.Kind() != reflect.Struct {
			return fmt.Errorf("method %s: response headers require a struct return value, got %s", od.Name, returnType)
		}
		for _, h := range od.ResponseHeaders {
			if err := validateMember(structType, h.FieldName); err != nil {
				return fmt.Errorf("response header: %w", err)
			}
			op.ResponseHeaders = append(op.ResponseHeaders, toMember(h))
		}
	}
	return nil
}

func buildMessageContract(cd ContractDescriptor, od OperationDescriptor, paramType reflect.Type) (*MessageContractInfo, error) {
	structType := paramType
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("message-contract parameter must be a struct or pointer-to-struct, got %s", paramType)
	}

	md := od.MessageContract
	wrapperName := md.WrapperName
	if wrapperName == "" {
		wrapperName = strcase.ToCamel(od.Name)
	}
	wrapperNS := md.WrapperNamespace
	if wrapperNS == "" {
		wrapperNS = cd.Namespace
	}

	mc := &MessageContractInfo{
		Type:             structType,
		IsWrapped:        md.IsWrapped,
		WrapperName:      wrapperName,
		WrapperNamespace: wrapperNS,
	}

	for _, h := range md.Headers {
		if err := validateMember(structType, h.FieldName); err != nil {
			return nil, fmt.Errorf("header member: %w", err)
		}
		mc.Headers = append(mc.Headers, toMember(h))
	}
	for _, b := range md.BodyParts {
		if err := validateMember(structType, b.FieldName); err != nil {
			return nil, fmt.Errorf("body part: %w", err)
		}
		mc.BodyParts = append(mc.BodyParts, toMember(b))
	}

	return mc, nil
}

func validateMember(structType reflect.Type, fieldName string) error {
	if _, ok := structType.FieldByName(fieldName); !ok {
		return fmt.Errorf("field %q not found on %s", fieldName, structType)
	}
	return nil
}

func toMember(d MessageContractMemberDescriptor) MessageContractMember {
	name := d.Name
	if name == "" {
		name = d.FieldName
	}
	return MessageContractMember{
		FieldName:      d.FieldName,
		Name:           name,
		Namespace:      d.Namespace,
		Order:          d.Order,
		MustUnderstand: d.MustUnderstand,
	}
}
