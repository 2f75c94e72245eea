package servicemodel

// The *Descriptor types below are the author-declared metadata table that
// Build validates against a service's reflect.Type. They exist because Go,
// unlike attribute-driven reflection in other languages, cannot recover a
// method's parameter names or ref/out direction at runtime — the table
// supplies what reflection cannot, and Build uses the service's actual
// reflect.Type only to validate arity/types and to bind the method for
// invocation.

// ParameterDescriptor declares one operation parameter.
type ParameterDescriptor struct {
	Name             string
	Namespace        string // falls back to the contract namespace when empty
	Direction        Direction
	IsRequestContext bool
}

// MessageContractMemberDescriptor declares one header or body-part member
// of a message-contract type.
type MessageContractMemberDescriptor struct {
	FieldName      string // Go struct field name on the message-contract type
	Name           string // XML element name; falls back to FieldName
	Namespace      string
	Order          int
	MustUnderstand bool
}

// MessageContractDescriptor declares the shape of a message-contract
// parameter.
type MessageContractDescriptor struct {
	IsWrapped        bool
	WrapperName      string // derived from the operation name when empty
	WrapperNamespace string // falls back to the contract namespace when empty
	Headers          []MessageContractMemberDescriptor
	BodyParts        []MessageContractMemberDescriptor
}

// OperationDescriptor declares one service method.
type OperationDescriptor struct {
	Name            string
	Action          string // derived as "<ns>/<contract>/<name>" when empty
	ReplyAction     string // derived as Action+"Response" when empty and not one-way
	IsOneWay        bool
	Style           Style
	Parameters      []ParameterDescriptor
	MessageContract *MessageContractDescriptor
	KnownTypes      []any  // zero values of types the binder may need for polymorphic members
	ReturnName      string // element name for the method's non-error return value; defaults to "<Name>Result"

	// ResponseHeaders declares members of the method's return value (which
	// must then be a struct or pointer-to-struct) that get lifted into
	// soap:Header entries instead of the response body, mirroring how
	// MessageContractDescriptor.Headers lifts request members out of the
	// body on the way in.
	ResponseHeaders []MessageContractMemberDescriptor
}

// ContractDescriptor declares one contract's name, namespace, and
// operations.
type ContractDescriptor struct {
	Name       string
	Namespace  string
	Operations []OperationDescriptor
}
