package protocol

// Protocol identifies the wire protocol a handler serves.
type Protocol string

// ProtocolSOAP is the only protocol this module's dispatcher serves.
const ProtocolSOAP Protocol = "soap"

// String returns the string representation of the protocol.
func (p Protocol) String() string {
	return string(p)
}

// Capability identifies an optional feature a handler supports.
// Use Metadata.HasCapability to check support without a type assertion.
type Capability string

// Capability constants relevant to a SOAP endpoint.
const (
	// CapabilityMetrics indicates the handler exposes operational metrics.
	CapabilityMetrics Capability = "metrics"

	// CapabilitySchemaIntrospect indicates the handler can emit its own
	// WSDL/XSD metadata on request.
	CapabilitySchemaIntrospect Capability = "schema_introspect"

	// CapabilityBasicAuth indicates the endpoint advertises basic
	// authentication in its metadata. The core never enforces this itself.
	CapabilityBasicAuth Capability = "basic_auth"
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// TransportType indicates the underlying transport mechanism.
type TransportType string

// TransportHTTP1 is the only transport a SOAP endpoint runs over.
const TransportHTTP1 TransportType = "http1"

// String returns the string representation of the transport type.
func (t TransportType) String() string {
	return string(t)
}

// ConnectionModel describes the connection lifecycle pattern.
type ConnectionModel string

// ConnectionModelStateless is the only connection model a request/response
// SOAP endpoint has: no state is retained between requests by the core.
const ConnectionModelStateless ConnectionModel = "stateless"

// String returns the string representation of the connection model.
func (c ConnectionModel) String() string {
	return string(c)
}

// CommunicationPattern describes the message flow pattern.
type CommunicationPattern string

// PatternRequestResponse is the only communication pattern SOAP dispatch uses.
const PatternRequestResponse CommunicationPattern = "request_response"

// String returns the string representation of the communication pattern.
func (p CommunicationPattern) String() string {
	return string(p)
}
