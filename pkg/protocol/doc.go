// Package protocol defines the lifecycle and capability contracts an HTTP
// endpoint handler implements so it can be embedded, started, stopped, and
// health-checked uniformly.
//
// # Interface Hierarchy
//
//	Handler (base)
//	├── Loggable          - structured operational logging
//	├── RequestLoggable   - user-visible request/response logging
//	├── Observable        - operational metrics exposure
//	└── HTTPHandler       - HTTP-based handlers (embeds http.Handler)
//
// # Basic Usage
//
//	type MyHandler struct{ id string }
//
//	func (h *MyHandler) Metadata() protocol.Metadata {
//	    return protocol.Metadata{
//	        ID:                   h.id,
//	        Protocol:             protocol.ProtocolSOAP,
//	        TransportType:        protocol.TransportHTTP1,
//	        ConnectionModel:      protocol.ConnectionModelStateless,
//	        CommunicationPattern: protocol.PatternRequestResponse,
//	    }
//	}
//
//	func (h *MyHandler) Start(ctx context.Context) error { return nil }
//	func (h *MyHandler) Stop(ctx context.Context, timeout time.Duration) error { return nil }
//	func (h *MyHandler) Health(ctx context.Context) protocol.HealthStatus {
//	    return protocol.HealthStatus{Status: protocol.HealthHealthy, CheckedAt: time.Now()}
//	}
package protocol
