package dispatch

import (
	"net/http"
	"reflect"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
)

// Stage is the Operation Dispatcher's state machine position for one
// request: Start -> EnvRead -> Filtered -> Resolved -> Matched -> Invoked ->
// Written, with Faulting reachable from any stage and always leading to
// Done.
type Stage int

const (
	StageStart Stage = iota
	StageEnvRead
	StageFiltered
	StageResolved
	StageMatched
	StageInvoked
	StageWritten
	StageFaulting
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageEnvRead:
		return "env_read"
	case StageFiltered:
		return "filtered"
	case StageResolved:
		return "resolved"
	case StageMatched:
		return "matched"
	case StageInvoked:
		return "invoked"
	case StageWritten:
		return "written"
	case StageFaulting:
		return "faulting"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// OperationContext is the mutable record of one request's progress through
// the dispatcher, passed to every Filter, Inspector, and Tuner. Fields are
// populated incrementally as Stage advances; a Filter's AfterReceiveRequest
// runs at StageEnvRead and sees a nil Operation and Args, for example.
type OperationContext struct {
	HTTPRequest  *http.Request
	HTTPResponse http.ResponseWriter

	Encoder  *soap.Encoder
	Envelope *soap.Envelope

	Contract  *servicemodel.ContractDescription
	Operation *servicemodel.OperationDescription

	Args    []reflect.Value
	Results []reflect.Value

	Stage Stage
	Err   error

	// Properties carries filter/inspector/tuner state across the request,
	// keyed by whatever name the component chooses.
	Properties map[string]any
}

// Set stores a value under key in Properties, creating the map if needed.
func (c *OperationContext) Set(key string, value any) {
	if c.Properties == nil {
		c.Properties = make(map[string]any, 1)
	}
	c.Properties[key] = value
}

// Get retrieves a value previously stored with Set.
func (c *OperationContext) Get(key string) (any, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// Filter can inspect and reject a request before it is bound and invoked,
// and can inspect and reject a response before it is written. Filters run
// in declared order on the request path (AfterReceiveRequest) and in
// reverse declared order on the response path (BeforeSendReply), so the
// first filter to see the request is the last to see the reply — the usual
// middleware-as-an-onion ordering. Returning a non-nil error rejects the
// request/response with a filter_rejection fault; the remaining filters in
// that pass are skipped.
type Filter interface {
	AfterReceiveRequest(ctx *OperationContext) error
	BeforeSendReply(ctx *OperationContext) error
}

// Inspector observes a request/response pair without being able to reject
// either. Each inspector's AfterReceiveRequest return value is threaded back
// into that same inspector's BeforeSendReply call via a per-request
// correlation slot, so an inspector can pass state between the two calls
// (e.g. a start timestamp) without a mutable field on the inspector value
// itself, which would race across concurrent requests. Inspectors run after
// all Filters, in declared order for AfterReceiveRequest and reverse
// declared order for BeforeSendReply.
type Inspector interface {
	AfterReceiveRequest(ctx *OperationContext) (correlationState any)
	BeforeSendReply(ctx *OperationContext, correlationState any)
}

// Tuner adjusts the outgoing reply immediately before serialization: setting
// a response header or overriding the HTTP status via
// soap.Envelope.SetResponseOverride. On the fault path the fault body is
// already built when tuners run, and a Tuner cannot change it. Tuners run
// last, after every Filter and Inspector, in declared order, and cannot
// reject the response.
type Tuner interface {
	TuneReply(ctx *OperationContext)
}
