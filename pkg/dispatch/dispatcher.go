// Package dispatch implements the Operation Dispatcher and Endpoint Router:
// the component that ties the Message Encoder Set, Service Model, Argument
// Binder, and Fault Transformer together into one http.Handler. It runs the
// per-request state machine (Start -> EnvRead -> Filtered -> Resolved ->
// Matched -> Invoked -> Written|Faulting -> Done), applies Filters and
// Inspectors in their asymmetric forward/reverse order, and records
// operational metrics and request log entries for every request it handles.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/vikstrom/soaphost/pkg/binding"
	"github.com/vikstrom/soaphost/pkg/logging"
	"github.com/vikstrom/soaphost/pkg/metrics"
	"github.com/vikstrom/soaphost/pkg/protocol"
	"github.com/vikstrom/soaphost/pkg/requestlog"
	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
	"github.com/vikstrom/soaphost/pkg/soapfault"
	"github.com/vikstrom/soaphost/pkg/util"
)

// Interface compliance checks.
var (
	_ protocol.Handler         = (*Endpoint)(nil)
	_ protocol.HTTPHandler     = (*Endpoint)(nil)
	_ protocol.Loggable        = (*Endpoint)(nil)
	_ protocol.RequestLoggable = (*Endpoint)(nil)
	_ protocol.Observable      = (*Endpoint)(nil)
)

// Endpoint is a fully built SOAP endpoint: a service instance plus its
// ServiceDescription, mounted at a path, negotiating among a configured set
// of encoders. Construct one with NewEndpoint, attach Filters/Inspectors/
// Tuners with Use/Inspect/Tune, then register it as an http.Handler (its
// Pattern() names the path to mount it at).
type Endpoint struct {
	id      string
	opts    Options
	service reflect.Value
	desc    *servicemodel.ServiceDescription

	encoders *soap.EncoderSet

	filters    []Filter
	inspectors []Inspector
	tuners     []Tuner

	logMu sync.RWMutex
	log   *slog.Logger

	reqLogMu sync.RWMutex
	reqLog   requestlog.Logger

	startedAt    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEndpoint builds an Endpoint from a concrete service instance and the
// ServiceDescription servicemodel.Build produced for it. service must be the
// exact same pointer type (not merely an assignable one) that was passed to
// Build, since ServiceDescription.ServiceType was captured from it.
func NewEndpoint(id string, service any, desc *servicemodel.ServiceDescription, opts Options) (*Endpoint, error) {
	if desc == nil {
		return nil, fmt.Errorf("dispatch: ServiceDescription cannot be nil")
	}
	v := reflect.ValueOf(service)
	if !v.IsValid() || v.Type() != desc.ServiceType {
		return nil, fmt.Errorf("dispatch: service type %T does not match the type ServiceDescription was built from (%s)", service, desc.ServiceType)
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("dispatch: Options.Path is required")
	}
	if err := expandXSDGlob(&opts); err != nil {
		return nil, fmt.Errorf("dispatch: expanding Options.XSDGlob: %w", err)
	}

	return &Endpoint{
		id:       id,
		opts:     opts,
		service:  v,
		desc:     desc,
		encoders: soap.NewEncoderSet(opts.encoderOptions()...),
		log:      logging.Nop(),
	}, nil
}

// expandXSDGlob resolves Options.XSDGlob (when set) into additional
// Options.XSDFiles entries, one per matched file, keyed by its base name
// with the extension stripped. An explicit XSDFiles entry for the same name
// always wins over a glob match. Modeled on the config loader's
// glob-then-fall-back-to-filepath.Glob pattern for "**" support.
func expandXSDGlob(opts *Options) error {
	if opts.XSDGlob == "" {
		return nil
	}
	matches, err := expandGlob(opts.XSDGlob)
	if err != nil {
		return err
	}
	if opts.XSDFiles == nil {
		opts.XSDFiles = make(map[string]string, len(matches))
	}
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		if _, exists := opts.XSDFiles[name]; exists {
			continue
		}
		opts.XSDFiles[name] = m
	}
	return nil
}

func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

// Use appends Filters, applied in declared order across every call to Use.
func (e *Endpoint) Use(filters ...Filter) *Endpoint {
	e.filters = append(e.filters, filters...)
	return e
}

// Inspect appends Inspectors, applied in declared order across every call.
func (e *Endpoint) Inspect(inspectors ...Inspector) *Endpoint {
	e.inspectors = append(e.inspectors, inspectors...)
	return e
}

// Tune appends Tuners, applied in declared order across every call.
func (e *Endpoint) Tune(tuners ...Tuner) *Endpoint {
	e.tuners = append(e.tuners, tuners...)
	return e
}

// SetLogger implements protocol.Loggable.
func (e *Endpoint) SetLogger(log *slog.Logger) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	e.log = log
}

func (e *Endpoint) logger() *slog.Logger {
	e.logMu.RLock()
	defer e.logMu.RUnlock()
	return e.log
}

// SetRequestLogger implements protocol.RequestLoggable.
func (e *Endpoint) SetRequestLogger(logger requestlog.Logger) {
	e.reqLogMu.Lock()
	defer e.reqLogMu.Unlock()
	e.reqLog = logger
}

// GetRequestLogger implements protocol.RequestLoggable.
func (e *Endpoint) GetRequestLogger() requestlog.Logger {
	e.reqLogMu.RLock()
	defer e.reqLogMu.RUnlock()
	return e.reqLog
}

// Metadata implements protocol.Handler.
func (e *Endpoint) Metadata() protocol.Metadata {
	caps := []protocol.Capability{protocol.CapabilityMetrics, protocol.CapabilitySchemaIntrospect}
	if e.opts.UseBasicAuthentication {
		caps = append(caps, protocol.CapabilityBasicAuth)
	}
	return protocol.Metadata{
		ID:                   e.id,
		Protocol:             protocol.ProtocolSOAP,
		TransportType:        protocol.TransportHTTP1,
		ConnectionModel:      protocol.ConnectionModelStateless,
		CommunicationPattern: protocol.PatternRequestResponse,
		Capabilities:         caps,
	}
}

// Start implements protocol.Handler. An Endpoint has no listening socket of
// its own; it is registered into an *http.ServeMux by its caller.
func (e *Endpoint) Start(ctx context.Context) error {
	e.startedAt = time.Now()
	return nil
}

// Stop implements protocol.Handler.
func (e *Endpoint) Stop(ctx context.Context, timeout time.Duration) error {
	return nil
}

// Health implements protocol.Handler.
func (e *Endpoint) Health(ctx context.Context) protocol.HealthStatus {
	return protocol.HealthStatus{Status: protocol.HealthHealthy, CheckedAt: time.Now()}
}

// Pattern implements protocol.HTTPHandler.
func (e *Endpoint) Pattern() string {
	return e.opts.Path
}

// Stats implements protocol.Observable.
func (e *Endpoint) Stats() protocol.Stats {
	stats := protocol.Stats{
		Running:      !e.startedAt.IsZero(),
		StartedAt:    e.startedAt,
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
	if stats.Running {
		stats.Uptime = time.Since(e.startedAt)
	}
	return stats
}

// ServeHTTP implements http.Handler: routes GET metadata requests and POST
// operation requests; anything else (wrong path, wrong method) is a 404/405.
// A panic escaping the handler is logged at error level and re-raised.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger().Error("unhandled failure serving soap request", "path", r.URL.Path, "panic", rec)
			panic(rec)
		}
	}()
	if !pathMatches(r.URL.Path, e.opts) {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		serveMetadata(w, r, e.opts)
	case http.MethodPost:
		e.dispatch(w, r)
	default:
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// dispatch runs the Operation Dispatcher state machine for one POST request.
func (e *Endpoint) dispatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := &OperationContext{HTTPRequest: r, HTTPResponse: w, Stage: StageStart}

	enc := e.encoders.Select(r)
	ctx.Encoder = enc

	env, err := enc.Read(r)
	if err != nil {
		e.fault(ctx, enc, soapfault.KindMalformedEnvelope, err, start, "", nil)
		return
	}
	ctx.Envelope = env
	ctx.Stage = StageEnvRead

	if err := e.runRequestFilters(ctx); err != nil {
		e.fault(ctx, enc, soapfault.KindFilterRejection, err, start, "", nil)
		return
	}
	ctx.Stage = StageFiltered

	contract, op, ok := e.desc.FindOperation(env.Action)
	if !ok {
		e.fault(ctx, enc, soapfault.KindNoOperation, fmt.Errorf("no operation matches SOAP action %q", env.Action), start, "", nil)
		return
	}
	ctx.Contract = contract
	ctx.Operation = op
	ctx.Stage = StageResolved

	correlations := make([]any, len(e.inspectors))
	for i, insp := range e.inspectors {
		correlations[i] = insp.AfterReceiveRequest(ctx)
	}
	ctx.Stage = StageMatched

	args, err := binding.Bind(env, op, r)
	if err != nil {
		e.fault(ctx, enc, soapfault.KindBindingError, err, start, op.Name, correlations)
		return
	}
	ctx.Args = args

	results, err := servicemodel.Invoke(e.service, op, args)
	if err != nil {
		cause := servicemodel.UnwrapInvocation(err)
		e.logger().Error("soap operation invocation failed", "operation", op.Name, "error", cause)
		e.fault(ctx, enc, soapfault.KindInvocationError, cause, start, op.Name, correlations)
		return
	}
	ctx.Results = results
	ctx.Stage = StageInvoked

	if op.IsOneWay {
		e.writeOneWay(ctx, enc, op, start, correlations)
		return
	}

	bodyXML, err := buildResponseBody(contract, op, args, results)
	if err != nil {
		e.fault(ctx, enc, soapfault.KindResponseWriteError, err, start, op.Name, correlations)
		return
	}
	headerXML := buildResponseHeaders(enc, env, op)
	if len(results) > 0 {
		msgHeaderXML, err := responseHeaderElements(op, contract.Namespace, results[0])
		if err != nil {
			e.fault(ctx, enc, soapfault.KindResponseWriteError, err, start, op.Name, correlations)
			return
		}
		headerXML = append(headerXML, msgHeaderXML...)
	}

	if err := e.runResponseFilters(ctx); err != nil {
		e.fault(ctx, enc, soapfault.KindFilterRejection, err, start, op.Name, correlations)
		return
	}

	for i := len(e.inspectors) - 1; i >= 0; i-- {
		e.inspectors[i].BeforeSendReply(ctx, correlations[i])
	}
	for _, t := range e.tuners {
		t.TuneReply(ctx)
	}

	status, extraHeaders := responseOverride(env)
	for k, vals := range extraHeaders {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	if err := enc.Write(w, status, op.ReplyAction, headerXML, bodyXML); err != nil {
		e.logger().Error("writing soap response failed", "operation", op.Name, "error", err)
	}
	ctx.Stage = StageWritten

	e.recordSuccess(r, env, op, start, status)
}

// runRequestFilters applies every Filter's AfterReceiveRequest in declared
// order, stopping at the first rejection.
func (e *Endpoint) runRequestFilters(ctx *OperationContext) error {
	for _, f := range e.filters {
		if err := f.AfterReceiveRequest(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runResponseFilters applies every Filter's BeforeSendReply in reverse
// declared order, stopping at the first rejection.
func (e *Endpoint) runResponseFilters(ctx *OperationContext) error {
	for i := len(e.filters) - 1; i >= 0; i-- {
		if err := e.filters[i].BeforeSendReply(ctx); err != nil {
			return err
		}
	}
	return nil
}

// responseOverride reads a ResponseOverride attached to env (by user code
// via servicemodel.RequestContext.Envelope, or by a Tuner), defaulting to
// HTTP 200 with no extra headers.
func responseOverride(env *soap.Envelope) (int, http.Header) {
	if ov, ok := env.ResponseOverride(); ok {
		status := ov.Status
		if status == 0 {
			status = http.StatusOK
		}
		return status, ov.Headers
	}
	return http.StatusOK, nil
}

// faultResponseOverride reads a ResponseOverride attached to env (set by
// user code before it threw, or by a Tuner running on the fault path),
// defaulting to HTTP 500 with no extra headers. env is nil when the
// failure happened before an envelope was parsed.
func faultResponseOverride(env *soap.Envelope) (int, http.Header) {
	if env == nil {
		return http.StatusInternalServerError, nil
	}
	if ov, ok := env.ResponseOverride(); ok {
		status := ov.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, ov.Headers
	}
	return http.StatusInternalServerError, nil
}

// writeOneWay completes a one-way operation: no body is written, the
// response filter/inspector/tuner passes still run against an empty
// OperationContext.Results-bearing context, and the HTTP status is 202
// Accepted per the one-way messaging pattern.
func (e *Endpoint) writeOneWay(ctx *OperationContext, enc *soap.Encoder, op *servicemodel.OperationDescription, start time.Time, correlations []any) {
	if err := e.runResponseFilters(ctx); err != nil {
		e.fault(ctx, enc, soapfault.KindFilterRejection, err, start, op.Name, correlations)
		return
	}
	for i := len(e.inspectors) - 1; i >= 0; i-- {
		e.inspectors[i].BeforeSendReply(ctx, correlations[i])
	}
	for _, t := range e.tuners {
		t.TuneReply(ctx)
	}

	ctx.HTTPResponse.WriteHeader(http.StatusAccepted)
	ctx.Stage = StageWritten

	if metrics.OneWayTotal != nil {
		if vec, err := metrics.OneWayTotal.WithLabels(op.Name); err == nil {
			_ = vec.Inc()
		}
	}
	e.recordSuccess(ctx.HTTPRequest, ctx.Envelope, op, start, http.StatusAccepted)
}

// fault runs the Fault Transformer and writes a SOAP fault response. enc may
// be nil if the failure happened before an encoder could be selected (it
// never is, in practice, since Select always returns the default encoder),
// opName is empty when the failure happened before an operation was
// resolved, and correlations is nil when inspectors never ran for this
// request (so BeforeSendReply is skipped rather than called with no
// matching AfterReceiveRequest).
func (e *Endpoint) fault(ctx *OperationContext, enc *soap.Encoder, kind soapfault.Kind, cause error, start time.Time, opName string, correlations []any) {
	ctx.Stage = StageFaulting
	ctx.Err = cause

	if enc == nil {
		enc = e.encoders.Default()
	}

	bodyXML, err := soapfault.Build(enc.Options.Version, kind, cause)
	if err != nil {
		e.logger().Error("building soap fault failed", "error", err)
		http.Error(ctx.HTTPResponse, "internal server error", http.StatusInternalServerError)
		return
	}

	// Response filters still run on the fault exit path; a rejection here
	// is logged, not re-faulted (the fault is already being written).
	if filterErr := e.runResponseFilters(ctx); filterErr != nil {
		e.logger().Error("response filter rejected a fault response", "error", filterErr)
	}

	if correlations != nil {
		for i := len(e.inspectors) - 1; i >= 0; i-- {
			e.inspectors[i].BeforeSendReply(ctx, correlations[i])
		}
	}
	for _, t := range e.tuners {
		t.TuneReply(ctx)
	}

	status, extraHeaders := faultResponseOverride(ctx.Envelope)
	for k, vals := range extraHeaders {
		for _, v := range vals {
			ctx.HTTPResponse.Header().Add(k, v)
		}
	}

	if writeErr := enc.Write(ctx.HTTPResponse, status, "", nil, bodyXML); writeErr != nil {
		e.logger().Error("writing soap fault response failed", "error", writeErr)
	}
	ctx.Stage = StageDone

	e.recordFault(ctx, kind, opName, start)
}

// recordSuccess updates metrics and emits a request log entry for a
// successfully dispatched (possibly one-way) operation.
func (e *Endpoint) recordSuccess(r *http.Request, env *soap.Envelope, op *servicemodel.OperationDescription, start time.Time, status int) {
	duration := time.Since(start)
	e.requestCount.Add(1)

	if metrics.DispatchTotal != nil {
		if vec, err := metrics.DispatchTotal.WithLabels(op.Name, "ok"); err == nil {
			_ = vec.Inc()
		}
	}
	if metrics.DispatchDuration != nil {
		if vec, err := metrics.DispatchDuration.WithLabels(op.Name); err == nil {
			vec.Observe(duration.Seconds())
		}
	}

	e.logEntry(r, env, op.Name, env.Action, string(env.Version), status, op.IsOneWay, false, "", start, duration, "")
}

// recordFault updates metrics and emits a request log entry for a faulted
// dispatch. opName may be empty (no operation was resolved).
func (e *Endpoint) recordFault(ctx *OperationContext, kind soapfault.Kind, opName string, start time.Time) {
	duration := time.Since(start)
	e.requestCount.Add(1)
	e.errorCount.Add(1)

	if metrics.FaultsTotal != nil {
		if vec, err := metrics.FaultsTotal.WithLabels(string(kind)); err == nil {
			_ = vec.Inc()
		}
	}
	if metrics.DispatchTotal != nil {
		label := opName
		if label == "" {
			label = "unresolved"
		}
		if vec, err := metrics.DispatchTotal.WithLabels(label, "fault"); err == nil {
			_ = vec.Inc()
		}
	}

	action, version := "", "1.1"
	if ctx.Envelope != nil {
		action = ctx.Envelope.Action
		version = string(ctx.Envelope.Version)
	}
	errMsg := ""
	if ctx.Err != nil {
		errMsg = ctx.Err.Error()
	}
	e.logEntry(ctx.HTTPRequest, ctx.Envelope, opName, action, version, http.StatusInternalServerError, false, true, string(kind), start, duration, errMsg)
}

// logEntry builds and emits one requestlog.Entry.
func (e *Endpoint) logEntry(r *http.Request, env *soap.Envelope, operation, action, version string, status int, isOneWay, isFault bool, faultKind string, start time.Time, duration time.Duration, errMsg string) {
	logger := e.GetRequestLogger()
	if logger == nil {
		return
	}

	var bodyStr string
	if env != nil {
		bodyStr = string(env.RawBodyXML())
	}

	entry := &requestlog.Entry{
		ID:             uuid.New().String(),
		Timestamp:      start,
		Method:         http.MethodPost,
		Path:           e.opts.Path,
		QueryString:    r.URL.RawQuery,
		Headers:        r.Header,
		Body:           util.TruncateBody(bodyStr, 0),
		BodySize:       len(bodyStr),
		RemoteAddr:     r.RemoteAddr,
		ResponseStatus: status,
		DurationMs:     int(duration.Milliseconds()),
		Error:          errMsg,
		SOAP: &requestlog.SOAPMeta{
			Operation:   operation,
			SOAPAction:  action,
			SOAPVersion: version,
			IsOneWay:    isOneWay,
			IsFault:     isFault,
			FaultCode:   faultKind,
		},
	}
	logger.Log(entry)
}
