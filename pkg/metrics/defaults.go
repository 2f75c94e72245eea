package metrics

import "sync"

// Default metrics for the SOAP endpoint.
// These are initialized by calling Init().
var (
	// DispatchTotal counts dispatched operation invocations.
	// Labels: operation, status (ok, fault)
	DispatchTotal *Counter

	// DispatchDuration tracks end-to-end dispatch latency in seconds.
	// Labels: operation
	DispatchDuration *Histogram

	// FaultsTotal counts emitted SOAP faults.
	// Labels: kind (malformed_envelope, no_operation, binding_error,
	// filter_rejection, invocation_error, response_write_error, internal_error)
	FaultsTotal *Counter

	// OneWayTotal counts one-way operation invocations (HTTP 202 responses).
	// Labels: operation
	OneWayTotal *Counter

	// MetadataRequestsTotal counts GET requests served from the Router's
	// metadata/XSD branch.
	// Labels: kind (wsdl, xsd)
	MetadataRequestsTotal *Counter

	// UptimeSeconds is a gauge of the server uptime in seconds.
	UptimeSeconds *Gauge

	// defaultRegistry is the global metrics registry.
	defaultRegistry *Registry

	// initOnce ensures Init() is only called once.
	initOnce sync.Once
)

// Init initializes the default metrics and returns the registry.
// This function is idempotent and safe to call multiple times.
func Init() *Registry {
	initOnce.Do(func() {
		defaultRegistry = NewRegistry()

		DispatchTotal = defaultRegistry.NewCounter(
			"soaphost_dispatch_total",
			"Total number of dispatched SOAP operation invocations",
			"operation", "status",
		)

		DispatchDuration = defaultRegistry.NewHistogram(
			"soaphost_dispatch_duration_seconds",
			"End-to-end dispatch latency in seconds",
			DefaultBuckets,
			"operation",
		)

		FaultsTotal = defaultRegistry.NewCounter(
			"soaphost_faults_total",
			"Total number of SOAP faults emitted",
			"kind",
		)

		OneWayTotal = defaultRegistry.NewCounter(
			"soaphost_oneway_total",
			"Total number of one-way operation invocations",
			"operation",
		)

		MetadataRequestsTotal = defaultRegistry.NewCounter(
			"soaphost_metadata_requests_total",
			"Total number of GET metadata requests served",
			"kind",
		)

		UptimeSeconds = defaultRegistry.NewGauge(
			"soaphost_uptime_seconds",
			"Server uptime in seconds",
		)
	})

	return defaultRegistry
}

// DefaultRegistry returns the default metrics registry.
// Returns nil if Init() has not been called.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Reset resets all default metrics. Useful for testing.
// This also resets the initOnce, allowing Init() to be called again.
func Reset() {
	initOnce = sync.Once{}
	defaultRegistry = nil
	DispatchTotal = nil
	DispatchDuration = nil
	FaultsTotal = nil
	OneWayTotal = nil
	MetadataRequestsTotal = nil
	UptimeSeconds = nil
}
