// Package metrics provides Prometheus-compatible metrics collection for the
// SOAP endpoint.
//
// This package implements the Prometheus text exposition format (text/plain; version=0.0.4)
// without any external dependencies, using only the standard library.
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., dispatch counts)
//   - Gauge: value that can go up or down (e.g., uptime)
//   - Histogram: distribution of values with configurable buckets (e.g., dispatch latency)
//
// All metrics are thread-safe and can be updated from multiple goroutines.
//
// # Default Metrics
//
// The package provides pre-defined metrics for tracking endpoint activity:
//
//   - soaphost_dispatch_total: Counter for dispatched operations (labels: operation, status)
//   - soaphost_dispatch_duration_seconds: Histogram for dispatch latency (labels: operation)
//   - soaphost_faults_total: Counter for emitted SOAP faults (labels: kind)
//   - soaphost_oneway_total: Counter for one-way invocations (labels: operation)
//   - soaphost_metadata_requests_total: Counter for GET wsdl/xsd requests (labels: kind)
//
// # Usage
//
//	// Initialize the default metrics registry
//	registry := metrics.Init()
//
//	if vec, err := metrics.DispatchTotal.WithLabels("GetWidget", "ok"); err == nil {
//	    _ = vec.Inc()
//	}
//	if vec, err := metrics.DispatchDuration.WithLabels("GetWidget"); err == nil {
//	    vec.Observe(0.123)
//	}
//
//	// Register the /metrics endpoint
//	http.Handle("/metrics", registry.Handler())
//
// Custom metrics can also be created:
//
//	registry := metrics.NewRegistry()
//	counter := registry.NewCounter("my_counter", "Description of counter", "label1", "label2")
//	vec, err := counter.WithLabels("value1", "value2") // err on a label-count mismatch
//	if err == nil {
//	    _ = vec.Inc()
//	}
package metrics
