// Package requestlog provides types and interfaces for capturing and storing
// SOAP request/response data for later inspection and debugging.
//
// It is distinct from operational logging (pkg/logging, which uses log/slog
// for platform-level diagnostics): an Entry is meant to be queried after the
// fact by an operator, one request at a time.
//
// # Core Types
//
// Entry is the central type representing a captured request/response pair.
// SOAPMeta carries operation-level metadata (matched operation, SOAP action,
// fault state) that is only known once the dispatcher has resolved the
// request.
//
// # Store Interface
//
// Store defines the interface for request history storage:
//   - Recording new entries
//   - Querying by ID or with a Filter
//   - Subscribing to new entries in real time
//   - Clearing history
//
// # Usage
//
//	var store requestlog.Store = requestlog.NewMemoryStore(1000)
//	entry := &requestlog.Entry{
//	    Method: "POST",
//	    Path:   "/svc",
//	    SOAP:   &requestlog.SOAPMeta{Operation: "GetWidget", SOAPVersion: "1.1"},
//	}
//	store.Log(entry)
//
// # Package Design
//
// This is a leaf package with no internal dependencies, so it can be
// imported by any package without creating import cycles.
package requestlog
