package dispatch

import (
	"net/http"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/vikstrom/soaphost/pkg/metrics"
	"github.com/vikstrom/soaphost/pkg/util"
)

// pathMatches reports whether reqPath is this endpoint's configured Path,
// honoring Options.CaseInsensitivePath.
func pathMatches(reqPath string, opts Options) bool {
	if opts.CaseInsensitivePath {
		return strings.EqualFold(reqPath, opts.Path)
	}
	return reqPath == opts.Path
}

// getAllowed reports whether a GET metadata request is permitted on the
// connection it arrived on: HTTPSGetEnabled governs TLS connections,
// HTTPGetEnabled governs plaintext.
func getAllowed(r *http.Request, opts Options) bool {
	if r.TLS != nil {
		return opts.HTTPSGetEnabled
	}
	return opts.HTTPGetEnabled
}

// queryFlagPresent reports whether name is present as a query key,
// case-insensitively and regardless of value (?wsdl, ?WSDL=, ?wsdl=1 all match).
func queryFlagPresent(r *http.Request, name string) bool {
	for key := range r.URL.Query() {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

// serveWSDL writes the endpoint's configured WSDL document, or 404 if none
// is configured.
func serveWSDL(w http.ResponseWriter, opts Options) {
	if metrics.MetadataRequestsTotal != nil {
		if vec, err := metrics.MetadataRequestsTotal.WithLabels("wsdl"); err == nil {
			_ = vec.Inc()
		}
	}
	if opts.WSDLFile == "" {
		http.Error(w, "wsdl not configured", http.StatusNotFound)
		return
	}
	cleanPath, safe := util.SafeFilePathAllowAbsolute(opts.WSDLFile)
	if !safe {
		http.Error(w, "unsafe wsdl path", http.StatusInternalServerError)
		return
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		http.Error(w, "wsdl unavailable", http.StatusNotFound)
		return
	}
	if !isWellFormedXML(data) {
		http.Error(w, "configured wsdl is not well-formed XML", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// isWellFormedXML parses data with etree the way the SOAP request path
// parses an incoming envelope, rejecting a misconfigured WSDL/XSD file
// before it reaches a client instead of serving broken XML.
func isWellFormedXML(data []byte) bool {
	doc := etree.NewDocument()
	return doc.ReadFromBytes(data) == nil && doc.Root() != nil
}

// serveXSD writes a named, pre-configured XSD document. The request's
// ?name= value only selects an entry of Options.XSDFiles; an unknown name is
// a 404. Unlike the WSDL file (an operator-supplied absolute or relative
// path), the selected entry's path is checked with SafeFilePath (never
// SafeFilePathAllowAbsolute), so an absolute or ".."-escaping entry is
// refused with a 500 instead of being read.
func serveXSD(w http.ResponseWriter, r *http.Request, opts Options) {
	if metrics.MetadataRequestsTotal != nil {
		if vec, err := metrics.MetadataRequestsTotal.WithLabels("xsd"); err == nil {
			_ = vec.Inc()
		}
	}
	name := r.URL.Query().Get("name")
	path, ok := opts.XSDFiles[name]
	if !ok {
		http.Error(w, "unknown schema", http.StatusNotFound)
		return
	}
	cleanPath, safe := util.SafeFilePath(path)
	if !safe {
		http.Error(w, "unsafe schema path", http.StatusInternalServerError)
		return
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		http.Error(w, "schema unavailable", http.StatusNotFound)
		return
	}
	if !isWellFormedXML(data) {
		http.Error(w, "configured schema is not well-formed XML", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// serveMetadata handles a GET request against the endpoint path: ?wsdl or
// ?xsd&name=, gated by getAllowed. It always writes a response and returns
// true: a GET with neither query present gets a plain 404 here rather than
// being forwarded, since GET is never a valid SOAP verb.
func serveMetadata(w http.ResponseWriter, r *http.Request, opts Options) bool {
	if !getAllowed(r, opts) {
		http.Error(w, "metadata requests are disabled for this endpoint", http.StatusForbidden)
		return true
	}
	switch {
	case queryFlagPresent(r, "wsdl"):
		serveWSDL(w, opts)
		return true
	case queryFlagPresent(r, "xsd"):
		serveXSD(w, r, opts)
		return true
	default:
		http.Error(w, "GET requires ?wsdl or ?xsd&name=", http.StatusNotFound)
		return true
	}
}
