package dispatch

import "github.com/vikstrom/soaphost/pkg/soap"

// Options configures an Endpoint: the HTTP path it answers on, which
// encoders it negotiates between, and how GET metadata requests are served.
type Options struct {
	// Path is the HTTP path this endpoint is mounted at.
	Path string `yaml:"path" json:"path"`

	// CaseInsensitivePath matches Path case-insensitively.
	CaseInsensitivePath bool `yaml:"caseInsensitivePath,omitempty" json:"caseInsensitivePath,omitempty"`

	// Encoders configures the version(s)/addressing/encoding this endpoint
	// negotiates; the first is the default. When empty, a single SOAP 1.1
	// encoder is used.
	Encoders []soap.EncoderOptions `yaml:"encoders,omitempty" json:"encoders,omitempty"`

	// HTTPGetEnabled allows GET ?wsdl / ?xsd requests over plain HTTP.
	HTTPGetEnabled bool `yaml:"httpGetEnabled,omitempty" json:"httpGetEnabled,omitempty"`

	// HTTPSGetEnabled allows GET ?wsdl / ?xsd requests over HTTPS. Checked
	// via r.TLS != nil; HTTPGetEnabled governs the plaintext case.
	HTTPSGetEnabled bool `yaml:"httpsGetEnabled,omitempty" json:"httpsGetEnabled,omitempty"`

	// WSDLFile is the path to the endpoint's WSDL document, served on
	// GET ?wsdl. Resolved through util.SafeFilePathAllowAbsolute.
	WSDLFile string `yaml:"wsdlFile,omitempty" json:"wsdlFile,omitempty"`

	// XSDFiles maps a schema name (the GET ?xsd&name= query value) to a
	// file path, resolved through util.SafeFilePath (no absolute paths,
	// no traversal: these are always relative to a fixed schema directory).
	XSDFiles map[string]string `yaml:"xsdFiles,omitempty" json:"xsdFiles,omitempty"`

	// XSDGlob, when set, expands to additional XSDFiles entries at
	// construction time: every file the pattern matches is registered under
	// its base name (without extension). Supports "**" recursive matching.
	// Explicit XSDFiles entries take precedence over a glob match of the
	// same name.
	XSDGlob string `yaml:"xsdGlob,omitempty" json:"xsdGlob,omitempty"`

	// UseBasicAuthentication advertises HTTP basic auth in the endpoint's
	// protocol.Metadata capabilities. The dispatcher itself never enforces
	// authentication; that's left to a Filter or to upstream middleware.
	UseBasicAuthentication bool `yaml:"useBasicAuthentication,omitempty" json:"useBasicAuthentication,omitempty"`

	// XMLNamespacePrefixOverrides lets a deployment pin specific namespace
	// prefixes (e.g. "tns") instead of the encoder's defaults, for clients
	// that parse SOAP XML with a fixed prefix expectation instead of by URI.
	XMLNamespacePrefixOverrides map[string]string `yaml:"xmlNamespacePrefixOverrides,omitempty" json:"xmlNamespacePrefixOverrides,omitempty"`
}

func (o Options) encoderOptions() []soap.EncoderOptions {
	if len(o.Encoders) == 0 {
		return []soap.EncoderOptions{{Version: soap.Version11}}
	}
	return o.Encoders
}
