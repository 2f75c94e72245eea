package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"net/http"
)

// ErrBodyAlreadyConsumed is returned by Envelope.BodyReader when called a
// second time on the same request. The body is a single-pass stream; only
// the Argument Binder is expected to consume it.
var ErrBodyAlreadyConsumed = errors.New("soap: envelope body already consumed")

// EncoderOptions configures one member of an EncoderSet: a SOAP version, an
// optional WS-Addressing version, output text encoding, and formatting.
type EncoderOptions struct {
	Version            Version           `yaml:"version" json:"version"`
	Addressing         AddressingVersion `yaml:"addressing,omitempty" json:"addressing,omitempty"`
	WriteEncoding      string            `yaml:"writeEncoding,omitempty" json:"writeEncoding,omitempty"`
	OmitXMLDeclaration bool              `yaml:"omitXmlDeclaration,omitempty" json:"omitXmlDeclaration,omitempty"`
	IndentXML          bool              `yaml:"indentXml,omitempty" json:"indentXml,omitempty"`
	MaxEnvelopeBytes   int64             `yaml:"maxEnvelopeBytes,omitempty" json:"maxEnvelopeBytes,omitempty"`
}

// DefaultMaxEnvelopeBytes bounds the request body read when an
// EncoderOptions leaves MaxEnvelopeBytes unset.
const DefaultMaxEnvelopeBytes = 10 << 20 // 10 MiB

func (o EncoderOptions) maxBytes() int64 {
	if o.MaxEnvelopeBytes > 0 {
		return o.MaxEnvelopeBytes
	}
	return DefaultMaxEnvelopeBytes
}

func (o EncoderOptions) contentType() string {
	if o.Version == Version12 {
		return ContentType12
	}
	return ContentType11
}

func (o EncoderOptions) namespace() string {
	if o.Version == Version12 {
		return NS12
	}
	return NS11
}

// ResponseOverride lets user service code (or a dispatch Tuner) attach
// HTTP-response-level overrides to the current operation's reply. Status and
// Headers are applied on both the success path and the fault path; Reason
// is carried but not used by the dispatcher.
type ResponseOverride struct {
	Status  int
	Reason  string
	Headers http.Header
}

const responseOverrideKey = "soap.responseOverride"

// Envelope is the runtime, already-demultiplexed view of one SOAP message:
// a header reader, a body reader positioned before the body's root element,
// and WS-Addressing fields lifted out for convenient access.
type Envelope struct {
	Version   Version
	Action    string
	MessageID string
	RelatesTo string
	ReplyTo   string
	To        string
	IsEmpty   bool

	// RequestContentType is the content-type the request carried. It is
	// recorded only; responses, faults included, are written with the
	// encoder's own content-type, not this value.
	RequestContentType string

	headerXML    []byte
	bodyXML      []byte
	bodyConsumed bool

	// Properties carries arbitrary per-message state, notably a
	// ResponseOverride attached by user code or the fault path.
	Properties map[string]any
}

// IsFault reports whether the envelope's body root element is a SOAP Fault.
func (e *Envelope) IsFault() bool {
	dec := xml.NewDecoder(bytes.NewReader(e.bodyXML))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local == "Fault"
		}
	}
}

// BodyReader returns a decoder positioned at the start of the body content,
// for exactly one call. A second call returns ErrBodyAlreadyConsumed.
func (e *Envelope) BodyReader() (*xml.Decoder, error) {
	if e.bodyConsumed {
		return nil, ErrBodyAlreadyConsumed
	}
	e.bodyConsumed = true
	return xml.NewDecoder(bytes.NewReader(e.bodyXML)), nil
}

// HeaderReader returns a decoder over the raw header content, or nil if the
// envelope carried no Header element.
func (e *Envelope) HeaderReader() *xml.Decoder {
	if len(e.headerXML) == 0 {
		return nil
	}
	return xml.NewDecoder(bytes.NewReader(e.headerXML))
}

// RawBodyXML returns the raw inner-XML bytes of the Body element. Unlike
// BodyReader, it can be called any number of times and does not mark the
// body consumed — it exists for request logging, which needs to display the
// body independent of whatever the Argument Binder already streamed through.
func (e *Envelope) RawBodyXML() []byte { return e.bodyXML }

// RawHeaderXML returns the raw inner-XML bytes of the Header element, or nil
// if the envelope carried none.
func (e *Envelope) RawHeaderXML() []byte { return e.headerXML }

// SetResponseOverride attaches an HTTP-response override to this envelope.
func (e *Envelope) SetResponseOverride(o ResponseOverride) {
	if e.Properties == nil {
		e.Properties = make(map[string]any, 1)
	}
	e.Properties[responseOverrideKey] = o
}

// ResponseOverride returns the attached override, if any.
func (e *Envelope) ResponseOverride() (ResponseOverride, bool) {
	v, ok := e.Properties[responseOverrideKey]
	if !ok {
		return ResponseOverride{}, false
	}
	o, ok := v.(ResponseOverride)
	return o, ok
}
