package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoder reads and writes envelopes at one SOAP version / addressing /
// text-encoding combination. An endpoint owns a slice of Encoders in
// declared order (see EncoderSet).
type Encoder struct {
	Options EncoderOptions
}

// NewEncoder returns an Encoder for opts, defaulting Version to SOAP 1.1
// when unset.
func NewEncoder(opts EncoderOptions) *Encoder {
	if opts.Version == "" {
		opts.Version = Version11
	}
	return &Encoder{Options: opts}
}

// Accepts reports whether this encoder should handle a request carrying the
// given content-type. An empty content-type is never accepted here; the
// Router's GET/WSDL branch handles that case before an Encoder is selected.
func (enc *Encoder) Accepts(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if enc.Options.Version == Version12 {
		return mt == "application/soap+xml"
	}
	return mt == "text/xml"
}

// Read parses an HTTP request body into an Envelope. It bounds the read at
// EncoderOptions.MaxEnvelopeBytes (or DefaultMaxEnvelopeBytes) and fails
// with a malformed-envelope error on XML errors.
func (enc *Encoder) Read(r *http.Request) (*Envelope, error) {
	defer func() { _ = r.Body.Close() }()

	limited := io.LimitReader(r.Body, enc.Options.maxBytes()+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("soap: reading request body: %w", err)
	}
	if int64(len(data)) > enc.Options.maxBytes() {
		return nil, fmt.Errorf("soap: request body exceeds %d bytes", enc.Options.maxBytes())
	}

	var wire envelope
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("soap: parsing envelope: %w", err)
	}

	env := &Envelope{
		Version:             enc.Options.Version,
		RequestContentType:  r.Header.Get("Content-Type"),
		bodyXML:             wire.Body.Content,
	}
	if wire.Header != nil {
		env.headerXML = wire.Header.Content
	}
	env.IsEmpty = len(bytes.TrimSpace(env.bodyXML)) == 0

	env.Action = enc.resolveAction(r)

	if enc.Options.Addressing == Addressing10 {
		env.MessageID = scanElementText(env.headerXML, "MessageID")
		env.RelatesTo = scanElementText(env.headerXML, "RelatesTo")
		env.ReplyTo = scanElementText(env.headerXML, "Address") // wsa:ReplyTo/wsa:Address
		env.To = scanElementText(env.headerXML, "To")
		if action := scanElementText(env.headerXML, "Action"); action != "" {
			env.Action = action
		}
	}

	return env, nil
}

// resolveAction extracts the SOAP action per version: SOAP 1.1 carries it in
// the SOAPAction transport header (quoted); SOAP 1.2 carries it as an
// `action` parameter on the content-type media type.
func (enc *Encoder) resolveAction(r *http.Request) string {
	if enc.Options.Version == Version12 {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err == nil {
			return params["action"]
		}
		return ""
	}
	return strings.Trim(r.Header.Get("SOAPAction"), `"`)
}

// Write serializes a response envelope. headerXML/bodyXML are the raw inner
// content of the Header/Body elements; headerXML may be nil.
func (enc *Encoder) Write(w http.ResponseWriter, status int, action string, headerXML, bodyXML []byte) error {
	ns := enc.Options.namespace()
	prefix := "soap"

	var buf bytes.Buffer
	if !enc.Options.OmitXMLDeclaration {
		buf.WriteString(xml.Header)
	}

	open := fmt.Sprintf(`<%s:Envelope xmlns:%s=%q>`, prefix, prefix, ns)
	buf.WriteString(open)
	if enc.Options.IndentXML {
		buf.WriteByte('\n')
	}

	if len(headerXML) > 0 {
		writeTag(&buf, prefix, "Header", headerXML, enc.Options.IndentXML)
	}
	writeTag(&buf, prefix, "Body", bodyXML, enc.Options.IndentXML)

	buf.WriteString(fmt.Sprintf(`</%s:Envelope>`, prefix))

	out, err := enc.transcode(buf.Bytes())
	if err != nil {
		return fmt.Errorf("soap: transcoding response: %w", err)
	}

	contentType := enc.Options.contentType()
	if enc.Options.Version == Version12 && action != "" {
		contentType = fmt.Sprintf(`%s; action=%q`, contentType, action)
	}
	w.Header().Set("Content-Type", contentType)
	if enc.Options.Version == Version11 {
		w.Header().Set("SOAPAction", fmt.Sprintf(`"%s"`, action))
	}
	w.WriteHeader(status)
	_, err = w.Write(out)
	return err
}

func writeTag(buf *bytes.Buffer, prefix, name string, content []byte, indent bool) {
	fmt.Fprintf(buf, "<%s:%s>", prefix, name)
	buf.Write(content)
	fmt.Fprintf(buf, "</%s:%s>", prefix, name)
	if indent {
		buf.WriteByte('\n')
	}
}

// transcode re-encodes UTF-8 XML bytes into the configured WriteEncoding.
// An empty WriteEncoding leaves bytes as UTF-8.
func (enc *Encoder) transcode(utf8 []byte) ([]byte, error) {
	switch strings.ToLower(enc.Options.WriteEncoding) {
	case "", "utf-8":
		return utf8, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewEncoder().Bytes(utf8)
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(utf8)
	default:
		return nil, fmt.Errorf("soap: unsupported write encoding %q", enc.Options.WriteEncoding)
	}
}

// scanElementText walks header XML token-by-token looking for the first
// element whose local name matches, returning its character data. Modeled
// on go-ee-gowsdl's BodyResponse.UnmarshalXML streaming loop: a label-scoped
// for/switch over decoder tokens rather than a full struct unmarshal, since
// the header shape is only known down to the WS-Addressing element names we
// care about.
func scanElementText(headerXML []byte, localName string) string {
	if len(headerXML) == 0 {
		return ""
	}
	dec := xml.NewDecoder(bytes.NewReader(headerXML))
Loop:
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local != localName {
				continue Loop
			}
			var text string
			if err := dec.DecodeElement(&text, &se); err != nil {
				return ""
			}
			return strings.TrimSpace(text)
		}
	}
	return ""
}
