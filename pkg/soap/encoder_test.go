package soap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, contentType, soapAction, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/service", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	if soapAction != "" {
		r.Header.Set("SOAPAction", soapAction)
	}
	return r
}

func TestEncoderAccepts(t *testing.T) {
	enc11 := NewEncoder(EncoderOptions{Version: Version11})
	enc12 := NewEncoder(EncoderOptions{Version: Version12})

	assert.True(t, enc11.Accepts("text/xml; charset=utf-8"))
	assert.False(t, enc11.Accepts("application/soap+xml"))
	assert.False(t, enc11.Accepts(""))

	assert.True(t, enc12.Accepts(`application/soap+xml; action="urn:Add"`))
	assert.False(t, enc12.Accepts("text/xml"))
}

func TestEncoderSetSelect(t *testing.T) {
	set := NewEncoderSet(
		EncoderOptions{Version: Version11},
		EncoderOptions{Version: Version12},
	)

	r := newRequest(t, ContentType12, "", "<Envelope/>")
	enc := set.Select(r)
	require.NotNil(t, enc)
	assert.Equal(t, Version12, enc.Options.Version)

	r2 := newRequest(t, "application/json", "", "{}")
	assert.Equal(t, Version11, set.Select(r2).Options.Version)

	assert.Equal(t, Version11, set.Default().Options.Version)
	assert.Equal(t, Version12, set.ForVersion(Version12).Options.Version)
	assert.Nil(t, set.ForVersion("9.9"))
}

func TestEncoderReadSOAP11(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11})
	body := `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Header><Auth>token</Auth></soap:Header>
  <soap:Body><Add><a>1</a><b>2</b></Add></soap:Body>
</soap:Envelope>`
	r := newRequest(t, ContentType11, `"urn:Add"`, body)

	env, err := enc.Read(r)
	require.NoError(t, err)
	assert.Equal(t, "urn:Add", env.Action)
	assert.False(t, env.IsEmpty)
	assert.Contains(t, string(env.RawBodyXML()), "<Add>")
	assert.Contains(t, string(env.RawHeaderXML()), "<Auth>")
}

func TestEncoderReadSOAP12ActionFromContentType(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version12})
	body := `<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body><Add><a>1</a><b>2</b></Add></soap:Body>
</soap:Envelope>`
	r := newRequest(t, `application/soap+xml; action="urn:Add"`, "", body)

	env, err := enc.Read(r)
	require.NoError(t, err)
	assert.Equal(t, "urn:Add", env.Action)
}

func TestEncoderReadAddressingHeaders(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11, Addressing: Addressing10})
	body := `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:wsa="http://www.w3.org/2005/08/addressing">
  <soap:Header>
    <wsa:Action>urn:Add</wsa:Action>
    <wsa:MessageID>uuid:1234</wsa:MessageID>
    <wsa:RelatesTo>uuid:5678</wsa:RelatesTo>
    <wsa:ReplyTo><wsa:Address>http://caller/reply</wsa:Address></wsa:ReplyTo>
    <wsa:To>http://callee/service</wsa:To>
  </soap:Header>
  <soap:Body><Add/></soap:Body>
</soap:Envelope>`
	r := newRequest(t, ContentType11, "", body)

	env, err := enc.Read(r)
	require.NoError(t, err)
	assert.Equal(t, "urn:Add", env.Action)
	assert.Equal(t, "uuid:1234", env.MessageID)
	assert.Equal(t, "uuid:5678", env.RelatesTo)
	assert.Equal(t, "http://caller/reply", env.ReplyTo)
	assert.Equal(t, "http://callee/service", env.To)
}

func TestEncoderReadRejectsOversizedBody(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11, MaxEnvelopeBytes: 8})
	r := newRequest(t, ContentType11, "", `<soap:Envelope/>`)

	_, err := enc.Read(r)
	assert.Error(t, err)
}

func TestEncoderReadMalformedXML(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11})
	r := newRequest(t, ContentType11, "", `<soap:Envelope><soap:Body>`)

	_, err := enc.Read(r)
	assert.Error(t, err)
}

func TestEnvelopeBodyReaderSingleConsumption(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11})
	r := newRequest(t, ContentType11, "", `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><Add/></soap:Body></soap:Envelope>`)

	env, err := enc.Read(r)
	require.NoError(t, err)

	_, err = env.BodyReader()
	require.NoError(t, err)

	_, err = env.BodyReader()
	assert.ErrorIs(t, err, ErrBodyAlreadyConsumed)

	// RawBodyXML is repeatable and unaffected by BodyReader consumption.
	assert.NotEmpty(t, env.RawBodyXML())
	assert.NotEmpty(t, env.RawBodyXML())
}

func TestEnvelopeResponseOverride(t *testing.T) {
	env := &Envelope{}
	_, ok := env.ResponseOverride()
	assert.False(t, ok)

	env.SetResponseOverride(ResponseOverride{Status: http.StatusAccepted})
	ov, ok := env.ResponseOverride()
	require.True(t, ok)
	assert.Equal(t, http.StatusAccepted, ov.Status)
}

func TestEncoderWriteSOAP11(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11})
	w := httptest.NewRecorder()

	err := enc.Write(w, http.StatusOK, "urn:AddResponse", nil, []byte(`<AddResponse><AddResult>3</AddResult></AddResponse>`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType11, w.Header().Get("Content-Type"))
	assert.Equal(t, `"urn:AddResponse"`, w.Header().Get("SOAPAction"))
	assert.Contains(t, w.Body.String(), "<soap:Envelope")
	assert.Contains(t, w.Body.String(), "<AddResult>3</AddResult>")
}

func TestEncoderWriteSOAP12ActionInContentType(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version12})
	w := httptest.NewRecorder()

	err := enc.Write(w, http.StatusOK, "urn:AddResponse", nil, []byte(`<AddResponse/>`))
	require.NoError(t, err)

	assert.Equal(t, "", w.Header().Get("SOAPAction"))
	assert.Contains(t, w.Header().Get("Content-Type"), `action="urn:AddResponse"`)
}

func TestEncoderWriteUnsupportedEncoding(t *testing.T) {
	enc := NewEncoder(EncoderOptions{Version: Version11, WriteEncoding: "shift-jis"})
	w := httptest.NewRecorder()

	err := enc.Write(w, http.StatusOK, "", nil, []byte(`<Body/>`))
	assert.Error(t, err)
}

func TestTranslateFaultCode(t *testing.T) {
	assert.Equal(t, "Sender", Translate11To12("Client"))
	assert.Equal(t, "Receiver", Translate11To12("Server"))
	assert.Equal(t, "Unknown", Translate11To12("Unknown"))

	assert.Equal(t, "Client", Translate12To11("Sender"))
	assert.Equal(t, "Server", Translate12To11("Receiver"))
}
