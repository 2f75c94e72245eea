package soap

import "encoding/xml"

// Version identifies a SOAP protocol version.
type Version string

const (
	// Version11 is SOAP 1.1, envelope namespace http://schemas.xmlsoap.org/soap/envelope/.
	Version11 Version = "1.1"
	// Version12 is SOAP 1.2, envelope namespace http://www.w3.org/2003/05/soap-envelope.
	Version12 Version = "1.2"
)

// Envelope namespace URIs.
const (
	NS11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NS12 = "http://www.w3.org/2003/05/soap-envelope"
)

// WS-Addressing 1.0 namespace.
const NSAddressing10 = "http://www.w3.org/2005/08/addressing"

// ContentType11 and ContentType12 are the default content-types written for
// each SOAP version. SOAP 1.2 additionally carries an `action=` parameter
// naming the SOAP action, set by the encoder at write time.
const (
	ContentType11 = "text/xml; charset=utf-8"
	ContentType12 = "application/soap+xml; charset=utf-8"
)

// AddressingVersion selects whether WS-Addressing 1.0 headers are read from
// and written to the envelope.
type AddressingVersion string

const (
	AddressingNone  AddressingVersion = "none"
	Addressing10    AddressingVersion = "ws-addressing-1.0"
)

// envelope is the wire shape parsed by Encoder.Read. XMLName matches an
// Envelope element in any namespace; Encoder.Write builds its output
// directly rather than through this type.
type envelope struct {
	XMLName xml.Name  `xml:"Envelope"`
	Header  *rawBlock `xml:"Header"`
	Body    rawBlock  `xml:"Body"`
}

// rawBlock captures an XML element's raw inner content without decoding it,
// so the Argument Binder can run its own streaming decoder over the body
// and the fault detector can peek at the body's first child without fully
// parsing it.
type rawBlock struct {
	Content []byte `xml:",innerxml"`
}

// FaultElement is the wire shape of a SOAP fault, covering both versions.
// faultcode/faultstring/faultactor/detail are SOAP 1.1; Code/Reason/Detail
// (capitalized) are SOAP 1.2. Only one set is populated, chosen by the
// version the fault is written under.
type FaultElement struct {
	XMLName xml.Name `xml:"Fault"`

	// SOAP 1.1
	FaultCode   string    `xml:"faultcode,omitempty"`
	FaultString string    `xml:"faultstring,omitempty"`
	FaultActor  string    `xml:"faultactor,omitempty"`
	Detail11    *rawBlock `xml:"detail,omitempty"`

	// SOAP 1.2
	Code12   *FaultCode12 `xml:"Code,omitempty"`
	Reason12 *FaultReason `xml:"Reason,omitempty"`
	Detail12 *rawBlock    `xml:"Detail,omitempty"`
}

// FaultCode12 is the SOAP 1.2 fault Code element, with an optional Subcode
// for the translated 1.1 code/subcode pair.
type FaultCode12 struct {
	Value   string       `xml:"Value"`
	Subcode *FaultCode12 `xml:"Subcode,omitempty"`
}

// FaultReason is the SOAP 1.2 fault Reason element.
type FaultReason struct {
	Text string `xml:"Text"`
}

// fault11To12 translates a SOAP 1.1 faultcode local name to its SOAP 1.2
// equivalent, per the standard's mapping table.
var fault11To12 = map[string]string{
	"Client": "Sender",
	"Server": "Receiver",
}

// fault12To11 is the inverse of fault11To12.
var fault12To11 = map[string]string{
	"Sender":   "Client",
	"Receiver": "Server",
}

// Translate11To12 maps a SOAP 1.1 faultcode local name (Client, Server) to
// its SOAP 1.2 equivalent (Sender, Receiver). Unknown names pass through
// unchanged.
func Translate11To12(code string) string {
	if v, ok := fault11To12[code]; ok {
		return v
	}
	return code
}

// Translate12To11 is the inverse of Translate11To12.
func Translate12To11(code string) string {
	if v, ok := fault12To11[code]; ok {
		return v
	}
	return code
}
