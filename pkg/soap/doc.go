// Package soap implements the Message Encoder Set: parsing and serializing
// SOAP 1.1/1.2 envelopes at a negotiated version and text encoding, with
// optional WS-Addressing 1.0 header support.
//
// # Version negotiation
//
// An EncoderSet holds one or more Encoders, each bound to a Version, an
// AddressingVersion, and a write encoding. EncoderSet.Select picks an
// Encoder for an inbound request by content-type (text/xml for 1.1,
// application/soap+xml for 1.2), falling back to the first configured
// Encoder when nothing matches.
//
// # Envelopes
//
// Encoder.Read produces an Envelope: a parsed, already-demultiplexed view
// exposing a header reader, a body reader positioned before the body's
// root element, and, under WS-Addressing, the Action/MessageID/RelatesTo/
// ReplyTo/To fields lifted out of the header. The body reader is
// single-pass; a second BodyReader call returns ErrBodyAlreadyConsumed.
//
// Encoder.Write serializes a response Header/Body pair back into the
// version-appropriate envelope shape and sets the encoder's own response
// Content-Type. Under SOAP 1.1 it also sets the SOAPAction header to the
// response action; under SOAP 1.2 the action goes into the Content-Type's
// action parameter instead, and no SOAPAction header is written.
//
// # Fault codes
//
// Fault codes are translated between versions by the fault transformer
// (package soapfault), not here: SOAP 1.1 soap:Client/soap:Server map to
// SOAP 1.2 soap:Sender/soap:Receiver.
//
// # Usage
//
//	set := soap.NewEncoderSet(
//	    soap.EncoderOptions{Version: soap.Version11},
//	    soap.EncoderOptions{Version: soap.Version12, Addressing: soap.Addressing10},
//	)
//	enc := set.Select(r)
//	env, err := enc.Read(r)
//	// ... dispatch ...
//	err = enc.Write(w, http.StatusOK, env.Action, nil, responseBody)
package soap
