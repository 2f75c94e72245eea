package soap

import "net/http"

// EncoderSet holds the Encoders an endpoint was configured with, in
// declared order. The first Encoder is the default.
type EncoderSet struct {
	encoders []*Encoder
}

// NewEncoderSet builds an EncoderSet from one or more EncoderOptions. If
// none are given, a single default SOAP 1.1 encoder is used.
func NewEncoderSet(opts ...EncoderOptions) *EncoderSet {
	if len(opts) == 0 {
		opts = []EncoderOptions{{Version: Version11}}
	}
	set := &EncoderSet{encoders: make([]*Encoder, len(opts))}
	for i, o := range opts {
		set.encoders[i] = NewEncoder(o)
	}
	return set
}

// Default returns the first configured Encoder.
func (s *EncoderSet) Default() *Encoder {
	return s.encoders[0]
}

// Select returns the Encoder whose content-type predicate accepts req's
// content-type, iterating in declared order. If none match, the default
// encoder is returned.
func (s *EncoderSet) Select(req *http.Request) *Encoder {
	ct := req.Header.Get("Content-Type")
	for _, enc := range s.encoders {
		if enc.Accepts(ct) {
			return enc
		}
	}
	return s.Default()
}

// ForVersion returns the first configured Encoder for the given version, or
// nil if none was configured for it. Used by the Fault Transformer to match
// the request's own encoder exactly rather than re-running Select.
func (s *EncoderSet) ForVersion(v Version) *Encoder {
	for _, enc := range s.encoders {
		if enc.Options.Version == v {
			return enc
		}
	}
	return nil
}
