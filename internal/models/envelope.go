package models

// EnvelopeKind tells which of the envelope's payload fields is populated.
type EnvelopeKind int

const (
	// EnvelopeData means the upstream returned parseable JSON, held in Data.
	EnvelopeData EnvelopeKind = iota
	// EnvelopeBody means the upstream returned a non-JSON body, held in Body.
	EnvelopeBody
	// EnvelopeError means the upstream call failed entirely, held in Error.
	EnvelopeError
)

// Envelope is the uniform wrapper every proxy endpoint returns, regardless
// of what the upstream webhook actually answered. The proxy's own HTTP
// status is always 200; callers inspect OK and Status instead.
type Envelope struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status"`
	Data   any    `json:"data,omitempty"`
	Body   string `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`

	kind EnvelopeKind
}

// DataEnvelope wraps a decoded upstream JSON payload.
func DataEnvelope(status int, data any) Envelope {
	return Envelope{
		OK:     status >= 200 && status < 300,
		Status: status,
		Data:   data,
		kind:   EnvelopeData,
	}
}

// BodyEnvelope wraps a raw upstream body that was not valid JSON.
func BodyEnvelope(status int, body string) Envelope {
	return Envelope{
		OK:     status >= 200 && status < 300,
		Status: status,
		Body:   body,
		kind:   EnvelopeBody,
	}
}

// ErrorEnvelope wraps a transport-level failure; there is no upstream status.
func ErrorEnvelope(err error) Envelope {
	return Envelope{
		OK:    false,
		Error: err.Error(),
		kind:  EnvelopeError,
	}
}

// Kind reports which variant this envelope carries.
func (e Envelope) Kind() EnvelopeKind { return e.kind }
