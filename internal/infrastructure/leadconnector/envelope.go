package leadconnector

import (
	"encoding/json"
	"fmt"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/apierror"
)

// Meta carries pagination hints when the endpoint provides them.
type Meta struct {
	Total         int    `json:"total"`
	StartAfterID  string `json:"startAfterId"`
	StartAfter    int64  `json:"startAfter"`
	CurrentPage   int    `json:"currentPage"`
	NextPage      int    `json:"nextPage"`
	LastMessageID string `json:"lastMessageId"`
}

// Envelope is the uniform result of a successful platform call. Data holds the
// raw JSON body; resource façades decode it into their own shapes.
type Envelope struct {
	Data json.RawMessage
	Meta *Meta
}

// Decode unmarshals the envelope body into out. A decode failure means the
// platform sent something this client does not understand, and surfaces as a
// malformed-response error rather than propagating zero values downstream.
func (e *Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return apierror.New(apierror.KindMalformedResponse, "empty response body")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return apierror.Wrap(apierror.KindMalformedResponse, fmt.Sprintf("decode %T", out), err)
	}
	return nil
}

// parseEnvelope builds an Envelope from a 2xx body. Empty bodies are legal
// (deletes and some PUTs return nothing useful).
func parseEnvelope(body []byte) (*Envelope, error) {
	env := &Envelope{Data: body}
	if len(body) == 0 {
		return env, nil
	}

	var probe struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, apierror.Wrap(apierror.KindMalformedResponse, "parse response body", err)
	}
	env.Meta = probe.Meta
	return env, nil
}
