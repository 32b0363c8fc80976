package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ReadResponse checks the status of a response from the analysis service and
// parses its body. See Parse for the meaning of a nil result.
func ReadResponse(resp *http.Response) (*Result, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	return Parse(body)
}

// Parse decodes the envelope array and returns the record of its first
// element. Any further envelopes are ignored. An empty array yields a nil
// result and a nil error: the service ran but produced nothing to show. A
// null body is malformed.
func Parse(body []byte) (*Result, error) {
	var envelopes []Envelope
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, &MalformedResponseError{Reason: "body is not an envelope array", Err: err}
	}
	// A JSON null decodes without error but leaves the slice nil.
	if envelopes == nil {
		return nil, &MalformedResponseError{Reason: "body is not an envelope array"}
	}

	if len(envelopes) == 0 {
		return nil, nil
	}

	out := envelopes[0].Output
	if out == nil {
		return nil, &MalformedResponseError{Reason: "first envelope has no output"}
	}

	items := make([]Item, len(out.Items))
	for i, item := range out.Items {
		tags := make([]string, len(item.DietFit))
		copy(tags, item.DietFit)
		item.DietFit = tags
		items[i] = item
	}

	return &Result{
		Items:   items,
		Totals:  out.Totals,
		Summary: out.Summary,
	}, nil
}
