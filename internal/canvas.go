package internal

import (
	"bytes"
	"encoding/json"
)

// DrawData is a batch of stroke groups from the drawer. The server never
// interprets strokes; it only checks the batch is a JSON array before
// forwarding it verbatim.
type DrawData json.RawMessage

func (d DrawData) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("[]"), nil
	}
	return d, nil
}

// IsStrokeArray reports whether raw decodes as a JSON array.
func IsStrokeArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	return json.Valid(trimmed)
}
