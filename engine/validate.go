package engine

import (
	"bytes"
	"encoding/json"
)

// ============================================================================
// VALIDATOR — Minimal dataset shape check
// ============================================================================
// Only two things are checked: data is a sequence, headers is present.
// Field-level problems (unknown keys, non-numeric metrics) are not errors;
// they surface later as 0 values and raw-key labels.
// ============================================================================

// Validate checks the shape of an in-memory dataset.
func Validate(ds *Dataset) error {
	if ds == nil {
		return validationErrorf("dataset is nil")
	}
	if ds.Data == nil {
		return validationErrorf("data must be an array")
	}
	if !ds.Headers.Present() {
		return validationErrorf("headers is required")
	}
	return nil
}

// ParseDataset decodes JSON text into a Dataset and validates its shape.
// Shape failures are returned as *ValidationError.
func ParseDataset(raw []byte) (*Dataset, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, validationErrorf("dataset must be a JSON object: %v", err)
	}

	data, ok := top["data"]
	if !ok || firstByte(data) != '[' {
		return nil, validationErrorf("data must be an array")
	}
	headers, ok := top["headers"]
	if !ok || firstByte(headers) == 'n' {
		return nil, validationErrorf("headers is required")
	}
	if firstByte(headers) != '{' {
		return nil, validationErrorf("headers must be an object")
	}

	ds := &Dataset{}
	if err := json.Unmarshal(headers, &ds.Headers); err != nil {
		return nil, validationErrorf("headers: %v", err)
	}
	if err := json.Unmarshal(data, &ds.Data); err != nil {
		return nil, validationErrorf("data: %v", err)
	}
	if ds.Data == nil {
		ds.Data = []Record{}
	}
	return ds, Validate(ds)
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
