package lib

import (
	"encoding/json"
	"fmt"
)

// Media references are stored on the post row as a single JSON-encoded array
// of strings. The column predates any richer attachment model and the blob is
// treated as opaque everywhere except here.

// EncodeMediaRefs serializes an ordered list of media references. A nil or
// empty list encodes as "[]" so the column never holds SQL NULL for new rows.
func EncodeMediaRefs(refs []string) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("encoding media refs: %w", err)
	}
	return string(raw), nil
}

// DecodeMediaRefs is the inverse of EncodeMediaRefs. Blank or "null" blobs
// decode to an empty slice rather than an error; rows written before the
// column was backfilled still carry those.
func DecodeMediaRefs(blob string) ([]string, error) {
	if blob == "" || blob == "null" {
		return []string{}, nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(blob), &refs); err != nil {
		return nil, fmt.Errorf("decoding media refs: %w", err)
	}
	if refs == nil {
		refs = []string{}
	}
	return refs, nil
}
