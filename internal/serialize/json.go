// Package serialize holds the JSON helpers used for reports.
package serialize

import (
	"encoding/json"
	"io"
)

// EncodeJSON writes data to w as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// DecodeJSON reads one JSON value from r into dest.
func DecodeJSON(r io.Reader, dest any) error {
	return json.NewDecoder(r).Decode(dest)
}
