package recskema

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"
)

// DecodeObject reads exactly one JSON object from r. Numbers are kept as
// json.Number so integer fields do not go through float64.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	var trailing j.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, Fail("/", CodeParseError, "unexpected data after top-level value")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{Issue{Path: "/", Code: CodeTypeMismatch, Message: "expected object", Hint: "expected object"}}
	}
	return m, nil
}

// DecodeObjectBytes is DecodeObject over a byte slice.
func DecodeObjectBytes(b []byte) (map[string]any, error) {
	return DecodeObject(bytes.NewReader(b))
}
