package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks stored data that cannot be decoded into a task list.
var ErrMalformed = errors.New("malformed task data")

// Encode serializes the list with 2-space indentation and a trailing newline.
// A nil list encodes as an empty array.
func Encode(l List) ([]byte, error) {
	if l == nil {
		l = List{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a stored task list. Empty input and a JSON
// null both decode to an empty list. Anything unparseable or off-schema
// returns an error wrapping ErrMalformed.
func Decode(data []byte) (List, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return List{}, nil
	}

	var raw interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrMalformed, err)
	}
	if result := ValidateValue(raw); !result.Valid {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, result.Err())
	}

	var l List
	if err := json.Unmarshal(trimmed, &l); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMalformed, err)
	}
	if l == nil {
		l = List{}
	}
	return l, nil
}
