package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// tokenReader wraps json.Decoder with helpers that turn syntax problems into
// MalformedIndexError values naming the field being read.
type tokenReader struct {
	dec *json.Decoder
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{dec: json.NewDecoder(r)}
}

func (t *tokenReader) token(field string) (json.Token, error) {
	tok, err := t.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed(field, "unexpected end of document")
		}
		return nil, malformed(field, "%v", err)
	}
	return tok, nil
}

// openObject consumes '{'. A '[' yields a descriptive error because arrays in
// place of maps are the most common shape violation.
func (t *tokenReader) openObject(field string) error {
	tok, err := t.token(field)
	if err != nil {
		return err
	}
	switch tok {
	case json.Delim('{'):
		return nil
	case json.Delim('['):
		return malformed(field, "expected object, got array")
	default:
		return malformed(field, "expected object, got %v", describe(tok))
	}
}

func (t *tokenReader) openArray(field string) error {
	tok, err := t.token(field)
	if err != nil {
		return err
	}
	if tok != json.Delim('[') {
		return malformed(field, "expected array, got %v", describe(tok))
	}
	return nil
}

// closeDelim consumes the closing '}' or ']'.
func (t *tokenReader) closeDelim(field string) error {
	_, err := t.token(field)
	return err
}

func (t *tokenReader) key(field string) (string, error) {
	tok, err := t.token(field)
	if err != nil {
		return "", err
	}
	k, ok := tok.(string)
	if !ok {
		return "", malformed(field, "expected key, got %v", describe(tok))
	}
	return k, nil
}

func (t *tokenReader) more() bool {
	return t.dec.More()
}

func (t *tokenReader) raw(field string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := t.dec.Decode(&raw); err != nil {
		return nil, malformed(field, "%v", err)
	}
	return raw, nil
}

func (t *tokenReader) decode(field string, v any) error {
	if err := t.dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return malformed(field+"."+typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return malformed(field, "%v", err)
	}
	return nil
}

// end verifies that nothing but whitespace follows the top-level object.
func (t *tokenReader) end() error {
	if _, err := t.dec.Token(); !errors.Is(err, io.EOF) {
		return malformed("$", "trailing data after document")
	}
	return nil
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		return string(v)
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// checkRepoHeader validates the identity fields of a repository object.
func checkRepoHeader(raw json.RawMessage) error {
	var header struct {
		Address   *string         `json:"address"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return malformed("repo."+typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return malformed("repo", "%v", err)
	}
	if header.Address == nil || *header.Address == "" {
		return malformed("repo.address", "missing")
	}
	ts := bytes.TrimSpace(header.Timestamp)
	if len(ts) == 0 || bytes.Equal(ts, []byte("null")) {
		return malformed("repo.timestamp", "missing")
	}
	if ts[0] != '-' && (ts[0] < '0' || ts[0] > '9') {
		return malformed("repo.timestamp", "not a number: %s", ts)
	}
	return nil
}
