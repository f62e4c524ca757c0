// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package diff applies merge-patch style diff documents to materialized index
// values.
//
// Every key of a diff object is in one of three states: absent (the field is
// left unchanged), explicit null (a map entry is removed, a scalar or object
// field is reset to its zero value) or present (the field is overwritten, map
// typed fields are merged entry by entry). Each data shape has its own
// statically typed apply function; unknown keys are ignored.
package diff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-repo-sync/models"
)

var (
	// ErrInvalidDiff is returned when a diff value has an unexpected JSON shape.
	ErrInvalidDiff = errors.New("invalid diff")
	// ErrForbiddenKey is returned when a diff tries to change an identity key.
	ErrForbiddenKey = errors.New("diff must not change identity key")
)

// object is a decoded JSON object whose values are kept raw so that an
// explicit null can be told apart from an absent key.
type object map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	return isNull(raw)
}

func parseObject(field string, raw json.RawMessage) (object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s is not an object", ErrInvalidDiff, field)
	}

	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDiff, field, err)
	}
	return obj, nil
}

func denyKeys(field string, obj object, keys ...string) error {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return fmt.Errorf("%w: %s.%s", ErrForbiddenKey, field, k)
		}
	}
	return nil
}

// scalar overwrites *dst with the decoded value or resets it on null.
func scalar[T any](field string, dst *T, raw json.RawMessage) error {
	if isNull(raw) {
		var zero T
		*dst = zero
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDiff, field, err)
	}
	*dst = v
	return nil
}

// mergeMap applies a per-key diff to src. A null entry deletes the key; a
// present entry is handed to apply together with the previous value.
func mergeMap[V any](
	field string,
	src map[string]V,
	raw json.RawMessage,
	apply func(field string, prev V, existed bool, raw json.RawMessage) (V, error),
) (map[string]V, error) {
	if isNull(raw) {
		return nil, nil
	}
	obj, err := parseObject(field, raw)
	if err != nil {
		return nil, err
	}

	out := maps.Clone(src)
	if out == nil {
		out = make(map[string]V, len(obj))
	}
	for key, value := range obj {
		if isNull(value) {
			delete(out, key)
			continue
		}
		prev, existed := out[key]
		next, err := apply(field+"."+key, prev, existed, value)
		if err != nil {
			return nil, err
		}
		out[key] = next
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func replaceValue[V any](field string, _ V, _ bool, raw json.RawMessage) (V, error) {
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %w", ErrInvalidDiff, field, err)
	}
	return v, nil
}

// LocalizedText merges a locale keyed text map.
func LocalizedText(field string, src models.LocalizedText, raw json.RawMessage) (models.LocalizedText, error) {
	return mergeMap(field, src, raw, replaceValue[string])
}

// LocalizedFile merges a locale keyed file map, recursing into each file.
func LocalizedFile(field string, src models.LocalizedFile, raw json.RawMessage) (models.LocalizedFile, error) {
	return mergeMap(field, src, raw, func(f string, prev models.FileRef, _ bool, raw json.RawMessage) (models.FileRef, error) {
		return fileRef(f, prev, raw)
	})
}

func localizedFileList(field string, src models.LocalizedFileList, raw json.RawMessage) (models.LocalizedFileList, error) {
	return mergeMap(field, src, raw, replaceValue[[]models.FileRef])
}

func fileRef(field string, prev models.FileRef, raw json.RawMessage) (models.FileRef, error) {
	obj, err := parseObject(field, raw)
	if err != nil {
		return prev, err
	}
	out := prev
	for key, value := range obj {
		switch key {
		case "name":
			err = scalar(field+".name", &out.Name, value)
		case "sha256":
			err = scalar(field+".sha256", &out.SHA256, value)
		case "size":
			err = scalar(field+".size", &out.Size, value)
		}
		if err != nil {
			return prev, err
		}
	}
	return out, nil
}

func catalog(field string, src map[string]models.CatalogEntry, raw json.RawMessage) (map[string]models.CatalogEntry, error) {
	return mergeMap(field, src, raw, func(f string, prev models.CatalogEntry, _ bool, raw json.RawMessage) (models.CatalogEntry, error) {
		obj, err := parseObject(f, raw)
		if err != nil {
			return prev, err
		}
		out := prev
		for key, value := range obj {
			switch key {
			case "name":
				out.Name, err = LocalizedText(f+".name", out.Name, value)
			case "description":
				out.Description, err = LocalizedText(f+".description", out.Description, value)
			case "icon":
				out.Icon, err = LocalizedFile(f+".icon", out.Icon, value)
			}
			if err != nil {
				return prev, err
			}
		}
		return out, nil
	})
}
