// Package model holds the closed enumerations that describe a product.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// enum is the common shape of Size and Color.
type enum interface {
	~int16
	IsValid() bool
	String() string
}

// lookup finds the ordinal of name in names, ignoring case.
func lookup(names []string, name string) (int16, bool) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return int16(i), true
		}
	}
	return 0, false
}

// marshalEnum writes members by name and anything else by ordinal so that
// an out-of-range value survives a round trip and is still rejected by validation.
func marshalEnum[T enum](v T) ([]byte, error) {
	if !v.IsValid() {
		return json.Marshal(int16(v))
	}
	return json.Marshal(v.String())
}

// unmarshalEnum accepts either a name ("M"), resolved with parse, or a numeric ordinal (2).
// Numeric ordinals are not range checked here.
func unmarshalEnum[T enum](data []byte, kind string, parse func(string) (T, error)) (T, error) {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return 0, err
		}
		return parse(name)
	}
	var ordinal int16
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return 0, fmt.Errorf("%s must be a name or an ordinal: %w", kind, err)
	}
	return T(ordinal), nil
}
