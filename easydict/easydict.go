// Package easydict provides a nested map with dotted-path access.
//
// A Dict behaves like a plain map[string]any for marshalling purposes, but
// reads and writes can address nested values with a single dotted key:
//
//	d := easydict.New()
//	d.Set("train.optimizer.lr", 0.001)
//	lr, _ := d.Float64("train.optimizer.lr")
//
// Plain nested maps are promoted to Dict on insertion so that values read
// back from a Dict support dotted access too.
package easydict

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// ErrNotFound is returned when a dotted path does not resolve to a value.
var ErrNotFound = fmt.Errorf("easydict: key not found")

// Dict is a string-keyed map with dotted-path accessors.
type Dict map[string]any

// New returns an empty Dict.
func New() Dict {
	return Dict{}
}

// From deep-copies m into a Dict, promoting nested string-keyed maps so that
// the whole tree supports dotted access.
func From(m map[string]any) Dict {
	d := make(Dict, len(m))
	for key, value := range m {
		d[key] = promote(value)
	}
	return d
}

// promote converts nested map values into Dict recursively. Slices are
// walked too so that lists of tables behave like the rest of the tree.
func promote(value any) any {
	switch v := value.(type) {
	case Dict:
		return From(v)
	case map[string]any:
		return From(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = promote(elem)
		}
		return out
	default:
		return value
	}
}

// Get resolves a dotted path and returns the value at it.
func (d Dict) Get(path string) (any, error) {
	parent, leaf, err := d.walk(path, false)
	if err != nil {
		return nil, err
	}
	value, ok := parent[leaf]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return value, nil
}

// Has reports whether a dotted path resolves to a value.
func (d Dict) Has(path string) bool {
	_, err := d.Get(path)
	return err == nil
}

// Set writes value at a dotted path, creating intermediate Dicts as needed.
// Map values are promoted so the subtree stays dotted-addressable.
func (d Dict) Set(path string, value any) error {
	parent, leaf, err := d.walk(path, true)
	if err != nil {
		return err
	}
	parent[leaf] = promote(value)
	return nil
}

// Delete removes the value at a dotted path. Missing paths are a no-op.
func (d Dict) Delete(path string) {
	parent, leaf, err := d.walk(path, false)
	if err != nil {
		return
	}
	delete(parent, leaf)
}

// walk resolves every path segment but the last, returning the containing
// Dict and the leaf key. With create set, missing intermediate segments are
// materialized; otherwise they resolve to ErrNotFound. A non-Dict value in
// the middle of the path is an error either way.
func (d Dict) walk(path string, create bool) (Dict, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("easydict: empty key")
	}

	parts := strings.Split(path, ".")
	current := d
	for i, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			if !create {
				return nil, "", fmt.Errorf("%w: %s", ErrNotFound, strings.Join(parts[:i+1], "."))
			}
			child := Dict{}
			current[part] = child
			current = child
			continue
		}
		child, ok := next.(Dict)
		if !ok {
			return nil, "", fmt.Errorf("easydict: %s is not a nested dict", strings.Join(parts[:i+1], "."))
		}
		current = child
	}
	return current, parts[len(parts)-1], nil
}

// String returns the value at path as a string.
func (d Dict) String(path string) (string, error) {
	value, err := d.Get(path)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(value)
}

// Int returns the value at path as an int.
func (d Dict) Int(path string) (int, error) {
	value, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	return cast.ToIntE(value)
}

// Float64 returns the value at path as a float64.
func (d Dict) Float64(path string) (float64, error) {
	value, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	return cast.ToFloat64E(value)
}

// Bool returns the value at path as a bool.
func (d Dict) Bool(path string) (bool, error) {
	value, err := d.Get(path)
	if err != nil {
		return false, err
	}
	return cast.ToBoolE(value)
}

// Sub returns the nested Dict at path.
func (d Dict) Sub(path string) (Dict, error) {
	value, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	sub, ok := value.(Dict)
	if !ok {
		return nil, fmt.Errorf("easydict: %s is not a nested dict", path)
	}
	return sub, nil
}

// Merge deep-merges other into d. Nested Dicts are merged key by key;
// any other value in other replaces the value in d.
func (d Dict) Merge(other Dict) {
	for key, value := range other {
		if dst, ok := d[key].(Dict); ok {
			if src, ok := value.(Dict); ok {
				dst.Merge(src)
				continue
			}
		}
		d[key] = promote(value)
	}
}

// Decode unpacks the Dict into a struct using mapstructure tags, with weak
// type conversion enabled to mirror the permissive accessors above.
func (d Dict) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(d)); err != nil {
		return fmt.Errorf("failed to decode dict: %w", err)
	}
	return nil
}

// Plain returns a deep copy of the Dict as plain map[string]any values,
// suitable for YAML and JSON encoders that special-case concrete map types.
func (d Dict) Plain() map[string]any {
	out := make(map[string]any, len(d))
	for key, value := range d {
		out[key] = demote(value)
	}
	return out
}

func demote(value any) any {
	switch v := value.(type) {
	case Dict:
		return v.Plain()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = demote(elem)
		}
		return out
	default:
		return value
	}
}
