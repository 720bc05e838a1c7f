// Package features derives the fixed-order numeric feature vectors the
// classification models consume.
package features

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Vector is an ordered set of named numeric features. The zero value is an
// empty vector. Vectors are immutable once built.
type Vector struct {
	names  []string
	values []float64
}

func newVector(names []string, values []float64) Vector {
	return Vector{names: names, values: values}
}

// Len returns the number of features.
func (v Vector) Len() int { return len(v.names) }

// Names returns a copy of the feature names in order.
func (v Vector) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Values returns a copy of the feature values in order.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Get returns the value of the named feature.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.names {
		if n == name {
			return v.values[i], true
		}
	}
	return 0, false
}

// Map returns the features keyed by name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.names))
	for i, n := range v.names {
		m[n] = v.values[i]
	}
	return m
}

// HasSchema reports whether the vector's names equal schema, in order.
func (v Vector) HasSchema(schema []string) bool {
	if len(schema) != len(v.names) {
		return false
	}
	for i := range schema {
		if schema[i] != v.names[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the vector as a JSON object keeping feature order.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range v.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(v.values[i], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
