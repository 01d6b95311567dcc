package models

import (
	"bytes"
	"encoding/json"
)

type Field struct {
	Name  string
	Value string
}

// Record is a list of named string fields that marshals to a JSON object
// with its keys in slice order.
type Record []Field

func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Keep returns a copy holding only the fields named in keep, order preserved.
func (r Record) Keep(keep map[string]bool) Record {
	out := make(Record, 0, len(keep))
	for _, f := range r {
		if keep[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
