// Package transformer turns domain entities into their API representation:
// a fixed, ordered set of keys with primitive values and encoded identifiers.
package transformer

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// IDEncoder converts internal numeric keys to external identifiers
type IDEncoder interface {
	Encode(id uint64) string
	EncodeOptional(id *uint64) string
}

// encodeKey renders the primary key of an entity; unsaved entities have none
func encodeKey(ids IDEncoder, id uint64) string {
	if id == 0 {
		return ""
	}
	return ids.Encode(id)
}

// IDCodec encodes identifiers for responses and decodes the ones clients send
type IDCodec interface {
	IDEncoder
	Decode(s string) (uint64, error)
	DecodeOptional(s string) (*uint64, error)
	DecodeMany(in []string) ([]uint64, []string)
}

// Field is one key/value pair of an Item
type Field struct {
	Key   string
	Value interface{}
}

// Item is an ordered representation that marshals to a JSON object with keys
// in declaration order.
type Item []Field

// Keys returns the keys in order
func (it Item) Keys() []string {
	keys := make([]string, len(it))
	for i, f := range it {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key
func (it Item) Get(key string) (interface{}, bool) {
	for _, f := range it {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// With returns a copy of the item with an extra field appended
func (it Item) With(key string, value interface{}) Item {
	out := make(Item, len(it), len(it)+1)
	copy(out, it)
	return append(out, Field{Key: key, Value: value})
}

// MarshalJSON implements json.Marshaler
func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range it {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Includes is the set of optional relations requested by the client
type Includes map[string]bool

// ParseIncludes reads a comma separated include parameter
func ParseIncludes(raw string) Includes {
	inc := Includes{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			inc[part] = true
		}
	}
	return inc
}

// Has reports whether relation was requested
func (i Includes) Has(relation string) bool {
	return i[relation]
}

// epoch converts a timestamp to unix seconds, zero when unset
func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func epochPtr(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return epoch(*t)
}
