// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v2"
)

var errNotObject = errors.New("document root must be an object")

// ParseJSON decodes a JSON object keeping key order. Numbers are kept as json.Number.
func ParseJSON(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the document root")
	}

	m, ok := v.(*Map)
	if !ok {
		return nil, errNotObject
	}
	return m, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	d, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch d {
	case '{':
		m := NewMap()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		// closing brace
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		l := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return l, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", d)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseYAML decodes a YAML (or JSON) mapping keeping key order.
func ParseYAML(data []byte) (*Map, error) {
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(data, &ms); err != nil {
		return nil, err
	}
	m, ok := fromYAML(ms).(*Map)
	if !ok {
		return nil, errNotObject
	}
	return m, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Map) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return err
	}
	parsed, _ := fromYAML(ms).(*Map)
	*m = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m *Map) MarshalYAML() (interface{}, error) {
	ms := make(yaml.MapSlice, 0, len(m.keys))
	for _, k := range m.keys {
		ms = append(ms, yaml.MapItem{Key: k, Value: toYAML(m.values[k])})
	}
	return ms, nil
}

func fromYAML(v interface{}) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := NewMap()
		for _, item := range t {
			m.Set(fmt.Sprint(item.Key), fromYAML(item.Value))
		}
		return m
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, val := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = val
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, fromYAML(byKey[k]))
		}
		return m
	case []interface{}:
		l := make([]any, len(t))
		for i, item := range t {
			l[i] = fromYAML(item)
		}
		return l
	default:
		return v
	}
}

func toYAML(v any) interface{} {
	switch t := v.(type) {
	case []any:
		l := make([]interface{}, len(t))
		for i, item := range t {
			l[i] = toYAML(item)
		}
		return l
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(string(t), 64); err == nil {
			return f
		}
		return string(t)
	default:
		return v
	}
}

// Marshal renders the document as indented JSON.
func Marshal(m *Map) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// MarshalYAML renders the document as YAML.
func MarshalYAML(m *Map) ([]byte, error) {
	return yaml.Marshal(m)
}
