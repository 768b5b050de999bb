package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one id/name pair of a Mapping.
type Entry struct {
	ID   string
	Name string
}

// Mapping is an id to display-name table that remembers insertion order.
// The zero value is an empty mapping.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping builds a mapping from entries, in the given order.
func NewMapping(entries ...Entry) (Mapping, error) {
	var m Mapping
	for _, e := range entries {
		if err := m.add(e.ID, e.Name); err != nil {
			return Mapping{}, err
		}
	}
	return m, nil
}

// MustMapping is NewMapping for fixed tables; it panics on duplicate ids.
func MustMapping(entries ...Entry) Mapping {
	m, err := NewMapping(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Mapping) add(id, name string) error {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if _, dup := m.index[id]; dup {
		return fmt.Errorf("duplicate mapping key %q", id)
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, Entry{ID: id, Name: name})
	return nil
}

// Entries returns a copy of the entries in insertion order.
func (m Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Name looks up the display name for id.
func (m Mapping) Name(id string) (string, bool) {
	i, ok := m.index[id]
	if !ok {
		return "", false
	}
	return m.entries[i].Name, true
}

// Len returns the number of entries.
func (m Mapping) Len() int { return len(m.entries) }

// UnmarshalYAML decodes a YAML mapping node, keeping document key order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of id to name", node.Line)
	}
	var out Mapping
	for i := 0; i+1 < len(node.Content); i += 2 {
		var id, name string
		if err := node.Content[i].Decode(&id); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&name); err != nil {
			return fmt.Errorf("key %q: %w", id, err)
		}
		if err := out.add(id, name); err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
	}
	*m = out
	return nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = Mapping{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object of id to name, got %v", tok)
	}

	var out Mapping
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := keyTok.(string)
		var name string
		if err := dec.Decode(&name); err != nil {
			return fmt.Errorf("key %q: %w", id, err)
		}
		if err := out.add(id, name); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
