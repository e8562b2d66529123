package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrManifestShape = errors.New("manifest must be a JSON object keyed by document")

// Manifest maps document keys to their extracted tables. Keys enumerate in
// the order they first appear in the source JSON.
type Manifest struct {
	keys  []string
	files map[string]FileEntry
}

func NewManifest() Manifest {
	return Manifest{files: map[string]FileEntry{}}
}

// Add appends key to the enumeration order, or replaces the entry in place
// when the key is already present.
func (m *Manifest) Add(key string, entry FileEntry) {
	if m.files == nil {
		m.files = map[string]FileEntry{}
	}
	if _, ok := m.files[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.files[key] = entry
}

func (m Manifest) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m Manifest) Len() int {
	return len(m.keys)
}

func (m Manifest) Get(key string) (FileEntry, bool) {
	f, ok := m.files[key]
	return f, ok
}

func (m Manifest) Has(key string) bool {
	_, ok := m.files[key]
	return ok
}

func (m Manifest) First() (string, bool) {
	if len(m.keys) == 0 {
		return "", false
	}
	return m.keys[0], true
}

func (m Manifest) Summaries() []DocumentSummary {
	out := make([]DocumentSummary, 0, len(m.keys))
	for _, k := range m.keys {
		f := m.files[k]
		out = append(out, DocumentSummary{Key: k, Filename: f.Filename, TableCount: len(f.Tables)})
	}
	return out
}

func (m *Manifest) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrManifestShape
	}
	out := NewManifest()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read manifest key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return ErrManifestShape
		}
		var entry FileEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("decode manifest entry %q: %w", key, err)
		}
		out.Add(key, entry)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read manifest end: %w", err)
	}
	*m = out
	return nil
}

func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("encode manifest key: %w", err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		b, err := json.Marshal(m.files[k])
		if err != nil {
			return nil, fmt.Errorf("encode manifest entry %q: %w", k, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func TableCountLabel(n int) string {
	if n == 1 {
		return "1 extracted table"
	}
	return strconv.Itoa(n) + " extracted tables"
}
