// Package formdoc is the document format for a wizard's form state: the flat
// scalar fields, list fields as ordered records, and checklists, plus the
// step the session was on.
//
// The engine never reads or writes documents; hosts that choose to keep a
// session around use this package.
package formdoc

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/commonsos/commons/internal/logger"
	"github.com/commonsos/commons/internal/wizard"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of one wizard session.
type Document struct {
	ID         string                      `yaml:"id"`
	Wizard     string                      `yaml:"wizard"`
	Step       int                         `yaml:"step"`
	Fields     map[string]any              `yaml:"fields,omitempty"`
	Lists      map[string][]wizard.Record  `yaml:"lists,omitempty"`
	Checklists map[string]wizard.Checklist `yaml:"checklists,omitempty"`
}

// NewID returns a sortable document id for t.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Capture snapshots the engine's state and position.
func Capture(e *wizard.Engine, wizardName string) *Document {
	doc := &Document{
		ID:     NewID(time.Now()),
		Wizard: wizardName,
		Step:   e.Current(),
	}

	state := e.State()
	for key, v := range state {
		if records, ok := wizard.AsRecords(v); ok {
			if doc.Lists == nil {
				doc.Lists = make(map[string][]wizard.Record)
			}
			doc.Lists[key] = records
			continue
		}
		if c, ok := wizard.AsChecklist(v); ok {
			if doc.Checklists == nil {
				doc.Checklists = make(map[string]wizard.Checklist)
			}
			doc.Checklists[key] = c
			continue
		}
		if doc.Fields == nil {
			doc.Fields = make(map[string]any)
		}
		doc.Fields[key] = v
	}
	return doc
}

// Apply writes the document's values into the engine and moves it to the
// saved step. Each value must match the kind the engine declares for its
// key; keys and check ids the engine does not know are skipped with a
// warning.
func (d *Document) Apply(e *wizard.Engine) error {
	log := logger.Named("formdoc")

	for _, key := range sortedKeys(d.Fields) {
		kind, known := e.Kind(key)
		if !known {
			log.Warn("skipping unknown field %q", key)
			continue
		}
		if kind != wizard.KindScalar {
			return fmt.Errorf("field %q: %w", key, &wizard.FieldKindError{Key: key, Want: kind, Got: wizard.KindScalar})
		}
		if err := e.SetField(key, scalar(d.Fields[key])); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(d.Lists) {
		kind, known := e.Kind(key)
		if !known {
			log.Warn("skipping unknown list %q", key)
			continue
		}
		if kind != wizard.KindList {
			return fmt.Errorf("list %q: %w", key, &wizard.FieldKindError{Key: key, Want: kind, Got: wizard.KindList})
		}
		records := d.Lists[key]
		if len(records) == 0 {
			log.Warn("list %q is empty in document, keeping defaults", key)
			continue
		}
		if err := e.SetField(key, records); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(d.Checklists) {
		kind, known := e.Kind(key)
		if !known {
			log.Warn("skipping unknown checklist %q", key)
			continue
		}
		if kind != wizard.KindChecklist {
			return fmt.Errorf("checklist %q: %w", key, &wizard.FieldKindError{Key: key, Want: kind, Got: wizard.KindChecklist})
		}
		current, _ := e.Field(key)
		existing, _ := wizard.AsChecklist(current)
		checks := d.Checklists[key]
		for _, id := range sortedKeys(checks) {
			if _, ok := existing[id]; !ok {
				log.Warn("skipping unknown check %q of checklist %q", id, key)
				continue
			}
			if err := e.SetCheck(key, id, checks[id]); err != nil {
				return err
			}
		}
	}

	if err := e.GoTo(d.Step); err != nil {
		return fmt.Errorf("restoring step: %w", err)
	}
	return nil
}

// scalar keeps strings and bools and renders anything else YAML produced
// (numbers, dates) as its text.
func scalar(v any) any {
	switch t := v.(type) {
	case string, bool:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal encodes the document as YAML.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a YAML document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decoding document: empty input")
		}
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &d, nil
}
