// Package descriptor parses the static YAML description of a wizard (its
// fields, steps and completion strategies) into engine configuration.
package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/commonsos/commons/internal/wizard"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Field kinds accepted in descriptors.
const (
	KindText      = "text"
	KindFlag      = "flag"
	KindList      = "list"
	KindChecklist = "checklist"
)

// Descriptor is the parsed form of a wizard descriptor file.
type Descriptor struct {
	Name   string           `yaml:"name"`
	Title  string           `yaml:"title"`
	Fields map[string]Field `yaml:"fields"`
	Steps  []Step           `yaml:"steps"`
}

// Field declares one key of the form state.
type Field struct {
	Kind        string   `yaml:"kind"`
	Label       string   `yaml:"label,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Multiline   bool     `yaml:"multiline,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	MinItems    int      `yaml:"min_items,omitempty"`
	ItemFields  []string `yaml:"item_fields,omitempty"`
	Checks      []Check  `yaml:"checks,omitempty"`
}

// Check is one entry of a checklist field.
type Check struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
}

// Step declares one page of the wizard.
type Step struct {
	ID          string       `yaml:"id,omitempty"`
	Title       string       `yaml:"title,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Required    []string     `yaml:"required,omitempty"`
	Fields      []string     `yaml:"fields,omitempty"`
	Strategy    StrategySpec `yaml:"strategy,omitempty"`
}

// StrategySpec is the YAML form of wizard.Strategy.
type StrategySpec struct {
	Type        string   `yaml:"type,omitempty"`
	Field       string   `yaml:"field,omitempty"`
	Pair        []string `yaml:"pair,omitempty"`
	Denominator int      `yaml:"denominator,omitempty"`
}

// Parse decodes and normalizes a descriptor. Step ids default to the slug of
// the title, and field keys are NFC-normalized so that composed and
// decomposed spellings refer to the same field.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding descriptor: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and parses a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// NormalizeKey returns the canonical form of a field key.
func NormalizeKey(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}

func normalizeKeys(keys []string) []string {
	if keys == nil {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = NormalizeKey(k)
	}
	return out
}

func (d *Descriptor) normalize() error {
	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: descriptor %q declares no steps", wizard.ErrConfiguration, d.Name)
	}

	fields := make(map[string]Field, len(d.Fields))
	for key, f := range d.Fields {
		nk := NormalizeKey(key)
		if _, dup := fields[nk]; dup {
			return fmt.Errorf("%w: field %q is declared twice", wizard.ErrConfiguration, nk)
		}
		f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
		if f.Kind == "" {
			f.Kind = KindText
		}
		f.ItemFields = normalizeKeys(f.ItemFields)
		fields[nk] = f
	}
	d.Fields = fields

	for i := range d.Steps {
		s := &d.Steps[i]
		if s.ID == "" {
			s.ID = slug.Make(s.Title)
		}
		if s.ID == "" {
			return fmt.Errorf("%w: step %d has neither id nor title", wizard.ErrConfiguration, i)
		}
		if s.Title == "" {
			s.Title = s.ID
		}
		s.Required = normalizeKeys(s.Required)
		s.Fields = normalizeKeys(s.Fields)
		s.Strategy.Field = NormalizeKey(s.Strategy.Field)
		s.Strategy.Pair = normalizeKeys(s.Strategy.Pair)
	}
	return nil
}

// Build converts the descriptor into engine step definitions and the fully
// specified default form state.
func (d *Descriptor) Build() ([]wizard.StepDefinition, wizard.FormState, error) {
	defaults := make(wizard.FormState, len(d.Fields))
	for key, f := range d.Fields {
		v, err := f.defaultValue()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: field %q: %v", wizard.ErrConfiguration, key, err)
		}
		defaults[key] = v
	}

	steps := make([]wizard.StepDefinition, len(d.Steps))
	for i, s := range d.Steps {
		strategy, err := s.Strategy.toStrategy()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: step %q: %v", wizard.ErrConfiguration, s.ID, err)
		}
		for _, key := range s.Fields {
			if _, ok := d.Fields[key]; !ok {
				return nil, nil, fmt.Errorf("%w: step %q shows undeclared field %q", wizard.ErrConfiguration, s.ID, key)
			}
		}
		steps[i] = wizard.StepDefinition{
			ID:                s.ID,
			RequiredFieldKeys: s.Required,
			Strategy:          strategy,
		}
	}
	return steps, defaults, nil
}

// NewEngine builds a ready engine from the descriptor.
func (d *Descriptor) NewEngine(opts ...wizard.Option) (*wizard.Engine, error) {
	steps, defaults, err := d.Build()
	if err != nil {
		return nil, err
	}
	return wizard.New(steps, defaults, opts...)
}

func (f Field) defaultValue() (any, error) {
	switch f.Kind {
	case KindText:
		return f.Default, nil
	case KindFlag:
		switch strings.ToLower(f.Default) {
		case "", "false", "no":
			return false, nil
		case "true", "yes":
			return true, nil
		default:
			return nil, fmt.Errorf("flag default %q is not a boolean", f.Default)
		}
	case KindList:
		n := max(f.MinItems, wizard.DefaultListFloor)
		records := make([]wizard.Record, n)
		for i := range records {
			records[i] = f.EmptyRecord()
		}
		return records, nil
	case KindChecklist:
		c := make(wizard.Checklist, len(f.Checks))
		for _, check := range f.Checks {
			if check.ID == "" {
				return nil, fmt.Errorf("checklist entry without id")
			}
			c[check.ID] = false
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", f.Kind)
	}
}

// EmptyRecord returns a list record with every item field set to "".
func (f Field) EmptyRecord() wizard.Record {
	r := make(wizard.Record, len(f.ItemFields))
	for _, k := range f.ItemFields {
		r[k] = ""
	}
	return r
}

// CheckLabel returns the label of a checklist entry, or its id.
func (f Field) CheckLabel(id string) string {
	for _, c := range f.Checks {
		if c.ID == id && c.Label != "" {
			return c.Label
		}
	}
	return id
}

func (s StrategySpec) toStrategy() (wizard.Strategy, error) {
	kind, err := wizard.ParseStrategyKind(s.Type)
	if err != nil {
		return wizard.Strategy{}, err
	}
	switch kind {
	case wizard.PairedListThreshold:
		den := s.Denominator
		if den == 0 {
			den = wizard.DefaultDenominator
		}
		return wizard.PairedThreshold(s.Field, den, s.Pair...), nil
	case wizard.BooleanMapRatio:
		return wizard.ChecklistRatio(s.Field), nil
	default:
		return wizard.Presence(), nil
	}
}

// StepFields returns the field keys displayed by step i in order: the
// explicit display list, else the strategy field, else the required keys.
func (d *Descriptor) StepFields(i int) []string {
	if i < 0 || i >= len(d.Steps) {
		return nil
	}
	s := d.Steps[i]
	switch {
	case len(s.Fields) > 0:
		return s.Fields
	case s.Strategy.Field != "":
		return []string{s.Strategy.Field}
	default:
		return s.Required
	}
}

// Label returns the display label of a field key.
func (d *Descriptor) Label(key string) string {
	if f, ok := d.Fields[key]; ok && f.Label != "" {
		return f.Label
	}
	return key
}
