package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/commonsos/commons/internal/wizard"
	"github.com/stretchr/testify/require"
)

const sample = `
name: sample
title: Sample
fields:
  clientName: {kind: text, label: Client name}
  notes: {default: "n/a"}
  nda: {kind: flag, default: "yes"}
  phases: {kind: list, min_items: 2, item_fields: [name, question]}
  checks:
    kind: checklist
    checks:
      - {id: scope, label: Scope agreed}
      - {id: legal}
steps:
  - title: Client Details
    required: [clientName]
    fields: [clientName, nda]
  - id: approach
    strategy: {type: pairedListThreshold, field: phases, pair: [name, question]}
  - id: review
    strategy: {type: booleanMapRatio, field: checks}
`

func TestParseAndBuild(t *testing.T) {
	d, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, "client-details", d.Steps[0].ID)
	require.Equal(t, "approach", d.Steps[1].Title, "title defaults to id")
	require.Equal(t, KindText, d.Fields["notes"].Kind)

	steps, defaults, err := d.Build()
	require.NoError(t, err)
	require.Len(t, steps, 3)

	require.Equal(t, wizard.FieldPresence, steps[0].Strategy.Kind)
	require.Equal(t, wizard.PairedThreshold("phases", 2, "name", "question"), steps[1].Strategy)
	require.Equal(t, wizard.ChecklistRatio("checks"), steps[2].Strategy)

	require.Equal(t, "", defaults["clientName"])
	require.Equal(t, "n/a", defaults["notes"])
	require.Equal(t, true, defaults["nda"])
	require.Equal(t, []wizard.Record{
		{"name": "", "question": ""},
		{"name": "", "question": ""},
	}, defaults["phases"])
	require.Equal(t, wizard.Checklist{"scope": false, "legal": false}, defaults["checks"])
}

func TestNewEngine(t *testing.T) {
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	e, err := d.NewEngine()
	require.NoError(t, err)
	require.NoError(t, e.UpdateListItem("phases", 0, "name", "Discover"))
	require.NoError(t, e.UpdateListItem("phases", 0, "question", "Why?"))

	got, err := e.CompletionForStep(1)
	require.NoError(t, err)
	require.Equal(t, 50, got)
}

func TestStepFieldsAndLabels(t *testing.T) {
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Equal(t, []string{"clientName", "nda"}, d.StepFields(0))
	require.Equal(t, []string{"phases"}, d.StepFields(1))
	require.Nil(t, d.StepFields(5))

	require.Equal(t, "Client name", d.Label("clientName"))
	require.Equal(t, "notes", d.Label("notes"))
	require.Equal(t, "Scope agreed", d.Fields["checks"].CheckLabel("scope"))
	require.Equal(t, "legal", d.Fields["checks"].CheckLabel("legal"))
}

func TestNormalizeKey(t *testing.T) {
	// "é" decomposed (e + combining acute) and composed resolve to one key.
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"
	require.Equal(t, composed, NormalizeKey(decomposed))
	require.Equal(t, "key", NormalizeKey("  key "))

	doc := "fields:\n  \"" + composed + "\": {kind: text}\nsteps:\n  - id: a\n    required: [\"" + decomposed + "\"]\n"
	d, err := Parse([]byte(doc))
	require.NoError(t, err)
	_, err = d.NewEngine()
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no steps", "name: x\nfields: {}\n"},
		{"unknown key", "steps:\n  - id: a\nbogus: 1\n"},
		{"step without id or title", "steps:\n  - required: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "fields:\n  a: {kind: number}\nsteps:\n  - id: a\n"},
		{"bad flag default", "fields:\n  a: {kind: flag, default: maybe}\nsteps:\n  - id: a\n"},
		{"check without id", "fields:\n  a: {kind: checklist, checks: [{label: x}]}\nsteps:\n  - id: a\n"},
		{"unknown strategy", "fields: {}\nsteps:\n  - id: a\n    strategy: {type: vibes}\n"},
		{"undeclared display field", "fields: {}\nsteps:\n  - id: a\n    fields: [ghost]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, _, err = d.Build()
			require.ErrorIs(t, err, wizard.ErrConfiguration)
		})
	}
}

func TestNewEngine_ConfigurationErrors(t *testing.T) {
	docs := []string{
		"fields: {}\nsteps:\n  - id: a\n    required: [missing]\n",
		"fields: {}\nsteps:\n  - id: a\n  - id: a\n",
		"fields:\n  p: {kind: text}\nsteps:\n  - id: a\n    strategy: {type: booleanMapRatio, field: p}\n",
	}

	for _, doc := range docs {
		d, err := Parse([]byte(doc))
		require.NoError(t, err)
		_, err = d.NewEngine()
		require.ErrorIs(t, err, wizard.ErrConfiguration)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sample", d.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "reading descriptor")
}
