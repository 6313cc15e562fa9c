package wizard

import (
	"bytes"
	"errors"
	"testing"

	"github.com/commonsos/commons/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// proposalSteps mirrors the eight-step proposal builder.
func proposalSteps() []StepDefinition {
	return []StepDefinition{
		{ID: "client", RequiredFieldKeys: []string{"clientName", "industry", "engagementType"}},
		{ID: "context", RequiredFieldKeys: []string{"background", "problem"}},
		{ID: "objectives", RequiredFieldKeys: []string{"objectives", "successMetrics"}},
		{ID: "approach", Strategy: PairedThreshold("phases", DefaultDenominator, "name", "question")},
		{ID: "team", RequiredFieldKeys: []string{"lead", "nda"}},
		{ID: "pricing", RequiredFieldKeys: []string{"fee"}},
		{ID: "timeline"},
		{ID: "review", Strategy: ChecklistRatio("reviewChecklist")},
	}
}

func proposalDefaults() FormState {
	return FormState{
		"clientName":     "",
		"industry":       "",
		"engagementType": "",
		"background":     "",
		"problem":        "",
		"objectives":     "",
		"successMetrics": "",
		"lead":           "",
		"nda":            false,
		"fee":            "",
		"startDate":      "",
		"phases":         []Record{{"name": "", "question": ""}, {"name": "", "question": ""}},
		"reviewChecklist": Checklist{
			"scope": false, "pricing": false, "team": false, "timeline": false,
		},
	}
}

func newProposal(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(proposalSteps(), proposalDefaults(), opts...)
	require.NoError(t, err)
	return e
}

func TestNew_PositionsAtFirstStep(t *testing.T) {
	e := newProposal(t)

	require.Equal(t, 0, e.Current())
	require.Equal(t, 8, e.StepCount())
	idx, ok := e.IndexOf("review")
	require.True(t, ok)
	require.Equal(t, 7, idx)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		steps    []StepDefinition
		defaults FormState
	}{
		{
			name:     "no steps",
			steps:    nil,
			defaults: FormState{},
		},
		{
			name:     "duplicate id",
			steps:    []StepDefinition{{ID: "a"}, {ID: "a"}},
			defaults: FormState{},
		},
		{
			name:     "empty id",
			steps:    []StepDefinition{{ID: ""}},
			defaults: FormState{},
		},
		{
			name:     "required key without default",
			steps:    []StepDefinition{{ID: "a", RequiredFieldKeys: []string{"missing"}}},
			defaults: FormState{"other": ""},
		},
		{
			name:     "paired field missing",
			steps:    []StepDefinition{{ID: "a", Strategy: PairedThreshold("phases", 2, "name")}},
			defaults: FormState{},
		},
		{
			name:     "paired field not a list",
			steps:    []StepDefinition{{ID: "a", Strategy: PairedThreshold("phases", 2, "name")}},
			defaults: FormState{"phases": ""},
		},
		{
			name:     "paired zero denominator",
			steps:    []StepDefinition{{ID: "a", Strategy: PairedThreshold("phases", 0, "name")}},
			defaults: FormState{"phases": []Record{{}}},
		},
		{
			name:     "paired without keys",
			steps:    []StepDefinition{{ID: "a", Strategy: PairedThreshold("phases", 2)}},
			defaults: FormState{"phases": []Record{{}}},
		},
		{
			name:     "checklist field is a list",
			steps:    []StepDefinition{{ID: "a", Strategy: ChecklistRatio("checks")}},
			defaults: FormState{"checks": []Record{{}}},
		},
		{
			name:     "unsupported default type",
			steps:    []StepDefinition{{ID: "a"}},
			defaults: FormState{"count": 3},
		},
		{
			name:     "nil default",
			steps:    []StepDefinition{{ID: "a"}},
			defaults: FormState{"x": nil},
		},
		{
			name:     "unknown strategy kind",
			steps:    []StepDefinition{{ID: "a", Strategy: Strategy{Kind: StrategyKind(9)}}},
			defaults: FormState{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.steps, tt.defaults)
			require.Nil(t, e)
			require.ErrorIs(t, err, ErrConfiguration)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			require.NotEmpty(t, cfgErr.Reason)
		})
	}
}

func TestNew_CopiesDefaults(t *testing.T) {
	defaults := proposalDefaults()
	e, err := New(proposalSteps(), defaults)
	require.NoError(t, err)

	defaults["phases"].([]Record)[0]["name"] = "mutated"
	defaults["clientName"] = "mutated"

	v, _ := e.Field("phases")
	require.Equal(t, "", v.([]Record)[0]["name"])
	v, _ = e.Field("clientName")
	require.Equal(t, "", v)
}

func TestFieldPresence_Monotonic(t *testing.T) {
	e := newProposal(t)

	got, err := e.CompletionForStep(0)
	require.NoError(t, err)
	require.Equal(t, 0, got)

	prev := got
	for i, key := range []string{"clientName", "industry", "engagementType"} {
		require.NoError(t, e.SetField(key, "x"))
		got, err = e.CompletionForStep(0)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, prev, "completion dropped after filling %s", key)
		if i < 2 {
			require.Less(t, got, 100, "100 before all fields were filled")
		}
		prev = got
	}
	require.Equal(t, 100, got)
}

func TestFieldPresence_Rounding(t *testing.T) {
	e := newProposal(t)

	require.NoError(t, e.SetField("clientName", "Acme"))
	got, _ := e.CompletionForStep(0)
	require.Equal(t, 33, got)

	require.NoError(t, e.SetField("industry", "Retail"))
	got, _ = e.CompletionForStep(0)
	require.Equal(t, 67, got)
}

func TestFieldPresence_BoolAndWhitespace(t *testing.T) {
	e := newProposal(t)
	teamIdx, _ := e.IndexOf("team")

	require.NoError(t, e.SetField("lead", " "))
	got, _ := e.CompletionForStep(teamIdx)
	require.Equal(t, 50, got, "whitespace is content; values are not trimmed")

	require.NoError(t, e.SetField("nda", true))
	got, _ = e.CompletionForStep(teamIdx)
	require.Equal(t, 100, got)

	require.NoError(t, e.SetField("nda", false))
	got, _ = e.CompletionForStep(teamIdx)
	require.Equal(t, 50, got)
}

func TestFieldPresence_NoRequiredFieldsIsZero(t *testing.T) {
	e := newProposal(t)
	idx, _ := e.IndexOf("timeline")

	require.NoError(t, e.SetField("startDate", "2026-01-05"))
	got, err := e.CompletionForStep(idx)
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestPairedListThreshold(t *testing.T) {
	tests := []struct {
		name       string
		qualifying int
		partial    int
		want       int
	}{
		{"none", 0, 2, 0},
		{"one", 1, 1, 50},
		{"two", 2, 0, 100},
		{"five", 5, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var phases []Record
			for i := 0; i < tt.qualifying; i++ {
				phases = append(phases, Record{"name": "Discover", "question": "What hurts?"})
			}
			for i := 0; i < tt.partial; i++ {
				phases = append(phases, Record{"name": "Half done", "question": ""})
			}
			if len(phases) == 0 {
				phases = []Record{{}}
			}

			e := newProposal(t)
			require.NoError(t, e.SetField("phases", phases))

			idx, _ := e.IndexOf("approach")
			got, err := e.CompletionForStep(idx)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPairedListThreshold_CustomDenominator(t *testing.T) {
	steps := []StepDefinition{{ID: "plan", Strategy: PairedThreshold("items", 3, "title")}}
	e, err := New(steps, FormState{"items": []Record{{"title": "a"}, {"title": ""}}})
	require.NoError(t, err)

	got, _ := e.CompletionForStep(0)
	require.Equal(t, 33, got)
}

func TestBooleanMapRatio(t *testing.T) {
	e := newProposal(t)
	idx, _ := e.IndexOf("review")

	for k, id := range []string{"scope", "pricing", "team", "timeline"} {
		got, err := e.CompletionForStep(idx)
		require.NoError(t, err)
		require.Equal(t, percent(k, 4), got)
		require.NoError(t, e.SetCheck("reviewChecklist", id, true))
	}

	got, _ := e.CompletionForStep(idx)
	require.Equal(t, 100, got)

	require.NoError(t, e.ToggleCheck("reviewChecklist", "scope"))
	got, _ = e.CompletionForStep(idx)
	require.Equal(t, 75, got)
}

func TestBooleanMapRatio_ThirdsRound(t *testing.T) {
	steps := []StepDefinition{{ID: "review", Strategy: ChecklistRatio("checks")}}
	e, err := New(steps, FormState{"checks": Checklist{"a": true, "b": true, "c": false}})
	require.NoError(t, err)

	got, _ := e.CompletionForStep(0)
	require.Equal(t, 67, got)
}

func TestBooleanMapRatio_EmptyChecklist(t *testing.T) {
	steps := []StepDefinition{{ID: "review", Strategy: ChecklistRatio("checks")}}
	e, err := New(steps, FormState{"checks": Checklist{}})
	require.NoError(t, err)

	got, _ := e.CompletionForStep(0)
	require.Equal(t, 0, got)
}

func TestCompletionForStep_OutOfRange(t *testing.T) {
	e := newProposal(t)

	for _, idx := range []int{-1, 8, 100} {
		_, err := e.CompletionForStep(idx)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		var idxErr *IndexError
		require.ErrorAs(t, err, &idxErr)
		require.Equal(t, idx, idxErr.Index)
		require.Equal(t, 8, idxErr.Len)
	}
}

func TestOverallProgress_IsPositionOnly(t *testing.T) {
	e := newProposal(t)
	require.Equal(t, 13, e.OverallProgress())

	require.NoError(t, e.GoTo(3))
	require.Equal(t, 50, e.OverallProgress())

	// Filling fields does not move position progress.
	require.NoError(t, e.SetField("clientName", "Acme"))
	require.NoError(t, e.SetField("industry", "Retail"))
	require.NoError(t, e.SetField("engagementType", "Strategy"))
	require.Equal(t, 50, e.OverallProgress())

	require.NoError(t, e.GoTo(7))
	require.Equal(t, 100, e.OverallProgress())
}

func TestOverallCompletion(t *testing.T) {
	e := newProposal(t)
	require.Equal(t, 0, e.OverallCompletion())

	require.NoError(t, e.SetField("clientName", "Acme"))
	require.NoError(t, e.SetField("industry", "Retail"))
	require.NoError(t, e.SetField("engagementType", "Strategy"))
	require.NoError(t, e.SetField("fee", "40000"))

	// Two of eight steps at 100.
	require.Equal(t, 25, e.OverallCompletion())
	require.Equal(t, 13, e.OverallProgress(), "content completion must not move position")
}

func TestGoTo_NeverBlocks(t *testing.T) {
	e := newProposal(t)

	for _, idx := range []int{7, 0, 4, 3, 7} {
		require.NoError(t, e.GoTo(idx))
		require.Equal(t, idx, e.Current())
	}

	require.ErrorIs(t, e.GoTo(8), ErrIndexOutOfRange)
	require.ErrorIs(t, e.GoTo(-1), ErrIndexOutOfRange)
	require.Equal(t, 7, e.Current(), "failed GoTo must not move")
}

func TestNextPrev(t *testing.T) {
	e := newProposal(t)

	require.False(t, e.Prev())
	for i := 1; i < 8; i++ {
		require.True(t, e.Next())
		require.Equal(t, i, e.Current())
	}
	require.False(t, e.Next())
	require.True(t, e.Prev())
	require.Equal(t, 6, e.Current())
}

func TestSetField_RoundTrip(t *testing.T) {
	e := newProposal(t)

	values := map[string]any{
		"clientName": "  Acme Corp  ",
		"nda":        true,
		"phases":     []Record{{"name": "Discover", "question": "Why now?", "duration": "2w"}},
		"reviewChecklist": Checklist{
			"scope": true, "pricing": false, "team": true, "timeline": false,
		},
		"notes": "a field no step requires",
	}

	for key, want := range values {
		require.NoError(t, e.SetField(key, want))
		got, ok := e.Field(key)
		require.True(t, ok)
		assert.Equal(t, want, got, "round trip of %s", key)
	}
}

func TestSetField_RoundTripUnnamedTypes(t *testing.T) {
	e := newProposal(t)

	rows := []map[string]string{{"name": "n"}}
	require.NoError(t, e.SetField("rows", rows))
	got, _ := e.Field("rows")
	require.IsType(t, []map[string]string{}, got)
	require.Equal(t, rows, got)

	flags := map[string]bool{"a": true}
	require.NoError(t, e.SetField("flags", flags))
	got, _ = e.Field("flags")
	require.IsType(t, map[string]bool{}, got)
	require.Equal(t, flags, got)
	kind, _ := e.Kind("flags")
	require.Equal(t, KindChecklist, kind)

	// Copies, not aliases.
	rows[0]["name"] = "changed"
	got, _ = e.Field("rows")
	require.Equal(t, "n", got.([]map[string]string)[0]["name"])
}

func TestUnnamedTypes_ListAndChecklistOps(t *testing.T) {
	e := newProposal(t)
	approach, _ := e.IndexOf("approach")
	review, _ := e.IndexOf("review")

	require.NoError(t, e.SetField("phases", []map[string]string{
		{"name": "Discover", "question": "Why now?"},
		{"name": "Build"},
	}))
	got, _ := e.CompletionForStep(approach)
	require.Equal(t, 50, got)

	require.NoError(t, e.UpdateListItem("phases", 1, "question", "What first?"))
	require.NoError(t, e.AppendListItem("phases", Record{"name": "Run"}))
	got, _ = e.CompletionForStep(approach)
	require.Equal(t, 100, got)

	v, _ := e.Field("phases")
	require.IsType(t, []map[string]string{}, v)
	require.Len(t, v, 3)
	require.Equal(t, "What first?", v.([]map[string]string)[1]["question"])

	require.NoError(t, e.RemoveLastListItem("phases"))
	v, _ = e.Field("phases")
	require.IsType(t, []map[string]string{}, v)
	require.Len(t, v, 2)

	require.NoError(t, e.SetField("reviewChecklist", map[string]bool{"scope": true, "legal": false}))
	got, _ = e.CompletionForStep(review)
	require.Equal(t, 50, got)

	require.NoError(t, e.ToggleCheck("reviewChecklist", "legal"))
	require.NoError(t, e.SetCheck("reviewChecklist", "scope", true))
	got, _ = e.CompletionForStep(review)
	require.Equal(t, 100, got)

	v, _ = e.Field("reviewChecklist")
	require.Equal(t, map[string]bool{"scope": true, "legal": true}, v)
}

func TestSetField_ListFloor(t *testing.T) {
	e := newProposal(t)

	require.ErrorIs(t, e.SetField("phases", []Record{}), ErrInvalidValue)
	require.ErrorIs(t, e.SetField("phases", []map[string]string(nil)), ErrInvalidValue)
	v, _ := e.Field("phases")
	require.Len(t, v, 2, "rejected write leaves the list alone")

	require.NoError(t, e.SetField("phases", []Record{{"name": "Only"}}))

	e = newProposal(t, WithListFloor(2))
	require.ErrorIs(t, e.SetField("phases", []Record{{"name": "Only"}}), ErrInvalidValue)

	// Fields with no declared kind are not held to the floor.
	require.NoError(t, e.SetField("extra", []Record{}))
}

func TestSetField_RejectsNil(t *testing.T) {
	e := newProposal(t)

	err := e.SetField("clientName", nil)
	require.ErrorIs(t, err, ErrInvalidValue)

	v, _ := e.Field("clientName")
	require.Equal(t, "", v)
}

func TestSetField_DoesNotAdvance(t *testing.T) {
	e := newProposal(t)
	require.NoError(t, e.SetField("clientName", "Acme"))
	require.NoError(t, e.SetField("industry", "Retail"))
	require.NoError(t, e.SetField("engagementType", "Strategy"))
	require.Equal(t, 0, e.Current())
}

func TestField_ReturnsCopies(t *testing.T) {
	e := newProposal(t)

	v, _ := e.Field("phases")
	v.([]Record)[0]["name"] = "outside"

	v, _ = e.Field("phases")
	require.Equal(t, "", v.([]Record)[0]["name"])

	state := e.State()
	state["reviewChecklist"].(Checklist)["scope"] = true
	idx, _ := e.IndexOf("review")
	got, _ := e.CompletionForStep(idx)
	require.Equal(t, 0, got)
}

func TestAppendListItem(t *testing.T) {
	e := newProposal(t)

	require.NoError(t, e.AppendListItem("phases", Record{"name": "Deliver", "question": "Done?"}))
	v, _ := e.Field("phases")
	require.Len(t, v.([]Record), 3)
	require.Equal(t, "Deliver", v.([]Record)[2]["name"])

	err := e.AppendListItem("clientName", Record{})
	require.ErrorIs(t, err, ErrInvalidFieldKind)

	var kindErr *FieldKindError
	require.ErrorAs(t, err, &kindErr)
	require.Equal(t, KindList, kindErr.Want)
	require.Equal(t, KindScalar, kindErr.Got)

	require.ErrorIs(t, e.AppendListItem("reviewChecklist", Record{}), ErrInvalidFieldKind)
	require.ErrorIs(t, e.AppendListItem("nope", Record{}), ErrInvalidFieldKind)
}

func TestRemoveLastListItem_Floor(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)
	log.SetLevel(logger.LevelWarn)

	e := newProposal(t, WithLogger(log))

	require.NoError(t, e.RemoveLastListItem("phases"))
	v, _ := e.Field("phases")
	require.Len(t, v.([]Record), 1)

	// At the floor: no error, length unchanged, warning logged.
	require.NoError(t, e.RemoveLastListItem("phases"))
	v, _ = e.Field("phases")
	require.Len(t, v.([]Record), 1)
	require.Contains(t, buf.String(), "already at 1 item")

	require.ErrorIs(t, e.RemoveLastListItem("fee"), ErrInvalidFieldKind)
}

func TestWithListFloor(t *testing.T) {
	e := newProposal(t, WithListFloor(2))

	require.NoError(t, e.RemoveLastListItem("phases"))
	v, _ := e.Field("phases")
	require.Len(t, v.([]Record), 2)

	e = newProposal(t, WithListFloor(0))
	require.NoError(t, e.RemoveLastListItem("phases"))
	require.NoError(t, e.RemoveLastListItem("phases"))
	v, _ = e.Field("phases")
	require.Len(t, v.([]Record), 1, "floor never drops below one")
}

func TestUpdateListItem(t *testing.T) {
	e := newProposal(t)
	idx, _ := e.IndexOf("approach")

	require.NoError(t, e.UpdateListItem("phases", 0, "name", "Discover"))
	require.NoError(t, e.UpdateListItem("phases", 0, "question", "What is broken?"))

	got, _ := e.CompletionForStep(idx)
	require.Equal(t, 50, got)

	require.ErrorIs(t, e.UpdateListItem("phases", 2, "name", "x"), ErrIndexOutOfRange)
	require.ErrorIs(t, e.UpdateListItem("phases", -1, "name", "x"), ErrIndexOutOfRange)
	require.ErrorIs(t, e.UpdateListItem("fee", 0, "name", "x"), ErrInvalidFieldKind)
}

func TestChecklistOps_WrongKind(t *testing.T) {
	e := newProposal(t)

	require.ErrorIs(t, e.SetCheck("phases", "scope", true), ErrInvalidFieldKind)
	require.ErrorIs(t, e.ToggleCheck("clientName", "scope"), ErrInvalidFieldKind)
}

func TestListOps_AfterShapeOverwrite(t *testing.T) {
	e := newProposal(t)

	// SetField does not validate shape; list operations then report the mismatch.
	require.NoError(t, e.SetField("phases", "not a list"))
	require.ErrorIs(t, e.AppendListItem("phases", Record{}), ErrInvalidFieldKind)

	idx, _ := e.IndexOf("approach")
	got, err := e.CompletionForStep(idx)
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestCompletions(t *testing.T) {
	e := newProposal(t)
	require.NoError(t, e.SetField("fee", "10k"))

	results := e.Completions()
	require.Len(t, results, 8)
	require.Equal(t, CompletionResult{StepID: "client", Percent: 0}, results[0])
	require.Equal(t, CompletionResult{StepID: "pricing", Percent: 100}, results[5])
}

func TestEnginesDoNotShareState(t *testing.T) {
	a := newProposal(t)
	b := newProposal(t)

	require.NoError(t, a.SetField("clientName", "Acme"))
	require.NoError(t, a.UpdateListItem("phases", 0, "name", "Discover"))

	v, _ := b.Field("clientName")
	require.Equal(t, "", v)
	v, _ = b.Field("phases")
	require.Equal(t, "", v.([]Record)[0]["name"])
}

func TestStep(t *testing.T) {
	e := newProposal(t)

	step, err := e.Step(3)
	require.NoError(t, err)
	require.Equal(t, "approach", step.ID)
	require.Equal(t, PairedListThreshold, step.Strategy.Kind)
	require.Equal(t, "pairedListThreshold(phases, 2)", step.Strategy.String())

	_, err = e.Step(8)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}
