// Package wizard implements the state model behind a multi-step form: an
// ordered list of steps, a flat field store, and completion percentages
// derived from that store on every query.
//
// An Engine belongs to one session. It is synchronous, does no I/O and holds
// no locks; callers must not share it between goroutines.
package wizard

import (
	"fmt"

	"github.com/commonsos/commons/internal/logger"
)

// DefaultListFloor is the minimum record count RemoveLastListItem keeps.
const DefaultListFloor = 1

// Engine owns the steps, the form state and the current position.
type Engine struct {
	steps   []StepDefinition
	byID    map[string]int
	kinds   map[string]Kind
	state   FormState
	current int

	listFloor int
	log       *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithListFloor sets the minimum number of records a list field keeps when
// removing. Values below 1 are raised to 1.
func WithListFloor(n int) Option {
	return func(e *Engine) {
		e.listFloor = max(n, DefaultListFloor)
	}
}

// New validates the step definitions against the default state and returns
// an engine positioned at step 0. The default state is copied.
func New(steps []StepDefinition, defaults FormState, opts ...Option) (*Engine, error) {
	if len(steps) == 0 {
		return nil, configErrorf("at least one step is required")
	}

	e := &Engine{
		steps:     make([]StepDefinition, len(steps)),
		byID:      make(map[string]int, len(steps)),
		kinds:     make(map[string]Kind, len(defaults)),
		state:     make(FormState, len(defaults)),
		listFloor: DefaultListFloor,
		log:       logger.Named("wizard"),
	}
	for _, opt := range opts {
		opt(e)
	}

	for key, v := range defaults {
		if v == nil {
			return nil, configErrorf("default for field %q is nil", key)
		}
		kind, ok := kindOf(v)
		if !ok {
			return nil, configErrorf("default for field %q has unsupported type %T", key, v)
		}
		e.kinds[key] = kind
		e.state[key] = cloneValue(v)
	}

	for i, step := range steps {
		if step.ID == "" {
			return nil, configErrorf("step %d has an empty id", i)
		}
		if prev, dup := e.byID[step.ID]; dup {
			return nil, configErrorf("step id %q is used by steps %d and %d", step.ID, prev, i)
		}
		e.byID[step.ID] = i

		for _, key := range step.RequiredFieldKeys {
			if _, ok := e.kinds[key]; !ok {
				return nil, configErrorf("step %q requires field %q which has no default", step.ID, key)
			}
		}
		if err := e.checkStrategy(step); err != nil {
			return nil, err
		}

		e.steps[i] = StepDefinition{
			ID:                step.ID,
			RequiredFieldKeys: append([]string(nil), step.RequiredFieldKeys...),
			Strategy: Strategy{
				Kind:        step.Strategy.Kind,
				Field:       step.Strategy.Field,
				Pair:        append([]string(nil), step.Strategy.Pair...),
				Denominator: step.Strategy.Denominator,
			},
		}
	}

	e.log.Debug("initialized %d steps, %d fields", len(e.steps), len(e.state))
	return e, nil
}

func (e *Engine) checkStrategy(step StepDefinition) error {
	s := step.Strategy
	switch s.Kind {
	case FieldPresence:
		return nil
	case PairedListThreshold:
		if s.Denominator < 1 {
			return configErrorf("step %q: denominator must be at least 1, got %d", step.ID, s.Denominator)
		}
		if len(s.Pair) == 0 {
			return configErrorf("step %q: paired strategy needs at least one record key", step.ID)
		}
		return e.checkStrategyField(step.ID, s.Field, KindList)
	case BooleanMapRatio:
		return e.checkStrategyField(step.ID, s.Field, KindChecklist)
	default:
		return configErrorf("step %q: unknown strategy %d", step.ID, int(s.Kind))
	}
}

func (e *Engine) checkStrategyField(stepID, key string, want Kind) error {
	got, ok := e.kinds[key]
	if !ok {
		return configErrorf("step %q: strategy field %q has no default", stepID, key)
	}
	if got != want {
		return configErrorf("step %q: strategy field %q is %s, want %s", stepID, key, got, want)
	}
	return nil
}

// SetField overwrites a field. Only nil, and a list shorter than the list
// floor for a list field, are rejected; the value shape is otherwise the
// caller's responsibility. It never moves the current step.
func (e *Engine) SetField(key string, value any) error {
	if value == nil {
		return fmt.Errorf("set %q: %w", key, ErrInvalidValue)
	}
	kind, known := e.kinds[key]
	if records, ok := AsRecords(value); ok && known && kind == KindList && len(records) < e.listFloor {
		return fmt.Errorf("set %q: %d item(s) is below the list floor of %d: %w",
			key, len(records), e.listFloor, ErrInvalidValue)
	}
	if !known {
		kind, _ = kindOf(value)
		e.kinds[key] = kind
	}
	e.state[key] = cloneValue(value)
	return nil
}

// Field returns the value stored under key. Lists and checklists are copies.
func (e *Engine) Field(key string) (any, bool) {
	v, ok := e.state[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Kind returns the declared kind of key.
func (e *Engine) Kind(key string) (Kind, bool) {
	k, ok := e.kinds[key]
	return k, ok
}

// State returns a deep copy of the form state.
func (e *Engine) State() FormState {
	return e.state.Clone()
}

// list returns the stored records of a list field.
func (e *Engine) list(key string) ([]Record, error) {
	kind, ok := e.kinds[key]
	if !ok || kind != KindList {
		return nil, &FieldKindError{Key: key, Want: KindList, Got: kind}
	}
	records, ok := AsRecords(e.state[key])
	if !ok {
		got, _ := kindOf(e.state[key])
		return nil, &FieldKindError{Key: key, Want: KindList, Got: got}
	}
	return records, nil
}

// checklist returns the stored checklist of a checklist field.
func (e *Engine) checklist(key string) (Checklist, error) {
	kind, ok := e.kinds[key]
	if !ok || kind != KindChecklist {
		return nil, &FieldKindError{Key: key, Want: KindChecklist, Got: kind}
	}
	c, ok := AsChecklist(e.state[key])
	if !ok {
		got, _ := kindOf(e.state[key])
		return nil, &FieldKindError{Key: key, Want: KindChecklist, Got: got}
	}
	return c, nil
}

// AppendListItem appends a copy of item to a list field.
func (e *Engine) AppendListItem(key string, item Record) error {
	records, err := e.list(key)
	if err != nil {
		return err
	}
	e.state[key] = withRecords(e.state[key], append(records, item.Clone()))
	return nil
}

// RemoveLastListItem drops the last record of a list field. At the floor it
// logs and leaves the list unchanged.
func (e *Engine) RemoveLastListItem(key string) error {
	records, err := e.list(key)
	if err != nil {
		return err
	}
	if len(records) <= e.listFloor {
		e.log.Warn("list %q already at %d item(s), not removing", key, len(records))
		return nil
	}
	e.state[key] = withRecords(e.state[key], records[:len(records)-1])
	return nil
}

// UpdateListItem overwrites one key of the record at index.
func (e *Engine) UpdateListItem(key string, index int, sub, value string) error {
	records, err := e.list(key)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return &IndexError{What: key, Index: index, Len: len(records)}
	}
	if records[index] == nil {
		records[index] = Record{}
		e.state[key] = withRecords(e.state[key], records)
	}
	records[index][sub] = value
	return nil
}

// SetCheck sets one check of a checklist field.
func (e *Engine) SetCheck(key, checkID string, done bool) error {
	c, err := e.checklist(key)
	if err != nil {
		return err
	}
	if c == nil {
		c = Checklist{}
		e.state[key] = withChecklist(e.state[key], c)
	}
	c[checkID] = done
	return nil
}

// ToggleCheck flips one check of a checklist field.
func (e *Engine) ToggleCheck(key, checkID string) error {
	c, err := e.checklist(key)
	if err != nil {
		return err
	}
	if c == nil {
		c = Checklist{}
		e.state[key] = withChecklist(e.state[key], c)
	}
	c[checkID] = !c[checkID]
	return nil
}

// StepCount returns the number of steps.
func (e *Engine) StepCount() int {
	return len(e.steps)
}

// Current returns the current step index.
func (e *Engine) Current() int {
	return e.current
}

// Step returns the definition at index.
func (e *Engine) Step(index int) (StepDefinition, error) {
	if err := e.checkIndex(index); err != nil {
		return StepDefinition{}, err
	}
	return e.steps[index], nil
}

// Steps returns the step definitions in order.
func (e *Engine) Steps() []StepDefinition {
	return append([]StepDefinition(nil), e.steps...)
}

// IndexOf returns the index of the step with id.
func (e *Engine) IndexOf(id string) (int, bool) {
	i, ok := e.byID[id]
	return i, ok
}

func (e *Engine) checkIndex(index int) error {
	if index < 0 || index >= len(e.steps) {
		return &IndexError{What: "step", Index: index, Len: len(e.steps)}
	}
	return nil
}

// GoTo moves to any step. Completion never blocks navigation.
func (e *Engine) GoTo(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.current = index
	return nil
}

// Next moves forward one step and reports whether it moved.
func (e *Engine) Next() bool {
	if e.current >= len(e.steps)-1 {
		return false
	}
	e.current++
	return true
}

// Prev moves back one step and reports whether it moved.
func (e *Engine) Prev() bool {
	if e.current == 0 {
		return false
	}
	e.current--
	return true
}

// CompletionForStep returns the 0-100 completion of the step at index.
func (e *Engine) CompletionForStep(index int) (int, error) {
	if err := e.checkIndex(index); err != nil {
		return 0, err
	}
	return e.completion(e.steps[index]), nil
}

func (e *Engine) completion(step StepDefinition) int {
	s := step.Strategy
	switch s.Kind {
	case PairedListThreshold:
		records, _ := AsRecords(e.state[s.Field])
		return pairedPercent(records, s.Pair, s.Denominator)
	case BooleanMapRatio:
		c, _ := AsChecklist(e.state[s.Field])
		return ratioPercent(c)
	default:
		return presencePercent(e.state, step.RequiredFieldKeys)
	}
}

// Completions returns the completion of every step in order.
func (e *Engine) Completions() []CompletionResult {
	out := make([]CompletionResult, len(e.steps))
	for i, step := range e.steps {
		out[i] = CompletionResult{StepID: step.ID, Percent: e.completion(step)}
	}
	return out
}

// OverallProgress is position progress: how far through the steps the
// current index is. It never looks at field values.
func (e *Engine) OverallProgress() int {
	return percent(e.current+1, len(e.steps))
}

// OverallCompletion is content progress: the rounded mean of every step's
// completion.
func (e *Engine) OverallCompletion() int {
	total := 0
	for _, step := range e.steps {
		total += e.completion(step)
	}
	return percent(total, 100*len(e.steps))
}
