package wizard

import (
	"fmt"
	"math"
)

// StrategyKind tags how a step turns field values into a percentage.
type StrategyKind int

const (
	// FieldPresence counts non-empty required fields.
	FieldPresence StrategyKind = iota
	// PairedListThreshold counts list records whose pair keys are all filled,
	// against a fixed denominator.
	PairedListThreshold
	// BooleanMapRatio is the share of true checks in a checklist field.
	BooleanMapRatio
)

// String returns the descriptor name of the strategy kind.
func (k StrategyKind) String() string {
	switch k {
	case FieldPresence:
		return "fieldPresence"
	case PairedListThreshold:
		return "pairedListThreshold"
	case BooleanMapRatio:
		return "booleanMapRatio"
	default:
		return "unknown"
	}
}

// ParseStrategyKind parses a descriptor strategy name. Empty means FieldPresence.
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch s {
	case "", "fieldPresence":
		return FieldPresence, nil
	case "pairedListThreshold":
		return PairedListThreshold, nil
	case "booleanMapRatio":
		return BooleanMapRatio, nil
	default:
		return FieldPresence, fmt.Errorf("unknown completion strategy %q", s)
	}
}

// DefaultDenominator is the number of filled records that make a paired
// list step complete in the proposal builder.
const DefaultDenominator = 2

// Strategy is the completion strategy attached to a step. The zero value is
// FieldPresence.
type Strategy struct {
	Kind StrategyKind
	// Field is the list or checklist key read by the non-default kinds.
	Field string
	// Pair lists the record keys that must all be non-empty for a record to
	// count toward PairedListThreshold.
	Pair []string
	// Denominator is the PairedListThreshold record count that yields 100.
	Denominator int
}

// Presence returns the field presence strategy.
func Presence() Strategy {
	return Strategy{Kind: FieldPresence}
}

// PairedThreshold returns a paired list threshold strategy over field.
func PairedThreshold(field string, denominator int, pair ...string) Strategy {
	return Strategy{Kind: PairedListThreshold, Field: field, Pair: pair, Denominator: denominator}
}

// ChecklistRatio returns a boolean map ratio strategy over field.
func ChecklistRatio(field string) Strategy {
	return Strategy{Kind: BooleanMapRatio, Field: field}
}

// String describes the strategy for listings.
func (s Strategy) String() string {
	switch s.Kind {
	case PairedListThreshold:
		return fmt.Sprintf("%s(%s, %d)", s.Kind, s.Field, s.Denominator)
	case BooleanMapRatio:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Field)
	default:
		return s.Kind.String()
	}
}

// StepDefinition is one page of the wizard.
type StepDefinition struct {
	ID                string
	RequiredFieldKeys []string
	Strategy          Strategy
}

// CompletionResult is a derived, never stored, step percentage.
type CompletionResult struct {
	StepID  string `json:"step_id" yaml:"step_id"`
	Percent int    `json:"percent" yaml:"percent"`
}

// percent rounds 100*n/d half away from zero. A zero denominator yields 0.
func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}

func presencePercent(state FormState, keys []string) int {
	filled := 0
	for _, k := range keys {
		if isFilled(state[k]) {
			filled++
		}
	}
	return percent(filled, len(keys))
}

func pairedPercent(records []Record, pair []string, denominator int) int {
	qualifying := 0
	for _, r := range records {
		if r.Filled(pair...) {
			qualifying++
		}
	}
	return min(100, percent(qualifying, denominator))
}

func ratioPercent(c Checklist) int {
	return percent(c.Done(), len(c))
}
