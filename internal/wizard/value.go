package wizard

import "sort"

// Kind is the declared shape of a field, inferred from its default value.
type Kind int

const (
	KindScalar    Kind = iota // string or bool
	KindList                  // ordered []Record, e.g. phases
	KindChecklist             // Checklist of check id -> done
)

// String returns the kind name used in error messages and descriptors.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindChecklist:
		return "checklist"
	default:
		return "unknown"
	}
}

// Record is one structured item of a list field, e.g. a phase with a name
// and a question.
type Record map[string]string

// Checklist maps check ids to their done state.
type Checklist map[string]bool

// FormState is the flat field store shared by every step.
type FormState map[string]any

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filled reports whether every key is non-empty in the record.
func (r Record) Filled(keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if r[k] == "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of the checklist.
func (c Checklist) Clone() Checklist {
	out := make(Checklist, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Done returns how many checks are true.
func (c Checklist) Done() int {
	n := 0
	for _, v := range c {
		if v {
			n++
		}
	}
	return n
}

// IDs returns the check ids in sorted order.
func (c Checklist) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone deep-copies the form state, including list records and checklists.
func (s FormState) Clone() FormState {
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// kindOf classifies a value. ok is false for types the engine cannot
// infer a kind from.
func kindOf(v any) (Kind, bool) {
	switch v.(type) {
	case string, bool:
		return KindScalar, true
	case []Record, []map[string]string:
		return KindList, true
	case Checklist, map[string]bool:
		return KindChecklist, true
	default:
		return KindScalar, false
	}
}

// cloneValue copies list and checklist values so callers never alias engine
// state. The copy keeps the caller's type: unnamed slices and maps come back
// unnamed.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []Record:
		out := make([]Record, len(t))
		for i, r := range t {
			out[i] = r.Clone()
		}
		return out
	case []map[string]string:
		out := make([]map[string]string, len(t))
		for i, r := range t {
			out[i] = Record(r).Clone()
		}
		return out
	case Checklist:
		return t.Clone()
	case map[string]bool:
		return map[string]bool(Checklist(t).Clone())
	default:
		return v
	}
}

// AsRecords views a list value as records. The records share maps with v.
func AsRecords(v any) ([]Record, bool) {
	switch t := v.(type) {
	case []Record:
		return t, true
	case []map[string]string:
		out := make([]Record, len(t))
		for i, r := range t {
			out[i] = Record(r)
		}
		return out, true
	default:
		return nil, false
	}
}

// AsChecklist views a checklist value as a Checklist sharing v's map.
func AsChecklist(v any) (Checklist, bool) {
	switch t := v.(type) {
	case Checklist:
		return t, true
	case map[string]bool:
		return Checklist(t), true
	default:
		return nil, false
	}
}

// withRecords returns records in the list type of like.
func withRecords(like any, records []Record) any {
	if _, ok := like.([]map[string]string); ok {
		out := make([]map[string]string, len(records))
		for i, r := range records {
			out[i] = map[string]string(r)
		}
		return out
	}
	return records
}

// withChecklist returns c in the checklist type of like.
func withChecklist(like any, c Checklist) any {
	if _, ok := like.(map[string]bool); ok {
		return map[string]bool(c)
	}
	return c
}

// isFilled is the non-empty rule for field presence. Strings are not
// trimmed: a single space counts as content.
func isFilled(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	if records, ok := AsRecords(v); ok {
		for _, r := range records {
			for _, s := range r {
				if s != "" {
					return true
				}
			}
		}
		return false
	}
	if c, ok := AsChecklist(v); ok {
		return c.Done() > 0
	}
	return true
}
