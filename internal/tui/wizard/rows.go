package wizard

import (
	"fmt"
	"sort"

	"github.com/commonsos/commons/internal/descriptor"
	wiz "github.com/commonsos/commons/internal/wizard"
)

type rowKind int

const (
	rowText  rowKind = iota // scalar string
	rowFlag                 // scalar bool
	rowList                 // list header, target of append/remove
	rowItem                 // one sub-field of one list record
	rowCheck                // one checklist entry
)

// row is one focusable line of the current step.
type row struct {
	kind  rowKind
	key   string // field key
	index int    // record index for rowItem
	sub   string // item field for rowItem, check id for rowCheck
	label string
}

// editable reports whether the row takes free text.
func (r row) editable() bool {
	return r.kind == rowText || r.kind == rowItem
}

// buildRows lists the rows of step i. Field order follows the descriptor;
// list records and checks come from the engine's current state.
func buildRows(e *wiz.Engine, d *descriptor.Descriptor, i int) []row {
	var rows []row
	for _, k := range d.StepFields(i) {
		label := d.Label(k)
		v, ok := e.Field(k)
		if !ok {
			continue
		}
		if list, ok := wiz.AsRecords(v); ok {
			rows = append(rows, row{kind: rowList, key: k, label: fmt.Sprintf("%s (%d)", label, len(list))})
			for idx, rec := range list {
				subs := d.Fields[k].ItemFields
				if len(subs) == 0 {
					subs = recordKeys(rec)
				}
				for _, sub := range subs {
					rows = append(rows, row{
						kind:  rowItem,
						key:   k,
						index: idx,
						sub:   sub,
						label: fmt.Sprintf("#%d %s", idx+1, sub),
					})
				}
			}
			continue
		}
		if c, ok := wiz.AsChecklist(v); ok {
			f := d.Fields[k]
			ids := c.IDs()
			if len(f.Checks) > 0 {
				ids = ids[:0]
				for _, check := range f.Checks {
					ids = append(ids, check.ID)
				}
			}
			for _, id := range ids {
				rows = append(rows, row{kind: rowCheck, key: k, sub: id, label: f.CheckLabel(id)})
			}
			continue
		}
		switch v.(type) {
		case bool:
			rows = append(rows, row{kind: rowFlag, key: k, label: label})
		default:
			rows = append(rows, row{kind: rowText, key: k, label: label})
		}
	}
	return rows
}

func recordKeys(r wiz.Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// value returns the text shown for a row, and whether it is set.
func (r row) value(e *wiz.Engine) (string, bool) {
	v, _ := e.Field(r.key)
	switch r.kind {
	case rowText:
		s, _ := v.(string)
		return s, s != ""
	case rowFlag:
		b, _ := v.(bool)
		return checkbox(b), b
	case rowItem:
		list, _ := wiz.AsRecords(v)
		if r.index >= len(list) {
			return "", false
		}
		s := list[r.index][r.sub]
		return s, s != ""
	case rowCheck:
		c, _ := wiz.AsChecklist(v)
		return checkbox(c[r.sub]), c[r.sub]
	}
	return "", false
}

func checkbox(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}
