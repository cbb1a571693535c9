package model

import (
	"sort"
	"strings"
)

// SectionToTracedTable lists every section id with the ids it traces to,
// sorted by section id. It returns nil when no section carries an id.
func SectionToTracedTable(doc *Document) (*Table, error) {
	traced := make(map[string][]string)
	for _, s := range doc.Sections {
		if s == nil || s.ID == "" {
			continue
		}
		traced[s.ID] = append(traced[s.ID], s.TracedIDs...)
	}
	return traceTable("Section ID", "Traced IDs", traced)
}

// TracedToSectionTable is the inverse of SectionToTracedTable: every traced
// id with the sections that reference it.
func TracedToSectionTable(doc *Document) (*Table, error) {
	sections := make(map[string][]string)
	for _, s := range doc.Sections {
		if s == nil || s.ID == "" {
			continue
		}
		for _, id := range s.TracedIDs {
			sections[id] = append(sections[id], s.ID)
		}
	}
	return traceTable("Traced ID", "Section IDs", sections)
}

func traceTable(keyHeader, valueHeader string, m map[string][]string) (*Table, error) {
	if len(m) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t, err := NewTable(2)
	if err != nil {
		return nil, err
	}
	t.HeaderRow = true
	if err := t.AddRow(
		NewTableCell(NewParagraph(Bold(keyHeader))),
		NewTableCell(NewParagraph(Bold(valueHeader))),
	); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := t.AddTextRow(k, strings.Join(sortedUnique(m[k]), ", ")); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func sortedUnique(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}
