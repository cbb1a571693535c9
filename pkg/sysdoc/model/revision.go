package model

import (
	"fmt"
	"strings"
	"time"
)

// Revision is one entry of the document revision history.
type Revision struct {
	Version     string `yaml:"version"`
	Date        string `yaml:"date"` // ISO 8601, e.g. 2026-07-06T12:34:56+00:00
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

var displayMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatDisplayDate turns an ISO 8601 date or timestamp into "6 Jul 2026".
// Input that does not start with a valid date is returned unchanged.
func FormatDisplayDate(iso string) string {
	datePart, _, _ := strings.Cut(iso, "T")
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d %s %d", t.Day(), displayMonths[t.Month()-1], t.Year())
}

// RevisionHistoryTable builds the Version/Date/Description table with a
// repeating header row. It returns nil when there are no revisions.
func RevisionHistoryTable(revs []Revision) (*Table, error) {
	if len(revs) == 0 {
		return nil, nil
	}
	t, err := NewTable(3)
	if err != nil {
		return nil, err
	}
	t.HeaderRow = true
	header := []*TableCell{
		NewTableCell(NewParagraph(Bold("Version"))),
		NewTableCell(NewParagraph(Bold("Date"))),
		NewTableCell(NewParagraph(Bold("Description"))),
	}
	if err := t.AddRow(header...); err != nil {
		return nil, err
	}
	for _, r := range revs {
		if err := t.AddTextRow(r.Version, FormatDisplayDate(r.Date), r.Description); err != nil {
			return nil, err
		}
	}
	return t, nil
}
