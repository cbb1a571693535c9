package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
)

// ReadCSVTable reads a table from CSV. Every record must have the same
// number of fields. Cell text is parsed as inline markdown; with header
// set, the first record becomes a bold header row.
func ReadCSVTable(r io.Reader, name string, header bool) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		// csv reports ragged records as ErrFieldCount
		return nil, derrors.Structuref(name, "invalid CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, derrors.Structuref(name, "CSV table is empty")
	}
	return TableFromRecords(records, name, header)
}

// TableFromRecords builds a table from rows of cell text.
func TableFromRecords(records [][]string, name string, header bool) (*model.Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, derrors.Structuref(name, "table has no columns")
	}
	t, err := model.NewTable(len(records[0]))
	if err != nil {
		return nil, err
	}
	t.HeaderRow = header
	for i, rec := range records {
		if len(rec) != t.Columns() {
			return nil, derrors.Structuref(fmt.Sprintf("%s > row %d", name, i+1),
				"row has %d cells, table declares %d columns", len(rec), t.Columns())
		}
		cells := make([]*model.TableCell, len(rec))
		for j, text := range rec {
			cells[j] = cell(text, header && i == 0)
		}
		if err := t.AddRow(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func cell(text string, bold bool) *model.TableCell {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.NewTableCell()
	}
	var blocks []model.Block
	for _, p := range ParseParagraphs(text) {
		if bold {
			for _, r := range p.Runs() {
				r.Properties.Bold = true
			}
		}
		blocks = append(blocks, p)
	}
	return model.NewTableCell(blocks...)
}
