package model

import (
	"fmt"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Table is a grid of cells with a fixed column count.
//
// The column count is declared when the table is created and every row
// added afterwards must have exactly that many cells.
type Table struct {
	columns      int
	rows         []*TableRow
	columnWidths []int

	// Width is the total table width in twips. Zero means the text column width.
	Width int
	// HeaderRow marks the first row as a header repeated on every page.
	HeaderRow bool
}

func (*Table) isBlock() {}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	cells []*TableCell
}

// Cells returns the cells of the row
func (r *TableRow) Cells() []*TableCell {
	return r.cells
}

// TableCell holds the blocks of one cell. A cell always ends with a paragraph.
type TableCell struct {
	blocks []Block
}

// NewTableCell creates a cell holding the given blocks. An empty cell, or a
// cell whose last block is a table, gets a trailing empty paragraph.
func NewTableCell(blocks ...Block) *TableCell {
	c := &TableCell{blocks: blocks}
	if len(blocks) == 0 {
		c.blocks = []Block{NewParagraph()}
		return c
	}
	if _, ok := blocks[len(blocks)-1].(*Table); ok {
		c.blocks = append(c.blocks, NewParagraph())
	}
	return c
}

// TextCell creates a cell holding one unformatted paragraph
func TextCell(text string) *TableCell {
	if text == "" {
		return NewTableCell()
	}
	return NewTableCell(TextParagraph(text))
}

// Blocks returns the blocks of the cell
func (c *TableCell) Blocks() []Block {
	return c.blocks
}

// NewTable creates an empty table with the given column count
func NewTable(columns int) (*Table, error) {
	if columns < 1 {
		return nil, derrors.Structuref("table", "column count must be positive, got %d", columns)
	}
	return &Table{columns: columns}, nil
}

// Columns returns the declared column count
func (t *Table) Columns() int {
	return t.columns
}

// Rows returns the rows of the table
func (t *Table) Rows() []*TableRow {
	return t.rows
}

// ColumnWidths returns the explicit column widths in twips, or nil
func (t *Table) ColumnWidths() []int {
	return t.columnWidths
}

// AddRow appends a row. It fails if the cell count differs from the column count.
func (t *Table) AddRow(cells ...*TableCell) error {
	node := fmt.Sprintf("table row %d", len(t.rows)+1)
	if len(cells) != t.columns {
		return derrors.Structuref(node, "has %d cells, table declares %d columns", len(cells), t.columns)
	}
	for i, c := range cells {
		if c == nil {
			return derrors.Structuref(node, "cell %d is nil", i+1)
		}
		if len(c.blocks) == 0 {
			return derrors.Structuref(node, "cell %d has no blocks", i+1)
		}
		for j, b := range c.blocks {
			if isNilBlock(b) {
				return derrors.Structuref(node, "cell %d block %d is nil", i+1, j+1)
			}
		}
	}
	t.rows = append(t.rows, &TableRow{cells: cells})
	return nil
}

// AddTextRow appends a row of unformatted text cells
func (t *Table) AddTextRow(texts ...string) error {
	cells := make([]*TableCell, len(texts))
	for i, text := range texts {
		cells[i] = TextCell(text)
	}
	return t.AddRow(cells...)
}

// SetColumnWidths sets explicit column widths in twips. The count must match
// the column count and every width must be positive.
func (t *Table) SetColumnWidths(widths ...int) error {
	if len(widths) != t.columns {
		return derrors.Structuref("table", "%d column widths for %d columns", len(widths), t.columns)
	}
	for i, w := range widths {
		if w <= 0 {
			return derrors.Structuref("table", "column %d width must be positive, got %d", i+1, w)
		}
	}
	t.columnWidths = append([]int(nil), widths...)
	return nil
}

func (t *Table) validate(node string) error {
	if t.columns < 1 {
		return derrors.Structuref(node, "table has no columns; create tables with NewTable")
	}
	if len(t.rows) == 0 {
		return derrors.Structuref(node, "table has no rows")
	}
	if t.Width < 0 {
		return derrors.Structuref(node, "negative table width %d", t.Width)
	}
	for r, row := range t.rows {
		if len(row.cells) != t.columns {
			return derrors.Structuref(node, "row %d has %d cells, table declares %d columns", r+1, len(row.cells), t.columns)
		}
		for c, cell := range row.cells {
			cellNode := fmt.Sprintf("%s > row %d > cell %d", node, r+1, c+1)
			if err := validateBlocks(cellNode, cell.blocks); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNilBlock(b Block) bool {
	switch v := b.(type) {
	case *Paragraph:
		return v == nil
	case *Table:
		return v == nil
	}
	return true
}
