package render

import (
	"fmt"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// cellPadding is the horizontal cell margin of the TableGrid style (108 twips each side).
const cellPadding = 216

// minColumnWidth keeps nested tables from collapsing to zero width.
const minColumnWidth = 72

// DistributeWidths splits total evenly across n columns. The remainder of
// the integer division goes to the first column so the widths sum to total.
func DistributeWidths(total, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	base := total / n
	for i := range widths {
		widths[i] = base
	}
	widths[0] += total - base*n
	return widths
}

// ColumnWidths resolves the grid of t: explicit column widths, else the
// table width, else available, split evenly.
func ColumnWidths(t *model.Table, available int) []int {
	if w := t.ColumnWidths(); len(w) == t.Columns() {
		return append([]int(nil), w...)
	}
	total := available
	if t.Width > 0 {
		total = t.Width
	}
	if floor := minColumnWidth * t.Columns(); total < floor {
		total = floor
	}
	return DistributeWidths(total, t.Columns())
}

// Table converts a model table. available is the width in twips the table
// may occupy when it declares no width of its own.
func (s *Serializer) Table(t *model.Table, node string, available int) (*xml.Table, error) {
	if t == nil {
		return nil, derrors.Structuref(node, "table is nil")
	}
	columns := t.Columns()
	widths := ColumnWidths(t, available)
	total := 0
	for _, w := range widths {
		total += w
	}

	out := &xml.Table{
		Properties: &xml.TableProperties{
			Style:   "TableGrid",
			Width:   &xml.Width{W: total, Type: "dxa"},
			Borders: xml.SingleBorders(),
			Layout:  "fixed",
			Look:    &xml.TableLook{FirstRow: t.HeaderRow, NoVBand: true},
		},
		Grid: &xml.TableGrid{Columns: widths},
	}

	for r, row := range t.Rows() {
		cells := row.Cells()
		if len(cells) != columns {
			return nil, derrors.Structuref(fmt.Sprintf("%s > row %d", node, r+1),
				"row has %d cells, table declares %d columns", len(cells), columns)
		}
		xr := xml.TableRow{Header: t.HeaderRow && r == 0}
		for c, cell := range cells {
			cellNode := fmt.Sprintf("%s > row %d > cell %d", node, r+1, c+1)
			content, err := s.blocks(cell.Blocks(), cellNode, widths[c]-cellPadding)
			if err != nil {
				return nil, err
			}
			if len(content) == 0 {
				content = append(content, &xml.Paragraph{})
			} else if _, ok := content[len(content)-1].(*xml.Paragraph); !ok {
				content = append(content, &xml.Paragraph{})
			}
			xr.Cells = append(xr.Cells, xml.TableCell{
				Width:   &xml.Width{W: widths[c], Type: "dxa"},
				Content: content,
			})
		}
		out.Rows = append(out.Rows, xr)
	}
	return out, nil
}

// blocks converts a sequence of blocks, labelling nodes the same way the
// model does for validation and image walks.
func (s *Serializer) blocks(blocks []model.Block, node string, width int) ([]xml.BodyElement, error) {
	if width < minColumnWidth {
		width = minColumnWidth
	}
	var out []xml.BodyElement
	for i, b := range blocks {
		switch v := b.(type) {
		case *model.Paragraph:
			p, err := s.Paragraph(v, fmt.Sprintf("%s > paragraph %d", node, i+1), width)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		case *model.Table:
			t, err := s.Table(v, fmt.Sprintf("%s > table %d", node, i+1), width)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		default:
			return nil, derrors.Structuref(node, "unsupported block %T", b)
		}
	}
	return out, nil
}
