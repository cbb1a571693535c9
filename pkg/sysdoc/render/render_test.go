package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/opc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/raster"
	wml "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

const svgBox = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="10"><rect width="20" height="10"/></svg>`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func singleSection(t *testing.T, blocks ...model.Block) *model.Document {
	t.Helper()
	doc := model.NewDocument(model.Metadata{})
	s, err := model.NewSection("", "")
	require.NoError(t, err)
	require.NoError(t, s.Add(blocks...))
	require.NoError(t, doc.AddSection(s))
	return doc
}

func documentPart(t *testing.T, reg *opc.Registry) string {
	t.Helper()
	id, ok := reg.Lookup(opc.DocumentPath)
	require.True(t, ok)
	part, ok := reg.Part(id)
	require.True(t, ok)
	return string(part.Data)
}

// runs decodes the w:r elements of a document part and returns the text of each.
func runs(t *testing.T, data string) []string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(data))
	var out []string
	inRun, inText := false, false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch v := tok.(type) {
		case xml.StartElement:
			switch {
			case v.Name.Space == wml.NamespaceW && v.Name.Local == "r":
				inRun = true
				out = append(out, "")
			case v.Name.Space == wml.NamespaceW && v.Name.Local == "t":
				inText = true
			}
		case xml.EndElement:
			switch v.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inRun && inText {
				out[len(out)-1] += string(v)
			}
		}
	}
	return out
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		run  *model.Run
		want string
	}{
		{name: "plain", run: model.Text("Hello, "), want: `<w:r><w:t xml:space="preserve">Hello, </w:t></w:r>`},
		{name: "bold only", run: model.Bold("world!"), want: `<w:r><w:rPr><w:b></w:b></w:rPr><w:t>world!</w:t></w:r>`},
		{name: "italic only", run: model.Italic("x"), want: `<w:r><w:rPr><w:i></w:i></w:rPr><w:t>x</w:t></w:r>`},
		{name: "strikethrough only", run: model.Strike("x"), want: `<w:r><w:rPr><w:strike></w:strike></w:rPr><w:t>x</w:t></w:r>`},
		{name: "escaped", run: model.Text("a < b & c"), want: `<w:r><w:t>a &lt; b &amp; c</w:t></w:r>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wml.Fragment(Run(tt.run))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHelloWorld(t *testing.T) {
	doc := singleSection(t, model.NewParagraph(model.Text("Hello, "), model.Bold("world!")))
	reg := opc.NewRegistry(nil)
	_, err := Package(reg, doc, Options{})
	require.NoError(t, err)
	require.NoError(t, reg.Verify())

	data := documentPart(t, reg)
	got := runs(t, data)
	require.Len(t, got, 2)
	assert.Equal(t, "Hello, world!", strings.Join(got, ""))
	assert.Equal(t, 1, strings.Count(data, "<w:rPr>"))
	assert.Contains(t, data, `<w:r><w:rPr><w:b></w:b></w:rPr><w:t>world!</w:t></w:r>`)
	assert.NotContains(t, data, "<w:i>")
	assert.NotContains(t, data, "<w:strike>")
}

func TestDistributeWidths(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{9026, 2, []int{4513, 4513}},
		{9026, 3, []int{3010, 3008, 3008}},
		{10, 4, []int{4, 2, 2, 2}},
		{5, 0, nil},
	}
	for _, tt := range tests {
		got := DistributeWidths(tt.total, tt.n)
		assert.Equal(t, tt.want, got)
		sum := 0
		for _, w := range got {
			sum += w
		}
		if tt.n > 0 {
			assert.Equal(t, tt.total, sum)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	tbl, err := model.NewTable(2)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, tbl.AddRow(model.NewTableCell(), model.NewTableCell()))
	}

	s := NewSerializer(opc.NewRegistry(nil), opc.PackageRoot, Options{})
	out, err := s.Table(tbl, "table 1", 9026)
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)
	for _, row := range out.Rows {
		assert.Len(t, row.Cells, 2)
	}
	require.Len(t, out.Grid.Columns, 2)
	assert.Equal(t, out.Properties.Width.W, out.Grid.Columns[0]+out.Grid.Columns[1])

	frag, err := wml.Fragment(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(frag, "<w:tr>"))
	assert.Equal(t, 6, strings.Count(frag, "<w:tc>"))
	assert.Equal(t, 2, strings.Count(frag, "<w:gridCol "))
}

func TestTableWidths(t *testing.T) {
	tbl, err := model.NewTable(3)
	require.NoError(t, err)
	require.NoError(t, tbl.AddTextRow("a", "b", "c"))
	assert.Equal(t, []int{3010, 3008, 3008}, ColumnWidths(tbl, 9026))

	tbl.Width = 3000
	assert.Equal(t, []int{1000, 1000, 1000}, ColumnWidths(tbl, 9026))

	require.NoError(t, tbl.SetColumnWidths(500, 1500, 1000))
	assert.Equal(t, []int{500, 1500, 1000}, ColumnWidths(tbl, 9026))
}

func TestHeaderRowAndNestedTable(t *testing.T) {
	inner, err := model.NewTable(2)
	require.NoError(t, err)
	require.NoError(t, inner.AddTextRow("x", "y"))

	outer, err := model.NewTable(1)
	require.NoError(t, err)
	outer.HeaderRow = true
	require.NoError(t, outer.AddTextRow("Header"))
	require.NoError(t, outer.AddRow(model.NewTableCell(inner)))

	s := NewSerializer(opc.NewRegistry(nil), opc.PackageRoot, Options{})
	out, err := s.Table(outer, "table 1", 9026)
	require.NoError(t, err)
	assert.True(t, out.Rows[0].Header)
	assert.False(t, out.Rows[1].Header)

	cell := out.Rows[1].Cells[0]
	require.Len(t, cell.Content, 2)
	nested, ok := cell.Content[0].(*wml.Table)
	require.True(t, ok)
	assert.Equal(t, 9026-cellPadding, nested.Properties.Width.W)
	assert.IsType(t, &wml.Paragraph{}, cell.Content[1])
}

func vectorDoc(t *testing.T) (*model.Document, *model.Image) {
	t.Helper()
	img, err := model.NewVectorImage("diagram.svg", []byte(svgBox), 20, 10)
	require.NoError(t, err)
	img.AltText = "System context"
	return singleSection(t, model.NewParagraph(img)), img
}

func TestVectorImageWithoutFallback(t *testing.T) {
	doc, _ := vectorDoc(t)
	_, err := Package(opc.NewRegistry(nil), doc, Options{})
	require.Error(t, err)
	assert.True(t, derrors.IsAssetError(err))
	assert.Contains(t, err.Error(), "section 1 > paragraph 1 > image 1")
}

func TestVectorImageWithFallback(t *testing.T) {
	doc, _ := vectorDoc(t)
	fallback := pngBytes(t, 20, 10)
	results, err := raster.Batch(context.Background(), doc, raster.RasterizerFunc(
		func(context.Context, []byte, int, int) ([]byte, error) { return fallback, nil }), 1, nil)
	require.NoError(t, err)

	reg := opc.NewRegistry(nil)
	docPart, err := Package(reg, doc, Options{Fallbacks: results})
	require.NoError(t, err)
	require.NoError(t, reg.Verify())

	pngID, ok := reg.Lookup("word/media/image1.png")
	require.True(t, ok)
	svgID, ok := reg.Lookup("word/media/image1.svg")
	require.True(t, ok)
	svgPart, _ := reg.Part(svgID)
	assert.Equal(t, "image/svg+xml", svgPart.ContentType)
	assert.Equal(t, []byte(svgBox), svgPart.Data)

	rels := reg.Relationships(docPart)
	require.Len(t, rels, 3)
	assert.Equal(t, opc.RelTypeStyles, rels[0].Type)
	assert.Equal(t, pngID, rels[1].Target)
	assert.Equal(t, svgID, rels[2].Target)

	data := documentPart(t, reg)
	assert.Contains(t, data, `<a:blip r:embed="rId2"><a:extLst><a:ext uri="`+wml.SVGExtensionURI+`">`)
	assert.Contains(t, data, `r:embed="rId3"`)
	assert.Contains(t, data, `name="Picture 1" descr="System context"`)
}

func TestRasterImage(t *testing.T) {
	img, err := model.NewRasterImage("photo.png", pngBytes(t, 40, 20))
	require.NoError(t, err)
	doc := singleSection(t, model.NewParagraph(model.Text("see "), img))

	reg := opc.NewRegistry(nil)
	_, err = Package(reg, doc, Options{})
	require.NoError(t, err)

	_, ok := reg.Lookup("word/media/image1.png")
	assert.True(t, ok)
	data := documentPart(t, reg)
	assert.Contains(t, data, `<wp:extent cx="381000" cy="190500"></wp:extent>`)
	assert.Contains(t, data, `<wp:docPr id="1" name="Picture 1"></wp:docPr>`)
}

func TestRasterFormatMismatch(t *testing.T) {
	img := &model.Image{
		Source: model.Raster{Data: pngBytes(t, 2, 2), Format: model.FormatJPEG},
		Width:  2, Height: 2, Name: "fake.jpg",
	}
	_, err := Package(opc.NewRegistry(nil), singleSection(t, model.NewParagraph(img)), Options{})
	require.Error(t, err)
	assert.True(t, derrors.IsAssetError(err))
	assert.Contains(t, err.Error(), "png")
}

func TestUnreadableRaster(t *testing.T) {
	img := &model.Image{Source: model.Raster{Data: []byte("nope"), Format: model.FormatPNG}, Width: 2, Height: 2}
	_, err := Package(opc.NewRegistry(nil), singleSection(t, model.NewParagraph(img)), Options{})
	assert.True(t, derrors.IsAssetError(err))
}

func TestFitExtent(t *testing.T) {
	cx, cy := fitExtent(100, 50, 9026)
	assert.Equal(t, int64(952500), cx)
	assert.Equal(t, int64(476250), cy)

	// 2000px is wider than the text column
	cx, cy = fitExtent(2000, 1000, 9026)
	assert.Equal(t, int64(9026*wml.EMUPerTwip), cx)
	assert.Equal(t, cx/2, cy)
}

func TestBodyTitleBlockAndHeadings(t *testing.T) {
	doc := model.NewDocument(model.Metadata{
		Title:          "System Design",
		Subtitle:       "Draft",
		ProtectionMark: "OFFICIAL",
		Revisions: []model.Revision{
			{Version: "v1.0", Date: "2026-07-06T12:00:00Z", Description: "Initial"},
		},
	})
	s1, err := model.NewSection("01", "Overview")
	require.NoError(t, err)
	s1.ID = "SD-1"
	s1.TracedIDs = []string{"REQ-2", "REQ-1"}
	s1.GenerateSectionToTraced = true
	s1.AddParagraph(model.Text("Body"))
	s2, err := model.NewSection("01.02", "Scope")
	require.NoError(t, err)
	require.NoError(t, doc.AddSection(s1))
	require.NoError(t, doc.AddSection(s2))

	s := NewSerializer(opc.NewRegistry(nil), opc.PackageRoot, Options{})
	body, err := s.Body(doc)
	require.NoError(t, err)

	var texts, styles []string
	for _, el := range body.Elements {
		if p, ok := el.(*wml.Paragraph); ok {
			texts = append(texts, p.GetText())
			style := ""
			if p.Properties != nil {
				style = p.Properties.Style
			}
			styles = append(styles, style)
		}
	}
	assert.Equal(t, []string{"System Design", "Draft", "OFFICIAL", RevisionHistoryHeading, "1 Overview", "Body", "1.2 Scope"}, texts)
	assert.Equal(t, []string{"Title", "Subtitle", "", "Heading1", "Heading1", "", "Heading2"}, styles)

	frag, err := wml.Fragment(body)
	require.NoError(t, err)
	assert.Contains(t, frag, "6 Jul 2026")
	assert.Contains(t, frag, "REQ-1, REQ-2")
	assert.Contains(t, frag, `<w:sectPr><w:pgSz w:w="11906" w:h="16838"></w:pgSz>`)
}

func TestProperties(t *testing.T) {
	meta := model.Metadata{Title: "SDD", Version: "1.0", Owner: model.Person{Name: "Jane", Email: "jane@example.com"}}
	core := CoreProperties(meta)
	assert.Equal(t, "Jane <jane@example.com>", core.Creator)
	assert.Equal(t, DocumentIdentifier(meta), core.Identifier)
	assert.True(t, strings.HasPrefix(core.Identifier, "urn:uuid:"))

	other := meta
	other.Version = "2.0"
	assert.NotEqual(t, DocumentIdentifier(meta), DocumentIdentifier(other))

	doc := singleSection(t, model.TextParagraph("three little words"))
	app := AppProperties(doc)
	assert.Equal(t, 3, app.Words)
	assert.Equal(t, 1, app.Paragraphs)
	assert.Equal(t, 18, app.Characters)
	assert.Equal(t, Application, app.Application)
}

func TestPackageIsDeterministic(t *testing.T) {
	build := func() []opc.Entry {
		img, err := model.NewRasterImage("photo.png", pngBytes(t, 4, 4))
		require.NoError(t, err)
		doc := singleSection(t, model.NewParagraph(model.Text("a"), img))
		reg := opc.NewRegistry(nil)
		_, err = Package(reg, doc, Options{})
		require.NoError(t, err)
		entries, err := opc.NewAssembler(reg).Entries()
		require.NoError(t, err)
		return entries
	}
	assert.Equal(t, build(), build())
}

func TestPackageRejectsNilNodes(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.Document
		node string
	}{
		{
			name: "nil document",
			doc:  nil,
			node: "document",
		},
		{
			name: "nil section",
			doc:  &model.Document{Sections: []*model.Section{nil}},
			node: "section 1",
		},
		{
			name: "nil paragraph",
			doc:  &model.Document{Sections: []*model.Section{{Blocks: []model.Block{(*model.Paragraph)(nil)}}}},
			node: "section 1 > paragraph 1",
		},
		{
			name: "nil table",
			doc:  &model.Document{Sections: []*model.Section{{Blocks: []model.Block{(*model.Table)(nil)}}}},
			node: "section 1 > table 1",
		},
		{
			name: "nil image",
			doc:  &model.Document{Sections: []*model.Section{{Blocks: []model.Block{model.NewParagraph((*model.Image)(nil))}}}},
			node: "section 1 > paragraph 1 > image 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = Package(opc.NewRegistry(nil), tt.doc, Options{})
			})
			require.Error(t, err)
			assert.True(t, derrors.IsStructureError(err))
			assert.Contains(t, err.Error(), tt.node)
		})
	}
}

func TestParagraphRejectsUnrepresentableText(t *testing.T) {
	doc := singleSection(t, model.NewParagraph(model.Text("a\x0bb\x0cc")))
	_, err := Package(opc.NewRegistry(nil), doc, Options{})
	require.Error(t, err)
	assert.True(t, derrors.IsStructureError(err))
	assert.Contains(t, err.Error(), "section 1 > paragraph 1 > run 1")
	assert.Contains(t, err.Error(), "U+000B")
}
