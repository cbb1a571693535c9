package xml

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMarshal(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want string
	}{
		{
			name: "plain text",
			run:  Run{Content: []RunContent{&Text{Content: "Hello"}}},
			want: `<w:r><w:t>Hello</w:t></w:r>`,
		},
		{
			name: "zero properties are omitted",
			run:  Run{Properties: &RunProperties{}, Content: []RunContent{&Text{Content: "x"}}},
			want: `<w:r><w:t>x</w:t></w:r>`,
		},
		{
			name: "bold only",
			run:  Run{Properties: &RunProperties{Bold: true}, Content: []RunContent{&Text{Content: "world!"}}},
			want: `<w:r><w:rPr><w:b></w:b></w:rPr><w:t>world!</w:t></w:r>`,
		},
		{
			name: "all toggles in schema order",
			run:  Run{Properties: &RunProperties{Strike: true, Italic: true, Bold: true}, Content: []RunContent{&Text{Content: "x"}}},
			want: `<w:r><w:rPr><w:b></w:b><w:i></w:i><w:strike></w:strike></w:rPr><w:t>x</w:t></w:r>`,
		},
		{
			name: "leading and trailing space preserved",
			run:  Run{Content: []RunContent{&Text{Content: "Hello, "}}},
			want: `<w:r><w:t xml:space="preserve">Hello, </w:t></w:r>`,
		},
		{
			name: "special characters escaped",
			run:  Run{Content: []RunContent{&Text{Content: `a<b>&"c'`}}},
			want: `<w:r><w:t>a&lt;b&gt;&amp;&#34;c&#39;</w:t></w:r>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fragment(tt.run)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTextContent(t *testing.T) {
	content := NewTextContent("line one\nline\ttwo ")
	require.Len(t, content, 5)
	assert.Equal(t, &Text{Content: "line one"}, content[0])
	assert.IsType(t, &Break{}, content[1])
	assert.Equal(t, &Text{Content: "line"}, content[2])
	assert.IsType(t, &Tab{}, content[3])
	assert.Equal(t, &Text{Content: "two "}, content[4])

	run := Run{Content: content}
	assert.Equal(t, "line one\nline\ttwo ", run.GetText())

	got, err := Fragment(run)
	require.NoError(t, err)
	assert.Equal(t, `<w:r><w:t>line one</w:t><w:br></w:br><w:t>line</w:t><w:tab></w:tab><w:t xml:space="preserve">two </w:t></w:r>`, got)

	assert.Equal(t, []RunContent{&Text{}}, NewTextContent(""))
}

func TestParagraphProperties(t *testing.T) {
	p := Paragraph{
		Properties: &ParagraphProperties{Style: "Heading2", Alignment: "center"},
		Content:    []ParagraphContent{&Run{Content: []RunContent{&Text{Content: "1.2 Scope"}}}},
	}
	got, err := Fragment(p)
	require.NoError(t, err)
	assert.Equal(t, `<w:p><w:pPr><w:pStyle w:val="Heading2"></w:pStyle><w:jc w:val="center"></w:jc></w:pPr><w:r><w:t>1.2 Scope</w:t></w:r></w:p>`, got)

	empty, err := Fragment(Paragraph{Properties: &ParagraphProperties{}})
	require.NoError(t, err)
	assert.Equal(t, `<w:p></w:p>`, empty)
}

func TestTableMarshal(t *testing.T) {
	cell := func() TableCell {
		return TableCell{Width: &Width{W: 100}, Content: []BodyElement{&Paragraph{}}}
	}
	tbl := Table{
		Properties: &TableProperties{Style: "TableGrid", Width: &Width{W: 200}, Layout: "fixed"},
		Grid:       &TableGrid{Columns: []int{100, 100}},
		Rows: []TableRow{
			{Header: true, Cells: []TableCell{cell(), cell()}},
			{Cells: []TableCell{cell(), cell()}},
		},
	}
	got, err := Fragment(tbl)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, `<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"></w:tblStyle><w:tblW w:w="200" w:type="dxa"></w:tblW><w:tblLayout w:type="fixed"></w:tblLayout></w:tblPr>`))
	assert.Contains(t, got, `<w:tblGrid><w:gridCol w:w="100"></w:gridCol><w:gridCol w:w="100"></w:gridCol></w:tblGrid>`)
	assert.Contains(t, got, `<w:tr><w:trPr><w:tblHeader></w:tblHeader></w:trPr><w:tc><w:tcPr><w:tcW w:w="100" w:type="dxa"></w:tcW></w:tcPr><w:p></w:p></w:tc>`)
	assert.Equal(t, 2, strings.Count(got, "<w:tr>"))
	assert.Equal(t, 4, strings.Count(got, "<w:tc>"))
}

func TestTableCellMustEndWithParagraph(t *testing.T) {
	_, err := Fragment(TableCell{})
	assert.Error(t, err)

	_, err = Fragment(TableCell{Content: []BodyElement{&Paragraph{}, &Table{}}})
	assert.Error(t, err)
}

func TestDrawingMarshal(t *testing.T) {
	d := Drawing{ID: 3, Name: "Picture 3", Description: "Logo", FileName: "image3.png",
		CX: PixelsToEMU(20), CY: PixelsToEMU(10), EmbedID: "rId4"}
	got, err := Fragment(d)
	require.NoError(t, err)
	assert.Contains(t, got, `<wp:extent cx="190500" cy="95250"></wp:extent>`)
	assert.Contains(t, got, `<wp:docPr id="3" name="Picture 3" descr="Logo"></wp:docPr>`)
	assert.Contains(t, got, `<a:blip r:embed="rId4"></a:blip>`)
	assert.NotContains(t, got, "svgBlip")

	d.SVGEmbedID = "rId5"
	got, err = Fragment(d)
	require.NoError(t, err)
	assert.Contains(t, got, `<a:blip r:embed="rId4"><a:extLst><a:ext uri="{96DAC541-7B7A-43D3-8B79-37D633B846F1}"><asvg:svgBlip xmlns:asvg="http://schemas.microsoft.com/office/drawing/2016/SVG/main" r:embed="rId5"></asvg:svgBlip></a:ext></a:extLst></a:blip>`)
}

func TestDocumentIsWellFormed(t *testing.T) {
	doc := Document{Body: Body{
		Elements: []BodyElement{
			&Paragraph{Content: []ParagraphContent{&Run{Content: []RunContent{
				&Text{Content: "pic: "},
				&Drawing{ID: 1, Name: "Picture 1", FileName: "image1.png", CX: 9525, CY: 9525, EmbedID: "rId2"},
			}}}},
		},
		SectionProperties: &SectionProperties{PageWidth: 11906, PageHeight: 16838, Margin: 1440},
	}}
	data, err := MarshalPart(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), XMLHeader))

	// A namespace-aware decoder must resolve every prefix.
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	spaces := map[string]bool{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if s, ok := tok.(xml.StartElement); ok {
			spaces[s.Name.Space] = true
		}
	}
	assert.True(t, spaces[NamespaceW])
	assert.True(t, spaces[NamespaceWP])
	assert.True(t, spaces[NamespaceA])
	assert.True(t, spaces[NamespacePic])
	assert.Contains(t, string(data), `<w:sectPr><w:pgSz w:w="11906" w:h="16838"></w:pgSz>`)
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles("Calibri", 11)
	for _, id := range []string{"Normal", "DefaultParagraphFont", "TableNormal", "TableGrid", "Title", "Subtitle", "Heading1", "Heading6"} {
		assert.True(t, styles.Has(id), id)
	}

	data, err := MarshalPart(styles)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"></w:rFonts><w:sz w:val="22"></w:sz>`)
	assert.Contains(t, s, `<w:style w:type="paragraph" w:default="1" w:styleId="Normal">`)
	assert.Contains(t, s, `<w:outlineLvl w:val="0"></w:outlineLvl>`)

	var parsed struct {
		Styles []struct {
			ID string `xml:"styleId,attr"`
		} `xml:"style"`
	}
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Len(t, parsed.Styles, len(styles.Styles))
}

func TestCoreProperties(t *testing.T) {
	data, err := MarshalPart(CoreProperties{Title: "SDD & Design", Creator: "Jane", Revision: 2})
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `<dc:title>SDD &amp; Design</dc:title>`)
	assert.Contains(t, s, `<cp:revision>2</cp:revision>`)
	assert.NotContains(t, s, "dcterms:modified")
	assert.NotContains(t, s, "dc:subject")
}
