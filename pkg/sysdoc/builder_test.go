package sysdoc

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/docxtest"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/metrics"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/raster"
)

const diagram = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20"><rect x="2" y="2" width="36" height="16" fill="#336699"/></svg>`

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func quietBuilder(opts ...Option) *Builder {
	base := []Option{WithLogger(NewLogger(nil, LogOff))}
	return NewWithOptions(append(base, opts...)...)
}

// sampleDocument exercises every block and inline kind.
func sampleDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument(model.Metadata{
		Title:    "System Design Description",
		Subtitle: "Payments Gateway",
		Version:  "1.0",
		Owner:    model.Person{Name: "Jane Doe", Email: "jane@example.com"},
		Revisions: []model.Revision{
			{Version: "v0.1", Date: "2026-01-05T10:00:00Z", Description: "Draft"},
		},
	})

	intro, err := model.NewSection("1", "Introduction")
	require.NoError(t, err)
	intro.ID = "SDD-1"
	intro.TracedIDs = []string{"REQ-7"}
	intro.GenerateSectionToTraced = true
	intro.AddParagraph(model.Text("Hello, "), model.Bold("world!"))

	photo, err := model.NewRasterImage("photo.png", testPNG(t, 30, 20))
	require.NoError(t, err)
	vector, err := model.NewVectorImage("context.svg", []byte(diagram), 40, 20)
	require.NoError(t, err)
	vector.AltText = "Context diagram"
	intro.AddParagraph(photo, model.Text(" and "), vector)

	tbl, err := model.NewTable(2)
	require.NoError(t, err)
	tbl.HeaderRow = true
	require.NoError(t, tbl.AddTextRow("Component", "Role"))
	require.NoError(t, tbl.AddTextRow("API", "Accepts requests"))
	require.NoError(t, intro.Add(tbl))

	scope, err := model.NewSection("1.1", "Scope")
	require.NoError(t, err)
	scope.AddParagraph(model.Italic("Everything"), model.Strike(" nothing"))

	require.NoError(t, doc.AddSection(intro))
	require.NoError(t, doc.AddSection(scope))
	return doc
}

func encode(t *testing.T, b *Builder, doc *model.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, b.Encode(doc, &buf))
	return buf.Bytes()
}

func TestReferentialClosure(t *testing.T) {
	pkg := docxtest.Open(t, encode(t, quietBuilder(), sampleDocument(t)))

	rels := pkg.Rels("word/document.xml")
	ids := pkg.ReferencedIDs("word/document.xml")
	require.NotEmpty(t, ids)
	for _, id := range ids {
		rel, ok := rels[id]
		if assert.True(t, ok, "relationship %s does not resolve", id) {
			assert.True(t, pkg.Has(docxtest.ResolveTarget("word/document.xml", rel.Target)), "target %s missing", rel.Target)
		}
	}
}

func TestEveryPartIsReachable(t *testing.T) {
	pkg := docxtest.Open(t, encode(t, quietBuilder(), sampleDocument(t)))

	reached := map[string]bool{}
	queue := []string{""}
	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]
		dir, file := path.Split(source)
		if source != "" && !pkg.Has(dir+"_rels/"+file+".rels") {
			continue
		}
		for _, rel := range pkg.Rels(source) {
			if rel.TargetMode == "External" {
				continue
			}
			target := docxtest.ResolveTarget(source, rel.Target)
			if source == "" {
				target = rel.Target
			}
			if !reached[target] {
				reached[target] = true
				queue = append(queue, target)
			}
		}
	}

	for _, name := range pkg.Names {
		if name == "[Content_Types].xml" || strings.HasSuffix(name, ".rels") {
			continue
		}
		assert.True(t, reached[name], "orphan part %s", name)
	}
}

func TestManifestCoversEveryPart(t *testing.T) {
	pkg := docxtest.Open(t, encode(t, quietBuilder(), sampleDocument(t)))
	defaults, overrides := pkg.ContentTypes()

	for _, name := range pkg.Names {
		if name == "[Content_Types].xml" {
			continue
		}
		if _, ok := overrides["/"+name]; ok {
			continue
		}
		ext := strings.TrimPrefix(path.Ext(name), ".")
		_, ok := defaults[ext]
		assert.True(t, ok, "no content type for %s", name)
	}
	assert.Equal(t, "image/svg+xml", defaults["svg"])
	assert.Equal(t, "image/png", defaults["png"])
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml", overrides["/word/document.xml"])
}

func TestBuildIsDeterministic(t *testing.T) {
	b := quietBuilder()
	first := encode(t, b, sampleDocument(t))
	second := encode(t, b, sampleDocument(t))
	assert.True(t, bytes.Equal(first, second), "repeated builds differ")
}

func TestEntryOrder(t *testing.T) {
	pkg := docxtest.Open(t, encode(t, quietBuilder(), sampleDocument(t)))
	require.GreaterOrEqual(t, len(pkg.Names), 2)
	assert.Equal(t, "word/document.xml", pkg.Names[0])
	assert.Equal(t, "[Content_Types].xml", pkg.Names[1])
	assert.Equal(t, "word/media/image1.png", pkg.Names[len(pkg.Names)-3])
	assert.Equal(t, "word/media/image2.png", pkg.Names[len(pkg.Names)-2])
	assert.Equal(t, "word/media/image2.svg", pkg.Names[len(pkg.Names)-1])
	for _, name := range pkg.Names {
		assert.False(t, strings.HasSuffix(name, "/"), "directory entry %s", name)
	}
}

func TestHelloWorldRuns(t *testing.T) {
	doc := model.NewDocument(model.Metadata{})
	sec, err := model.NewSection("", "")
	require.NoError(t, err)
	sec.AddParagraph(model.Text("Hello, "), model.Bold("world!"))
	require.NoError(t, doc.AddSection(sec))

	pkg := docxtest.Open(t, encode(t, quietBuilder(), doc))
	body := pkg.String("word/document.xml")
	assert.Equal(t, 2, pkg.CountElements("word/document.xml", "r"))
	assert.Equal(t, 1, pkg.CountElements("word/document.xml", "b"))
	assert.Contains(t, body, `<w:t xml:space="preserve">Hello, </w:t>`)
	assert.Contains(t, body, `<w:rPr><w:b></w:b></w:rPr><w:t>world!</w:t>`)
}

func TestEmptyTableGrid(t *testing.T) {
	tbl, err := model.NewTable(2)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, tbl.AddRow(model.NewTableCell(), model.NewTableCell()))
	}
	doc := model.NewDocument(model.Metadata{})
	sec, err := model.NewSection("", "")
	require.NoError(t, err)
	require.NoError(t, sec.Add(tbl))
	require.NoError(t, doc.AddSection(sec))

	pkg := docxtest.Open(t, encode(t, quietBuilder(), doc))
	assert.Equal(t, 3, pkg.CountElements("word/document.xml", "tr"))
	assert.Equal(t, 6, pkg.CountElements("word/document.xml", "tc"))
	assert.Equal(t, 2, pkg.CountElements("word/document.xml", "gridCol"))
	// 11906 - 2*1440 split in two
	assert.Contains(t, pkg.String("word/document.xml"), `<w:gridCol w:w="4513"></w:gridCol><w:gridCol w:w="4513"></w:gridCol>`)
}

func TestVectorImageHasFallback(t *testing.T) {
	pkg := docxtest.Open(t, encode(t, quietBuilder(), sampleDocument(t)))
	require.True(t, pkg.Has("word/media/image2.svg"))
	require.True(t, pkg.Has("word/media/image2.png"))
	assert.Equal(t, diagram, pkg.String("word/media/image2.svg"))

	cfg, err := png.DecodeConfig(bytes.NewReader(pkg.Part("word/media/image2.png")))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width, "fallback is rendered at 192 DPI")

	body := pkg.String("word/document.xml")
	assert.Contains(t, body, "asvg:svgBlip")
	assert.Contains(t, body, `descr="Context diagram"`)
}

func TestBuildLargeVectorImage(t *testing.T) {
	const big = `<svg xmlns="http://www.w3.org/2000/svg" width="4500" height="1200"><rect width="4500" height="1200" fill="#336699"/></svg>`
	img, err := model.NewVectorImage("big.svg", []byte(big), 4500, 1200)
	require.NoError(t, err)
	doc := model.NewDocument(model.Metadata{Title: "Large diagram"})
	s, err := model.NewSection("1", "Context")
	require.NoError(t, err)
	s.AddParagraph(img)
	require.NoError(t, doc.AddSection(s))

	dest := filepath.Join(t.TempDir(), "big.docx")
	require.NoError(t, quietBuilder(WithConfig(DefaultConfig())).Build(doc, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	pkg := docxtest.Open(t, data)
	cfg, err := png.DecodeConfig(bytes.NewReader(pkg.Part("word/media/image1.png")))
	require.NoError(t, err)
	assert.Equal(t, 8192, cfg.Width)
	assert.Equal(t, 2185, cfg.Height)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{name: "unknown compression", mutate: func(c *Config) { c.Compression = "zstd" }, message: "invalid compression: zstd"},
		{name: "negative margin", mutate: func(c *Config) { c.PageMargin = -10 }, message: "page margin cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			dir := t.TempDir()
			dest := filepath.Join(dir, "out.docx")

			err := quietBuilder(WithConfig(cfg)).Build(sampleDocument(t), dest)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.NoFileExists(t, dest)

			var buf bytes.Buffer
			require.Error(t, NewWithConfig(cfg).Encode(sampleDocument(t), &buf))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestEncodeRejectsUnrepresentableText(t *testing.T) {
	doc := model.NewDocument(model.Metadata{})
	s, err := model.NewSection("1", "Scope")
	require.NoError(t, err)
	s.AddParagraph(model.Text("a\x0bb\x0cc"))
	require.NoError(t, doc.AddSection(s))

	var buf bytes.Buffer
	err = quietBuilder().Encode(doc, &buf)
	require.Error(t, err)
	assert.True(t, IsStructureError(err))
	assert.Zero(t, buf.Len())
}

func TestBuildSVGWithoutRasterizer(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.docx")

	err := quietBuilder(WithRasterizer(nil)).Build(sampleDocument(t), dest)
	require.Error(t, err)
	assert.True(t, IsAssetError(err))
	assert.Equal(t, CategoryAsset, GetErrorCategory(err))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "design.docx")
	require.NoError(t, quietBuilder().Build(sampleDocument(t), dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	pkg := docxtest.Open(t, data)
	assert.True(t, pkg.Has("word/styles.xml"))
	assert.True(t, pkg.Has("docProps/core.xml"))
	assert.Contains(t, pkg.String("docProps/core.xml"), "<dc:title>System Design Description</dc:title>")
	assert.Contains(t, pkg.String("word/document.xml"), "1.1 Scope")
}

func TestBuildMissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "out.docx")
	err := quietBuilder().Build(sampleDocument(t), dest)
	require.Error(t, err)
	assert.True(t, IsPackagingError(err))
}

func TestValidateRejectsInvalidModel(t *testing.T) {
	doc := model.NewDocument(model.Metadata{})
	sec, err := model.NewSection("", "")
	require.NoError(t, err)
	p := sec.AddParagraph(model.Text("x"))
	p.Style = "Fancy"
	require.NoError(t, doc.AddSection(sec))

	err = quietBuilder().Validate(doc)
	require.Error(t, err)
	assert.True(t, IsStructureError(err))

	assert.NoError(t, quietBuilder().Validate(sampleDocument(t)))
}

func TestCustomRasterizerAndStoreCompression(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compression = CompressionStore
	fallback := testPNG(t, 4, 2)
	var calls int
	r := raster.RasterizerFunc(func(_ context.Context, svg []byte, w, h int) ([]byte, error) {
		calls++
		return fallback, nil
	})

	pkg := docxtest.Open(t, encode(t, quietBuilder(WithConfig(cfg), WithRasterizer(r)), sampleDocument(t)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, fallback, pkg.Part("word/media/image2.png"))
}

func TestBuildRecordsMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	b := quietBuilder(WithRecorder(metrics.NewPrometheusRecorder(reg)))
	_ = encode(t, b, sampleDocument(t))
	require.Error(t, quietBuilder(WithRecorder(metrics.NewPrometheusRecorder(prom.NewRegistry())), WithRasterizer(nil)).
		Encode(sampleDocument(t), &bytes.Buffer{}))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["sysdoc_build_outcomes_total"])
	assert.True(t, names["sysdoc_stage_duration_seconds"])
	assert.True(t, names["sysdoc_images_total"])
}

func TestBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	b := NewWithOptions(WithLogger(NewLogger(&buf, LogInfo)))
	_ = encode(t, b, sampleDocument(t))
	out := buf.String()
	assert.Contains(t, out, "Build started")
	assert.Contains(t, out, "Build finished")
	assert.Contains(t, out, "words=")
	assert.NotContains(t, out, "Registered media part")
}
