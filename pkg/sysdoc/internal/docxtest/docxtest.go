// Package docxtest reads built packages back for assertions in tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Package is an opened .docx archive.
type Package struct {
	t       testing.TB
	Names   []string // entry names in archive order
	entries map[string][]byte
}

// Open reads an archive from bytes. It fails the test on a malformed archive.
func Open(t testing.TB, data []byte) *Package {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err, "package is not a valid zip archive")

	p := &Package{t: t, entries: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		p.Names = append(p.Names, f.Name)
		p.entries[f.Name] = content
	}
	return p
}

// Has reports whether the archive contains name
func (p *Package) Has(name string) bool {
	_, ok := p.entries[name]
	return ok
}

// Part returns the bytes of an entry and fails the test if it is missing
func (p *Package) Part(name string) []byte {
	p.t.Helper()
	data, ok := p.entries[name]
	require.True(p.t, ok, "missing part %s", name)
	return data
}

// String returns an entry as a string
func (p *Package) String(name string) string {
	p.t.Helper()
	return string(p.Part(name))
}

// Rel is a parsed <Relationship> element.
type Rel struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Rels parses the relationships of a source part ("" for the package root).
func (p *Package) Rels(source string) map[string]Rel {
	p.t.Helper()
	relsPath := "_rels/.rels"
	if source != "" {
		dir, file := path.Split(source)
		relsPath = dir + "_rels/" + file + ".rels"
	}
	var doc struct {
		Rels []Rel `xml:"Relationship"`
	}
	require.NoError(p.t, xml.Unmarshal(p.Part(relsPath), &doc))
	out := make(map[string]Rel, len(doc.Rels))
	for _, r := range doc.Rels {
		out[r.ID] = r
	}
	return out
}

// ResolveTarget turns a relationship target of source into an archive entry name.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// ReferencedIDs returns every r:id, r:embed and r:link attribute value in an XML part.
func (p *Package) ReferencedIDs(name string) []string {
	p.t.Helper()
	const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	dec := xml.NewDecoder(bytes.NewReader(p.Part(name)))
	var ids []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(p.t, err, "malformed XML in %s", name)
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, a := range start.Attr {
			if a.Name.Space == relNS && (a.Name.Local == "id" || a.Name.Local == "embed" || a.Name.Local == "link") {
				ids = append(ids, a.Value)
			}
		}
	}
	return ids
}

// ContentTypes parses [Content_Types].xml into extension defaults and part overrides.
func (p *Package) ContentTypes() (defaults, overrides map[string]string) {
	p.t.Helper()
	var doc struct {
		Defaults []struct {
			Extension   string `xml:"Extension,attr"`
			ContentType string `xml:"ContentType,attr"`
		} `xml:"Default"`
		Overrides []struct {
			PartName    string `xml:"PartName,attr"`
			ContentType string `xml:"ContentType,attr"`
		} `xml:"Override"`
	}
	require.NoError(p.t, xml.Unmarshal(p.Part("[Content_Types].xml"), &doc))
	defaults = make(map[string]string)
	overrides = make(map[string]string)
	for _, d := range doc.Defaults {
		defaults[d.Extension] = d.ContentType
	}
	for _, o := range doc.Overrides {
		overrides[o.PartName] = o.ContentType
	}
	return defaults, overrides
}

// CountElements counts start elements with the given local name in an XML part.
func (p *Package) CountElements(name, local string) int {
	p.t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(p.Part(name)))
	n := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return n
		}
		require.NoError(p.t, err)
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == local {
			n++
		}
	}
}
