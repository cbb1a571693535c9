package opc

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// ContentTypes is the [Content_Types].xml manifest.
type ContentTypes struct {
	XMLName   xml.Name   `xml:"Types"`
	Namespace string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Default maps a file extension to a content type
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override sets the content type of a single part
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// BuildManifest derives the manifest from every registered part.
//
// rels and xml always get Default entries. Any other extension gets a
// Default from the first part that uses it. A part whose content type
// differs from its extension's Default gets an Override.
func BuildManifest(reg *Registry) *ContentTypes {
	defaults := map[string]string{
		"rels": ContentTypeRelationships,
		"xml":  ContentTypeXML,
	}
	var overrides []Override
	for _, id := range reg.Parts() {
		part, _ := reg.Part(id)
		ext := extension(part.Path)
		if ext == "" {
			overrides = append(overrides, Override{PartName: "/" + part.Path, ContentType: part.ContentType})
			continue
		}
		ct, ok := defaults[ext]
		if !ok {
			defaults[ext] = part.ContentType
			continue
		}
		if ct != part.ContentType {
			overrides = append(overrides, Override{PartName: "/" + part.Path, ContentType: part.ContentType})
		}
	}

	m := &ContentTypes{Namespace: ContentTypesNamespace, Overrides: overrides}
	for ext, ct := range defaults {
		m.Defaults = append(m.Defaults, Default{Extension: ext, ContentType: ct})
	}
	sort.Slice(m.Defaults, func(i, j int) bool { return m.Defaults[i].Extension < m.Defaults[j].Extension })
	sort.Slice(m.Overrides, func(i, j int) bool { return m.Overrides[i].PartName < m.Overrides[j].PartName })
	return m
}

// ContentTypeOf resolves the content type of a part path the way a consumer
// does: Override first, then the extension Default.
func (m *ContentTypes) ContentTypeOf(partPath string) (string, bool) {
	name := "/" + strings.TrimPrefix(partPath, "/")
	for _, o := range m.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType, true
		}
	}
	ext := extension(name)
	for _, d := range m.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType, true
		}
	}
	return "", false
}

// Verify checks that every part resolves to its registered content type.
func (m *ContentTypes) Verify(reg *Registry) error {
	for _, id := range reg.Parts() {
		part, _ := reg.Part(id)
		ct, ok := m.ContentTypeOf(part.Path)
		if !ok {
			return derrors.NewInternalPackagingError("verify", part.Path, "no content type in manifest")
		}
		if ct != part.ContentType {
			return derrors.NewInternalPackagingError("verify", part.Path,
				fmt.Sprintf("manifest resolves %q, part is %q", ct, part.ContentType))
		}
	}
	return nil
}

// Marshal serializes the manifest with the XML declaration
func (m *ContentTypes) Marshal() ([]byte, error) {
	return marshalPart(m)
}

func extension(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(XMLHeader), out...), nil
}
