package render

import (
	"strings"

	"github.com/google/uuid"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/opc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// documentNamespace scopes the name-based document identifiers.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/benjaminschreck/go-sysdoc"))

// DocumentIdentifier derives a stable identifier from the metadata. The
// document id wins; otherwise system id, title and version are combined.
func DocumentIdentifier(meta model.Metadata) string {
	key := meta.DocumentID
	if key == "" {
		key = strings.Join([]string{meta.SystemID, meta.Title, meta.Version}, "\x00")
	}
	return "urn:uuid:" + uuid.NewSHA1(documentNamespace, []byte(key)).String()
}

// CoreProperties maps document metadata onto Dublin Core properties
func CoreProperties(meta model.Metadata) xml.CoreProperties {
	return xml.CoreProperties{
		Title:          meta.Title,
		Subject:        meta.Subtitle,
		Creator:        meta.Owner.String(),
		Description:    meta.Description,
		Identifier:     DocumentIdentifier(meta),
		Keywords:       meta.Standard,
		Category:       meta.DocType,
		LastModifiedBy: meta.Approver.String(),
		Version:        meta.Version,
		Revision:       len(meta.Revisions),
		Created:        meta.Modified,
		Modified:       meta.Modified,
	}
}

// AppProperties summarizes the document for the extended properties part
func AppProperties(doc *model.Document) xml.AppProperties {
	st := doc.Stats()
	return xml.AppProperties{
		Application: Application,
		Company:     doc.Metadata.Owner.Name,
		Words:       st.Words,
		Paragraphs:  st.Paragraphs,
		Characters:  characters(doc),
	}
}

func characters(doc *model.Document) int {
	n := 0
	var walk func([]model.Block)
	walk = func(blocks []model.Block) {
		for _, b := range blocks {
			switch v := b.(type) {
			case *model.Paragraph:
				if v != nil {
					n += len([]rune(v.Text()))
				}
			case *model.Table:
				if v == nil {
					continue
				}
				for _, row := range v.Rows() {
					for _, cell := range row.Cells() {
						walk(cell.Blocks())
					}
				}
			}
		}
	}
	for _, s := range doc.Sections {
		if s != nil {
			walk(s.Blocks)
		}
	}
	return n
}

func registerProperties(reg *opc.Registry, doc *model.Document) error {
	core, err := xml.MarshalPart(CoreProperties(doc.Metadata))
	if err != nil {
		return err
	}
	coreID, err := reg.RegisterPart(opc.CorePropsPath, opc.ContentTypeCoreProperties, core)
	if err != nil {
		return err
	}
	if _, err := reg.AddRelationship(opc.PackageRoot, opc.RelTypeCoreProperties, coreID); err != nil {
		return err
	}

	app, err := xml.MarshalPart(AppProperties(doc))
	if err != nil {
		return err
	}
	appID, err := reg.RegisterPart(opc.AppPropsPath, opc.ContentTypeExtendedProperties, app)
	if err != nil {
		return err
	}
	_, err = reg.AddRelationship(opc.PackageRoot, opc.RelTypeExtendedProperties, appID)
	return err
}

func registerStyles(reg *opc.Registry, docPart opc.PartID, opts Options) error {
	data, err := xml.MarshalPart(xml.DefaultStyles(opts.Font, opts.FontSize))
	if err != nil {
		return err
	}
	id, err := reg.RegisterPart(opc.StylesPath, opc.ContentTypeStyles, data)
	if err != nil {
		return err
	}
	_, err = reg.AddRelationship(docPart, opc.RelTypeStyles, id)
	return err
}
