package opc

// Namespaces used by package-level XML.
const (
	RelationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	ContentTypesNamespace  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types.
const (
	RelTypeOfficeDocument     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeImage              = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeExtendedProperties = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeCoreProperties     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Content types.
const (
	ContentTypeRelationships      = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML                = "application/xml"
	ContentTypeDocumentMain       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles             = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeCoreProperties     = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeExtendedProperties = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Well-known part paths.
const (
	ContentTypesPath = "[Content_Types].xml"
	DocumentPath     = "word/document.xml"
	StylesPath       = "word/styles.xml"
	CorePropsPath    = "docProps/core.xml"
	AppPropsPath     = "docProps/app.xml"
	MediaDir         = "word/media"
)

// XMLHeader is written before every XML part.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
