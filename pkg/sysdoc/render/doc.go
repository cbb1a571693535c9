// Package render serializes the document model into WordprocessingML parts.
//
// The serializers walk the model in document order, build xml element trees
// and register every auxiliary part (media, styles, properties) with the
// part registry. Relationship ids are requested from the registry and
// embedded in the markup; serializers never construct relationships.
//
// # Structure Organization
//
//   - serializer.go: Serializer state and Package, the entry point
//   - run.go: runs and paragraphs
//   - table.go: tables and column width distribution
//   - image.go: raster and vector drawings, media registration
//   - body.go: title block, revision history, sections, trace tables
//   - properties.go: styles, core and extended properties parts
//
// # Determinism
//
// A Serializer is single-threaded. Media names, docPr ids and relationship
// ids follow the document walk order, so an unchanged model always produces
// identical parts. Vector fallbacks are generated beforehand (see package
// raster) and looked up by walk index.
package render
