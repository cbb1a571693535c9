// Package sysdoc compiles structured system documents into Word (.docx) packages.
//
// A document is described in memory with the model package (sections,
// paragraphs, formatted runs, tables and images) and built into an Office
// Open XML package: a ZIP container of cross-referenced XML parts with a
// content types manifest, relationship parts, media and a minimal styles
// part.
//
// # Quick Start
//
//	doc := model.NewDocument(model.Metadata{Title: "System Design"})
//	sec, _ := model.NewSection("1", "Overview")
//	sec.AddParagraph(model.Text("Hello, "), model.Bold("world!"))
//	doc.AddSection(sec)
//
//	if err := sysdoc.Build(doc, "design.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Guarantees
//
// Builds are deterministic: the same model always produces the same bytes.
// Every relationship referenced by a part resolves, every part is reachable
// from the package root and every part is covered by the manifest. Build
// writes atomically; a failed build leaves nothing at the destination.
//
// Vector images are embedded together with a PNG fallback generated by a
// Rasterizer (see package raster). Building a document with a vector image
// and no rasterizer fails with an AssetError.
//
// # Errors
//
// Failures are classified as StructureError (invalid model), AssetError
// (unusable image) or PackagingError (the container could not be assembled
// or written). Use GetErrorCategory or the Is* helpers to tell them apart.
//
// # Architecture
//
// The package is organized into several sub-packages:
//
//   - model: the document model and its structural invariants
//   - opc: part registry, content types manifest and package assembler
//   - xml: WordprocessingML and DrawingML element types
//   - render: serializers from model nodes to xml elements and parts
//   - raster: vector fallback generation
//   - metrics: build metrics
//   - source: YAML document descriptions
//   - revision: revision history from git tags
package sysdoc
