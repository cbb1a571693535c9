// Package xml defines the WordprocessingML and DrawingML elements written
// into a generated package.
//
// Every element implements xml.Marshaler and encodes itself with an explicit
// prefixed name (w:p, w:r, wp:inline, ...). The namespaces are declared once
// on the w:document root, so fragments marshaled on their own (see Fragment)
// are only well-formed once placed inside a document.
//
// # Structure Organization
//
//   - types.go: namespaces, shared value elements and the content interfaces
//   - document.go: Document, Body and section properties
//   - paragraph.go: Paragraph and its properties
//   - run.go: Run, Text, Break and Tab
//   - table.go: Table, rows, cells and their properties
//   - drawing.go: inline pictures, including the SVG extension
//   - styles.go: the styles part
//   - props.go: core and extended document properties
package xml
