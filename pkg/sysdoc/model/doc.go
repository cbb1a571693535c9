// Package model defines the in-memory document that is compiled into a
// WordprocessingML package.
//
// The model is a plain value tree:
//
//	Document
//	  └── Section (ordered)
//	        └── Block: *Paragraph | *Table
//	              Paragraph └── Inline: *Run | *Image
//	              Table     └── TableRow └── TableCell └── Block ...
//
// Block, Inline and ImageSource are closed sum types: they can only be
// implemented inside this package, so every serializer switching over them
// handles a known, finite set of cases.
//
// Construction APIs validate structure immediately. Adding a row with the
// wrong number of cells to a Table, for example, fails with a StructureError
// instead of being discovered when the package is written.
package model
