// Package opc implements the Open Packaging Conventions layer of a .docx
// file: the part registry, relationship files, the content-types manifest
// and the deterministic ZIP container.
//
// Parts and relationships live in a Registry and are referenced by opaque
// PartID values. Serializers register parts and request relationships; the
// Assembler derives everything else ([Content_Types].xml and every .rels
// file) from the registry just before writing.
package opc
