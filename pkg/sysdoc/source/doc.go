// Package source loads documents from a YAML description.
//
// A description holds the document metadata and a list of sections. Each
// section carries blocks; a block is exactly one of a markdown paragraph,
// an image file, an inline table or a CSV table file:
//
//	metadata:
//	  title: Flight Software Design
//	  version: "1.2"
//	sections:
//	  - number: "1"
//	    title: Scope
//	    blocks:
//	      - paragraph: "The **flight** software *shall* ..."
//	      - image: diagrams/context.svg
//	        alt: Context diagram
//	      - csv: tables/interfaces.csv
//	        header: true
//
// File references resolve against the directory of the description, through
// a billy.Filesystem so that callers can load from disk or from memory.
package source
