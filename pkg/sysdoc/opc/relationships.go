package opc

import "encoding/xml"

// RelationshipElement is one <Relationship> of a .rels part.
type RelationshipElement struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships is the root element of a .rels part.
type Relationships struct {
	XMLName      xml.Name              `xml:"Relationships"`
	Namespace    string                `xml:"xmlns,attr"`
	Relationship []RelationshipElement `xml:"Relationship"`
}

// RelationshipsFor builds the .rels content of a source part from the registry.
func RelationshipsFor(reg *Registry, from PartID) *Relationships {
	rels := &Relationships{Namespace: RelationshipsNamespace}
	for _, rel := range reg.Relationships(from) {
		el := RelationshipElement{
			ID:     string(rel.ID),
			Type:   rel.Type,
			Target: reg.TargetPath(from, rel),
		}
		if rel.IsExternal() {
			el.TargetMode = "External"
		}
		rels.Relationship = append(rels.Relationship, el)
	}
	return rels
}

// Marshal serializes the relationships with the XML declaration
func (r *Relationships) Marshal() ([]byte, error) {
	return marshalPart(r)
}
