package model

import (
	"fmt"
	"unicode/utf8"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// isXMLChar reports whether r may appear in an XML 1.0 document.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// CheckText returns a StructureError naming node when s is not valid UTF-8
// or holds a character XML 1.0 cannot represent.
func CheckText(node, s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return derrors.Structuref(node, "text is not valid UTF-8 at byte %d", i)
		}
		if !isXMLChar(r) {
			return derrors.Structuref(node, "text contains character %U at byte %d, which XML cannot represent", r, i)
		}
		i += size
	}
	return nil
}

func (s *Section) checkText(node string) error {
	for _, text := range append([]string{s.Title, s.ID}, s.TracedIDs...) {
		if err := CheckText(node, text); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every metadata string can be written as XML.
func (m Metadata) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"title", m.Title},
		{"subtitle", m.Subtitle},
		{"description", m.Description},
		{"protection mark", m.ProtectionMark},
		{"owner", m.Owner.String()},
		{"approver", m.Approver.String()},
	}
	for _, f := range fields {
		if err := CheckText("metadata "+f.name, f.value); err != nil {
			return err
		}
	}
	for i, r := range m.Revisions {
		node := fmt.Sprintf("revision %d", i+1)
		for _, v := range []string{r.Version, r.Date, r.Description, r.Author} {
			if err := CheckText(node, v); err != nil {
				return err
			}
		}
	}
	return nil
}
