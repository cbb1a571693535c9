package model

import (
	"strconv"
	"strings"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// SectionNumber is a dotted section number such as 1.2.3.
// The zero value is an unnumbered section.
type SectionNumber []int

// ParseSectionNumber parses a dotted number. Components may carry leading
// zeros: "01.02" parses to 1.2.
func ParseSectionNumber(s string) (SectionNumber, error) {
	fields := strings.Split(s, ".")
	n := make(SectionNumber, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, derrors.Structuref("section number", "invalid section number %q", s)
		}
		n = append(n, v)
	}
	return n, nil
}

// IsZero reports whether the section is unnumbered
func (n SectionNumber) IsZero() bool {
	return len(n) == 0
}

// Depth returns the nesting level, 0 for top-level sections
func (n SectionNumber) Depth() int {
	if len(n) == 0 {
		return 0
	}
	return len(n) - 1
}

// Compare orders section numbers component-wise. A prefix sorts first.
func (n SectionNumber) Compare(other SectionNumber) int {
	for i := 0; i < len(n) && i < len(other); i++ {
		switch {
		case n[i] < other[i]:
			return -1
		case n[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(n) < len(other):
		return -1
	case len(n) > len(other):
		return 1
	}
	return 0
}

func (n SectionNumber) String() string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}
