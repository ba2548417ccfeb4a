// Package rowtype provides parsing of 'rowtype' struct tags.
package rowtype

import (
	"fmt"
	"strings"
)

// FieldTag is the structured representation of a parsed `rowtype` struct tag.
type FieldTag struct {
	// Name is the declared field name, overriding the derived one.
	Name string
	// Kind overrides the value kind inferred from the Go type, for kinds
	// reflection cannot distinguish (date, time, datetime share time.Time).
	Kind ValueKind
	// Skip indicates the field is ignored by the row mapper.
	Skip bool
}

// ParseTag parses the content of a `rowtype` struct tag. The first element is
// the field name; an optional second element names a value kind override:
//
//	`rowtype:"born,date"`
func ParseTag(tag string) (FieldTag, error) {
	if tag == "" {
		return FieldTag{}, nil
	}
	if tag == "-" {
		return FieldTag{Skip: true}, nil
	}

	parts := strings.Split(tag, ",")
	ft := FieldTag{Name: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := KindByName(part)
		if k == KindInvalid {
			return FieldTag{}, fmt.Errorf("unknown rowtype tag option %q", part)
		}
		ft.Kind = k
	}
	return ft, nil
}
