// Package entdef parses entity definition files into rowtype descriptors.
//
// An entity definition file declares one or more entities:
//
//	entity customer {
//	    name: string
//	    balance: decimal
//	    id: long
//	}
//
// Modifier keywords (open, abstract, sealed, internal, private, lateinit) and
// nullable types (string?) map onto descriptor flags, so definitions go
// through the same shape validation as reflected Go structs.
package entdef

import (
	"github.com/evanfuller/go-rowtype/rowtype"
)

// Schema is the parsed content of one entity definition file.
type Schema struct {
	Entities []EntitySpec
}

// EntitySpec is one parsed entity definition.
type EntitySpec struct {
	// Name is the declared entity name.
	Name string
	// Modifiers holds declaration modifiers in source order.
	Modifiers []string
	// Parents holds explicitly declared extra supertypes. The entity marker
	// and the universal root are always implied; anything listed here is in
	// addition to them.
	Parents []string
	// Fields holds the declared fields in source order.
	Fields []FieldSpec
}

// FieldSpec is one parsed field declaration.
type FieldSpec struct {
	Name      string
	Type      string
	Nullable  bool
	Modifiers []string
}

// Entity retrieves a parsed entity definition by name.
func (s *Schema) Entity(name string) (EntitySpec, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return EntitySpec{}, false
}

// Descriptors converts every parsed entity into a rowtype.TypeDescriptor.
// Field types naming another entity in the same schema become entity
// references; the primary constructor is synthesized from the field sequence,
// as the definition language has no separate constructor syntax. The
// resulting descriptors have not been validated; pass each to
// rowtype.Validate.
func (s *Schema) Descriptors() []*rowtype.TypeDescriptor {
	known := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		known[e.Name] = true
	}

	result := make([]*rowtype.TypeDescriptor, 0, len(s.Entities))
	for _, e := range s.Entities {
		result = append(result, convertEntity(e, known))
	}
	return result
}

func convertEntity(e EntitySpec, known map[string]bool) *rowtype.TypeDescriptor {
	d := &rowtype.TypeDescriptor{
		QualifiedName: e.Name,
		IsValueType:   true,
		Visibility:    rowtype.Public,
		Supertypes:    append([]string{rowtype.SupertypeEntity, rowtype.SupertypeRoot}, e.Parents...),
	}

	for _, m := range e.Modifiers {
		switch m {
		case "open":
			d.IsOpen = true
		case "abstract":
			d.IsAbstract = true
		case "sealed":
			d.IsSealed = true
		case "internal":
			d.Visibility = rowtype.Internal
		case "private":
			d.Visibility = rowtype.Private
		}
	}

	params := make([]rowtype.TypeRef, 0, len(e.Fields))
	for _, f := range e.Fields {
		fd := convertField(f, known)
		d.Fields = append(d.Fields, fd)
		params = append(params, fd.Type)
	}
	d.Constructor = &rowtype.ConstructorDescriptor{Params: params, Visibility: rowtype.Public}

	return d
}

func convertField(f FieldSpec, known map[string]bool) rowtype.FieldDescriptor {
	fd := rowtype.FieldDescriptor{
		Name:       f.Name,
		Visibility: rowtype.Public,
	}

	for _, m := range f.Modifiers {
		switch m {
		case "open":
			fd.IsOpen = true
		case "abstract":
			fd.IsAbstract = true
		case "lateinit":
			fd.IsLateinit = true
		case "internal":
			fd.Visibility = rowtype.Internal
		case "private":
			fd.Visibility = rowtype.Private
		}
	}

	if k := rowtype.KindByName(f.Type); k != rowtype.KindInvalid {
		fd.Type = rowtype.TypeRef{Name: k.String(), Kind: k, Nullable: f.Nullable}
	} else if known[f.Type] {
		ref := rowtype.EntityRef(f.Type)
		ref.Nullable = f.Nullable
		fd.Type = ref
	} else {
		fd.Type = rowtype.TypeRef{Name: f.Type, Nullable: f.Nullable}
	}
	return fd
}
