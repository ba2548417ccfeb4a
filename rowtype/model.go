// Package rowtype validates the shape of entity type definitions before they
// are registered with the row-mapping layer.
package rowtype

import "strings"

// Visibility is the declared visibility level of a type, constructor, or field.
type Visibility int

const (
	// Public visibility: accessible from any package.
	Public Visibility = iota
	// Internal visibility: accessible within the defining module only.
	Internal
	// Protected visibility: accessible to subtypes only.
	Protected
	// Private visibility: accessible within the defining scope only.
	Private
)

// String returns the lower-case name of the visibility level.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "unknown"
}

// ValueKind classifies the value type a field or constructor parameter carries.
type ValueKind int

const (
	// KindInvalid marks a type outside the allowed value-type set.
	KindInvalid ValueKind = iota
	// KindString is a text value.
	KindString
	// KindDecimal is an arbitrary-precision decimal value.
	KindDecimal
	// KindLong is a 64-bit signed integer value.
	KindLong
	// KindInt is a 32-bit signed integer value.
	KindInt
	// KindBool is a boolean value.
	KindBool
	// KindDate is a calendar date without a time component.
	KindDate
	// KindDouble is a 64-bit floating point value.
	KindDouble
	// KindFloat is a 32-bit floating point value.
	KindFloat
	// KindTime is a time of day without a date component.
	KindTime
	// KindDateTime is a combined date and time value.
	KindDateTime
	// KindEntity is a reference to another entity type.
	KindEntity
)

// String returns the canonical name of the value kind, as used in entity
// definition files and diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDecimal:
		return "decimal"
	case KindLong:
		return "long"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindEntity:
		return "entity"
	}
	return "invalid"
}

// KindByName maps a canonical value-kind name back to its ValueKind.
// Returns KindInvalid for names outside the allowed set.
func KindByName(name string) ValueKind {
	switch name {
	case "string":
		return KindString
	case "decimal":
		return KindDecimal
	case "long":
		return KindLong
	case "int":
		return KindInt
	case "bool", "boolean":
		return KindBool
	case "date":
		return KindDate
	case "double":
		return KindDouble
	case "float":
		return KindFloat
	case "time":
		return KindTime
	case "datetime":
		return KindDateTime
	}
	return KindInvalid
}

// allowedFieldKinds is the fixed set of value kinds an entity field may carry.
// Entity references are permitted separately via TypeRef.Entity. The set is
// process-wide static configuration and never changes at runtime.
var allowedFieldKinds = map[ValueKind]bool{
	KindString:   true,
	KindDecimal:  true,
	KindLong:     true,
	KindInt:      true,
	KindBool:     true,
	KindDate:     true,
	KindDouble:   true,
	KindFloat:    true,
	KindTime:     true,
	KindDateTime: true,
}

const (
	// SupertypeEntity is the marker base type every entity type must extend.
	SupertypeEntity = "rowtype.Entity"
	// SupertypeRoot is the universal root type present in every supertype set.
	SupertypeRoot = "any"
	// IDFieldName is the reserved name of the identifier field.
	IDFieldName = "id"
)

// TypeRef identifies the declared type of a field or constructor parameter.
// Two refs match when they are equal by ==; field names are not part of a ref.
type TypeRef struct {
	// Name is the canonical kind name, or the qualified entity type name
	// for entity references.
	Name string
	// Kind classifies the referenced value type.
	Kind ValueKind
	// Nullable is true if the declared type admits null.
	Nullable bool
	// Entity is true if the referenced type is itself subtyped from the
	// entity marker base type.
	Entity bool
}

// ValueRef returns a non-nullable TypeRef for the given value kind.
func ValueRef(k ValueKind) TypeRef {
	return TypeRef{Name: k.String(), Kind: k}
}

// NullableRef returns a nullable TypeRef for the given value kind.
func NullableRef(k ValueKind) TypeRef {
	return TypeRef{Name: k.String(), Kind: k, Nullable: true}
}

// EntityRef returns a TypeRef for a nested entity reference with the given
// qualified type name.
func EntityRef(qualifiedName string) TypeRef {
	return TypeRef{Name: qualifiedName, Kind: KindEntity, Entity: true}
}

// ConstructorDescriptor is a read-only view of a type's primary constructor.
type ConstructorDescriptor struct {
	// Params is the ordered sequence of parameter types.
	Params []TypeRef
	// IsExternal is true for constructors linked against foreign code.
	IsExternal bool
	// IsInfix is true for constructors declared with infix call syntax.
	IsInfix bool
	// IsInline is true for constructors subject to call-site inlining.
	IsInline bool
	// IsAbstract is true for abstract constructors.
	IsAbstract bool
	// IsOpen is true for constructors overridable in subtypes.
	IsOpen bool
	// Visibility is the constructor's declared visibility.
	Visibility Visibility
	// TypeParams is the constructor's own generic type-parameter list.
	TypeParams []string
}

// FieldDescriptor is a read-only view of one declared field, in declaration order.
type FieldDescriptor struct {
	// Name is the declared field name.
	Name string
	// Type is the declared field type, including nullability.
	Type TypeRef
	// IsAbstract is true for fields without a backing implementation.
	IsAbstract bool
	// IsOpen is true for fields overridable in subtypes.
	IsOpen bool
	// IsLateinit is true for fields with deferred initialization.
	IsLateinit bool
	// Visibility is the field's declared visibility.
	Visibility Visibility
	// FieldIndex is the 0-based index of the backing Go struct field.
	// Populated by the reflection adapter; zero for descriptors from
	// other sources.
	FieldIndex int
}

// TypeDescriptor is an immutable metadata snapshot of one candidate entity
// type. It is produced by an adapter over a metadata facility (the reflection
// adapter in this package, or the entdef parser) and consumed by Validate;
// the validator never constructs descriptors itself.
type TypeDescriptor struct {
	// QualifiedName is the full name of the type. Empty for anonymous or
	// local types.
	QualifiedName string
	// IsValueType is true for data-holding value-record types.
	IsValueType bool
	// IsOpen is true for types inheritable by subtypes.
	IsOpen bool
	// IsAbstract is true for abstract types.
	IsAbstract bool
	// IsInner is true for types nested inside another type.
	IsInner bool
	// IsCompanion is true for singleton-scoped companion constructs.
	IsCompanion bool
	// IsSealed is true for members of a closed type hierarchy.
	IsSealed bool
	// Visibility is the type's declared visibility.
	Visibility Visibility
	// TypeParams is the ordered list of declared generic type parameters.
	TypeParams []string
	// Supertypes is the set of declared supertypes. A conforming entity
	// type declares exactly SupertypeEntity and SupertypeRoot.
	Supertypes []string
	// Constructor describes the primary constructor, or nil if the type
	// has none.
	Constructor *ConstructorDescriptor
	// Fields is the ordered sequence of declared fields.
	Fields []FieldDescriptor
}

// BaseName returns the unqualified type name: the part of QualifiedName after
// the final '.' separator.
func (d *TypeDescriptor) BaseName() string {
	if i := strings.LastIndexByte(d.QualifiedName, '.'); i >= 0 {
		return d.QualifiedName[i+1:]
	}
	return d.QualifiedName
}

// FieldByName retrieves the descriptor of the named field.
func (d *TypeDescriptor) FieldByName(name string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// IDField returns the identifier field descriptor: the last declared field.
// The second return is false for types declaring no fields at all.
func (d *TypeDescriptor) IDField() (FieldDescriptor, bool) {
	if len(d.Fields) == 0 {
		return FieldDescriptor{}, false
	}
	return d.Fields[len(d.Fields)-1], true
}
