// Package rowtype defines the closed violation taxonomy for entity shape checks.
package rowtype

import "fmt"

// Violation identifies one structural rule an entity type definition can break.
// The set is closed: every failure mode of Validate is exactly one Violation.
type Violation int

const (
	// AnonymousType: the type has no resolvable qualified name.
	AnonymousType Violation = iota
	// NotAValueType: the type is not a value-record type.
	NotAValueType
	// TypeIsOpen: the type is declared inheritable.
	TypeIsOpen
	// TypeIsAbstract: the type is declared abstract.
	TypeIsAbstract
	// TypeIsInner: the type is nested inside another type.
	TypeIsInner
	// TypeIsCompanion: the type is a singleton-scoped companion construct.
	TypeIsCompanion
	// TypeIsSealed: the type belongs to a closed hierarchy.
	TypeIsSealed
	// TypeNotPublic: the type is not publicly visible.
	TypeNotPublic
	// TypeHasTypeParameters: the type declares generic type parameters.
	TypeHasTypeParameters
	// InvalidSupertypes: the supertype set is not exactly the entity marker
	// plus the universal root.
	InvalidSupertypes
	// NoPrimaryConstructor: the type has no primary constructor.
	NoPrimaryConstructor
	// NoProperties: the type declares no fields.
	NoProperties
	// ConstructorIsExternal: the primary constructor is foreign-linked.
	ConstructorIsExternal
	// ConstructorIsInfix: the primary constructor is declared infix.
	ConstructorIsInfix
	// ConstructorIsInline: the primary constructor is declared inline.
	ConstructorIsInline
	// ConstructorIsAbstract: the primary constructor is declared abstract.
	ConstructorIsAbstract
	// ConstructorIsOpen: the primary constructor is declared open.
	ConstructorIsOpen
	// ConstructorHasTypeParameters: the primary constructor declares its own
	// generic type parameters.
	ConstructorHasTypeParameters
	// ConstructorNotPublic: the primary constructor is not publicly visible.
	ConstructorNotPublic
	// IdArgumentMismatch: the last constructor parameter does not have the
	// identifier field's type.
	IdArgumentMismatch
	// PropertyOrderMismatch: the non-identifier constructor parameter types
	// do not match the declared field types in order.
	PropertyOrderMismatch
	// IdNotDeclaredLast: the field in the identifier position is not named
	// after the reserved identifier.
	IdNotDeclaredLast
	// IdNotLong: the identifier field is not a 64-bit signed integer.
	IdNotLong
	// IdIsNullable: the identifier field admits null.
	IdIsNullable
	// PropertyIsAbstract: a declared field is abstract.
	PropertyIsAbstract
	// PropertyIsOpen: a non-identifier field is declared open.
	PropertyIsOpen
	// PropertyIsLateinit: a declared field uses deferred initialization.
	PropertyIsLateinit
	// PropertyNotPublic: a declared field is not publicly visible.
	PropertyNotPublic
	// InvalidPropertyType: a field's type is outside the allowed value-type
	// set and is not a nested entity reference.
	InvalidPropertyType
)

// String returns the variant name of the violation.
func (v Violation) String() string {
	names := [...]string{
		"AnonymousType", "NotAValueType", "TypeIsOpen", "TypeIsAbstract",
		"TypeIsInner", "TypeIsCompanion", "TypeIsSealed", "TypeNotPublic",
		"TypeHasTypeParameters", "InvalidSupertypes", "NoPrimaryConstructor",
		"NoProperties", "ConstructorIsExternal", "ConstructorIsInfix",
		"ConstructorIsInline", "ConstructorIsAbstract", "ConstructorIsOpen",
		"ConstructorHasTypeParameters", "ConstructorNotPublic",
		"IdArgumentMismatch", "PropertyOrderMismatch", "IdNotDeclaredLast",
		"IdNotLong", "IdIsNullable", "PropertyIsAbstract", "PropertyIsOpen",
		"PropertyIsLateinit", "PropertyNotPublic", "InvalidPropertyType",
	}
	if int(v) < 0 || int(v) >= len(names) {
		return fmt.Sprintf("Violation(%d)", int(v))
	}
	return names[v]
}

// ShapeError reports one structural violation found while validating an entity
// type definition. Every Validate failure is a *ShapeError; callers switch on
// the Violation variant rather than the message text.
type ShapeError struct {
	// Violation is the structural rule that was broken.
	Violation Violation
	// TypeName is the qualified name of the offending type. Empty only for
	// AnonymousType, where no name exists to report.
	TypeName string
	// Member is the offending field name, where one applies.
	Member string
}

// Error returns the diagnostic message for the violation. The message embeds
// the offending type's qualified name and, where applicable, the member name.
func (e *ShapeError) Error() string {
	switch e.Violation {
	case AnonymousType:
		return "entity type has no qualified name (anonymous or local types cannot be entities; no further detail available)"
	case NotAValueType:
		return fmt.Sprintf("entity type %s must be a value record type", e.TypeName)
	case TypeIsOpen:
		return fmt.Sprintf("entity type %s must not be open", e.TypeName)
	case TypeIsAbstract:
		return fmt.Sprintf("entity type %s must not be abstract", e.TypeName)
	case TypeIsInner:
		return fmt.Sprintf("entity type %s must not be nested inside another type", e.TypeName)
	case TypeIsCompanion:
		return fmt.Sprintf("entity type %s must not be a companion object", e.TypeName)
	case TypeIsSealed:
		return fmt.Sprintf("entity type %s must not be part of a sealed hierarchy", e.TypeName)
	case TypeNotPublic:
		return fmt.Sprintf("entity type %s must be public", e.TypeName)
	case TypeHasTypeParameters:
		return fmt.Sprintf("entity type %s must not declare type parameters", e.TypeName)
	case InvalidSupertypes:
		return fmt.Sprintf("entity type %s must extend exactly %s and %s", e.TypeName, SupertypeEntity, SupertypeRoot)
	case NoPrimaryConstructor:
		return fmt.Sprintf("entity type %s has no primary constructor", e.TypeName)
	case NoProperties:
		return fmt.Sprintf("entity type %s declares no properties", e.TypeName)
	case ConstructorIsExternal:
		return fmt.Sprintf("primary constructor of %s must not be external", e.TypeName)
	case ConstructorIsInfix:
		return fmt.Sprintf("primary constructor of %s must not be infix", e.TypeName)
	case ConstructorIsInline:
		return fmt.Sprintf("primary constructor of %s must not be inline", e.TypeName)
	case ConstructorIsAbstract:
		return fmt.Sprintf("primary constructor of %s must not be abstract", e.TypeName)
	case ConstructorIsOpen:
		return fmt.Sprintf("primary constructor of %s must not be open", e.TypeName)
	case ConstructorHasTypeParameters:
		return fmt.Sprintf("primary constructor of %s must not declare type parameters", e.TypeName)
	case ConstructorNotPublic:
		return fmt.Sprintf("primary constructor of %s must be public", e.TypeName)
	case IdArgumentMismatch:
		return fmt.Sprintf("entity type %s: last constructor argument is not the identifier argument", e.TypeName)
	case PropertyOrderMismatch:
		return fmt.Sprintf("entity type %s: constructor arguments do not match the declared properties in type and order", e.TypeName)
	case IdNotDeclaredLast:
		return fmt.Sprintf("entity type %s: the %q property must be declared last (found %q)", e.TypeName, IDFieldName, e.Member)
	case IdNotLong:
		return fmt.Sprintf("entity type %s: property %q must be a 64-bit signed integer", e.TypeName, e.Member)
	case IdIsNullable:
		return fmt.Sprintf("entity type %s: property %q must not be nullable", e.TypeName, e.Member)
	case PropertyIsAbstract:
		return fmt.Sprintf("entity type %s: property %q must not be abstract", e.TypeName, e.Member)
	case PropertyIsOpen:
		return fmt.Sprintf("entity type %s: property %q must not be open", e.TypeName, e.Member)
	case PropertyIsLateinit:
		return fmt.Sprintf("entity type %s: property %q must not be lateinit", e.TypeName, e.Member)
	case PropertyNotPublic:
		return fmt.Sprintf("entity type %s: property %q must be public", e.TypeName, e.Member)
	case InvalidPropertyType:
		return fmt.Sprintf("entity type %s: property %q has a type outside the allowed value types", e.TypeName, e.Member)
	}
	return fmt.Sprintf("entity type %s: unknown violation %d", e.TypeName, int(e.Violation))
}

// Is reports whether target carries the same violation variant, so that
// errors.Is(err, &ShapeError{Violation: IdIsNullable}) matches regardless of
// the type and member names.
func (e *ShapeError) Is(target error) bool {
	t, ok := target.(*ShapeError)
	if !ok {
		return false
	}
	return t.Violation == e.Violation &&
		(t.TypeName == "" || t.TypeName == e.TypeName) &&
		(t.Member == "" || t.Member == e.Member)
}
