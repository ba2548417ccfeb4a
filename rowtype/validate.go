// Package rowtype implements the entity shape validator.
package rowtype

import "fmt"

// Validate checks that the described type satisfies the structural contract of
// the row-mapping layer: a public, non-extensible value-record type whose
// primary constructor mirrors the declared fields in type and order and whose
// last field is the non-nullable 64-bit integer identifier.
//
// Validation is a pure function of the descriptor: it inspects shape only,
// never data, and holds no state between calls. The first violation found is
// returned as a *ShapeError; nil means the type may be registered.
func Validate(d *TypeDescriptor) error {
	if d == nil {
		return fmt.Errorf("rowtype: nil type descriptor")
	}
	if err := checkClass(d); err != nil {
		return err
	}
	if d.Constructor == nil {
		return &ShapeError{Violation: NoPrimaryConstructor, TypeName: d.QualifiedName}
	}
	if len(d.Fields) == 0 {
		return &ShapeError{Violation: NoProperties, TypeName: d.QualifiedName}
	}
	if err := checkConstructor(d); err != nil {
		return err
	}
	id, _ := d.IDField()
	if err := checkIdentifier(d.QualifiedName, id); err != nil {
		return err
	}
	for _, f := range d.Fields {
		if err := checkField(d.QualifiedName, f); err != nil {
			return err
		}
	}
	return nil
}

// checkClass validates modifiers, visibility, type parameters, and supertypes
// on the type itself. The name check runs first: every later diagnostic embeds
// the qualified name, so a nameless type is terminal on its own.
func checkClass(d *TypeDescriptor) error {
	if d.QualifiedName == "" {
		return &ShapeError{Violation: AnonymousType}
	}
	fail := func(v Violation) error {
		return &ShapeError{Violation: v, TypeName: d.QualifiedName}
	}
	if !d.IsValueType {
		return fail(NotAValueType)
	}
	if d.IsOpen {
		return fail(TypeIsOpen)
	}
	if d.IsAbstract {
		return fail(TypeIsAbstract)
	}
	if d.IsInner {
		return fail(TypeIsInner)
	}
	if d.IsCompanion {
		return fail(TypeIsCompanion)
	}
	if d.IsSealed {
		return fail(TypeIsSealed)
	}
	if d.Visibility != Public {
		return fail(TypeNotPublic)
	}
	if len(d.TypeParams) != 0 {
		return fail(TypeHasTypeParameters)
	}
	if len(d.Supertypes) != 2 || !hasSupertype(d, SupertypeEntity) || !hasSupertype(d, SupertypeRoot) {
		return fail(InvalidSupertypes)
	}
	return nil
}

func hasSupertype(d *TypeDescriptor, name string) bool {
	for _, s := range d.Supertypes {
		if s == name {
			return true
		}
	}
	return false
}

// checkConstructor validates the primary constructor's modifiers, then that
// its parameter types mirror the declared field types: the last parameter
// must carry the identifier field's type, and the remaining parameters must
// equal the remaining field types element for element. The comparison is an
// exact sequence check, so reordered fields fail even when the same types are
// present.
func checkConstructor(d *TypeDescriptor) error {
	c := d.Constructor
	fail := func(v Violation) error {
		return &ShapeError{Violation: v, TypeName: d.QualifiedName}
	}
	if c.IsExternal {
		return fail(ConstructorIsExternal)
	}
	if c.IsInfix {
		return fail(ConstructorIsInfix)
	}
	if c.IsInline {
		return fail(ConstructorIsInline)
	}
	if c.IsAbstract {
		return fail(ConstructorIsAbstract)
	}
	if c.IsOpen {
		return fail(ConstructorIsOpen)
	}
	if len(c.TypeParams) != 0 {
		return fail(ConstructorHasTypeParameters)
	}
	if c.Visibility != Public {
		return fail(ConstructorNotPublic)
	}

	if len(c.Params) == 0 {
		return fail(IdArgumentMismatch)
	}
	lastParam := c.Params[len(c.Params)-1]
	lastField := d.Fields[len(d.Fields)-1]
	if lastParam != lastField.Type {
		return fail(IdArgumentMismatch)
	}

	initParams := c.Params[:len(c.Params)-1]
	initFields := d.Fields[:len(d.Fields)-1]
	if len(initParams) != len(initFields) {
		return fail(PropertyOrderMismatch)
	}
	for i, p := range initParams {
		if p != initFields[i].Type {
			return fail(PropertyOrderMismatch)
		}
	}
	return nil
}

// checkIdentifier validates the field occupying the identifier position: it
// must carry the reserved identifier name and a non-nullable 64-bit signed
// integer type.
func checkIdentifier(typeName string, f FieldDescriptor) error {
	if f.Name != IDFieldName {
		return &ShapeError{Violation: IdNotDeclaredLast, TypeName: typeName, Member: f.Name}
	}
	if f.Type.Kind != KindLong || f.Type.Entity {
		return &ShapeError{Violation: IdNotLong, TypeName: typeName, Member: f.Name}
	}
	if f.Type.Nullable {
		return &ShapeError{Violation: IdIsNullable, TypeName: typeName, Member: f.Name}
	}
	return nil
}

// checkField validates one declared field's modifiers, visibility, and value
// type. The identifier field is the sole field permitted to be open. Nested
// entity references are accepted without re-validating the referenced type,
// and no cycle detection is attempted.
func checkField(typeName string, f FieldDescriptor) error {
	fail := func(v Violation) error {
		return &ShapeError{Violation: v, TypeName: typeName, Member: f.Name}
	}
	if f.IsAbstract {
		return fail(PropertyIsAbstract)
	}
	if f.IsOpen && f.Name != IDFieldName {
		return fail(PropertyIsOpen)
	}
	if f.IsLateinit {
		return fail(PropertyIsLateinit)
	}
	if f.Visibility != Public {
		return fail(PropertyNotPublic)
	}
	if !f.Type.Entity && !allowedFieldKinds[f.Type.Kind] {
		return fail(InvalidPropertyType)
	}
	return nil
}
