package rowtype

import (
	"errors"
	"strings"
	"testing"
)

// customerDescriptor builds a descriptor that satisfies every structural rule:
// a public value record extending exactly the marker and root, with fields
// (name: string, balance: decimal, id: long) mirrored by the constructor.
func customerDescriptor() *TypeDescriptor {
	return &TypeDescriptor{
		QualifiedName: "billing.Customer",
		IsValueType:   true,
		Visibility:    Public,
		Supertypes:    []string{SupertypeEntity, SupertypeRoot},
		Constructor: &ConstructorDescriptor{
			Params:     []TypeRef{ValueRef(KindString), ValueRef(KindDecimal), ValueRef(KindLong)},
			Visibility: Public,
		},
		Fields: []FieldDescriptor{
			{Name: "name", Type: ValueRef(KindString), Visibility: Public},
			{Name: "balance", Type: ValueRef(KindDecimal), Visibility: Public},
			{Name: "id", Type: ValueRef(KindLong), Visibility: Public},
		},
	}
}

func wantViolation(t *testing.T, err error, want Violation) *ShapeError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want)
	}
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %T: %v", err, err)
	}
	if se.Violation != want {
		t.Fatalf("Violation: got %s, want %s (message: %v)", se.Violation, want, se)
	}
	return se
}

func TestValidate_Customer(t *testing.T) {
	if err := Validate(customerDescriptor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NilDescriptor(t *testing.T) {
	err := Validate(nil)
	if err == nil {
		t.Fatal("expected error for nil descriptor")
	}
	var se *ShapeError
	if errors.As(err, &se) {
		t.Fatalf("nil descriptor should not be a shape violation, got %s", se.Violation)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	d := customerDescriptor()
	if err := Validate(d); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := Validate(d); err != nil {
		t.Fatalf("second call: %v", err)
	}

	bad := customerDescriptor()
	bad.IsOpen = true
	first := wantViolation(t, Validate(bad), TypeIsOpen)
	second := wantViolation(t, Validate(bad), TypeIsOpen)
	if first.Violation != second.Violation || first.TypeName != second.TypeName {
		t.Error("expected identical results from repeated validation")
	}
}

func TestValidate_ClassViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TypeDescriptor)
		want   Violation
	}{
		{"anonymous", func(d *TypeDescriptor) { d.QualifiedName = "" }, AnonymousType},
		{"not value type", func(d *TypeDescriptor) { d.IsValueType = false }, NotAValueType},
		{"open", func(d *TypeDescriptor) { d.IsOpen = true }, TypeIsOpen},
		{"abstract", func(d *TypeDescriptor) { d.IsAbstract = true }, TypeIsAbstract},
		{"inner", func(d *TypeDescriptor) { d.IsInner = true }, TypeIsInner},
		{"companion", func(d *TypeDescriptor) { d.IsCompanion = true }, TypeIsCompanion},
		{"sealed", func(d *TypeDescriptor) { d.IsSealed = true }, TypeIsSealed},
		{"internal visibility", func(d *TypeDescriptor) { d.Visibility = Internal }, TypeNotPublic},
		{"private visibility", func(d *TypeDescriptor) { d.Visibility = Private }, TypeNotPublic},
		{"type parameters", func(d *TypeDescriptor) { d.TypeParams = []string{"T"} }, TypeHasTypeParameters},
		{"extra supertype", func(d *TypeDescriptor) {
			d.Supertypes = append(d.Supertypes, "billing.Auditable")
		}, InvalidSupertypes},
		{"marker only", func(d *TypeDescriptor) {
			d.Supertypes = []string{SupertypeEntity}
		}, InvalidSupertypes},
		{"missing marker", func(d *TypeDescriptor) {
			d.Supertypes = []string{"billing.Auditable", SupertypeRoot}
		}, InvalidSupertypes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := customerDescriptor()
			tt.mutate(d)
			wantViolation(t, Validate(d), tt.want)
		})
	}
}

func TestValidate_NoPrimaryConstructor(t *testing.T) {
	d := customerDescriptor()
	d.Constructor = nil
	wantViolation(t, Validate(d), NoPrimaryConstructor)
}

func TestValidate_NoProperties(t *testing.T) {
	d := customerDescriptor()
	d.Fields = nil
	d.Constructor.Params = nil
	wantViolation(t, Validate(d), NoProperties)
}

func TestValidate_ConstructorModifiers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConstructorDescriptor)
		want   Violation
	}{
		{"external", func(c *ConstructorDescriptor) { c.IsExternal = true }, ConstructorIsExternal},
		{"infix", func(c *ConstructorDescriptor) { c.IsInfix = true }, ConstructorIsInfix},
		{"inline", func(c *ConstructorDescriptor) { c.IsInline = true }, ConstructorIsInline},
		{"abstract", func(c *ConstructorDescriptor) { c.IsAbstract = true }, ConstructorIsAbstract},
		{"open", func(c *ConstructorDescriptor) { c.IsOpen = true }, ConstructorIsOpen},
		{"type parameters", func(c *ConstructorDescriptor) { c.TypeParams = []string{"T"} }, ConstructorHasTypeParameters},
		{"not public", func(c *ConstructorDescriptor) { c.Visibility = Internal }, ConstructorNotPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := customerDescriptor()
			tt.mutate(d.Constructor)
			wantViolation(t, Validate(d), tt.want)
		})
	}
}

func TestValidate_IdArgumentMismatch(t *testing.T) {
	d := customerDescriptor()
	d.Constructor.Params[2] = ValueRef(KindString)
	se := wantViolation(t, Validate(d), IdArgumentMismatch)
	if !strings.Contains(se.Error(), "last constructor argument is not the identifier argument") {
		t.Errorf("unexpected message: %v", se)
	}

	// No parameters at all: there is no last argument to be the identifier.
	d = customerDescriptor()
	d.Constructor.Params = nil
	wantViolation(t, Validate(d), IdArgumentMismatch)
}

func TestValidate_PropertyOrderMismatch(t *testing.T) {
	// Fields reordered relative to the constructor: same types, different order.
	d := customerDescriptor()
	d.Fields[0], d.Fields[1] = d.Fields[1], d.Fields[0]
	wantViolation(t, Validate(d), PropertyOrderMismatch)

	// A surplus constructor parameter is an order mismatch too.
	d = customerDescriptor()
	d.Constructor.Params = []TypeRef{
		ValueRef(KindString), ValueRef(KindDecimal), ValueRef(KindBool), ValueRef(KindLong),
	}
	wantViolation(t, Validate(d), PropertyOrderMismatch)
}

func TestValidate_SwapIdenticalTypes(t *testing.T) {
	// Swapping two fields of the same type keeps the type sequence intact, so
	// the structural check still passes.
	d := &TypeDescriptor{
		QualifiedName: "crm.Contact",
		IsValueType:   true,
		Visibility:    Public,
		Supertypes:    []string{SupertypeEntity, SupertypeRoot},
		Constructor: &ConstructorDescriptor{
			Params:     []TypeRef{ValueRef(KindString), ValueRef(KindString), ValueRef(KindLong)},
			Visibility: Public,
		},
		Fields: []FieldDescriptor{
			{Name: "firstName", Type: ValueRef(KindString), Visibility: Public},
			{Name: "lastName", Type: ValueRef(KindString), Visibility: Public},
			{Name: "id", Type: ValueRef(KindLong), Visibility: Public},
		},
	}
	if err := Validate(d); err != nil {
		t.Fatalf("baseline: %v", err)
	}
	d.Fields[0], d.Fields[1] = d.Fields[1], d.Fields[0]
	if err := Validate(d); err != nil {
		t.Fatalf("after swapping identically-typed fields: %v", err)
	}
}

func TestValidate_IdentifierField(t *testing.T) {
	t.Run("renamed", func(t *testing.T) {
		d := customerDescriptor()
		d.Fields[2].Name = "key"
		se := wantViolation(t, Validate(d), IdNotDeclaredLast)
		if se.Member != "key" {
			t.Errorf("Member: got %q, want %q", se.Member, "key")
		}
	})

	t.Run("not long", func(t *testing.T) {
		d := customerDescriptor()
		d.Fields[2].Type = ValueRef(KindInt)
		d.Constructor.Params[2] = ValueRef(KindInt)
		wantViolation(t, Validate(d), IdNotLong)
	})

	t.Run("nullable", func(t *testing.T) {
		d := customerDescriptor()
		d.Fields[2].Type = NullableRef(KindLong)
		d.Constructor.Params[2] = NullableRef(KindLong)
		wantViolation(t, Validate(d), IdIsNullable)
	})

	t.Run("entity typed", func(t *testing.T) {
		d := customerDescriptor()
		d.Fields[2].Type = EntityRef("billing.Account")
		d.Constructor.Params[2] = EntityRef("billing.Account")
		wantViolation(t, Validate(d), IdNotLong)
	})
}

func TestValidate_FieldChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TypeDescriptor)
		want   Violation
	}{
		{"abstract field", func(d *TypeDescriptor) { d.Fields[1].IsAbstract = true }, PropertyIsAbstract},
		{"open field", func(d *TypeDescriptor) { d.Fields[1].IsOpen = true }, PropertyIsOpen},
		{"lateinit field", func(d *TypeDescriptor) { d.Fields[0].IsLateinit = true }, PropertyIsLateinit},
		{"private field", func(d *TypeDescriptor) { d.Fields[0].Visibility = Private }, PropertyNotPublic},
		{"disallowed type", func(d *TypeDescriptor) {
			ref := TypeRef{Name: "[]string", Kind: KindInvalid}
			d.Fields[0].Type = ref
			d.Constructor.Params[0] = ref
		}, InvalidPropertyType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := customerDescriptor()
			tt.mutate(d)
			se := wantViolation(t, Validate(d), tt.want)
			if se.Member == "" {
				t.Error("expected member name in field violation")
			}
			if !strings.Contains(se.Error(), d.QualifiedName) {
				t.Errorf("message %q does not embed type name", se.Error())
			}
		})
	}
}

func TestValidate_OpenIdentifierAllowed(t *testing.T) {
	// The identifier field is the sole field permitted to be open.
	d := customerDescriptor()
	d.Fields[2].IsOpen = true
	if err := Validate(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NestedEntityField(t *testing.T) {
	// A field referencing another entity type passes without that type being
	// registered or re-validated.
	d := customerDescriptor()
	ref := EntityRef("billing.Address")
	d.Fields[1] = FieldDescriptor{Name: "address", Type: ref, Visibility: Public}
	d.Constructor.Params[1] = ref
	if err := Validate(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Self-reference is accepted as well: no cycle detection.
	d = customerDescriptor()
	self := EntityRef("billing.Customer")
	d.Fields[1] = FieldDescriptor{Name: "parent", Type: self, Visibility: Public}
	d.Constructor.Params[1] = self
	if err := Validate(d); err != nil {
		t.Fatalf("self-reference: %v", err)
	}
}

func TestValidate_FailFast(t *testing.T) {
	// Multiple violations present: only the first in check order is reported.
	d := customerDescriptor()
	d.IsOpen = true
	d.IsAbstract = true
	d.Fields[2].Type = NullableRef(KindLong)
	wantViolation(t, Validate(d), TypeIsOpen)
}

func TestShapeError_Matching(t *testing.T) {
	d := customerDescriptor()
	d.Fields[2].Type = NullableRef(KindLong)
	d.Constructor.Params[2] = NullableRef(KindLong)
	err := Validate(d)
	if !errors.Is(err, &ShapeError{Violation: IdIsNullable}) {
		t.Errorf("errors.Is on violation variant failed for %v", err)
	}
	if errors.Is(err, &ShapeError{Violation: IdNotLong}) {
		t.Error("errors.Is matched the wrong violation variant")
	}
}

func TestValidate_AnonymousMessage(t *testing.T) {
	d := customerDescriptor()
	d.QualifiedName = ""
	err := Validate(d)
	se := wantViolation(t, err, AnonymousType)
	if !strings.Contains(se.Error(), "anonymous") {
		t.Errorf("unexpected message: %v", se)
	}
}
