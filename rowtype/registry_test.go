package rowtype

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
)

func TestRegister(t *testing.T) {
	ClearRegistry()

	if err := Register[Customer](); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, ok := Lookup("rowtype.Customer")
	if !ok {
		t.Fatal("expected to find rowtype.Customer by name")
	}
	if info.QualifiedName != "rowtype.Customer" {
		t.Errorf("QualifiedName: got %q, want %q", info.QualifiedName, "rowtype.Customer")
	}

	info2, ok := LookupType(reflect.TypeOf(Customer{}))
	if !ok {
		t.Fatal("expected to find Customer by type")
	}
	if info2 != info {
		t.Error("expected same descriptor from both lookups")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ClearRegistry()

	if err := Register[Customer](); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Re-registering the same type is idempotent.
	if err := Register[Customer](); err != nil {
		t.Fatalf("duplicate register: %v", err)
	}
}

func TestRegister_InvalidShape(t *testing.T) {
	ClearRegistry()

	err := Register[NullableID]()
	if err == nil {
		t.Fatal("expected error for nullable identifier")
	}
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped *ShapeError, got %T: %v", err, err)
	}
	if se.Violation != IdIsNullable {
		t.Errorf("Violation: got %s, want %s", se.Violation, IdIsNullable)
	}

	// Rejected types are not registered.
	if _, ok := LookupType(reflect.TypeOf(NullableID{})); ok {
		t.Error("invalid type must not appear in the registry")
	}
}

func TestRegisterWithConstructor(t *testing.T) {
	ClearRegistry()

	err := RegisterWithConstructor[Customer](func(name string, balance big.Rat, id int64) Customer {
		return Customer{Name: name, Balance: balance, ID: id}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = RegisterWithConstructor[Order](func(total big.Rat) Order {
		return Order{Total: total}
	})
	if err == nil {
		t.Fatal("expected error for constructor not matching the field sequence")
	}
}

func TestMustRegister_Panics(t *testing.T) {
	ClearRegistry()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid entity type")
		}
	}()
	MustRegister[NullableID]()
}

func TestRegisteredTypes(t *testing.T) {
	ClearRegistry()

	MustRegister[Customer]()
	MustRegister[Order]()

	types := RegisteredTypes()
	if len(types) != 2 {
		t.Errorf("got %d registered types, want 2", len(types))
	}
}
