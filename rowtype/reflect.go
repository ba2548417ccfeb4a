// Package rowtype provides the reflection adapter that builds type descriptors
// from Go struct types.
package rowtype

import (
	"fmt"
	"go/token"
	"math/big"
	"reflect"
	"strings"
	"time"
)

var (
	entityIface    = reflect.TypeOf((*Entity)(nil)).Elem()
	baseEntityType = reflect.TypeOf(BaseEntity{})
	timeType       = reflect.TypeOf(time.Time{})
	ratType        = reflect.TypeOf(big.Rat{})
)

// Describe builds a TypeDescriptor for the given struct type. The primary
// constructor is synthesized from the declared field sequence, which is how a
// plain Go struct is constructed; use DescribeWithConstructor to describe an
// explicit constructor function instead.
//
// Descriptors capture what Go reflection exposes: visibility from export
// status, nullability from pointer types, the supertype set from embedded
// marker types. Modifiers Go cannot express (abstract, lateinit, companion)
// are reported as absent.
func Describe(t reflect.Type) (*TypeDescriptor, error) {
	d, err := describeType(t)
	if err != nil {
		return nil, err
	}
	params := make([]TypeRef, len(d.Fields))
	for i, f := range d.Fields {
		params[i] = f.Type
	}
	d.Constructor = &ConstructorDescriptor{Params: params, Visibility: Public}
	return d, nil
}

// DescribeWithConstructor builds a TypeDescriptor for the given struct type,
// describing the primary constructor from the supplied constructor function.
// ctor must be a func whose single return value is the struct type (or a
// pointer to it); its parameter types become the constructor parameter
// sequence. The function's visibility follows the export status of the types
// it constructs, so it is reported as public.
func DescribeWithConstructor(t reflect.Type, ctor any) (*TypeDescriptor, error) {
	d, err := describeType(t)
	if err != nil {
		return nil, err
	}
	c, err := describeConstructor(reflect.TypeOf(ctor), t)
	if err != nil {
		return nil, fmt.Errorf("describing constructor for %s: %w", t.Name(), err)
	}
	d.Constructor = c
	return d, nil
}

func describeType(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("rowtype: nil type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("rowtype: expected struct, got %s", t.Kind())
	}

	d := &TypeDescriptor{
		QualifiedName: qualifiedName(t),
		IsValueType:   true,
		Visibility:    typeVisibility(t),
	}
	if base := t.Name(); strings.ContainsRune(base, '[') {
		d.TypeParams = typeParamsOf(base)
	}
	d.Supertypes = supertypesOf(t)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}

		tag, err := ParseTag(field.Tag.Get("rowtype"))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if tag.Skip {
			continue
		}

		name := tag.Name
		if name == "" {
			name = defaultFieldName(field.Name)
		}

		vis := Public
		if !field.IsExported() {
			vis = Private
		}

		d.Fields = append(d.Fields, FieldDescriptor{
			Name:       name,
			Type:       typeRefOf(field.Type, tag.Kind),
			Visibility: vis,
			FieldIndex: i,
		})
	}

	return d, nil
}

func describeConstructor(ft reflect.Type, target reflect.Type) (*ConstructorDescriptor, error) {
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function")
	}
	if ft.NumOut() != 1 {
		return nil, fmt.Errorf("constructor must return exactly one value")
	}
	out := ft.Out(0)
	if out.Kind() == reflect.Ptr {
		out = out.Elem()
	}
	if out != target {
		return nil, fmt.Errorf("constructor returns %s, want %s", out, target)
	}

	c := &ConstructorDescriptor{Visibility: Public}
	for i := 0; i < ft.NumIn(); i++ {
		c.Params = append(c.Params, typeRefOf(ft.In(i), KindInvalid))
	}
	return c, nil
}

// qualifiedName returns the package-qualified type name, or "" for anonymous
// and local struct types.
func qualifiedName(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}
	return t.String()
}

func typeVisibility(t reflect.Type) Visibility {
	if token.IsExported(t.Name()) {
		return Public
	}
	return Private
}

// typeParamsOf extracts the type-argument list from an instantiated generic
// type's name, e.g. "Box[int]" yields ["int"].
func typeParamsOf(name string) []string {
	open := strings.IndexByte(name, '[')
	end := strings.LastIndexByte(name, ']')
	if open < 0 || end <= open {
		return nil
	}
	params := strings.Split(name[open+1:end], ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return params
}

// supertypesOf derives the declared supertype set from embedded fields: the
// universal root, the entity marker if BaseEntity is embedded, and the name
// of any other embedded type. A conforming entity yields exactly the first two.
func supertypesOf(t reflect.Type) []string {
	supers := []string{SupertypeRoot}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		if field.Type == baseEntityType {
			supers = append(supers, SupertypeEntity)
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		supers = append(supers, ft.String())
	}
	return supers
}

// typeRefOf maps a Go type to a TypeRef. Pointer types become nullable refs.
// Struct types satisfying the Entity marker become entity references; other
// types map onto the allowed value kinds, or KindInvalid when no mapping exists.
func typeRefOf(t reflect.Type, override ValueKind) TypeRef {
	ref := TypeRef{}
	if t.Kind() == reflect.Ptr {
		ref.Nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != baseEntityType &&
		(t.Implements(entityIface) || reflect.PointerTo(t).Implements(entityIface)) {
		ref.Entity = true
		ref.Kind = KindEntity
		ref.Name = t.String()
		return ref
	}

	k := kindOf(t)
	if override != KindInvalid {
		k = override
	}
	ref.Kind = k
	ref.Name = k.String()
	if k == KindInvalid {
		// Preserve the Go type name so the diagnostic can point at it.
		ref.Name = t.String()
	}
	return ref
}

func kindOf(t reflect.Type) ValueKind {
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int64:
		return KindLong
	case reflect.Int, reflect.Int32:
		return KindInt
	case reflect.Float64:
		return KindDouble
	case reflect.Float32:
		return KindFloat
	case reflect.Struct:
		switch t {
		case timeType:
			return KindDateTime
		case ratType:
			return KindDecimal
		}
	}
	return KindInvalid
}

// defaultFieldName derives the declared field name from a Go struct field
// name: all-caps names lower entirely (ID → id), otherwise the first rune
// lowers (Balance → balance).
func defaultFieldName(name string) string {
	if name == strings.ToUpper(name) {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[:1]) + name[1:]
}
