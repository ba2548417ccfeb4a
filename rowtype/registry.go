// Package rowtype provides the central registry of validated entity descriptors.
package rowtype

import (
	"fmt"
	"reflect"
	"sync"
)

var globalRegistry = &Registry{
	byName: make(map[string]*TypeDescriptor),
	byType: make(map[reflect.Type]*TypeDescriptor),
}

// Registry maintains the mapping between Go struct types and their validated
// entity descriptors. Only types that passed shape validation are present, so
// downstream consumers (the store, tooling) can rely on every descriptor in
// here satisfying the structural contract.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*TypeDescriptor
	byType map[reflect.Type]*TypeDescriptor
}

// Register describes the struct type T, validates its shape, and adds it to
// the global registry. The primary constructor is synthesized from the field
// sequence; use RegisterWithConstructor to validate an explicit constructor
// function. Registering the same type again is a no-op.
func Register[T any]() error {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	d, err := Describe(t)
	if err != nil {
		return fmt.Errorf("registering %s: %w", typeLabel(t), err)
	}
	return register(t, d)
}

// RegisterWithConstructor is Register with an explicit primary constructor:
// ctor must be a func returning T (or *T), and its parameter types are
// validated against the declared field sequence.
func RegisterWithConstructor[T any](ctor any) error {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	d, err := DescribeWithConstructor(t, ctor)
	if err != nil {
		return fmt.Errorf("registering %s: %w", typeLabel(t), err)
	}
	return register(t, d)
}

// MustRegister calls Register and panics on error. Intended for use during
// application initialization, where an invalid entity type is a programming
// error that should abort startup.
func MustRegister[T any]() {
	if err := Register[T](); err != nil {
		panic(err)
	}
}

func register(t reflect.Type, d *TypeDescriptor) error {
	if err := Validate(d); err != nil {
		return fmt.Errorf("registering %s: %w", typeLabel(t), err)
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if existing, ok := globalRegistry.byName[d.QualifiedName]; ok {
		if prev, found := globalRegistry.byType[t]; !found || prev != existing {
			return fmt.Errorf("type name %q already registered to a different type", d.QualifiedName)
		}
	}

	globalRegistry.byName[d.QualifiedName] = d
	globalRegistry.byType[t] = d
	return nil
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() == "" {
		return "<anonymous>"
	}
	return t.Name()
}

// Lookup retrieves the descriptor registered under the qualified type name.
func Lookup(qualifiedName string) (*TypeDescriptor, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.byName[qualifiedName]
	return d, ok
}

// LookupType retrieves the descriptor registered for a Go reflect.Type.
func LookupType(t reflect.Type) (*TypeDescriptor, bool) {
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.byType[t]
	return d, ok
}

// RegisteredTypes returns the descriptors of all registered entity types.
func RegisteredTypes() []*TypeDescriptor {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	result := make([]*TypeDescriptor, 0, len(globalRegistry.byType))
	for _, d := range globalRegistry.byType {
		result = append(result, d)
	}
	return result
}

// ClearRegistry resets the global registry, removing all registered entity
// types. This is primarily used for testing purposes.
func ClearRegistry() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.byName = make(map[string]*TypeDescriptor)
	globalRegistry.byType = make(map[reflect.Type]*TypeDescriptor)
}
