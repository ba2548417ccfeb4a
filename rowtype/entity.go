// Package rowtype provides the marker base type for persisted entities.
package rowtype

// Entity is the marker interface for persisted entity types. Structs intended
// as entities must satisfy it, typically by embedding BaseEntity, and must
// pass shape validation before the row mapper will accept them.
type Entity interface {
	entity()
}

// BaseEntity is the embeddable marker base for all entity structs. It carries
// no state of its own: the identifier is an ordinary declared field, required
// to be the last one.
//
// Example usage:
//
//	type Customer struct {
//	    rowtype.BaseEntity
//	    Name    string   `rowtype:"name"`
//	    Balance big.Rat  `rowtype:"balance,decimal"`
//	    ID      int64    `rowtype:"id"`
//	}
type BaseEntity struct{}

func (BaseEntity) entity() {}
