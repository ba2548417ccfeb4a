// Package store persists registered entity types in an embedded SQLite
// database. Only types present in the rowtype registry, and hence already
// shape-validated, are accepted; the store derives its tables and column
// types entirely from their descriptors.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/evanfuller/go-rowtype/rowtype"
)

// Store wraps a SQLite database holding rows for registered entity types.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path. Use
// ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// tableName derives the SQL table name from a descriptor: the unqualified
// type name in snake_case, e.g. "AuditLog" → "audit_log".
func tableName(d *rowtype.TypeDescriptor) string {
	return toSnakeCase(d.BaseName())
}

// toSnakeCase converts a PascalCase type name to snake_case. Dashes from
// definition-file names become underscores.
func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteByte(byte(r - 'A' + 'a'))
		case r == '-':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnType maps a descriptor type ref to a SQLite column type. Entity
// references are stored as the referenced row's integer identifier.
func columnType(ref rowtype.TypeRef) string {
	if ref.Entity {
		return "INTEGER"
	}
	switch ref.Kind {
	case rowtype.KindLong, rowtype.KindInt, rowtype.KindBool:
		return "INTEGER"
	case rowtype.KindDouble, rowtype.KindFloat:
		return "REAL"
	default:
		// string, decimal, date, time, datetime
		return "TEXT"
	}
}

// createTableSQL builds the CREATE TABLE statement for a validated descriptor.
// The identifier field, last in declaration order, becomes the INTEGER
// PRIMARY KEY so SQLite assigns row identifiers on insert.
func createTableSQL(d *rowtype.TypeDescriptor) string {
	cols := make([]string, 0, len(d.Fields))
	for i, f := range d.Fields {
		if i == len(d.Fields)-1 {
			cols = append(cols, fmt.Sprintf("%q INTEGER PRIMARY KEY", f.Name))
			continue
		}
		col := fmt.Sprintf("%q %s", f.Name, columnType(f.Type))
		if !f.Type.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", tableName(d), strings.Join(cols, ", "))
}
