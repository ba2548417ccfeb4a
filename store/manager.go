// Package store provides generic row operations for registered entity types.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/evanfuller/go-rowtype/rowtype"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Manager provides row operations (insert, get, delete) for one registered
// entity type T. Construction panics for unregistered types: reaching the
// store with an unvalidated type is a programming error.
type Manager[T any] struct {
	store  *Store
	d      *rowtype.TypeDescriptor
	goType reflect.Type
}

// NewManager creates a Manager for the entity type T. T must be a struct
// registered via rowtype.Register[T]().
func NewManager[T any](s *Store) *Manager[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	d, ok := rowtype.LookupType(t)
	if !ok {
		panic(fmt.Sprintf("store: type %s is not registered; call rowtype.Register[%s]() first", t.Name(), t.Name()))
	}

	return &Manager[T]{store: s, d: d, goType: t}
}

// Migrate creates the table for T if it does not exist.
func (m *Manager[T]) Migrate(ctx context.Context) error {
	if _, err := m.store.db.ExecContext(ctx, createTableSQL(m.d)); err != nil {
		return fmt.Errorf("migrate %s: %w", m.d.QualifiedName, err)
	}
	return nil
}

// Insert persists one entity instance and assigns its generated identifier to
// the struct's identifier field. Nested entity references are stored as the
// referenced instance's identifier; the referenced row is not written.
func (m *Manager[T]) Insert(ctx context.Context, e *T) (int64, error) {
	v := reflect.ValueOf(e).Elem()
	n := len(m.d.Fields)

	cols := make([]string, 0, n-1)
	marks := make([]string, 0, n-1)
	args := make([]any, 0, n-1)
	for _, f := range m.d.Fields[:n-1] {
		arg, err := columnValue(v.Field(f.FieldIndex), f.Type)
		if err != nil {
			return 0, fmt.Errorf("insert %s.%s: %w", m.d.QualifiedName, f.Name, err)
		}
		cols = append(cols, fmt.Sprintf("%q", f.Name))
		marks = append(marks, "?")
		args = append(args, arg)
	}

	query := fmt.Sprintf("INSERT INTO %q DEFAULT VALUES", tableName(m.d))
	if len(cols) > 0 {
		query = fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
			tableName(m.d), strings.Join(cols, ", "), strings.Join(marks, ", "))
	}

	res, err := m.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", m.d.QualifiedName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", m.d.QualifiedName, err)
	}

	idField := m.d.Fields[n-1]
	v.Field(idField.FieldIndex).SetInt(id)
	return id, nil
}

// Get loads the entity with the given identifier. Nested entity references
// come back as instances carrying only their identifier; load them through
// their own manager when the full row is needed.
func (m *Manager[T]) Get(ctx context.Context, id int64) (*T, error) {
	cols := make([]string, len(m.d.Fields))
	bufs := make([]any, len(m.d.Fields))
	for i, f := range m.d.Fields {
		cols[i] = fmt.Sprintf("%q", f.Name)
		bufs[i] = bufferFor(f.Type)
	}

	query := fmt.Sprintf("SELECT %s FROM %q WHERE %q = ?",
		strings.Join(cols, ", "), tableName(m.d), rowtype.IDFieldName)
	err := m.store.db.QueryRowContext(ctx, query, id).Scan(bufs...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{TypeName: m.d.QualifiedName, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", m.d.QualifiedName, err)
	}

	out := new(T)
	v := reflect.ValueOf(out).Elem()
	for i, f := range m.d.Fields {
		if err := setField(v.Field(f.FieldIndex), f.Type, bufs[i]); err != nil {
			return nil, fmt.Errorf("get %s.%s: %w", m.d.QualifiedName, f.Name, err)
		}
	}
	return out, nil
}

// Delete removes the row with the given identifier.
func (m *Manager[T]) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %q WHERE %q = ?", tableName(m.d), rowtype.IDFieldName)
	res, err := m.store.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.d.QualifiedName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.d.QualifiedName, err)
	}
	if n == 0 {
		return &NotFoundError{TypeName: m.d.QualifiedName, ID: id}
	}
	return nil
}

// columnValue converts one struct field value into its SQL column value.
func columnValue(v reflect.Value, ref rowtype.TypeRef) (any, error) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	if ref.Entity {
		return referencedID(v)
	}

	switch ref.Kind {
	case rowtype.KindString:
		return v.String(), nil
	case rowtype.KindLong, rowtype.KindInt:
		return v.Int(), nil
	case rowtype.KindBool:
		return v.Bool(), nil
	case rowtype.KindDouble, rowtype.KindFloat:
		return v.Float(), nil
	case rowtype.KindDecimal:
		r, ok := v.Interface().(big.Rat)
		if !ok {
			return nil, fmt.Errorf("decimal field is %s, want big.Rat", v.Type())
		}
		return r.RatString(), nil
	case rowtype.KindDate, rowtype.KindTime, rowtype.KindDateTime:
		t, ok := v.Interface().(time.Time)
		if !ok {
			return nil, fmt.Errorf("temporal field is %s, want time.Time", v.Type())
		}
		switch ref.Kind {
		case rowtype.KindDate:
			return t.Format(dateLayout), nil
		case rowtype.KindTime:
			return t.Format(timeLayout), nil
		default:
			return t.Format(time.RFC3339Nano), nil
		}
	}
	return nil, fmt.Errorf("unsupported column kind %s", ref.Kind)
}

// referencedID reads the identifier of a nested entity value: the last
// declared field of its own registered descriptor.
func referencedID(v reflect.Value) (any, error) {
	d, ok := rowtype.LookupType(v.Type())
	if !ok {
		return nil, &NotRegisteredError{TypeName: v.Type().String()}
	}
	idField, _ := d.IDField()
	return v.Field(idField.FieldIndex).Int(), nil
}

// bufferFor returns a scan destination for one column.
func bufferFor(ref rowtype.TypeRef) any {
	if ref.Entity {
		return &sql.NullInt64{}
	}
	switch ref.Kind {
	case rowtype.KindLong, rowtype.KindInt, rowtype.KindBool:
		return &sql.NullInt64{}
	case rowtype.KindDouble, rowtype.KindFloat:
		return &sql.NullFloat64{}
	default:
		return &sql.NullString{}
	}
}

func bufferValid(buf any) bool {
	switch b := buf.(type) {
	case *sql.NullString:
		return b.Valid
	case *sql.NullInt64:
		return b.Valid
	case *sql.NullFloat64:
		return b.Valid
	}
	return false
}

// setField writes one scanned column value back into a struct field.
func setField(fv reflect.Value, ref rowtype.TypeRef, buf any) error {
	if fv.Kind() == reflect.Ptr {
		if !bufferValid(buf) {
			return nil
		}
		fv.Set(reflect.New(fv.Type().Elem()))
		fv = fv.Elem()
	}

	if ref.Entity {
		return setReferencedID(fv, buf.(*sql.NullInt64))
	}

	switch ref.Kind {
	case rowtype.KindString:
		fv.SetString(buf.(*sql.NullString).String)
	case rowtype.KindLong, rowtype.KindInt:
		fv.SetInt(buf.(*sql.NullInt64).Int64)
	case rowtype.KindBool:
		fv.SetBool(buf.(*sql.NullInt64).Int64 != 0)
	case rowtype.KindDouble, rowtype.KindFloat:
		fv.SetFloat(buf.(*sql.NullFloat64).Float64)
	case rowtype.KindDecimal:
		s := buf.(*sql.NullString).String
		r := new(big.Rat)
		if _, ok := r.SetString(s); !ok {
			return fmt.Errorf("invalid decimal %q", s)
		}
		fv.Set(reflect.ValueOf(*r))
	case rowtype.KindDate, rowtype.KindTime, rowtype.KindDateTime:
		s := buf.(*sql.NullString).String
		layout := time.RFC3339Nano
		switch ref.Kind {
		case rowtype.KindDate:
			layout = dateLayout
		case rowtype.KindTime:
			layout = timeLayout
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", ref.Kind, s, err)
		}
		fv.Set(reflect.ValueOf(t))
	default:
		return fmt.Errorf("unsupported column kind %s", ref.Kind)
	}
	return nil
}

// setReferencedID populates a nested entity field with just its identifier.
func setReferencedID(fv reflect.Value, buf *sql.NullInt64) error {
	d, ok := rowtype.LookupType(fv.Type())
	if !ok {
		return &NotRegisteredError{TypeName: fv.Type().String()}
	}
	idField, _ := d.IDField()
	fv.Field(idField.FieldIndex).SetInt(buf.Int64)
	return nil
}
