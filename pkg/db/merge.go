package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	// ErrNotAModel is returned when an entry is not a pointer to a model struct
	ErrNotAModel = errors.New("entry must be a non-nil pointer to a model struct")
	// ErrFieldType is returned when a form value cannot be stored in its field
	ErrFieldType = errors.New("form value does not fit field")
)

// change is a single field assigned by a merge
type change struct {
	field    *schema.Field
	relation *schema.Relationship
	previous reflect.Value
}

// Merge copies the form's values onto entry, field by field, assigning only
// where the form value differs from the current one. Collections of related
// models are compared as sets of primary keys. Form fields that name no
// field of the model are ignored, as are primary keys.
//
// It returns the Go names of the fields that were assigned; merging a form
// that matches the entry returns none.
func (d *Database) Merge(entry any, form Form) ([]string, error) {
	changes, err := d.merge(context.Background(), entry, form)
	return changeNames(changes), err
}

// UpdateFromForm merges form onto entry and persists exactly the changed
// columns and collections in one transaction. Nothing is written when the
// form matches the entry. If the transaction fails, entry is restored to the
// values it had before the merge.
func (d *Database) UpdateFromForm(ctx context.Context, entry any, form Form) ([]string, error) {
	conn, err := d.WithContext(ctx)
	if err != nil {
		return nil, err
	}

	changes, err := d.merge(ctx, entry, form)
	if err != nil || len(changes) == 0 {
		return changeNames(changes), err
	}

	var (
		columns   []string
		relations []*schema.Relationship
	)
	for _, c := range changes {
		if c.relation != nil {
			relations = append(relations, c.relation)
		} else {
			columns = append(columns, c.field.DBName)
		}
	}

	rv := reflect.ValueOf(entry).Elem()
	err = conn.Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			if err := tx.Model(entry).Select(columns).Updates(entry).Error; err != nil {
				return err
			}
		}
		for _, rel := range relations {
			value := rv.FieldByIndex(rel.Field.StructField.Index).Interface()
			if err := tx.Model(entry).Association(rel.Name).Replace(value); err != nil {
				return fmt.Errorf("failed to replace %s: %w", rel.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		restore(rv, changes)
		return nil, err
	}
	return changeNames(changes), nil
}

func (d *Database) schemaOf(entry any) (*schema.Schema, error) {
	var namer schema.Namer = schema.NamingStrategy{}
	if conn := d.DB(); conn != nil && conn.NamingStrategy != nil {
		namer = conn.NamingStrategy
	}
	return schema.Parse(entry, &d.schemas, namer)
}

func (d *Database) merge(ctx context.Context, entry any, form Form) ([]change, error) {
	rv := reflect.ValueOf(entry)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, ErrNotAModel
	}
	rv = rv.Elem()

	sch, err := d.schemaOf(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	fields := form.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []change
	for _, name := range names {
		field := lookUpField(sch, name)
		if field == nil || field.PrimaryKey {
			continue
		}

		current := rv.FieldByIndex(field.StructField.Index)
		data := fields[name].Data()

		if rel := collection(sch, field); rel != nil {
			value, err := convertCollection(data, field.FieldType)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field.Name, err)
			}
			if sameSet(ctx, rel.FieldSchema.PrioritizedPrimaryField, current, value) {
				continue
			}
			previous := snapshot(current)
			current.Set(value)
			changes = append(changes, change{field: field, relation: rel, previous: previous})
			continue
		}

		if field.DBName == "" || !field.Updatable {
			continue
		}

		value, err := convertValue(data, field.FieldType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field.Name, err)
		}
		if equal(current, value) {
			continue
		}
		previous := snapshot(current)
		current.Set(value)
		changes = append(changes, change{field: field, previous: previous})
	}
	return changes, nil
}

func snapshot(v reflect.Value) reflect.Value {
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// restore undoes the assignments of a merge on rv
func restore(rv reflect.Value, changes []change) {
	for _, c := range changes {
		rv.FieldByIndex(c.field.StructField.Index).Set(c.previous)
	}
}

func changeNames(changes []change) []string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.field.Name)
	}
	return names
}

func lookUpField(sch *schema.Schema, name string) *schema.Field {
	if f := sch.LookUpField(name); f != nil {
		return f
	}
	want := normalizeName(name)
	for _, f := range sch.Fields {
		if normalizeName(f.Name) == want {
			return f
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// collection returns the relationship behind a to-many field
func collection(sch *schema.Schema, field *schema.Field) *schema.Relationship {
	rel, ok := sch.Relationships.Relations[field.Name]
	if !ok || field.FieldType.Kind() != reflect.Slice {
		return nil
	}
	if rel.Type != schema.Many2Many && rel.Type != schema.HasMany {
		return nil
	}
	if rel.FieldSchema == nil || rel.FieldSchema.PrioritizedPrimaryField == nil {
		return nil
	}
	return rel
}

func convertValue(data any, t reflect.Type) (reflect.Value, error) {
	if data == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(data)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case t.Kind() == reflect.Pointer && v.Type().AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, nil
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Type().AssignableTo(t):
		return v.Elem(), nil
	case sameClass(v.Kind(), t.Kind()) && v.Type().ConvertibleTo(t):
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrFieldType, data, t)
}

func convertCollection(data any, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeSlice(t, 0, 0)
	if data == nil {
		return out, nil
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrFieldType, data, t)
	}
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		if e.Kind() == reflect.Interface {
			e = e.Elem()
		}
		if !e.IsValid() {
			continue
		}
		ce, err := convertValue(e.Interface(), t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, ce)
	}
	return out, nil
}

func sameClass(a, b reflect.Kind) bool {
	class := func(k reflect.Kind) int {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return 1
		case reflect.String:
			return 2
		case reflect.Bool:
			return 3
		}
		return 0
	}
	return class(a) != 0 && class(a) == class(b)
}

func equal(current, value reflect.Value) bool {
	if a, ok := current.Interface().(time.Time); ok {
		if b, ok := value.Interface().(time.Time); ok {
			return a.Equal(b)
		}
	}
	return reflect.DeepEqual(current.Interface(), value.Interface())
}

// sameSet compares two collections of models by primary key. Unsaved
// members make the collections differ.
func sameSet(ctx context.Context, pk *schema.Field, a, b reflect.Value) bool {
	ka, ok := keySet(ctx, pk, a)
	if !ok {
		return false
	}
	kb, ok := keySet(ctx, pk, b)
	if !ok || len(ka) != len(kb) {
		return false
	}
	for k := range ka {
		if _, ok := kb[k]; !ok {
			return false
		}
	}
	return true
}

func keySet(ctx context.Context, pk *schema.Field, v reflect.Value) (map[string]struct{}, bool) {
	set := make(map[string]struct{}, v.Len())
	for i := 0; i < v.Len(); i++ {
		e := reflect.Indirect(v.Index(i))
		if !e.IsValid() {
			return nil, false
		}
		key, zero := pk.ValueOf(ctx, e)
		if zero {
			return nil, false
		}
		set[fmt.Sprint(key)] = struct{}{}
	}
	return set, true
}
