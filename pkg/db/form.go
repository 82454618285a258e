package db

// Field is a single form field
type Field interface {
	Data() any
}

// Form is a set of named fields. Names match either the Go field name
// (case-insensitively, underscores ignored) or the column name of a model.
type Form interface {
	Fields() map[string]Field
}

// Value is a Field holding a fixed value
type Value struct {
	V any
}

// Data returns the held value
func (v Value) Data() any {
	return v.V
}

// Values is a map-backed Form
type Values map[string]any

// Fields returns one Field per map entry
func (v Values) Fields() map[string]Field {
	fields := make(map[string]Field, len(v))
	for name, value := range v {
		fields[name] = Value{V: value}
	}
	return fields
}
