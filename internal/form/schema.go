package form

import (
	"fmt"
)

// Schema is an ordered set of fields.
type Schema struct {
	fields []*Field
	index  map[string]int
}

// NewSchema builds a schema keeping the order fields are given in. A later
// field with a duplicate name replaces the earlier one.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		s.Add(f)
	}

	return s
}

// Add appends f, or replaces the field with the same name.
func (s *Schema) Add(f Field) {
	if f.Type == "" {
		f.Type = TypeString
	}

	if f.Value == nil {
		f.Value = ""
	}

	f.Options = append([]string(nil), f.Options...)

	if i, ok := s.index[f.Name]; ok {
		s.fields[i] = &f

		return
	}

	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, &f)
}

// Fields returns the fields in order. The pointers are live.
func (s *Schema) Fields() []*Field {
	return s.fields
}

func (s *Schema) Len() int {
	return len(s.fields)
}

// Get returns the named field.
func (s *Schema) Get(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}

	return s.fields[i], true
}

// Value returns the named field's value, or "" when absent.
func (s *Schema) Value(name string) any {
	f, ok := s.Get(name)
	if !ok {
		return ""
	}

	return f.Value
}

// Set assigns a raw value to the named field.
func (s *Schema) Set(name, raw string) error {
	f, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return f.Set(raw)
}

// Clone returns a deep copy; the form edits a copy so a cancelled edit
// leaves the caller's schema untouched.
func (s *Schema) Clone() *Schema {
	c := &Schema{index: make(map[string]int, len(s.fields))}
	for _, f := range s.fields {
		c.Add(*f)
	}

	return c
}

// Values returns name → value for every field.
func (s *Schema) Values() map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = f.Value
	}

	return out
}

// Validate returns a *MissingFieldError for the first required field whose
// value is blank. labels optionally renames fields in the message.
func (s *Schema) Validate(labels map[string]string) error {
	for _, f := range s.fields {
		if !f.Required || !f.Blank() {
			continue
		}

		label := f.Name
		if l, ok := labels[f.Name]; ok {
			label = l
		}

		return &MissingFieldError{Field: f.Name, Label: label}
	}

	return nil
}
