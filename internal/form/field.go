// Package form is the schema-driven settings form: field descriptors, the
// closed set of operations a form can submit, and the modal state machine
// that validates and dispatches them.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the semantic type of a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeList    FieldType = "list"
	TypeText    FieldType = "text"
)

// Field describes one editable value.
type Field struct {
	Name        string
	Value       any // string, float64 or bool
	Type        FieldType
	Secret      bool
	Required    bool
	Placeholder string
	Options     []string
}

// String renders Value the way a browser's toString would: numbers without
// a trailing ".0", booleans as true/false, lists joined by commas and nil
// as empty.
func (f *Field) String() string {
	return stringify(f.Value)
}

// Blank reports whether the trimmed string form of the value is empty. It
// is the required-field check for every type.
func (f *Field) Blank() bool {
	return strings.TrimSpace(f.String()) == ""
}

// Set assigns raw, coerced according to the field type. An empty raw value
// clears the field.
func (f *Field) Set(raw string) error {
	if raw == "" {
		f.Value = ""

		return nil
	}

	switch f.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", f.Name, raw)
		}

		f.Value = n
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", f.Name, raw)
		}

		f.Value = b
	case TypeList:
		if len(f.Options) > 0 && !f.HasOption(raw) {
			return fmt.Errorf("%s: %q is not one of %s", f.Name, raw, strings.Join(f.Options, ", "))
		}

		f.Value = raw
	default:
		f.Value = raw
	}

	return nil
}

// HasOption reports whether v is one of the enumerated options.
func (f *Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}

	return false
}

// Selectable reports whether the field renders as a selector.
func (f *Field) Selectable() bool {
	return f.Type == TypeList && len(f.Options) > 0
}

// SplitList splits the value on commas and trims every item.
func (f *Field) SplitList() []string {
	parts := strings.Split(f.String(), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
