// Package encoding provides file helpers and structured output encoders.
package encoding

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Format is a structured output format selected with -o/--output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var _ pflag.Value = (*Format)(nil)

// String implements pflag.Value.
func (f *Format) String() string {
	if *f == "" {
		return string(FormatTable)
	}

	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	switch Format(strings.ToLower(s)) {
	case FormatTable, FormatJSON, FormatYAML:
		*f = Format(strings.ToLower(s))

		return nil
	}

	return fmt.Errorf("invalid output format %q (table, json, yaml)", s)
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

// Structured reports whether the format bypasses table rendering.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Encode writes v to w in the given structured format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(toYAMLValue(v)); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// toYAMLValue routes v through JSON so yaml output honours json tags and
// custom JSON marshalers.
func toYAMLValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}

	return out
}
