package config

import (
	"fmt"
	"strings"
)

// FieldError describes one violated configuration field.
type FieldError struct {
	Field  string `json:"field" yaml:"field"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s=%q: %s", f.Field, f.Value, f.Reason)
}

// ValidationError reports every violated field from one Collect pass.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface, listing all violations.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid configuration"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

func (e *ValidationError) addf(field, value, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	})
}
