// Package validate provides field-level request validation errors.
package validate

import "strings"

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Required flags empty (or whitespace-only) string fields.
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

// NonEmpty flags empty slices.
func NonEmpty(field string, n int) *ErrField {
	if n == 0 {
		return &ErrField{Field: field, Msg: "must not be empty"}
	}
	return nil
}
