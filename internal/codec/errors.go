package codec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reason classifies a single field-level validation failure.
type Reason string

const (
	FieldMissing Reason = "FIELD_MISSING"
	InvalidType  Reason = "INVALID_TYPE"
	InvalidValue Reason = "INVALID_VALUE"
)

// FieldError is one failed check on one field of an imported element.
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// ElementError bundles every field failure of a single imported element with
// that element's original, pre-migration JSON.
type ElementError struct {
	Input  json.RawMessage `json:"input"`
	Fields []FieldError    `json:"fieldErrors"`
}

// ValidationError aggregates the failures of every offending element in an
// imported document. When it is returned the import is rejected wholesale and
// no recordings are constructed.
type ValidationError struct {
	Elements []ElementError `json:"elements"`
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid recording(s) in imported document", len(e.Elements))
	for _, el := range e.Elements {
		for _, f := range el.Fields {
			fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
		}
	}
	return b.String()
}
