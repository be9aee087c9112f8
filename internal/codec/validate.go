package codec

import (
	"fmt"

	"bptracker/internal/dateconv"
)

const fieldMissingMessage = "field is missing"

func invalidTypeMessage(expected, actual string) string {
	return fmt.Sprintf("invalid type: expected `%s`, got `%s`", expected, actual)
}

// jsonTypeName names the JSON type of a decoded value for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// truthy mirrors the loose presence semantics of the historical importer:
// absent values, null, false, zero numbers and empty strings all count as
// missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

var vitalFields = []string{"systolic", "diastolic", "heartRate"}

// validateElement runs every applicable check on one migrated element and
// returns all failures; checks never short-circuit each other. value is the
// element as decoded, fields is its object form (nil when the element is not
// an object, which reports every required field as missing).
func validateElement(value any, fields map[string]any) []FieldError {
	var errs []FieldError

	if fields == nil {
		errs = append(errs, FieldError{
			Field:   "jsonObject",
			Reason:  InvalidType,
			Message: invalidTypeMessage("object", jsonTypeName(value)),
		})
	}

	date := fields["date"]
	switch {
	case !truthy(date):
		errs = append(errs, FieldError{Field: "date", Reason: FieldMissing, Message: fieldMissingMessage})
	default:
		s, ok := date.(string)
		if !ok {
			errs = append(errs, FieldError{Field: "date", Reason: InvalidType, Message: invalidTypeMessage("Date", jsonTypeName(date))})
		} else if _, err := dateconv.ParseDate(s); err != nil {
			errs = append(errs, FieldError{Field: "date", Reason: InvalidType, Message: invalidTypeMessage("Date", "invalid date")})
		}
	}

	for _, name := range vitalFields {
		v := fields[name]
		switch {
		case !truthy(v):
			errs = append(errs, FieldError{Field: name, Reason: FieldMissing, Message: fieldMissingMessage})
		default:
			if _, ok := v.(float64); !ok {
				errs = append(errs, FieldError{Field: name, Reason: InvalidType, Message: invalidTypeMessage("number", jsonTypeName(v))})
			}
		}
	}

	if notes := fields["notes"]; truthy(notes) {
		if _, ok := notes.(string); !ok {
			errs = append(errs, FieldError{Field: "notes", Reason: InvalidType, Message: invalidTypeMessage("string", jsonTypeName(notes))})
		}
	}

	return errs
}
