// Package codec converts between Recording entities and the portable JSON
// document used for storage and import/export. Decoding migrates legacy
// schema versions and validates every element before anything is constructed.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"bptracker/internal/dateconv"
	"bptracker/internal/models"
)

// legacyDateField keyed elements of the oldest schema: an epoch-millisecond
// number instead of an ISO date string.
const legacyDateField = "dateTimeNumber"

type auditFieldsJSON struct {
	CreatedDateTime     string `json:"createdDateTime"`
	LastUpdatedDateTime string `json:"lastUpdatedDateTime"`
}

type recordingJSON struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	Systolic    int              `json:"systolic"`
	Diastolic   int              `json:"diastolic"`
	HeartRate   int              `json:"heartRate"`
	Notes       string           `json:"notes,omitempty"`
	AuditFields *auditFieldsJSON `json:"auditFields,omitempty"`
}

// Decode parses a JSON document into recordings.
//
// Elements still in the legacy schema are migrated to the current one first.
// Every element is then validated and every failure collected; if any element
// is invalid the whole decode fails with a *ValidationError carrying the
// itemized failures and no recordings are constructed. A document that is not
// a JSON array at all fails fast with a parse error instead.
func Decode(document string) ([]models.Recording, error) {
	var rawElements []json.RawMessage
	if err := json.Unmarshal([]byte(document), &rawElements); err != nil {
		return nil, fmt.Errorf("parse recordings document: %w", err)
	}

	values := make([]any, len(rawElements))
	objects := make([]map[string]any, len(rawElements))
	var invalid []ElementError

	for i, raw := range rawElements {
		if err := json.Unmarshal(raw, &values[i]); err != nil {
			return nil, fmt.Errorf("parse recordings document: %w", err)
		}
		obj, _ := values[i].(map[string]any)
		migrateLegacy(obj)
		objects[i] = obj

		if errs := validateElement(values[i], obj); len(errs) > 0 {
			// Input keeps the original, pre-migration JSON.
			invalid = append(invalid, ElementError{Input: raw, Fields: errs})
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Elements: invalid}
	}

	recordings := make([]models.Recording, 0, len(objects))
	for _, obj := range objects {
		recordings = append(recordings, buildRecording(obj))
	}
	return recordings, nil
}

// migrateLegacy upgrades one element of the oldest schema in place: when no
// date is present but a numeric epoch-millisecond field is, the modern ISO
// date is derived from it. Everything else is left untouched.
func migrateLegacy(obj map[string]any) {
	if obj == nil || truthy(obj["date"]) {
		return
	}
	num := obj[legacyDateField]
	if !truthy(num) {
		return
	}
	ms, ok := num.(float64)
	if !ok {
		return
	}
	obj["date"] = dateconv.FormatISO(time.UnixMilli(int64(ms)))
}

// buildRecording turns one validated element into an entity, carrying over
// the id and audit fields when the document supplied usable ones. Ids must
// survive the store round trip so that a later process can still address the
// same recording; only elements without one get a fresh id.
func buildRecording(obj map[string]any) models.Recording {
	date, _ := dateconv.ParseDate(obj["date"].(string))
	systolic := int(obj["systolic"].(float64))
	diastolic := int(obj["diastolic"].(float64))
	heartRate := int(obj["heartRate"].(float64))
	notes, _ := obj["notes"].(string)

	var rec models.Recording
	if audit, ok := auditFromObject(obj); ok {
		rec = models.NewRecordingWithAudit(date, systolic, diastolic, heartRate, notes, audit)
	} else {
		rec = models.NewRecording(date, systolic, diastolic, heartRate, notes)
	}
	if id, ok := obj["id"].(string); ok && id != "" {
		rec.ID = id
	}
	return rec
}

func auditFromObject(obj map[string]any) (models.AuditFields, bool) {
	raw, ok := obj["auditFields"].(map[string]any)
	if !ok {
		return models.AuditFields{}, false
	}
	createdStr, _ := raw["createdDateTime"].(string)
	updatedStr, _ := raw["lastUpdatedDateTime"].(string)
	created, err1 := dateconv.ParseDate(createdStr)
	updated, err2 := dateconv.ParseDate(updatedStr)
	if err1 != nil || err2 != nil {
		return models.AuditFields{}, false
	}
	return models.AuditFields{CreatedDateTime: created, LastUpdatedDateTime: updated}, true
}

// Encode renders recordings as the current wire schema, one JSON array with
// ISO date strings. It is the exact inverse of Decode for current-schema
// documents.
func Encode(recordings []models.Recording) (string, error) {
	wire := make([]recordingJSON, 0, len(recordings))
	for _, r := range recordings {
		wire = append(wire, recordingJSON{
			ID:        r.ID,
			Date:      dateconv.FormatISO(r.Date),
			Systolic:  r.Systolic,
			Diastolic: r.Diastolic,
			HeartRate: r.HeartRate,
			Notes:     r.Notes,
			AuditFields: &auditFieldsJSON{
				CreatedDateTime:     dateconv.FormatISO(r.AuditFields.CreatedDateTime),
				LastUpdatedDateTime: dateconv.FormatISO(r.AuditFields.LastUpdatedDateTime),
			},
		})
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode recordings document: %w", err)
	}
	return string(b), nil
}
