package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bptracker/internal/dateconv"
)

// AuditFields track when a recording was created and last changed.
// CreatedDateTime is set once at construction and never moves.
type AuditFields struct {
	CreatedDateTime     time.Time `json:"createdDateTime"`
	LastUpdatedDateTime time.Time `json:"lastUpdatedDateTime"`
}

// NewAuditFields stamps both timestamps with the current time, truncated to
// millisecond precision so values survive a wire round trip unchanged.
func NewAuditFields() AuditFields {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return AuditFields{CreatedDateTime: now, LastUpdatedDateTime: now}
}

// Recording is one blood-pressure reading.
type Recording struct {
	ID          string      `json:"id"`
	Date        time.Time   `json:"date"`
	Systolic    int         `json:"systolic"`
	Diastolic   int         `json:"diastolic"`
	HeartRate   int         `json:"heartRate"`
	Notes       string      `json:"notes,omitempty"`
	AuditFields AuditFields `json:"auditFields"`
}

// NewRecording builds a recording with a fresh id and fresh audit fields.
// Whitespace-only notes normalize to the empty string.
func NewRecording(date time.Time, systolic, diastolic, heartRate int, notes string) Recording {
	return Recording{
		ID:          uuid.NewString(),
		Date:        date,
		Systolic:    systolic,
		Diastolic:   diastolic,
		HeartRate:   heartRate,
		Notes:       strings.TrimSpace(notes),
		AuditFields: NewAuditFields(),
	}
}

// NewRecordingWithAudit keeps the audit fields an imported document supplied
// instead of stamping fresh ones.
func NewRecordingWithAudit(date time.Time, systolic, diastolic, heartRate int, notes string, audit AuditFields) Recording {
	rec := NewRecording(date, systolic, diastolic, heartRate, notes)
	rec.AuditFields = audit
	return rec
}

// Updated returns a copy carrying the same identity and creation time, with
// the mutable fields replaced and the update timestamp restamped. Edits flow
// through fresh values rather than mutating stored ones.
func (r Recording) Updated(date time.Time, systolic, diastolic, heartRate int, notes string) Recording {
	r.Date = date
	r.Systolic = systolic
	r.Diastolic = diastolic
	r.HeartRate = heartRate
	r.Notes = strings.TrimSpace(notes)
	r.AuditFields.LastUpdatedDateTime = time.Now().UTC().Truncate(time.Millisecond)
	return r
}

// DateInfo is the display and ordering key: calendar date plus AM/PM period.
func (r Recording) DateInfo() string {
	dateString, timeOfDay := dateconv.DateStringAndTimeOfDay(r.Date)
	return dateString + " " + string(timeOfDay)
}
