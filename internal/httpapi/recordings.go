package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bptracker/internal/codec"
	"bptracker/internal/dateconv"
	"bptracker/internal/models"
	"bptracker/internal/store"
)

// recordingRequest is the create/update body. The reading's instant arrives
// either as a ready ISO date, or in the split picker form the mobile UI used:
// a calendar day, a wall-clock time and the client's timezone offset, merged
// server-side so the calendar day never shifts across timezones.
type recordingRequest struct {
	Date          string `json:"date"`
	DateString    string `json:"dateString"`
	Time          string `json:"time"`
	OffsetMinutes int    `json:"offsetMinutes"`
	Systolic      int    `json:"systolic"`
	Diastolic     int    `json:"diastolic"`
	HeartRate     int    `json:"heartRate"`
	Notes         string `json:"notes"`
}

func (b recordingRequest) resolveDate() (time.Time, error) {
	if b.Date != "" {
		return dateconv.ParseDate(b.Date)
	}
	day, err := time.Parse("2006-01-02", b.DateString)
	if err != nil {
		return time.Time{}, errors.New("dateString must be YYYY-MM-DD")
	}
	clock, err := time.Parse("15:04", b.Time)
	if err != nil {
		return time.Time{}, errors.New("time must be HH:MM")
	}
	offset := time.Duration(b.OffsetMinutes) * time.Minute
	datePart := day.Add(offset)
	timePart := time.Date(1970, time.January, 1, clock.Hour(), clock.Minute(), 0, 0, time.UTC).Add(offset)
	return dateconv.CombineDateAndTime(datePart, timePart, b.OffsetMinutes)
}

func (b recordingRequest) validateVitals() error {
	if b.Systolic <= 0 || b.Diastolic <= 0 || b.HeartRate <= 0 {
		return errors.New("systolic, diastolic and heartRate must be positive")
	}
	return nil
}

func (r *Router) decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if r.maxRequestBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxRequestBytes)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func (r *Router) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, r.store.Recordings())
}

func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body recordingRequest
	if !r.decodeBody(w, req, &body) {
		return
	}
	date, err := body.resolveDate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := body.validateVitals(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rec := models.NewRecording(date, body.Systolic, body.Diastolic, body.HeartRate, body.Notes)
	r.store.Dispatch(store.New{Recording: rec})
	writeJSON(w, http.StatusCreated, rec)
}

func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	existing, ok := r.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recording not found"})
		return
	}
	var body recordingRequest
	if !r.decodeBody(w, req, &body) {
		return
	}
	date, err := body.resolveDate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := body.validateVitals(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	updated := existing.Updated(date, body.Systolic, body.Diastolic, body.HeartRate, body.Notes)
	r.store.Dispatch(store.Edited{Recording: updated})
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) {
	r.store.Dispatch(store.Deleted{ID: chi.URLParam(req, "id")})
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleExport(w http.ResponseWriter, _ *http.Request) {
	document, err := codec.Encode(r.store.Recordings())
	if err != nil {
		r.logger.Error().Err(err).Msg("export recordings")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(document))
}

func (r *Router) handleImport(w http.ResponseWriter, req *http.Request) {
	if r.maxRequestBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxRequestBytes)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	recordings, err := codec.Decode(string(body))
	if err != nil {
		var verr *codec.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    verr.Error(),
				"elements": verr.Elements,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	r.store.Dispatch(store.Initialize{Recordings: recordings})
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(recordings)})
}
