package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bptracker/internal/models"
	"bptracker/internal/store"
)

type memoryPersistence struct{ document string }

func (m *memoryPersistence) Load(context.Context) (string, error) { return m.document, nil }

func (m *memoryPersistence) Save(_ context.Context, document string) error {
	m.document = document
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.NewStore(&memoryPersistence{}, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(st, zerolog.Nop(), 1<<20))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeResponse(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/recordings/", map[string]any{
		"date":      "2023-01-10T07:00:00.000Z",
		"systolic":  120,
		"diastolic": 80,
		"heartRate": 60,
		"notes":     "morning reading",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Recording
	decodeResponse(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 120, created.Systolic)
	assert.Equal(t, "2023-01-10 AM", created.DateInfo())

	resp, err := http.Get(srv.URL + "/api/v1/recordings/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.Recording
	decodeResponse(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateFromPickerFields(t *testing.T) {
	srv, _ := newTestServer(t)

	// New York, EDT. The calendar day the user picked must survive.
	resp := postJSON(t, srv.URL+"/api/v1/recordings/", map[string]any{
		"dateString":    "2022-05-01",
		"time":          "22:00",
		"offsetMinutes": 240,
		"systolic":      120,
		"diastolic":     80,
		"heartRate":     60,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Recording
	decodeResponse(t, resp, &created)
	assert.Equal(t, time.Date(2022, 5, 2, 2, 0, 0, 0, time.UTC), created.Date.UTC())
	assert.Equal(t, "2022-05-01 PM", created.DateInfo())
}

func TestCreateRejectsNonPositiveVitals(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/recordings/", map[string]any{
		"date":      "2023-01-10T07:00:00.000Z",
		"systolic":  0,
		"diastolic": 80,
		"heartRate": 60,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/recordings/", map[string]any{
		"date":      "not a date",
		"systolic":  120,
		"diastolic": 80,
		"heartRate": 60,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdate(t *testing.T) {
	srv, st := newTestServer(t)
	rec := models.NewRecording(time.Date(2023, 1, 10, 7, 0, 0, 0, time.UTC), 120, 80, 60, "")
	st.Dispatch(store.New{Recording: rec})

	data, err := json.Marshal(map[string]any{
		"date":      "2023-01-10T07:00:00.000Z",
		"systolic":  140,
		"diastolic": 90,
		"heartRate": 70,
		"notes":     "after coffee",
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/v1/recordings/%s", srv.URL, rec.ID), bytes.NewReader(data))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Recording
	decodeResponse(t, resp, &updated)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, 140, updated.Systolic)
	assert.Equal(t, "after coffee", updated.Notes)
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/recordings/no-such-id", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	srv, st := newTestServer(t)
	rec := models.NewRecording(time.Date(2023, 1, 10, 7, 0, 0, 0, time.UTC), 120, 80, 60, "")
	st.Dispatch(store.New{Recording: rec})

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/recordings/%s", srv.URL, rec.ID), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, st.Recordings())

	// Deleting again is still a 204.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestExportImportRoundTrip(t *testing.T) {
	srv, st := newTestServer(t)
	st.Dispatch(store.New{Recording: models.NewRecording(time.Date(2023, 1, 10, 7, 0, 0, 0, time.UTC), 120, 80, 60, "keep me")})

	resp, err := http.Get(srv.URL + "/api/v1/recordings/export")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var exportedBody bytes.Buffer
	_, err = exportedBody.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	// Wipe and restore from the exported document.
	srv2, st2 := newTestServer(t)
	resp, err = http.Post(srv2.URL+"/api/v1/recordings/import", "application/json", &exportedBody)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var imported map[string]int
	decodeResponse(t, resp, &imported)
	assert.Equal(t, 1, imported["imported"])

	got := st2.Recordings()
	require.Len(t, got, 1)
	assert.Equal(t, "keep me", got[0].Notes)
}

func TestImportInvalidElementReturns422(t *testing.T) {
	srv, st := newTestServer(t)

	document := `[{"date":"2023-01-10T07:00:00.000Z","diastolic":80,"heartRate":60}]`
	resp, err := http.Post(srv.URL+"/api/v1/recordings/import", "application/json", bytes.NewReader([]byte(document)))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error    string `json:"error"`
		Elements []struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fieldErrors"`
		} `json:"elements"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Elements, 1)
	require.Len(t, body.Elements[0].Fields, 1)
	assert.Equal(t, "systolic", body.Elements[0].Fields[0].Field)
	assert.Equal(t, "FIELD_MISSING", body.Elements[0].Fields[0].Reason)

	assert.Empty(t, st.Recordings(), "a rejected import must not touch the collection")
}

func TestImportMalformedJSONReturns400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/recordings/import", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
