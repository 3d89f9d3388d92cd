package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmakela/scubalog/internal/entities"
)

func TestDivesEndpoints(t *testing.T) {
	t.Run("list is empty initially", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/dives", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp DiveListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Total)
		assert.Empty(t, resp.Dives)
	})

	t.Run("create then fetch by id", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		payload := map[string]any{
			"title":            "Night at the Pier",
			"location":         "North Pier",
			"start_time":       "2024-06-15T21:00:00Z",
			"end_time":         "2024-06-15T21:50:00Z",
			"max_depth_meters": 8.5,
			"dive_type":        "night",
		}
		body, _ := json.Marshal(payload)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/dives", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var created CreateDiveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.NotNil(t, created.Dive)
		assert.NotZero(t, created.Dive.ID)
		assert.False(t, created.PressureWarning)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/dives/1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got entities.Dive
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Night at the Pier", got.Title)
		assert.Equal(t, entities.DiveTypeNight, got.DiveType)
	})

	t.Run("create flags implausible pressures", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		payload := map[string]any{
			"title":              "Backwards Gauge",
			"start_time":         "2024-06-15T10:00:00Z",
			"end_time":           "2024-06-15T10:40:00Z",
			"max_depth_meters":   12,
			"start_pressure_bar": 60,
			"end_pressure_bar":   190,
		}
		body, _ := json.Marshal(payload)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/dives", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var created CreateDiveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.True(t, created.PressureWarning)
	})

	t.Run("create without title is a 400", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		body, _ := json.Marshal(map[string]any{"max_depth_meters": 10})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/dives", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/dives/4242", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/dives/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list is reverse chronological", func(t *testing.T) {
		router, repo, cleanup := setupTestRouter(t)
		defer cleanup()

		older := entities.Dive{Title: "Older", StartTime: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
		newer := entities.Dive{Title: "Newer", StartTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		require.NoError(t, repo.Insert(&older))
		require.NoError(t, repo.Insert(&newer))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/dives", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp DiveListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Dives, 2)
		assert.Equal(t, "Newer", resp.Dives[0].Title)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	t.Run("units default to metric", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/settings/units", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp UnitSettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "metric", resp.Units)
	})

	t.Run("update units persists", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		body, _ := json.Marshal(UpdateUnitsRequest{Units: "imperial"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/settings/units", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/settings/units", nil)
		router.ServeHTTP(w, req)

		var resp UnitSettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "imperial", resp.Units)
		assert.Equal(t, "database", resp.Source)
	})

	t.Run("backup settings round-trip", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		body, _ := json.Marshal(UpdateBackupRequest{ExportDir: "/tmp/backups"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/settings/backup", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp BackupSettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/tmp/backups", resp.ExportDir)
		assert.False(t, resp.SchedulerRunning)
	})
}
