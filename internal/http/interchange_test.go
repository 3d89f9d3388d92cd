package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmakela/scubalog/internal/database"
	"github.com/tmakela/scubalog/internal/database/dives"
	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/interchange"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
	"github.com/tmakela/scubalog/internal/units"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *dives.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	diveRepo := dives.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)

	router := NewRouter(RouterConfig{
		Database:           db,
		DiveStore:          diveRepo,
		InterchangeService: services.NewInterchangeService(diveRepo),
		SettingsStore:      settingsstore.New(settingsRepo),
		SettingsRepo:       settingsRepo,
		Version:            "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, diveRepo, cleanup
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func testCSV(titles ...string) []byte {
	records := make([]entities.Dive, len(titles))
	for i, title := range titles {
		records[i] = entities.Dive{
			Title:          title,
			Location:       "Test Bay",
			StartTime:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2024, 5, 1, 10, 40, 0, 0, time.UTC),
			MaxDepthMeters: 15,
		}
	}
	return []byte(interchange.ExportCSV(records, units.Metric))
}

func TestImportEndpoint(t *testing.T) {
	t.Run("preview does not persist", func(t *testing.T) {
		router, repo, cleanup := setupTestRouter(t)
		defer cleanup()

		body, contentType := multipartUpload(t, "dives.csv", testCSV("Reef Dive"))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/interchange/import", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ImportPreviewResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Candidates)
		assert.False(t, resp.Committed)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("confirm commits and renames", func(t *testing.T) {
		router, repo, cleanup := setupTestRouter(t)
		defer cleanup()

		existing := entities.Dive{Title: "Wreck Dive", StartTime: time.Now(), EndTime: time.Now()}
		require.NoError(t, repo.Insert(&existing))

		body, contentType := multipartUpload(t, "dives.csv", testCSV("Wreck Dive"))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/interchange/import?confirm=true", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ImportCommitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Committed)
		assert.Equal(t, 1, resp.Imported)
		assert.Equal(t, 1, resp.Renamed)
		assert.Equal(t, []string{"Wreck Dive 2"}, resp.Titles)
	})

	t.Run("malformed content is a 422 with error code", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		body, contentType := multipartUpload(t, "dives.csv", []byte("a,b,c\n1,2,3\n"))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/interchange/import", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "schema_mismatch", resp.Code)
	})

	t.Run("missing file is a 400", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/interchange/import", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportEndpoint(t *testing.T) {
	t.Run("csv attachment", func(t *testing.T) {
		router, repo, cleanup := setupTestRouter(t)
		defer cleanup()

		d := entities.Dive{
			Title:          "Reef Dive",
			StartTime:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2024, 5, 1, 10, 40, 0, 0, time.UTC),
			MaxDepthMeters: 15,
		}
		require.NoError(t, repo.Insert(&d))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/interchange/export?format=csv", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, w.Body.String(), "Reef Dive")
	})

	t.Run("uddf format", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/interchange/export?format=uddf", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<uddf version="3.2.0">`)
	})

	t.Run("units override", func(t *testing.T) {
		router, repo, cleanup := setupTestRouter(t)
		defer cleanup()

		d := entities.Dive{
			Title:          "Deep One",
			StartTime:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2024, 5, 1, 10, 40, 0, 0, time.UTC),
			MaxDepthMeters: 10.06,
		}
		require.NoError(t, repo.Insert(&d))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/interchange/export?format=csv&units=imperial", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Max Depth (ft)")
		assert.Contains(t, w.Body.String(), "33.0")
	})
}
