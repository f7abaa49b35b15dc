package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postManifest(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/manifest/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestImportManifestUpserts(t *testing.T) {
	var gotConflict string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConflict = r.URL.Query().Get("on_conflict")
		var rows []json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&rows)
		_ = json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := postManifest(router, `[{"manufacturer":"Acme","model":"X1","room":"101","expected_qty":5}]`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manufacturer,model,room", gotConflict)
	assert.Contains(t, w.Body.String(), `"Acme"`)
}

func TestImportManifestRejectsEmptyBody(t *testing.T) {
	router := newRouter(newTestApp("http://127.0.0.1:1"))

	w := postManifest(router, `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "manifest rows are required")

	w = postManifest(router, `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON array")
}

func TestImportManifestRejectsInvalidRows(t *testing.T) {
	router := newRouter(newTestApp("http://127.0.0.1:1"))

	// Missing manufacturer.
	w := postManifest(router, `[{"model":"X1","room":"101"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid manifest row")

	// Negative quantity.
	w = postManifest(router, `[{"manufacturer":"Acme","model":"X1","room":"101","expected_qty":-1}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportManifestSchemaBootstrapIs501(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PGRST205","message":"Could not find the table 'public.manifest_lines' in the schema cache"}`))
	}))
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := postManifest(router, `[{"manufacturer":"Acme","model":"X1","room":"101"}]`)

	require.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "schema bootstrap required")
	assert.Contains(t, w.Body.String(), "instructions")
}
