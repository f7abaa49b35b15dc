package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportStore() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/punchlists", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("id") == "eq.7" || q.Get("work_order_id") == "eq.wo-1" {
			_, _ = w.Write([]byte(`[{"id":7,"work_order_id":"wo-1","status":"draft","created_at":"2026-08-01T10:00:00+00:00"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/rest/v1/punchlist_items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"punchlist_id":7,"manufacturer":"Acme","model":"X1","room":"101",` +
			`"expected_qty":5,"received_qty":3,"missing_qty":2,"damaged_qty":1,"issue":"Missing / Damaged"}]`))
	})
	mux.HandleFunc("/rest/v1/work_orders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"wo-1","code":"WO-0042","project_name":"HQ Refresh","client_name":"Acme Corp"}]`))
	})
	return mux
}

func TestRenderReportByPunchlistId(t *testing.T) {
	srv := httptest.NewServer(reportStore())
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/punchlists/report?punchlist_id=7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "punchlist-7-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestRenderReportByWorkOrderUsesLatest(t *testing.T) {
	srv := httptest.NewServer(reportStore())
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/punchlists/report", strings.NewReader(`{"work_order_id":"wo-1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestRenderReportPostWithEmptyBodyUsesQuery(t *testing.T) {
	srv := httptest.NewServer(reportStore())
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/punchlists/report?punchlist_id=7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestRenderReportMissingIdentifierIs400(t *testing.T) {
	router := newRouter(newTestApp("http://127.0.0.1:1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/punchlists/report", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "required")
}

func TestRenderReportUnknownWorkOrderIs404(t *testing.T) {
	srv := httptest.NewServer(reportStore())
	defer srv.Close()

	router := newRouter(newTestApp(srv.URL))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/punchlists/report?work_order_id=wo-unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderReportBadPunchlistIdIs400(t *testing.T) {
	router := newRouter(newTestApp("http://127.0.0.1:1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/punchlists/report?punchlist_id=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
