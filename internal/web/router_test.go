package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lojf/kidsdesk/internal/handlers"
	"github.com/lojf/kidsdesk/internal/reports"
	"github.com/lojf/kidsdesk/internal/store"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(store.Options{DataDir: t.TempDir(), Location: time.UTC})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	rep := reports.NewService(st, reports.NewHistory(t.TempDir(), nil), st.Now, nil)
	return Router(handlers.New(st, rep, nil, "", nil))
}

func TestRouterHealthz(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterRoutes(t *testing.T) {
	r := testRouter(t)
	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/children", http.StatusOK},
		{http.MethodGet, "/api/children/Nobody", http.StatusNotFound},
		{http.MethodGet, "/api/checkins", http.StatusOK},
		{http.MethodGet, "/api/rooms?age=4", http.StatusOK},
		{http.MethodGet, "/api/reports", http.StatusOK},
		{http.MethodGet, "/api/reports/total/history", http.StatusOK},
		{http.MethodDelete, "/api/reports/history", http.StatusOK},
		{http.MethodGet, "/qr/Nobody.png", http.StatusNotFound},
		{http.MethodGet, "/admin/occupancy", http.StatusServiceUnavailable},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("%s %s: want %d, got %d", c.method, c.path, c.want, rec.Code)
		}
	}
}
