package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type observation struct {
	route, method string
	status        int
}

type recordingObserver struct{ seen []observation }

func (r *recordingObserver) Observe(route, method string, status int, _ time.Duration) {
	r.seen = append(r.seen, observation{route, method, status})
}

func TestLoggingRecordsRoutePatternAndStatus(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &logs, Format: "json"})
	observer := &recordingObserver{}

	router := chi.NewRouter()
	router.Use(RequestID(logg))
	router.Use(Logging(logg, observer))
	router.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/orders/77", nil))

	if len(observer.seen) != 1 {
		t.Fatalf("expected one observation, got %v", observer.seen)
	}
	got := observer.seen[0]
	if got.route != "/api/orders/{id}" || got.status != http.StatusNotFound || got.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", got)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}
	if !strings.Contains(logs.String(), "request.complete") || !strings.Contains(logs.String(), resp.Header().Get("X-Request-Id")) {
		t.Fatalf("expected request.complete with request id, got %s", logs.String())
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
