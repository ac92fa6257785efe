package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r.Context())
	}))

	tests := []struct {
		name   string
		id     string
		role   string
		status int
		want   domain.Actor
	}{
		{"client", "7", "client", http.StatusOK, domain.ClientActor{ID: 7}},
		{"professional", "10", "professional", http.StatusOK, domain.ProfessionalActor{ID: 10}},
		{"system without id", "", "system", http.StatusOK, domain.SystemActor{}},
		{"missing role", "7", "", http.StatusUnauthorized, nil},
		{"unknown role", "7", "root", http.StatusUnauthorized, nil},
		{"bad id", "abc", "client", http.StatusUnauthorized, nil},
		{"client without id", "", "client", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.id != "" {
				req.Header.Set(HeaderUserID, tt.id)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(rec))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/abc", nil))

	require.Len(t, rec.requests, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/bookings/{bookingId}", http.StatusNotFound}, rec.requests[0])
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2, time.Minute)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1"))
	assert.Equal(t, http.StatusOK, call("2"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("1"))

	// Неактивные клиенты удаляются
	now = now.Add(2 * time.Minute)
	call("3")
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.limiters, 1)
}
