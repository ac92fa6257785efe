package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPRecorder получатель HTTP метрик
type HTTPRecorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware считает запросы и длительность по шаблону маршрута
func MetricsMiddleware(recorder HTTPRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			// шаблон вместо пути, чтобы id не раздували кардинальность
			route := "unknown"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			recorder.ObserveHTTPRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
