package middleware

import (
	"log"
	"net/http"
	"time"

	"macrofeed/appctx"
	"macrofeed/core"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestLogging tags every request with an ID and logs its outcome.
// An incoming X-Request-ID header is reused so callers can correlate logs.
func WithRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = core.NewID("req")
		}

		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(appctx.SetRequestID(r.Context(), requestID))

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		log.Printf("📨 %s %s -> %d in %s (%s)", r.Method, r.URL.Path, recorder.status, time.Since(start), requestID)
	})
}
