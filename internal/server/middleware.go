package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/chequer/pkg/logger"
)

// RequestIDHeader echoes the id chi's RequestID middleware assigned.
const RequestIDHeader = "X-Request-ID"

// accessLog tags the request context with a request-scoped logger and logs
// each request at DEBUG once it completes. Mount it after middleware.RequestID.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := middleware.GetReqID(r.Context())
		if rid != "" {
			w.Header().Set(RequestIDHeader, rid)
		}

		log := logger.Component("http").With("request_id", rid)
		r = r.WithContext(logger.InjectLogger(r.Context(), log))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
