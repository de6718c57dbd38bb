package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"FinAwareSaas/internal/logger"
)

// AuditMiddleware logs every request a service handles, with status and
// latency, through the rotating audit log when available.
func AuditMiddleware(service string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: 200}
			next.ServeHTTP(rw, r)

			msg := fmt.Sprintf("[%s] %s %s from %s status=%d in %s",
				service, r.Method, r.URL.Path, extractClientIP(r), rw.statusCode, time.Since(start))
			if logr := logger.GlobalLogger; logr != nil {
				logr.LogAudit(msg)
			} else {
				log.Println(msg)
			}
		})
	}
}
