// Package middleware — HTTP metrik toplama.
package middleware

import (
	"net/http"
	"time"

	"github.com/eraydn/odak/metrics"
)

// Metrics, her request'in süresini route pattern'ına göre histogram'a yazar.
//
// Route label'ı r.Pattern'dan gelir ("GET /api/groups/{groupId}" gibi) —
// path'in kendisi DEĞİL. Aksi halde her groupId ayrı bir zaman serisi
// yaratır ve Prometheus cardinality patlar.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
