// Package metrics — Prometheus sayaçları.
//
// Tüm metrikler promauto ile default registry'ye kaydedilir ve
// /metrics endpoint'inden scrape edilir. İsimlendirme Prometheus
// konvansiyonunu izler: odak_<alan>_<ölçüm>_<birim>.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WSConnections, o anda açık WebSocket bağlantı sayısı.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "odak_ws_connections",
		Help: "Number of currently open WebSocket connections.",
	})

	// WSEventsBroadcast, broadcast edilen toplam WebSocket event sayısı.
	WSEventsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odak_ws_events_broadcast_total",
		Help: "Total number of WebSocket events broadcast to subscribers.",
	})

	// MessagesCreated, conversation tipine göre oluşturulan mesaj sayısı.
	// conversation_type: "group" veya "thread".
	MessagesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odak_messages_created_total",
		Help: "Total number of messages created, by conversation type.",
	}, []string{"conversation_type"})

	// AIRequests, AI servisine yapılan istek sayısı.
	// kind: "chat" veya "summarize"; status: "ok" veya "error".
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odak_ai_requests_total",
		Help: "Total number of AI upstream requests, by kind and status.",
	}, []string{"kind", "status"})

	// HTTPRequestDuration, handler bazlı istek süresi histogramı.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odak_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Handler, /metrics endpoint'i için Prometheus scrape handler'ı döner.
func Handler() http.Handler {
	return promhttp.Handler()
}
