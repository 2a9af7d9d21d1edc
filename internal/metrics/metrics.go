package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 抓取周期
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evhighway_fetch_duration_seconds",
			Help:    "Duration of charger info fetch cycles in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evhighway_fetch_total",
			Help: "Total number of fetch cycles by outcome",
		},
		[]string{"outcome"}, // loaded, missing_credential, transport_failure, invalid_credential, provider_error, stale
	)

	FetchLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evhighway_fetch_last_success_timestamp",
			Help: "Unix timestamp of last successful fetch",
		},
	)

	// 合成结果
	StationsReported = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evhighway_provider_total_count",
			Help: "Total charger count reported by the provider on the last successful fetch",
		},
	)

	SessionsSynthesized = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evhighway_sessions_current",
			Help: "Number of sessions in the current dataset",
		},
	)

	RecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evhighway_records_skipped_total",
			Help: "Total number of provider records dropped for invalid coordinates",
		},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evhighway_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evhighway_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evhighway_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evhighway_websocket_connections_active",
			Help: "Number of active websocket connections",
		},
	)
)

// RecordFetch 记录一次抓取周期
func RecordFetch(outcome string, duration time.Duration) {
	FetchDuration.Observe(duration.Seconds())
	FetchTotal.WithLabelValues(outcome).Inc()
}

// RecordDataset 记录成功抓取后的数据规模
func RecordDataset(totalCount, sessions, skipped int) {
	StationsReported.Set(float64(totalCount))
	SessionsSynthesized.Set(float64(sessions))
	if skipped > 0 {
		RecordsSkipped.Add(float64(skipped))
	}
	FetchLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
