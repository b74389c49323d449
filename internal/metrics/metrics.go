// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// search.MetricsRecorderインターフェースを満たす。
type Collector struct {
	searchSuccess   prometheus.Counter
	searchFail      prometheus.Counter
	searchLatency   prometheus.Histogram
	httpStatus      *prometheus.CounterVec
	favoriteToggles *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		searchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookfinder_search_success_total",
			Help: "書誌検索成功の合計数",
		}),
		searchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookfinder_search_fail_total",
			Help: "書誌検索失敗の合計数",
		}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookfinder_search_latency_seconds",
			Help:    "書誌検索のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookfinder_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		favoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookfinder_favorite_toggles_total",
			Help: "お気に入りトグルの合計数（追加/解除別）",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.searchSuccess,
		c.searchFail,
		c.searchLatency,
		c.httpStatus,
		c.favoriteToggles,
	)

	return c
}

// RecordSearchSuccess は書誌検索成功を記録する。
func (c *Collector) RecordSearchSuccess() {
	c.searchSuccess.Inc()
}

// RecordSearchFailure は書誌検索失敗を記録する。
func (c *Collector) RecordSearchFailure() {
	c.searchFail.Inc()
}

// RecordSearchLatency は書誌検索のレイテンシを記録する。
func (c *Collector) RecordSearchLatency(duration time.Duration) {
	c.searchLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFavoriteToggle はお気に入りトグルの結果を記録する。
// addedがtrueなら追加、falseなら解除。
func (c *Collector) RecordFavoriteToggle(added bool) {
	result := "removed"
	if added {
		result = "added"
	}
	c.favoriteToggles.WithLabelValues(result).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
