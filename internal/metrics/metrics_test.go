package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/bookfinder/internal/search"
)

// counterValue はレジストリから指定メトリクスのカウンタ値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordSearchSuccess_IncrementsCounter は検索成功カウンタが増加することを検証する。
func TestRecordSearchSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchSuccess()
	c.RecordSearchSuccess()

	if val := counterValue(t, reg, "bookfinder_search_success_total"); val != 2 {
		t.Errorf("search_success_total = %v, want 2", val)
	}
}

// TestRecordSearchFailure_IncrementsCounter は検索失敗カウンタが増加することを検証する。
func TestRecordSearchFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchFailure()

	if val := counterValue(t, reg, "bookfinder_search_fail_total"); val != 1 {
		t.Errorf("search_fail_total = %v, want 1", val)
	}
}

// TestRecordSearchLatency_ObservesHistogram は検索レイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordSearchLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchLatency(100 * time.Millisecond)
	c.RecordSearchLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "bookfinder_search_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("bookfinder_search_latency_seconds metric not found")
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(502)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "bookfinder_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "200":
					if val != 2 {
						t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
					}
				case "502":
					if val != 1 {
						t.Errorf("http_status_total{status_code=502} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("bookfinder_http_status_total metric not found")
	}
}

// TestRecordFavoriteToggle_LabelsByResult はトグル結果別のラベルで記録されることを検証する。
func TestRecordFavoriteToggle_LabelsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFavoriteToggle(true)
	c.RecordFavoriteToggle(true)
	c.RecordFavoriteToggle(false)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "bookfinder_favorite_toggles_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "added":
					if val != 2 {
						t.Errorf("favorite_toggles_total{result=added} = %v, want 2", val)
					}
				case "removed":
					if val != 1 {
						t.Errorf("favorite_toggles_total{result=removed} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("bookfinder_favorite_toggles_total metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchSuccess()
	c.RecordSearchFailure()
	c.RecordHTTPStatus(200)
	c.RecordSearchLatency(500 * time.Millisecond)
	c.RecordFavoriteToggle(true)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"bookfinder_search_success_total",
		"bookfinder_search_fail_total",
		"bookfinder_search_latency_seconds",
		"bookfinder_http_status_total",
		"bookfinder_favorite_toggles_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsRecorderInterface はCollectorが検索クライアントの
// メトリクスレコーダーインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsRecorderInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ search.MetricsRecorder = NewCollector(reg)
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordSearchSuccess()
	c2.RecordSearchSuccess()
	c2.RecordSearchSuccess()

	if val := counterValue(t, reg1, "bookfinder_search_success_total"); val != 1 {
		t.Errorf("reg1 search_success = %v, want 1", val)
	}
	if val := counterValue(t, reg2, "bookfinder_search_success_total"); val != 2 {
		t.Errorf("reg2 search_success = %v, want 2", val)
	}
}
