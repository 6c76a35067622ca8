package metrics

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func metricValue(t *testing.T, rendered, name string) uint64 {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(rendered))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, name+" ") {
			continue
		}
		value, err := strconv.ParseUint(strings.TrimPrefix(line, name+" "), 10, 64)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return value
	}
	t.Fatalf("metric %s not found in output", name)
	return 0
}

func TestCountersIncrement(t *testing.T) {
	before := metricValue(t, Render(), "application_submitted_total")
	IncApplicationSubmitted()
	IncApplicationSubmitted()
	after := metricValue(t, Render(), "application_submitted_total")
	if after != before+2 {
		t.Fatalf("expected counter to grow by 2, got %d -> %d", before, after)
	}
}

func TestRenderIncludesAllSeries(t *testing.T) {
	out := Render()
	for _, name := range []string{
		"application_submitted_total",
		"application_submit_failed_total",
		"application_withdrawn_total",
		"application_status_changed_total",
		"email_jobs_received_total",
		"email_jobs_sent_total",
		"email_jobs_failed_total",
		"email_jobs_dropped_total",
	} {
		if !strings.Contains(out, "# TYPE "+name+" counter") {
			t.Fatalf("missing counter %s", name)
		}
	}
	if !strings.Contains(out, "# TYPE application_submit_duration_ms histogram") {
		t.Fatalf("missing duration histogram")
	}
	if !strings.Contains(out, `application_submit_duration_ms_bucket{le="+Inf"}`) {
		t.Fatalf("missing +Inf bucket")
	}
}

func TestHistogramObservationsAreCumulative(t *testing.T) {
	beforeCount := metricValue(t, Render(), "application_submit_duration_ms_count")
	ObserveApplicationSubmitDurationMs(3)
	ObserveApplicationSubmitDurationMs(40)
	ObserveApplicationSubmitDurationMs(-1)
	afterCount := metricValue(t, Render(), "application_submit_duration_ms_count")
	if afterCount != beforeCount+3 {
		t.Fatalf("expected count to grow by 3, got %d -> %d", beforeCount, afterCount)
	}
}

func TestHandlerServesPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", ct)
	}
	if !strings.Contains(resp.Body.String(), "application_submitted_total") {
		t.Fatalf("expected metrics body, got %q", resp.Body.String())
	}
}
