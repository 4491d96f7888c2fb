package feed

import (
	"strings"
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncRequest("raw.example.test")
	m.IncRequest("raw.example.test")
	m.IncRequest("")
	m.IncStatus(200)
	m.IncStatus(404)
	m.IncStatus(429)
	m.IncStatus(503)
	m.IncRetry()
	m.IncFailure()
	m.AddBackoff(250 * time.Millisecond)

	s := m.Snapshot()
	if s.TotalRequests != 3 || s.HostCounts["raw.example.test"] != 2 || s.HostCounts["local"] != 1 {
		t.Fatalf("unexpected request counts: %+v", s)
	}
	if s.Status2xx != 1 || s.Status4xx != 1 || s.Status429 != 1 || s.Status5xx != 1 {
		t.Fatalf("unexpected status buckets: %+v", s)
	}
	if s.TotalBackoff != 250*time.Millisecond {
		t.Fatalf("unexpected backoff %v", s.TotalBackoff)
	}
	if sum := s.Summary(); !strings.Contains(sum, "requests 3") || !strings.Contains(sum, "4xx 2") {
		t.Fatalf("unexpected summary %q", sum)
	}
}
