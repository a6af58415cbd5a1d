package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heartetl/internal/metrics"
)

func TestNewBackendRequiresGatewayURL(t *testing.T) {
	if _, err := NewBackend("job", ""); err == nil {
		t.Fatal("expected error for empty gateway URL")
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	var gotPath string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("etl_stage_total", 1, metrics.Labels{"stage": "extract", "status": "success"})
	b.IncCounter("etl_rows_total", 303, metrics.Labels{"kind": "extracted"})
	b.ObserveDuration("etl_stage_duration_seconds", 0.42, metrics.Labels{"stage": "extract", "status": "success"})
	// Unknown names are dropped silently.
	b.IncCounter("unrelated_metric", 1, nil)
	b.ObserveDuration("unrelated_metric", 1, nil)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if !strings.Contains(gotPath, "/job/heartetl") {
		t.Errorf("push path: got %q, want default job name", gotPath)
	}
	if !strings.Contains(gotBody, "etl_stage_total") {
		t.Errorf("pushed body missing etl_stage_total:\n%s", gotBody)
	}
	if strings.Contains(gotBody, "unrelated_metric") {
		t.Error("unknown metric leaked into the push")
	}
}
