package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("suggest", "found", 3*time.Microsecond)
	m.ObserveRequest("suggest", "found", 5*time.Microsecond)
	m.ObserveRequest("top", "not_found", time.Millisecond)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("suggest", "found")); got != 2 {
		t.Errorf("suggest/found = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("top", "not_found")); got != 1 {
		t.Errorf("top/not_found = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestSetDictionary(t *testing.T) {
	m := New()
	m.SetDictionary(1200, 3400, 250*time.Millisecond)

	if got := testutil.ToFloat64(m.DictionaryWords); got != 1200 {
		t.Errorf("words = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(m.TrieNodes); got != 3400 {
		t.Errorf("nodes = %v, want 3400", got)
	}
	if got := testutil.ToFloat64(m.BuildSeconds); got != 0.25 {
		t.Errorf("build seconds = %v, want 0.25", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("define", "found", time.Microsecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`prefixserve_requests_total{action="define",result="found"} 1`,
		"prefixserve_trie_nodes",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, addr) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("metrics endpoint unreachable: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "prefixserve_dictionary_words") {
		t.Error("metrics endpoint did not serve prefixserve metrics")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
