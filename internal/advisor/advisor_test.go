package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type ipv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	s := &ipv4Server{URL: "http://" + ln.Addr().String(), srv: srv, ln: ln}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func okBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
	}
}

func testServerSequence(t *testing.T, statuses []int, content string) *ipv4Server {
	t.Helper()
	var idx int32
	return newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		i := int(atomic.AddInt32(&idx, 1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		st := statuses[i]
		w.WriteHeader(st)
		if st >= 200 && st < 300 {
			_ = json.NewEncoder(w).Encode(okBody(content))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "nope"}})
	}))
}

func TestCompleteRetriesOn429(t *testing.T) {
	srv := testServerSequence(t, []int{429, 200}, "looks good")
	defer srv.Close()

	c := NewClientWithBaseURL("test", 2*time.Second, 3, 10*time.Millisecond, 100*time.Millisecond, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := c.Complete(ctx, "test-model", "hi", 64, 0.7)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "looks good" {
		t.Fatalf("unexpected content: %q", out)
	}
}

func TestCompleteAuthErrorIsTyped(t *testing.T) {
	srv := testServerSequence(t, []int{401}, "")
	defer srv.Close()

	c := NewClientWithBaseURL("bad-key", 2*time.Second, 3, 10*time.Millisecond, 50*time.Millisecond, srv.URL)
	_, err := c.Complete(context.Background(), "test-model", "hi", 64, 0.7)
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestAdviseReturnsModelText(t *testing.T) {
	srv := testServerSequence(t, []int{200}, "  A fine model.  ")
	defer srv.Close()

	c := NewClientWithBaseURL("test", 2*time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, srv.URL)
	a := New(c, "test-model", 64, 0.7)
	got := a.Advise(context.Background(), Request{Algorithm: "linear regression (SGD)", Target: "y"})
	if got != "A fine model." {
		t.Fatalf("unexpected advice: %q", got)
	}
}

func TestAdviseFallsBackWhenUnreachable(t *testing.T) {
	// Port from a closed listener: connection refused.
	srv := newIPv4Server(t, http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithBaseURL("test", time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, url)
	a := New(c, "test-model", 64, 0.7)
	if got := a.Advise(context.Background(), Request{}); got != FallbackAdvice {
		t.Fatalf("expected fallback advice, got %q", got)
	}
}

func TestAdviseFallsBackWhenUnconfigured(t *testing.T) {
	a := New(NewClient("", 0, 0, 0, 0), "test-model", 64, 0.7)
	if got := a.Advise(context.Background(), Request{}); got != FallbackAdvice {
		t.Fatalf("expected fallback advice, got %q", got)
	}
	var nilAdvisor *Advisor
	if got := nilAdvisor.Advise(context.Background(), Request{}); got != FallbackAdvice {
		t.Fatalf("expected fallback advice from nil advisor, got %q", got)
	}
}

func TestBuildPromptIncludesRunFacts(t *testing.T) {
	p := BuildPrompt(Request{
		Algorithm:  "linear regression (SGD)",
		Target:     "price",
		Features:   []string{"sqft", "rooms"},
		Columns:    []string{"sqft", "rooms", "price"},
		SplitRatio: 0.8,
		R2:         0.91,
		MSE:        12.5,
	})
	for _, want := range []string{"price", "sqft, rooms", "0.80", "0.9100", "12.5000"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}
