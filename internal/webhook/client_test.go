package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahafa/newsroom/internal/models"
)

func TestNormalizeOKMatchesStatusClass(t *testing.T) {
	for status := 200; status < 600; status += 7 {
		env := Normalize(status, []byte(`{"ok":true}`))
		wantOK := status >= 200 && status < 300
		if env.OK != wantOK {
			t.Errorf("status %d: ok = %v, want %v", status, env.OK, wantOK)
		}
		if env.Status != status {
			t.Errorf("status %d echoed as %d", status, env.Status)
		}
	}
}

func TestNormalizeVariants(t *testing.T) {
	env := Normalize(200, []byte(`{"result": "x"}`))
	if env.Kind() != models.EnvelopeData || env.Data == nil {
		t.Errorf("expected data variant for JSON body, got %+v", env)
	}

	env = Normalize(502, []byte("Bad Gateway"))
	if env.Kind() != models.EnvelopeBody || env.Body != "Bad Gateway" {
		t.Errorf("expected body variant for plain text, got %+v", env)
	}
}

func TestForwardNetworkErrorBecomesErrorEnvelope(t *testing.T) {
	c := NewClient(2 * time.Second)

	env := c.Forward(context.Background(), "http://127.0.0.1:1/none", []byte(`{}`), "")
	if env.OK {
		t.Error("network failure must not be ok")
	}
	if env.Kind() != models.EnvelopeError || env.Error == "" {
		t.Errorf("expected error variant, got %+v", env)
	}
}

func TestForwardPreservesContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"done":true}`))
	}))
	defer srv.Close()

	c := NewClient(2 * time.Second)
	c.Forward(context.Background(), srv.URL, []byte("--b\r\n--b--"), "multipart/form-data; boundary=b")

	if gotContentType != "multipart/form-data; boundary=b" {
		t.Errorf("multipart content type not preserved: %q", gotContentType)
	}
}

func TestForwardWithRecoveryReplaysRedirectBody(t *testing.T) {
	const payload = `{"text":"améliorer"}`

	var finalBody string
	var finalMethod string
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		finalBody = string(b)
		finalMethod = r.Method
		w.Write([]byte(`{"output":"fait"}`))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusTemporaryRedirect)
	}))
	defer redirecting.Close()

	c := NewClient(5 * time.Second)
	env := c.ForwardWithRecovery(context.Background(), redirecting.URL, []byte(payload), "application/json", 5*time.Second)

	if !env.OK {
		t.Fatalf("expected success after redirect replay, got %+v", env)
	}
	if finalMethod != http.MethodPost {
		t.Errorf("redirect must keep the POST method, got %s", finalMethod)
	}
	if finalBody != payload {
		t.Errorf("redirect must keep the body, got %q", finalBody)
	}
}

func TestForwardWithRecoveryGetFallback(t *testing.T) {
	var sawGet bool
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("This webhook is not registered for POST requests"))
			return
		}
		sawGet = true
		gotQuery = r.URL.Query().Get("text")
		w.Write([]byte(`{"output":"via get"}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	env := c.ForwardWithRecovery(context.Background(), srv.URL, []byte(`{"text":"bonjour"}`), "application/json", 5*time.Second)

	if !sawGet {
		t.Fatal("expected a GET retry after the 404 marker")
	}
	if gotQuery != "bonjour" {
		t.Errorf("payload not carried into query string: %q", gotQuery)
	}
	if !env.OK {
		t.Errorf("expected success from GET fallback, got %+v", env)
	}
}

func TestForwardWithRecoverySlowUpstreamWithinDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(400 * time.Millisecond)
		w.Write([]byte(`{"output":"lent mais là"}`))
	}))
	defer srv.Close()

	// The standalone timeout is shorter than the upstream's response time;
	// only the shared deadline may bound the recovery path.
	c := NewClient(200 * time.Millisecond)
	env := c.ForwardWithRecovery(context.Background(), srv.URL, []byte(`{}`), "application/json", 5*time.Second)

	if !env.OK {
		t.Fatalf("upstream within the shared deadline must succeed, got %+v", env)
	}
}

func TestForwardStandaloneTimeoutStillApplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(50 * time.Millisecond)
	env := c.Forward(context.Background(), srv.URL, []byte(`{}`), "")

	if env.OK || env.Kind() != models.EnvelopeError {
		t.Errorf("expected timeout error envelope for standalone call, got %+v", env)
	}
}

func TestForwardWithRecoveryDeadlineIsGlobal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	start := time.Now()
	env := c.ForwardWithRecovery(context.Background(), srv.URL, []byte(`{}`), "application/json", 50*time.Millisecond)

	if env.OK {
		t.Error("expected failure past the deadline")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("deadline not enforced, took %v", elapsed)
	}
}

func TestRaceStopsAtFirstSuccess(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	var hits int
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"result":"trouvé"}`))
	}))
	defer working.Close()

	c := NewClient(5 * time.Second)
	res := c.Race(context.Background(), []string{failing.URL, working.URL}, map[string]string{"query": "q"}, 5*time.Second)

	if !res.Envelope.OK {
		t.Fatalf("expected eventual success, got %+v", res.Envelope)
	}
	// All three variants of the failing URL, then the first of the working one.
	if len(res.AttemptedURLs) != 4 {
		t.Errorf("expected 4 attempts, got %d: %v", len(res.AttemptedURLs), res.AttemptedURLs)
	}
	if hits != 1 {
		t.Errorf("race must stop at the first 2xx, working URL hit %d times", hits)
	}
}

func TestRaceReportsAllAttemptsOnTotalFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	c := NewClient(5 * time.Second)
	res := c.Race(context.Background(), []string{failing.URL, failing.URL}, map[string]string{"query": "q"}, 5*time.Second)

	if res.Envelope.OK {
		t.Fatal("expected total failure")
	}
	if len(res.AttemptedURLs) != 6 {
		t.Errorf("expected all 6 combinations attempted, got %d", len(res.AttemptedURLs))
	}
}
