package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahafa/newsroom/internal/config"
	"github.com/sahafa/newsroom/internal/extract"
	"github.com/sahafa/newsroom/internal/images"
	"github.com/sahafa/newsroom/internal/webhook"
)

func newTestApp(cfg *config.Config) *fiber.App {
	client := webhook.NewClient(2 * time.Second)
	translator := images.NewPromptTranslator(client, cfg.TranslationWebhookURL)
	generator := images.NewGenerator(client, translator, nil, cfg.ImageWebhookURL)

	handlers := NewHandlers(cfg, client, nil, nil, generator)

	app := fiber.New()
	SetupRoutes(app, handlers, cfg.AdminAPIKey)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("response is not JSON: %s", raw)
		}
	}
	return resp.StatusCode, decoded
}

func TestImproveProxyAlwaysAnswers200(t *testing.T) {
	for _, upstreamStatus := range []int{200, 404, 500, 503} {
		upstreamStatus := upstreamStatus
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(upstreamStatus)
			w.Write([]byte(`{"output": "x"}`))
		}))

		app := newTestApp(&config.Config{
			ImproveWebhookURL: srv.URL,
			ProxyDeadline:     2 * time.Second,
		})

		status, body := postJSON(t, app, "/api/v1/proxy/improve", `{"text":"améliorer ce texte"}`)
		srv.Close()

		if status != http.StatusOK {
			t.Errorf("upstream %d: proxy answered %d, want 200", upstreamStatus, status)
		}
		wantOK := upstreamStatus >= 200 && upstreamStatus < 300
		if body["ok"] != wantOK {
			t.Errorf("upstream %d: ok = %v, want %v", upstreamStatus, body["ok"], wantOK)
		}
		if int(body["status"].(float64)) != upstreamStatus {
			t.Errorf("upstream %d not echoed: %v", upstreamStatus, body["status"])
		}
	}
}

func TestImproveProxyNetworkFailureStill200(t *testing.T) {
	app := newTestApp(&config.Config{
		ImproveWebhookURL: "http://127.0.0.1:1/none",
		ProxyDeadline:     2 * time.Second,
	})

	status, body := postJSON(t, app, "/api/v1/proxy/improve", `{"text":"x"}`)
	if status != http.StatusOK {
		t.Errorf("network failure must still answer 200, got %d", status)
	}
	if body["ok"] != false {
		t.Errorf("ok must be false on network failure: %v", body)
	}
	if body["error"] == nil {
		t.Error("error variant missing")
	}
}

func TestImproveProxyExtractsStructuredFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main_title": "Titre", "body": "Corps", "keywords": ["a", "b,", "،c"]}`))
	}))
	defer srv.Close()

	app := newTestApp(&config.Config{
		ImproveWebhookURL: srv.URL,
		ProxyDeadline:     2 * time.Second,
	})

	_, body := postJSON(t, app, "/api/v1/proxy/improve", `{"text":"y"}`)
	if body["extracted"] == nil {
		t.Fatalf("structured fields not extracted: %v", body)
	}
	if body["keywords_paragraph"] != "a، b، c" {
		t.Errorf("keyword paragraph not normalized: %v", body["keywords_paragraph"])
	}
}

func TestTranslateTemplateOnlyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Traduction": "{{ not resolved }}"}`))
	}))
	defer srv.Close()

	app := newTestApp(&config.Config{
		TranslationWebhookURL: srv.URL,
		ProxyDeadline:         2 * time.Second,
	})

	status, body := postJSON(t, app, "/api/v1/translate", `{"text": "Bonjour", "langPair": "fr-ar"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["translation"] != extract.NoTranslationFallback {
		t.Errorf("expected the fallback line, got %v", body["translation"])
	}
	if body["error"] != extract.ErrUnresolvedVariables {
		t.Errorf("expected unresolved-variables error, got %v", body["error"])
	}
}

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Traduction": "صباح الخير"}`))
	}))
	defer srv.Close()

	app := newTestApp(&config.Config{
		TranslationWebhookURL: srv.URL,
		ProxyDeadline:         2 * time.Second,
	})

	_, body := postJSON(t, app, "/api/v1/translate", `{"text": "Bonjour", "langPair": "fr-ar"}`)
	if body["translation"] != "صباح الخير" {
		t.Errorf("unexpected translation: %v", body["translation"])
	}
	if body["direction"] != "rtl" {
		t.Errorf("expected rtl direction for Arabic output, got %v", body["direction"])
	}
}

func TestTranslateValidation(t *testing.T) {
	app := newTestApp(&config.Config{ProxyDeadline: time.Second})

	status, _ := postJSON(t, app, "/api/v1/translate", `{"text": ""}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing fields, got %d", status)
	}
}

func TestSearchProxyTotalFailureReportsAttempts(t *testing.T) {
	app := newTestApp(&config.Config{
		SearchWebhookURL:     "http://127.0.0.1:1/prod",
		SearchTestWebhookURL: "http://127.0.0.1:1/test",
		ProxyDeadline:        2 * time.Second,
	})

	status, body := postJSON(t, app, "/api/v1/proxy/search", `{"query": "élections"}`)
	if status != http.StatusOK {
		t.Errorf("total failure must still answer 200, got %d", status)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body)
	}
	attempts, _ := body["attemptedUrls"].([]any)
	if len(attempts) != 6 {
		t.Errorf("expected 6 attempted URL/method combos, got %d", len(attempts))
	}
}

func TestGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"url": "https://img.example/gen.png"}}`))
	}))
	defer srv.Close()

	app := newTestApp(&config.Config{
		ImageWebhookURL: srv.URL,
		ProxyDeadline:   2 * time.Second,
	})

	_, body := postJSON(t, app, "/api/v1/images/generate", `{"prompt": "un phare au crépuscule"}`)
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	if body["image_url"] != "https://img.example/gen.png" {
		t.Errorf("unexpected image URL: %v", body["image_url"])
	}
}

func TestTrackAnalyticsRejectsUnknownMetric(t *testing.T) {
	app := newTestApp(&config.Config{ProxyDeadline: time.Second})

	status, body := postJSON(t, app, "/api/v1/analytics/track", `{"metric": "clicks"}`)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown metric, got %d", status)
	}
	if body["error"] == nil {
		t.Error("expected an error body")
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	app := newTestApp(&config.Config{AdminAPIKey: "secret", ProxyDeadline: time.Second})

	status, _ := postJSON(t, app, "/api/v1/admin/articles", `{"title": "t", "content": "c"}`)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without API key, got %d", status)
	}
}

func TestProfileRoutesRegistered(t *testing.T) {
	app := newTestApp(&config.Config{ProxyDeadline: time.Second})

	want := map[string]bool{
		"/api/v1/profiles":     false,
		"/api/v1/profiles/:id": false,
	}
	for _, route := range app.GetRoutes(true) {
		if route.Method == http.MethodGet {
			if _, ok := want[route.Path]; ok {
				want[route.Path] = true
			}
		}
	}
	for path, found := range want {
		if !found {
			t.Errorf("GET %s not registered", path)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(&config.Config{ProxyDeadline: time.Second})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
