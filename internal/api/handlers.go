package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahafa/newsroom/internal/config"
	"github.com/sahafa/newsroom/internal/extract"
	"github.com/sahafa/newsroom/internal/images"
	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/middleware"
	"github.com/sahafa/newsroom/internal/models"
	"github.com/sahafa/newsroom/internal/news"
	"github.com/sahafa/newsroom/internal/store"
	"github.com/sahafa/newsroom/internal/textdir"
	"github.com/sahafa/newsroom/internal/webhook"
)

type Handlers struct {
	config     *config.Config
	client     *webhook.Client
	aggregator *news.Aggregator
	store      *store.Store
	generator  *images.Generator
	validator  *middleware.Validator
}

func NewHandlers(cfg *config.Config, client *webhook.Client, aggregator *news.Aggregator, st *store.Store, generator *images.Generator) *Handlers {
	return &Handlers{
		config:     cfg,
		client:     client,
		aggregator: aggregator,
		store:      st,
		generator:  generator,
		validator:  middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetNews handles GET /api/v1/news?country=ma&lang=fr
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	country := c.Query("country", news.CountryMorocco)
	lang := c.Query("lang", news.LangFrench)

	report, err := h.aggregator.Aggregate(c.Context(), country, lang)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := fiber.Map{
		"items":      report.Items,
		"total":      len(report.Items),
		"from_cache": report.FromCache,
	}
	if len(report.FailedSources) > 0 {
		resp["failed_sources"] = report.FailedSources
	}
	if report.AllFailed() {
		// Still a 200: the page renders the empty list plus this warning.
		resp["warning"] = "Aucune actualité disponible pour le moment."
	}
	return c.JSON(resp)
}

type translateRequest struct {
	Text     string `json:"text" validate:"required"`
	LangPair string `json:"langPair" validate:"required"`
}

// Translate handles POST /api/v1/translate
func (h *Handlers) Translate(c *fiber.Ctx) error {
	var req translateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.ValidationErrors(err),
		})
	}

	env := h.client.ForwardWithRecovery(
		c.Context(), h.config.TranslationWebhookURL, c.Body(), "application/json", h.config.ProxyDeadline)

	result := extract.Translation(envelopePayload(env))
	display := result.Display()

	return c.JSON(fiber.Map{
		"ok":          env.OK,
		"status":      env.Status,
		"translation": display,
		"direction":   textdir.Direction(display),
		"error":       result.Err,
	})
}

// ImproveProxy handles POST /api/v1/proxy/improve. Always answers 200 with
// the envelope; the redirect replay and GET fallback live in the client.
func (h *Handlers) ImproveProxy(c *fiber.Ctx) error {
	env := h.client.ForwardWithRecovery(
		c.Context(), h.config.ImproveWebhookURL, c.Body(), c.Get("Content-Type"), h.config.ProxyDeadline)

	resp := envelopeMap(env)
	if env.OK {
		if result := extract.Structured(envelopePayload(env)); result.Kind == extract.KindFields {
			resp["extracted"] = result.Fields
			resp["keywords_paragraph"] = extract.JoinKeywords(result.Fields.Keywords)
			resp["hashtags_paragraph"] = extract.JoinKeywords(result.Fields.Hashtags)
		}
	}
	return c.JSON(resp)
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// SearchProxy handles POST /api/v1/proxy/search, racing the production and
// test webhook URLs.
func (h *Handlers) SearchProxy(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.ValidationErrors(err),
		})
	}

	res := h.client.Race(
		c.Context(),
		[]string{h.config.SearchWebhookURL, h.config.SearchTestWebhookURL},
		map[string]string{"query": req.Query},
		h.config.ProxyDeadline,
	)

	if !res.Envelope.OK {
		// Still 200: expected upstream flakiness must not trip the
		// browser's fetch error path.
		return c.JSON(fiber.Map{
			"success":       false,
			"error":         "search webhook unavailable",
			"details":       res.Envelope.Error,
			"attemptedUrls": res.AttemptedURLs,
		})
	}
	return c.JSON(envelopeMap(res.Envelope))
}

// BriefingProxy handles POST /api/v1/proxy/briefing
func (h *Handlers) BriefingProxy(c *fiber.Ctx) error {
	return h.passthrough(c, h.config.BriefingWebhookURL)
}

// TranscriptionProxy handles POST /api/v1/proxy/transcription (multipart audio)
func (h *Handlers) TranscriptionProxy(c *fiber.Ctx) error {
	return h.passthrough(c, h.config.TranscriptionWebhookURL)
}

// PDFProxy handles POST /api/v1/proxy/pdf (multipart document)
func (h *Handlers) PDFProxy(c *fiber.Ctx) error {
	return h.passthrough(c, h.config.PDFWebhookURL)
}

// passthrough forwards the request body as-is, multipart boundary included.
func (h *Handlers) passthrough(c *fiber.Ctx, url string) error {
	env := h.client.Forward(c.Context(), url, c.Body(), c.Get("Content-Type"))
	return c.JSON(envelopeMap(env))
}

type generateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3"`
}

// GenerateImage handles POST /api/v1/images/generate
func (h *Handlers) GenerateImage(c *fiber.Ctx) error {
	var req generateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.ValidationErrors(err),
		})
	}

	result, err := h.generator.Generate(c.Context(), req.Prompt)
	if err != nil {
		logger.Get().Error().Err(err).Msg("image generation failed")
		return c.JSON(fiber.Map{
			"success":     false,
			"error":       "image generation failed",
			"details":     err.Error(),
			"translation": result.Translation,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"image_url":   result.ImageURL,
		"mirrored":    result.Mirrored,
		"translation": result.Translation,
	})
}

type trackRequest struct {
	Metric string `json:"metric" validate:"required"`
}

// TrackAnalytics handles POST /api/v1/analytics/track. Unlike the proxy
// endpoints this one keeps real HTTP status codes.
func (h *Handlers) TrackAnalytics(c *fiber.Ctx) error {
	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if !store.ValidMetric(req.Metric) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown metric: " + req.Metric,
		})
	}

	row, err := h.store.TrackMetric(c.Context(), req.Metric, time.Now())
	if err != nil {
		logger.Get().Error().Err(err).Str("metric", req.Metric).Msg("analytics tracking failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to track metric",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    row,
	})
}

// AnalyticsRange handles GET /api/v1/admin/analytics?from=...&to=...
func (h *Handlers) AnalyticsRange(c *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}

	rows, err := h.store.AnalyticsRange(c.Context(), from, to)
	if err != nil {
		logger.Get().Error().Err(err).Msg("analytics range query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load analytics",
		})
	}
	return c.JSON(fiber.Map{"items": rows, "total": len(rows)})
}

// ListArticles handles GET /api/v1/articles
func (h *Handlers) ListArticles(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	articles, err := h.store.RecentArticles(c.Context(), limit)
	if err != nil {
		logger.Get().Error().Err(err).Msg("listing articles failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list articles",
		})
	}
	return c.JSON(fiber.Map{"items": articles, "total": len(articles)})
}

// GetArticleByID handles GET /api/v1/articles/:id
func (h *Handlers) GetArticleByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Article ID is required",
		})
	}

	article, err := h.store.ArticleByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Article not found",
		})
	}
	return c.JSON(article)
}

type createArticleRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

// CreateArticle handles POST /api/v1/admin/articles
func (h *Handlers) CreateArticle(c *fiber.Ctx) error {
	var req createArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.ValidationErrors(err),
		})
	}

	id, err := h.store.AddArticle(c.Context(), store.Article{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("creating article failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create article",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// ListProfiles handles GET /api/v1/profiles, the newsroom staff directory.
func (h *Handlers) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.store.Profiles(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("listing profiles failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list profiles",
		})
	}
	return c.JSON(fiber.Map{"items": profiles, "total": len(profiles)})
}

// GetProfile handles GET /api/v1/profiles/:id
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	profile, err := h.store.ProfileByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	return c.JSON(profile)
}

// envelopeMap renders an envelope as the response body, keeping the
// ok/status/data|body|error contract.
func envelopeMap(env models.Envelope) fiber.Map {
	resp := fiber.Map{
		"ok":     env.OK,
		"status": env.Status,
	}
	switch env.Kind() {
	case models.EnvelopeData:
		resp["data"] = env.Data
	case models.EnvelopeBody:
		resp["body"] = env.Body
	case models.EnvelopeError:
		resp["error"] = env.Error
	}
	return resp
}

func envelopePayload(env models.Envelope) any {
	if env.Data != nil {
		return env.Data
	}
	return env.Body
}
