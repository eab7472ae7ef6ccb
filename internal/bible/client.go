package bible

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/luzyverdad/luz/internal/api"
	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/telemetry"
)

// DefaultTranslation is served by bible-api.com for every book
const DefaultTranslation = "web"

// GJSON paths in a bible-api.com response
const (
	pathReference       = "reference"
	pathText            = "text"
	pathTranslationID   = "translation_id"
	pathTranslationName = "translation_name"
	pathError           = "error"
)

// Client fetches passages from bible-api.com
type Client struct {
	httpClient  api.HTTPDoer
	baseURL     string
	translation string
	timeout     time.Duration
	logger      zerolog.Logger
	tracer      oteltrace.Tracer
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client, usually the one shared with the Gemini client
func WithHTTPClient(doer api.HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithBaseURL overrides https://bible-api.com
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTranslation sets the translation used when a lookup names none
func WithTranslation(id string) ClientOption {
	return func(c *Client) {
		if id != "" {
			c.translation = strings.ToLower(id)
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a bible-api.com client
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:     models.EndpointBibleAPI,
		translation: DefaultTranslation,
		timeout:     api.DefaultTimeout,
		logger:      zerolog.Nop(),
		tracer:      telemetry.Tracer("github.com/luzyverdad/luz/internal/bible"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := api.NewHTTPClient(c.timeout)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}
	return c, nil
}

// Translation returns the default translation id
func (c *Client) Translation() string {
	return c.translation
}

// Lookup fetches ref in the given translation; an empty translation uses the default
func (c *Client) Lookup(ctx context.Context, ref Reference, translation string) (*models.BibleVerse, error) {
	if ref.IsZero() {
		return nil, apierrors.NewValidationError("reference", "empty reference")
	}
	translation = strings.ToLower(strings.TrimSpace(translation))
	if translation == "" {
		translation = c.translation
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "bible.lookup", oteltrace.WithAttributes(
		attribute.String("bible.reference", ref.String()),
		attribute.String("bible.translation", translation),
	))
	defer span.End()

	endpoint := fmt.Sprintf("%s/%s?translation=%s", c.baseURL, ref.PathSegment(), translation)
	start := time.Now()

	verse, err := c.fetch(ctx, endpoint, ref)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn().Err(err).Str("reference", ref.String()).Str("translation", translation).Msg("bible lookup failed")
		return nil, err
	}

	c.logger.Debug().Str("reference", verse.Reference).Str("translation", verse.TranslationID).Dur("duration", time.Since(start)).Msg("bible lookup")
	return verse, nil
}

// LookupString parses query as a reference and looks it up
func (c *Client) LookupString(ctx context.Context, query, translation string) (*models.BibleVerse, error) {
	ref, err := ParseReference(query)
	if err != nil {
		return nil, err
	}
	return c.Lookup(ctx, ref, translation)
}

func (c *Client) fetch(ctx context.Context, endpoint string, ref Reference) (*models.BibleVerse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, api.TransportError(ctx, "bible lookup", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("passage %s", ref.String()))
	case resp.StatusCode != http.StatusOK:
		body := api.ReadErrorBody(resp)
		message := gjson.Get(body, pathError).String()
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, apierrors.FromStatus(resp.StatusCode, endpoint, message, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, api.TransportError(ctx, "read bible response", endpoint, err)
	}
	return parseVerse(body)
}

// parseVerse maps a bible-api.com body onto a BibleVerse
func parseVerse(body []byte) (*models.BibleVerse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("bible response is not valid JSON", "")
	}
	root := gjson.ParseBytes(body)

	if msg := root.Get(pathError); msg.Exists() {
		return nil, apierrors.NewNotFoundError(msg.String())
	}

	text := strings.TrimSpace(root.Get(pathText).String())
	if text == "" {
		return nil, apierrors.NewParseError("missing passage text", pathText)
	}

	return &models.BibleVerse{
		Reference:       root.Get(pathReference).String(),
		Text:            text,
		TranslationID:   root.Get(pathTranslationID).String(),
		TranslationName: root.Get(pathTranslationName).String(),
	}, nil
}
