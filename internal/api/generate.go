package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/telemetry"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// GenerateOptions contains options for content generation
type GenerateOptions struct {
	Model             models.Model
	SystemInstruction string
	History           []models.Message // Prior turns, oldest first
	JSON              bool             // Ask for an application/json response
	Temperature       float64          // Overrides the client default when > 0
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

// GenerateContent sends a prompt, with optional history, and returns the parsed response
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.NewValidationError("prompt", "prompt cannot be empty")
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: run 'luz config set api_key <key>' or set GEMINI_API_KEY", apierrors.ErrNoAPIKey)
	}
	if opts == nil {
		opts = &GenerateOptions{}
	}

	model := c.GetModel()
	if opts.Model.Name != "" {
		model = opts.Model
	}
	temperature := c.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "gemini.generateContent", oteltrace.WithAttributes(
		attribute.String("gemini.model", model.Name),
		attribute.Int("gemini.history_len", len(opts.History)),
		attribute.Bool("gemini.json", opts.JSON),
	))
	defer span.End()

	payload, err := buildPayload(prompt, opts, temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := c.endpoint(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	c.logger.Debug().Str("model", model.Name).Int("history", len(opts.History)).Bool("json", opts.JSON).Msg("gemini request")

	output, err := c.do(ctx, req, endpoint, model)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn().Err(err).Str("model", model.Name).Dur("duration", time.Since(start)).Msg("gemini request failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("gemini.tokens.total", output.Usage.TotalTokens))
	c.logger.Debug().
		Str("model", output.Model).
		Dur("duration", time.Since(start)).
		Str("finish_reason", output.FinishReason()).
		Int64("tokens", output.Usage.TotalTokens).
		Msg("gemini response")
	return output, nil
}

func (c *GeminiClient) do(ctx context.Context, req *http.Request, endpoint string, model models.Model) (*models.ModelOutput, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, TransportError(ctx, "generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp.StatusCode, endpoint, ReadErrorBody(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, TransportError(ctx, "read response", endpoint, err)
	}

	return parseResponse(body, model.Name)
}

// buildPayload creates the generateContent request body
func buildPayload(prompt string, opts *GenerateOptions, temperature float64) ([]byte, error) {
	req := generateRequest{
		GenerationConfig: generationConfig{Temperature: temperature},
	}
	if opts.SystemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: opts.SystemInstruction}}}
	}
	if opts.JSON {
		req.GenerationConfig.ResponseMimeType = "application/json"
	}

	req.Contents = make([]content, 0, len(opts.History)+1)
	for _, msg := range opts.History {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		req.Contents = append(req.Contents, content{Role: msg.Role(), Parts: []part{{Text: msg.Text}}})
	}
	req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: prompt}}})

	return json.Marshal(req)
}

// parseResponse extracts candidates and usage from a generateContent body
func parseResponse(body []byte, modelName string) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}
	root := gjson.ParseBytes(body)

	if reason := root.Get(PathBlockReason); reason.Exists() {
		return nil, apierrors.NewBlockedError(reason.String())
	}

	candList := root.Get(PathCandidates)
	if !candList.IsArray() || len(candList.Array()) == 0 {
		return nil, apierrors.NewParseError("no candidates in response", PathCandidates)
	}

	output := &models.ModelOutput{Model: modelName}
	if v := root.Get(PathModelVersion).String(); v != "" {
		output.Model = v
	}

	candList.ForEach(func(_, cand gjson.Result) bool {
		var sb strings.Builder
		for _, t := range cand.Get(PathCandText).Array() {
			sb.WriteString(t.String())
		}
		output.Candidates = append(output.Candidates, models.Candidate{
			Text:         sb.String(),
			FinishReason: cand.Get(PathCandFinish).String(),
		})
		return true
	})

	output.Usage = models.Usage{
		PromptTokens:    root.Get(PathUsagePrompt).Int(),
		CandidateTokens: root.Get(PathUsageCands).Int(),
		TotalTokens:     root.Get(PathUsageTotal).Int(),
	}

	chosen := output.ChosenCandidate()
	if strings.TrimSpace(chosen.Text) == "" {
		if isBlockedFinish(chosen.FinishReason) {
			return nil, apierrors.NewBlockedError(chosen.FinishReason)
		}
		return nil, fmt.Errorf("%w (finish reason %q)", apierrors.ErrNoContent, chosen.FinishReason)
	}

	return output, nil
}

func isBlockedFinish(reason string) bool {
	switch strings.ToUpper(reason) {
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "IMAGE_SAFETY":
		return true
	}
	return false
}

// parseErrorResponse maps a non-200 generateContent response to a typed error
func parseErrorResponse(status int, endpoint, body string) error {
	message := gjson.Get(body, PathErrorMessage).String()
	if message == "" {
		message = http.StatusText(status)
	}

	if status == http.StatusBadRequest && gjson.Get(body, PathErrorKeyInvalid).Exists() {
		return fmt.Errorf("%w (HTTP %d)", apierrors.NewAuthError(message), status)
	}
	if gjson.Get(body, PathErrorStatus).String() == "RESOURCE_EXHAUSTED" {
		status = http.StatusTooManyRequests
	}

	return apierrors.FromStatus(status, endpoint, message, body)
}

// ReadErrorBody reads at most 4KB of a failed response for diagnostics
func ReadErrorBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return string(data)
}

// TransportError classifies a failed request as a timeout, a cancellation or a network error
func TransportError(ctx context.Context, operation, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(operation)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", operation, context.Canceled)
	}
	return apierrors.NewNetworkError(operation, endpoint, err)
}
