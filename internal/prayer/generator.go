// Package prayer builds prayer prompts and generates prayers with Gemini.
package prayer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/luzyverdad/luz/internal/api"
	apierrors "github.com/luzyverdad/luz/internal/errors"
)

// MaxIntentionLength is the longest intention accepted, in runes
const MaxIntentionLength = 500

// DefaultTitle is used when the response has no heading
const DefaultTitle = "Oración"

// Request is what the user asks to pray for
type Request struct {
	Intention string
	Style     Style
}

// Prayer is a generated prayer
type Prayer struct {
	Intention string    `json:"intention"`
	Style     Style     `json:"style"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate normalises the request and checks the intention
func (r *Request) Validate() error {
	r.Intention = strings.TrimSpace(r.Intention)
	if r.Intention == "" {
		return apierrors.NewValidationError("intention", "escribe por qué o por quién quieres orar")
	}
	if n := utf8.RuneCountInString(r.Intention); n > MaxIntentionLength {
		return apierrors.NewValidationError("intention", fmt.Sprintf("la intención es demasiado larga (%d de %d caracteres)", n, MaxIntentionLength))
	}

	style, err := ParseStyle(string(r.Style))
	if err != nil {
		return err
	}
	r.Style = style
	return nil
}

// BuildPrompt returns the instructions sent to the model
func BuildPrompt(r Request) string {
	var sb strings.Builder
	sb.WriteString("Escribe una oración cristiana en español, en primera persona, dirigida a Dios.\n")
	fmt.Fprintf(&sb, "Intención: %s\n", r.Intention)
	fmt.Fprintf(&sb, "Estilo: %s. %s\n", r.Style.Label(), r.Style.Guidance())
	sb.WriteString("Empieza con un título breve en markdown (\"# ...\").\n")
	sb.WriteString("Puedes incluir alguna referencia bíblica si encaja de forma natural.\n")
	sb.WriteString("Termina la oración con \"Amén.\"")
	return sb.String()
}

// Generator produces prayers
type Generator struct {
	client api.ContentGenerator
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the generator's logger
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator backed by client
func NewGenerator(client api.ContentGenerator, opts ...Option) *Generator {
	g := &Generator{client: client, logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates req, asks the model and returns the prayer
func (g *Generator) Generate(ctx context.Context, req Request) (*Prayer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out, err := g.client.GenerateContent(ctx, BuildPrompt(req), &api.GenerateOptions{Temperature: 0.9})
	if err != nil {
		return nil, err
	}

	text := ensureAmen(strings.TrimSpace(out.Text()))
	title := extractTitle(text)

	g.logger.Debug().Str("style", string(req.Style)).Str("title", title).Bool("truncated", out.Truncated()).Msg("prayer generated")

	return &Prayer{
		Intention: req.Intention,
		Style:     req.Style,
		Title:     title,
		Text:      text,
		CreatedAt: g.now(),
	}, nil
}

// extractTitle returns the first markdown heading, or DefaultTitle
func extractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		title = strings.Trim(title, "*_ ")
		if title != "" {
			return title
		}
	}
	return DefaultTitle
}

// ensureAmen appends the closing Amén when the model left it out
func ensureAmen(text string) string {
	tail := strings.ToLower(strings.TrimRight(text, " .!*_\n"))
	if strings.HasSuffix(tail, "amén") || strings.HasSuffix(tail, "amen") {
		return text
	}
	return text + "\n\nAmén."
}

// PlainText strips markdown heading markers, for the clipboard
func (p Prayer) PlainText() string {
	lines := strings.Split(p.Text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(strings.TrimLeft(l, "#"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
