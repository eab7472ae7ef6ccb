package bible

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/luzyverdad/luz/internal/api"
	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/models"
)

// VerseLookup is implemented by Client
type VerseLookup interface {
	Lookup(ctx context.Context, ref Reference, translation string) (*models.BibleVerse, error)
}

// Result is a found passage and how it was found
type Result struct {
	Query     string
	Reference Reference
	Verse     *models.BibleVerse
	FromTopic bool // true when the reference was suggested by the model
}

// Finder turns a reference or a topic into a passage
type Finder struct {
	lookup    VerseLookup
	generator api.ContentGenerator
	logger    zerolog.Logger
}

// FinderOption configures a Finder
type FinderOption func(*Finder)

// WithFinderLogger sets the logger used for topic resolution
func WithFinderLogger(l zerolog.Logger) FinderOption {
	return func(f *Finder) {
		f.logger = l
	}
}

// NewFinder creates a Finder. generator may be nil, in which case only
// references are accepted.
func NewFinder(lookup VerseLookup, generator api.ContentGenerator, opts ...FinderOption) *Finder {
	f := &Finder{lookup: lookup, generator: generator, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find looks query up directly when it is a reference, otherwise asks the
// model for a matching reference first.
func (f *Finder) Find(ctx context.Context, query, translation string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierrors.NewValidationError("query", "escribe una referencia o un tema")
	}

	ref, err := ParseReference(query)
	fromTopic := false
	if err != nil {
		if f.generator == nil {
			return nil, err
		}
		ref, err = f.SuggestReference(ctx, query)
		if err != nil {
			return nil, err
		}
		fromTopic = true
		f.logger.Debug().Str("topic", query).Str("reference", ref.String()).Msg("topic resolved")
	}

	verse, err := f.lookup.Lookup(ctx, ref, translation)
	if err != nil {
		return nil, err
	}

	return &Result{Query: query, Reference: ref, Verse: verse, FromTopic: fromTopic}, nil
}

// SuggestReference asks the model for the single passage that best fits topic
func (f *Finder) SuggestReference(ctx context.Context, topic string) (Reference, error) {
	if f.generator == nil {
		return Reference{}, fmt.Errorf("topic search needs a Gemini API key")
	}

	out, err := f.generator.GenerateContent(ctx, suggestionPrompt(topic), &api.GenerateOptions{
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return Reference{}, err
	}

	suggested := extractReference(out.Text())
	if suggested == "" {
		return Reference{}, apierrors.NewParseError("model did not suggest a reference", "reference")
	}

	ref, err := ParseReference(suggested)
	if err != nil {
		return Reference{}, fmt.Errorf("model suggested %q: %w", suggested, err)
	}
	return ref, nil
}

func suggestionPrompt(topic string) string {
	return fmt.Sprintf(`Encuentra el versículo bíblico que mejor responda a este tema o necesidad: %q.
Responde solo con JSON de la forma {"reference": "Libro capítulo:versículo"}.
Usa el nombre del libro en inglés (por ejemplo "John 3:16", "Psalms 23:1-4", "1 Corinthians 13:4-7").
Puedes indicar un rango corto de versículos si el pasaje lo necesita.`, topic)
}

// extractReference reads {"reference": ...} from the model text, tolerating
// code fences and a bare reference.
func extractReference(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if gjson.Valid(text) {
		root := gjson.Parse(text)
		if root.IsArray() {
			root = root.Get("0")
		}
		return strings.TrimSpace(root.Get("reference").String())
	}
	if IsReference(text) {
		return text
	}
	return ""
}
