package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/luzyverdad/luz/internal/api"
	"github.com/luzyverdad/luz/internal/bible"
	"github.com/luzyverdad/luz/internal/config"
	"github.com/luzyverdad/luz/internal/logging"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/prayer"
	"github.com/luzyverdad/luz/internal/render"
	"github.com/luzyverdad/luz/internal/telemetry"
)

// globalOptions holds the persistent root flags
type globalOptions struct {
	model      string
	verbose    bool
	configFile string
}

// loadConfig applies --config and reads the configuration
func (o *globalOptions) loadConfig() (config.Config, error) {
	if o.configFile != "" {
		config.SetConfigFile(o.configFile)
	}
	return config.LoadConfig()
}

// backend is what the commands share once the config is loaded
type backend struct {
	cfg     config.Config
	verbose bool
	model   models.Model
	stderr  io.Writer

	logger    zerolog.Logger
	client    api.GeminiClientInterface
	finder    *bible.Finder
	generator *prayer.Generator

	closers []func()
}

// openBackend loads the config, sets up logging and tracing and builds the
// Gemini and bible-api clients.
func openBackend(ctx context.Context, deps *Dependencies, opts *globalOptions) (*backend, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	b := &backend{
		cfg:     cfg,
		verbose: opts.verbose || cfg.Verbose,
		stderr:  deps.Stderr,
	}

	modelName := cfg.DefaultModel
	if opts.model != "" {
		modelName = opts.model
	}
	b.model = models.ModelFromName(modelName)

	b.logger = logging.Discard()
	if dir, err := config.EnsureConfigDir(); err == nil {
		if logger, closeLog, err := logging.Setup(dir, b.verbose); err == nil {
			b.logger = logger
			b.closers = append(b.closers, func() { _ = closeLog() })
		}
	}

	provider, err := telemetry.Setup(ctx, Version)
	if err != nil {
		b.verbosef("tracing disabled: %v", err)
	} else if provider.Enabled() {
		b.closers = append(b.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(shutdownCtx)
		})
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	b.client = deps.Client
	if b.client == nil {
		clientOpts := []api.ClientOption{
			api.WithModel(b.model),
			api.WithBaseURL(cfg.APIBaseURL),
			api.WithTimeout(timeout),
			api.WithLogger(b.logger),
		}
		if cfg.Temperature > 0 {
			clientOpts = append(clientOpts, api.WithTemperature(cfg.Temperature))
		}
		client, err := api.NewClient(cfg.APIKey, clientOpts...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		b.client = client
		b.closers = append(b.closers, client.Close)
	}

	httpClient := deps.HTTP
	if httpClient == nil {
		if gc, ok := b.client.(*api.GeminiClient); ok {
			httpClient = gc.GetHTTPClient()
		}
	}
	bibleOpts := []bible.ClientOption{
		bible.WithBaseURL(cfg.BibleAPIURL),
		bible.WithTranslation(cfg.Translation),
		bible.WithTimeout(timeout),
		bible.WithLogger(b.logger),
	}
	if httpClient != nil {
		bibleOpts = append(bibleOpts, bible.WithHTTPClient(httpClient))
	}
	bibleClient, err := bible.NewClient(bibleOpts...)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create bible client: %w", err)
	}

	b.finder = bible.NewFinder(bibleClient, b.client, bible.WithFinderLogger(b.logger))
	b.generator = prayer.NewGenerator(b.client, prayer.WithLogger(b.logger))

	b.verbosef("Model: %s", b.model.Name)
	b.logger.Debug().
		Str("model", b.model.Name).
		Str("translation", cfg.Translation).
		Bool("tracing", provider != nil && provider.Enabled()).
		Msg("backend ready")
	return b, nil
}

// Close releases the clients, flushes spans and closes the log file
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// verbosef prints a [verbose] line to stderr when verbose output is on
func (b *backend) verbosef(format string, args ...any) {
	if !b.verbose || b.stderr == nil {
		return
	}
	fmt.Fprintf(b.stderr, "[verbose] "+format+"\n", args...)
}

// markdownOptions returns the configured markdown options at width
func (b *backend) markdownOptions(width int) render.Options {
	return render.OptionsFromConfig(b.cfg.Markdown).WithWidth(width)
}

// copyIfEnabled copies text when copy_to_clipboard is on
func (b *backend) copyIfEnabled(deps *Dependencies, text string) {
	if !b.cfg.CopyToClipboard || deps.Clipboard == nil {
		return
	}
	if err := deps.Clipboard(text); err != nil {
		fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ No se pudo copiar al portapapeles: %v", err)))
		return
	}
	fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Copiado al portapapeles"))
}
