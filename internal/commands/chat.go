package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/config"
	"github.com/luzyverdad/luz/internal/history"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/nav"
	"github.com/luzyverdad/luz/internal/prayer"
	"github.com/luzyverdad/luz/internal/render"
	"github.com/luzyverdad/luz/internal/tui"
)

// tuiRequest is what the root and chat commands ask of the TUI
type tuiRequest struct {
	view    nav.View
	persona string
	resume  string
}

func newChatCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	var req tuiRequest

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Abre el chat espiritual",
		Long: `Abre la interfaz en la vista de chat.

La conversación mantiene el contexto entre mensajes. Comandos dentro del chat:
  /nuevo        Empieza una conversación nueva
  /historial    Reanuda una conversación guardada
  /persona      Cambia de persona (p. ej. /persona pastor)
  /salir        Cierra la aplicación

` + history.ListAliases(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.view = nav.Chat
			return runTUI(cmd, deps, opts, req)
		},
	}

	cmd.Flags().StringVarP(&req.persona, "persona", "p", "", "Persona del chat (ver 'luz personas')")
	cmd.Flags().StringVarP(&req.resume, "resume", "r", "", "Reanuda una conversación (@last, índice, id o título)")

	return cmd
}

// runTUI wires the backend into the panes and starts the interface
func runTUI(cmd *cobra.Command, deps *Dependencies, opts *globalOptions, req tuiRequest) error {
	b, err := openBackend(cmd.Context(), deps, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	personaName := req.persona
	if personaName == "" {
		personaName = b.cfg.DefaultPersona
	}
	persona, err := config.ResolvePersona(personaName)
	if err != nil {
		return fmt.Errorf("failed to load persona '%s': %w", personaName, err)
	}
	b.verbosef("Using persona: %s", persona.Name)

	model := b.model
	if opts.model == "" && persona.Model != "" {
		model = models.ModelFromName(persona.Model)
	}

	session := b.client.StartChat(persona.SystemPrompt, model)
	if persona.Temperature > 0 {
		session.SetTemperature(persona.Temperature)
	}

	chatCfg := tui.ChatConfig{
		Session:   session,
		Personas:  config.ResolvePersona,
		Persona:   persona.Name,
		ModelName: model.Name,
	}

	if b.cfg.SaveHistory || req.resume != "" {
		store, err := history.DefaultStore()
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		if b.cfg.SaveHistory {
			chatCfg.Store = store
		}
		if req.resume != "" {
			conv, err := history.NewResolver(store).ResolveWithInfo(req.resume)
			if err != nil {
				return fmt.Errorf("failed to resume conversation: %w", err)
			}
			b.verbosef("Resuming conversation %s (%d messages)", conv.ID, len(conv.Messages))
			chatCfg.Resume = conv
		}
	}

	b.logger.Info().Str("view", req.view.String()).Str("persona", persona.Name).Str("model", model.Name).Msg("tui start")

	err = deps.TUI.Run(tui.Options{
		Chat:         chatCfg,
		Finder:       b.finder,
		Translations: b.cfg.Translations,
		Translation:  b.cfg.Translation,
		Generator:    b.generator,
		PrayerStyle:  prayer.DefaultStyle,
		Markdown:     render.OptionsFromConfig(b.cfg.Markdown),
		Theme:        b.cfg.TUITheme,
		InitialView:  req.view,
		ModelName:    model.Name,
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("tui exited")
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
