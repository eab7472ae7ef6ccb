package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/history"
)

func newHistoryCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Gestiona las conversaciones guardadas",
		Long:  "Lista, muestra, exporta y borra las conversaciones del chat.\n\n" + history.ListAliases(),
	}

	var exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Exporta una conversación a markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryExport(deps, args[0], exportOutput)
		},
	}
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Archivo de salida (por defecto stdout)")

	var searchContent bool
	searchCmd := &cobra.Command{
		Use:   "search <texto>",
		Short: "Busca conversaciones por título o contenido",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistorySearch(deps, strings.Join(args, " "), searchContent)
		},
	}
	searchCmd.Flags().BoolVarP(&searchContent, "content", "c", false, "Busca también en los mensajes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lista las conversaciones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryList(deps)
			},
		},
		&cobra.Command{
			Use:   "show <ref>",
			Short: "Muestra una conversación",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryShow(deps, args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <ref>",
			Short: "Borra una conversación",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryDelete(deps, args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Borra todas las conversaciones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryClear(deps)
			},
		},
		exportCmd,
		searchCmd,
	)

	return cmd
}

func openHistory() (*history.Store, error) {
	store, err := history.DefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// resolveConversation opens the store and resolves ref
func resolveConversation(ref string) (*history.Store, *history.Conversation, error) {
	store, err := openHistory()
	if err != nil {
		return nil, nil, err
	}
	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return nil, nil, err
	}
	return store, conv, nil
}

func runHistoryList(deps *Dependencies) error {
	store, err := openHistory()
	if err != nil {
		return err
	}

	conversations, err := store.ListConversations()
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Fprintln(deps.Stdout, "No hay conversaciones guardadas.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tID\tTÍTULO\tPERSONA\tMENSAJES\tACTUALIZADA")

	for i, conv := range conversations {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			i+1, conv.ID[:min(8, len(conv.ID))], truncate(conv.Title, 40), conv.Persona,
			len(conv.Messages), history.FormatRelativeTime(conv.UpdatedAt))
	}

	return w.Flush()
}

func runHistoryShow(deps *Dependencies, ref string) error {
	_, conv, err := resolveConversation(ref)
	if err != nil {
		return err
	}

	out := deps.Stdout
	fmt.Fprintf(out, "ID: %s\n", conv.ID)
	fmt.Fprintf(out, "Título: %s\n", conv.Title)
	fmt.Fprintf(out, "Modelo: %s\n", conv.Model)
	if conv.Persona != "" {
		fmt.Fprintf(out, "Persona: %s\n", conv.Persona)
	}
	fmt.Fprintf(out, "Creada: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Actualizada: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Mensajes: %d\n\n", len(conv.Messages))

	for i, msg := range conv.Messages {
		role := "Luz"
		if msg.IsUser() {
			role = "Tú"
		}
		fmt.Fprintf(out, "[%d] %s (%s):\n", i+1, role, msg.Timestamp.Format("15:04"))
		fmt.Fprintf(out, "  %s\n\n", strings.ReplaceAll(truncate(msg.Text, 500), "\n", "\n  "))
	}

	return nil
}

func runHistoryDelete(deps *Dependencies, ref string) error {
	store, conv, err := resolveConversation(ref)
	if err != nil {
		return err
	}

	if err := store.DeleteConversation(conv.ID); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Conversación borrada: %s (%s)\n", conv.Title, conv.ID)
	return nil
}

func runHistoryClear(deps *Dependencies) error {
	store, err := openHistory()
	if err != nil {
		return err
	}

	n, err := store.ClearAll()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "%d conversaciones borradas.\n", n)
	return nil
}

func runHistoryExport(deps *Dependencies, ref, output string) error {
	store, conv, err := resolveConversation(ref)
	if err != nil {
		return err
	}

	md, err := store.ExportToMarkdown(conv.ID)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if output == "" {
		fmt.Fprint(deps.Stdout, md)
		return nil
	}
	if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Conversación exportada a %s", output)))
	return nil
}

func runHistorySearch(deps *Dependencies, query string, content bool) error {
	store, err := openHistory()
	if err != nil {
		return err
	}

	results, err := store.SearchConversations(query, content)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "Sin resultados para %q.\n", query)
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTÍTULO\tCOINCIDENCIA")
	for _, r := range results {
		snippet := r.MatchSnippet
		if r.MatchField == "title" {
			snippet = "(título)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.Conversation.ID[:min(8, len(r.Conversation.ID))], truncate(r.Conversation.Title, 40),
			strings.ReplaceAll(snippet, "\n", " "))
	}
	return w.Flush()
}
