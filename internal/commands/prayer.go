package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/prayer"
	"github.com/luzyverdad/luz/internal/render"
)

func newPrayerCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	var (
		styleFlag  string
		rawFlag    bool
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:     "prayer <intención...>",
		Aliases: []string{"oracion"},
		Short:   "Genera una oración para una intención",
		Long: `Genera una oración cristiana en primera persona para la intención indicada.

Estilos: tradicional (por defecto), contemporanea, salmo, breve.`,
		Example: `  luz prayer por la salud de mi madre
  luz prayer "gratitud por este día" --style salmo
  echo "paz en mi familia" | luz prayer -o oracion.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			intention, err := readInput(deps.Stdin, args)
			if err != nil {
				return err
			}
			style, err := prayer.ParseStyle(styleFlag)
			if err != nil {
				return err
			}
			return runPrayer(cmd, deps, opts, prayer.Request{Intention: intention, Style: style}, rawFlag, outputFlag)
		},
	}

	cmd.Flags().StringVarP(&styleFlag, "style", "s", "", "Estilo: tradicional, contemporanea, salmo o breve")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Markdown sin formato")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Guarda la oración en un archivo")

	return cmd
}

func runPrayer(cmd *cobra.Command, deps *Dependencies, opts *globalOptions, req prayer.Request, raw bool, output string) error {
	b, err := openBackend(cmd.Context(), deps, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	raw = raw || !isTerminal(deps.Stdout)
	b.verbosef("Style: %s", req.Style.Label())

	prog := &progress{}
	if !raw {
		prog = startProgress(deps.Stderr, "Escribiendo tu oración")
	}

	pr, err := b.generator.Generate(cmd.Context(), req)
	if err != nil {
		prog.fail()
		return fmt.Errorf("prayer generation failed: %w", err)
	}
	prog.success("Listo")

	b.copyIfEnabled(deps, pr.PlainText())

	if output != "" {
		if err := os.WriteFile(output, []byte(pr.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Oración guardada en %s", output)))
		return nil
	}

	if raw {
		fmt.Fprintln(deps.Stdout, pr.Text)
		return nil
	}

	width := bubbleWidth(deps.Stdout)
	rendered := render.MarkdownOrPlain(pr.Text, b.markdownOptions(width-4))

	fmt.Fprintln(deps.Stdout, labelStyle.Render("✦ "+pr.Title)+dimStyle.Render("  ·  "+pr.Style.Label()))
	fmt.Fprintln(deps.Stdout, bubbleStyle.Width(width).Render(rendered))
	return nil
}
