// Package commands provides the CLI commands for luz.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/nav"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &globalOptions{}
	var viewFlag string

	cmd := &cobra.Command{
		Use:   "luz",
		Short: "Luz y Verdad: chat espiritual, versículos y oraciones en tu terminal",
		Long: `luz es un compañero espiritual cristiano para la terminal. Abre una
interfaz con tres vistas: Chat Espiritual, Buscar Versículo y Generar Oración.

Ejemplos:
  luz                                 Abre la interfaz en el chat
  luz --view verse                    Abre la interfaz en el buscador de versículos
  luz verse Juan 3:16                 Busca un versículo
  luz verse esperanza                 Sugiere un versículo sobre un tema
  luz prayer "por mi familia" -s salmo
  luz config set api_key <clave>      Guarda tu clave de Gemini`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "luz %s (built %s)\n", Version, BuildTime)
				return nil
			}

			view, ok := nav.ParseView(viewFlag)
			if !ok {
				return fmt.Errorf("unknown view %q (use chat, verse or prayer)", viewFlag)
			}
			return runTUI(cmd, deps, opts, tuiRequest{view: view})
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Modelo de Gemini (p. ej. gemini-2.5-flash)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Muestra diagnósticos en stderr y en el log")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Ruta alternativa del archivo de configuración")
	cmd.Flags().StringVar(&viewFlag, "view", "chat", "Vista inicial: chat, verse o prayer")
	cmd.Flags().BoolP("version", "v", false, "Muestra la versión y termina")

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.AddCommand(
		newChatCmd(deps, opts),
		newVerseCmd(deps, opts),
		newPrayerCmd(deps, opts),
		newConfigCmd(deps, opts),
		newHistoryCmd(deps),
		newPersonasCmd(deps),
	)

	return cmd
}
