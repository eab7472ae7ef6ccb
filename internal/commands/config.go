package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/config"
)

func newConfigCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Muestra o cambia la configuración",
		Long: `Muestra o cambia la configuración guardada en ~/.luzyverdad/config.json.

Cualquier clave puede sobrescribirse con una variable de entorno LUZ_<CLAVE>,
por ejemplo LUZ_API_KEY o LUZ_TRANSLATION.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, opts)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Muestra la configuración efectiva",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(deps, opts)
			},
		},
		&cobra.Command{
			Use:   "set <clave> <valor>",
			Short: "Cambia un valor de la configuración",
			Long:  "Cambia un valor de la configuración.\n\nClaves: " + strings.Join(config.SettableKeys(), ", "),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(deps, opts, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Muestra la ruta del archivo de configuración",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.configFile != "" {
					config.SetConfigFile(opts.configFile)
				}
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(deps.Stdout, path)
				return nil
			},
		},
	)

	return cmd
}

func runConfigShow(deps *Dependencies, opts *globalOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	cfg.APIKey = maskKey(cfg.APIKey)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}

func runConfigSet(deps *Dependencies, opts *globalOptions, key, value string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	// a key that only comes from GEMINI_API_KEY stays out of the file
	if env := os.Getenv("GEMINI_API_KEY"); env != "" && cfg.APIKey == env {
		cfg.APIKey = ""
	}
	if err := config.SetValue(&cfg, key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	shown := value
	if key == "api_key" {
		shown = maskKey(value)
	}
	fmt.Fprintln(deps.Stdout, successStyle.Render(fmt.Sprintf("✓ %s = %s", key, shown)))
	return nil
}

// maskKey keeps the last four characters of an API key
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
