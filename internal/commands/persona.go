package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luzyverdad/luz/internal/config"
)

func newPersonasCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "personas",
		Aliases: []string{"persona"},
		Short:   "Gestiona las personas del chat",
		Long:    `Muestra y gestiona las personas (instrucciones de sistema) que guían el chat.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonaList(deps)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lista las personas disponibles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPersonaList(deps)
			},
		},
		&cobra.Command{
			Use:   "show <nombre>",
			Short: "Muestra los detalles de una persona",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPersonaShow(deps, args[0])
			},
		},
		&cobra.Command{
			Use:   "add <nombre>",
			Short: "Crea una persona nueva",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPersonaAdd(deps, args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <nombre>",
			Short: "Borra una persona creada por el usuario",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.DeletePersona(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(deps.Stdout, "Persona '%s' borrada.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "default <nombre>",
			Short: "Elige la persona por defecto",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.SetDefaultPersona(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(deps.Stdout, "Persona por defecto: '%s'.\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func runPersonaList(deps *Dependencies) error {
	pc, err := config.LoadPersonas()
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NOMBRE\tDESCRIPCIÓN\tDEFECTO")
	_, _ = fmt.Fprintln(w, "------\t-----------\t-------")

	for _, p := range pc.Personas {
		isDefault := ""
		if p.Name == pc.DefaultPersona {
			isDefault = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Description, isDefault)
	}

	return w.Flush()
}

func runPersonaShow(deps *Dependencies, name string) error {
	p, err := config.GetPersona(name)
	if err != nil {
		return err
	}

	out := deps.Stdout
	fmt.Fprintf(out, "Nombre: %s\n", p.Name)
	fmt.Fprintf(out, "Descripción: %s\n", p.Description)
	if p.Model != "" {
		fmt.Fprintf(out, "Modelo preferido: %s\n", p.Model)
	}
	if p.Temperature > 0 {
		fmt.Fprintf(out, "Temperatura: %.2f\n", p.Temperature)
	}
	prompt := p.SystemPrompt
	if prompt == "" {
		prompt = "(sin instrucciones)"
	}
	fmt.Fprintf(out, "\nInstrucciones de sistema:\n%s\n", prompt)

	return nil
}

// runPersonaAdd prompts for the persona fields on deps.Stdin
func runPersonaAdd(deps *Dependencies, name string) error {
	if _, err := config.GetPersona(name); err == nil {
		return fmt.Errorf("persona '%s' already exists", name)
	}
	if deps.Stdin == nil {
		return fmt.Errorf("no input available to read the persona")
	}

	reader := bufio.NewReader(deps.Stdin)
	out := deps.Stdout

	fmt.Fprint(out, "Descripción: ")
	desc, err := readLine(reader)
	if err != nil {
		return err
	}

	fmt.Fprint(out, "Temperatura (vacío para la configurada): ")
	tempText, err := readLine(reader)
	if err != nil {
		return err
	}
	var temperature float64
	if tempText != "" {
		temperature, err = strconv.ParseFloat(tempText, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", tempText)
		}
	}

	fmt.Fprintln(out, "Instrucciones de sistema (termina con una línea vacía):")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	persona := config.Persona{
		Name:         name,
		Description:  desc,
		SystemPrompt: strings.Join(lines, "\n"),
		Temperature:  temperature,
	}
	if err := config.AddPersona(persona); err != nil {
		return err
	}

	fmt.Fprintf(out, "Persona '%s' creada.\n", name)
	return nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
