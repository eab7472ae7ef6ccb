package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luzyverdad/luz/internal/bible"
)

func newVerseCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	var (
		translationFlag string
		rawFlag         bool
		booksFlag       bool
	)

	cmd := &cobra.Command{
		Use:     "verse <cita o tema...>",
		Aliases: []string{"versiculo"},
		Short:   "Busca un versículo por cita o por tema",
		Long: `Busca un pasaje bíblico. Si la entrada es una cita ("Juan 3:16",
"1 Corintios 13:4-7", "Salmos 23") se consulta directamente; si es un tema
("esperanza", "perdón") Gemini sugiere el pasaje más adecuado.

La salida es texto plano cuando stdout no es una terminal o con --raw.`,
		Example: `  luz verse Juan 3:16
  luz verse "1 Corintios 13:4-7" -t rvr1909
  luz verse ansiedad --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if booksFlag {
				for _, name := range bible.BookNames() {
					fmt.Fprintln(deps.Stdout, name)
				}
				return nil
			}
			query, err := readInput(deps.Stdin, args)
			if err != nil {
				return err
			}
			return runVerse(cmd, deps, opts, query, translationFlag, rawFlag)
		},
	}

	cmd.Flags().StringVarP(&translationFlag, "translation", "t", "", "Traducción de bible-api.com (p. ej. web, kjv, rvr1909)")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Texto plano sin formato")
	cmd.Flags().BoolVar(&booksFlag, "books", false, "Lista los libros reconocidos y termina")

	return cmd
}

func runVerse(cmd *cobra.Command, deps *Dependencies, opts *globalOptions, query, translation string, raw bool) error {
	b, err := openBackend(cmd.Context(), deps, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	if translation == "" {
		translation = b.cfg.Translation
	} else if _, ok := b.cfg.FindTranslation(translation); !ok {
		b.verbosef("translation %q is not in the configured list, trying it anyway", translation)
	}
	raw = raw || !isTerminal(deps.Stdout)

	prog := &progress{}
	if !raw {
		prog = startProgress(deps.Stderr, "Buscando en las Escrituras")
	}

	res, err := b.finder.Find(cmd.Context(), query, translation)
	if err != nil {
		prog.fail()
		return fmt.Errorf("verse lookup failed: %w", err)
	}
	prog.success("Encontrado")

	if res.FromTopic {
		b.verbosef("Suggested reference for %q: %s", query, res.Reference)
	}

	printVerse(deps.Stdout, res, raw)
	b.copyIfEnabled(deps, verseClipboardText(res))
	return nil
}

// printVerse writes the passage, boxed on a terminal and plain otherwise
func printVerse(w io.Writer, res *bible.Result, raw bool) {
	v := res.Verse
	text := strings.TrimSpace(v.Text)

	if raw {
		fmt.Fprintln(w, text)
		if v.TranslationName != "" {
			fmt.Fprintf(w, "— %s (%s)\n", v.Reference, v.TranslationName)
		} else {
			fmt.Fprintf(w, "— %s\n", v.Reference)
		}
		return
	}

	width := bubbleWidth(w)
	header := labelStyle.Render("✦ " + v.Reference)
	if v.TranslationName != "" {
		header += dimStyle.Render("  ·  " + v.TranslationName)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, verseStyle.Width(width-2).Render(text))
	if res.FromTopic {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("Sugerido para: %s", res.Query)))
	}
}

func verseClipboardText(res *bible.Result) string {
	return fmt.Sprintf("%s — %s", strings.TrimSpace(res.Verse.Text), res.Verse.Reference)
}

// readInput joins args, or reads piped stdin when there are none
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	if f, ok := stdin.(*os.File); stdin == nil || (ok && term.IsTerminal(int(f.Fd()))) {
		return "", fmt.Errorf("nothing to look for: pass text as arguments or through stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", fmt.Errorf("nothing to look for: pass text as arguments or through stdin")
	}
	return input, nil
}
