package prayer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apierrors "github.com/luzyverdad/luz/internal/errors"
)

// Style selects the voice of a generated prayer
type Style string

const (
	Traditional  Style = "tradicional"
	Contemporary Style = "contemporanea"
	Psalm        Style = "salmo"
	Short        Style = "breve"
)

// DefaultStyle is used when a request names none
const DefaultStyle = Traditional

var styleOrder = []Style{Traditional, Contemporary, Psalm, Short}

// Styles returns every style in cycling order
func Styles() []Style {
	out := make([]Style, len(styleOrder))
	copy(out, styleOrder)
	return out
}

// Label is the display name of the style
func (s Style) Label() string {
	switch s {
	case Traditional:
		return "Tradicional"
	case Contemporary:
		return "Contemporánea"
	case Psalm:
		return "Salmo"
	case Short:
		return "Breve"
	default:
		return string(s)
	}
}

// Guidance is the style-specific instruction added to the prompt
func (s Style) Guidance() string {
	switch s {
	case Contemporary:
		return "Usa un lenguaje cercano y actual, como una conversación sincera con Dios, tuteándole."
	case Psalm:
		return "Escríbela al estilo de los Salmos: versos poéticos con paralelismo, alabanza, lamento y confianza."
	case Short:
		return "Que sea breve: un solo párrafo de no más de cinco frases."
	default:
		return "Usa un tono reverente y clásico, con invocación, acción de gracias, petición y conclusión."
	}
}

// Next returns the following style, wrapping around
func (s Style) Next() Style {
	for i, st := range styleOrder {
		if st == s {
			return styleOrder[(i+1)%len(styleOrder)]
		}
	}
	return DefaultStyle
}

// Valid reports whether s is a known style
func (s Style) Valid() bool {
	for _, st := range styleOrder {
		if st == s {
			return true
		}
	}
	return false
}

// ParseStyle accepts a style name with or without accents; empty means DefaultStyle
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), n); err == nil {
		n = folded
	}

	switch n {
	case "":
		return DefaultStyle, nil
	case "tradicional", "traditional":
		return Traditional, nil
	case "contemporanea", "contemporary", "moderna":
		return Contemporary, nil
	case "salmo", "psalm", "poetica":
		return Psalm, nil
	case "breve", "short", "corta":
		return Short, nil
	}

	names := make([]string, len(styleOrder))
	for i, st := range styleOrder {
		names[i] = string(st)
	}
	return "", apierrors.NewValidationError("style", fmt.Sprintf("unknown style %q (valid: %s)", name, strings.Join(names, ", ")))
}
