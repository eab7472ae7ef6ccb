// Package nav holds the navigation state of the application: which of the
// three top-level views is on screen.
package nav

import "strings"

// View identifies one of the top-level views.
type View int

const (
	// Chat is the spiritual chat view. It is also the initial view.
	Chat View = iota
	// VerseFinder is the Bible verse lookup view.
	VerseFinder
	// Prayer is the prayer generator view.
	Prayer
)

// order is the tab-bar order.
var order = []View{Chat, VerseFinder, Prayer}

// Views returns the views in tab-bar order.
func Views() []View {
	out := make([]View, len(order))
	copy(out, order)
	return out
}

// String returns the identifier name of the view.
func (v View) String() string {
	switch v {
	case Chat:
		return "Chat"
	case VerseFinder:
		return "VerseFinder"
	case Prayer:
		return "Prayer"
	default:
		return "Unknown"
	}
}

// Label returns the text shown on the view's tab. Unknown views are labelled
// as Chat, matching the render fallback.
func (v View) Label() string {
	switch v {
	case VerseFinder:
		return "Buscar Versículo"
	case Prayer:
		return "Generar Oración"
	default:
		return "Chat Espiritual"
	}
}

// Valid reports whether v is one of the known views.
func (v View) Valid() bool {
	return v >= Chat && v <= Prayer
}

// ParseView parses a view name as used on the command line.
func ParseView(s string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chat":
		return Chat, true
	case "versefinder", "verse", "verses", "versiculo", "versículo":
		return VerseFinder, true
	case "prayer", "oracion", "oración":
		return Prayer, true
	default:
		return Chat, false
	}
}
