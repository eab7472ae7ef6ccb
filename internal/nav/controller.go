package nav

// Controller owns the active view and maps it to one of three collaborators.
// It is not safe for concurrent use; the UI event loop is its only caller.
type Controller[T any] struct {
	active View
	chat   T
	verse  T
	prayer T
}

// NewController returns a controller whose active view is Chat.
func NewController[T any](chat, verse, prayer T) *Controller[T] {
	return &Controller[T]{
		active: Chat,
		chat:   chat,
		verse:  verse,
		prayer: prayer,
	}
}

// SetActiveView replaces the active view.
func (c *Controller[T]) SetActiveView(v View) {
	c.active = v
}

// ActiveView returns the active view.
func (c *Controller[T]) ActiveView() View {
	return c.active
}

// Render returns the collaborator for the active view. Anything that is not
// VerseFinder or Prayer renders the chat collaborator.
func (c *Controller[T]) Render() T {
	switch c.active {
	case VerseFinder:
		return c.verse
	case Prayer:
		return c.prayer
	default:
		return c.chat
	}
}

// Collaborator returns the collaborator bound to v, using the same fallback
// as Render.
func (c *Controller[T]) Collaborator(v View) T {
	switch v {
	case VerseFinder:
		return c.verse
	case Prayer:
		return c.prayer
	default:
		return c.chat
	}
}

// Replace swaps the collaborator bound to v. Collaborators are values in the
// TUI, so each update hands back a new one.
func (c *Controller[T]) Replace(v View, collaborator T) {
	switch v {
	case VerseFinder:
		c.verse = collaborator
	case Prayer:
		c.prayer = collaborator
	default:
		c.chat = collaborator
	}
}

// Next moves to the following view in tab-bar order, wrapping around.
func (c *Controller[T]) Next() {
	c.SetActiveView(step(c.active, 1))
}

// Prev moves to the preceding view in tab-bar order, wrapping around.
func (c *Controller[T]) Prev() {
	c.SetActiveView(step(c.active, -1))
}

func step(v View, delta int) View {
	idx := 0
	for i, o := range order {
		if o == v {
			idx = i
			break
		}
	}
	n := len(order)
	return order[((idx+delta)%n+n)%n]
}
