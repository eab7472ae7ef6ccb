package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// renderers hands out glamour renderers keyed by their options. A
// TermRenderer must not run two Render calls at once, so each caller borrows
// one and gives it back.
type renderers struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var shared = &renderers{pools: make(map[Options]*sync.Pool)}

func (r *renderers) poolFor(opts Options) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[opts]
	if !ok {
		p = &sync.Pool{}
		r.pools[opts] = p
	}
	return p
}

func (r *renderers) borrow(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.poolFor(opts).Get().(*glamour.TermRenderer); ok {
		return tr, nil
	}
	return newRenderer(opts)
}

func (r *renderers) release(opts Options, tr *glamour.TermRenderer) {
	if tr != nil {
		r.poolFor(opts).Put(tr)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := glamour.WithStyles(LuzStyleConfig())
	if opts.Style != "" && opts.Style != StyleLuz {
		style = glamour.WithStylePath(opts.Style)
	}

	trOpts := []glamour.TermRendererOption{
		style,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		trOpts = append(trOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		trOpts = append(trOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(trOpts...)
}

// ClearCache forgets every pooled renderer.
func ClearCache() {
	shared.mu.Lock()
	shared.pools = make(map[Options]*sync.Pool)
	shared.mu.Unlock()
}

// CacheSize reports how many distinct option sets have been rendered.
func CacheSize() int {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return len(shared.pools)
}
