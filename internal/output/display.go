package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Display is the output region. Every completed click overwrites it.
type Display interface {
	Show(Content)
}

// Panel is an in-memory output region. The last call to Show wins; no history
// is kept. It is safe for concurrent use but imposes no ordering between writers.
type Panel struct {
	mu      sync.RWMutex
	content Content
	writes  uint64
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Show replaces the panel's content.
func (p *Panel) Show(c Content) {
	p.mu.Lock()
	p.content = c
	p.writes++
	p.mu.Unlock()
}

// Content returns the current content.
func (p *Panel) Content() Content {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.content
}

// TextContent returns the region's textContent.
func (p *Panel) TextContent() string {
	return p.Content().TextContent()
}

// InnerHTML returns the region's innerHTML.
func (p *Panel) InnerHTML() string {
	return p.Content().InnerHTML()
}

// Writes reports how many times Show has been called.
func (p *Panel) Writes() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.writes
}

// Terminal renders each shown content to a writer, one block per response.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
	// StripHTML prints only the text of HTML responses instead of the markup.
	StripHTML bool
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer, stripHTML bool) *Terminal {
	return &Terminal{w: w, StripHTML: stripHTML}
}

// Show writes the content followed by a newline.
func (t *Terminal) Show(c Content) {
	var s string
	switch {
	case c.Kind() == KindHTML && !t.StripHTML:
		s = c.InnerHTML()
	default:
		s = c.TextContent()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.HasSuffix(s, "\n") {
		fmt.Fprint(t.w, s)
		return
	}
	fmt.Fprintln(t.w, s)
}
