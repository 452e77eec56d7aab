package htmlview

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

// Page is the storefront shell.
type Page struct {
	mu          sync.Mutex
	catalog     []view.Element
	counter     int
	locked      bool
	onCartClick func()
}

// NewPage constructs an empty page.
func NewPage() *Page {
	return &Page{}
}

func (p *Page) SetCatalog(cards []view.Element) {
	p.mu.Lock()
	p.catalog = append([]view.Element(nil), cards...)
	p.mu.Unlock()
}

func (p *Page) SetCartCounter(count int) {
	p.mu.Lock()
	p.counter = count
	p.mu.Unlock()
}

func (p *Page) SetLocked(locked bool) {
	p.mu.Lock()
	p.locked = locked
	p.mu.Unlock()
}

func (p *Page) OnCartClick(fn func()) {
	p.mu.Lock()
	p.onCartClick = fn
	p.mu.Unlock()
}

// ClickCart simulates a click on the header basket icon.
func (p *Page) ClickCart() {
	p.mu.Lock()
	fn := p.onCartClick
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Counter returns the number shown on the basket icon.
func (p *Page) Counter() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counter
}

// Locked reports whether page scrolling is locked behind a modal.
func (p *Page) Locked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locked
}

// Cards returns the gallery contents.
func (p *Page) Cards() []view.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]view.Element(nil), p.catalog...)
}

// Render writes the page shell with the current gallery.
func (p *Page) Render(ctx context.Context, w io.Writer) error {
	p.mu.Lock()
	cards := append([]view.Element(nil), p.catalog...)
	counter, locked := p.counter, p.locked
	p.mu.Unlock()

	return pageTemplate(counter, locked, cards).Render(ctx, w)
}

func pageTemplate(counter int, locked bool, cards []view.Element) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="page__wrapper`)
		if locked {
			buf.WriteString(` page__wrapper_locked`)
		}
		buf.WriteString(`"><header class="header"><button class="header__basket"><span class="header__basket-counter">`)
		buf.WriteString(templ.EscapeString(strconv.Itoa(counter)))
		buf.WriteString(`</span></button></header><main class="gallery">`)
		for _, card := range components(cards) {
			if err := card.Render(ctx, buf); err != nil {
				return err
			}
		}
		buf.WriteString(`</main></div>`)
		return nil
	})
}

func components(elements []view.Element) []templ.Component {
	out := make([]templ.Component, 0, len(elements))
	for _, element := range elements {
		if element == nil {
			continue
		}
		out = append(out, element)
	}
	return out
}
