package htmlview

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

// Modal holds the single overlay element.
type Modal struct {
	mu      sync.Mutex
	content view.Element
	open    bool
	onClose func()
}

// NewModal constructs a closed modal.
func NewModal() *Modal {
	return &Modal{}
}

func (m *Modal) Open(content view.Element) {
	m.mu.Lock()
	m.content = content
	m.open = true
	m.mu.Unlock()
}

func (m *Modal) Close() {
	m.mu.Lock()
	m.content = nil
	m.open = false
	m.mu.Unlock()
}

func (m *Modal) OnClose(fn func()) {
	m.mu.Lock()
	m.onClose = fn
	m.mu.Unlock()
}

// Dismiss simulates the user closing the modal (close button or overlay).
func (m *Modal) Dismiss() {
	m.Close()
	m.mu.Lock()
	fn := m.onClose
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// IsOpen reports whether the modal is visible.
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Content returns the element currently shown, or nil.
func (m *Modal) Content() view.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

// Render writes the modal container and its content.
func (m *Modal) Render(ctx context.Context, w io.Writer) error {
	m.mu.Lock()
	content, open := m.content, m.open
	m.mu.Unlock()

	return modalTemplate(open, content).Render(ctx, w)
}

func modalTemplate(open bool, content view.Element) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="modal`)
		if open {
			buf.WriteString(` modal_active`)
		}
		buf.WriteString(`"><div class="modal__container"><button class="modal__close" aria-label="закрыть"></button><div class="modal__content">`)
		if content != nil {
			if err := content.Render(ctx, buf); err != nil {
				return err
			}
		}
		buf.WriteString(`</div></div></div>`)
		return nil
	})
}
