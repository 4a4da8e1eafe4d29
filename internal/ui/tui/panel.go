package tui

import (
	"sync"

	"alfredoptarigan/cold-mail-generator/internal/controller"
)

// panel is the element set the controller writes to. The controller calls
// it from its own goroutines while bubbletea reads it from View, so every
// field sits behind the mutex.
type panel struct {
	mu      sync.Mutex
	value   string
	loading bool
	content controller.Content
	alert   string
}

type panelSnapshot struct {
	loading bool
	content controller.Content
	alert   string
}

func (p *panel) elements() controller.Elements {
	return controller.Elements{
		Input:    p,
		Loader:   p,
		Output:   p,
		Notifier: p,
	}
}

func (p *panel) setValue(value string) {
	p.mu.Lock()
	p.value = value
	p.alert = ""
	p.mu.Unlock()
}

func (p *panel) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *panel) SetVisible(visible bool) {
	p.mu.Lock()
	p.loading = visible
	p.mu.Unlock()
}

func (p *panel) SetContent(content controller.Content) {
	p.mu.Lock()
	p.content = content
	p.mu.Unlock()
}

func (p *panel) Alert(message string) {
	p.mu.Lock()
	p.alert = message
	p.mu.Unlock()
}

func (p *panel) snapshot() panelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return panelSnapshot{
		loading: p.loading,
		content: p.content,
		alert:   p.alert,
	}
}
