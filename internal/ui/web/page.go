// Package web renders the job URL form as a server-side HTML page. A Page
// holds the element state the controller writes during one form post.
package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"alfredoptarigan/cold-mail-generator/internal/controller"
)

type Page struct {
	mu      sync.Mutex
	value   string
	loading bool
	content controller.Content
	alert   string
}

func NewPage(value string) *Page {
	return &Page{value: value}
}

// Elements exposes the page as the controller's element handles.
func (p *Page) Elements() controller.Elements {
	return controller.Elements{
		Input:    p,
		Loader:   p,
		Output:   p,
		Notifier: p,
	}
}

func (p *Page) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Page) SetVisible(visible bool) {
	p.mu.Lock()
	p.loading = visible
	p.mu.Unlock()
}

func (p *Page) SetContent(content controller.Content) {
	p.mu.Lock()
	p.content = content
	p.mu.Unlock()
}

func (p *Page) Alert(message string) {
	p.mu.Lock()
	p.alert = message
	p.mu.Unlock()
}

// View is the template data for one render.
type View struct {
	JobURL       string
	Loading      bool
	Alert        string
	HasError     bool
	ErrorMessage string
	HasResult    bool
	EmailHeading string
	Email        string
	LinksHeading string
	Links        []string
}

func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := View{
		JobURL:       p.value,
		Loading:      p.loading,
		Alert:        p.alert,
		EmailHeading: controller.EmailHeading,
		LinksHeading: controller.LinksHeading,
	}

	switch p.content.Kind {
	case controller.ContentError:
		view.HasError = true
		view.ErrorMessage = p.content.Message
	case controller.ContentResult:
		view.HasResult = true
		view.Email = p.content.Email
		view.Links = splitLines(p.content.PortfolioLinks)
	}

	return view
}

// Render writes the page. All values are escaped by html/template.
func (p *Page) Render(w io.Writer) error {
	if err := pageTemplate.Execute(w, p.View()); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cold Mail Generator</title>
<style>
body { font-family: sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; }
#jobUrl { width: 70%; padding: .4rem; }
#loader { color: #666; }
#result pre { white-space: pre-wrap; background: #f6f6f6; padding: 1rem; }
.error { color: #b00020; }
.hidden { display: none; }
</style>
</head>
<body>
<h1>Cold Mail Generator</h1>
{{if .Alert}}<script>alert({{.Alert}});</script>
<p class="error" role="alert">{{.Alert}}</p>{{end}}
<form method="post" action="/" onsubmit="document.getElementById('loader').classList.remove('hidden')">
<input id="jobUrl" name="job_url" type="text" placeholder="https://company.com/careers/job" value="{{.JobURL}}">
<button id="submitBtn" type="submit">Submit</button>
</form>
<p id="loader" class="{{if not .Loading}}hidden{{end}}">Generating...</p>
<div id="result">
{{- if .HasError}}
<p class="error">{{.ErrorMessage}}</p>
{{- else if .HasResult}}
<h3>{{.EmailHeading}}</h3>
<pre>{{.Email}}</pre>
<h3>{{.LinksHeading}}</h3>
<pre>{{range .Links}}{{.}}
{{end}}</pre>
{{- end}}
</div>
</body>
</html>
`))
