package services

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

const unknownJobTitle = "Unknown"

type ExtractorService interface {
	Extract(rawHTML string) (*ExtractedJob, error)
}

// ExtractedJob holds the structured details plus the page's visible text,
// which is what the LLM fallback reads when the markup has no usable fields.
type ExtractedJob struct {
	Details  models.JobDetails
	BodyText string
}

// Sparse reports whether neither skills nor responsibilities were found.
func (e *ExtractedJob) Sparse() bool {
	return e.Details.Skills == "" && e.Details.Responsibilities == ""
}

type extractorService struct{}

func NewExtractorService() ExtractorService {
	return &extractorService{}
}

// Extract implements ExtractorService. Title is the first <h1>, description
// the first div.job-description, responsibilities and skills every
// li.responsibilities and li.skills.
func (e *extractorService) Extract(rawHTML string) (*ExtractedJob, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var (
		title            *html.Node
		description      *html.Node
		responsibilities []string
		skills           []string
		body             *html.Node
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H1:
				if title == nil {
					title = n
				}
			case atom.Div:
				if description == nil && hasClass(n, "job-description") {
					description = n
				}
			case atom.Li:
				if hasClass(n, "responsibilities") {
					responsibilities = appendText(responsibilities, n)
				}
				if hasClass(n, "skills") {
					skills = appendText(skills, n)
				}
			case atom.Body:
				body = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	details := models.JobDetails{
		Title:            unknownJobTitle,
		Responsibilities: strings.Join(responsibilities, ", "),
		Skills:           strings.Join(skills, ", "),
	}
	if title != nil {
		if text := nodeText(title); text != "" {
			details.Title = text
		}
	}
	if description != nil {
		details.Description = nodeText(description)
	}

	extracted := &ExtractedJob{Details: details}
	if body != nil {
		extracted.BodyText = visibleText(body)
	}

	return extracted, nil
}

func appendText(items []string, n *html.Node) []string {
	if text := nodeText(n); text != "" {
		return append(items, text)
	}
	return items
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// nodeText concatenates all text below n with whitespace collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// visibleText returns the text of n one block per line, skipping script,
// style and other non-content elements.
func visibleText(n *html.Node) string {
	var lines []string
	var current strings.Builder

	flush := func() {
		line := strings.Join(strings.Fields(current.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg, atom.Nav, atom.Footer:
				return
			}
		}
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			flush()
		}
	}
	collect(n)
	flush()

	return strings.Join(lines, "\n")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Br, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Tr, atom.Table, atom.Header, atom.Main:
		return true
	}
	return false
}
