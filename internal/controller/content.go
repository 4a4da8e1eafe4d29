package controller

import "strings"

const (
	EmailHeading = "Generated Email:"
	LinksHeading = "Portfolio Links:"
)

type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentError
	ContentResult
)

// Content is what the output region shows. Front ends render its fields as
// text, never as markup.
type Content struct {
	Kind           ContentKind
	Message        string
	Email          string
	PortfolioLinks string
}

func ErrorContent(message string) Content {
	return Content{Kind: ContentError, Message: "Error: " + message}
}

func ResultContent(email, portfolioLinks string) Content {
	return Content{Kind: ContentResult, Email: email, PortfolioLinks: portfolioLinks}
}

func (c Content) IsEmpty() bool {
	return c.Kind == ContentEmpty
}

// Text renders the content as plain text with the two headings.
func (c Content) Text() string {
	switch c.Kind {
	case ContentError:
		return c.Message
	case ContentResult:
		var b strings.Builder
		b.WriteString(EmailHeading)
		b.WriteString("\n")
		b.WriteString(c.Email)
		b.WriteString("\n\n")
		b.WriteString(LinksHeading)
		b.WriteString("\n")
		b.WriteString(c.PortfolioLinks)
		return b.String()
	default:
		return ""
	}
}
