package services

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"alfredoptarigan/cold-mail-generator/internal/config"
	"alfredoptarigan/cold-mail-generator/internal/models"
)

const coldEmailTemplate = `### JOB DESCRIPTION:
Title: {{.job_title}}
Description: {{.job_description}}
Responsibilities: {{.responsibilities}}
Skills: {{.skills}}

### INSTRUCTION:
You are {{.sender_name}}, {{.sender_title}} at {{.sender_company}}. {{.sender_company}} is an AI and software consulting company dedicated to facilitating the seamless integration of business processes through automated tools.
Over our experience, we have empowered numerous enterprises with tailored solutions, fostering scalability, process optimization, cost reduction, and heightened overall efficiency.

Your job is to write a cold email to the hiring manager regarding the job mentioned above, describing the capability of {{.sender_company}} in fulfilling their needs.
Also add the most relevant ones from the following links to showcase {{.sender_company}}'s portfolio:
{{.link_list}}

End the email with a call to action inviting the hiring manager to reach out at {{.sender_email}}.
Remember you are {{.sender_name}}, {{.sender_title}} at {{.sender_company}}.
Do not provide a preamble.

### EMAIL (NO PREAMBLE):
`

const jobExtractionTemplate = `### SCRAPED TEXT FROM WEBSITE:
{{.page_text}}

### INSTRUCTION:
The scraped text is from the careers page of a website.
Your job is to extract the job posting and return it in JSON format containing the following keys:
"title", "description", "responsibilities" and "skills".
"responsibilities" and "skills" must be arrays of short strings.
If a piece of information is missing, use an empty string or an empty array. Do not guess.
Only return the valid JSON.

### VALID JSON (NO PREAMBLE):
`

const noPortfolioLinks = "No relevant portfolio links found."

type PromptBuilder struct {
	sender     config.SenderConfig
	email      prompts.PromptTemplate
	extraction prompts.PromptTemplate
}

func NewPromptBuilder(sender config.SenderConfig) *PromptBuilder {
	return &PromptBuilder{
		sender: sender,
		email: prompts.NewPromptTemplate(coldEmailTemplate, []string{
			"job_title", "job_description", "responsibilities", "skills", "link_list",
			"sender_name", "sender_title", "sender_company", "sender_email",
		}),
		extraction: prompts.NewPromptTemplate(jobExtractionTemplate, []string{"page_text"}),
	}
}

// BuildColdEmailPrompt renders the email instructions for one job posting.
func (pb *PromptBuilder) BuildColdEmailPrompt(details models.JobDetails, linkList string) (string, error) {
	if strings.TrimSpace(linkList) == "" {
		linkList = noPortfolioLinks
	}

	prompt, err := pb.email.Format(map[string]any{
		"job_title":        details.Title,
		"job_description":  details.Description,
		"responsibilities": details.Responsibilities,
		"skills":           details.Skills,
		"link_list":        linkList,
		"sender_name":      pb.sender.Name,
		"sender_title":     pb.sender.Title,
		"sender_company":   pb.sender.Company,
		"sender_email":     pb.sender.Email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format cold email prompt: %w", err)
	}

	return prompt, nil
}

// BuildJobExtractionPrompt asks the model to recover the posting from page text.
func (pb *PromptBuilder) BuildJobExtractionPrompt(pageText string) (string, error) {
	prompt, err := pb.extraction.Format(map[string]any{
		"page_text": pageText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format extraction prompt: %w", err)
	}

	return prompt, nil
}

// BuildRetrievalQuery is the text embedded to look up portfolio entries.
func (pb *PromptBuilder) BuildRetrievalQuery(details models.JobDetails) string {
	return fmt.Sprintf("%s, %s", details.Skills, details.Responsibilities)
}

// FormatPortfolioLinks renders one "* stack (links)" line per match.
func FormatPortfolioLinks(matches []PortfolioMatch) string {
	lines := make([]string, 0, len(matches))
	for _, match := range matches {
		lines = append(lines, fmt.Sprintf("* %s (%s)", match.TechStack, match.Links))
	}
	return strings.Join(lines, "\n")
}
