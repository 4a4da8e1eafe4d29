package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cold-mail-generator/internal/config"
	"alfredoptarigan/cold-mail-generator/internal/models"
)

func testSender() config.SenderConfig {
	return config.SenderConfig{
		Name:    "Dana",
		Title:   "a business development executive",
		Company: "Acme Labs",
		Email:   "dana@acme.test",
	}
}

func TestBuildColdEmailPrompt(t *testing.T) {
	pb := NewPromptBuilder(testSender())
	details := models.JobDetails{
		Title:            "Backend Engineer",
		Description:      "Build payment services",
		Responsibilities: "Design APIs, Run on-call",
		Skills:           "Go, Postgres",
	}

	prompt, err := pb.BuildColdEmailPrompt(details, "* Go (https://example.com/go)")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Title: Backend Engineer")
	assert.Contains(t, prompt, "Description: Build payment services")
	assert.Contains(t, prompt, "Responsibilities: Design APIs, Run on-call")
	assert.Contains(t, prompt, "Skills: Go, Postgres")
	assert.Contains(t, prompt, "* Go (https://example.com/go)")
	assert.Contains(t, prompt, "You are Dana, a business development executive at Acme Labs.")
	assert.Contains(t, prompt, "dana@acme.test")
	assert.Contains(t, prompt, "NO PREAMBLE")
}

func TestBuildColdEmailPromptWithoutLinks(t *testing.T) {
	pb := NewPromptBuilder(testSender())

	prompt, err := pb.BuildColdEmailPrompt(models.JobDetails{Title: "Unknown"}, "  ")
	require.NoError(t, err)

	assert.Contains(t, prompt, noPortfolioLinks)
}

func TestBuildJobExtractionPrompt(t *testing.T) {
	pb := NewPromptBuilder(testSender())

	prompt, err := pb.BuildJobExtractionPrompt("We are hiring a data engineer")
	require.NoError(t, err)

	assert.Contains(t, prompt, "We are hiring a data engineer")
	assert.Contains(t, prompt, "responsibilities")
	assert.Contains(t, prompt, "Only return the valid JSON.")
}

func TestBuildRetrievalQuery(t *testing.T) {
	pb := NewPromptBuilder(testSender())

	query := pb.BuildRetrievalQuery(models.JobDetails{
		Skills:           "Go, Kafka",
		Responsibilities: "Own ingestion",
	})

	assert.Equal(t, "Go, Kafka, Own ingestion", query)
}

func TestFormatPortfolioLinks(t *testing.T) {
	matches := []PortfolioMatch{
		{PortfolioEntry: PortfolioEntry{TechStack: "React, Node.js", Links: "https://example.com/react"}},
		{PortfolioEntry: PortfolioEntry{TechStack: "Go, gRPC", Links: "https://example.com/go"}},
	}

	assert.Equal(t,
		"* React, Node.js (https://example.com/react)\n* Go, gRPC (https://example.com/go)",
		FormatPortfolioLinks(matches))
	assert.Equal(t, "", FormatPortfolioLinks(nil))
}
