package llm

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docstruct/constants"
)

// BuildSystemPrompt composes the task instruction for a document type.
func BuildSystemPrompt(docType constants.DocType) string {
	var role string
	switch docType {
	case constants.DocTypeInvoice:
		role = "You are a meticulous accounts-payable data entry clerk. " +
			"Extract every relevant field from the invoice in the provided markdown, " +
			"including all line items and tax entries."
	default:
		role = "You are a thorough and diligent HR data entry clerk. " +
			"Extract in detail all relevant information from the curriculum vitae " +
			"in the provided markdown: identity, experience, education, skills, " +
			"languages and certifications."
	}

	parts := []string{
		role,
		"Return ONLY JSON that matches the provided JSON Schema.",
		"Keep dates exactly as written in the document; do not reformat or guess missing dates.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the converted markdown with a filename hint.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if req.SourcePath != "" {
		b.WriteString("Filename: ")
		b.WriteString(filepath.Base(req.SourcePath))
		b.WriteString("\n")
	}
	b.WriteString("\nDocument content (markdown):\n")
	b.WriteString(req.MarkdownText)
	return b.String()
}
