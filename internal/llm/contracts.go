package llm

import (
	"context"

	"github.com/joseph-ayodele/docstruct/constants"
)

// CVDocument is the normalized shape we want from the LLM for one résumé.
type CVDocument struct {
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	Summary        string       `json:"summary,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Skills         []Skill      `json:"skills,omitempty"`
	Languages      []Language   `json:"languages,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	References     []string     `json:"references,omitempty"`
}

type Experience struct {
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	Title            string   `json:"title"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Details     []string `json:"details,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Language struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

// InvoiceDocument is the normalized shape for one invoice.
type InvoiceDocument struct {
	VendorName    string     `json:"vendor_name"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   string     `json:"invoice_date,omitempty"`
	DueDate       string     `json:"due_date,omitempty"`
	CurrencyCode  string     `json:"currency_code,omitempty"` // ISO 4217
	Subtotal      string     `json:"subtotal,omitempty"`      // decimal
	Total         string     `json:"total"`                   // decimal
	LineItems     []LineItem `json:"line_items,omitempty"`
	Taxes         []TaxEntry `json:"taxes,omitempty"`
}

type LineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity,omitempty"`
	UnitPrice   string `json:"unit_price,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

type TaxEntry struct {
	Name   string `json:"name"`
	Rate   string `json:"rate,omitempty"`
	Amount string `json:"amount,omitempty"`
}

// ExtractRequest carries one converted document into the extractor.
type ExtractRequest struct {
	MarkdownText string
	SourcePath   string
	DocType      constants.DocType
	MaxTokens    int // output-length bound; 0 uses the client default
}

// Extractor is the interface the pipeline depends on. Extract returns the
// schema-validated JSON document; callers unmarshal into the typed struct for
// the requested DocType.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) ([]byte, error)
}
