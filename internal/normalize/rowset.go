// Package normalize flattens one extracted document into per-sheet row sets
// keyed by a synthetic parent identifier.
package normalize

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/docstruct/constants"
)

// RowSet is one sheet's worth of flat rows derived from one document.
type RowSet struct {
	Header []string
	Rows   [][]any
}

func (rs *RowSet) append(row ...any) {
	rs.Rows = append(rs.Rows, row)
}

// Sheet names per document type. Order is the write/format order.
const (
	SheetCandidates     = "Candidates"
	SheetExperience     = "Experience"
	SheetEducation      = "Education"
	SheetSkills         = "Skills"
	SheetLanguages      = "Languages"
	SheetCertifications = "Certifications"

	SheetInvoices  = "Invoices"
	SheetLineItems = "LineItems"
	SheetTaxes     = "Taxes"
)

// SheetOrder returns the sheet names for a document type, root sheet first.
func SheetOrder(docType constants.DocType) []string {
	if docType == constants.DocTypeInvoice {
		return []string{SheetInvoices, SheetLineItems, SheetTaxes}
	}
	return []string{SheetCandidates, SheetExperience, SheetEducation, SheetSkills, SheetLanguages, SheetCertifications}
}

// RootSheet returns the root-entity sheet for a document type.
func RootSheet(docType constants.DocType) string {
	if docType == constants.DocTypeInvoice {
		return SheetInvoices
	}
	return SheetCandidates
}

var yearRe = regexp.MustCompile(`\d{4}`)

// extractYear pulls a 4-digit year out of a free-text date. Best effort: an
// empty result means the column stays blank, never an error.
func extractYear(date string) string {
	return yearRe.FindString(date)
}

// joinList renders a list-valued leaf field as a single delimited string.
func joinList(items []string) string {
	return strings.Join(items, ", ")
}
