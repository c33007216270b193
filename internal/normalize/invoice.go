package normalize

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/docstruct/internal/llm"
)

// Invoice flattens one extracted invoice into per-sheet row sets keyed by
// invoiceID. Same contract as CV: empty sub-entity lists yield zero rows,
// missing required root fields return an error.
func Invoice(doc *llm.InvoiceDocument, invoiceID int, sourcePath string) (map[string]*RowSet, error) {
	if strings.TrimSpace(doc.VendorName) == "" {
		return nil, fmt.Errorf("extracted invoice is missing vendor_name")
	}
	if strings.TrimSpace(doc.Total) == "" {
		return nil, fmt.Errorf("extracted invoice is missing total")
	}

	invoices := &RowSet{Header: []string{"invoice_id", "vendor_name", "invoice_number", "invoice_date", "due_date", "currency_code", "subtotal", "total", "source_path"}}
	invoices.append(invoiceID, doc.VendorName, doc.InvoiceNumber, doc.InvoiceDate,
		doc.DueDate, doc.CurrencyCode, doc.Subtotal, doc.Total, sourcePath)

	lineItems := &RowSet{Header: []string{"invoice_id", "vendor_name", "description", "quantity", "unit_price", "amount"}}
	for _, li := range doc.LineItems {
		lineItems.append(invoiceID, doc.VendorName, li.Description, li.Quantity, li.UnitPrice, li.Amount)
	}

	taxes := &RowSet{Header: []string{"invoice_id", "vendor_name", "name", "rate", "amount"}}
	for _, tx := range doc.Taxes {
		taxes.append(invoiceID, doc.VendorName, tx.Name, tx.Rate, tx.Amount)
	}

	return map[string]*RowSet{
		SheetInvoices:  invoices,
		SheetLineItems: lineItems,
		SheetTaxes:     taxes,
	}, nil
}
