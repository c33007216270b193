package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docstruct/internal/llm"
)

func TestInvoice_FlattensLineItemsAndTaxes(t *testing.T) {
	doc := &llm.InvoiceDocument{
		VendorName:    "Acme Supplies",
		InvoiceNumber: "INV-42",
		Total:         "121.00",
		LineItems: []llm.LineItem{
			{Description: "Paper", Quantity: "10", UnitPrice: "2.00", Amount: "20.00"},
			{Description: "Toner", Quantity: "1", UnitPrice: "80.00", Amount: "80.00"},
		},
		Taxes: []llm.TaxEntry{{Name: "VAT", Rate: "21%", Amount: "21.00"}},
	}

	sets, err := Invoice(doc, 5, "/inbox/acme.pdf")
	require.NoError(t, err)

	require.Len(t, sets[SheetInvoices].Rows, 1)
	assert.Equal(t, 5, sets[SheetInvoices].Rows[0][0])
	assert.Len(t, sets[SheetLineItems].Rows, 2)
	assert.Len(t, sets[SheetTaxes].Rows, 1)
	assert.Equal(t, "Acme Supplies", sets[SheetLineItems].Rows[0][1])
}

func TestInvoice_EmptySubEntitiesYieldZeroRows(t *testing.T) {
	doc := &llm.InvoiceDocument{VendorName: "Acme", Total: "10.00"}

	sets, err := Invoice(doc, 1, "/inbox/a.pdf")
	require.NoError(t, err)
	assert.Empty(t, sets[SheetLineItems].Rows)
	assert.Empty(t, sets[SheetTaxes].Rows)
}

func TestInvoice_MissingRequiredRootFieldFails(t *testing.T) {
	_, err := Invoice(&llm.InvoiceDocument{Total: "10.00"}, 1, "/inbox/a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendor_name")

	_, err = Invoice(&llm.InvoiceDocument{VendorName: "Acme"}, 1, "/inbox/a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total")
}
