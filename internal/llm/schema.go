package llm

import "github.com/joseph-ayodele/docstruct/constants"

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the given document type. We pass it to the model as a
// structured-output constraint and also use it locally to validate.
func BuildDocumentJSONSchema(docType constants.DocType) map[string]any {
	if docType == constants.DocTypeInvoice {
		return buildInvoiceSchema()
	}
	return buildCVSchema()
}

func buildCVSchema() map[string]any {
	experience := objectSchema(map[string]any{
		"company":          stringProp(1),
		"location":         stringProp(0),
		"title":            stringProp(1),
		"start_date":       stringProp(0),
		"end_date":         stringProp(0),
		"responsibilities": stringListProp(),
	}, []string{"company", "title"})

	education := objectSchema(map[string]any{
		"institution": stringProp(1),
		"degree":      stringProp(1),
		"start_date":  stringProp(0),
		"end_date":    stringProp(0),
		"details":     stringListProp(),
	}, []string{"institution", "degree"})

	skill := objectSchema(map[string]any{
		"name":  stringProp(1),
		"level": stringProp(0),
	}, []string{"name"})

	lang := objectSchema(map[string]any{
		"language": stringProp(1),
		"level":    stringProp(0),
	}, []string{"language"})

	return objectSchema(map[string]any{
		"full_name":      stringProp(1),
		"email":          stringProp(1),
		"phone":          stringProp(0),
		"summary":        stringProp(0),
		"experience":     arrayProp(experience),
		"education":      arrayProp(education),
		"skills":         arrayProp(skill),
		"languages":      arrayProp(lang),
		"certifications": stringListProp(),
		"references":     stringListProp(),
	}, []string{"full_name", "email"})
}

func buildInvoiceSchema() map[string]any {
	lineItem := objectSchema(map[string]any{
		"description": stringProp(1),
		"quantity":    stringProp(0),
		"unit_price":  decimalProp(),
		"amount":      decimalProp(),
	}, []string{"description"})

	tax := objectSchema(map[string]any{
		"name":   stringProp(1),
		"rate":   stringProp(0),
		"amount": decimalProp(),
	}, []string{"name"})

	return objectSchema(map[string]any{
		"vendor_name":    stringProp(1),
		"invoice_number": stringProp(0),
		"invoice_date":   stringProp(0),
		"due_date":       stringProp(0),
		"currency_code":  map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"subtotal":       decimalProp(),
		"total":          decimalProp(),
		"line_items":     arrayProp(lineItem),
		"taxes":          arrayProp(tax),
	}, []string{"vendor_name", "total"})
}

func objectSchema(props map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func stringProp(minLen int) map[string]any {
	p := map[string]any{"type": "string"}
	if minLen > 0 {
		p["minLength"] = minLen
	}
	return p
}

func stringListProp() map[string]any {
	return arrayProp(map[string]any{"type": "string"})
}

func arrayProp(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d{1,2})?$`,
	}
}
