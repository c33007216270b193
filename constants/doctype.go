package constants

import (
	"fmt"
	"strings"
)

// DocType selects which extraction schema and sheet layout a batch uses.
type DocType string

const (
	DocTypeCV      DocType = "CV"
	DocTypeInvoice DocType = "INVOICE"
)

// ParseDocType maps a CLI/user string to a DocType.
func ParseDocType(s string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cv", "resume":
		return DocTypeCV, nil
	case "invoice":
		return DocTypeInvoice, nil
	default:
		return "", fmt.Errorf("unknown document type %q (want cv or invoice)", s)
	}
}
