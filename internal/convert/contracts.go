// Package convert is the Document Loader boundary: file in, markdown out.
package convert

import (
	"context"
	"time"
)

// Result is the outcome of one document conversion.
type Result struct {
	Markdown string
	Pages    int
	Duration time.Duration
}

// TextConverter is the behavior the pipeline depends on.
type TextConverter interface {
	Convert(ctx context.Context, path string) (Result, error)
}
