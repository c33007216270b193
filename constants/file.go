package constants

import "strings"

// AllowedExtensions holds the file extensions accepted by the batch walk.
// The converter boundary only handles documents, so images and spreadsheets
// living in the same folders are ignored rather than failed.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
