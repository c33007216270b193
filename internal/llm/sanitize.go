package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// SanitizeDocumentJSON makes a model response friendly to our strict schema
// (additionalProperties = false) without touching real content:
//   - removes unknown top-level keys
//   - drops null values and empty optional strings
//   - drops null entries inside arrays
//   - trims surrounding whitespace on string values
//
// Required fields are left in place even when empty so that a genuinely
// malformed extraction still fails validation.
func SanitizeDocumentJSON(raw []byte, schemaMap map[string]any, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	props, _ := schemaMap["properties"].(map[string]any)
	required := map[string]struct{}{}
	if reqs, ok := schemaMap["required"].([]string); ok {
		for _, r := range reqs {
			required[r] = struct{}{}
		}
	}

	for k := range maps.Clone(m) {
		if _, known := props[k]; !known {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for k, v := range maps.Clone(m) {
		_, isRequired := required[k]
		switch t := v.(type) {
		case nil:
			if !isRequired {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" && !isRequired {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case []any:
			m[k] = cleanArray(t)
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.sanitize", "dropped", strings.Join(dropped, ","))
	}
	return out, dropped, nil
}

func cleanArray(items []any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case nil:
			continue
		case string:
			out = append(out, strings.TrimSpace(t))
		case map[string]any:
			for k, v := range maps.Clone(t) {
				switch inner := v.(type) {
				case nil:
					delete(t, k)
				case string:
					s := strings.TrimSpace(inner)
					if s == "" {
						delete(t, k)
					} else {
						t[k] = s
					}
				case []any:
					t[k] = cleanArray(inner)
				}
			}
			out = append(out, t)
		default:
			out = append(out, it)
		}
	}
	return out
}
