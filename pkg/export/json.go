package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// SaveJSON writes v to path as indented JSON.
func SaveJSON(path string, v any) error {
	return renderToFile(path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}
