package render

import (
	"encoding/json"
	"fmt"
	"io"

	"poolScope/internal/model"
)

// JSONL writes one JSON object per row.
func JSONL(w io.Writer, rows []model.DisplayRow) error {
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row: %w", err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}
	return nil
}
