package reporting

import (
	"encoding/json"
	"fmt"
	"os"
)

// RenderJSON renders the report as indented JSON.
func RenderJSON(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// SaveJSON writes the report as JSON to the given path.
func SaveJSON(r *Report, path string) error {
	data, err := RenderJSON(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
