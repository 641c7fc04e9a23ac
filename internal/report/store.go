package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"AHRSentinel/internal/model"
)

// Load reads a report from a JSON file. Returns nil if the file doesn't exist.
func Load(filePath string) (*model.Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// Save overwrites filePath with the report as indented JSON.
func Save(filePath string, r *model.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
