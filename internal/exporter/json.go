package exporter

import (
	"encoding/json"
	"fmt"
	"os"

	"loaneda/pkg/contracts/domain"
)

// WriteJSON saves the report as indented JSON
func WriteJSON(path string, rep *domain.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
