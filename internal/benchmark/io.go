package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write saves c as indented JSON, creating parent directories.
func Write(path string, c Comparison) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating benchmark dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding benchmark: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing benchmark: %w", err)
	}
	return nil
}

// Read loads a benchmark written by Write.
func Read(path string) (Comparison, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Comparison{}, fmt.Errorf("opening benchmark: %w", err)
	}
	var c Comparison
	if err := json.Unmarshal(data, &c); err != nil {
		return Comparison{}, fmt.Errorf("%s: decoding benchmark: %w", path, err)
	}
	return c, nil
}
