// Package testutil holds shared test helpers: JSON fixtures and a stub
// PostgREST server.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadJSON reads a JSON fixture relative to the test's working directory
// into target.
func LoadJSON(filename string, target any) error {
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal fixture %s: %w", filename, err)
	}
	return nil
}
