// Package bootstrap seeds the system function catalog, the superuser and the
// access control role and group of a company.
package bootstrap

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/complyhub/complyhub/internal/db/models"
)

//go:embed system_functions.json
var embeddedCatalog []byte

var (
	// ErrEmptyCatalog is returned for a catalog without entries.
	ErrEmptyCatalog = errors.New("system function catalog is empty")
	// ErrUnnamedEntry is returned for a catalog entry without name.
	ErrUnnamedEntry = errors.New("system function catalog entry without name")
)

// CatalogEntry is one system function of the catalog file.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadCatalog reads the catalog file at path, or the embedded catalog when path is empty.
func LoadCatalog(path string) ([]models.SystemFunction, error) {
	raw := embeddedCatalog

	if path != "" {
		var err error

		raw, err = os.ReadFile(path) //nolint:gosec // operator supplied path
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	return parseCatalog(raw)
}

func parseCatalog(raw []byte) ([]models.SystemFunction, error) {
	var entries []CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	functions := make([]models.SystemFunction, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.Name == "" {
			return nil, ErrUnnamedEntry
		}

		if _, dup := seen[e.Name]; dup {
			continue
		}

		seen[e.Name] = struct{}{}
		functions = append(functions, models.SystemFunction{Name: e.Name, Description: e.Description, Active: true})
	}

	return functions, nil
}
