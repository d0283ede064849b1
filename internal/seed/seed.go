// Package seed reads the startup seed records consumed once by an empty store.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/campushub/item-manager/internal/models"
)

// Load reads a JSON array of item records (without ids) from path. Callers
// treat failures as non-fatal: the service still starts with an empty store.
func Load(path string) ([]models.ItemInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var inputs []models.ItemInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	return inputs, nil
}
