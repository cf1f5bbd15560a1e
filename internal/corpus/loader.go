// Package corpus loads the static historical notice dataset used as the
// similarity search universe. The corpus is read once at startup and is
// immutable for the process lifetime; live updates require a restart.
package corpus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tenderlens/tenderlens/internal/domain"
)

//go:embed notices.json
var bundledNotices []byte

// Load reads a notice dataset from the given JSON array file and normalizes
// it. An empty path loads the bundled dataset.
func Load(path string) ([]domain.Notice, error) {
	data := bundledNotices
	if path != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", path, err)
		}
	}

	var notices []domain.Notice
	if err := json.Unmarshal(data, &notices); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}

	return Normalize(notices), nil
}
