package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"NewsDigest/internal/domain"
)

// Load reads a ranking profile definition from a JSON file.
func Load(path string) (domain.ProfileSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ProfileSpec{}, fmt.Errorf("read profile file: %w", err)
	}

	var spec domain.ProfileSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return domain.ProfileSpec{}, fmt.Errorf("parse profile file %s: %w", path, err)
	}

	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return domain.ProfileSpec{}, fmt.Errorf("profile file %s: name is required", path)
	}

	return spec, nil
}
