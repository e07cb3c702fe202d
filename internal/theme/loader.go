package theme

import (
	"encoding/json"
	"fmt"
)

// decode reads an embedded theme file into T.
func decode[T any](name string) (T, error) {
	var result T

	content, err := themeFS.ReadFile(name)
	if err != nil {
		return result, fmt.Errorf("theme: read %s: %w", name, err)
	}
	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("theme: parse %s: %w", name, err)
	}
	return result, nil
}
