package types

import (
	"encoding/json"
	"fmt"
)

// SettingsKeys are the keys clients nest the server's settings under, e.g.
// { "regexpLanguageServer": { ... } }.
var SettingsKeys = []string{"regexpLanguageServer", "regexp-language-server"}

// ParseSettings decodes client settings, from initializationOptions or
// workspace/didChangeConfiguration, into a layer. Settings without one of
// SettingsKeys are decoded as the layer itself.
func ParseSettings(settings any) (ConfigLayer, error) {
	var layer ConfigLayer
	if settings == nil {
		return layer, nil
	}

	ours := settings
	if m, ok := settings.(map[string]any); ok {
		for _, key := range SettingsKeys {
			if val, exists := m[key]; exists {
				ours = val
				break
			}
		}
	}
	if ours == nil {
		return layer, nil
	}

	// Convert to JSON and back to parse into struct
	jsonBytes, err := json.Marshal(ours)
	if err != nil {
		return layer, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, &layer); err != nil {
		return layer, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return layer, nil
}
