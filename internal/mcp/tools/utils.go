package tools

import (
	"encoding/json"
	"fmt"
)

// toJSON renders a tool payload as the text content returned to the caller.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(b), nil
}
