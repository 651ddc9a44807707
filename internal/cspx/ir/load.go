package ir

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads and decodes the JSON wire document documented in doc.go
// from path, returning an unvalidated Module. Callers run Validate
// themselves so a malformed module surfaces through the same
// InvalidInput/Unsupported ValidationError path a hand-authored fixture
// would.
func LoadFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ir: reading %s: %w", path, err)
	}
	var mod Module
	if err := json.Unmarshal(data, &mod); err != nil {
		return nil, fmt.Errorf("ir: decoding %s: %w", path, err)
	}
	return &mod, nil
}
