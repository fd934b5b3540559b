package cli

import (
	"encoding/json"
	"fmt"
)

// print writes v as indented JSON when --json is set, otherwise it runs
// human
func (a *app) print(v any, human func() error) error {
	if !a.flags.jsonOutput {
		return human()
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
