package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
)

// validateFormat rejects unknown --format values before any request is made.
func validateFormat(format string) error {
	return pkgerrors.ValidateFormat(format, formatTable, formatJSON, formatYAML)
}

// writeStructured encodes v as JSON or YAML. It returns false for the table
// format, which each command renders itself.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return true, err
	default:
		return false, nil
	}
}
