// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/devotional/pkg/types"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode renders c in the given format. JSON matches the layout of
// devotionals.json.
func Encode(c types.Collection, format string) ([]byte, error) {
	if c == nil {
		c = types.Collection{}
	}
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

// Export writes the stored history to w.
func (s *Store) Export(w io.Writer, format string) error {
	data, err := Encode(s.Load(), format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportFile writes the stored history to path, replacing it atomically.
func (s *Store) ExportFile(path, format string) error {
	data, err := Encode(s.Load(), format)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
