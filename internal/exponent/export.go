// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exponent

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/risbas/pkg/types"
)

// ExportYAML writes the table records to w as a YAML sequence.
func (t Table) ExportYAML(w io.Writer) error {
	data, err := yaml.Marshal(t.exportEntries())
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the table records to w as an indented JSON array.
func (t Table) ExportJSON(w io.Writer) error {
	data, err := json.MarshalIndent(t.exportEntries(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// exportEntries never returns nil so an empty table exports as [] rather
// than null.
func (t Table) exportEntries() []types.ExponentRecord {
	if t.Records == nil {
		return []types.ExponentRecord{}
	}
	return t.Records
}
