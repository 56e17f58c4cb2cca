// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

// ExportEntry holds one template with its cached instances.
type ExportEntry struct {
	Template  `yaml:",inline"`
	Instances []types.MetadataInstance `json:"instances" yaml:"instances"`
}

// ExportYAML writes the cache to dir/export.yaml and returns the path.
// The file is a list of template entries, each carrying its instances; it
// is not a records file for build --records.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the cache to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	templates, err := s.Templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates for export: %w", err)
	}
	entries := make([]ExportEntry, len(templates))
	for i, t := range templates {
		instances, err := s.Instances(ctx, t.IRI)
		if err != nil {
			return nil, err
		}
		entries[i] = ExportEntry{Template: t, Instances: instances}
	}
	return entries, nil
}
