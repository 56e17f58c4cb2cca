// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cedar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

// ReadRecords loads instances from a local file holding a list of records
// in the CEDAR instance shape. Files ending in .yaml or .yml are read as
// YAML; anything else as JSON.
func ReadRecords(path string) ([]types.MetadataInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records %s: %w", path, err)
	}

	var instances []types.MetadataInstance
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &instances)
	default:
		err = json.Unmarshal(data, &instances)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing records %s: %w", path, err)
	}
	return instances, nil
}

// ReadTemplateIDs reads template IRIs, one per line. Blank lines and lines
// starting with # are skipped.
func ReadTemplateIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template list %s: %w", path, err)
	}
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, nil
}
