// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubmapconsortium/cedar2ccf/internal/ontology"
)

func TestWriteTextfile(t *testing.T) {
	b := NewBuild()
	b.Fetched(3)
	b.Observe(ontology.Stats{
		Instances:         3,
		GeneMarkers:       4,
		ProteinMarkers:    1,
		ReferencesKept:    2,
		ReferencesDropped: 1,
	}, 120)
	start := time.Unix(1700000000, 0)
	b.Finish(start, start.Add(1500*time.Millisecond))

	path := filepath.Join(t.TempDir(), "cedar2ccf.prom")
	require.NoError(t, b.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	for _, want := range []string{
		"cedar2ccf_instances_processed_total 3",
		"cedar2ccf_instances_fetched_total 3",
		`cedar2ccf_biomarkers_total{kind="gene"} 4`,
		`cedar2ccf_biomarkers_total{kind="protein"} 1`,
		`cedar2ccf_references_total{outcome="kept"} 2`,
		`cedar2ccf_references_total{outcome="dropped"} 1`,
		"cedar2ccf_ontology_triples 120",
		"cedar2ccf_build_duration_seconds 1.5",
		"cedar2ccf_build_last_success_timestamp_seconds 1.700000001e+09",
	} {
		assert.Contains(t, text, want)
	}
}

func TestBuildsDoNotShareState(t *testing.T) {
	first := NewBuild()
	first.Fetched(5)
	second := NewBuild()

	path := filepath.Join(t.TempDir(), "second.prom")
	require.NoError(t, second.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cedar2ccf_instances_fetched_total 0")
}

func TestWriteTextfileBadPath(t *testing.T) {
	b := NewBuild()
	err := b.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics")
}
