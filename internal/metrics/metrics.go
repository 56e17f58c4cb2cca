// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records counters for one build run and writes them in the
// Prometheus textfile format, for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hubmapconsortium/cedar2ccf/internal/ontology"
)

const namespace = "cedar2ccf"

// Build holds the metrics of a single build run. Each Build owns its
// registry so runs never share state.
type Build struct {
	registry *prometheus.Registry

	instances       prometheus.Counter
	markers         *prometheus.CounterVec
	references      *prometheus.CounterVec
	fetched         prometheus.Counter
	triples         prometheus.Gauge
	durationSeconds prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// NewBuild creates and registers the build metrics.
func NewBuild() *Build {
	b := &Build{
		registry: prometheus.NewRegistry(),
		instances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_processed_total",
			Help:      "Metadata instances applied to the ontology.",
		}),
		markers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "biomarkers_total",
			Help:      "Biomarkers linked to cell types, by kind.",
		}, []string{"kind"}),
		references: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "references_total",
			Help:      "Literature references seen, by outcome. Non-DOI references are dropped.",
		}, []string{"outcome"}),
		fetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_fetched_total",
			Help:      "Instances retrieved from the CEDAR server.",
		}),
		triples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ontology_triples",
			Help:      "Triples in the written ontology.",
		}),
		durationSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of the build run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build.",
		}),
	}
	b.registry.MustRegister(
		b.instances, b.markers, b.references, b.fetched,
		b.triples, b.durationSeconds, b.lastSuccess,
	)
	return b
}

// Fetched counts instances retrieved from upstream.
func (b *Build) Fetched(n int) {
	b.fetched.Add(float64(n))
}

// Observe records the engine counters and the final graph size.
func (b *Build) Observe(stats ontology.Stats, triples int) {
	b.instances.Add(float64(stats.Instances))
	b.markers.WithLabelValues("gene").Add(float64(stats.GeneMarkers))
	b.markers.WithLabelValues("protein").Add(float64(stats.ProteinMarkers))
	b.references.WithLabelValues("kept").Add(float64(stats.ReferencesKept))
	b.references.WithLabelValues("dropped").Add(float64(stats.ReferencesDropped))
	b.triples.Set(float64(triples))
}

// Finish records the run duration and marks the build successful at end.
func (b *Build) Finish(start, end time.Time) {
	b.durationSeconds.Set(end.Sub(start).Seconds())
	b.lastSuccess.Set(float64(end.Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (b *Build) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, b.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
