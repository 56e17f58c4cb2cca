// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubmapconsortium/cedar2ccf/internal/cache"
	"github.com/hubmapconsortium/cedar2ccf/internal/cedar"
	"github.com/hubmapconsortium/cedar2ccf/internal/metrics"
	"github.com/hubmapconsortium/cedar2ccf/internal/ontology"
	"github.com/hubmapconsortium/cedar2ccf/internal/secrets"
	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

const (
	defaultOntologyIRI = "http://purl.org/ccf/latest/ccf-bso.owl"
	defaultOutput      = "ccf-bso.owl"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the ontology from CEDAR instances or records files",
	Long: `Build fetches every instance based on each template listed in the input
file (one template IRI per line) and applies them to a new ontology in file
order. Records files (JSON or YAML arrays of instances) are applied after the
templates. The output is written only when every batch succeeds.

With --cache, fetched instances are stored in the local cache; with
--offline, instances are read from the cache instead of CEDAR.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringP("input", "i", "", "file listing template IRIs, one per line")
	f.StringSlice("records", nil, "JSON or YAML records files to apply (repeatable)")
	f.String("ontology-iri", defaultOntologyIRI, "IRI of the ontology")
	f.String("namespace", "", "namespace of minted identifiers (default "+ontology.DefaultNamespace+")")
	f.StringP("output", "o", defaultOutput, "output file")
	f.String("format", string(types.FormatRDFXML), "output format: rdfxml or ntriples")
	f.String("metrics-file", "", "write Prometheus textfile metrics to this path")
	f.Bool("cache", false, "store fetched instances in the local cache")
	f.Bool("offline", false, "read instances from the local cache instead of CEDAR")

	for key, flag := range map[string]string{
		"build.ontology_iri": "ontology-iri",
		"build.namespace":    "namespace",
		"build.output":       "output",
		"build.format":       "format",
		"build.metrics_file": "metrics-file",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(buildCmd)
}

func buildConfig() types.BuildConfig {
	return types.BuildConfig{
		OntologyIRI: viper.GetString("build.ontology_iri"),
		Namespace:   viper.GetString("build.namespace"),
		Output:      viper.GetString("build.output"),
		Format:      types.OutputFormat(viper.GetString("build.format")),
		MetricsFile: viper.GetString("build.metrics_file"),
	}
}

// batch is one group of instances applied in a single Mutate call.
type batch struct {
	source    string
	instances []types.MetadataInstance
}

// instanceFetcher retrieves the instances based on a template.
type instanceFetcher interface {
	Instances(ctx context.Context, templateIRI string) ([]types.MetadataInstance, error)
}

// recordCache stores and returns instances by template.
type recordCache interface {
	Put(ctx context.Context, template string, instances []types.MetadataInstance) error
	Instances(ctx context.Context, template string) ([]types.MetadataInstance, error)
}

// templateSource loads template batches from upstream or the cache. With
// store set, fetched instances are written to cache; with offline set they
// are read from it and fetcher is unused.
type templateSource struct {
	fetcher instanceFetcher
	cache   recordCache
	store   bool
	offline bool
	metrics *metrics.Build
}

func (s templateSource) load(ctx context.Context, templates []string) ([]batch, error) {
	batches := make([]batch, 0, len(templates))
	for _, tmpl := range templates {
		if s.offline {
			instances, err := s.cache.Instances(ctx, tmpl)
			if err != nil {
				return nil, fmt.Errorf("reading cached instances: %w", err)
			}
			batches = append(batches, batch{source: tmpl, instances: instances})
			continue
		}

		instances, err := s.fetcher.Instances(ctx, tmpl)
		if err != nil {
			return nil, fmt.Errorf("fetching instances of %s: %w", tmpl, err)
		}
		if s.metrics != nil {
			s.metrics.Fetched(len(instances))
		}
		if s.store {
			if err := s.cache.Put(ctx, tmpl, instances); err != nil {
				return nil, fmt.Errorf("caching instances of %s: %w", tmpl, err)
			}
		}
		batches = append(batches, batch{source: tmpl, instances: instances})
	}
	return batches, nil
}

func loadRecordBatches(paths []string) ([]batch, error) {
	batches := make([]batch, 0, len(paths))
	for _, path := range paths {
		instances, err := cedar.ReadRecords(path)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch{source: path, instances: instances})
	}
	return batches, nil
}

// buildOntology applies batches in order to a new graph. The first failing
// batch aborts the build.
func buildOntology(cfg types.BuildConfig, batches []batch) (*ontology.Graph, ontology.Stats, error) {
	var opts []ontology.Option
	if cfg.Namespace != "" {
		opts = append(opts, ontology.WithNamespace(cfg.Namespace))
	}
	g, err := ontology.New(cfg.OntologyIRI, opts...)
	if err != nil {
		return nil, ontology.Stats{}, err
	}

	engine := ontology.NewEngine(log.WithField("component", "ontology"))
	for _, b := range batches {
		if _, err := engine.Mutate(g, b.instances); err != nil {
			return nil, engine.Stats(), fmt.Errorf("applying %s: %w", b.source, err)
		}
		log.WithFields(log.Fields{"source": b.source, "instances": len(b.instances)}).Info("applied batch")
	}
	return g, engine.Stats(), nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	input, _ := cmd.Flags().GetString("input")
	records, _ := cmd.Flags().GetStringSlice("records")
	useCache, _ := cmd.Flags().GetBool("cache")
	offline, _ := cmd.Flags().GetBool("offline")
	if input == "" && len(records) == 0 {
		return fmt.Errorf("provide --input with template IRIs or --records files")
	}
	if offline && input == "" {
		return fmt.Errorf("--offline requires --input")
	}

	cfg := buildConfig()
	switch cfg.Format {
	case types.FormatRDFXML, types.FormatNTriples:
	default:
		return fmt.Errorf("unsupported format %q: use rdfxml or ntriples", cfg.Format)
	}

	m := metrics.NewBuild()
	var batches []batch

	if input != "" {
		templates, err := cedar.ReadTemplateIDs(input)
		if err != nil {
			return err
		}
		src := templateSource{store: useCache, offline: offline, metrics: m}
		if useCache || offline {
			store, err := cache.NewStore(cacheConfig())
			if err != nil {
				return err
			}
			defer store.Close()
			src.cache = store
		}
		if !offline {
			cc := cedarConfig()
			if cc.APIKey == "" {
				return fmt.Errorf("CEDAR API key required: set CEDAR_API_KEY, --api-key, or .secrets/%s", secrets.CedarAPIKey)
			}
			src.fetcher = cedar.NewClient(cc)
		}
		b, err := src.load(ctx, templates)
		if err != nil {
			return err
		}
		batches = append(batches, b...)
	}

	rb, err := loadRecordBatches(records)
	if err != nil {
		return err
	}
	batches = append(batches, rb...)

	g, stats, err := buildOntology(cfg, batches)
	if err != nil {
		return err
	}
	if err := ontology.WriteFile(cfg.Output, cfg.Format, g); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"output":             cfg.Output,
		"triples":            g.Len(),
		"instances":          stats.Instances,
		"references_dropped": stats.ReferencesDropped,
	}).Info("ontology written")

	if cfg.MetricsFile != "" {
		m.Observe(stats, g.Len())
		m.Finish(start, time.Now())
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}
