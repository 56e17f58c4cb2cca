package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cedar2ccf/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CedarConfig holds settings for the CEDAR resource server client.
type CedarConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the CEDAR resource server (default https://resource.metadatacenter.org).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// UserID is the CEDAR account identifier. It is informational; requests
	// authenticate with APIKey alone.
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`

	// APIKey authenticates every request.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the search page size (default 200, the CEDAR maximum).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OutputFormat selects the ontology serialization.
type OutputFormat string

const (
	FormatRDFXML   OutputFormat = "rdfxml"
	FormatNTriples OutputFormat = "ntriples"
)

// BuildConfig holds settings for the ontology build.
type BuildConfig struct {
	// OntologyIRI is the IRI of the owl:Ontology declaration.
	OntologyIRI string `json:"ontology_iri" yaml:"ontology_iri"`

	// Namespace is the IRI prefix minted identifiers live under. IRIs in
	// this namespace are subclassed under the external anatomy and cell roots.
	Namespace string `json:"namespace" yaml:"namespace"`

	// Output is the path of the serialized ontology.
	Output string `json:"output" yaml:"output"`

	// Format selects the output format: rdfxml or ntriples.
	Format OutputFormat `json:"format" yaml:"format"`

	// MetricsFile, when set, receives Prometheus textfile metrics for the run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

// CacheConfig holds settings for the local record cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database and exports.
	Dir string `json:"dir" yaml:"dir"`
}
