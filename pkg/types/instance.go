// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record schema and configuration shared by the
// cedar2ccf stages: fetching CEDAR instances, mutating the ontology, and
// caching records.
package types

// Entity is a JSON-LD node reference carrying only an identifier.
type Entity struct {
	ID string `json:"@id" yaml:"@id"`
}

// LabeledEntity is a JSON-LD node reference with a display label. CEDAR
// writes the label under "rdfs:label"; hand-written record files may use
// the shorter "label" key.
type LabeledEntity struct {
	ID        string `json:"@id" yaml:"@id"`
	RDFSLabel string `json:"rdfs:label,omitempty" yaml:"rdfs:label,omitempty"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel returns the rdfs:label value, falling back to label.
func (e LabeledEntity) DisplayLabel() string {
	if e.RDFSLabel != "" {
		return e.RDFSLabel
	}
	return e.Label
}

// Literal is a JSON-LD value object.
type Literal struct {
	Value *string `json:"@value" yaml:"@value"`
}

// Marker is a gene or protein biomarker entry. CEDAR emits empty objects
// for unfilled template rows, so both nil entries and entries without an
// identifier count as absent.
type Marker struct {
	ID    string `json:"@id" yaml:"@id"`
	Label string `json:"rdfs:label,omitempty" yaml:"rdfs:label,omitempty"`
}

// Present reports whether m names a biomarker.
func (m *Marker) Present() bool {
	return m != nil && m.ID != ""
}

// MetadataInstance is one CEDAR metadata record associating an anatomical
// structure, a cell type, and its characterizing biomarkers.
type MetadataInstance struct {
	// ID is the CEDAR instance IRI. It is optional for records read from
	// local files and is used only as the cache key.
	ID string `json:"@id,omitempty" yaml:"@id,omitempty"`

	AnatomicalStructure *Entity        `json:"anatomical_structure" yaml:"anatomical_structure"`
	CellType            *LabeledEntity `json:"cell_type" yaml:"cell_type"`

	// GeneBiomarkers and ProteinBiomarkers keep input order; absent
	// entries are skipped by the mutation engine.
	GeneBiomarkers    []*Marker `json:"gene_biomarker" yaml:"gene_biomarker"`
	ProteinBiomarkers []*Marker `json:"protein_biomarker" yaml:"protein_biomarker"`

	// References are free-text literature references. Only DOI references
	// end up in the ontology.
	References []Literal `json:"doi" yaml:"doi"`
}

// ReferenceValues returns the non-null reference strings in input order.
func (m MetadataInstance) ReferenceValues() []string {
	var out []string
	for _, ref := range m.References {
		if ref.Value != nil {
			out = append(out, *ref.Value)
		}
	}
	return out
}
