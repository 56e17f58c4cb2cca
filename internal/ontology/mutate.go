// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/hubmapconsortium/cedar2ccf/internal/slug"
	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

const (
	biomarkerSetLabelPrefix = "characterizing biomarker set of "
	doiResolver             = "http://doi.org/"
)

// doiPattern matches a "doi:" reference and captures the DOI itself.
var doiPattern = regexp.MustCompile(`(?i)\bdoi:\s*(\S+)`)

// Stats counts what an Engine has added across all Mutate calls.
type Stats struct {
	Instances         int
	GeneMarkers       int
	ProteinMarkers    int
	ReferencesKept    int
	ReferencesDropped int
}

// Engine turns metadata instances into axioms. It keeps no graph state of
// its own; the graph passed to Mutate is changed in place.
type Engine struct {
	log   log.FieldLogger
	stats Stats
}

// NewEngine returns an Engine that logs through logger. A nil logger uses
// the standard logrus logger.
func NewEngine(logger log.FieldLogger) *Engine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Engine{log: logger}
}

// Stats returns the running totals.
func (e *Engine) Stats() Stats { return e.stats }

// markerKind selects the forward and inverse relation for a biomarker.
type markerKind struct {
	field   string
	has, of rdf.Term
}

// Mutate adds the axioms for instances to g in input order and returns g.
// The first malformed record or invalid IRI aborts the batch. Triples
// already added by the failing record stay in g; reprocessing the
// corrected batch restates them.
func (e *Engine) Mutate(g *Graph, instances []types.MetadataInstance) (*Graph, error) {
	for i := range instances {
		if err := e.mutateOne(g, i, &instances[i]); err != nil {
			return g, err
		}
	}
	return g, nil
}

func (e *Engine) mutateOne(g *Graph, index int, inst *types.MetadataInstance) error {
	if err := validate(index, inst); err != nil {
		return err
	}
	iri := func(field, value string) (rdf.Term, error) {
		t, err := NewIRI(value)
		if err != nil {
			var idErr *IdentifierError
			if errors.As(err, &idErr) {
				idErr.Index = index
				idErr.Field = field
			}
			return rdf.Term{}, err
		}
		return t, nil
	}

	anatomical, err := iri("anatomical_structure", inst.AnatomicalStructure.ID)
	if err != nil {
		return err
	}
	cellType, err := iri("cell_type", inst.CellType.ID)
	if err != nil {
		return err
	}
	label := biomarkerSetLabelPrefix + inst.CellType.DisplayLabel()
	biomarkerSet, err := iri("cell_type", g.namespace+slug.Make(label))
	if err != nil {
		return err
	}
	labelTerm, err := rdf.NewLiteralTerm(label, "")
	if err != nil {
		return fmt.Errorf("record %d: biomarker set label: %w", index, err)
	}

	e.log.WithFields(log.Fields{
		"record":        index,
		"cell_type":     inst.CellType.ID,
		"biomarker_set": iriText(biomarkerSet),
	}).Debug("mutating record")

	e.declareRooted(g, anatomical, oboAnatomicalEntity)
	e.declareRooted(g, cellType, oboCell)
	SubClassOf(g, cellType, SomeValuesFrom(g, cellType, oboLocatedIn, anatomical))

	DeclareClass(g, biomarkerSet)
	g.Add(biomarkerSet, rdfsLabel, labelTerm)
	SubClassOf(g, biomarkerSet, g.vocab.characterizingBiomarkerSet)

	var markers []rdf.Term
	kinds := []struct {
		markerKind
		entries []*types.Marker
		count   *int
	}{
		{markerKind{"gene_biomarker", g.vocab.hasGeneMarker, g.vocab.isGeneMarkerOf}, inst.GeneBiomarkers, &e.stats.GeneMarkers},
		{markerKind{"protein_biomarker", g.vocab.hasProteinMarker, g.vocab.isProteinMarkerOf}, inst.ProteinBiomarkers, &e.stats.ProteinMarkers},
	}
	for _, k := range kinds {
		for _, m := range k.entries {
			if !m.Present() {
				continue
			}
			marker, err := iri(k.field, m.ID)
			if err != nil {
				return err
			}
			DeclareClass(g, marker)
			SubClassOf(g, cellType, SomeValuesFrom(g, cellType, k.has, marker))
			SubClassOf(g, marker, SomeValuesFrom(g, marker, k.of, cellType))
			markers = append(markers, marker)
			*k.count++
		}
	}

	e.defineBiomarkerSet(g, biomarkerSet, markers)

	target := SomeValuesFrom(g, cellType, g.vocab.hasBiomarkerSet, biomarkerSet)
	SubClassOf(g, cellType, target)

	if refs := inst.ReferenceValues(); len(refs) > 0 {
		var dois []rdf.Term
		for _, ref := range refs {
			expanded, ok := expandDOI(ref)
			if !ok {
				e.stats.ReferencesDropped++
				e.log.WithFields(log.Fields{"record": index, "reference": ref}).Debug("dropping non-DOI reference")
				continue
			}
			doi, err := iri("doi", expanded)
			if err != nil {
				return err
			}
			dois = append(dois, doi)
			e.stats.ReferencesKept++
		}
		ReifySubclass(g, cellType, target, dois)
	}

	e.stats.Instances++
	return nil
}

// declareRooted declares class and, when it is minted in the graph's own
// namespace, places it under root. Classes from other namespaces are
// defined by their source ontology.
func (e *Engine) declareRooted(g *Graph, class, root rdf.Term) {
	DeclareClass(g, class)
	if g.InNamespace(iriText(class)) {
		DeclareClass(g, root)
		SubClassOf(g, class, root)
	}
}

// defineBiomarkerSet makes set equivalent to the intersection of
// "has member some marker" over markers. The set's IRI depends only on
// the cell type label, so a later record with the same label replaces an
// earlier definition. A record without markers leaves the set undefined
// and keeps any earlier definition.
func (e *Engine) defineBiomarkerSet(g *Graph, set rdf.Term, markers []rdf.Term) {
	if len(markers) == 0 {
		return
	}
	for _, old := range g.Objects(set, owlEquivalentClass) {
		g.removeBlankTree(old)
	}
	g.Remove(set, owlEquivalentClass)

	members := make([]rdf.Term, len(markers))
	for i, m := range markers {
		members[i] = SomeValuesFrom(g, set, g.vocab.hasMember, m)
	}
	if node, ok := IntersectionOf(g, set, members); ok {
		g.Add(set, owlEquivalentClass, node)
	}
}

func validate(index int, inst *types.MetadataInstance) error {
	switch {
	case inst.AnatomicalStructure == nil || inst.AnatomicalStructure.ID == "":
		return &MalformedInstanceError{Index: index, Field: "anatomical_structure.@id"}
	case inst.CellType == nil || inst.CellType.ID == "":
		return &MalformedInstanceError{Index: index, Field: "cell_type.@id"}
	case strings.TrimSpace(inst.CellType.DisplayLabel()) == "":
		return &MalformedInstanceError{Index: index, Field: "cell_type.rdfs:label"}
	}
	return nil
}

// expandDOI rewrites the first "doi:" reference in ref into a resolver
// URL. Text around the reference and trailing punctuation are dropped.
// References without a DOI are reported as not expandable.
func expandDOI(ref string) (string, bool) {
	m := doiPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	doi := strings.TrimRight(m[1], ".,;)")
	if doi == "" {
		return "", false
	}
	return doiResolver + doi, true
}
