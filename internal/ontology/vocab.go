// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"errors"
	"net/url"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Namespaces bound in every graph.
const (
	NamespaceRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL     = "http://www.w3.org/2002/07/owl#"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
	NamespaceOBO     = "http://purl.obolibrary.org/obo/"

	// DefaultNamespace is the CCF namespace minted identifiers live under.
	DefaultNamespace = "http://purl.org/ccf/latest/ccf.owl#"
)

var (
	rdfType  = mustIRI(NamespaceRDF + "type")
	rdfFirst = mustIRI(NamespaceRDF + "first")
	rdfRest  = mustIRI(NamespaceRDF + "rest")
	rdfNil   = mustIRI(NamespaceRDF + "nil")

	rdfsLabel      = mustIRI(NamespaceRDFS + "label")
	rdfsSubClassOf = mustIRI(NamespaceRDFS + "subClassOf")

	owlOntology           = mustIRI(NamespaceOWL + "Ontology")
	owlClass              = mustIRI(NamespaceOWL + "Class")
	owlRestriction        = mustIRI(NamespaceOWL + "Restriction")
	owlObjectProperty     = mustIRI(NamespaceOWL + "ObjectProperty")
	owlAnnotationProperty = mustIRI(NamespaceOWL + "AnnotationProperty")
	owlAxiom              = mustIRI(NamespaceOWL + "Axiom")
	owlOnProperty         = mustIRI(NamespaceOWL + "onProperty")
	owlSomeValuesFrom     = mustIRI(NamespaceOWL + "someValuesFrom")
	owlIntersectionOf     = mustIRI(NamespaceOWL + "intersectionOf")
	owlEquivalentClass    = mustIRI(NamespaceOWL + "equivalentClass")
	owlAnnotatedSource    = mustIRI(NamespaceOWL + "annotatedSource")
	owlAnnotatedProperty  = mustIRI(NamespaceOWL + "annotatedProperty")
	owlAnnotatedTarget    = mustIRI(NamespaceOWL + "annotatedTarget")

	dctermsReferences = mustIRI(NamespaceDCTerms + "references")

	oboLocatedIn        = mustIRI(NamespaceOBO + "RO_0001025")
	oboAnatomicalEntity = mustIRI(NamespaceOBO + "UBERON_0001062")
	oboCell             = mustIRI(NamespaceOBO + "CL_0000000")
)

// vocabulary holds the terms minted in the graph's own namespace.
type vocabulary struct {
	characterizingBiomarkerSet rdf.Term
	hasGeneMarker              rdf.Term
	isGeneMarkerOf             rdf.Term
	hasProteinMarker           rdf.Term
	isProteinMarkerOf          rdf.Term
	hasMember                  rdf.Term
	hasBiomarkerSet            rdf.Term
}

func newVocabulary(ns string) (vocabulary, error) {
	names := []string{
		"characterizing_biomarker_set",
		"cell_type_has_gene_marker",
		"is_gene_marker_of_cell_type",
		"cell_type_has_protein_marker",
		"is_protein_marker_of_cell_type",
		"has_member",
		"cell_type_has_characterizing_biomarker_set",
	}
	terms := make([]rdf.Term, len(names))
	for i, name := range names {
		t, err := NewIRI(ns + name)
		if err != nil {
			return vocabulary{}, err
		}
		terms[i] = t
	}
	return vocabulary{
		characterizingBiomarkerSet: terms[0],
		hasGeneMarker:              terms[1],
		isGeneMarkerOf:             terms[2],
		hasProteinMarker:           terms[3],
		isProteinMarkerOf:          terms[4],
		hasMember:                  terms[5],
		hasBiomarkerSet:            terms[6],
	}, nil
}

// objectProperties lists the relations the engine uses, with their labels.
func (v vocabulary) objectProperties() []struct {
	term  rdf.Term
	label string
} {
	return []struct {
		term  rdf.Term
		label string
	}{
		{oboLocatedIn, "located in"},
		{v.hasGeneMarker, "cell type has gene marker"},
		{v.isGeneMarkerOf, "is gene marker of cell type"},
		{v.hasProteinMarker, "cell type has protein marker"},
		{v.isProteinMarkerOf, "is protein marker of cell type"},
		{v.hasMember, "has member"},
		{v.hasBiomarkerSet, "cell type has characterizing biomarker set"},
	}
}

var errNoScheme = errors.New("IRI has no scheme")

// NewIRI validates iri and returns it as an RDF term. Invalid input
// yields an *IdentifierError with Index -1.
func NewIRI(iri string) (rdf.Term, error) {
	if iri == "" {
		return rdf.Term{}, &IdentifierError{IRI: iri, Index: -1, Err: errors.New("empty IRI")}
	}
	if i := strings.IndexAny(iri, " \t\r\n<>\"{}|^`\\"); i >= 0 {
		return rdf.Term{}, &IdentifierError{IRI: iri, Index: -1, Err: errors.New("IRI contains a disallowed character")}
	}
	u, err := url.Parse(iri)
	if err != nil {
		return rdf.Term{}, &IdentifierError{IRI: iri, Index: -1, Err: err}
	}
	if u.Scheme == "" {
		return rdf.Term{}, &IdentifierError{IRI: iri, Index: -1, Err: errNoScheme}
	}
	t, err := rdf.NewIRITerm(iri)
	if err != nil {
		return rdf.Term{}, &IdentifierError{IRI: iri, Index: -1, Err: err}
	}
	return t, nil
}

func mustIRI(iri string) rdf.Term {
	t, err := NewIRI(iri)
	if err != nil {
		panic(err)
	}
	return t
}

// iriText returns the IRI a term names, or "" when t is not an IRI.
func iriText(t rdf.Term) string {
	text, _, kind, err := t.Parts()
	if err != nil || kind != rdf.IRI {
		return ""
	}
	return text
}

func isBlank(t rdf.Term) bool {
	return strings.HasPrefix(t.Value, "_:")
}
