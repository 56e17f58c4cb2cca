// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

const testOntologyIRI = "http://purl.org/ccf/releases/2.0.0/ccf-bso.owl"

// --- test helpers ---

func iri(t *testing.T, s string) rdf.Term {
	t.Helper()
	term, err := NewIRI(s)
	require.NoError(t, err)
	return term
}

func newTestGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g, err := New(testOntologyIRI, opts...)
	require.NoError(t, err)
	return g
}

func tripleSet(g *Graph) map[string]bool {
	set := make(map[string]bool, g.Len())
	for _, st := range g.Statements() {
		set[key(st.Subject, st.Predicate, st.Object)] = true
	}
	return set
}

// --- New ---

func TestNewBaseline(t *testing.T) {
	g := newTestGraph(t)

	assert.Equal(t, iri(t, testOntologyIRI), g.IRI())
	assert.True(t, g.Has(g.IRI(), rdfType, owlOntology))
	assert.True(t, g.Has(iri(t, DefaultNamespace+"characterizing_biomarker_set"), rdfType, owlClass))
	assert.True(t, g.Has(dctermsReferences, rdfType, owlAnnotationProperty))
	assert.True(t, g.Has(oboLocatedIn, rdfType, owlObjectProperty))
	assert.True(t, g.Has(iri(t, DefaultNamespace+"has_member"), rdfType, owlObjectProperty))

	names := map[string]string{}
	for _, p := range g.Prefixes() {
		names[p.Name] = p.Namespace
	}
	assert.Equal(t, map[string]string{
		"ccf":     DefaultNamespace,
		"obo":     NamespaceOBO,
		"owl":     NamespaceOWL,
		"rdf":     NamespaceRDF,
		"rdfs":    NamespaceRDFS,
		"dcterms": NamespaceDCTerms,
	}, names)
}

func TestNewInvalidIRI(t *testing.T) {
	for _, bad := range []string{"", "no scheme", "http://example.org/a b", "http://example.org/<x>"} {
		t.Run(bad, func(t *testing.T) {
			_, err := New(bad)
			var idErr *IdentifierError
			require.True(t, errors.As(err, &idErr), "got %v", err)
			assert.Equal(t, bad, idErr.IRI)
			assert.Equal(t, -1, idErr.Index)
		})
	}
}

func TestNewWithNamespace(t *testing.T) {
	ns := "http://example.org/bso#"
	g := newTestGraph(t, WithNamespace(ns))

	assert.Equal(t, ns, g.Namespace())
	assert.True(t, g.InNamespace(ns+"cell1"))
	assert.False(t, g.InNamespace(DefaultNamespace+"cell1"))
	assert.True(t, g.Has(iri(t, ns+"characterizing_biomarker_set"), rdfType, owlClass))
}

// --- Add / Remove ---

func TestAddIsSetValued(t *testing.T) {
	g := newTestGraph(t)
	before := g.Len()

	s, o := iri(t, "http://example.org/a"), iri(t, "http://example.org/b")
	g.Add(s, rdfsSubClassOf, o)
	g.Add(s, rdfsSubClassOf, o)

	assert.Equal(t, before+1, g.Len())
	assert.True(t, g.Has(s, rdfsSubClassOf, o))
}

func TestRemove(t *testing.T) {
	g := newTestGraph(t)
	s := iri(t, "http://example.org/a")
	g.Add(s, owlEquivalentClass, iri(t, "http://example.org/b"))
	g.Add(s, owlEquivalentClass, iri(t, "http://example.org/c"))
	g.Add(s, rdfsSubClassOf, iri(t, "http://example.org/d"))
	before := g.Len()

	assert.Equal(t, 2, g.Remove(s, owlEquivalentClass))
	assert.Equal(t, before-2, g.Len())
	assert.Empty(t, g.Objects(s, owlEquivalentClass))
	assert.Len(t, g.Objects(s, rdfsSubClassOf), 1)

	// Removed triples can be asserted again.
	g.Add(s, owlEquivalentClass, iri(t, "http://example.org/b"))
	assert.True(t, g.Has(s, owlEquivalentClass, iri(t, "http://example.org/b")))
}

func TestRemoveBlankTree(t *testing.T) {
	g := newTestGraph(t)
	want := tripleSet(g)
	set := iri(t, "http://example.org/set")
	restriction := SomeValuesFrom(g, set, g.vocab.hasMember, iri(t, "http://example.org/m"))
	node, ok := IntersectionOf(g, set, []rdf.Term{restriction})
	require.True(t, ok)
	g.Add(set, owlEquivalentClass, node)

	g.removeBlankTree(node)
	assert.Empty(t, g.Objects(node, owlIntersectionOf))
	assert.Empty(t, g.Objects(restriction, owlOnProperty))

	// Only the triple pointing at the removed tree is left behind.
	want[key(set, owlEquivalentClass, node)] = true
	assert.Equal(t, want, tripleSet(g))
}

func TestRemoveManyKeepsIndexConsistent(t *testing.T) {
	g := newTestGraph(t)
	baseline := tripleSet(g)
	s := iri(t, "http://example.org/s")
	const n = 500
	for i := 0; i < n; i++ {
		g.Add(s, owlEquivalentClass, iri(t, fmt.Sprintf("http://example.org/o%d", i)))
		g.Add(iri(t, fmt.Sprintf("http://example.org/k%d", i)), rdfType, owlClass)
	}
	// Removal past the compaction point must leave lookups intact.
	assert.Equal(t, n, g.Remove(s, owlEquivalentClass))
	for i := 0; i < n; i++ {
		g.Remove(iri(t, fmt.Sprintf("http://example.org/k%d", i)), rdfType)
	}
	assert.Equal(t, baseline, tripleSet(g))
	assert.Equal(t, len(baseline), g.Len())
	assert.Len(t, g.Statements(), g.Len())

	g.Add(s, owlEquivalentClass, iri(t, "http://example.org/again"))
	assert.Equal(t, []rdf.Term{iri(t, "http://example.org/again")}, g.Objects(s, owlEquivalentClass))
	assert.True(t, g.Has(g.IRI(), rdfType, owlOntology))
}

func TestStatementsKeepInsertionOrder(t *testing.T) {
	g := newTestGraph(t)
	a, b := iri(t, "http://example.org/a"), iri(t, "http://example.org/b")
	g.Add(b, rdfType, owlClass)
	g.Add(a, rdfType, owlClass)

	sts := g.Statements()
	require.GreaterOrEqual(t, len(sts), 2)
	assert.Equal(t, b.Value, sts[len(sts)-2].Subject.Value)
	assert.Equal(t, a.Value, sts[len(sts)-1].Subject.Value)
}
