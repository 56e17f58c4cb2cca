// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

func TestDeclareClassIdempotent(t *testing.T) {
	g := newTestGraph(t)
	c := iri(t, "http://example.org/C")
	DeclareClass(g, c)
	n := g.Len()
	DeclareClass(g, c)
	assert.Equal(t, n, g.Len())
	assert.True(t, g.Has(c, rdfType, owlClass))
}

func TestSomeValuesFrom(t *testing.T) {
	g := newTestGraph(t)
	anchor := iri(t, "http://example.org/cell")
	filler := iri(t, "http://example.org/kidney")

	node := SomeValuesFrom(g, anchor, oboLocatedIn, filler)
	assert.True(t, isBlank(node))
	assert.True(t, g.Has(node, rdfType, owlRestriction))
	assert.True(t, g.Has(node, owlOnProperty, oboLocatedIn))
	assert.True(t, g.Has(node, owlSomeValuesFrom, filler))

	// Same construct, same node; other anchor, other node.
	assert.Equal(t, node, SomeValuesFrom(g, anchor, oboLocatedIn, filler))
	assert.NotEqual(t, node, SomeValuesFrom(g, iri(t, "http://example.org/other"), oboLocatedIn, filler))
}

func TestIntersectionOfPreservesOrder(t *testing.T) {
	g := newTestGraph(t)
	anchor := iri(t, "http://example.org/set")
	members := []rdf.Term{
		SomeValuesFrom(g, anchor, g.vocab.hasMember, iri(t, "http://example.org/m2")),
		SomeValuesFrom(g, anchor, g.vocab.hasMember, iri(t, "http://example.org/m1")),
		SomeValuesFrom(g, anchor, g.vocab.hasMember, iri(t, "http://example.org/m3")),
	}

	node, ok := IntersectionOf(g, anchor, members)
	require.True(t, ok)
	assert.True(t, g.Has(node, rdfType, owlClass))

	heads := g.Objects(node, owlIntersectionOf)
	require.Len(t, heads, 1)
	var got []rdf.Term
	for cell := heads[0]; cell != rdfNil; {
		firsts := g.Objects(cell, rdfFirst)
		require.Len(t, firsts, 1)
		got = append(got, firsts[0])
		rests := g.Objects(cell, rdfRest)
		require.Len(t, rests, 1)
		cell = rests[0]
	}
	assert.Equal(t, members, got)
}

func TestIntersectionOfNoMembers(t *testing.T) {
	g := newTestGraph(t)
	before := g.Len()

	_, ok := IntersectionOf(g, iri(t, "http://example.org/set"), nil)
	assert.False(t, ok)
	assert.Equal(t, before, g.Len())
}

func TestReifySubclass(t *testing.T) {
	g := newTestGraph(t)
	subject := iri(t, "http://example.org/cell")
	target := SomeValuesFrom(g, subject, g.vocab.hasBiomarkerSet, iri(t, "http://example.org/set"))
	refs := []rdf.Term{iri(t, "http://doi.org/10.1/a"), iri(t, "http://doi.org/10.1/b")}

	node := ReifySubclass(g, subject, target, refs)
	assert.True(t, g.Has(node, rdfType, owlAxiom))
	assert.True(t, g.Has(node, owlAnnotatedSource, subject))
	assert.True(t, g.Has(node, owlAnnotatedProperty, rdfsSubClassOf))
	assert.True(t, g.Has(node, owlAnnotatedTarget, target))
	assert.ElementsMatch(t, refs, g.Objects(node, dctermsReferences))
}

func TestReifySubclassNoReferences(t *testing.T) {
	g := newTestGraph(t)
	subject := iri(t, "http://example.org/cell")
	target := iri(t, "http://example.org/parent")

	node := ReifySubclass(g, subject, target, nil)
	assert.True(t, g.Has(node, rdfType, owlAxiom))
	assert.Empty(t, g.Objects(node, dctermsReferences))
}
