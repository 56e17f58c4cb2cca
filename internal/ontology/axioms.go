// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

// blankSpace seeds the name-based UUIDs used as blank node labels.
var blankSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(DefaultNamespace))

// blankNode returns a blank node whose label is a function of kind and
// parts, so rebuilding the same construct yields the same node.
func blankNode(kind string, parts ...rdf.Term) rdf.Term {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(0)
		b.WriteString(p.Value)
	}
	id := uuid.NewSHA1(blankSpace, []byte(b.String()))
	t, err := rdf.NewBlankTerm(kind + strings.ReplaceAll(id.String(), "-", ""))
	if err != nil {
		panic(err)
	}
	return t
}

// DeclareClass asserts that class is an owl:Class.
func DeclareClass(g *Graph, class rdf.Term) {
	g.Add(class, rdfType, owlClass)
}

// SubClassOf asserts sub rdfs:subClassOf super.
func SubClassOf(g *Graph, sub, super rdf.Term) {
	g.Add(sub, rdfsSubClassOf, super)
}

// SomeValuesFrom builds the restriction "some property value is a filler"
// and returns its node. The anchor is the class the restriction will be
// attached to; it keeps restrictions on different classes distinct, since
// an anonymous class expression may not be shared between axioms.
func SomeValuesFrom(g *Graph, anchor, property, filler rdf.Term) rdf.Term {
	node := blankNode("restriction", anchor, property, filler)
	g.Add(node, rdfType, owlRestriction)
	g.Add(node, owlOnProperty, property)
	g.Add(node, owlSomeValuesFrom, filler)
	return node
}

// IntersectionOf builds an anonymous class equal to the conjunction of
// members, keeping member order in the RDF collection. With no members
// there is nothing to intersect: IntersectionOf adds nothing and reports
// false.
func IntersectionOf(g *Graph, anchor rdf.Term, members []rdf.Term) (rdf.Term, bool) {
	if len(members) == 0 {
		return rdf.Term{}, false
	}
	node := blankNode("intersection", append([]rdf.Term{anchor}, members...)...)
	g.Add(node, rdfType, owlClass)
	g.Add(node, owlIntersectionOf, collection(g, node, members))
	return node, true
}

// collection writes items as an rdf:first/rdf:rest list owned by owner
// and returns the list head.
func collection(g *Graph, owner rdf.Term, items []rdf.Term) rdf.Term {
	cells := make([]rdf.Term, len(items))
	for i := range items {
		cells[i] = blankNode("list", owner, rdf.Term{Value: strconv.Itoa(i)})
	}
	for i, item := range items {
		g.Add(cells[i], rdfFirst, item)
		if i+1 < len(cells) {
			g.Add(cells[i], rdfRest, cells[i+1])
		} else {
			g.Add(cells[i], rdfRest, rdfNil)
		}
	}
	return cells[0]
}

// ReifySubclass annotates the axiom (subject rdfs:subClassOf target) with
// one dcterms:references triple per reference and returns the owl:Axiom node.
func ReifySubclass(g *Graph, subject, target rdf.Term, references []rdf.Term) rdf.Term {
	node := blankNode("axiom", subject, rdfsSubClassOf, target)
	g.Add(node, rdfType, owlAxiom)
	g.Add(node, owlAnnotatedSource, subject)
	g.Add(node, owlAnnotatedProperty, rdfsSubClassOf)
	g.Add(node, owlAnnotatedTarget, target)
	for _, ref := range references {
		g.Add(node, dctermsReferences, ref)
	}
	return node
}
