// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ontology builds the CCF Biological Structure Ontology from CEDAR
// metadata instances. A Graph is an in-memory set of RDF triples; the
// Engine mutates it record by record and the writers serialize it as
// RDF/XML or N-Triples.
package ontology

import (
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Prefix binds a short name to a namespace IRI for serialization.
type Prefix struct {
	Name      string
	Namespace string
}

// Graph is a set of RDF statements. Adding a statement that is already
// present is a no-op. Statements keep first-insertion order so output is
// reproducible. A Graph has a single writer; it is not safe for
// concurrent use.
type Graph struct {
	iri       rdf.Term
	namespace string
	vocab     vocabulary
	prefixes  []Prefix

	// statements holds nil where a statement was removed; compact drops
	// the holes once they outnumber the live statements.
	statements []*rdf.Statement
	live       int
	// index maps a statement key to its position in statements.
	index map[string]int
	// bySubject maps a subject to the positions of its statements in
	// ascending order.
	bySubject map[string][]int
}

// compactThreshold is the number of removed statements below which
// compact leaves the holes in place.
const compactThreshold = 64

type options struct {
	namespace string
}

// Option configures New.
type Option func(*options)

// WithNamespace sets the namespace minted identifiers live under. It
// defaults to DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// New returns a graph holding the ontology declaration for ontologyIRI,
// the characterizing_biomarker_set root class, the dcterms:references
// annotation property, and the object properties the engine asserts.
func New(ontologyIRI string, opts ...Option) (*Graph, error) {
	o := options{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&o)
	}

	iri, err := NewIRI(ontologyIRI)
	if err != nil {
		return nil, err
	}
	if _, err := NewIRI(o.namespace); err != nil {
		return nil, err
	}
	vocab, err := newVocabulary(o.namespace)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		iri:       iri,
		namespace: o.namespace,
		vocab:     vocab,
		prefixes: []Prefix{
			{"ccf", o.namespace},
			{"obo", NamespaceOBO},
			{"owl", NamespaceOWL},
			{"rdf", NamespaceRDF},
			{"rdfs", NamespaceRDFS},
			{"dcterms", NamespaceDCTerms},
		},
		index:     make(map[string]int),
		bySubject: make(map[string][]int),
	}

	g.Add(iri, rdfType, owlOntology)
	DeclareClass(g, vocab.characterizingBiomarkerSet)
	g.Add(dctermsReferences, rdfType, owlAnnotationProperty)
	for _, p := range vocab.objectProperties() {
		g.Add(p.term, rdfType, owlObjectProperty)
		g.Add(p.term, rdfsLabel, plainLiteral(p.label))
	}

	return g, nil
}

// IRI returns the ontology IRI.
func (g *Graph) IRI() rdf.Term { return g.iri }

// Namespace returns the namespace minted identifiers live under.
func (g *Graph) Namespace() string { return g.namespace }

// InNamespace reports whether iri is minted under the graph's namespace.
func (g *Graph) InNamespace(iri string) bool {
	return strings.HasPrefix(iri, g.namespace)
}

// Prefixes returns the namespace bindings in declaration order.
func (g *Graph) Prefixes() []Prefix {
	return append([]Prefix(nil), g.prefixes...)
}

// Add asserts the triple (s, p, o).
func (g *Graph) Add(s, p, o rdf.Term) {
	k := key(s, p, o)
	if _, ok := g.index[k]; ok {
		return
	}
	pos := len(g.statements)
	g.statements = append(g.statements, &rdf.Statement{Subject: s, Predicate: p, Object: o})
	g.index[k] = pos
	g.bySubject[s.Value] = append(g.bySubject[s.Value], pos)
	g.live++
}

// Has reports whether the triple (s, p, o) is in the graph.
func (g *Graph) Has(s, p, o rdf.Term) bool {
	_, ok := g.index[key(s, p, o)]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int { return g.live }

// Statements returns the triples in insertion order. The statements are
// shared with the graph and must not be modified.
func (g *Graph) Statements() []*rdf.Statement {
	out := make([]*rdf.Statement, 0, g.live)
	for _, st := range g.statements {
		if st != nil {
			out = append(out, st)
		}
	}
	return out
}

// Objects returns the objects of all triples with subject s and predicate p.
func (g *Graph) Objects(s, p rdf.Term) []rdf.Term {
	var out []rdf.Term
	for _, pos := range g.bySubject[s.Value] {
		if st := g.statements[pos]; st.Predicate.Value == p.Value {
			out = append(out, st.Object)
		}
	}
	return out
}

// Remove deletes every triple with subject s and predicate p and returns
// the number removed.
func (g *Graph) Remove(s, p rdf.Term) int {
	positions, ok := g.bySubject[s.Value]
	if !ok {
		return 0
	}
	kept := positions[:0]
	removed := 0
	for _, pos := range positions {
		if g.statements[pos].Predicate.Value == p.Value {
			g.drop(pos)
			removed++
			continue
		}
		kept = append(kept, pos)
	}
	if len(kept) == 0 {
		delete(g.bySubject, s.Value)
	} else {
		g.bySubject[s.Value] = kept
	}
	g.compact()
	return removed
}

// removeBlankTree deletes every triple whose subject is node or a blank
// node reachable from it through blank objects.
func (g *Graph) removeBlankTree(node rdf.Term) {
	if !isBlank(node) {
		return
	}
	pending := []rdf.Term{node}
	seen := map[string]bool{}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[n.Value] {
			continue
		}
		seen[n.Value] = true
		for _, pos := range g.bySubject[n.Value] {
			if o := g.statements[pos].Object; isBlank(o) {
				pending = append(pending, o)
			}
		}
	}

	for subject := range seen {
		for _, pos := range g.bySubject[subject] {
			g.drop(pos)
		}
		delete(g.bySubject, subject)
	}
	g.compact()
}

// drop removes the statement at pos from statements and index. The
// caller updates bySubject.
func (g *Graph) drop(pos int) {
	st := g.statements[pos]
	delete(g.index, key(st.Subject, st.Predicate, st.Object))
	g.statements[pos] = nil
	g.live--
}

// compact rewrites the statement positions once removed statements
// outnumber live ones, keeping removal amortized constant time.
func (g *Graph) compact() {
	dead := len(g.statements) - g.live
	if dead < compactThreshold || dead <= g.live {
		return
	}
	statements := make([]*rdf.Statement, 0, g.live)
	g.index = make(map[string]int, g.live)
	g.bySubject = make(map[string][]int)
	for _, st := range g.statements {
		if st == nil {
			continue
		}
		pos := len(statements)
		statements = append(statements, st)
		g.index[key(st.Subject, st.Predicate, st.Object)] = pos
		g.bySubject[st.Subject.Value] = append(g.bySubject[st.Subject.Value], pos)
	}
	g.statements = statements
}

func key(s, p, o rdf.Term) string {
	return s.Value + " " + p.Value + " " + o.Value
}

func plainLiteral(text string) rdf.Term {
	t, err := rdf.NewLiteralTerm(text, "")
	if err != nil {
		// Only called with constant labels.
		panic(err)
	}
	return t
}
