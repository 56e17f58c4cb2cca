// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// qnamer maps IRIs to prefixed names, inventing ns1, ns2, ... for
// namespaces without a binding.
type qnamer struct {
	prefixes []Prefix
	byNS     map[string]string
}

func newQNamer(bound []Prefix) *qnamer {
	q := &qnamer{byNS: make(map[string]string)}
	for _, p := range bound {
		if _, dup := q.byNS[p.Namespace]; dup {
			continue
		}
		q.prefixes = append(q.prefixes, p)
		q.byNS[p.Namespace] = p.Name
	}
	return q
}

// qname returns the prefixed element name for iri.
func (q *qnamer) qname(iri string) (string, error) {
	best := ""
	for ns := range q.byNS {
		if strings.HasPrefix(iri, ns) && len(ns) > len(best) && isNCName(iri[len(ns):]) {
			best = ns
		}
	}
	if best != "" {
		return q.byNS[best] + ":" + iri[len(best):], nil
	}

	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || !isNCName(iri[i+1:]) {
		return "", fmt.Errorf("cannot abbreviate %q as an XML name", iri)
	}
	ns := iri[:i+1]
	name := fmt.Sprintf("ns%d", len(q.prefixes)+1)
	q.prefixes = append(q.prefixes, Prefix{Name: name, Namespace: ns})
	q.byNS[ns] = name
	return name + ":" + iri[i+1:], nil
}

func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

type subjectGroup struct {
	subject    rdf.Term
	element    string
	statements []*rdf.Statement
}

// WriteRDFXML writes g as an RDF/XML document. Statements are grouped by
// subject in first-seen order; blank nodes are written with rdf:nodeID.
func WriteRDFXML(w io.Writer, g *Graph) error {
	q := newQNamer(g.Prefixes())

	var groups []*subjectGroup
	bySubject := make(map[string]*subjectGroup)
	for _, st := range g.Statements() {
		grp, ok := bySubject[st.Subject.Value]
		if !ok {
			grp = &subjectGroup{subject: st.Subject, element: "rdf:Description"}
			bySubject[st.Subject.Value] = grp
			groups = append(groups, grp)
		}
		grp.statements = append(grp.statements, st)
	}

	// Resolve every name before the root element so generated prefixes
	// are declared on it.
	names := make(map[string]string)
	for _, grp := range groups {
		typed := false
		for _, st := range grp.statements {
			if _, ok := names[st.Predicate.Value]; !ok {
				name, err := q.qname(iriText(st.Predicate))
				if err != nil {
					return err
				}
				names[st.Predicate.Value] = name
			}
			if !typed && st.Predicate.Value == rdfType.Value {
				if name, err := q.qname(iriText(st.Object)); err == nil {
					grp.element = name
					typed = true
				}
			}
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "rdf:RDF"}}
	for _, p := range q.prefixes {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:" + p.Name}, Value: p.Namespace})
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	for _, grp := range groups {
		if err := writeSubject(enc, grp, names); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeSubject(enc *xml.Encoder, grp *subjectGroup, names map[string]string) error {
	start := xml.StartElement{Name: xml.Name{Local: grp.element}, Attr: []xml.Attr{nodeAttr("rdf:about", grp.subject)}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	skippedType := grp.element == "rdf:Description"
	for _, st := range grp.statements {
		if !skippedType && st.Predicate.Value == rdfType.Value {
			skippedType = true
			continue
		}
		if err := writeProperty(enc, names[st.Predicate.Value], st.Object); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func writeProperty(enc *xml.Encoder, name string, object rdf.Term) error {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if !isLiteral(object) {
		el.Attr = append(el.Attr, nodeAttr("rdf:resource", object))
		if err := enc.EncodeToken(el); err != nil {
			return err
		}
		return enc.EncodeToken(el.End())
	}

	text, qual, _, err := object.Parts()
	if err != nil {
		return fmt.Errorf("literal %s: %w", object.Value, err)
	}
	switch {
	case strings.HasPrefix(qual, "@"):
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "xml:lang"}, Value: qual[1:]})
	case qual != "":
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "rdf:datatype"}, Value: strings.Trim(qual, "<>")})
	}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(el.End())
}

// nodeAttr refers to t by IRI, or by rdf:nodeID for blank nodes.
func nodeAttr(iriAttr string, t rdf.Term) xml.Attr {
	if isBlank(t) {
		return xml.Attr{Name: xml.Name{Local: "rdf:nodeID"}, Value: strings.TrimPrefix(t.Value, "_:")}
	}
	return xml.Attr{Name: xml.Name{Local: iriAttr}, Value: iriText(t)}
}

func isLiteral(t rdf.Term) bool {
	return strings.HasPrefix(t.Value, `"`)
}
