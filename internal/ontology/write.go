// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

// WriteNTriples writes g as N-Triples in insertion order.
func WriteNTriples(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, st := range g.Statements() {
		if _, err := fmt.Fprintf(bw, "%s %s %s .\n", st.Subject.Value, st.Predicate.Value, st.Object.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write serializes g to w in the given format.
func Write(w io.Writer, format types.OutputFormat, g *Graph) error {
	switch format {
	case types.FormatRDFXML, "":
		return WriteRDFXML(w, g)
	case types.FormatNTriples:
		return WriteNTriples(w, g)
	default:
		return fmt.Errorf("unsupported format %q: use rdfxml or ntriples", format)
	}
}

// WriteFile serializes g to path. The document is written to a temporary
// file in the same directory and renamed into place, so a failed write
// leaves no partial output. Failures are reported as *SerializationError.
func WriteFile(path string, format types.OutputFormat, g *Graph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return &SerializationError{Path: path, Err: err}
	}

	if err := Write(tmp, format, g); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &SerializationError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return &SerializationError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}
