// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import "fmt"

// MalformedInstanceError reports a record missing a required field. Index
// is the zero-based position of the record in the batch.
type MalformedInstanceError struct {
	Index int
	Field string
}

func (e *MalformedInstanceError) Error() string {
	return fmt.Sprintf("record %d: missing required field %s", e.Index, e.Field)
}

// IdentifierError reports a string that is not a usable IRI. Index is -1
// when the IRI did not come from a batch record.
type IdentifierError struct {
	IRI   string
	Index int
	Field string
	Err   error
}

func (e *IdentifierError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid IRI %q: %v", e.IRI, e.Err)
	}
	return fmt.Sprintf("record %d: %s: invalid IRI %q: %v", e.Index, e.Field, e.IRI, e.Err)
}

func (e *IdentifierError) Unwrap() error { return e.Err }

// SerializationError reports a failure writing the ontology document.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("writing ontology %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
