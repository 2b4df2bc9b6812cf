package types

import (
	"sort"
	"strings"
)

// Label names a single record field or variant tag.
type Label string

// Row is an unordered finite mapping from Label to Type, plus an optional
// extension Type (typically a UniVar or Var) standing for "and more
// fields/tags unknown". A Row with a nil Extension is closed.
//
// Fields is a plain map rather than the BTreeMap the design notes suggest,
// since Go's stdlib has no balanced tree container; String orders keys
// explicitly so output (and therefore golden tests) stays deterministic.
type Row struct {
	Fields    map[Label]Type
	Extension Type // nil if closed
}

// NewRow builds a closed row from the given fields.
func NewRow(fields map[Label]Type) Row {
	return Row{Fields: fields}
}

// EmptyRow is the closed row with no fields, i.e. {} or [].
func EmptyRow() Row { return Row{Fields: map[Label]Type{}} }

// Closed reports whether the row has no extension.
func (r Row) Closed() bool { return r.Extension == nil }

// Lookup returns the field's type if present directly in this row (not
// following the extension chain - see compress/deepLookup in package
// checker for that).
func (r Row) Lookup(l Label) (Type, bool) {
	t, ok := r.Fields[l]
	return t, ok
}

// Labels returns the row's own field labels (not following Extension),
// sorted for deterministic iteration.
func (r Row) Labels() []Label {
	out := make([]Label, 0, len(r.Fields))
	for l := range r.Fields {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WithField returns a copy of r with l bound to t (overwriting any existing
// binding); r itself is not mutated.
func (r Row) WithField(l Label, t Type) Row {
	fields := make(map[Label]Type, len(r.Fields)+1)
	for k, v := range r.Fields {
		fields[k] = v
	}
	fields[l] = t
	return Row{Fields: fields, Extension: r.Extension}
}

// WithoutFields returns a copy of r with every label in labels removed.
func (r Row) WithoutFields(labels map[Label]struct{}) Row {
	fields := make(map[Label]Type, len(r.Fields))
	for k, v := range r.Fields {
		if _, drop := labels[k]; !drop {
			fields[k] = v
		}
	}
	return Row{Fields: fields, Extension: r.Extension}
}

// WithExtension returns a copy of r with its extension replaced.
func (r Row) WithExtension(ext Type) Row {
	return Row{Fields: r.Fields, Extension: ext}
}

func (r Row) String() string {
	labels := r.Labels()
	parts := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		parts = append(parts, string(l)+" : "+r.Fields[l].String())
	}
	if r.Extension != nil {
		parts = append(parts, "| "+r.Extension.String())
	}
	return strings.Join(parts, ", ")
}
