// Package diag implements the checker's diagnostic sink: the two operations
// (NonFatal, Fatal) the core calls out to, and the taxonomy of report kinds
// below. The shape - a position-tagged report, collected into a
// sortable list - mirrors go/scanner.ErrorList, which the sibling scanner
// package aliases directly; here we can't reuse go/scanner.Error itself
// since our reports need a Kind and a fatal/non-fatal distinction it has no
// room for, but the "accumulate, then sort by position" idiom is the same.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/typelang/lang/names"
)

// Kind distinguishes the taxonomy of diagnostics the checker and its
// collaborators can emit.
type Kind uint8

const (
	// Fatal kinds - abort inference of the current group.
	UnboundTypeVar Kind = iota
	NotASubtype
	NotAFunction
	ArityMismatch
	DanglingUniVar
	SelfReferentialType
	SkolemEscape
	SelfReferentialFixity

	// Non-fatal kinds - reported and inference continues.
	PrecedenceCycle
	DanglingSignature

	// Internal kinds - indicate a bug in the checker itself.
	InternalAlreadySolved
)

var kindFatal = map[Kind]bool{
	UnboundTypeVar:        true,
	NotASubtype:           true,
	NotAFunction:          true,
	ArityMismatch:         true,
	DanglingUniVar:        true,
	SelfReferentialType:   true,
	SkolemEscape:          true,
	SelfReferentialFixity: true,
	InternalAlreadySolved: true,
}

// Fatal reports whether k aborts the enclosing SCC's inference.
func (k Kind) Fatal() bool { return kindFatal[k] }

var kindNames = map[Kind]string{
	UnboundTypeVar:        "unbound type variable",
	NotASubtype:           "not a subtype",
	NotAFunction:          "not a function type",
	ArityMismatch:         "arity mismatch",
	DanglingUniVar:        "dangling unification variable",
	SelfReferentialType:   "self-referential type",
	SkolemEscape:          "skolem escaped its scope",
	SelfReferentialFixity: "self-referential fixity declaration",
	PrecedenceCycle:       "precedence cycle",
	DanglingSignature:     "dangling signature",
	InternalAlreadySolved: "internal error: univar already solved",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("<invalid diag.Kind %d>", k)
}

// Report is a single diagnostic, carrying a source location for printing.
type Report struct {
	Kind    Kind
	Loc     names.Loc
	Message string
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s: %s", r.Loc, r.Kind, r.Message)
}

// Error implements error so Fatal can return the report itself.
func (r Report) Error() string { return r.String() }

// Sink accumulates reports in the order they're emitted and is what the
// checker's entry points take as a diagnostic destination, matching the
// dependency injection shape of "the core calls two operations".
type Sink struct {
	reports []Report
	fatal   *Report // first fatal report seen, if any
}

// NewSink creates an empty Sink.
func NewSink() *Sink { return &Sink{} }

// NonFatal records a non-fatal warning; processing continues.
func (s *Sink) NonFatal(k Kind, loc names.Loc, format string, args ...interface{}) {
	s.reports = append(s.reports, Report{Kind: k, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Fatal records a fatal report and returns it as an error; callers unwind to
// the enclosing SCC boundary rather than aborting the whole run, so a run can
// record several fatal reports. Every one is appended to the full Reports()
// list; the first one of the run is what HasFatal tracks.
func (s *Sink) Fatal(k Kind, loc names.Loc, format string, args ...interface{}) error {
	r := Report{Kind: k, Loc: loc, Message: fmt.Sprintf(format, args...)}
	s.reports = append(s.reports, r)
	if s.fatal == nil {
		s.fatal = &r
	}
	return r
}

// Reports returns every report recorded so far, sorted by source position
// (stable on insertion order for equal positions, so diagnostics within a
// single pass still read in source order).
func (s *Sink) Reports() []Report {
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Loc, out[j].Loc
		var fa, fb string
		if a.File != nil {
			fa = a.File.Name()
		}
		if b.File != nil {
			fb = b.File.Name()
		}
		if fa != fb {
			return fa < fb
		}
		la, ca := a.Pos.LineCol()
		lb, cb := b.Pos.LineCol()
		if la != lb {
			return la < lb
		}
		return ca < cb
	})
	return out
}

// HasFatal reports whether any fatal diagnostic has been recorded.
func (s *Sink) HasFatal() bool { return s.fatal != nil }

// Error implements error so a Sink with fatal reports can be returned
// directly from a top-level entry point, matching the
// "guaranteed to be a scanner.ErrorList"-style contract the sibling packages
// use for their own error returns.
func (s *Sink) Error() string {
	if len(s.reports) == 0 {
		return "no diagnostics"
	}
	parts := make([]string, len(s.reports))
	for i, r := range s.Reports() {
		parts[i] = r.String()
	}
	return strings.Join(parts, "\n")
}
