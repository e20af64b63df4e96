// Package diagnostics implements the error taxonomy and stable rendering of
// SPEC_FULL.md §7: "<file>:<line>:<col>: error: <message>" short form, plus a
// long form with a source-excerpt caret. Reconstructed from the call sites the
// teacher's own internal/diagnostics package left behind (accumulation into a
// slice, a single Error() string) and cross-grounded on cue/errors.go's Error
// interface and list/Sort/Append accumulation idiom.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/funxy/internal/token"
)

// Kind names the taxonomy entry a diagnostic belongs to. Kind names are part
// of the stable contract; rendered messages are stable text, not the kind.
type Kind string

const (
	// Lex/parse
	KindUnexpectedToken  Kind = "unexpected-token"
	KindMissingToken     Kind = "missing-token"
	KindNestedTooDeep    Kind = "nested-too-deep"
	KindInvalidLiteral   Kind = "invalid-literal"
	KindPipeNotCall      Kind = "pipe-destination-not-call"

	// Shape (converter)
	KindTestCaseUnsupported  Kind = "test-case-unsupported"
	KindInvalidNamedType     Kind = "invalid-named-type"
	KindAtMostOnePipe        Kind = "at-most-one-pipe"
	KindInvalidConstraint    Kind = "invalid-constraint"
	KindInvalidPipeLiteral   Kind = "invalid-pipe-literal-position"
	KindNonIdentParam        Kind = "non-identifier-function-parameter"
	KindMissingReturn        Kind = "missing-return"
	KindInvalidFuncStatement Kind = "invalid-function-statement"
	KindParamsNotRecord      Kind = "parameters-not-record"
	KindExtraParamRecord     Kind = "extra-parameter-record"
	KindInvalidDuration      Kind = "invalid-duration"

	// Type
	KindCannotUnify         Kind = "cannot-unify"
	KindCannotConstrain     Kind = "cannot-constrain"
	KindOccursCheck         Kind = "occurs-check"
	KindMissingLabel        Kind = "missing-label"
	KindExtraLabel          Kind = "extra-label"
	KindCannotUnifyLabel    Kind = "cannot-unify-label"
	KindMissingArgument     Kind = "missing-argument"
	KindExtraArgument       Kind = "extra-argument"
	KindCannotUnifyArgument Kind = "cannot-unify-argument"
	KindCannotUnifyReturn   Kind = "cannot-unify-return"
	KindMissingPipeArgument Kind = "missing-pipe-argument"
	KindMultiplePipeArgs    Kind = "multiple-pipe-arguments"

	// Other/converter-level
	KindUndefinedIdentifier Kind = "undefined-identifier"
	KindCannotContinue      Kind = "cannot-continue"
)

// Error is a single diagnostic: a position, a taxonomy kind, a message, and
// an optional wrapped cause for contextual chains ("for label X", "(argument Y)").
type Error struct {
	Pos   token.Position
	File  string
	Kind  Kind
	Msg   string
	Cause *Error
}

func New(pos token.Position, file string, kind Kind, format string, args ...any) *Error {
	return &Error{Pos: pos, File: file, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches contextual text in front of an existing error's message,
// keeping the original position (errors report where the innermost problem
// is, not where the wrapping context started) while recording the outer
// message as a distinct link for long-form rendering.
func Wrap(inner *Error, format string, args ...any) *Error {
	return &Error{
		Pos:   inner.Pos,
		File:  inner.File,
		Kind:  inner.Kind,
		Msg:   fmt.Sprintf(format, args...) + ": " + inner.Msg,
		Cause: inner,
	}
}

func (e *Error) Error() string {
	return e.Short()
}

// Short renders the stable "<file>:<line>:<col>: error: <message>" form.
func (e *Error) Short() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%s: error: %s", file, e.Pos, e.Msg)
}

// Long renders the short form plus a one-line source excerpt with a caret
// underline under the error's column, when sourceLine is non-empty.
func (e *Error) Long(sourceLine string) string {
	var b strings.Builder
	b.WriteString(e.Short())
	if sourceLine != "" {
		b.WriteByte('\n')
		b.WriteString(sourceLine)
		b.WriteByte('\n')
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", col-1))
		b.WriteByte('^')
	}
	return b.String()
}

// List accumulates diagnostics across passes, preserving production order
// until explicitly sorted. Mirrors cue/errors.go's list type.
type List struct {
	errs []*Error
}

func (l *List) Add(e *Error) {
	if e == nil {
		return
	}
	l.errs = append(l.errs, e)
}

func (l *List) Addf(pos token.Position, file string, kind Kind, format string, args ...any) {
	l.Add(New(pos, file, kind, format, args...))
}

func (l *List) Append(other *List) {
	if other == nil {
		return
	}
	l.errs = append(l.errs, other.errs...)
}

func (l *List) Len() int { return len(l.errs) }

func (l *List) Errors() []*Error { return l.errs }

// Sort orders diagnostics by file name, then by position within a file, for
// stable multi-error reports.
func (l *List) Sort() {
	sort.SliceStable(l.errs, func(i, j int) bool {
		a, b := l.errs[i], l.errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Pos.Less(b.Pos)
	})
}

func (l *List) String() string {
	parts := make([]string, len(l.errs))
	for i, e := range l.errs {
		parts[i] = e.Short()
	}
	return strings.Join(parts, "\n")
}
