package ast

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
)

// errAt builds a diagnostics.Error at rng's start position, shorthand used
// throughout literal construction. msg is used verbatim, never as a format.
func errAt(rng token.Range, kind diagnostics.Kind, msg string) *diagnostics.Error {
	return diagnostics.New(rng.Start, rng.Filename, kind, "%s", msg)
}

// Literal construction applies the semantic validation named in
// SPEC_FULL.md §4.C (overflow, invalid escape, invalid duration, invalid
// regex, missing tz) against the raw token text the scanner produced.
// Grounded on the general "parse leniently, attach an error, keep going"
// idiom followed throughout this package; strconv/time/regexp are used
// because no third-party literal-parsing library appears anywhere in the
// example pack for this concern.

// NewIntegerLit parses raw (no sign, as produced by the scanner; the unary
// '-' is a separate UnaryExpr) into an IntegerLit. A leading '0' on a
// multi-digit literal, or an out-of-range value, is rejected: the node
// keeps Value 0 and records the problem on its base.
func NewIntegerLit(rng token.Range, raw string) *IntegerLit {
	lit := &IntegerLit{base: base{rng: rng}}
	if len(raw) > 1 && raw[0] == '0' {
		lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, "nonzero value cannot start with 0"))
		return lit
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("invalid integer literal %q", raw)))
		return lit
	}
	lit.Value = v
	return lit
}

// NewUIntegerLit parses raw with its trailing 'u' suffix already stripped.
func NewUIntegerLit(rng token.Range, raw string) *UIntegerLit {
	lit := &UIntegerLit{base: base{rng: rng}}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("invalid unsigned literal %q", raw)))
		return lit
	}
	lit.Value = v
	return lit
}

// NewFloatLit parses raw into a FloatLit, unless it is NaN, in which case
// (per SPEC_FULL.md §4.C) the whole production is rejected and a BadExpr is
// returned instead of a defaulted literal.
func NewFloatLit(rng token.Range, raw string) Expression {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		bad := &BadExpr{base: base{rng: rng}, Text: raw}
		bad.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("invalid float literal %q", raw)))
		return bad
	}
	if v != v { // NaN
		bad := &BadExpr{base: base{rng: rng}, Text: raw}
		bad.AddError(errAt(rng, diagnostics.KindInvalidLiteral, "NaN is not a valid float literal"))
		return bad
	}
	return &FloatLit{base: base{rng: rng}, Value: v}
}

// NewStringLit decodes raw's backslash escapes. An unrecognized escape
// attaches a local error but does not fail the surrounding expression: the
// offending sequence is dropped and decoding continues.
func NewStringLit(rng token.Range, raw string) *StringLit {
	lit := &StringLit{base: base{rng: rng}}
	var b strings.Builder
	r := []rune(raw)
	for i := 0; i < len(r); i++ {
		if r[i] != '\\' || i+1 >= len(r) {
			b.WriteRune(r[i])
			continue
		}
		i++
		switch r[i] {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case '\\':
			b.WriteRune('\\')
		case '"':
			b.WriteRune('"')
		default:
			lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("unknown escape sequence \\%c", r[i])))
		}
	}
	lit.Value = b.String()
	return lit
}

// NewDurationLit parses a scanner DURATION literal ("1h30m") into its
// per-unit components. All magnitudes share the literal's sign.
func NewDurationLit(rng token.Range, raw string) *DurationLit {
	lit := &DurationLit{base: base{rng: rng}}
	s := raw
	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}
	var values []DurationValue
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			lit.AddError(errAt(rng, diagnostics.KindInvalidDuration, fmt.Sprintf("invalid duration literal %q", raw)))
			return lit
		}
		mag, err := strconv.ParseInt(s[start:i], 10, 64)
		if err != nil {
			lit.AddError(errAt(rng, diagnostics.KindInvalidDuration, fmt.Sprintf("invalid duration literal %q", raw)))
			return lit
		}
		unitStart := i
		for i < len(s) && (s[i] < '0' || s[i] > '9') {
			i++
		}
		unit := s[unitStart:i]
		if unit == "" {
			lit.AddError(errAt(rng, diagnostics.KindInvalidDuration, fmt.Sprintf("invalid duration literal %q", raw)))
			return lit
		}
		values = append(values, DurationValue{Magnitude: sign * mag, Unit: unit})
	}
	lit.Values = values
	return lit
}

// timeLayouts are tried in order; the first two carry an explicit zone, the
// last two do not.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// NewTimeLit parses raw as a timezone-aware instant. Input without an
// explicit zone offset parses successfully but records the "missing tz in
// time literal" diagnostic named in SPEC_FULL.md §4.C, defaulting the
// instant to UTC.
func NewTimeLit(rng token.Range, raw string) *TimeLit {
	lit := &TimeLit{base: base{rng: rng}}
	for _, layout := range timeLayouts[:2] {
		if v, err := time.Parse(layout, raw); err == nil {
			lit.Value = v
			return lit
		}
	}
	for _, layout := range timeLayouts[2:] {
		if v, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, "missing tz in time literal"))
			lit.Value = v
			return lit
		}
	}
	lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("invalid time literal %q", raw)))
	return lit
}

// NewRegexLit compiles raw (the bare pattern, without delimiting slashes) to
// validate it; an invalid pattern keeps the literal at "" with an error
// attached, per the default-valued-literal policy.
func NewRegexLit(rng token.Range, raw string, validate func(string) error) *RegexLit {
	lit := &RegexLit{base: base{rng: rng}}
	if err := validate(raw); err != nil {
		lit.AddError(errAt(rng, diagnostics.KindInvalidLiteral, fmt.Sprintf("invalid regex literal: %s", err)))
		return lit
	}
	lit.Value = raw
	return lit
}
