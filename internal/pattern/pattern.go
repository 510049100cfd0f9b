// Package pattern compiles filename formats with named, typed placeholders
// (e.g. "trial_{text_id:d}_{page_id:d}.csv") into matchers that extract
// typed per-file metadata from candidate filenames.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/gazeset/internal/scalar"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoMatch reports that a filename does not conform to the compiled
// format. Whether that aborts or skips the file is the caller's decision.
var ErrNoMatch = errors.New("filename does not match pattern")

// PatternError reports a malformed filename format.
type PatternError struct {
	Format string
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid filename format %q: %s", e.Format, e.Reason)
}

// CastError reports a captured literal that cannot be converted to the
// kind declared for its placeholder.
type CastError struct {
	Field   string
	Literal string
	Kind    scalar.Kind
	Err     error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// field is one placeholder of a compiled format, in order of appearance.
type field struct {
	name string
	kind scalar.Kind
}

// Matcher is a compiled filename format. It is immutable and safe for
// concurrent use.
type Matcher struct {
	format string
	re     *regexp.Regexp
	fields []field
}

// capture classes per placeholder type tag. The default is a greedy
// non-separator run so an untyped placeholder never crosses a path
// boundary.
const (
	classDigits  = `[0-9]+`
	classDecimal = `[0-9]+(?:\.[0-9]+)?`
	classDefault = `[^/]+`
)

// Compile translates a filename format into a Matcher. Placeholder type
// tags select the capture class and the default kind; schema overrides
// re-type individual placeholders after capture. Literal text between
// placeholders must match exactly and the whole filename is anchored.
func Compile(format string, overrides map[string]scalar.Kind) (*Matcher, error) {
	var sb strings.Builder
	sb.WriteString(`\A`)

	var fields []field
	seen := make(map[string]struct{})

	rest := format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, &PatternError{Format: format, Reason: "unbalanced '}'"}
			}
			sb.WriteString(regexp.QuoteMeta(rest))
			break
		}
		if strings.IndexByte(rest[:open], '}') >= 0 {
			return nil, &PatternError{Format: format, Reason: "unbalanced '}'"}
		}
		sb.WriteString(regexp.QuoteMeta(rest[:open]))
		rest = rest[open+1:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return nil, &PatternError{Format: format, Reason: "unbalanced '{'"}
		}
		placeholder := rest[:closing]
		rest = rest[closing+1:]

		name := placeholder
		tag := ""
		if colon := strings.IndexByte(placeholder, ':'); colon >= 0 {
			name = placeholder[:colon]
			tag = placeholder[colon+1:]
		}
		if name == "" {
			return nil, &PatternError{Format: format, Reason: "placeholder has no name"}
		}
		if strings.ContainsAny(name, "{:") {
			return nil, &PatternError{Format: format, Reason: fmt.Sprintf("invalid placeholder name %q", name)}
		}
		if _, dup := seen[name]; dup {
			return nil, &PatternError{Format: format, Reason: fmt.Sprintf("duplicate placeholder %q", name)}
		}
		seen[name] = struct{}{}

		class := classDefault
		kind := scalar.String
		switch tag {
		case "":
			// untyped, default class and kind
		case "d":
			class = classDigits
			kind = scalar.Int
		case "f":
			class = classDecimal
			kind = scalar.Float
		case "s":
			// explicit string, same as untyped
		default:
			return nil, &PatternError{Format: format, Reason: fmt.Sprintf("unsupported type tag %q in placeholder %q", tag, name)}
		}
		if override, ok := overrides[name]; ok {
			kind = override
		}

		sb.WriteString("(")
		sb.WriteString(class)
		sb.WriteString(")")
		fields = append(fields, field{name: name, kind: kind})
	}

	sb.WriteString(`\z`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		// Unreachable for well-formed input since all literals are quoted.
		return nil, &PatternError{Format: format, Reason: err.Error()}
	}

	return &Matcher{format: format, re: re, fields: fields}, nil
}

// Format returns the original filename format the matcher was compiled from.
func (m *Matcher) Format() string { return m.format }

// Fields returns the placeholder names in order of appearance.
func (m *Matcher) Fields() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}
	return names
}

// Match attempts a full match of filename against the compiled format.
// On success it returns one typed value per placeholder. A filename that
// does not conform returns ErrNoMatch; a conforming filename whose
// captured literal cannot be cast to its declared kind returns a CastError.
func (m *Matcher) Match(filename string) (map[string]cty.Value, error) {
	groups := m.re.FindStringSubmatch(filename)
	if groups == nil {
		return nil, fmt.Errorf("%q: %w", filename, ErrNoMatch)
	}

	values := make(map[string]cty.Value, len(m.fields))
	for i, f := range m.fields {
		literal := groups[i+1]
		val, err := f.kind.Cast(literal)
		if err != nil {
			return nil, &CastError{Field: f.name, Literal: literal, Kind: f.kind, Err: err}
		}
		values[f.name] = val
	}
	return values, nil
}
