// Package match compiles path match rules into inclusion predicates.
//
// A rule is one of three shapes:
//
//   - a literal pointer ("/data/temperature"), compared segment by segment;
//   - a glob pattern containing "?" (exactly one character) or "*" (zero or
//     more characters), matched case-insensitively against the full text form
//     of the candidate path;
//   - an MQTT-style path containing "+" (exactly one arbitrary segment) or a
//     trailing "#" (zero or more remaining segments), matched segment by
//     segment.
//
// Glob and MQTT shapes are mutually exclusive per rule: the presence of "?"
// or "*" forces glob semantics even when "+" or "#" also appear. A rule with
// "#" anywhere but the final segment is malformed and fails compilation.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/pointer"
)

// Predicate reports whether a node path is a member of the compiled set.
type Predicate func(p pointer.Pointer) bool

// ruleKind identifies how a compiled rule matches candidate paths.
type ruleKind uint8

const (
	kindLiteral ruleKind = iota
	kindPattern
	kindSegments
)

// Rule is a single compiled match rule.
type Rule struct {
	raw        string
	kind       ruleKind
	literal    pointer.Pointer
	pattern    *regexp.Regexp
	segments   pointer.Pointer // MQTT segments, excluding a trailing "#"
	multiLevel bool            // rule ended with "/#"
}

// CompileRule compiles a single rule. When allowWildcards is false the rule
// is always treated as a literal pointer.
func CompileRule(raw string, allowWildcards bool) (*Rule, error) {
	if allowWildcards {
		if strings.ContainsAny(raw, "?*") {
			return compilePattern(raw)
		}
		if strings.ContainsAny(raw, "+#") {
			return compileSegments(raw)
		}
	}

	lit, err := pointer.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidMatchRule, err)
	}

	return &Rule{raw: raw, kind: kindLiteral, literal: lit}, nil
}

// compilePattern translates a glob rule to an anchored, case-insensitive
// regular expression over the text form of the path.
func compilePattern(raw string) (*Rule, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range raw {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", errs.ErrInvalidMatchRule, raw, err)
	}

	return &Rule{raw: raw, kind: kindPattern, pattern: re}, nil
}

// compileSegments compiles an MQTT-style rule for segment-wise matching.
func compileSegments(raw string) (*Rule, error) {
	segs, err := pointer.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidMatchRule, err)
	}

	rule := &Rule{raw: raw, kind: kindSegments}
	for i, seg := range segs {
		if seg != "#" {
			continue
		}
		if i != len(segs)-1 {
			return nil, fmt.Errorf("%w: %q", errs.ErrMultiLevelNotLast, raw)
		}
		rule.multiLevel = true
	}

	if rule.multiLevel {
		segs = segs[:len(segs)-1]
	}
	rule.segments = segs

	return rule, nil
}

// Raw returns the rule's original text.
func (r *Rule) Raw() string {
	return r.raw
}

// Matches reports whether the candidate path satisfies the rule.
func (r *Rule) Matches(p pointer.Pointer) bool {
	switch r.kind {
	case kindPattern:
		return r.pattern.MatchString(p.String())
	case kindSegments:
		return r.matchSegments(p)
	default:
		return r.literal.Equal(p)
	}
}

func (r *Rule) matchSegments(p pointer.Pointer) bool {
	if r.multiLevel {
		// The fixed prefix must be fully present; anything beyond it matches.
		if len(p) < len(r.segments) {
			return false
		}
	} else if len(p) != len(r.segments) {
		return false
	}

	for i, seg := range r.segments {
		if seg == "+" {
			continue
		}
		if p[i] != seg {
			return false
		}
	}

	return true
}

// Build compiles the include and exclude rule sets into a single predicate.
//
// With no rules at all the predicate accepts every path. With only excludes,
// everything not excluded is accepted. With includes, a path must match an
// include rule and no exclude rule; exclusion always wins over inclusion.
//
// Compilation fails with errs.ErrInvalidMatchRule (or errs.ErrMultiLevelNotLast)
// if any rule is valid neither as a literal pointer nor as a wildcard
// expression. This is a configuration error raised before any path is tested.
func Build(include, exclude []string, allowWildcards bool) (Predicate, error) {
	includes, err := compileAll(include, allowWildcards)
	if err != nil {
		return nil, err
	}
	excludes, err := compileAll(exclude, allowWildcards)
	if err != nil {
		return nil, err
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return func(pointer.Pointer) bool { return true }, nil
	}

	return func(p pointer.Pointer) bool {
		for _, rule := range excludes {
			if rule.Matches(p) {
				return false
			}
		}
		if len(includes) == 0 {
			return true
		}
		for _, rule := range includes {
			if rule.Matches(p) {
				return true
			}
		}

		return false
	}, nil
}

func compileAll(rules []string, allowWildcards bool) ([]*Rule, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	compiled := make([]*Rule, 0, len(rules))
	for _, raw := range rules {
		rule, err := CompileRule(raw, allowWildcards)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rule)
	}

	return compiled, nil
}
