// Package pointer implements the JSON-pointer style paths used to address
// nodes in a parsed JSON tree.
//
// A pointer is an ordered sequence of segments, each segment being an object
// property name or a stringified array index. The empty pointer addresses the
// root of the tree. The text form follows RFC 6901: segments are separated by
// "/" and the characters "~" and "/" inside a segment are escaped as "~0" and
// "~1" respectively.
package pointer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
)

// Pointer is an ordered sequence of path segments, relative to the processing
// root. The nil (or empty) Pointer addresses the root itself.
type Pointer []string

// Parse parses the RFC 6901 text form of a pointer.
//
// The empty string and "/" both denote the root. Any other pointer must start
// with "/". A malformed escape sequence ("~" followed by anything other than
// "0" or "1") fails with errs.ErrInvalidPointer.
func Parse(s string) (Pointer, error) {
	if s == "" || s == "/" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: %q must start with '/'", errs.ErrInvalidPointer, s)
	}

	raw := strings.Split(s[1:], "/")
	segs := make(Pointer, len(raw))
	for i, seg := range raw {
		unescaped, err := unescape(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errs.ErrInvalidPointer, s, err)
		}
		segs[i] = unescaped
	}

	return segs, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// compile-time constant pointers, typically in tests.
func MustParse(s string) Pointer {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return p
}

func unescape(seg string) (string, error) {
	if !strings.Contains(seg, "~") {
		return seg, nil
	}

	var b strings.Builder
	b.Grow(len(seg))
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(seg) {
			return "", fmt.Errorf("dangling '~' escape")
		}
		i++
		switch seg[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("unknown escape '~%c'", seg[i])
		}
	}

	return b.String(), nil
}

func escape(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~", "~0")

	return strings.ReplaceAll(seg, "/", "~1")
}

// IsRoot reports whether p addresses the root of the tree.
func (p Pointer) IsRoot() bool {
	return len(p) == 0
}

// String returns the RFC 6901 text form of the pointer. The root pointer
// renders as "/".
func (p Pointer) String() string {
	if len(p) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(escape(seg))
	}

	return b.String()
}

// Join renders the pointer as a sample key fragment: segments joined by sep
// with no leading separator. When includeIndexes is false, segments that
// parse as non-negative integers (array indexes) are omitted.
func (p Pointer) Join(sep string, includeIndexes bool) string {
	if len(p) == 0 {
		return ""
	}
	if includeIndexes {
		return strings.Join(p, sep)
	}

	var b strings.Builder
	first := true
	for _, seg := range p {
		if IsIndex(seg) {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		b.WriteString(seg)
		first = false
	}

	return b.String()
}

// Last returns the final segment, or "" for the root pointer.
func (p Pointer) Last() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Equal reports segment-wise structural equality.
func (p Pointer) Equal(other Pointer) bool {
	if len(p) != len(other) {
		return false
	}
	for i, seg := range p {
		if other[i] != seg {
			return false
		}
	}

	return true
}

// Child returns a new pointer with seg appended. The receiver is not
// modified and does not share backing storage with the result.
func (p Pointer) Child(seg string) Pointer {
	child := make(Pointer, len(p)+1)
	copy(child, p)
	child[len(p)] = seg

	return child
}

// Clone returns an independent copy of the pointer.
func (p Pointer) Clone() Pointer {
	if p == nil {
		return nil
	}
	c := make(Pointer, len(p))
	copy(c, p)

	return c
}

// Eval resolves the pointer against a parsed JSON tree of maps, slices and
// scalars. It reports false when any segment cannot be resolved.
func (p Pointer) Eval(node any) (any, bool) {
	cur := node
	for _, seg := range p {
		switch n := cur.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			cur = n[idx]
		default:
			return nil, false
		}
	}

	return cur, true
}

// IsIndex reports whether seg is a stringified non-negative array index.
func IsIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}

	return true
}
