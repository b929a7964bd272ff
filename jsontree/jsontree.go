// Package jsontree converts between JSON text and the map/slice/scalar trees
// the extractor walks.
//
// Parsing and serialization are delegated to github.com/ohler55/ojg, which
// produces exactly the simple-type trees (map[string]any, []any, int64,
// float64, string, bool, nil) the extractor expects.
package jsontree

import (
	"github.com/ohler55/ojg/oj"
)

// Parse parses JSON text into a tree of simple Go values.
func Parse(data []byte) (any, error) {
	return oj.Parse(data)
}

// ParseString parses JSON text into a tree of simple Go values.
func ParseString(s string) (any, error) {
	return oj.ParseString(s)
}

// serializeOptions sorts object keys so the same sub-tree always renders to
// the same text; extracting a document twice must yield identical samples.
var serializeOptions = oj.Options{Sort: true}

// Serialize renders a tree node back to compact JSON text. It is used for
// sample values that capture an entire sub-tree (non-recursive or
// depth-truncated object and array nodes).
func Serialize(node any) string {
	return oj.JSON(node, &serializeOptions)
}
