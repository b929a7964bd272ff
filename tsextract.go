// Package tsextract flattens hierarchical JSON documents into lazy sequences
// of timestamped, keyed scalar samples suitable for ingestion into a
// time-series store.
//
// The extraction engine walks an already-parsed JSON tree depth-first,
// resolves the timestamp in scope for each sub-tree, decides per node whether
// a sample is emitted, and synthesizes sample keys from a placeholder
// template. Samples stream out lazily: the walk advances only as the caller
// consumes the sequence.
//
// # Basic Usage
//
// Extracting samples from an IoT payload:
//
//	doc, _ := jsontree.ParseString(`{
//	    "time": "2024-05-01T12:00:00Z",
//	    "temperature": 28.1,
//	    "pressure": 1020.99,
//	    "acceleration": {"x": -0.876, "y": 0.516, "z": -0.044}
//	}`)
//
//	samples, err := tsextract.Extract(doc,
//	    extract.WithRecursive(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for s := range samples {
//	    fmt.Printf("%s @ %s = %s (%s)\n", s.Key, s.Timestamp, s.Value, s.TimestampSource)
//	}
//
// Restricting extraction to matching paths:
//
//	include, err := tsextract.BuildMatcher([]string{"/data/+/val"}, nil, true)
//	samples, err := tsextract.Extract(doc,
//	    extract.WithRecursive(true),
//	    extract.WithIncludeElement(include),
//	)
//
// Packaging an extraction into a binary batch:
//
//	enc, _ := batch.NewEncoder(batch.WithCompression(compress.S2))
//	_ = enc.AddAll(samples)
//	payload, _ := enc.Finish()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the extract,
// match and jsontree packages, simplifying the most common use cases. For
// fine-grained control, use those packages directly.
package tsextract

import (
	"iter"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/extract"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/hash"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/jsontree"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/match"
)

// Extract flattens a parsed JSON document into a lazy sample sequence.
//
// It fails fast, before any sample is produced, if the options are
// structurally invalid (malformed template, start-at path, timestamp path, or
// path separator). Per-node resolution failures never surface here; the
// affected node is skipped and the walk continues.
//
// Parameters:
//   - document: A parsed JSON tree (map[string]any / []any / scalars), for
//     example from jsontree.Parse.
//   - opts: Optional configuration (see the extract package's With... options).
//
// Returns:
//   - iter.Seq[extract.Sample]: The lazy sample sequence.
//   - error: A configuration error, if any.
func Extract(document any, opts ...extract.Option) (iter.Seq[extract.Sample], error) {
	extractor, err := extract.NewExtractor(opts...)
	if err != nil {
		return nil, err
	}

	return extractor.Extract(document), nil
}

// ExtractString parses JSON text and flattens it in one step.
func ExtractString(document string, opts ...extract.Option) (iter.Seq[extract.Sample], error) {
	tree, err := jsontree.ParseString(document)
	if err != nil {
		return nil, err
	}

	return Extract(tree, opts...)
}

// BuildMatcher compiles include and exclude path rules into a predicate
// suitable for extract.WithIncludeElement.
//
// Rules may be literal pointers, glob patterns ("?", "*") or MQTT-style
// paths ("+", trailing "#") when allowWildcards is true. Compilation fails
// if any rule is valid neither as a literal pointer nor as a wildcard
// expression.
func BuildMatcher(include, exclude []string, allowWildcards bool) (match.Predicate, error) {
	return match.Build(include, exclude, allowWildcards)
}

// SeriesID converts a sample key to its 64-bit xxHash64 identifier, the same
// ID the batch package records on decoded points.
func SeriesID(key string) uint64 {
	return hash.ID(key)
}
