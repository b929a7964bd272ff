package extract

import (
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Extract flattens a parsed JSON document into a lazy sequence of samples.
//
// The sequence is finite and produced cooperatively: the walk advances only
// as the caller consumes it, one suspension per emitted sample. Each call
// produces a fresh traversal with its own pooled stacks, and the stacks are
// returned to their pools when the sequence is exhausted or abandoned early.
//
// If a start-at path is configured and does not resolve against document, the
// sequence is empty. If the (possibly repositioned) root is an array, every
// element is processed independently as its own document with its own
// timestamp fallback.
//
// Object members are visited in lexicographic key order: the parsed tree is
// built on Go maps, which do not retain document order, and a deterministic
// order is required for repeatable extraction.
func (e *Extractor) Extract(document any) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		root := document
		if len(e.startAt) > 0 {
			node, ok := e.startAt.Eval(document)
			if !ok {
				return
			}
			root = node
		}

		if elements, ok := root.([]any); ok {
			for _, element := range elements {
				if !e.extractDocument(element, yield) {
					return
				}
			}

			return
		}

		e.extractDocument(root, yield)
	}
}

// extractDocument walks a single document with its own extraction context.
// It reports false when the consumer stopped the sequence.
func (e *Extractor) extractDocument(doc any, yield func(Sample) bool) bool {
	obj, ok := doc.(map[string]any)
	if !ok {
		// A document that is not an object has no members to flatten.
		return true
	}

	c := newContext(e)
	defer c.close()

	c.pushRoot(obj)
	c.pushTimestamp(e.baseTimestamp(obj))

	cont := e.walkObject(c, obj, yield)

	c.popTimestamp()
	c.pop()

	return cont
}

// baseTimestamp computes the per-document fallback chain: the document's own
// timestamp, else the default provider, else the wall clock.
func (e *Extractor) baseTimestamp(doc map[string]any) timestampEntry {
	if ts, ok := e.resolveTimestamp(doc); ok {
		return timestampEntry{
			value:  ts,
			source: SourceDocument,
			origin: e.timestampPath,
		}
	}
	if e.defaultTimestamp != nil {
		return timestampEntry{value: e.defaultTimestamp(), source: SourceFallbackProvider}
	}

	return timestampEntry{value: e.now(), source: SourceCurrentTime}
}

// walkObject visits every member of obj in deterministic key order.
func (e *Extractor) walkObject(c *extractionContext, obj map[string]any, yield func(Sample) bool) bool {
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		c.push(name, obj[name], false)
		cont := e.visit(c, obj[name], yield)
		c.pop()
		if !cont {
			return false
		}
	}

	return true
}

// walkArray visits every element of arr in order, with the stringified index
// as the path segment.
func (e *Extractor) walkArray(c *extractionContext, arr []any, yield func(Sample) bool) bool {
	for i, element := range arr {
		c.push(strconv.Itoa(i), element, true)
		cont := e.visit(c, element, yield)
		c.pop()
		if !cont {
			return false
		}
	}

	return true
}

// visit applies the per-node decision to the node the context currently
// points at: emit it, descend into it, or both skip and descend.
//
// Rejection by the inclusion predicate (or by the implicit exclusion of a
// timestamp node) suppresses emission of this node only; descendants are
// still visited and evaluated individually.
func (e *Extractor) visit(c *extractionContext, node any, yield func(Sample) bool) bool {
	admitted := !c.isTimestampOrigin(c.path) && (e.include == nil || e.include(c.path))

	terminal := !e.recursive || (e.maxDepth >= 1 && c.depth() >= e.maxDepth)
	if !terminal {
		switch n := node.(type) {
		case map[string]any:
			return e.descendObject(c, n, yield)
		case []any:
			return e.walkArray(c, n, yield)
		}
	}

	if !admitted {
		return true
	}

	return e.emit(c, node, yield)
}

// descendObject recurses into a nested object, optionally shadowing the
// active timestamp for the duration of the sub-tree.
func (e *Extractor) descendObject(c *extractionContext, obj map[string]any, yield func(Sample) bool) bool {
	shadowed := false
	if e.nestedTimestamps {
		if ts, ok := e.resolveTimestamp(obj); ok {
			origin := c.path.Clone()
			origin = append(origin, e.timestampPath...)
			c.pushTimestamp(timestampEntry{value: ts, source: SourceDocument, origin: origin})
			shadowed = true
		}
	}

	cont := e.walkObject(c, obj, yield)

	if shadowed {
		c.popTimestamp()
	}

	return cont
}

// emit produces one sample for the current node. A key-build failure
// (unresolved placeholder, disallowed) skips this node and continues the
// walk.
func (e *Extractor) emit(c *extractionContext, node any, yield func(Sample) bool) bool {
	key, err := e.buildKey(c)
	if err != nil {
		return true
	}

	active := c.activeTimestamp()

	return yield(Sample{
		Key:             key,
		Timestamp:       active.value,
		Value:           coerceValue(node),
		TimestampSource: active.source,
	})
}
