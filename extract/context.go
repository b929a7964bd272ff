package extract

import (
	"time"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/pool"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/pointer"
)

// ancestryEntry mirrors one level of the current descent from the processing
// root down to the node being visited.
type ancestryEntry struct {
	// segment is the path segment that led to node; empty for the root entry.
	segment string

	// node is the tree node at this level.
	node any

	// isArrayElement marks entries reached through an array index.
	isArrayElement bool

	// hasSegment distinguishes the root entry from a member with an empty
	// property name.
	hasSegment bool
}

// timestampEntry is the nearest-in-scope timestamp during traversal.
type timestampEntry struct {
	value  time.Time
	origin pointer.Pointer // path of the node the timestamp was read from; nil for fallbacks
	source TimestampSource
}

var (
	ancestryPool  = pool.NewStackPool[ancestryEntry]()
	timestampPool = pool.NewStackPool[timestampEntry]()
)

// extractionContext is the per-document traversal state: the bounded ancestry
// stack, the bounded timestamp stack, and the path scratch mirroring the
// ancestry segments. It is owned exclusively by one extractDocument call;
// backing storage is rented from shared pools and returned on close.
type extractionContext struct {
	e          *Extractor
	ancestry   []ancestryEntry
	timestamps []timestampEntry
	path       pointer.Pointer

	ancestryHW  int // high-water marks for clear-on-return
	timestampHW int
	closed      bool
}

func newContext(e *Extractor) *extractionContext {
	capacity := e.stackCapacity()

	return &extractionContext{
		e:          e,
		ancestry:   ancestryPool.Get(capacity),
		timestamps: timestampPool.Get(capacity),
		path:       make(pointer.Pointer, 0, capacity),
	}
}

// close returns the rented stacks to their pools. It must run exactly once
// per context, including when the consumer abandons the sequence early.
func (c *extractionContext) close() {
	if c.closed {
		panic("extract: context closed twice")
	}
	c.closed = true

	ancestryPool.Put(c.ancestry, c.ancestryHW)
	timestampPool.Put(c.timestamps, c.timestampHW)
	c.ancestry = nil
	c.timestamps = nil
}

// pushRoot pushes the processing root, which contributes no path segment.
func (c *extractionContext) pushRoot(node any) {
	c.pushEntry(ancestryEntry{node: node})
}

// push records a descent into node via segment.
func (c *extractionContext) push(segment string, node any, isArrayElement bool) {
	c.pushEntry(ancestryEntry{
		segment:        segment,
		node:           node,
		isArrayElement: isArrayElement,
		hasSegment:     true,
	})
	c.path = append(c.path, segment)
}

func (c *extractionContext) pushEntry(entry ancestryEntry) {
	if c.closed {
		panic("extract: use of closed context")
	}
	c.ancestry = append(c.ancestry, entry)
	if len(c.ancestry) > c.ancestryHW {
		c.ancestryHW = len(c.ancestry)
	}
}

func (c *extractionContext) pop() {
	if len(c.ancestry) == 0 {
		panic("extract: ancestry stack underflow")
	}
	top := c.ancestry[len(c.ancestry)-1]
	c.ancestry = c.ancestry[:len(c.ancestry)-1]
	if top.hasSegment {
		c.path = c.path[:len(c.path)-1]
	}
}

// pushTimestamp shadows the active timestamp for the current sub-tree.
func (c *extractionContext) pushTimestamp(entry timestampEntry) {
	if len(c.timestamps) >= len(c.ancestry) {
		// At most one timestamp entry per structural level; the timestamp
		// stack must never outgrow the ancestry stack.
		panic("extract: timestamp stack outgrew ancestry stack")
	}
	c.timestamps = append(c.timestamps, entry)
	if len(c.timestamps) > c.timestampHW {
		c.timestampHW = len(c.timestamps)
	}
}

func (c *extractionContext) popTimestamp() {
	if len(c.timestamps) == 0 {
		panic("extract: timestamp stack underflow")
	}
	c.timestamps = c.timestamps[:len(c.timestamps)-1]
}

// activeTimestamp returns the nearest-ancestor timestamp in scope.
func (c *extractionContext) activeTimestamp() timestampEntry {
	if len(c.timestamps) == 0 {
		panic("extract: no timestamp in scope")
	}

	return c.timestamps[len(c.timestamps)-1]
}

// isTimestampOrigin reports whether p addresses the node any in-scope
// timestamp was read from. Such nodes are never emitted.
func (c *extractionContext) isTimestampOrigin(p pointer.Pointer) bool {
	for i := range c.timestamps {
		if c.timestamps[i].origin != nil && c.timestamps[i].origin.Equal(p) {
			return true
		}
	}

	return false
}

// depth is the number of structural levels below the processing root.
func (c *extractionContext) depth() int {
	return len(c.path)
}
