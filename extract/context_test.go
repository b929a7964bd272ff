package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *extractionContext {
	t.Helper()
	e, err := NewExtractor(WithRecursive(true))
	require.NoError(t, err)

	return newContext(e)
}

func TestContextPushPopSymmetry(t *testing.T) {
	c := newTestContext(t)
	defer c.close()

	c.pushRoot(map[string]any{})
	require.Equal(t, 0, c.depth())

	c.push("data", []any{}, false)
	c.push("0", map[string]any{}, true)
	require.Equal(t, 2, c.depth())
	require.Equal(t, "/data/0", c.path.String())

	c.pop()
	c.pop()
	c.pop()
	require.Equal(t, 0, c.depth())
}

func TestContextUnderflowPanics(t *testing.T) {
	c := newTestContext(t)
	defer c.close()

	require.Panics(t, func() { c.pop() })
	require.Panics(t, func() { c.popTimestamp() })
}

func TestTimestampStackNeverOutgrowsAncestry(t *testing.T) {
	c := newTestContext(t)
	defer c.close()

	entry := timestampEntry{value: time.Now(), source: SourceCurrentTime}

	// No ancestry yet: a timestamp push is a bookkeeping defect.
	require.Panics(t, func() { c.pushTimestamp(entry) })

	c.pushRoot(map[string]any{})
	c.pushTimestamp(entry)
	require.Panics(t, func() { c.pushTimestamp(entry) }, "one timestamp per structural level at most")
}

func TestContextCloseTwicePanics(t *testing.T) {
	c := newTestContext(t)
	c.close()
	require.Panics(t, func() { c.close() })
}
