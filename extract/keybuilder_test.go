package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
)

func TestCompileTemplate(t *testing.T) {
	tpl, err := compileTemplate("{deviceId}/{$prop}")
	require.NoError(t, err)
	require.Len(t, tpl.parts, 3)
	require.True(t, tpl.parts[0].placeholder)
	require.Equal(t, "deviceId", tpl.parts[0].text)
	require.False(t, tpl.parts[1].placeholder)
	require.Equal(t, "/", tpl.parts[1].text)
	require.True(t, tpl.parts[2].placeholder)
	require.Equal(t, "$prop", tpl.parts[2].text)
}

func TestCompileTemplateFastPaths(t *testing.T) {
	tpl, err := compileTemplate(DefaultTemplate)
	require.NoError(t, err)
	require.True(t, tpl.fullPathOnly)

	tpl, err = compileTemplate("{$prop-local}")
	require.NoError(t, err)
	require.True(t, tpl.localNameOnly)
}

func TestCompileTemplateInvalid(t *testing.T) {
	_, err := compileTemplate("{$prop")
	require.ErrorIs(t, err, errs.ErrInvalidTemplate)

	_, err = compileTemplate("a{}b")
	require.ErrorIs(t, err, errs.ErrInvalidTemplate)
}

// ==============================================================================
// Placeholder Resolution Tests
// ==============================================================================

func TestPropertyPlaceholderNonRecursive(t *testing.T) {
	doc := parseDoc(t, `{"deviceId": "sensor-1", "temperature": 21.5}`)

	samples := collect(t, doc, WithTemplate("{deviceId}/{$prop}"), withClock(fixedClock))

	// The deviceId member is itself emitted too; check the temperature key.
	s := sampleByKey(t, samples, "sensor-1/temperature")
	require.Equal(t, 21.5, s.Value.Number())
}

func TestPropertyPlaceholderCompoundInRecursiveMode(t *testing.T) {
	doc := parseDoc(t, `{
		"location": "plant-a",
		"line": {"location": "line-2", "temperature": 21.5}
	}`)

	samples := collect(t, doc,
		WithTemplate("{location}/{$prop}"),
		WithRecursive(true),
		withClock(fixedClock))

	// A property re-declared at multiple levels produces a compound value.
	require.Contains(t, keysOf(samples), "plant-a/line-2/line/temperature")
}

func TestLocalNamePlaceholder(t *testing.T) {
	doc := parseDoc(t, `{"acceleration": {"x": -0.876}}`)

	samples := collect(t, doc,
		WithTemplate("{$prop-local}"),
		WithRecursive(true),
		withClock(fixedClock))
	require.Len(t, samples, 1)
	require.Equal(t, "x", samples[0].Key)
}

func TestUnresolvedPlaceholderSkipsNode(t *testing.T) {
	doc := parseDoc(t, `{"temperature": 21.5, "pressure": 1020.0}`)

	samples := collect(t, doc,
		WithTemplate("{deviceId}/{$prop}"),
		withClock(fixedClock))
	require.Empty(t, samples, "every node fails key building, the walk itself continues")
}

func TestUnresolvedPlaceholderKeepsLiteralTextWhenAllowed(t *testing.T) {
	doc := parseDoc(t, `{"temperature": 21.5}`)

	samples := collect(t, doc,
		WithTemplate("{deviceId}/{$prop}"),
		WithAllowUnresolvedReplacements(true),
		withClock(fixedClock))
	require.Len(t, samples, 1)
	require.Equal(t, "{deviceId}/temperature", samples[0].Key)
}

func TestReplacementProvider(t *testing.T) {
	doc := parseDoc(t, `{"temperature": 21.5}`)

	samples := collect(t, doc,
		WithTemplate("{deviceId}/{$prop}"),
		WithReplacementProvider(func(name string) (string, bool) {
			if name == "deviceId" {
				return "fallback-device", true
			}
			return "", false
		}),
		withClock(fixedClock))
	require.Len(t, samples, 1)
	require.Equal(t, "fallback-device/temperature", samples[0].Key)
}

func TestNonStringPropertyKeepsJSONForm(t *testing.T) {
	doc := parseDoc(t, `{"deviceId": 42, "temperature": 21.5}`)

	samples := collect(t, doc, WithTemplate("{deviceId}/{$prop}"), withClock(fixedClock))
	require.Contains(t, keysOf(samples), "42/temperature")
}

// ==============================================================================
// Key Formatting Tests
// ==============================================================================

func TestArrayIndexesInKeys(t *testing.T) {
	doc := parseDoc(t, `{"data": [{"val": 1.5}, {"val": 2.5}]}`)

	samples := collect(t, doc, WithRecursive(true), withClock(fixedClock))
	require.Equal(t, []string{"data/0/val", "data/1/val"}, keysOf(samples))

	samples = collect(t, doc,
		WithRecursive(true),
		WithArrayIndexesInKeys(false),
		withClock(fixedClock))
	require.Equal(t, []string{"data/val", "data/val"}, keysOf(samples))
}

func TestCustomPathSeparator(t *testing.T) {
	doc := parseDoc(t, `{"acceleration": {"x": -0.876}}`)

	samples := collect(t, doc, WithRecursive(true), WithPathSeparator("."), withClock(fixedClock))
	require.Len(t, samples, 1)
	require.Equal(t, "acceleration.x", samples[0].Key)
}
