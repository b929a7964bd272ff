package extract

import (
	"encoding/json"
	"time"
)

// timestampLayouts are tried in order when interpreting a string timestamp
// without a custom parser. RFC 3339 first; the remaining layouts cover the
// date/time literals commonly seen in device payloads.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// resolveTimestamp evaluates the configured timestamp path against node and
// interprets the matched value.
//
// It reports false when node is not an object, the path does not resolve, or
// the matched value cannot be parsed; an unparseable value is not an error,
// it simply falls through the fallback chain.
func (e *Extractor) resolveTimestamp(node any) (time.Time, bool) {
	if len(e.timestampPath) == 0 {
		return time.Time{}, false
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return time.Time{}, false
	}

	raw, ok := e.timestampPath.Eval(obj)
	if !ok {
		return time.Time{}, false
	}

	if e.timestampParser != nil {
		return e.timestampParser(raw)
	}

	return interpretTimestamp(raw)
}

// interpretTimestamp applies the default interpretation: strings are parsed
// as date/time literals, numbers as milliseconds since the Unix epoch.
func interpretTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		return parseTimestampString(v)
	case float64:
		return time.UnixMilli(int64(v)), true
	case int64:
		return time.UnixMilli(v), true
	case int:
		return time.UnixMilli(int64(v)), true
	case uint64:
		return time.UnixMilli(int64(v)), true //nolint:gosec
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)), true
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}
