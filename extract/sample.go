package extract

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/jsontree"
)

// TimestampSource records where a sample's timestamp came from.
type TimestampSource uint8

const (
	// SourceDocument means the timestamp was read from the document itself
	// via the configured timestamp path.
	SourceDocument TimestampSource = iota + 1

	// SourceFallbackProvider means no document timestamp was found and the
	// configured default timestamp provider supplied one.
	SourceFallbackProvider

	// SourceCurrentTime means the wall-clock time at extraction was used.
	SourceCurrentTime
)

func (s TimestampSource) String() string {
	switch s {
	case SourceDocument:
		return "Document"
	case SourceFallbackProvider:
		return "FallbackProvider"
	case SourceCurrentTime:
		return "CurrentTime"
	default:
		return "Unknown"
	}
}

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindRawJSON
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindRawJSON:
		return "RawJSON"
	default:
		return "Unknown"
	}
}

// Value is the tagged union carried by a Sample: null, a float64 number, a
// string, a bool, or the raw JSON text of an entire sub-tree.
type Value struct {
	str  string
	num  float64
	kind ValueKind
	b    bool
}

// NullValue returns the null variant.
func NullValue() Value {
	return Value{kind: KindNull}
}

// NumberValue returns a numeric variant.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// StringValue returns a string variant.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// BoolValue returns a boolean variant.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// RawJSONValue returns a variant holding the serialized JSON text of a
// sub-tree.
func RawJSONValue(text string) Value {
	return Value{kind: KindRawJSON, str: text}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric payload; zero for other variants.
func (v Value) Number() float64 {
	return v.num
}

// Text returns the string payload; empty for other variants.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}

	return ""
}

// Bool returns the boolean payload; false for other variants.
func (v Value) Bool() bool {
	return v.b
}

// RawJSON returns the serialized sub-tree text; empty for other variants.
func (v Value) RawJSON() string {
	if v.kind == KindRawJSON {
		return v.str
	}

	return ""
}

// String renders the value for display and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString, KindRawJSON:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// Sample is one flattened, timestamped scalar emitted by the extractor.
// Samples are immutable once produced.
type Sample struct {
	// Key identifies the series the sample belongs to.
	Key string

	// Timestamp is the point in time the sample applies to.
	Timestamp time.Time

	// Value is the sample payload.
	Value Value

	// TimestampSource records the provenance of Timestamp.
	TimestampSource TimestampSource
}

// coerceValue converts a tree node into a sample Value. Objects and arrays
// are only reachable here in the terminal and depth-truncated cases, where
// the remaining sub-tree is captured as raw JSON text.
func coerceValue(node any) Value {
	switch n := node.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(n)
	case string:
		return StringValue(n)
	case float64:
		return NumberValue(n)
	case float32:
		return NumberValue(float64(n))
	case int:
		return NumberValue(float64(n))
	case int64:
		return NumberValue(float64(n))
	case uint64:
		return NumberValue(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return NullValue()
		}
		return NumberValue(f)
	case map[string]any, []any:
		return RawJSONValue(jsontree.Serialize(n))
	default:
		return NullValue()
	}
}
