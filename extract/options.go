package extract

import (
	"fmt"
	"time"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/options"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/pointer"
)

// Built-in template placeholders.
const (
	// PlaceholderFullPath expands to the node's full path joined by the
	// configured separator.
	PlaceholderFullPath = "$prop"

	// PlaceholderLocalName expands to the node's final path segment.
	PlaceholderLocalName = "$prop-local"
)

// Defaults applied by NewExtractor.
const (
	// DefaultTemplate keys every sample by its full path.
	DefaultTemplate = "{" + PlaceholderFullPath + "}"

	// DefaultPathSeparator joins path segments in generated keys and in
	// compound placeholder values.
	DefaultPathSeparator = "/"

	// DefaultTimestampPath is the pointer checked for a document timestamp.
	DefaultTimestampPath = "/time"
)

// defaultStackCapacity sizes the pooled stacks when recursion is unbounded.
const defaultStackCapacity = 32

// TimestampParser interprets the raw value found at the timestamp path. It
// reports false when the value cannot be understood; the extractor then falls
// through its timestamp fallback chain. No further interpretation is applied
// to the returned time.
type TimestampParser func(value any) (time.Time, bool)

// TimestampProvider supplies a fallback timestamp for documents that carry
// none of their own.
type TimestampProvider func() time.Time

// ReplacementProvider supplies a default value for a template placeholder
// that was not found on any in-scope object. It reports false when it has no
// value for the given placeholder name.
type ReplacementProvider func(name string) (string, bool)

// Extractor flattens parsed JSON documents into lazy sequences of samples.
//
// An Extractor is immutable after construction and safe for concurrent use;
// each Extract call owns its own traversal state.
type Extractor struct {
	template         *keyTemplate
	recursive        bool
	maxDepth         int
	pathSeparator    string
	includeIndexes   bool
	nestedTimestamps bool
	startAt          pointer.Pointer
	timestampPath    pointer.Pointer
	timestampParser  TimestampParser
	defaultTimestamp TimestampProvider
	include          func(pointer.Pointer) bool
	replacement      ReplacementProvider
	allowUnresolved  bool

	// now is the wall clock used for the CurrentTime fallback.
	now func() time.Time

	rawTemplate string
}

// Option configures an Extractor during construction.
type Option = options.Option[*Extractor]

// NewExtractor builds an Extractor, parsing all configured pointers and
// compiling the key template exactly once.
//
// Configuration errors (malformed template, start-at path, or timestamp path)
// fail here, before any document is processed.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		pathSeparator:  DefaultPathSeparator,
		includeIndexes: true,
		rawTemplate:    DefaultTemplate,
		timestampPath:  pointer.MustParse(DefaultTimestampPath),
		now:            time.Now,
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	tpl, err := compileTemplate(e.rawTemplate)
	if err != nil {
		return nil, err
	}
	e.template = tpl

	return e, nil
}

// WithTemplate sets the sample key template. Placeholders are written as
// {name}: {$prop} expands to the full path, {$prop-local} to the final path
// segment, and any other {name} is resolved as a property lookup against the
// traversal ancestry.
func WithTemplate(template string) Option {
	return options.New(func(e *Extractor) error {
		if template == "" {
			return fmt.Errorf("template must not be empty")
		}
		e.rawTemplate = template

		return nil
	})
}

// WithRecursive enables descent into nested objects and arrays. When
// disabled, every top-level member is emitted as-is, with object and array
// values captured as raw JSON text.
func WithRecursive(enabled bool) Option {
	return options.NoError(func(e *Extractor) {
		e.recursive = enabled
	})
}

// WithMaxDepth caps recursion depth. A node at the configured depth is
// treated as terminal and emitted whole, even if it is an object or array.
// Values below 1 mean unbounded recursion.
func WithMaxDepth(depth int) Option {
	return options.NoError(func(e *Extractor) {
		e.maxDepth = depth
	})
}

// WithPathSeparator sets the string that joins path segments in generated
// keys and in compound placeholder values.
func WithPathSeparator(sep string) Option {
	return options.New(func(e *Extractor) error {
		if sep == "" {
			return fmt.Errorf("path separator must not be empty")
		}
		e.pathSeparator = sep

		return nil
	})
}

// WithArrayIndexesInKeys controls whether array index segments appear in
// generated sample keys. Enabled by default.
func WithArrayIndexesInKeys(enabled bool) Option {
	return options.NoError(func(e *Extractor) {
		e.includeIndexes = enabled
	})
}

// WithNestedTimestamps allows descendant objects to redefine the active
// timestamp for their sub-tree via the timestamp path. Only effective in
// recursive mode.
func WithNestedTimestamps(enabled bool) Option {
	return options.NoError(func(e *Extractor) {
		e.nestedTimestamps = enabled
	})
}

// WithStartAt repositions the processing root to the node at the given
// pointer. When the pointer does not resolve against a document, extraction
// of that document yields nothing.
func WithStartAt(path string) Option {
	return options.New(func(e *Extractor) error {
		p, err := pointer.Parse(path)
		if err != nil {
			return fmt.Errorf("start-at path: %w", err)
		}
		e.startAt = p

		return nil
	})
}

// WithTimestampPath sets the pointer, relative to the current processing
// root, checked for a document timestamp. An empty path disables document
// timestamp resolution entirely.
func WithTimestampPath(path string) Option {
	return options.New(func(e *Extractor) error {
		p, err := pointer.Parse(path)
		if err != nil {
			return fmt.Errorf("timestamp path: %w", err)
		}
		e.timestampPath = p

		return nil
	})
}

// WithTimestampParser overrides the default interpretation of the raw value
// found at the timestamp path.
func WithTimestampParser(parser TimestampParser) Option {
	return options.NoError(func(e *Extractor) {
		e.timestampParser = parser
	})
}

// WithDefaultTimestamp sets the provider consulted when a document carries no
// timestamp of its own. Samples using it are tagged SourceFallbackProvider.
func WithDefaultTimestamp(provider TimestampProvider) Option {
	return options.NoError(func(e *Extractor) {
		e.defaultTimestamp = provider
	})
}

// WithIncludeElement sets an additional per-path inclusion predicate,
// composed with the implicit exclusion of the timestamp node. A rejected
// node is not emitted, but its descendants are still visited and evaluated
// individually.
func WithIncludeElement(predicate func(p pointer.Pointer) bool) Option {
	return options.NoError(func(e *Extractor) {
		e.include = predicate
	})
}

// WithReplacementProvider sets the fallback consulted for template
// placeholders that resolve against no in-scope object property.
func WithReplacementProvider(provider ReplacementProvider) Option {
	return options.NoError(func(e *Extractor) {
		e.replacement = provider
	})
}

// WithAllowUnresolvedReplacements controls what happens when a placeholder
// cannot be resolved at all: keep the literal placeholder text in the key
// (true), or skip that node's sample (false, the default).
func WithAllowUnresolvedReplacements(enabled bool) Option {
	return options.NoError(func(e *Extractor) {
		e.allowUnresolved = enabled
	})
}

// withClock overrides the wall clock used for the CurrentTime fallback.
// Used by tests.
func withClock(now func() time.Time) Option {
	return options.NoError(func(e *Extractor) {
		e.now = now
	})
}

// stackCapacity returns the rental capacity for the per-call stacks: the
// configured depth bound plus the root entry, or a default when unbounded.
func (e *Extractor) stackCapacity() int {
	if e.recursive && e.maxDepth >= 1 {
		return e.maxDepth + 1
	}
	if !e.recursive {
		return 2
	}

	return defaultStackCapacity
}
