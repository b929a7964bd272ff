package extract

import (
	"fmt"
	"strings"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/jsontree"
)

// templatePart is one literal run or one {placeholder} of a compiled
// template.
type templatePart struct {
	text        string
	placeholder bool
}

// keyTemplate is a sample key template compiled once per Extractor.
type keyTemplate struct {
	raw   string
	parts []templatePart

	// fullPathOnly and localNameOnly flag templates that are exactly one
	// built-in placeholder, enabling the no-parse fast path at emission.
	fullPathOnly  bool
	localNameOnly bool
}

// compileTemplate scans the template for {name} placeholders. An
// unterminated or empty placeholder fails with errs.ErrInvalidTemplate.
func compileTemplate(raw string) (*keyTemplate, error) {
	t := &keyTemplate{
		raw:           raw,
		fullPathOnly:  raw == "{"+PlaceholderFullPath+"}",
		localNameOnly: raw == "{"+PlaceholderLocalName+"}",
	}
	if t.fullPathOnly || t.localNameOnly {
		return t, nil
	}

	rest := raw
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.parts = append(t.parts, templatePart{text: rest})
			break
		}
		if open > 0 {
			t.parts = append(t.parts, templatePart{text: rest[:open]})
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("%w: unterminated placeholder in %q", errs.ErrInvalidTemplate, raw)
		}
		name := rest[open+1 : open+closing]
		if name == "" {
			return nil, fmt.Errorf("%w: empty placeholder in %q", errs.ErrInvalidTemplate, raw)
		}
		t.parts = append(t.parts, templatePart{text: name, placeholder: true})
		rest = rest[open+closing+1:]
	}

	return t, nil
}

// buildKey renders the sample key for the node the context currently points
// at. An unresolved placeholder with unresolved replacements disallowed
// returns errs.ErrUnresolvedPlaceholder; the caller skips that node only.
func (e *Extractor) buildKey(c *extractionContext) (string, error) {
	t := e.template

	// Fast path: the default full-path template, and the local-name template
	// in non-recursive mode where the path is a single segment anyway, need
	// no placeholder resolution at all.
	if t.fullPathOnly || (t.localNameOnly && !e.recursive) {
		if t.localNameOnly {
			return c.path.Last(), nil
		}
		return c.path.Join(e.pathSeparator, e.includeIndexes), nil
	}
	if t.localNameOnly {
		return c.path.Last(), nil
	}

	var b strings.Builder
	for _, part := range t.parts {
		if !part.placeholder {
			b.WriteString(part.text)
			continue
		}

		switch part.text {
		case PlaceholderFullPath:
			b.WriteString(c.path.Join(e.pathSeparator, e.includeIndexes))
		case PlaceholderLocalName:
			b.WriteString(c.path.Last())
		default:
			value, err := e.resolvePlaceholder(c, part.text)
			if err != nil {
				return "", err
			}
			b.WriteString(value)
		}
	}

	return b.String(), nil
}

// resolvePlaceholder looks the placeholder name up as a property of the
// in-scope objects.
//
// In non-recursive mode only the nearest ancestor object of the current node
// is consulted. In recursive mode every object from the root down to (and
// including) the current node contributes a value, and the matches are
// joined with the path separator, so a property re-declared at several
// levels produces a compound value.
func (e *Extractor) resolvePlaceholder(c *extractionContext, name string) (string, error) {
	if e.recursive {
		var values []string
		for i := range c.ancestry {
			if obj, ok := c.ancestry[i].node.(map[string]any); ok {
				if v, found := obj[name]; found {
					values = append(values, stringifyProperty(v))
				}
			}
		}
		if len(values) > 0 {
			return strings.Join(values, e.pathSeparator), nil
		}
	} else {
		// Nearest ancestor object, excluding the node being emitted.
		for i := len(c.ancestry) - 2; i >= 0; i-- {
			if obj, ok := c.ancestry[i].node.(map[string]any); ok {
				if v, found := obj[name]; found {
					return stringifyProperty(v), nil
				}
			}
		}
	}

	if e.replacement != nil {
		if v, ok := e.replacement(name); ok {
			return v, nil
		}
	}
	if e.allowUnresolved {
		return "{" + name + "}", nil
	}

	return "", fmt.Errorf("%w: {%s}", errs.ErrUnresolvedPlaceholder, name)
}

// stringifyProperty renders a property value for use inside a key: strings
// are used verbatim, everything else keeps its textual JSON form.
func stringifyProperty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return jsontree.Serialize(v)
}
