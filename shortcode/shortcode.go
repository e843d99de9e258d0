// Package shortcode implements the marker syntax bridging the two pipeline
// stages: `[tag_name attr1="value1" attr2="value2"]`. A marker is emitted in
// place of an embedded component at render time and replaced with real markup
// at display time. It is the sole contract between the stages, so emission
// and parsing live together here.
package shortcode

import (
	"fmt"
	"html"
	"strings"
)

// Attr is one named marker attribute. Order is preserved on emission but
// carries no meaning - consumers must not depend on it.
type Attr struct {
	Name  string
	Value string
}

// Marker is a parsed or to-be-emitted shortcode.
type Marker struct {
	Tag   string
	Attrs []Attr
}

func New(tag string) *Marker {
	return &Marker{Tag: tag}
}

// Set adds or replaces an attribute. Setting an empty value removes it -
// optional attributes (like the key hint) are simply not emitted.
func (m *Marker) Set(name, value string) *Marker {
	for i := range m.Attrs {
		if m.Attrs[i].Name == name {
			if value == "" {
				m.Attrs = append(m.Attrs[:i], m.Attrs[i+1:]...)
			} else {
				m.Attrs[i].Value = value
			}
			return m
		}
	}
	if value != "" {
		m.Attrs = append(m.Attrs, Attr{Name: name, Value: value})
	}
	return m
}

// Get returns the attribute value or empty when absent. Unknown attributes
// are kept, so consumers can read more than they understand.
func (m *Marker) Get(name string) string {
	for i := range m.Attrs {
		if m.Attrs[i].Name == name {
			return m.Attrs[i].Value
		}
	}
	return ""
}

// ID returns the required entity id attribute.
func (m *Marker) ID() string {
	return m.Get("id")
}

// Key returns the optional key hint attribute.
func (m *Marker) Key() string {
	return m.Get("key")
}

// String emits the marker. Double quotes inside values are escaped with a
// backslash so the emitted text always parses back.
func (m *Marker) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	buf.WriteString(m.Tag)
	for _, a := range m.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(strings.ReplaceAll(a.Value, `"`, `\"`))
		buf.WriteByte('"')
	}
	buf.WriteByte(']')
	return buf.String()
}

// Parse reads a single marker out of s, which must contain nothing else
// (surrounding whitespace is allowed).
func Parse(s string) (*Marker, error) {
	s = strings.TrimSpace(s)
	m, n := parseAt(s, 0)
	if m == nil || n != len(s) {
		return nil, fmt.Errorf("not a valid marker: %q", s)
	}
	return m, nil
}

// Match is one marker found inside a rendered fragment.
type Match struct {
	Marker     *Marker
	Start, End int // byte offsets of the marker text in the fragment
}

// FindAll locates every well-formed marker in a fragment, in order. Text that
// merely looks bracketed but does not parse is left alone.
func FindAll(fragment string) []Match {
	var out []Match
	for i := 0; i < len(fragment); i++ {
		if fragment[i] != '[' {
			continue
		}
		if m, end := parseAt(fragment, i); m != nil {
			out = append(out, Match{Marker: m, Start: i, End: end})
			i = end - 1
		}
	}
	return out
}

// parseAt attempts to parse a marker starting at offset i (which must point
// at '['). It returns the marker and the offset one past the closing bracket,
// or nil when the text is not a marker.
func parseAt(s string, i int) (*Marker, int) {
	pos := i + 1
	tag := scanName(s, &pos)
	if tag == "" {
		return nil, 0
	}
	m := New(tag)

	for {
		skipSpace(s, &pos)
		if pos >= len(s) {
			return nil, 0
		}
		if s[pos] == ']' {
			return m, pos + 1
		}

		name := scanName(s, &pos)
		if name == "" || pos+1 >= len(s) || s[pos] != '=' || s[pos+1] != '"' {
			return nil, 0
		}
		pos += 2

		var val strings.Builder
		for {
			if pos >= len(s) {
				return nil, 0
			}
			c := s[pos]
			if c == '\\' && pos+1 < len(s) && s[pos+1] == '"' {
				val.WriteByte('"')
				pos += 2
				continue
			}
			if c == '"' {
				pos++
				break
			}
			val.WriteByte(c)
			pos++
		}
		// markers live inside XML character data, so values arrive with
		// entity references applied; decoding here mirrors that escaping
		m.Set(name, html.UnescapeString(val.String()))
	}
}

func scanName(s string, pos *int) string {
	start := *pos
	for *pos < len(s) && isNameByte(s[*pos]) {
		*pos++
	}
	return s[start:*pos]
}

func skipSpace(s string, pos *int) {
	for *pos < len(s) && (s[*pos] == ' ' || s[*pos] == '\t') {
		*pos++
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
