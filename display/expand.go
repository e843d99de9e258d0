package display

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"rtc/shortcode"
	"rtc/store"
)

// Expand replaces every recognized marker in a rendered fragment with its
// display-time markup. Markers are consumed exactly once; unknown marker
// tags and datasets we cannot find stay visible as-is or as comments, never
// as errors.
func (e *Engine) Expand(fragment string, st *store.Store) string {
	matches := shortcode.FindAll(fragment)
	if len(matches) == 0 {
		return fragment
	}

	var buf strings.Builder
	last := 0
	for _, match := range matches {
		replacement, handled := e.expandOne(match.Marker, fragment, st)
		if !handled {
			continue
		}
		buf.WriteString(fragment[last:match.Start])
		buf.WriteString(replacement)
		last = match.End
	}
	buf.WriteString(fragment[last:])
	return buf.String()
}

func (e *Engine) expandOne(m *shortcode.Marker, fragment string, st *store.Store) (string, bool) {
	switch m.Tag {
	case "toc":
		return e.renderTOC(fragment), true

	case "table", "chart", "cards":
		ds, ok := st.Dataset(m.ID())
		if !ok {
			e.log.Warn("No dataset for marker", zap.String("tag", m.Tag), zap.String("id", m.ID()))
			return fmt.Sprintf("<!-- no dataset %q -->", m.ID()), true
		}
		switch m.Tag {
		case "chart":
			return e.RenderChart(ds, m), true
		case "cards":
			return e.RenderCards(ds, m), true
		}
		return e.RenderTable(ds, m), true
	}

	// somebody else's marker - leave it alone
	return "", false
}

// Heading anchors in a rendered fragment. The renderer emits them itself, so
// a scraping regexp is safe here despite being one.
var headingRx = regexp.MustCompile(`(?s)<h([2-4]) id="([^"]+)">(.*?)</h[2-4]>`)

var tagRx = regexp.MustCompile(`<[^>]+>`)

// renderTOC builds a table of contents by scanning the fragment's own
// heading anchors (levels 2-4; the page title is not part of the fragment).
func (e *Engine) renderTOC(fragment string) string {
	matches := headingRx.FindAllStringSubmatch(fragment, -1)
	if len(matches) == 0 {
		return ""
	}

	doc := newFragment()
	nav := doc.CreateElement("nav")
	nav.CreateAttr("class", "toc")
	ul := nav.CreateElement("ul")

	for _, m := range matches {
		text := html.UnescapeString(strings.TrimSpace(tagRx.ReplaceAllString(m[3], "")))
		if text == "" {
			continue
		}
		li := ul.CreateElement("li")
		li.CreateAttr("class", "toc-level-"+m[1])
		a := li.CreateElement("a")
		a.CreateAttr("href", "#"+m[2])
		a.CreateText(text)
	}

	s, err := doc.WriteToString()
	if err != nil {
		e.log.Error("Unable to serialize table of contents", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(s)
}
