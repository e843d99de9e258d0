package render

import (
	"rtc/richtext"
)

// DeriveHint finds the dataset key hint for an embedded component: the slug
// of the nearest heading above it among its siblings. Another embedded entry
// block encountered first acts as a section boundary - the component is then
// not under any heading's scope and gets no hint.
//
// The returned slug is produced by richtext.Slugify, the same normalization
// the display stage applies when resolving the hint against dataset keys.
// An empty string means no hint.
func DeriveHint(siblings []richtext.Node, index int) string {
	for i := index - 1; i >= 0; i-- {
		n := &siblings[i]
		if n.IsHeading() {
			return richtext.Slugify(n.AsPlainText())
		}
		if n.Kind == richtext.NodeEmbeddedEntryBlock {
			return ""
		}
	}
	return ""
}
