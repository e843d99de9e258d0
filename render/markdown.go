package render

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// Some component fields (card bodies, link and form descriptions) hold
// markdown rather than rich text. XHTML output keeps the result parsable by
// etree so it can be grafted into the fragment being built.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// appendMarkdown converts a markdown field and appends the resulting
// elements to parent. Conversion problems degrade to the raw text.
func (r *Renderer) appendMarkdown(parent *etree.Element, source string) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		r.log.Warn("Unable to convert markdown field", zap.Error(err))
		parent.CreateText(source)
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString("<md>" + buf.String() + "</md>"); err != nil {
		r.log.Warn("Unable to graft converted markdown", zap.Error(err))
		parent.CreateText(source)
		return
	}
	// copy the slice: AddChild detaches tokens from their old parent
	root := doc.Root()
	children := append([]etree.Token(nil), root.Child...)
	for _, child := range children {
		parent.AddChild(child)
	}
}
