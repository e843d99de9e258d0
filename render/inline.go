package render

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtc/richtext"
)

// Inline rendering: text runs with marks, hyperlinks of all three kinds and
// inline embedded components.

func (r *Renderer) appendInlineChildren(parent *etree.Element, node *richtext.Node) {
	for i := range node.Children {
		r.appendInline(parent, &node.Children[i], node.Children, i)
	}
}

func (r *Renderer) appendInline(parent *etree.Element, node *richtext.Node, siblings []richtext.Node, index int) {
	switch node.Kind {
	case richtext.NodeText:
		r.appendText(parent, node)

	case richtext.NodeHyperlink:
		r.appendHyperlink(parent, node)

	case richtext.NodeEntryHyperlink:
		r.appendEntryHyperlink(parent, node)

	case richtext.NodeAssetHyperlink:
		r.appendAssetHyperlink(parent, node)

	case richtext.NodeEmbeddedEntryInline:
		r.resolveEmbedded(parent, node, siblings, index)

	default:
		r.log.Warn("Unknown inline node tag", zap.String("tag", node.Tag), zap.String("source", r.c.SrcName))
		for i := range node.Children {
			r.appendInline(parent, &node.Children[i], node.Children, i)
		}
	}
}

// appendText wraps the escaped text value in mark elements. Marks nest in
// list order - the first mark is the outermost element, so [bold, italic]
// produces <strong><em>...</em></strong>. An unrecognized mark is skipped
// with a warning; the rest of the stack still applies.
func (r *Renderer) appendText(parent *etree.Element, node *richtext.Node) {
	cur := parent
	for _, m := range node.Marks {
		tag, ok := markTag(m.Kind)
		if !ok {
			r.log.Warn("Unknown text mark", zap.String("mark", m.Name), zap.String("source", r.c.SrcName))
			continue
		}
		cur = cur.CreateElement(tag)
	}
	cur.CreateText(node.Value)
}

func markTag(kind richtext.MarkKind) (string, bool) {
	switch kind {
	case richtext.MarkBold:
		return "strong", true
	case richtext.MarkItalic:
		return "em", true
	case richtext.MarkUnderline:
		return "u", true
	case richtext.MarkCode:
		return "code", true
	case richtext.MarkSuperscript:
		return "sup", true
	case richtext.MarkSubscript:
		return "sub", true
	}
	return "", false
}

func (r *Renderer) appendHyperlink(parent *etree.Element, node *richtext.Node) {
	a := parent.CreateElement("a")
	a.CreateAttr("href", node.Data.URI)
	if r.isExternal(node.Data.URI) {
		a.CreateAttr("class", "external-link")
		a.CreateAttr("target", "_blank")
		a.CreateAttr("rel", "noopener noreferrer")
	} else {
		a.CreateAttr("class", "internal-link")
	}
	r.appendInlineChildren(a, node)
}

// isExternal reports whether a URI points away from the publishing site.
// With no site host configured nothing is treated as external.
func (r *Renderer) isExternal(uri string) bool {
	if r.c.SiteHost == "" {
		return false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	return !strings.EqualFold(host, r.c.SiteHost) && !strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(r.c.SiteHost))
}

// appendEntryHyperlink links to another page of the site. An unresolvable
// target is not fatal - the link text is kept, just not linked.
func (r *Renderer) appendEntryHyperlink(parent *etree.Element, node *richtext.Node) {
	target := node.Data.Target
	if target == nil {
		r.appendInlineChildren(parent, node)
		return
	}
	rec, ok := r.c.Store.Component(target.ID)
	if !ok {
		r.log.Warn("Unresolved entry hyperlink", zap.String("id", target.ID), zap.String("source", r.c.SrcName))
		r.appendInlineChildren(parent, node)
		return
	}
	href := entryURL(rec)
	if href == "" {
		r.log.Warn("Entry has no usable URL", zap.String("id", target.ID), zap.String("content_type", rec.ContentType))
		r.appendInlineChildren(parent, node)
		return
	}
	a := parent.CreateElement("a")
	a.CreateAttr("href", href)
	a.CreateAttr("class", "entry-link")
	r.appendInlineChildren(a, node)
}

func (r *Renderer) appendAssetHyperlink(parent *etree.Element, node *richtext.Node) {
	target := node.Data.Target
	var asset string
	if target != nil {
		if a, ok := r.c.Store.Asset(target.ID); ok {
			asset = a.URL
		}
	}
	if asset == "" {
		if target != nil {
			r.log.Warn("Unresolved asset hyperlink", zap.String("id", target.ID), zap.String("source", r.c.SrcName))
		}
		r.appendInlineChildren(parent, node)
		return
	}
	a := parent.CreateElement("a")
	a.CreateAttr("href", asset)
	a.CreateAttr("class", "asset-link")
	r.appendInlineChildren(a, node)
}
