package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtc/richtext"
	"rtc/shortcode"
	"rtc/store"
)

// componentKind is the closed set of embedded component types we know how to
// handle. The CMS identifies them by a free-form content type tag, so there
// is always an explicit unknown case carrying the original tag - a new
// component type is a new constant plus one new dispatch case, never a
// silent no-op.
type componentKind int

const (
	kindUnknown componentKind = iota
	kindTableOfContents
	kindDataTable
	kindChart
	kindCards
	kindLink
	kindLinkList
	kindNavigation
	kindForm
	kindModalForm
	kindRichText
	kindImage
)

func componentKindOf(tag string) componentKind {
	switch tag {
	case "tableOfContents", "toc":
		return kindTableOfContents
	case "dataTable", "table":
		return kindDataTable
	case "chart":
		return kindChart
	case "cardGroup", "cards":
		return kindCards
	case "link":
		return kindLink
	case "linkList", "linkCollection":
		return kindLinkList
	case "navigation":
		return kindNavigation
	case "form":
		return kindForm
	case "modalForm":
		return kindModalForm
	case "richTextBlock", "textBlock":
		return kindRichText
	case "image":
		return kindImage
	}
	return kindUnknown
}

// resolveEmbedded renders an embedded entry or asset node. Rendering is
// total: whatever is wrong with the reference, something inert goes into the
// fragment and the walk continues.
func (r *Renderer) resolveEmbedded(parent *etree.Element, node *richtext.Node, siblings []richtext.Node, index int) {
	target := node.Data.Target
	if target == nil {
		r.log.Warn("Embedded node without target", zap.String("tag", node.Tag), zap.String("source", r.c.SrcName))
		parent.CreateComment(" embedded node without target ")
		return
	}

	if node.Kind == richtext.NodeEmbeddedAssetBlock || target.Kind == richtext.TargetAsset {
		asset, ok := r.c.Store.Asset(target.ID)
		if !ok {
			r.log.Warn("Unresolved embedded asset", zap.String("id", target.ID), zap.String("source", r.c.SrcName))
			parent.CreateComment(fmt.Sprintf(" unresolved asset %q ", target.ID))
			return
		}
		r.appendAssetFigure(parent, asset, "")
		return
	}

	rec, ok := r.c.Store.Component(target.ID)
	if !ok {
		r.log.Warn("Unresolved embedded entry", zap.String("id", target.ID), zap.String("source", r.c.SrcName))
		parent.CreateComment(fmt.Sprintf(" unresolved entry %q ", target.ID))
		return
	}

	switch componentKindOf(rec.ContentType) {
	case kindTableOfContents:
		// expanded at display time against the final page's headings
		parent.CreateText(shortcode.New("toc").Set("id", rec.ID).String())

	case kindDataTable:
		// no filtering happens here - the marker carries the heading-derived
		// key hint for the display stage to resolve against the dataset
		m := shortcode.New("table").
			Set("id", rec.ID).
			Set("key", DeriveHint(siblings, index))
		parent.CreateText(m.String())

	case kindChart:
		m := shortcode.New("chart").
			Set("id", rec.ID).
			Set("type", rec.String("chartType")).
			Set("title", rec.String("title"))
		parent.CreateText(m.String())

	case kindCards:
		m := shortcode.New("cards").
			Set("id", rec.ID).
			Set("title", rec.String("title"))
		parent.CreateText(m.String())

	case kindLink:
		r.appendLinkComponent(parent, rec)

	case kindLinkList:
		r.appendLinkList(parent, rec)

	case kindNavigation:
		// structural marker only, nothing visible

	case kindForm:
		r.appendFormScaffold(parent, rec, false)

	case kindModalForm:
		r.appendFormScaffold(parent, rec, true)

	case kindRichText:
		r.appendNestedRichText(parent, rec)

	case kindImage:
		r.appendImageComponent(parent, rec)

	default:
		r.log.Warn("Unsupported component type", zap.String("content_type", rec.ContentType), zap.String("id", rec.ID))
		parent.CreateComment(fmt.Sprintf(" unsupported component %q (%s) ", rec.ContentType, rec.ID))
	}
}

// entryURL derives the site URL of a referenced entry: its slug when the
// entry is a page of ours, an explicit url field otherwise.
func entryURL(rec *store.ComponentRecord) string {
	if slug := rec.String("slug"); slug != "" {
		return "/" + strings.TrimPrefix(slug, "/")
	}
	return rec.String("url")
}

func (r *Renderer) appendLinkComponent(parent *etree.Element, rec *store.ComponentRecord) {
	text := rec.String("text")
	if text == "" {
		text = rec.String("title")
	}

	a := parent.CreateElement("a")
	if rec.Bool("backToTop") {
		a.CreateAttr("href", "#"+r.c.TopAnchor)
		a.CreateAttr("class", "back-to-top")
		if text == "" {
			text = "Back to top"
		}
	} else {
		href := rec.String("url")
		if href == "" {
			href = entryURL(rec)
		}
		a.CreateAttr("href", href)
		a.CreateAttr("class", "component-link")
		if r.isExternal(href) {
			a.CreateAttr("target", "_blank")
			a.CreateAttr("rel", "noopener noreferrer")
		}
	}
	a.CreateText(text)

	if desc := rec.String("description"); desc != "" {
		div := parent.CreateElement("div")
		div.CreateAttr("class", "link-description")
		r.appendMarkdown(div, desc)
	}
}

func (r *Renderer) appendLinkList(parent *etree.Element, rec *store.ComponentRecord) {
	div := parent.CreateElement("div")
	div.CreateAttr("class", "link-list")
	if title := rec.String("title"); title != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "link-list-title")
		p.CreateText(title)
	}

	ul := div.CreateElement("ul")
	for _, id := range rec.Links("links") {
		child, ok := r.c.Store.Component(id)
		if !ok {
			r.log.Warn("Unresolved link in link list", zap.String("id", id), zap.String("list", rec.ID))
			continue
		}
		r.appendLinkComponent(ul.CreateElement("li"), child)
	}
	if len(ul.ChildElements()) == 0 {
		div.RemoveChild(ul)
	}
}

// appendFormScaffold emits a declarative form: labeled inputs for the
// declared field names and a submit button. Purely presentational - wiring
// it to a backend is the published site's concern, not ours.
func (r *Renderer) appendFormScaffold(parent *etree.Element, rec *store.ComponentRecord, modal bool) {
	container := parent
	if modal {
		container = parent.CreateElement("div")
		container.CreateAttr("class", "modal-form")
		trigger := container.CreateElement("button")
		trigger.CreateAttr("type", "button")
		trigger.CreateAttr("class", "modal-form-trigger")
		label := rec.String("buttonLabel")
		if label == "" {
			label = rec.String("title")
		}
		trigger.CreateText(label)
	}

	form := container.CreateElement("form")
	form.CreateAttr("class", "component-form")
	form.CreateAttr("data-form-id", rec.ID)
	if modal {
		form.CreateAttr("hidden", "hidden")
	}

	if title := rec.String("title"); title != "" && !modal {
		legend := form.CreateElement("p")
		legend.CreateAttr("class", "form-title")
		legend.CreateText(title)
	}
	if desc := rec.String("description"); desc != "" {
		div := form.CreateElement("div")
		div.CreateAttr("class", "form-description")
		r.appendMarkdown(div, desc)
	}

	for _, field := range rec.Strings("fields") {
		name := richtext.Slugify(field)
		p := form.CreateElement("p")
		label := p.CreateElement("label")
		label.CreateAttr("for", name)
		label.CreateText(field)
		input := p.CreateElement("input")
		input.CreateAttr("type", "text")
		input.CreateAttr("id", name)
		input.CreateAttr("name", name)
	}

	submit := form.CreateElement("button")
	submit.CreateAttr("type", "submit")
	text := rec.String("submitLabel")
	if text == "" {
		text = "Submit"
	}
	submit.CreateText(text)
}

// appendNestedRichText recurses into a component that itself carries a rich
// text tree, falling back to its markdown text field.
func (r *Renderer) appendNestedRichText(parent *etree.Element, rec *store.ComponentRecord) {
	if doc, ok := rec.Document("body"); ok && doc.Kind == richtext.NodeDocument {
		for i := range doc.Children {
			r.appendBlock(parent, &doc.Children[i], doc.Children, i)
		}
		return
	}
	if text := rec.String("text"); text != "" {
		r.appendMarkdown(parent, text)
		return
	}
	r.log.Debug("Rich text component with no content", zap.String("id", rec.ID))
}

func (r *Renderer) appendImageComponent(parent *etree.Element, rec *store.ComponentRecord) {
	ids := rec.Links("image")
	if len(ids) == 0 {
		r.log.Warn("Image component without asset reference", zap.String("id", rec.ID))
		parent.CreateComment(fmt.Sprintf(" image component %q without asset ", rec.ID))
		return
	}
	asset, ok := r.c.Store.Asset(ids[0])
	if !ok {
		r.log.Warn("Unresolved image asset", zap.String("id", ids[0]), zap.String("component", rec.ID))
		parent.CreateComment(fmt.Sprintf(" unresolved asset %q ", ids[0]))
		return
	}
	r.appendAssetFigure(parent, asset, rec.String("caption"))
}

func (r *Renderer) appendAssetFigure(parent *etree.Element, asset *store.AssetRecord, caption string) {
	if !strings.HasPrefix(asset.MimeType, "image/") {
		// non-image assets become plain download links
		a := parent.CreateElement("a")
		a.CreateAttr("href", asset.URL)
		a.CreateAttr("class", "asset-link")
		text := asset.Title
		if text == "" {
			text = asset.FileName
		}
		a.CreateText(text)
		return
	}

	figure := parent.CreateElement("figure")
	figure.CreateAttr("class", "image")
	img := figure.CreateElement("img")
	img.CreateAttr("src", asset.URL)
	img.CreateAttr("alt", asset.Title)
	if caption == "" {
		caption = asset.Title
	}
	if caption != "" {
		fc := figure.CreateElement("figcaption")
		fc.CreateText(caption)
	}
}
