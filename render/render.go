// Package render implements the first pipeline stage: walking a rich text
// document tree and producing an HTML fragment. Embedded data components are
// not rendered here - they are emitted as shortcode markers the display stage
// expands later against real datasets.
package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"rtc/content"
	"rtc/richtext"
)

// Renderer converts one document. It holds no state of its own beyond the
// per-run Content, so rendering the same input twice yields identical output.
type Renderer struct {
	c   *content.Content
	log *zap.Logger
}

func New(c *content.Content, log *zap.Logger) *Renderer {
	return &Renderer{c: c, log: log}
}

// Render walks the document depth-first and returns the fragment. Block
// results are separated by a blank line; markers end up on lines of their
// own, which is what the display stage scanner expects. Content problems
// (unresolved ids, unknown tags) degrade to placeholders and warnings -
// only serialization itself can fail.
func (r *Renderer) Render() (string, error) {
	if r.c.Doc == nil || r.c.Doc.Kind != richtext.NodeDocument {
		return "", fmt.Errorf("render input is not a document")
	}

	children := r.c.Doc.Children
	var parts []string
	for i := range children {
		doc := etree.NewDocument()
		doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}

		r.appendBlock(&doc.Element, &children[i], children, i)

		// fragments have no single root, so the document language goes on
		// every top-level element (markers are plain text and carry none)
		if r.c.Lang != language.Und {
			for _, el := range doc.ChildElements() {
				el.CreateAttr("lang", r.c.Lang.String())
			}
		}

		s, err := doc.WriteToString()
		if err != nil {
			return "", fmt.Errorf("unable to serialize fragment of %q: %w", r.c.SrcName, err)
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// appendBlock renders a single block-level node into parent. siblings and
// index describe the node's position among its siblings - embedded components
// need them to find the nearest preceding heading.
func (r *Renderer) appendBlock(parent *etree.Element, node *richtext.Node, siblings []richtext.Node, index int) {
	switch node.Kind {
	case richtext.NodeParagraph:
		r.appendParagraph(parent, node)

	case richtext.NodeHeading1, richtext.NodeHeading2, richtext.NodeHeading3,
		richtext.NodeHeading4, richtext.NodeHeading5, richtext.NodeHeading6:
		h := parent.CreateElement(fmt.Sprintf("h%d", node.HeadingLevel()))
		if slug := richtext.Slugify(node.AsPlainText()); slug != "" {
			h.CreateAttr("id", slug)
		}
		r.appendInlineChildren(h, node)

	case richtext.NodeUnorderedList:
		r.appendList(parent.CreateElement("ul"), node)

	case richtext.NodeOrderedList:
		r.appendList(parent.CreateElement("ol"), node)

	case richtext.NodeBlockquote:
		bq := parent.CreateElement("blockquote")
		for i := range node.Children {
			r.appendBlock(bq, &node.Children[i], node.Children, i)
		}

	case richtext.NodeHorizontalRule:
		parent.CreateElement("hr")

	case richtext.NodeTable:
		r.appendTable(parent, node)

	case richtext.NodeEmbeddedEntryBlock, richtext.NodeEmbeddedAssetBlock:
		r.resolveEmbedded(parent, node, siblings, index)

	case richtext.NodeText, richtext.NodeHyperlink, richtext.NodeEntryHyperlink,
		richtext.NodeAssetHyperlink, richtext.NodeEmbeddedEntryInline:
		// inline content loose at block level - render it in place
		r.appendInline(parent, node, siblings, index)

	default:
		// Forward compatibility: new tags degrade to their children.
		r.log.Warn("Unknown node tag", zap.String("tag", node.Tag), zap.String("source", r.c.SrcName))
		for i := range node.Children {
			r.appendBlock(parent, &node.Children[i], node.Children, i)
		}
	}
}

// appendParagraph renders a paragraph, suppressing it entirely when the
// rendered result is empty - CMS editors leave plenty of empty paragraphs
// behind and they must not become empty <p> tags.
func (r *Renderer) appendParagraph(parent *etree.Element, node *richtext.Node) {
	p := parent.CreateElement("p")
	r.appendInlineChildren(p, node)
	if len(p.ChildElements()) == 0 && strings.TrimSpace(p.Text()) == "" {
		parent.RemoveChild(p)
	}
}

// appendList renders list items. An item whose child is a paragraph gets that
// paragraph's inline content directly - no block wrapper inside <li>. Only
// non-paragraph block children become nested blocks.
func (r *Renderer) appendList(list *etree.Element, node *richtext.Node) {
	for i := range node.Children {
		item := &node.Children[i]
		if item.Kind != richtext.NodeListItem {
			r.log.Warn("List child is not a list item", zap.String("tag", item.Tag))
			r.appendBlock(list, item, node.Children, i)
			continue
		}
		li := list.CreateElement("li")
		for j := range item.Children {
			child := &item.Children[j]
			switch {
			case child.Kind == richtext.NodeParagraph:
				r.appendInlineChildren(li, child)
			case child.IsBlock():
				r.appendBlock(li, child, item.Children, j)
			default:
				r.appendInline(li, child, item.Children, j)
			}
		}
	}
}

// appendTable renders a structural document table (authored in the rich text
// editor, as opposed to dataset-backed table components).
func (r *Renderer) appendTable(parent *etree.Element, node *richtext.Node) {
	table := parent.CreateElement("table")
	for i := range node.Children {
		row := &node.Children[i]
		if row.Kind != richtext.NodeTableRow {
			r.log.Warn("Table child is not a row", zap.String("tag", row.Tag))
			continue
		}
		tr := table.CreateElement("tr")
		for j := range row.Children {
			cell := &row.Children[j]
			var td *etree.Element
			switch cell.Kind {
			case richtext.NodeTableHeaderCell:
				td = tr.CreateElement("th")
			case richtext.NodeTableCell:
				td = tr.CreateElement("td")
			default:
				r.log.Warn("Row child is not a cell", zap.String("tag", cell.Tag))
				continue
			}
			if cell.Data.ColSpan > 1 {
				td.CreateAttr("colspan", fmt.Sprintf("%d", cell.Data.ColSpan))
			}
			if cell.Data.RowSpan > 1 {
				td.CreateAttr("rowspan", fmt.Sprintf("%d", cell.Data.RowSpan))
			}
			for k := range cell.Children {
				child := &cell.Children[k]
				if child.Kind == richtext.NodeParagraph {
					r.appendInlineChildren(td, child)
					continue
				}
				r.appendBlock(td, child, cell.Children, k)
			}
		}
	}
}
