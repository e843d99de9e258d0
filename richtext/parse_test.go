package richtext

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	t.Run("full_tree", func(t *testing.T) {
		src := `{
			"nodeType": "document",
			"content": [
				{
					"nodeType": "heading-2",
					"content": [{"nodeType": "text", "value": "Food Assistance"}]
				},
				{
					"nodeType": "paragraph",
					"content": [
						{"nodeType": "text", "value": "Call ", "marks": [{"type": "bold"}, {"type": "italic"}]},
						{
							"nodeType": "hyperlink",
							"data": {"uri": "https://example.org/help"},
							"content": [{"nodeType": "text", "value": "here"}]
						}
					]
				},
				{
					"nodeType": "embedded-entry-block",
					"data": {"target": {"sys": {"id": "tbl1", "linkType": "Entry"}}}
				}
			]
		}`

		doc, err := ParseDocument(strings.NewReader(src))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if doc.Kind != NodeDocument {
			t.Fatalf("root kind = %q", doc.Kind)
		}
		if len(doc.Children) != 3 {
			t.Fatalf("expected 3 children, got %d", len(doc.Children))
		}

		h := &doc.Children[0]
		if h.Kind != NodeHeading2 || h.HeadingLevel() != 2 {
			t.Fatalf("heading not recognized: %q level %d", h.Kind, h.HeadingLevel())
		}
		if h.AsPlainText() != "Food Assistance" {
			t.Fatalf("heading text = %q", h.AsPlainText())
		}

		p := &doc.Children[1]
		text := &p.Children[0]
		if len(text.Marks) != 2 || text.Marks[0].Kind != MarkBold || text.Marks[1].Kind != MarkItalic {
			t.Fatalf("marks not preserved in order: %v", text.Marks)
		}
		link := &p.Children[1]
		if link.Kind != NodeHyperlink || link.Data.URI != "https://example.org/help" {
			t.Fatalf("hyperlink not parsed: %q %q", link.Kind, link.Data.URI)
		}

		embed := &doc.Children[2]
		if embed.Kind != NodeEmbeddedEntryBlock {
			t.Fatalf("embedded block kind = %q", embed.Kind)
		}
		if embed.Data.Target == nil || embed.Data.Target.ID != "tbl1" || embed.Data.Target.Kind != TargetEntry {
			t.Fatalf("target not parsed: %+v", embed.Data.Target)
		}
	})

	t.Run("asset_target", func(t *testing.T) {
		src := `{
			"nodeType": "document",
			"content": [{
				"nodeType": "embedded-asset-block",
				"data": {"target": {"sys": {"id": "img1", "linkType": "Asset"}}}
			}]
		}`
		doc, err := ParseDocument(strings.NewReader(src))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		target := doc.Children[0].Data.Target
		if target == nil || target.Kind != TargetAsset {
			t.Fatalf("asset target not recognized: %+v", target)
		}
	})

	t.Run("unknown_preserved", func(t *testing.T) {
		src := `{
			"nodeType": "document",
			"content": [{
				"nodeType": "fancy-new-block",
				"content": [{"nodeType": "text", "value": "inside", "marks": [{"type": "sparkle"}]}]
			}]
		}`
		doc, err := ParseDocument(strings.NewReader(src))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		n := &doc.Children[0]
		if n.Kind != NodeUnknown || n.Tag != "fancy-new-block" {
			t.Fatalf("unknown node not preserved: kind %q tag %q", n.Kind, n.Tag)
		}
		mark := n.Children[0].Marks[0]
		if mark.Kind != MarkUnknown || mark.Name != "sparkle" {
			t.Fatalf("unknown mark not preserved: %+v", mark)
		}
	})

	t.Run("non_document_root", func(t *testing.T) {
		if _, err := ParseDocument(strings.NewReader(`{"nodeType": "paragraph"}`)); err == nil {
			t.Fatal("expected error for non-document root")
		}
	})

	t.Run("table_spans", func(t *testing.T) {
		src := `{
			"nodeType": "document",
			"content": [{
				"nodeType": "table",
				"content": [{
					"nodeType": "table-row",
					"content": [{
						"nodeType": "table-cell",
						"data": {"colspan": 2, "rowspan": 3},
						"content": [{"nodeType": "paragraph", "content": [{"nodeType": "text", "value": "x"}]}]
					}]
				}]
			}]
		}`
		doc, err := ParseDocument(strings.NewReader(src))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		cell := &doc.Children[0].Children[0].Children[0]
		if cell.Data.ColSpan != 2 || cell.Data.RowSpan != 3 {
			t.Fatalf("spans not parsed: %d/%d", cell.Data.ColSpan, cell.Data.RowSpan)
		}
	})
}

func TestAsPlainText(t *testing.T) {
	node := Node{
		Kind: NodeParagraph,
		Children: []Node{
			{Kind: NodeText, Value: "Hello, ", Marks: []Mark{{Kind: MarkBold}}},
			{Kind: NodeHyperlink, Children: []Node{{Kind: NodeText, Value: "world"}}},
			{Kind: NodeText, Value: "!"},
		},
	}
	if got := node.AsPlainText(); got != "Hello, world!" {
		t.Fatalf("AsPlainText = %q", got)
	}
}
