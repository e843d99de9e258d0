package richtext

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSON wire shapes of the CMS rich text export. Unknown node and mark types
// are preserved (never dropped) so the renderer can warn about them.

type rawMark struct {
	Type string `json:"type"`
}

type rawLink struct {
	Sys struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		LinkType string `json:"linkType"`
	} `json:"sys"`
}

type rawData struct {
	URI     string   `json:"uri"`
	Target  *rawLink `json:"target"`
	ColSpan int      `json:"colspan"`
	RowSpan int      `json:"rowspan"`
}

type rawNode struct {
	NodeType string    `json:"nodeType"`
	Value    string    `json:"value"`
	Marks    []rawMark `json:"marks"`
	Data     *rawData  `json:"data"`
	Content  []rawNode `json:"content"`
}

// ParseDocument reads a rich text JSON export and returns the normalized
// node tree. The root node is expected to be a document; anything else is
// an error since there is nothing sensible to render.
func ParseDocument(r io.Reader) (*Node, error) {
	var raw rawNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to decode rich text document: %w", err)
	}
	node := parseNode(&raw)
	if node.Kind != NodeDocument {
		return nil, fmt.Errorf("root node is %q, expected document", raw.NodeType)
	}
	return &node, nil
}

func parseNode(raw *rawNode) Node {
	node := Node{
		Kind: parseKind(raw.NodeType),
		Tag:  raw.NodeType,
	}

	if node.Kind == NodeText {
		node.Value = raw.Value
		for _, m := range raw.Marks {
			node.Marks = append(node.Marks, parseMark(m.Type))
		}
		return node
	}

	if raw.Data != nil {
		node.Data = parseData(raw.Data)
	}
	for i := range raw.Content {
		node.Children = append(node.Children, parseNode(&raw.Content[i]))
	}
	return node
}

func parseKind(tag string) NodeKind {
	switch NodeKind(tag) {
	case NodeDocument, NodeParagraph,
		NodeHeading1, NodeHeading2, NodeHeading3, NodeHeading4, NodeHeading5, NodeHeading6,
		NodeUnorderedList, NodeOrderedList, NodeListItem,
		NodeBlockquote, NodeHorizontalRule,
		NodeHyperlink, NodeEntryHyperlink, NodeAssetHyperlink,
		NodeEmbeddedEntryBlock, NodeEmbeddedEntryInline, NodeEmbeddedAssetBlock,
		NodeText, NodeTable, NodeTableRow, NodeTableCell, NodeTableHeaderCell:
		return NodeKind(tag)
	}
	return NodeUnknown
}

func parseMark(name string) Mark {
	switch MarkKind(name) {
	case MarkBold, MarkItalic, MarkUnderline, MarkCode, MarkSuperscript, MarkSubscript:
		return Mark{Kind: MarkKind(name), Name: name}
	}
	return Mark{Kind: MarkUnknown, Name: name}
}

func parseData(raw *rawData) NodeData {
	data := NodeData{
		URI:     raw.URI,
		ColSpan: raw.ColSpan,
		RowSpan: raw.RowSpan,
	}
	if raw.Target != nil && raw.Target.Sys.ID != "" {
		kind := TargetEntry
		if strings.EqualFold(raw.Target.Sys.LinkType, "Asset") {
			kind = TargetAsset
		}
		data.Target = &TargetRef{ID: raw.Target.Sys.ID, Kind: kind}
	}
	return data
}
