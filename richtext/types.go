// Package richtext defines the normalized document tree produced by the CMS
// rich text export and the helpers the conversion pipeline needs on it.
package richtext

import (
	"strings"
)

// Type definitions for the rich text node tree.

// NodeKind distinguishes the different kinds of document nodes.
type NodeKind string

const (
	NodeDocument            NodeKind = "document"
	NodeParagraph           NodeKind = "paragraph"
	NodeHeading1            NodeKind = "heading-1"
	NodeHeading2            NodeKind = "heading-2"
	NodeHeading3            NodeKind = "heading-3"
	NodeHeading4            NodeKind = "heading-4"
	NodeHeading5            NodeKind = "heading-5"
	NodeHeading6            NodeKind = "heading-6"
	NodeUnorderedList       NodeKind = "unordered-list"
	NodeOrderedList         NodeKind = "ordered-list"
	NodeListItem            NodeKind = "list-item"
	NodeBlockquote          NodeKind = "blockquote"
	NodeHorizontalRule      NodeKind = "hr"
	NodeHyperlink           NodeKind = "hyperlink"
	NodeEntryHyperlink      NodeKind = "entry-hyperlink"
	NodeAssetHyperlink      NodeKind = "asset-hyperlink"
	NodeEmbeddedEntryBlock  NodeKind = "embedded-entry-block"
	NodeEmbeddedEntryInline NodeKind = "embedded-entry-inline"
	NodeEmbeddedAssetBlock  NodeKind = "embedded-asset-block"
	NodeText                NodeKind = "text"
	NodeTable               NodeKind = "table"
	NodeTableRow            NodeKind = "table-row"
	NodeTableCell           NodeKind = "table-cell"
	NodeTableHeaderCell     NodeKind = "table-header-cell"
	// NodeUnknown carries any tag we do not recognize, the original tag name
	// is preserved in Node.Tag so the renderer can report it.
	NodeUnknown NodeKind = "unknown"
)

// MarkKind distinguishes inline text marks.
type MarkKind string

const (
	MarkBold        MarkKind = "bold"
	MarkItalic      MarkKind = "italic"
	MarkUnderline   MarkKind = "underline"
	MarkCode        MarkKind = "code"
	MarkSuperscript MarkKind = "superscript"
	MarkSubscript   MarkKind = "subscript"
	MarkUnknown     MarkKind = "unknown"
)

// Mark is a single inline mark. Name keeps the original mark type for
// MarkUnknown so a warning can identify it.
type Mark struct {
	Kind MarkKind
	Name string
}

// TargetKind tells whether a node data reference points to an entry or an asset.
type TargetKind string

const (
	TargetEntry TargetKind = "entry"
	TargetAsset TargetKind = "asset"
)

// TargetRef is an out-of-band reference carried in node data.
type TargetRef struct {
	ID   string
	Kind TargetKind
}

// NodeData is the optional payload a node may carry. Only the fields
// meaningful for the node kind are set.
type NodeData struct {
	URI     string
	Target  *TargetRef
	ColSpan int
	RowSpan int
}

// Node is a single node of the document tree. Trees are read-only input,
// built once per source document and never mutated afterwards.
type Node struct {
	Kind     NodeKind
	Tag      string // original tag name, kept for NodeUnknown reporting
	Value    string // set for NodeText only
	Marks    []Mark // set for NodeText only
	Data     NodeData
	Children []Node
}

// HeadingLevel returns 1-6 for heading nodes and 0 for everything else.
func (n *Node) HeadingLevel() int {
	switch n.Kind {
	case NodeHeading1:
		return 1
	case NodeHeading2:
		return 2
	case NodeHeading3:
		return 3
	case NodeHeading4:
		return 4
	case NodeHeading5:
		return 5
	case NodeHeading6:
		return 6
	}
	return 0
}

// IsHeading reports whether the node is a heading of any level.
func (n *Node) IsHeading() bool {
	return n.HeadingLevel() > 0
}

// IsBlock reports whether the node renders as a block-level element.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case NodeDocument, NodeParagraph, NodeUnorderedList, NodeOrderedList,
		NodeListItem, NodeBlockquote, NodeHorizontalRule, NodeTable,
		NodeEmbeddedEntryBlock, NodeEmbeddedAssetBlock:
		return true
	}
	return n.IsHeading()
}

// AsPlainText returns the concatenated text of all leaf text nodes in the
// subtree, ignoring marks and node structure.
func (n *Node) AsPlainText() string {
	if n.Kind == NodeText {
		return n.Value
	}
	var buf strings.Builder
	for i := range n.Children {
		buf.WriteString(n.Children[i].AsPlainText())
	}
	return buf.String()
}
