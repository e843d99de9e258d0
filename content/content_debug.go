package content

import (
	"fmt"
	"strings"

	"rtc/richtext"
	"rtc/utils/debug"
)

// String returns a readable tree of the parsed document. It exists solely for
// manual inspection during debugging (debug report archives).
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document %q lang=%s", c.SrcName, c.Lang)
	dumpNode(tw, c.Doc, 1)
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, n *richtext.Node, depth int) {
	label := string(n.Kind)
	if n.Kind == richtext.NodeUnknown {
		label = fmt.Sprintf("unknown(%s)", n.Tag)
	}

	switch {
	case n.Kind == richtext.NodeText:
		if len(n.Marks) > 0 {
			names := make([]string, len(n.Marks))
			for i, m := range n.Marks {
				names[i] = m.Name
			}
			label += "[" + strings.Join(names, ",") + "]"
		}
		tw.TextBlock(depth, label, n.Value)
		return
	case n.Data.Target != nil:
		label += fmt.Sprintf(" -> %s:%s", n.Data.Target.Kind, n.Data.Target.ID)
	case n.Data.URI != "":
		label += fmt.Sprintf(" -> %s", n.Data.URI)
	}
	if n.Data.ColSpan > 1 || n.Data.RowSpan > 1 {
		label += fmt.Sprintf(" span=%dx%d", n.Data.ColSpan, n.Data.RowSpan)
	}

	tw.Line(depth, "%s", label)
	for i := range n.Children {
		dumpNode(tw, &n.Children[i], depth+1)
	}
}
