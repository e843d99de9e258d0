package display

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtc/shortcode"
	"rtc/store"
)

// Charts and card sets are the simplified cousins of the filtered table:
// same dataset resolution, but every row is shown as a grid row and no key
// filtering or column stripping applies.

// RenderChart emits a dataset as a grid the site's chart script picks up.
func (e *Engine) RenderChart(ds *store.TableDataset, m *shortcode.Marker) string {
	doc := newFragment()

	div := doc.CreateElement("div")
	div.CreateAttr("class", "chart")
	if t := m.Get("type"); t != "" {
		div.CreateAttr("data-chart-type", t)
	}
	if title := m.Get("title"); title != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "chart-title")
		p.CreateText(title)
	}

	header := div.CreateElement("div")
	header.CreateAttr("class", "chart-row chart-header")
	for _, cell := range ds.Header {
		appendGridCell(header, cell)
	}
	for _, row := range ds.Rows {
		rowDiv := div.CreateElement("div")
		rowDiv.CreateAttr("class", "chart-row")
		for _, cell := range row {
			appendGridCell(rowDiv, cell)
		}
	}

	return e.serialize(doc, ds.ID)
}

// RenderCards emits each dataset row as one card: first column is the card
// title, the rest become body lines.
func (e *Engine) RenderCards(ds *store.TableDataset, m *shortcode.Marker) string {
	doc := newFragment()

	div := doc.CreateElement("div")
	div.CreateAttr("class", "cards")
	if title := m.Get("title"); title != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "cards-title")
		p.CreateText(title)
	}

	for _, row := range ds.Rows {
		card := div.CreateElement("div")
		card.CreateAttr("class", "card")
		for i, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			p := card.CreateElement("p")
			if i == 0 {
				p.CreateAttr("class", "card-title")
			} else {
				p.CreateAttr("class", "card-body")
			}
			p.CreateText(cell)
		}
	}

	return e.serialize(doc, ds.ID)
}

func newFragment() *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	return doc
}

func appendGridCell(parent *etree.Element, text string) {
	span := parent.CreateElement("span")
	span.CreateAttr("class", "chart-cell")
	span.CreateText(text)
}

func (e *Engine) serialize(doc *etree.Document, id string) string {
	s, err := doc.WriteToString()
	if err != nil {
		e.log.Error("Unable to serialize grid", zap.String("dataset", id), zap.Error(err))
		return fmt.Sprintf("<!-- unable to render dataset %q -->", id)
	}
	return strings.TrimSpace(s)
}
