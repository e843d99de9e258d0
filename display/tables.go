package display

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtc/shortcode"
	"rtc/store"
)

// Options carries display-time configuration shared by all expansions of one
// run.
type Options struct {
	// When not empty, only these dataset columns (matched by header name,
	// case-insensitively) are shown. The key column is never shown.
	DisplayColumns []string
}

// Engine expands markers into final markup.
type Engine struct {
	opts Options
	log  *zap.Logger
}

func NewEngine(opts Options, log *zap.Logger) *Engine {
	return &Engine{opts: opts, log: log}
}

// RenderTable emits a dataset as an HTML table, filtered by the marker's key
// hint. Resolution failure shows all rows unfiltered - a long-standing
// fallback preserved on purpose; the warning below is the hook for finding
// pages that depend on it.
func (e *Engine) RenderTable(ds *store.TableDataset, m *shortcode.Marker) string {
	rows := ds.Rows
	if hint := m.Key(); hint != "" && ds.KeyColumnIndex >= 0 {
		if key := ResolveKey(hint, ds.KnownKeyValues); key != "" {
			var kept [][]string
			for _, row := range rows {
				if store.NormalizeKey(row[ds.KeyColumnIndex]) == key {
					kept = append(kept, row)
				}
			}
			rows = kept
		} else {
			e.log.Warn("Key hint did not resolve, showing all rows",
				zap.String("dataset", ds.ID), zap.String("hint", hint))
		}
	}

	// Columns are dropped by building rows from the retained indices - never
	// by deleting in place, which goes wrong as soon as more than one column
	// has to go.
	retained := e.retainedColumns(ds)

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}

	table := doc.CreateElement("table")
	table.CreateAttr("class", "data-table")

	thead := table.CreateElement("thead")
	tr := thead.CreateElement("tr")
	for _, i := range retained {
		tr.CreateElement("th").CreateText(ds.Header[i])
	}

	tbody := table.CreateElement("tbody")
	for _, row := range rows {
		tr := tbody.CreateElement("tr")
		for _, i := range retained {
			tr.CreateElement("td").CreateText(row[i])
		}
	}

	s, err := doc.WriteToString()
	if err != nil {
		// should not happen with a tree we just built
		e.log.Error("Unable to serialize table", zap.String("dataset", ds.ID), zap.Error(err))
		return fmt.Sprintf("<!-- unable to render dataset %q -->", ds.ID)
	}
	return strings.TrimSpace(s)
}

// retainedColumns returns the dataset column indices to show, in original
// order: everything except the key column, narrowed further by the
// configured display column selection.
func (e *Engine) retainedColumns(ds *store.TableDataset) []int {
	selected := func(string) bool { return true }
	if len(e.opts.DisplayColumns) > 0 {
		want := make(map[string]struct{}, len(e.opts.DisplayColumns))
		for _, name := range e.opts.DisplayColumns {
			want[store.NormalizeKey(name)] = struct{}{}
		}
		selected = func(name string) bool {
			_, ok := want[store.NormalizeKey(name)]
			return ok
		}
	}

	var retained []int
	for i, name := range ds.Header {
		if i == ds.KeyColumnIndex {
			continue
		}
		if !selected(name) {
			continue
		}
		retained = append(retained, i)
	}
	return retained
}
