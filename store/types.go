// Package store holds the entity snapshot the conversion pipeline renders
// against: component entries, assets and shared table datasets. A snapshot is
// populated once before rendering starts and is read-only afterwards.
package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"rtc/richtext"
)

// Entity is anything resolvable by id from the snapshot.
type Entity interface {
	EntityID() string
}

// ComponentRecord is a CMS entry referenced from an embedded node. Fields are
// kept raw - their shape depends on the content type and the resolver only
// decodes the ones it recognizes.
type ComponentRecord struct {
	ID          string
	ContentType string
	Fields      map[string]json.RawMessage
}

func (c *ComponentRecord) EntityID() string { return c.ID }

// String decodes a string-valued field. Missing or non-string fields come
// back empty.
func (c *ComponentRecord) String(name string) string {
	raw, ok := c.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Bool decodes a boolean field, false when absent or malformed.
func (c *ComponentRecord) Bool(name string) bool {
	raw, ok := c.Fields[name]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// Strings decodes a field holding a list of strings.
func (c *ComponentRecord) Strings(name string) []string {
	raw, ok := c.Fields[name]
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Links decodes a field holding entry references and returns their ids.
func (c *ComponentRecord) Links(name string) []string {
	raw, ok := c.Fields[name]
	if !ok {
		return nil
	}
	var links []struct {
		Sys struct {
			ID string `json:"id"`
		} `json:"sys"`
	}
	if err := json.Unmarshal(raw, &links); err != nil {
		// a single link is also accepted
		var one struct {
			Sys struct {
				ID string `json:"id"`
			} `json:"sys"`
		}
		if err := json.Unmarshal(raw, &one); err != nil || one.Sys.ID == "" {
			return nil
		}
		return []string{one.Sys.ID}
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		if l.Sys.ID != "" {
			ids = append(ids, l.Sys.ID)
		}
	}
	return ids
}

// Document decodes a field holding a nested rich text tree.
func (c *ComponentRecord) Document(name string) (*richtext.Node, bool) {
	raw, ok := c.Fields[name]
	if !ok {
		return nil, false
	}
	doc, err := richtext.ParseDocument(bytes.NewReader(raw))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// AssetRecord is a resolved media asset.
type AssetRecord struct {
	ID       string
	URL      string
	Title    string
	FileName string
	MimeType string
}

func (a *AssetRecord) EntityID() string { return a.ID }

// TableDataset is one shared dataset rendered in potentially several places
// of the same document, each place filtered by its own key.
type TableDataset struct {
	ID             string
	Title          string
	Header         []string
	Rows           [][]string
	KeyColumnIndex int                 // -1 when the dataset has no key column
	KnownKeyValues map[string]struct{} // distinct trimmed lower-cased key cells
}

// NormalizeKey is how key cells and resolved keys are compared everywhere.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewDataset builds a dataset from raw rows (header first). Rows shorter than
// the header are padded with empty cells, longer ones lose the extras - bad
// exports must not break rendering. keyColumn is matched against header cells
// case-insensitively; an empty or missing column yields KeyColumnIndex -1.
func NewDataset(id, title string, rows [][]string, keyColumn string) *TableDataset {
	ds := &TableDataset{
		ID:             id,
		Title:          title,
		KeyColumnIndex: -1,
		KnownKeyValues: make(map[string]struct{}),
	}
	if len(rows) == 0 {
		return ds
	}

	ds.Header = append([]string(nil), rows[0]...)
	for _, row := range rows[1:] {
		fixed := make([]string, len(ds.Header))
		copy(fixed, row)
		ds.Rows = append(ds.Rows, fixed)
	}

	if keyColumn != "" {
		for i, name := range ds.Header {
			if strings.EqualFold(strings.TrimSpace(name), keyColumn) {
				ds.KeyColumnIndex = i
				break
			}
		}
	}
	if ds.KeyColumnIndex >= 0 {
		for _, row := range ds.Rows {
			if v := NormalizeKey(row[ds.KeyColumnIndex]); v != "" {
				ds.KnownKeyValues[v] = struct{}{}
			}
		}
	}
	return ds
}
