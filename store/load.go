package store

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Snapshot loading from an on-disk CMS export. Network fetching and caching
// are collaborators' concerns - by the time we run, everything is files.

type exportEntry struct {
	ID          string                     `json:"id"`
	ContentType string                     `json:"contentType"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

type exportAsset struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

type export struct {
	Entries []exportEntry `json:"entries"`
	Assets  []exportAsset `json:"assets"`
}

// ReadEntities populates the store from an entity export stream. Entries
// without an id are skipped with a warning, duplicates overwrite (last one
// wins, matching export order).
func (s *Store) ReadEntities(r io.Reader, log *zap.Logger) error {
	var ex export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ex); err != nil {
		return fmt.Errorf("unable to decode entity export: %w", err)
	}

	for i := range ex.Entries {
		e := &ex.Entries[i]
		if e.ID == "" {
			log.Warn("Skipping entry without id", zap.Int("index", i), zap.String("content_type", e.ContentType))
			continue
		}
		s.AddComponent(&ComponentRecord{ID: e.ID, ContentType: e.ContentType, Fields: e.Fields})
	}
	for i := range ex.Assets {
		a := &ex.Assets[i]
		if a.ID == "" {
			log.Warn("Skipping asset without id", zap.Int("index", i), zap.String("file", a.FileName))
			continue
		}
		s.AddAsset(&AssetRecord{ID: a.ID, URL: a.URL, Title: a.Title, FileName: a.FileName, MimeType: a.MimeType})
	}

	log.Debug("Entity snapshot loaded", zap.Int("entries", len(ex.Entries)), zap.Int("assets", len(ex.Assets)))
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDataset parses one CSV dataset. Ragged rows are tolerated: the csv
// reader is told not to enforce a record length, NewDataset squares rows off
// against the header. A leading UTF-8 BOM is stripped, spreadsheet exports
// love to prepend one and it would corrupt the first header cell.
func ReadDataset(r io.Reader, id, title, keyColumn string) (*TableDataset, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read dataset %q: %w", id, err)
	}
	return NewDataset(id, title, rows, keyColumn), nil
}

// LoadDatasets reads every *.csv under dir into the store. The file base name
// is the entity id of the table component owning the dataset.
func (s *Store) LoadDatasets(dir, keyColumn string, log *zap.Logger) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("unable to list datasets in %q: %w", dir, err)
	}

	for _, name := range matches {
		id := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("unable to open dataset %q: %w", name, err)
		}
		ds, err := ReadDataset(f, id, id, keyColumn)
		f.Close()
		if err != nil {
			return err
		}

		s.AddDataset(ds)
		log.Debug("Dataset loaded", zap.String("id", id),
			zap.Int("columns", len(ds.Header)), zap.Int("rows", len(ds.Rows)),
			zap.Int("key_column", ds.KeyColumnIndex))
	}
	return nil
}
