package store

import (
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewDataset(t *testing.T) {
	t.Run("key_column_detection", func(t *testing.T) {
		ds := NewDataset("d1", "Title", [][]string{
			{"Name", " Key ", "Phone"},
			{"A", "agency", "1"},
			{"B", "Food", "2"},
		}, "key")

		if ds.KeyColumnIndex != 1 {
			t.Fatalf("key column index = %d", ds.KeyColumnIndex)
		}
		if _, ok := ds.KnownKeyValues["agency"]; !ok {
			t.Fatalf("key value missing: %v", ds.KnownKeyValues)
		}
		if _, ok := ds.KnownKeyValues["food"]; !ok {
			t.Fatalf("key values not normalized: %v", ds.KnownKeyValues)
		}
	})

	t.Run("ragged_rows_squared_off", func(t *testing.T) {
		ds := NewDataset("d1", "Title", [][]string{
			{"A", "B", "C"},
			{"1"},
			{"1", "2", "3", "4"},
		}, "")

		for i, row := range ds.Rows {
			if len(row) != 3 {
				t.Fatalf("row %d has %d cells", i, len(row))
			}
		}
		if ds.Rows[0][1] != "" || ds.Rows[1][2] != "3" {
			t.Fatalf("padding or truncation wrong: %v", ds.Rows)
		}
	})

	t.Run("no_key_column", func(t *testing.T) {
		ds := NewDataset("d1", "Title", [][]string{{"A", "B"}, {"1", "2"}}, "key")
		if ds.KeyColumnIndex != -1 {
			t.Fatalf("index = %d", ds.KeyColumnIndex)
		}
		if len(ds.KnownKeyValues) != 0 {
			t.Fatalf("unexpected key values: %v", ds.KnownKeyValues)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		ds := NewDataset("d1", "Title", nil, "key")
		if len(ds.Header) != 0 || len(ds.Rows) != 0 || ds.KeyColumnIndex != -1 {
			t.Fatalf("empty dataset not empty: %+v", ds)
		}
	})
}

func TestReadDataset(t *testing.T) {
	t.Run("parses_csv", func(t *testing.T) {
		src := "Name,Phone,key\n\"A, Corp\",555-0100,agency\nB Foods,555-0101,food\n"
		ds, err := ReadDataset(strings.NewReader(src), "tbl1", "Programs", "key")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(ds.Rows) != 2 || ds.Rows[0][0] != "A, Corp" {
			t.Fatalf("rows wrong: %v", ds.Rows)
		}
		if ds.KeyColumnIndex != 2 {
			t.Fatalf("key column = %d", ds.KeyColumnIndex)
		}
	})

	t.Run("utf8_bom_stripped", func(t *testing.T) {
		// key column first, so a surviving BOM would break its detection
		src := "\xEF\xBB\xBFkey,Name\nagency,A Corp\n"
		ds, err := ReadDataset(strings.NewReader(src), "tbl1", "Programs", "key")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if ds.Header[0] != "key" {
			t.Fatalf("first header cell = %q", ds.Header[0])
		}
		if ds.KeyColumnIndex != 0 {
			t.Fatalf("key column = %d", ds.KeyColumnIndex)
		}
		if _, ok := ds.KnownKeyValues["agency"]; !ok {
			t.Fatalf("key values wrong: %v", ds.KnownKeyValues)
		}
	})

	t.Run("ragged_csv_tolerated", func(t *testing.T) {
		src := "A,B\n1\n1,2,3\n"
		ds, err := ReadDataset(strings.NewReader(src), "d", "d", "")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(ds.Rows) != 2 || len(ds.Rows[0]) != 2 || len(ds.Rows[1]) != 2 {
			t.Fatalf("rows not squared: %v", ds.Rows)
		}
	})
}

func TestReadEntities(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	t.Run("populates_store", func(t *testing.T) {
		src := `{
			"entries": [
				{"id": "e1", "contentType": "link", "fields": {"url": "/page", "title": "Page"}},
				{"id": "", "contentType": "broken"},
				{"id": "e2", "contentType": "dataTable"}
			],
			"assets": [
				{"id": "a1", "url": "https://cdn/x.png", "title": "X", "mimeType": "image/png"}
			]
		}`
		st := New()
		if err := st.ReadEntities(strings.NewReader(src), log); err != nil {
			t.Fatalf("read: %v", err)
		}

		components, assets, _ := st.Len()
		if components != 2 || assets != 1 {
			t.Fatalf("counts: %d components, %d assets", components, assets)
		}
		if _, ok := st.Component("e1"); !ok {
			t.Fatal("e1 missing")
		}
		if a, ok := st.Asset("a1"); !ok || a.MimeType != "image/png" {
			t.Fatalf("a1 wrong: %+v", a)
		}
		if _, ok := st.Resolve("a1"); !ok {
			t.Fatal("Resolve does not see assets")
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if err := New().ReadEntities(strings.NewReader("not json"), log); err == nil {
			t.Fatal("expected error")
		}
	})
}

func rawJSON(fields map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = json.RawMessage(v)
	}
	return out
}

func TestComponentFields(t *testing.T) {
	rec := &ComponentRecord{
		ID:          "c1",
		ContentType: "link",
		Fields: rawJSON(map[string]string{
			"title":     `"Hello"`,
			"backToTop": `true`,
			"fields":    `["Name", "Email"]`,
			"links":     `[{"sys": {"id": "x1"}}, {"sys": {"id": "x2"}}]`,
			"image":     `{"sys": {"id": "img1"}}`,
			"body":      `{"nodeType": "document", "content": [{"nodeType": "paragraph", "content": [{"nodeType": "text", "value": "hi"}]}]}`,
		}),
	}

	if rec.String("title") != "Hello" {
		t.Fatalf("String = %q", rec.String("title"))
	}
	if rec.String("missing") != "" || rec.String("backToTop") != "" {
		t.Fatal("String not defensive")
	}
	if !rec.Bool("backToTop") || rec.Bool("title") {
		t.Fatal("Bool wrong")
	}
	if got := rec.Strings("fields"); len(got) != 2 || got[1] != "Email" {
		t.Fatalf("Strings = %v", got)
	}
	if got := rec.Links("links"); len(got) != 2 || got[0] != "x1" {
		t.Fatalf("Links = %v", got)
	}
	if got := rec.Links("image"); len(got) != 1 || got[0] != "img1" {
		t.Fatalf("single link fallback broken: %v", got)
	}
	doc, ok := rec.Document("body")
	if !ok || doc.AsPlainText() != "hi" {
		t.Fatalf("Document wrong: %v %v", ok, doc)
	}
}

func TestNormalizeKey(t *testing.T) {
	if NormalizeKey("  Agency ") != "agency" {
		t.Fatal("normalization wrong")
	}
}
