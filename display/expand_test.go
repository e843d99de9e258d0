package display

import (
	"strings"
	"testing"

	"rtc/store"
)

func TestExpand(t *testing.T) {
	newStore := func() *store.Store {
		st := store.New()
		st.AddDataset(foodDataset())
		return st
	}

	t.Run("table_marker_replaced", func(t *testing.T) {
		e := testEngine(t, Options{})
		fragment := "<h2 id=\"food\">Food</h2>\n\n[table id=\"tbl1\" key=\"food\"]\n\n<p>after</p>"
		out := e.Expand(fragment, newStore())

		if strings.Contains(out, "[table") {
			t.Fatalf("marker survived expansion: %q", out)
		}
		if !strings.Contains(out, `<table class="data-table">`) || !strings.Contains(out, "B Foods") {
			t.Fatalf("table not expanded: %q", out)
		}
		if !strings.HasPrefix(out, `<h2 id="food">`) || !strings.HasSuffix(out, "<p>after</p>") {
			t.Fatalf("surrounding fragment damaged: %q", out)
		}
	})

	t.Run("missing_dataset_becomes_comment", func(t *testing.T) {
		e := testEngine(t, Options{})
		out := e.Expand(`[table id="ghost"]`, store.New())
		if out != `<!-- no dataset "ghost" -->` {
			t.Fatalf("got %q", out)
		}
	})

	t.Run("unknown_marker_untouched", func(t *testing.T) {
		e := testEngine(t, Options{})
		fragment := `<p>see [footnote id="9"] for details</p>`
		if out := e.Expand(fragment, newStore()); out != fragment {
			t.Fatalf("foreign marker modified: %q", out)
		}
	})

	t.Run("multiple_markers_same_dataset", func(t *testing.T) {
		e := testEngine(t, Options{})
		fragment := `[table id="tbl1" key="food"]` + "\n\n" + `[table id="tbl1" key="agency"]`
		out := e.Expand(fragment, newStore())

		if !strings.Contains(out, "B Foods") || !strings.Contains(out, "A Corp") {
			t.Fatalf("per-marker filtering broken: %q", out)
		}
		if c := strings.Count(out, `<table class="data-table">`); c != 2 {
			t.Fatalf("expected 2 tables, got %d", c)
		}
	})

	t.Run("escaped_title_round_trips", func(t *testing.T) {
		// the fragment carries the title XML-escaped; expansion must show
		// the original text exactly once escaped, never "&amp;amp;"
		e := testEngine(t, Options{})
		out := e.Expand(`[chart id="tbl1" title="Food &amp; Fun"]`, newStore())
		if !strings.Contains(out, `<p class="chart-title">Food &amp; Fun</p>`) {
			t.Fatalf("title not round-tripped: %q", out)
		}
	})

	t.Run("chart_and_cards_markers", func(t *testing.T) {
		e := testEngine(t, Options{})
		out := e.Expand(`[chart id="tbl1" type="bar"]`+"\n\n"+`[cards id="tbl1"]`, newStore())
		if !strings.Contains(out, `class="chart"`) || !strings.Contains(out, `class="cards"`) {
			t.Fatalf("grids not expanded: %q", out)
		}
	})

	t.Run("no_markers_no_change", func(t *testing.T) {
		e := testEngine(t, Options{})
		fragment := "<p>plain</p>"
		if out := e.Expand(fragment, newStore()); out != fragment {
			t.Fatalf("got %q", out)
		}
	})
}

func TestExpandTOC(t *testing.T) {
	t.Run("builds_nested_levels", func(t *testing.T) {
		e := testEngine(t, Options{})
		fragment := `[toc id="toc1"]` + "\n\n" +
			`<h2 id="first">First &amp; Last</h2>` + "\n\n" +
			`<h3 id="detail"><strong>Detail</strong></h3>` + "\n\n" +
			`<h2 id="second">Second</h2>`
		out := e.Expand(fragment, store.New())

		if strings.Contains(out, "[toc") {
			t.Fatalf("toc marker survived: %q", out)
		}
		if !strings.Contains(out, `<nav class="toc">`) {
			t.Fatalf("nav missing: %q", out)
		}
		if !strings.Contains(out, `<li class="toc-level-2"><a href="#first">First &amp; Last</a></li>`) {
			t.Fatalf("entity handling wrong: %q", out)
		}
		if !strings.Contains(out, `<li class="toc-level-3"><a href="#detail">Detail</a></li>`) {
			t.Fatalf("inline markup not stripped: %q", out)
		}
		if !strings.Contains(out, `<a href="#second">Second</a>`) {
			t.Fatalf("second heading missing: %q", out)
		}
	})

	t.Run("no_headings_empty", func(t *testing.T) {
		e := testEngine(t, Options{})
		if out := e.Expand(`[toc id="toc1"]`, store.New()); out != "" {
			t.Fatalf("got %q", out)
		}
	})
}
