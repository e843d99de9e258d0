package content

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"rtc/config"
	"rtc/state"
	"rtc/store"
)

const testDoc = `{
	"nodeType": "document",
	"content": [
		{"nodeType": "heading-2", "content": [{"nodeType": "text", "value": "Food Assistance"}]},
		{"nodeType": "paragraph", "content": [{"nodeType": "text", "value": "hello"}]}
	]
}`

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	env.Cfg = cfg
	return ctx
}

func TestPrepare(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	t.Run("fills_from_configuration", func(t *testing.T) {
		ctx := testContext(t)
		c, err := Prepare(ctx, strings.NewReader(testDoc), store.New(), "page.json", log)
		if err != nil {
			t.Fatalf("prepare: %v", err)
		}

		if c.SrcName != "page.json" {
			t.Errorf("SrcName = %q", c.SrcName)
		}
		if c.Doc == nil || len(c.Doc.Children) != 2 {
			t.Fatalf("document not parsed: %+v", c.Doc)
		}
		if c.TopAnchor != "top" || c.KeyColumn != "key" {
			t.Errorf("configuration not applied: anchor %q, key column %q", c.TopAnchor, c.KeyColumn)
		}
		if c.Lang.String() != "en" {
			t.Errorf("Lang = %q", c.Lang)
		}
	})

	t.Run("bad_language_is_not_fatal", func(t *testing.T) {
		ctx := testContext(t)
		state.EnvFromContext(ctx).Cfg.Document.Language = "not a tag!"

		c, err := Prepare(ctx, strings.NewReader(testDoc), store.New(), "page.json", log)
		if err != nil {
			t.Fatalf("prepare: %v", err)
		}
		if !c.Lang.IsRoot() {
			t.Errorf("Lang = %q, want und", c.Lang)
		}
	})

	t.Run("parse_error_propagates", func(t *testing.T) {
		ctx := testContext(t)
		if _, err := Prepare(ctx, strings.NewReader("not json"), store.New(), "bad.json", log); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("honors_cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()
		if _, err := Prepare(ctx, strings.NewReader(testDoc), store.New(), "page.json", log); err == nil {
			t.Fatal("expected context error")
		}
	})
}

func TestContentString(t *testing.T) {
	ctx := testContext(t)
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	c, err := Prepare(ctx, strings.NewReader(testDoc), store.New(), "page.json", log)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	dump := c.String()
	if !strings.Contains(dump, "heading-2") || !strings.Contains(dump, "Food Assistance") {
		t.Fatalf("tree dump incomplete:\n%s", dump)
	}
}
