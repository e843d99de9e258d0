// Package content prepares everything one conversion run needs: the parsed
// document tree plus the entity snapshot it renders against.
package content

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"rtc/richtext"
	"rtc/state"
	"rtc/store"
)

// Content encapsulates the parsed rich text document and the read-only
// entity snapshot for a single render. It replaces what used to be ambient
// module-level caches: its lifetime is exactly one run and several runs may
// share one store without touching each other.
type Content struct {
	SrcName string
	Doc     *richtext.Node
	Store   *store.Store

	SiteHost       string
	TopAnchor      string
	Lang           language.Tag
	KeyColumn      string
	DisplayColumns []string
}

// Prepare reads and parses a rich text document and binds it to the supplied
// entity snapshot.
func Prepare(ctx context.Context, r io.Reader, st *store.Store, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	doc, err := richtext.ParseDocument(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document %q: %w", srcName, err)
	}

	c := &Content{
		SrcName:        srcName,
		Doc:            doc,
		Store:          st,
		SiteHost:       env.Cfg.Document.SiteHost,
		TopAnchor:      env.Cfg.Document.TopAnchor,
		KeyColumn:      env.Cfg.Document.Dataset.KeyColumn,
		DisplayColumns: env.Cfg.Document.Dataset.DisplayColumns,
	}

	if lang := env.Cfg.Document.Language; lang != "" {
		if c.Lang, err = language.Parse(lang); err != nil {
			// configuration is validated, but stay permissive anyway
			log.Warn("Ignoring unparsable document language", zap.String("language", lang), zap.Error(err))
			c.Lang = language.Und
		}
	}

	components, assets, datasets := st.Len()
	log.Debug("Content prepared", zap.String("source", srcName),
		zap.Int("components", components), zap.Int("assets", assets), zap.Int("datasets", datasets))

	// Save parsed tree for debugging
	env.Rpt.StoreData(fmt.Sprintf("trees/%s.txt", srcName), []byte(c.String()))

	return c, nil
}
