// Package convert drives a whole conversion: load the entity snapshot,
// render documents into fragments and optionally expand markers in place.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"rtc/content"
	"rtc/display"
	"rtc/render"
	"rtc/state"
	"rtc/store"
)

// Run implements the convert subcommand.
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log

	if cmd.NArg() == 0 {
		return fmt.Errorf("no source document specified")
	}
	src := cmd.Args().Get(0)
	dstDir := cmd.Args().Get(1)
	if dstDir == "" {
		dstDir = "."
	}
	env.Overwrite = cmd.Bool("overwrite")

	st, err := loadSnapshot(cmd, env, log)
	if err != nil {
		return err
	}

	sources, err := expandSources(src)
	if err != nil {
		return err
	}

	for _, name := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := convertOne(ctx, name, dstDir, st, cmd.Bool("expand"), log); err != nil {
			return err
		}
	}
	return nil
}

// loadSnapshot builds the entity store from the export files named on the
// command line. Everything is optional - a document without embedded
// components renders fine against an empty snapshot.
func loadSnapshot(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) (*store.Store, error) {
	st := store.New()

	if name := cmd.String("entities"); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("unable to open entity export: %w", err)
		}
		err = st.ReadEntities(f, log)
		f.Close()
		if err != nil {
			return nil, err
		}
		env.Rpt.Store("snapshot/entities.json", name)
	}

	if dir := cmd.String("datasets"); dir != "" {
		if err := st.LoadDatasets(dir, env.Cfg.Document.Dataset.KeyColumn, log); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// expandSources accepts either a single json file or a directory of them.
func expandSources(src string) ([]string, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access source %q: %w", src, err)
	}
	if !fi.IsDir() {
		return []string{src}, nil
	}
	matches, err := filepath.Glob(filepath.Join(src, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no documents found under %q", src)
	}
	return matches, nil
}

func convertOne(ctx context.Context, src, dstDir string, st *store.Store, expand bool, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open document: %w", err)
	}
	c, err := content.Prepare(ctx, f, st, filepath.Base(src), log)
	f.Close()
	if err != nil {
		return err
	}

	fragment, err := render.New(c, log).Render()
	if err != nil {
		return err
	}
	env.Rpt.StoreData(fmt.Sprintf("fragments/%s.rendered", filepath.Base(src)), []byte(fragment))

	if expand {
		engine := display.NewEngine(display.Options{DisplayColumns: c.DisplayColumns}, log)
		fragment = engine.Expand(fragment, st)
		env.Rpt.StoreData(fmt.Sprintf("fragments/%s.expanded", filepath.Base(src)), []byte(fragment))
	}

	dst := filepath.Join(dstDir, OutputName(src))
	if !env.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination %q already exists (use --overwrite)", dst)
		}
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(dst, []byte(fragment), 0644); err != nil {
		return fmt.Errorf("unable to write fragment: %w", err)
	}

	log.Info("Document converted", zap.String("source", src), zap.String("destination", dst), zap.Int("bytes", len(fragment)))
	return nil
}
