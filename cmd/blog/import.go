package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mindmeld360/blog"
	"github.com/mindmeld360/blog/content"
	"github.com/mindmeld360/blog/logger"
)

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: blog import [-config file] <dir>")
	}

	cfg, err := blog.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	_, flush := logger.Init(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		SentryDSN: cfg.Log.SentryDSN,
	})
	defer flush()

	store, err := blog.NewStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := importDir(context.Background(), store, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("imported %d posts\n", n)
	return nil
}

// importDir upserts every parseable markdown file in dir, drafts included.
func importDir(ctx context.Context, store *blog.Store, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return 0, err
	}
	src := content.NewDirectory(dir)
	n := 0
	for _, file := range files {
		post, err := src.Load(file)
		if err != nil {
			slog.Warn("skipping post file", "file", file, "error", err)
			continue
		}
		if err := store.SavePost(ctx, post); err != nil {
			return n, fmt.Errorf("save %s: %w", post.Slug, err)
		}
		slog.Debug("imported post", "slug", post.Slug, "published", post.Published)
		n++
	}
	return n, nil
}
