package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindmeld360/blog"
	"github.com/mindmeld360/blog/content"
	"github.com/mindmeld360/blog/logger"
	"github.com/mindmeld360/blog/views"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := blog.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	log, flush := logger.Init(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		SentryDSN: cfg.Log.SentryDSN,
	})
	defer flush()

	source, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	cache := blog.NewPostCache(source, cfg.Content.CacheTTL)
	if cfg.Content.Source == "files" && cfg.Content.Watch {
		w, err := content.NewWatcher(cfg.Content.Dir, content.DefaultDebounce, func(path string) {
			log.Info("content changed, invalidating cache", "file", path)
			cache.Invalidate()
		})
		if err != nil {
			log.Warn("content watcher disabled", "dir", cfg.Content.Dir, "error", err)
		} else {
			defer w.Close()
		}
	}

	app := blog.New(cfg, cache, views.Funcs(), blog.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openSource returns the configured post source and a func releasing it.
func openSource(cfg blog.Config) (blog.PostSource, func(), error) {
	switch cfg.Content.Source {
	case "database":
		store, err := blog.NewStore(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("serving posts from database", "driver", cfg.Database.Driver)
		return store, func() { store.Close() }, nil
	default:
		if _, err := os.Stat(cfg.Content.Dir); err != nil {
			return nil, nil, fmt.Errorf("content dir: %w", err)
		}
		slog.Info("serving posts from files", "dir", cfg.Content.Dir)
		return content.NewDirectory(cfg.Content.Dir), func() {}, nil
	}
}
