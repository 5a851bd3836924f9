package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/meur/iconforge/internal/api"
	"github.com/meur/iconforge/internal/catalog"
	"github.com/meur/iconforge/internal/compose"
	"github.com/meur/iconforge/internal/config"
	"github.com/meur/iconforge/internal/icons"
	"github.com/meur/iconforge/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("ICONFORGE_CONFIG"), "YAML config file")
	port := flag.String("port", "", "Server port")
	assets := flag.String("assets", "", "Dataset JSON file")
	dbPath := flag.String("db", "", "SQLite catalog database (overrides -assets)")
	cdn := flag.String("cdn", "", "CDN base URL for icons")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		logrus.Fatalf("Invalid environment: %v", err)
	}
	overrideIfSet(&cfg.Port, *port)
	overrideIfSet(&cfg.AssetsFile, *assets)
	overrideIfSet(&cfg.CatalogDB, *dbPath)
	overrideIfSet(&cfg.CDNURL, *cdn)

	log := newLogger(cfg)

	index, imp := loadIndex(cfg, log)

	pipeline := icons.NewPipeline(icons.Options{
		Index:      index,
		Fetcher:    icons.NewFetcher(cfg.CDNURL, cfg.FetchTimeout),
		Compositor: compose.NewCompositor(cfg.Backgrounds, log),
		Stamper:    compose.NewStamper(cfg.Watermark.Font, cfg.Watermark.Size, log),
		Watermark:  cfg.Watermark.Text,
		Logger:     log,
	})

	r := api.New(pipeline, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Import:         imp,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("🚀 Icon library starting on http://localhost:%s", cfg.Port)
	log.Infof("📦 Dataset: %s (%d items)", index.Source(), index.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Info("Server stopped")
}

// loadIndex builds the dataset index. A dataset that cannot be loaded is
// logged and replaced by an empty index so the server still starts.
func loadIndex(cfg config.Server, log *logrus.Logger) (*catalog.Index, *storage.Import) {
	if cfg.CatalogDB != "" {
		store, err := storage.New(cfg.CatalogDB)
		if err != nil {
			log.WithError(err).Error("Failed to open catalog database, serving an empty index")
			return catalog.Empty(cfg.CatalogDB), nil
		}
		defer store.Close()

		index, imp, err := catalog.BuildFromStore(cfg.CatalogDB, store)
		if err != nil {
			log.WithError(err).Error("Failed to load catalog, serving an empty index")
			return catalog.Empty(cfg.CatalogDB), nil
		}
		log.WithField("import_id", imp.ID).Info("Catalog loaded from database")
		return index, imp
	}

	if _, err := os.Stat(cfg.AssetsFile); os.IsNotExist(err) {
		log.Warnf("Dataset file %s not found!", cfg.AssetsFile)
	}
	index, err := catalog.Build(cfg.AssetsFile)
	if err != nil {
		log.WithError(err).Error("Failed to load dataset, serving an empty index")
		return catalog.Empty(cfg.AssetsFile), nil
	}
	return index, nil
}

func newLogger(cfg config.Server) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func overrideIfSet(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
