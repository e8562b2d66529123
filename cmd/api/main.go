package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"tableview/internal/api"
	"tableview/internal/assets"
	"tableview/internal/config"
	"tableview/internal/loader"
	"tableview/internal/logging"
	"tableview/internal/storage"
	"tableview/internal/viewer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger := logging.Must(cfg, "tableview-api")
	defer func() { _ = logger.Sync() }()

	paths, err := assets.LoadPathTable(cfg.PathsFile)
	if err != nil {
		logger.Fatal("load path table", zap.Error(err))
	}
	src, closeSrc, err := manifestSource(cfg)
	if err != nil {
		logger.Fatal("configure manifest source", zap.Error(err))
	}
	defer closeSrc()

	store := viewer.NewStore()
	h, err := api.NewServer(cfg, store, paths, logger)
	if err != nil {
		logger.Fatal("configure server", zap.Error(err))
	}

	// Bind before loading so a manifest served by this process is reachable.
	ln, err := net.Listen("tcp", cfg.APIAddr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", cfg.APIAddr), zap.Error(err))
	}
	loader.New(src, store, logger).Start(context.Background())

	logger.Info("tableview api listening",
		zap.String("addr", cfg.APIAddr),
		zap.String("manifest_source", src.Name()),
		zap.String("public_dir", cfg.PublicDir),
		zap.String("table_policy", cfg.TablePolicy),
	)
	if err := http.Serve(ln, h.Routes()); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func manifestSource(cfg config.Config) (loader.Source, func(), error) {
	switch cfg.ManifestSource {
	case "http":
		return loader.NewHTTPSource(cfg.ManifestURL), func() {}, nil
	case "file":
		return loader.FileSource{Path: cfg.ManifestFile()}, func() {}, nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db, err := storage.NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewManifestRepo(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown manifest source %q", cfg.ManifestSource)
	}
}
