package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/config"
	"github.com/lojf/kidsdesk/internal/db"
	"github.com/lojf/kidsdesk/internal/handlers"
	"github.com/lojf/kidsdesk/internal/logger"
	"github.com/lojf/kidsdesk/internal/reports"
	"github.com/lojf/kidsdesk/internal/store"
	"github.com/lojf/kidsdesk/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config/config.yaml or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	loc, ok := cfg.Location()
	if !ok {
		log.Warn("unknown time zone, using UTC", zap.String("timezone", cfg.Storage.Timezone))
	}

	st, err := store.Open(store.Options{
		DataDir:        cfg.Storage.DataDir,
		Location:       loc,
		DefaultCountry: cfg.Phone.DefaultCountry,
		Logger:         log.Named("store"),
	})
	if err != nil {
		log.Fatal("open data files", zap.String("dir", cfg.Storage.DataDir), zap.Error(err))
	}

	rep := reports.NewService(st, reports.NewHistory(cfg.Storage.ReportsDir, log.Named("history")), st.Now, log.Named("reports"))

	var mirror *db.Mirror
	if cfg.Mirror.Enabled {
		mirror, err = db.Open(cfg.Mirror.Path, log.Named("mirror"))
		if err != nil {
			log.Fatal("open mirror", zap.Error(err))
		}
		defer mirror.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep.StartSnapshotLoop(ctx, cfg.Reports.SnapshotEvery)

	h := handlers.New(st, rep, mirror, cfg.Server.BaseURL, log.Named("http"))
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      web.Router(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("kidsdesk listening",
			zap.String("addr", srv.Addr),
			zap.String("data_dir", cfg.Storage.DataDir),
			zap.Bool("mirror", mirror != nil))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
