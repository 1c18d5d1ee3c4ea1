package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StrikeZones/internal/collector"
	"StrikeZones/internal/config"
	"StrikeZones/internal/notifier"
	"StrikeZones/internal/recorder"
	"StrikeZones/internal/refresh"
	"StrikeZones/internal/scheduler"
	"StrikeZones/internal/server"
	"StrikeZones/internal/session"
	"StrikeZones/internal/window"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Serve option strike zones over a live price chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cfgPath)
		},
	}
	root.Flags().StringVarP(&cfgPath, "config", "c", cfgPath, "path to the YAML config")

	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfgPath string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("StrikeZones starting...")

	// Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	level, _ := log.ParseLevel(cfg.Log.Level)
	log.SetLevel(level)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "polygon" {
		fetcher = collector.NewPolygonFetcher(cfg.DataSource.PolygonAPIKey, loc)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout, loc)
	}
	log.Infof("data source: %s", fetcher.Name())

	client := collector.NewClient(fetcher, cfg.DataSource.Timeout)
	client.Recorder = rec

	store := session.NewStore()
	orch := refresh.NewOrchestrator(client, window.NewResolver(loc), store, rec, refresh.Options{
		Features: refresh.Features{
			ExpirationInput: cfg.Features.ExpirationInput,
			ScaleButtons:    cfg.Features.ScaleButtons,
			MiniPanel:       cfg.Features.MiniPanel,
		},
		DefaultExpiration: cfg.Market.DefaultExpiration,
		PanelSymbols:      cfg.Market.PanelSymbols,
	})
	hub := notifier.NewHub()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, orch, hub)
	if err := sched.Register(cfg.Schedule.TickCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(orch, store, hub, cfg.Features.ScaleButtons).HTTPServer(cfg.Server.Addr)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server: %v", err)
			cancel()
		}
	}()

	log.Info("StrikeZones is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	log.Info("StrikeZones stopped")
	return nil
}
