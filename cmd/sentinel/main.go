package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AHRSentinel/internal/collector"
	"AHRSentinel/internal/config"
	"AHRSentinel/internal/metrics"
	"AHRSentinel/internal/notifier"
	"AHRSentinel/internal/recorder"
	"AHRSentinel/internal/scheduler"
)

const usage = `usage: sentinel [command]

commands:
  update   fetch today's BTC price into the price file
  report   rebuild the AHR999 report and dashboard
  run      update, then report
  serve    run the daily schedule, Telegram bot and metrics (default)`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "update", "report", "run", "serve":
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	m := metrics.NewMetrics()

	// CoinGecko first, CoinCap when it is down or rate limited.
	fetcher := collector.NewFallbackFetcher(
		collector.NewCoinGeckoFetcher(cfg.DataSource.CoinGeckoURL, cfg.Proxy),
		collector.NewCoinCapFetcher(cfg.DataSource.CoinCapURL, cfg.DataSource.CoinCapKey, cfg.Proxy),
	)
	fetcher.OnFailure = m.ObserveFetchFailure
	log.Printf("[INFO] data source: %s", fetcher.Name())

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx,
		collector.NewUpdater(fetcher, cfg.Files.PriceFile),
		cfg.Pipeline(),
		scheduler.Paths{
			PriceFile:     cfg.Files.PriceFile,
			ReportFile:    cfg.Files.ReportFile,
			DashboardFile: cfg.Files.DashboardFile,
		},
		tn, rec, m)

	if err := dispatch(ctx, command, cfg, sched, tn, m); err != nil {
		log.Printf("[FATAL] %s: %v", command, err)
		rec.Close()
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, command string, cfg *config.Config, sched *scheduler.Scheduler,
	tn *notifier.TelegramNotifier, m *metrics.Metrics) error {
	switch command {
	case "update":
		_, err := sched.UpdatePrice(ctx)
		return err
	case "report", "run":
		if command == "run" {
			if _, err := sched.UpdatePrice(ctx); err != nil {
				// A stale price file still yields a valid report.
				log.Printf("[WARN] price update failed, reporting on existing data: %v", err)
			}
		}
		r, err := sched.BuildReport(ctx)
		if err != nil {
			return err
		}
		sched.Notify(r)
		return nil
	}

	if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	} else {
		log.Println("[INFO] Telegram not configured, notifications disabled")
	}

	if cfg.Metrics.ListenAddr != "" {
		go func() {
			if err := m.Serve(cfg.Metrics.ListenAddr); err != nil {
				log.Printf("[ERROR] metrics server: %v", err)
			}
		}()
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, building report now")
		if _, err := sched.BuildReport(ctx); err != nil {
			log.Printf("[ERROR] initial report: %v", err)
		}
	}

	log.Println("[INFO] AHRSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}
