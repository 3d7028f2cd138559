package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/tradelens/chart-image/internal/config"
	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/server"
	"github.com/tradelens/chart-image/internal/service"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/internal/version"
	"github.com/tradelens/chart-image/pkg/marketdata/cache"
	"github.com/tradelens/chart-image/pkg/marketdata/provider"
)

// serveAction starts the HTTP chart image server and blocks until a signal.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Listen = listen
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	p, err := provider.NewProvider(provider.ProviderType(cfg.Provider), cfg.PolygonAPIKey)
	if err != nil {
		return err
	}

	var barCache cache.BarCache

	if cfg.CachePath != "" {
		duckCache, err := cache.NewDuckDBCache(cfg.CachePath, l)
		if err != nil {
			return err
		}
		defer duckCache.Close()

		barCache = duckCache
	}

	svc := service.NewChartService(p, barCache, l)

	srv := server.NewServer(svc, l)
	if err := srv.Start(cfg.Listen); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	return srv.Stop()
}

// warmAction prefetches bars into the cache so chart requests for a ticker
// avoid upstream round trips.
func warmAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if cfg.CachePath == "" {
		return fmt.Errorf("cache_path must be configured to warm the cache")
	}

	interval, err := types.ParseInterval(cmd.String("interval"))
	if err != nil {
		return err
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	p, err := provider.NewProvider(provider.ProviderType(cfg.Provider), cfg.PolygonAPIKey)
	if err != nil {
		return err
	}

	duckCache, err := cache.NewDuckDBCache(cfg.CachePath, l)
	if err != nil {
		return err
	}
	defer duckCache.Close()

	tickers := cmd.StringSlice("ticker")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")

	bar := progressbar.NewOptions(len(tickers),
		progressbar.OptionSetDescription("Warming cache"),
		progressbar.OptionShowCount(),
	)

	for _, ticker := range tickers {
		series, err := p.FetchBars(ctx, ticker, start, end, interval)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", ticker, err)
		}

		if err := duckCache.Store(ctx, ticker, interval, series.Bars); err != nil {
			return fmt.Errorf("failed to store %s: %w", ticker, err)
		}

		if err := bar.Add(1); err != nil {
			return err
		}
	}

	log.Printf("Warmed %d tickers (%s) from %s to %s.",
		len(tickers), interval, start.Format("2006-01-02"), end.Format("2006-01-02"))

	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML config file",
	}

	cmd := &cli.Command{
		Name:    "chart-image",
		Usage:   "Render trade charts as PNG images over HTTP",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the chart image HTTP server",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "listen",
						Aliases: []string{"l"},
						Usage:   "Listen address, overrides the config file",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "warm",
				Usage: "Prefetch intraday bars into the cache",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringSliceFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Ticker symbol to warm, repeatable",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Bar interval (5m, 1h, 1d)",
						Value:   string(types.IntervalFiveMinutes),
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
				},
				Action: warmAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
