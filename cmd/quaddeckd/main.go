// Command quaddeckd runs the four-deck engine against real audio
// devices, wiring config, catalog, loaders, and the reclaim/diagnostic
// background goroutines around the real-time core.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nullstage/quaddeck/pkg/catalog"
	"github.com/nullstage/quaddeck/pkg/config"
	"github.com/nullstage/quaddeck/pkg/driver"
	"github.com/nullstage/quaddeck/pkg/engine"
	"github.com/nullstage/quaddeck/pkg/linkloader"
	"github.com/nullstage/quaddeck/pkg/loader"
	"github.com/nullstage/quaddeck/pkg/logdiag"
	"github.com/nullstage/quaddeck/pkg/reclaim"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "quaddeckd",
		Short: "Four-deck DJ audio engine daemon",
		RunE:  run,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diagRing := logdiag.NewRing(cfg.DiagRingSize)
	drainer := logdiag.NewDrainer(ctx, diagRing, log, 50*time.Millisecond)

	graveyard := reclaim.New(cfg.GraveyardSize)
	reaper := reclaim.NewReaper(ctx, graveyard, 100*time.Millisecond)

	eng := engine.New(float64(cfg.SampleRate), cfg.BufferSize)
	queue := engine.NewCommandQueue(cfg.CommandQueueSize)

	loader.New(ctx, queue, graveyard, log, cfg.LoaderWorkers)
	linkloader.New(ctx, queue, log)

	callback := driver.NewCallback(eng, queue, 2, cfg.BufferSize)
	spin := &driver.Spinlock{}

	master, err := driver.NewMalgoDriver(callback, cfg.SampleRate, 2, spin)
	if err != nil {
		return fmt.Errorf("quaddeckd: open master device: %w", err)
	}
	if err := master.Start(); err != nil {
		return err
	}
	defer master.Close()

	log.Info().Int("sample_rate", cfg.SampleRate).Int("buffer_size", cfg.BufferSize).Msg("quaddeckd: engine running")

	<-ctx.Done()
	log.Info().Msg("quaddeckd: shutting down")
	if err := master.Stop(); err != nil {
		log.Warn().Err(err).Msg("quaddeckd: error stopping master device")
	}
	reaper.Wait()
	drainer.Wait()
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
