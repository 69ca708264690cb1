package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/olivierh59500/particle-life-field/internal/config"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/observability"
	"github.com/olivierh59500/particle-life-field/internal/sim"
	"github.com/olivierh59500/particle-life-field/internal/ui"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the simulation window (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWindow(cmd.Context())
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.Int("particles", 0, "number of particles to seed")
	fs.Int("types", 0, "number of particle types")
	fs.Int64("seed", 0, "random seed (0 uses the clock)")
	fs.String("shape", "", "cursor shape: circle, square or infinity")
	fs.String("mode", "", "cursor selection mode")
	fs.String("mood-source", "", "mood source: bridge, synth or default")
	fs.String("bridge-url", "", "mood bridge state URL")
	fs.String("variant", "", "synthetic mood variant: simple or layered")
}

// moodSource returns the fetcher selected by cfg, or nil when the
// default state should be used unchanged.
func moodSource(cfg *config.Config) (mood.Fetcher, error) {
	switch cfg.Mood.Source {
	case config.SourceBridge:
		return mood.NewBridgeClient(cfg.Mood.BridgeURL, cfg.Mood.Timeout), nil
	case config.SourceSynth:
		variant, err := cfg.Mood.Variant()
		if err != nil {
			return nil, err
		}
		return mood.NewSynth(variant, time.Now(), cfg.Simulation.Seed, nil), nil
	case config.SourceDefault:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown mood source %q", cfg.Mood.Source)
}

// startFeed polls the configured source in the background. The returned
// function stops the feed and waits for it.
func startFeed(ctx context.Context, cfg *config.Config, store *mood.Store, logger *zap.Logger) (func(), error) {
	source, err := moodSource(cfg)
	if err != nil {
		return nil, err
	}
	if source == nil {
		logger.Info("Using the default mood state")
		return func() {}, nil
	}
	var lister mood.ModelLister
	if cfg.Mood.ModelsURL != "" {
		lister = mood.NewModelClient(cfg.Mood.ModelsURL, cfg.Mood.ModelsTimeout)
	}
	feed := mood.NewFeed(store, source, lister, logger, mood.FeedOptions{
		Interval:      cfg.Mood.Interval,
		ModelInterval: cfg.Mood.ModelsInterval,
	})

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := feed.Run(ctx); err != nil {
			logger.Error("Mood feed stopped", zap.Error(err))
		}
	}()
	logger.Info("Mood feed started", zap.String("source", cfg.Mood.Source))
	return func() {
		cancel()
		<-done
	}, nil
}

func (a *app) runWindow(ctx context.Context) error {
	logger := observability.GetLogger()
	store := mood.NewStore()

	stop, err := startFeed(ctx, a.cfg, store, logger)
	if err != nil {
		return err
	}
	defer stop()

	session, err := sim.NewSession(a.cfg, store, logger)
	if err != nil {
		return err
	}

	w, h := a.cfg.Simulation.Width, a.cfg.Simulation.Height
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Particle Life Field")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(a.cfg.Simulation.TPS)

	if err := ebiten.RunGame(ui.NewGame(ctx, session, w, h, logger)); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	logger.Info("Window closed")
	return nil
}
