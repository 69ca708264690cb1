package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/observability"
)

func newBridgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Serve a synthetic mood state over HTTP",
		Long: "Serves " + mood.StatePath + " from a time-driven synthetic mood, " +
			"so the simulation can run against the bridge protocol without an upstream model.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveBridge(cmd.Context())
		},
	}
	cmd.Flags().String("listen", "", "address to listen on")
	cmd.Flags().String("variant", "", "synthetic mood variant: simple or layered")
	cmd.Flags().Int64("seed", 0, "noise seed")
	return cmd
}

func (a *app) serveBridge(ctx context.Context) error {
	logger := observability.GetLogger()
	variant, err := a.cfg.Mood.Variant()
	if err != nil {
		return err
	}
	synth := mood.NewSynth(variant, time.Now(), a.cfg.Simulation.Seed, nil)

	ln, err := net.Listen("tcp", a.cfg.Bridge.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Bridge.Listen, err)
	}
	return serve(ctx, ln, mood.NewBridgeHandler(synth, logger), a.cfg.Bridge.ShutdownTimeout, logger)
}

// serve runs an HTTP server on ln until ctx is done, then shuts it down
// gracefully within timeout.
func serve(ctx context.Context, ln net.Listener, h http.Handler, timeout time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("Bridge listening", zap.String("addr", ln.Addr().String()), zap.String("path", mood.StatePath))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down bridge: %w", err)
	}
	logger.Info("Bridge stopped")
	return nil
}
