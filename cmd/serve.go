package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/highvoltag3/BamVoo/internal/adapters/httpapi"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var listen string
	var tracing bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the voice skill and printer-event webhook over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			skill, err := app.skill(cmd.Context())
			if err != nil {
				return err
			}
			forwarder, err := app.forwarder(cmd.Context())
			if err != nil {
				return err
			}

			serverCfg := httpapi.Config{
				ListenAddr:        app.cfg.Server.Listen,
				WebhookRateLimit:  app.cfg.Server.WebhookRateLimit,
				WebhookRateWindow: app.cfg.Server.WebhookRateWindow,
			}
			if cmd.Flags().Changed("listen") {
				serverCfg.ListenAddr = listen
			}
			if tracing || app.cfg.Server.Tracing {
				serverCfg.TracingService = "bamvoo"
			}

			server, err := httpapi.New(serverCfg, skill, forwarder)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, server)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen)")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Emit OpenTelemetry spans for HTTP requests")

	return cmd
}

type lifecycleServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runServer serves until ctx is cancelled or the server fails, then shuts it
// down within shutdownTimeout.
func runServer(ctx context.Context, server lifecycleServer) error {
	logger := xlog.WithComponent("serve")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Str(xlog.FieldEvent, "serve.stopping").Msg("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
