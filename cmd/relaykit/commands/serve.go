package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/pkg/runner"
	"github.com/relaykit/relaykit/pkg/server"
	"github.com/relaykit/relaykit/pkg/sink"
	"github.com/relaykit/relaykit/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()

		reg, rules, err := buildToolkit()
		if err != nil {
			return err
		}
		pl, err := buildPipeline(ctx, reg, rules, settings, slog.Default())
		if err != nil {
			return err
		}

		history := sink.NewMemory()
		hub := server.NewHub()
		events := sink.Fanout(history, hub, sink.NewSlog(slog.Default()))

		run := runner.New(reg, pl.resolver, events,
			runner.WithPhraser(pl.phraser),
		)

		// Credential updates rebuild the pipeline and swap it in
		// without a restart; the swap lands on the next run.
		rewire := func(ctx context.Context) (server.Mode, error) {
			pl, err := buildPipeline(ctx, reg, rules, settings, slog.Default())
			if err != nil {
				return server.Mode{}, err
			}
			run.SetResolver(pl.resolver)
			run.SetPhraser(pl.phraser)
			return pl.mode, nil
		}

		srv := server.New(run, reg, settings, history, hub, rewire, pl.mode, web.FS)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(serveAddr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
