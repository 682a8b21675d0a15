package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/gym-crm-cli/internal/config"
	"github.com/sandeepkv93/gym-crm-cli/internal/observability"
	"github.com/sandeepkv93/gym-crm-cli/internal/stubserver"
)

// newDevServerCommand runs the bundled backend so the client can be exercised
// without a real deployment.
func newDevServerCommand(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local gym CRM backend with seeded data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			runtime, err := observability.InitRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = runtime.Shutdown(ctx)
			}()

			if addr == "" {
				addr = cfg.Dev.Addr
			}
			srv := stubserver.New(stubserver.Options{
				AccessSecret:   cfg.Dev.AccessSecret,
				RefreshSecret:  cfg.Dev.RefreshSecret,
				AccessTTL:      cfg.Dev.AccessTTL,
				RefreshTTL:     cfg.Dev.RefreshTTL,
				Logger:         runtime.Logger,
				EnableOTelHTTP: cfg.OTEL.Enabled,
			})

			figure.NewFigure("gym crm", "", true).Print()
			fmt.Fprintf(cmd.OutOrStdout(), "\ndev backend listening on %s\n", addr)
			fmt.Fprintln(cmd.OutOrStdout(), "seeded logins: admin/admin123 manager/manager123 frontdesk/frontdesk123 trainer/trainer123 member/member123")

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.ListenAndServe() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			runtime.Logger.Info("shutting down dev backend")
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config)")
	return cmd
}
