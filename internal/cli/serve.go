package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/lexico-users/internal/handler"
	"github.com/maxviazov/lexico-users/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the users API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, err := a.open(ctx, a.cfg, a.log, true)
			if err != nil {
				return err
			}
			defer b.Close()

			if a.cfg.App.Env == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}
			engine := handler.NewEngine(a.log, b.store, b.cache, service.NewRecordService(b.repo, a.log))

			srv := &http.Server{
				Addr:         ":" + strconv.Itoa(a.cfg.Server.Port),
				Handler:      engine,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", srv.Addr).Msg("users API listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 8000, "Listen port; defaults to server.port")
	return cmd
}
