package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/flank"
	"github.com/yumyai/pangtable/pkg/handler"
	"github.com/yumyai/pangtable/pkg/middle"
	"github.com/yumyai/pangtable/pkg/pipeline"
)

// ServeCmd serves the pangenome over HTTP.
func ServeCmd(s *settings) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve alignment jobs and spot layouts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = s.cfg.Addr
			}
			p, err := s.pangenome(cmd.Context())
			if err != nil {
				return err
			}
			app := &handler.AppContext{
				Pangenome: p,
				Runner:    pipeline.NewRunner(p, flank.Matcher{}, logger.ZapReporter{}),
				AlignJobs: handler.NewAlignJobManager(),
				IDTag:     s.cfg.IDTag,
				Workers:   s.cfg.Workers,
			}

			zl := logger.Logger()
			srv := &http.Server{
				Addr: addr,
				Handler: middle.Chain(handler.NewRouter(app),
					middle.RequestIDMiddleware(zl),
					middle.LoggingMiddleware(zl)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			logger.Info("Server starting", zap.String("addr", addr), zap.String("version", Version))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Error starting server", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $PANGTABLE_ADDR)")
	return cmd
}
