package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tel9980/KVideo/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve hosts the config API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	router := server.NewMux()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.NewConfigHandler(r.config.Server, r.logger))

	srv := server.New(r.config.Server, router)

	errs := make(chan error, 1)
	go func() {
		r.logger.Info("config API listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigs:
	case <-ctx.Done():
	}

	r.logger.Info("shutting down config API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
