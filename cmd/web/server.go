package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 5 * time.Second

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests before returning.
func (app *application) serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(),
		IdleTimeout:       time.Minute,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server",
		slog.String("addr", listener.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("server serve: %w", serveErr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("shutdown server: %w", shutdownErr)
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
