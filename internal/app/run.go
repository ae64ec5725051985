package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"climate-server/internal/config"
	db "climate-server/internal/db"
	httpapi "climate-server/internal/httpapi"
	climate "climate-server/internal/modules/climate"
	climateviews "climate-server/internal/modules/climate/views"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbReadOnly", cfg.ReadOnly,
		"dbLogSQL", cfg.LogSQL,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
	)
	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.VerifySchema(ctx, dbConn); err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}
	slog.Info("database schema verified")

	if err := climateviews.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(dbConn)
	climate.RegisterFeature(mux, dbConn)

	srv := httpapi.NewServer(cfg, mux)
	return serve(ctx, srv, cfg)
}

func serve(ctx context.Context, srv *http.Server, cfg config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
