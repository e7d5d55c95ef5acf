package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/handler"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/service"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/server"
	"github.com/FACorreiaa/bank-statement-standardizer/pkg/config"
	"github.com/FACorreiaa/bank-statement-standardizer/pkg/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		return err
	}

	svc := service.New(profile.Builtin(), logger)
	h := handler.New(svc, store, service.Options{
		DateFormat:      cfg.Transform.DateFormat,
		IncludeMetadata: cfg.Transform.IncludeMetadata,
	}, cfg.Storage.MaxUploadBytes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, h, logger).Run(ctx)
}
