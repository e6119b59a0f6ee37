package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/eduales99/bancor-protocol-contracts/internal/config"
	"github.com/eduales99/bancor-protocol-contracts/internal/eth"
	"github.com/eduales99/bancor-protocol-contracts/internal/handler"
	"github.com/eduales99/bancor-protocol-contracts/internal/logging"
	"github.com/eduales99/bancor-protocol-contracts/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ethereumClient, err := eth.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}

	convertService := service.NewConvertService(logger, *ethereumClient)
	convertHandler := handler.NewConvertHandler(logger, convertService)
	app.Get("/purchase", convertHandler.HandlePurchase())
	app.Get("/sale", convertHandler.HandleSale())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			ethereumClient.Close()
			return fmt.Errorf("server error: %w", err)
		}
		ethereumClient.Close()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.Shutdown()

	ethereumClient.Close()

	<-shutdownCtx.Done()
	return nil
}
