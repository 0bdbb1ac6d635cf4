package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tillpoint/pos-terminal/internal/display"
	"github.com/tillpoint/pos-terminal/pkg/config"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/redis"
)

// The customer display is a thin subscriber: it holds no state of its own
// and renders whatever full-cart snapshot the register last published.
func main() {
	logg := logger.New(logger.Options{ServiceName: "customer-display"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "customer-display",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	listener, err := display.NewListener(redisClient, redisClient, cfg.Display.Channel, cfg.Display.SyncChannel, logg)
	if err != nil {
		logg.Error(ctx, "failed to create display listener", err)
		os.Exit(1)
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"channel": cfg.Display.Channel,
		"store":   cfg.Terminal.StoreName,
	})
	logg.Info(startCtx, "customer display connected")

	err = listener.Run(ctx, func(msg display.Message) {
		render(cfg.Terminal.StoreName, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(startCtx, "display listener stopped", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "customer display stopped")
}

func render(storeName string, msg display.Message) {
	var b strings.Builder

	// ANSI clear keeps the kiosk screen showing only the current cart.
	b.WriteString("\033[2J\033[H")
	b.WriteString(storeName + "\n")
	b.WriteString(strings.Repeat("=", 48) + "\n")

	if len(msg.Items) == 0 {
		b.WriteString("\n  Welcome!\n")
	}
	for _, item := range msg.Items {
		b.WriteString(fmt.Sprintf("%-30s %2d x %8s\n", item.Name, item.Quantity, item.UnitPrice))
		b.WriteString(fmt.Sprintf("%48s\n", item.LineTotal))
	}

	b.WriteString(strings.Repeat("-", 48) + "\n")
	b.WriteString(fmt.Sprintf("%-30s %17s\n", "Subtotal", msg.Subtotal))
	b.WriteString(fmt.Sprintf("%-30s %17s\n", "SST (6%)", msg.SSTTax))
	b.WriteString(fmt.Sprintf("%-30s %17s\n", "TOTAL", msg.GrandTotal))

	fmt.Print(b.String())
}
