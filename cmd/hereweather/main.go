package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/denmor86/here-weather/internal/app"
	"github.com/denmor86/here-weather/internal/config"
	"github.com/denmor86/here-weather/internal/logger"
)

func main() {
	// загрузка конфига
	config := config.NewConfig()
	// инициализация логгера
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		panic(fmt.Sprintf("can't initialize logger: %s ", err.Error()))
	}
	// отмена по сигналу завершения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := app.Run(ctx, config, os.Stdout)
	stop()
	if err != nil {
		logger.Error("hereweather failed:", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
