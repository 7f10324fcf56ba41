package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/denmor86/here-weather/internal/config"
	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/network/router"
	"github.com/denmor86/here-weather/internal/services"
	"github.com/denmor86/here-weather/internal/worker"
	"github.com/denmor86/here-weather/pkg/client"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Run - запуск приложения в режиме из настроек до отмены ctx.
// Клиент HERE API закрывается на любом пути выхода.
func Run(ctx context.Context, cfg config.Config, out io.Writer) error {
	clientConfig := client.Config{
		APIKey:         cfg.Here.APIKey,
		RequestTimeout: cfg.Here.RequestTimeout,
		Logger:         logger.Named("here"),
	}
	return client.WithClient(clientConfig, func(c *client.Client) error {
		weather := services.NewWeather(c)
		switch cfg.Mode {
		case config.ModeServe:
			return Serve(ctx, cfg, weather)
		case config.ModeWatch:
			return Watch(ctx, cfg, weather)
		default:
			return Once(ctx, cfg, weather, out)
		}
	})
}

func weatherQuery(cfg config.Config) models.WeatherQuery {
	return models.WeatherQuery{
		Latitude:       cfg.Weather.Latitude,
		Longitude:      cfg.Weather.Longitude,
		Product:        cfg.Weather.Product,
		OneObservation: cfg.Weather.OneObservation,
		Metric:         cfg.Weather.Metric,
	}
}

// Once - один запрос погоды, отчёт печатается в out
func Once(ctx context.Context, cfg config.Config, weather services.WeatherService, out io.Writer) error {
	payload, err := weather.GetWeather(ctx, weatherQuery(cfg))
	if err != nil {
		return errors.Wrap(err, "weather request")
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(payload), "encode weather")
}

// Serve - HTTP шлюз к HERE API
func Serve(ctx context.Context, cfg config.Config, weather services.WeatherService) error {
	return serveRouter(ctx, cfg, router.NewRouter(cfg, weather))
}

// Watch - периодический опрос погоды до отмены ctx; последний отчёт отдаётся
// шлюзом по /api/weather/latest
func Watch(ctx context.Context, cfg config.Config, weather services.WeatherService) error {
	w := worker.NewWeatherWorker(weather, weatherQuery(cfg), cfg.Weather.WatchInterval)
	w.Start(ctx)
	logger.Infow("Watching weather",
		"product", cfg.Weather.Product.String(),
		"interval", cfg.Weather.WatchInterval,
	)
	defer func() {
		w.Stop()
		logger.Info("Watcher stopped")
	}()

	router := router.NewRouter(cfg, weather)
	router.Latest = w
	return serveRouter(ctx, cfg, router)
}

func serveRouter(ctx context.Context, cfg config.Config, rt *router.Router) error {
	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: rt.HandleRouter(),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infow("Starting gateway", "address", cfg.Server.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen gateway")
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Wrap(server.Shutdown(shutdownCtx), "shutdown gateway")
	})

	err := group.Wait()
	logger.Info("Gateway stopped")
	return err
}
