package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/services"
	"github.com/sony/gobreaker"
)

func InitCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "here-weather-api",
		Timeout: 30 * time.Second, // через 30 сек пробуем подключиться
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 5 неудачных запросов подряд
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Infow("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// WeatherWorker - периодический опрос погоды для заданных координат
type WeatherWorker struct {
	Weather      services.WeatherService
	Breaker      *gobreaker.CircuitBreaker
	Query        models.WeatherQuery
	WaitGroup    sync.WaitGroup
	QuitChan     chan struct{}
	PollInterval time.Duration

	last atomic.Pointer[map[string]any]
}

// NewWeatherWorker - конструктор воркера опроса погоды
func NewWeatherWorker(weather services.WeatherService, query models.WeatherQuery, interval time.Duration) *WeatherWorker {
	return &WeatherWorker{
		Weather:      weather,
		Breaker:      InitCircuitBreaker(),
		Query:        query,
		QuitChan:     make(chan struct{}),
		PollInterval: interval,
	}
}

// Start - запускает воркер в фоне
func (w *WeatherWorker) Start(ctx context.Context) {
	w.WaitGroup.Add(1)
	go w.Run(ctx)
}

// Stop - корректно останавливает воркер
func (w *WeatherWorker) Stop() {
	close(w.QuitChan)
	w.WaitGroup.Wait()
}

// Run - основная рабочая логика, первый запрос выполняется сразу
func (w *WeatherWorker) Run(ctx context.Context) {
	defer w.WaitGroup.Done()

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	w.ProcessWeather(ctx)
	for {
		select {
		case <-w.QuitChan:
			logger.Info("WeatherWorker signal stop")
			return
		case <-ctx.Done():
			logger.Info("WeatherWorker context done")
			return
		case <-ticker.C:
			w.ProcessWeather(ctx)
		}
	}
}

// ProcessWeather - один запрос погоды через circuit breaker
func (w *WeatherWorker) ProcessWeather(ctx context.Context) {
	if w.Breaker.State() == gobreaker.StateOpen {
		logger.Warnw("HERE API unavailable. Waiting...", "breaker", w.Breaker.Name())
		return
	}

	result, err := w.Breaker.Execute(func() (interface{}, error) {
		return w.Weather.GetWeather(ctx, w.Query)
	})
	if err != nil {
		logger.Errorw("Error weather processing", "product", w.Query.Product.String(), "error", err)
		return
	}

	payload, _ := result.(map[string]any)
	w.last.Store(&payload)
	rootKey, _ := w.Query.Product.RootKey()
	logger.Infow("Weather updated",
		"product", w.Query.Product.String(),
		"latitude", w.Query.Latitude,
		"longitude", w.Query.Longitude,
		"root_key", rootKey,
	)
}

// Last - последний успешно полученный отчёт, nil если его ещё нет
func (w *WeatherWorker) Last() map[string]any {
	if p := w.last.Load(); p != nil {
		return *p
	}
	return nil
}
