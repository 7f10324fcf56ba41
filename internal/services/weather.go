package services

import (
	"context"
	"errors"

	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/validators"
	"github.com/denmor86/here-weather/pkg/client"
)

//go:generate mockgen -source=weather.go -destination=mocks/mock_weather.go -package=mocks

// WeatherProvider - источник погодных отчётов (клиент HERE API)
type WeatherProvider interface {
	WeatherForCoordinates(ctx context.Context, latitude, longitude float64, product client.ProductType, oneObservation, metric bool) (map[string]any, error)
}

// WeatherService - сервис получения погоды для шлюза и воркера
type WeatherService interface {
	GetWeather(ctx context.Context, query models.WeatherQuery) (map[string]any, error)
}

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Weather struct {
	Provider WeatherProvider
}

// Создание сервиса
func NewWeather(provider WeatherProvider) *Weather {
	return &Weather{Provider: provider}
}

// GetWeather - проверяет координаты и запрашивает отчёт у провайдера
func (s *Weather) GetWeather(ctx context.Context, query models.WeatherQuery) (map[string]any, error) {
	if !validators.CheckCoordinates(query.Latitude, query.Longitude) {
		logger.Warnw("Invalid coordinates", "latitude", query.Latitude, "longitude", query.Longitude)
		return nil, ErrInvalidCoordinates
	}

	payload, err := s.Provider.WeatherForCoordinates(ctx, query.Latitude, query.Longitude, query.Product, query.OneObservation, query.Metric)
	if err != nil {
		kind, _ := client.KindOf(err)
		logger.Warnw("Weather request failed",
			"product", query.Product.String(),
			"kind", kind.String(),
			"error", err,
		)
		return nil, err
	}
	return payload, nil
}
