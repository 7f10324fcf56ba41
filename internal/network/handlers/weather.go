package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/services"
	"github.com/denmor86/here-weather/pkg/client"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// WeatherHandler — получение погодного отчёта по координатам
func WeatherHandler(s services.WeatherService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query, err := parseWeatherQuery(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid weather query:", zap.Error(err))
			writeError(w, http.StatusBadRequest, models.ErrorResponse{Kind: "invalid query", Message: err.Error()})
			return
		}

		payload, err := s.GetWeather(r.Context(), query)
		if err != nil {
			status, response := errorResponse(err)
			if status >= http.StatusInternalServerError {
				logger.Error("Failed to get weather:", zap.Error(err))
			}
			writeError(w, status, response)
			return
		}

		writeJSON(w, http.StatusOK, payload)
	})
}

// LatestWeather - источник последнего отчёта, полученного в режиме watch
type LatestWeather interface {
	Last() map[string]any
}

// LatestWeatherHandler — последний отчёт воркера опроса, 204 пока его нет
func LatestWeatherHandler(l LatestWeather) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := l.Last()
		if payload == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	})
}

// ProductsHandler — список поддерживаемых типов отчётов
func ProductsHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var response []models.ProductResponse
		for _, p := range client.ProductTypes() {
			rootKey, _ := p.RootKey()
			response = append(response, models.ProductResponse{Product: p.String(), RootKey: rootKey})
		}
		writeJSON(w, http.StatusOK, response)
	})
}

func parseWeatherQuery(values url.Values) (models.WeatherQuery, error) {
	query := models.WeatherQuery{
		Product:        client.ProductObservation,
		OneObservation: true,
		Metric:         true,
	}

	latitude, err := strconv.ParseFloat(values.Get("latitude"), 64)
	if err != nil {
		return query, errors.New("latitude must be a number")
	}
	longitude, err := strconv.ParseFloat(values.Get("longitude"), 64)
	if err != nil {
		return query, errors.New("longitude must be a number")
	}
	query.Latitude = latitude
	query.Longitude = longitude

	if value := values.Get("product"); value != "" {
		if query.Product, err = client.ParseProductType(value); err != nil {
			return query, err
		}
	}
	if value := values.Get("oneobservation"); value != "" {
		if query.OneObservation, err = strconv.ParseBool(value); err != nil {
			return query, errors.New("oneobservation must be a boolean")
		}
	}
	if value := values.Get("metric"); value != "" {
		if query.Metric, err = strconv.ParseBool(value); err != nil {
			return query, errors.New("metric must be a boolean")
		}
	}
	return query, nil
}

// errorResponse - статус шлюза по виду ошибки HERE API
func errorResponse(err error) (int, models.ErrorResponse) {
	if errors.Is(err, services.ErrInvalidCoordinates) {
		return http.StatusBadRequest, models.ErrorResponse{Kind: "invalid query", Message: err.Error()}
	}

	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		return http.StatusBadGateway, models.ErrorResponse{Kind: client.KindGeneric.String(), Message: err.Error()}
	}

	response := models.ErrorResponse{Kind: apiErr.Kind.String(), Message: apiErr.Message, Status: apiErr.Status}
	switch apiErr.Kind {
	case client.KindInvalidRequest:
		return http.StatusBadRequest, response
	case client.KindTimeout:
		return http.StatusGatewayTimeout, response
	case client.KindUnauthorized, client.KindGeneric:
		return http.StatusBadGateway, response
	}
	return http.StatusBadGateway, response
}

func writeError(w http.ResponseWriter, status int, response models.ErrorResponse) {
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logger.Error("Failed to encode JSON response:", zap.Error(err))
	}
}
