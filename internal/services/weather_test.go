package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/denmor86/here-weather/internal/config"
	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/services/mocks"
	"github.com/denmor86/here-weather/pkg/client"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

func TestWeatherService_GetWeather(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockProvider := mocks.NewMockWeatherProvider(ctrl)

	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}
	defer logger.Sync()

	weather := NewWeather(mockProvider)

	testCases := []struct {
		TestName       string
		Query          models.WeatherQuery
		SetupMocks     func()
		ExpectedResult map[string]any
		ExpectedError  error
	}{
		{
			TestName: "Success. Observation #1",
			Query:    models.WeatherQuery{Latitude: 52.52, Longitude: 13.405, Product: client.ProductObservation, OneObservation: true, Metric: true},
			SetupMocks: func() {
				mockProvider.EXPECT().WeatherForCoordinates(gomock.Any(), 52.52, 13.405, client.ProductObservation, true, true).
					Return(map[string]any{"observations": map[string]any{}}, nil)
			},
			ExpectedResult: map[string]any{"observations": map[string]any{}},
		},
		{
			TestName:      "Error. Latitude out of range #2",
			Query:         models.WeatherQuery{Latitude: 91, Longitude: 0, Product: client.ProductAlerts},
			SetupMocks:    func() {},
			ExpectedError: ErrInvalidCoordinates,
		},
		{
			TestName:      "Error. Longitude is NaN #3",
			Query:         models.WeatherQuery{Latitude: 0, Longitude: math.NaN(), Product: client.ProductAlerts},
			SetupMocks:    func() {},
			ExpectedError: ErrInvalidCoordinates,
		},
		{
			TestName: "Error. Unauthorized #4",
			Query:    models.WeatherQuery{Latitude: 1, Longitude: 2, Product: client.ProductForecast7Days},
			SetupMocks: func() {
				mockProvider.EXPECT().WeatherForCoordinates(gomock.Any(), 1.0, 2.0, client.ProductForecast7Days, false, false).
					Return(nil, &client.Error{Kind: client.KindUnauthorized, Message: "bad key", Status: 401})
			},
			ExpectedError: client.ErrUnauthorized,
		},
		{
			TestName: "Error. Timeout #5",
			Query:    models.WeatherQuery{Latitude: 1, Longitude: 2, Product: client.ProductNWSAlerts},
			SetupMocks: func() {
				mockProvider.EXPECT().WeatherForCoordinates(gomock.Any(), 1.0, 2.0, client.ProductNWSAlerts, false, false).
					Return(nil, &client.Error{Kind: client.KindTimeout, Message: client.MessageTimeout})
			},
			ExpectedError: client.ErrTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			tc.SetupMocks()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			result, err := weather.GetWeather(ctx, tc.Query)

			if tc.ExpectedError != nil {
				if !errors.Is(err, tc.ExpectedError) {
					t.Errorf("Expected error: '%v', got: '%v'", tc.ExpectedError, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error, got: '%v'", err)
			}
			if diff := cmp.Diff(tc.ExpectedResult, result); diff != "" {
				t.Errorf("Unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}
