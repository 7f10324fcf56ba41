package router

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/denmor86/here-weather/internal/config"
	"github.com/denmor86/here-weather/internal/logger"
	"github.com/denmor86/here-weather/internal/models"
	"github.com/denmor86/here-weather/internal/services"
	"github.com/denmor86/here-weather/internal/services/mocks"
	"github.com/denmor86/here-weather/pkg/client"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

func TestRouter_Weather(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockWeather := mocks.NewMockWeatherService(ctrl)

	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}
	defer logger.Sync()

	server := httptest.NewServer(NewRouter(config, mockWeather).HandleRouter())
	defer server.Close()

	testCases := []struct {
		TestName       string
		Query          string
		SetupMocks     func()
		ExpectedStatus int
		ExpectedBody   any
	}{
		{
			TestName: "Success. Defaults #1",
			Query:    "latitude=52.52&longitude=13.405",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), models.WeatherQuery{
					Latitude: 52.52, Longitude: 13.405, Product: client.ProductObservation, OneObservation: true, Metric: true,
				}).Return(map[string]any{"observations": map[string]any{"location": []any{}}}, nil)
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]any{"observations": map[string]any{"location": []any{}}},
		},
		{
			TestName: "Success. Explicit options #2",
			Query:    "latitude=1&longitude=2&product=alerts&metric=false&oneobservation=false",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), models.WeatherQuery{
					Latitude: 1, Longitude: 2, Product: client.ProductAlerts,
				}).Return(map[string]any{"alerts": []any{}}, nil)
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]any{"alerts": []any{}},
		},
		{
			TestName:       "Error. Missing latitude #3",
			Query:          "longitude=2",
			SetupMocks:     func() {},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   map[string]any{"kind": "invalid query", "message": "latitude must be a number"},
		},
		{
			TestName:       "Error. Unknown product #4",
			Query:          "latitude=1&longitude=2&product=tides",
			SetupMocks:     func() {},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   map[string]any{"kind": "invalid query", "message": `unknown product type "tides"`},
		},
		{
			TestName: "Error. Coordinates out of range #5",
			Query:    "latitude=100&longitude=2",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).Return(nil, services.ErrInvalidCoordinates)
			},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   map[string]any{"kind": "invalid query", "message": "invalid coordinates"},
		},
		{
			TestName: "Error. Provider rejected request #6",
			Query:    "latitude=1&longitude=2",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).
					Return(nil, &client.Error{Kind: client.KindInvalidRequest, Message: "bad latitude", Status: 400})
			},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   map[string]any{"kind": "invalid request", "message": "bad latitude", "upstream_status": 400.0},
		},
		{
			TestName: "Error. Unauthorized #7",
			Query:    "latitude=1&longitude=2",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).
					Return(nil, &client.Error{Kind: client.KindUnauthorized, Message: "bad key", Status: 401})
			},
			ExpectedStatus: http.StatusBadGateway,
			ExpectedBody:   map[string]any{"kind": "unauthorized", "message": "bad key", "upstream_status": 401.0},
		},
		{
			TestName: "Error. Timeout #8",
			Query:    "latitude=1&longitude=2",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).
					Return(nil, &client.Error{Kind: client.KindTimeout, Message: client.MessageTimeout})
			},
			ExpectedStatus: http.StatusGatewayTimeout,
			ExpectedBody:   map[string]any{"kind": "timeout", "message": client.MessageTimeout},
		},
		{
			TestName: "Error. Decode failure #9",
			Query:    "latitude=1&longitude=2",
			SetupMocks: func() {
				mockWeather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).
					Return(nil, &client.DecodeError{Status: 200, Err: errors.New("unexpected end")})
			},
			ExpectedStatus: http.StatusBadGateway,
			ExpectedBody:   map[string]any{"kind": "generic", "message": "here api decode response (status 200): unexpected end"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			tc.SetupMocks()

			resp, err := http.Get(server.URL + "/api/weather?" + tc.Query)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatus {
				t.Errorf("Expected status: '%v', got: '%v'", tc.ExpectedStatus, resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Expected JSON content type, got: '%s'", ct)
			}
			body, _ := io.ReadAll(resp.Body)
			var got any
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("Failed to decode body '%s': %v", body, err)
			}
			if diff := cmp.Diff(tc.ExpectedBody, got); diff != "" {
				t.Errorf("Unexpected body (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouter_Products(t *testing.T) {
	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}

	server := httptest.NewServer(NewRouter(config, nil).HandleRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/products")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var products []models.ProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(products) != len(client.ProductTypes()) {
		t.Fatalf("Expected %d products, got %d", len(client.ProductTypes()), len(products))
	}
	if products[0] != (models.ProductResponse{Product: "observation", RootKey: "observations"}) {
		t.Errorf("Unexpected first product: '%+v'", products[0])
	}
}

type latestWeather struct {
	payload map[string]any
}

func (l *latestWeather) Last() map[string]any {
	return l.payload
}

func TestRouter_LatestWeather(t *testing.T) {
	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}

	t.Run("Not registered without watcher", func(t *testing.T) {
		server := httptest.NewServer(NewRouter(config, nil).HandleRouter())
		defer server.Close()

		resp, err := http.Get(server.URL + "/api/weather/latest")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status: '%v', got: '%v'", http.StatusNotFound, resp.StatusCode)
		}
	})

	latest := &latestWeather{}
	router := NewRouter(config, nil)
	router.Latest = latest
	server := httptest.NewServer(router.HandleRouter())
	defer server.Close()

	t.Run("No report yet", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/weather/latest")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("Expected status: '%v', got: '%v'", http.StatusNoContent, resp.StatusCode)
		}
	})

	t.Run("Last report", func(t *testing.T) {
		latest.payload = map[string]any{"alerts": []any{}}
		resp, err := http.Get(server.URL + "/api/weather/latest")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status: '%v', got: '%v'", http.StatusOK, resp.StatusCode)
		}
		var got any
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if diff := cmp.Diff(any(map[string]any{"alerts": []any{}}), got); diff != "" {
			t.Errorf("Unexpected body (-want +got):\n%s", diff)
		}
	})
}
