package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/denmor86/here-weather/pkg/client"
	"github.com/spf13/pflag"
)

// Режимы работы приложения
const (
	ModeOnce  = "once"
	ModeServe = "serve"
	ModeWatch = "watch"
)

type Arguments struct {
	Mode           string        `env:"MODE" envDefault:"once"`
	APIKey         string        `env:"HERE_API_KEY" envDefault:""`
	RequestTimeout time.Duration `env:"HERE_REQUEST_TIMEOUT" envDefault:"10s"`
	ListenAddr     string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Latitude       float64       `env:"WEATHER_LATITUDE" envDefault:"0"`
	Longitude      float64       `env:"WEATHER_LONGITUDE" envDefault:"0"`
	Product        string        `env:"WEATHER_PRODUCT" envDefault:"observation"`
	Metric         bool          `env:"WEATHER_METRIC" envDefault:"true"`
	OneObservation bool          `env:"WEATHER_ONE_OBSERVATION" envDefault:"true"`
	WatchInterval  time.Duration `env:"WATCH_INTERVAL" envDefault:"5m"`
}

// HereConfig модель настроек клиента HERE API
type HereConfig struct {
	APIKey         string
	RequestTimeout time.Duration
}

// ServerConfig модель настроек HTTP шлюза
type ServerConfig struct {
	ListenAddr string
	LogLevel   string
}

// WeatherConfig модель настроек запроса погоды для режимов once и watch
type WeatherConfig struct {
	Latitude       float64
	Longitude      float64
	Product        client.ProductType
	Metric         bool
	OneObservation bool
	WatchInterval  time.Duration
}

// Config модель настроек сервиса
type Config struct {
	Mode    string
	Here    HereConfig
	Server  ServerConfig
	Weather WeatherConfig
}

// NewConfig - загрузка настроек из окружения и флагов командной строки
func NewConfig() Config {
	config, err := ParseArgs(os.Args[0], os.Args[1:])
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %s", err.Error()))
	}
	return config
}

// ParseArgs - переменные окружения задают значения по умолчанию, флаги их переопределяют
func ParseArgs(name string, arguments []string) (Config, error) {
	var args Arguments
	if err := env.Parse(&args); err != nil {
		return Config{}, fmt.Errorf("failed to parse enviroment var: %w", err)
	}

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	var (
		mode      = flags.StringP("mode", "m", args.Mode, "Run mode: once, serve or watch.")
		apiKey    = flags.StringP("api_key", "k", args.APIKey, "HERE API key.")
		timeout   = flags.DurationP("timeout", "t", args.RequestTimeout, "HERE API request timeout.")
		server    = flags.StringP("server", "a", args.ListenAddr, "Gateway listen address in a form host:port.")
		logLevel  = flags.StringP("log_level", "l", args.LogLevel, "Log level.")
		latitude  = flags.Float64P("latitude", "y", args.Latitude, "Latitude for once and watch modes.")
		longitude = flags.Float64P("longitude", "x", args.Longitude, "Longitude for once and watch modes.")
		product   = flags.StringP("product", "p", args.Product, "Weather product type.")
		metric    = flags.Bool("metric", args.Metric, "Use the metric system.")
		one       = flags.Bool("one_observation", args.OneObservation, "Limit the result to the best mapped weather station.")
		interval  = flags.DurationP("interval", "i", args.WatchInterval, "Poll interval for watch mode.")
	)
	if err := flags.Parse(arguments); err != nil {
		return Config{}, err
	}

	productType, err := client.ParseProductType(*product)
	if err != nil {
		return Config{}, err
	}

	config := Config{
		Mode: *mode,
		Here: HereConfig{
			APIKey:         *apiKey,
			RequestTimeout: *timeout,
		},
		Server: ServerConfig{
			ListenAddr: *server,
			LogLevel:   *logLevel,
		},
		Weather: WeatherConfig{
			Latitude:       *latitude,
			Longitude:      *longitude,
			Product:        productType,
			Metric:         *metric,
			OneObservation: *one,
			WatchInterval:  *interval,
		},
	}
	return config, config.Validate()
}

// Validate - проверка согласованности настроек
func (c Config) Validate() error {
	switch c.Mode {
	case ModeOnce, ModeServe, ModeWatch:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Here.APIKey == "" {
		return fmt.Errorf("HERE API key is not set")
	}
	if c.Mode == ModeWatch && c.Weather.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.Weather.WatchInterval)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Mode: ModeOnce,
		Here: HereConfig{
			RequestTimeout: client.DefaultRequestTimeout,
		},
		Server: ServerConfig{
			ListenAddr: "localhost:8080",
			LogLevel:   "info",
		},
		Weather: WeatherConfig{
			Product:        client.ProductObservation,
			Metric:         true,
			OneObservation: true,
			WatchInterval:  5 * time.Minute,
		},
	}
}
