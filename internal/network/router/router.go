package router

import (
	"github.com/denmor86/here-weather/internal/config"
	"github.com/denmor86/here-weather/internal/network/handlers"
	"github.com/denmor86/here-weather/internal/network/middleware"
	"github.com/denmor86/here-weather/internal/services"
	"github.com/go-chi/chi/v5"
)

type Router struct {
	Config  config.Config
	Weather services.WeatherService
	// Latest - последний отчёт воркера, маршрут /api/weather/latest только в режиме watch
	Latest handlers.LatestWeather
}

func NewRouter(config config.Config, weather services.WeatherService) *Router {
	return &Router{
		Config:  config,
		Weather: weather,
	}
}

func (router *Router) HandleRouter() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LogHandle)
		r.Get("/weather", handlers.WeatherHandler(router.Weather))
		r.Get("/products", handlers.ProductsHandler())
		if router.Latest != nil {
			r.Get("/weather/latest", handlers.LatestWeatherHandler(router.Latest))
		}
	})
	return r
}
