package models

import "github.com/denmor86/here-weather/pkg/client"

// WeatherQuery - модель запроса погоды по координатам
type WeatherQuery struct {
	Latitude       float64
	Longitude      float64
	Product        client.ProductType
	OneObservation bool
	Metric         bool
}

// ProductResponse - модель описания типа отчёта для выдачи
type ProductResponse struct {
	Product string `json:"product"`
	RootKey string `json:"root_key"`
}

// ErrorResponse - модель ошибки шлюза для выдачи
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// Status - HTTP статус ответа HERE API, если он был получен
	Status int `json:"upstream_status,omitempty"`
}
