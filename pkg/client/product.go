package client

import "fmt"

// ProductType - тип погодного отчёта, запрашиваемого у HERE API
type ProductType string

const (
	ProductObservation         ProductType = "observation"
	ProductForecast7Days       ProductType = "forecast_7days"
	ProductForecast7DaysSimple ProductType = "forecast_7days_simple"
	ProductForecastHourly      ProductType = "forecast_hourly"
	ProductForecastAstronomy   ProductType = "forecast_astronomy"
	ProductAlerts              ProductType = "alerts"
	ProductNWSAlerts           ProductType = "nws_alerts"
)

// ProductTypes - все поддерживаемые типы отчётов
func ProductTypes() []ProductType {
	return []ProductType{
		ProductObservation,
		ProductForecast7Days,
		ProductForecast7DaysSimple,
		ProductForecastHourly,
		ProductForecastAstronomy,
		ProductAlerts,
		ProductNWSAlerts,
	}
}

func (p ProductType) String() string {
	return string(p)
}

// RootKey - корневой ключ JSON ответа, под которым API возвращает данные отчёта.
// Второе значение false для неизвестного типа.
func (p ProductType) RootKey() (string, bool) {
	switch p {
	case ProductObservation:
		return "observations", true
	case ProductForecast7Days:
		return "forecasts", true
	case ProductForecast7DaysSimple:
		return "dailyForecasts", true
	case ProductForecastHourly:
		return "hourlyForecasts", true
	case ProductForecastAstronomy:
		return "astronomy", true
	case ProductAlerts:
		return "alerts", true
	case ProductNWSAlerts:
		return "nwsAlerts", true
	}
	return "", false
}

// Valid - проверка, что тип отчёта входит в перечисление
func (p ProductType) Valid() bool {
	_, ok := p.RootKey()
	return ok
}

// ParseProductType - разбор типа отчёта из строки (флаги, параметры запроса)
func ParseProductType(value string) (ProductType, error) {
	p := ProductType(value)
	if !p.Valid() {
		return "", fmt.Errorf("unknown product type %q", value)
	}
	return p, nil
}
