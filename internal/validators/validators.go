package validators

import "math"

// CheckLatitude проверяет, что широта в диапазоне [-90, 90]
func CheckLatitude(latitude float64) bool {
	return isFinite(latitude) && latitude >= -90 && latitude <= 90
}

// CheckLongitude проверяет, что долгота в диапазоне [-180, 180]
func CheckLongitude(longitude float64) bool {
	return isFinite(longitude) && longitude >= -180 && longitude <= 180
}

// CheckCoordinates проверяет пару координат
func CheckCoordinates(latitude, longitude float64) bool {
	return CheckLatitude(latitude) && CheckLongitude(longitude)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
