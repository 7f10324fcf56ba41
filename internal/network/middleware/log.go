package middleware

import (
	"net/http"
	"time"

	"github.com/denmor86/here-weather/internal/logger"
)

type (
	// берём структуру для хранения сведений об ответе
	ResponseData struct {
		status int
		size   int
	}

	// добавляем реализацию http.ResponseWriter
	LoggingResponseWriter struct {
		http.ResponseWriter // встраиваем оригинальный http.ResponseWriter
		responseData        *ResponseData
	}
)

func (r *LoggingResponseWriter) Write(b []byte) (int, error) {
	// записываем ответ, используя оригинальный http.ResponseWriter
	if r.responseData.status == 0 {
		// обработчик не вызывал WriteHeader, net/http отдаст 200
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size // захватываем размер
	return size, err
}

func (r *LoggingResponseWriter) WriteHeader(statusCode int) {
	if r.responseData.status != 0 {
		return
	}
	// записываем код статуса, используя оригинальный http.ResponseWriter
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode // захватываем код статуса
}

// LogHandle — middleware-логер для входящих запросов шлюза.
func LogHandle(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()

		responseData := &ResponseData{
			status: 0,
			size:   0,
		}
		lw := LoggingResponseWriter{
			ResponseWriter: w, // встраиваем оригинальный http.ResponseWriter
			responseData:   responseData,
		}

		h.ServeHTTP(&lw, r)

		duration := time.Since(start)

		logger.Infow("Gateway request",
			"uri", r.RequestURI,
			"method", r.Method,
			"remote", r.RemoteAddr,
			"status", responseData.status,
			"duration", duration,
			"size", responseData.size,
		)
	})
}
