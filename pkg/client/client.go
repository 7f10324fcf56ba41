package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	APIURL                = "https://weather.cc.api.here.com/weather/1.0/report.json"
	DefaultRequestTimeout = 10 * time.Second
)

// Config - настройки клиента, неизменны на всё время его жизни
type Config struct {
	APIKey string
	// RequestTimeout - ограничение на один запрос, <= 0 означает DefaultRequestTimeout
	RequestTimeout time.Duration
	// Session - внешняя сессия, клиент никогда её не закрывает.
	// nil - клиент создаст собственную при первом запросе.
	Session HTTPClient
	Logger  *zap.SugaredLogger
}

// RequestOptions - параметры одного запроса к API
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Data    []byte
	JSON    any
	Params  map[string]string
}

// Client - клиент HERE Destination Weather API
type Client struct {
	apiKey     string
	timeout    time.Duration
	endpoint   string
	log        *zap.SugaredLogger
	external   HTTPClient
	newSession func() HTTPClient

	mu       sync.Mutex
	owned    HTTPClient
	draining HTTPClient
	inflight int
	closed   bool
}

// NewClient - конструктор клиента, ввод-вывод не выполняет
func NewClient(cfg Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		endpoint:   APIURL,
		log:        log,
		external:   cfg.Session,
		newSession: newOwnedSession,
	}
}

// Request - выполняет запрос к API и разбирает ответ.
// Возвращает nil для 204, декодированный JSON для JSON ответа,
// map с ключом "message" для прочих ответов.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (any, error) {
	session, err := c.session()
	if err != nil {
		return nil, err
	}
	defer c.release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, opts)
	if err != nil {
		return nil, &Error{Kind: KindGeneric, Message: "failed to build request", Err: err}
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := session.Do(req)
	if err != nil {
		c.log.Debugw("here api request failed",
			"request_id", requestID,
			"method", req.Method,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	c.log.Debugw("here api response",
		"request_id", requestID,
		"method", req.Method,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return handleResponse(ctx, resp)
}

func (c *Client) newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	contentType := ""
	switch {
	case opts.JSON != nil:
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	case opts.Data != nil:
		body = bytes.NewReader(opts.Data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, err
	}

	if len(opts.Params) > 0 {
		query := url.Values{}
		for key, value := range opts.Params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("DNT", "1")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// заголовки вызывающего имеют приоритет
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

func handleResponse(ctx context.Context, resp *http.Response) (any, error) {
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode >= 400 && resp.StatusCode < 600 {
		// тело читается целиком, чтобы соединение вернулось в пул
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError(ctx, err)
		}
		if contentType == "application/json" {
			var payload map[string]any
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, &DecodeError{Status: resp.StatusCode, Err: err}
			}
			apiErr := MapError(payload)
			apiErr.Status = resp.StatusCode
			return nil, apiErr
		}
		return nil, &Error{Kind: KindGeneric, Status: resp.StatusCode, Message: string(body)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if strings.Contains(contentType, "application/json") {
		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, &DecodeError{Status: resp.StatusCode, Err: err}
		}
		return payload, nil
	}
	return map[string]any{"message": string(body)}, nil
}

// transportError - ошибка, когда ответ от API не получен полностью
func transportError(ctx context.Context, err error) *Error {
	if isTimeout(ctx, err) {
		return &Error{Kind: KindTimeout, Message: MessageTimeout, Err: err}
	}
	return &Error{Kind: KindGeneric, Message: MessageTransport, Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// WeatherForCoordinates - запрашивает отчёт product для заданных координат.
// Ответ возвращается без изменений, если в нём есть корневой ключ отчёта,
// иначе тело разбирается как ошибка провайдера.
func (c *Client) WeatherForCoordinates(ctx context.Context, latitude, longitude float64, product ProductType, oneObservation, metric bool) (map[string]any, error) {
	rootKey, ok := product.RootKey()
	if !ok {
		return nil, &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf("unknown product type %q", product)}
	}
	lat, err := formatCoordinate(latitude)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "latitude: " + err.Error()}
	}
	lon, err := formatCoordinate(longitude)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "longitude: " + err.Error()}
	}

	params := map[string]string{
		"apiKey":         c.apiKey,
		"product":        product.String(),
		"oneobservation": strconv.FormatBool(oneObservation),
		"metric":         strconv.FormatBool(metric),
		"latitude":       lat,
		"longitude":      lon,
	}
	body, err := c.Request(ctx, RequestOptions{Params: params})
	if err != nil {
		return nil, err
	}

	payload, _ := body.(map[string]any)
	if payload[rootKey] != nil {
		return payload, nil
	}
	return nil, MapError(payload)
}

// formatCoordinate - кратчайшая десятичная запись координаты
func formatCoordinate(value float64) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("not a finite number: %v", value)
	}
	return decimal.NewFromFloat(value).String(), nil
}
