package client

import (
	"net/http"
)

//go:generate mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks

// HTTPClient - HTTP сессия (пул соединений), через которую выполняются запросы
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type idleCloser interface {
	CloseIdleConnections()
}

// newOwnedSession - собственная сессия клиента со своим пулом соединений,
// чтобы её закрытие не затрагивало http.DefaultTransport
func newOwnedSession() HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{Transport: transport}
}

// session - возвращает внешнюю сессию или создаёт собственную при первом обращении.
// Собственная сессия создаётся не более одного раза, в том числе при конкурентных вызовах.
// Каждый успешный вызов должен завершаться release.
func (c *Client) session() (HTTPClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.external != nil {
		return c.external, nil
	}
	if c.closed {
		return nil, &Error{Kind: KindGeneric, Err: ErrClosed}
	}
	if c.owned == nil {
		c.owned = c.newSession()
		c.log.Debugw("here api session created")
	}
	c.inflight++
	return c.owned, nil
}

// release - завершение запроса по собственной сессии. Если клиент закрыт во время
// запроса, пул закрывается после возврата в него последнего соединения.
func (c *Client) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.external != nil {
		return
	}
	c.inflight--
	if c.inflight == 0 && c.draining != nil {
		closeSession(c.draining)
		c.draining = nil
		c.log.Debugw("here api session closed after in-flight requests")
	}
}

// Close - закрывает собственную сессию клиента. Для внешней сессии ничего не делает,
// повторный вызов тоже.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.external != nil || c.closed {
		return nil
	}
	c.closed = true
	if c.owned == nil {
		return nil
	}
	if c.inflight > 0 {
		// соединения активных запросов вернутся в пул позже, закроем их в release
		c.draining = c.owned
	} else {
		closeSession(c.owned)
		c.log.Debugw("here api session closed")
	}
	c.owned = nil
	return nil
}

func closeSession(session HTTPClient) {
	if closer, ok := session.(idleCloser); ok {
		closer.CloseIdleConnections()
	}
}

// WithClient - создаёт клиента на время выполнения fn и закрывает его на любом пути выхода
func WithClient(cfg Config, fn func(*Client) error) error {
	c := NewClient(cfg)
	defer c.Close()
	return fn(c)
}
