package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSClient handles the WebSocket connection to the data backend and
// routes raw messages to a handler. The connection and topic set are
// shared between the listener and instrument switches, so both are
// guarded by mu.
type WSClient struct {
	url     string
	handler func([]byte)
	logger  *zap.Logger

	mu   sync.Mutex
	args []string
	conn *websocket.Conn
}

// NewWSClient creates a new WebSocket client with the given URL and logger.
func NewWSClient(url string, logger *zap.Logger) *WSClient {
	return &WSClient{
		url:    url,
		logger: logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// LiquidationTopic builds the subscription topic for an instrument.
func LiquidationTopic(symbol string) string {
	return "liquidation." + symbol
}

// Connect establishes the WebSocket connection and subscribes to the
// given topics. It does not start the listener.
func (c *WSClient) Connect(topics []string) error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Error("failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}
	c.logger.Info("WebSocket connected", zap.String("url", c.url))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn

	// Keep topics for reconnects.
	c.args = topics

	return c.subscribe()
}

// Resubscribe replaces the active topic set, e.g. after the user
// switches instruments. Falls back to a full reconnect when the
// subscription write fails.
func (c *WSClient) Resubscribe(topics []string) error {
	c.mu.Lock()
	if c.conn == nil {
		c.args = topics
		c.mu.Unlock()
		return fmt.Errorf("not connected")
	}

	unsub := map[string]interface{}{
		"op":   "unsubscribe",
		"args": c.args,
	}
	if err := c.conn.WriteJSON(unsub); err != nil {
		c.args = topics
		c.mu.Unlock()
		return c.reconnectAndResubscribe()
	}

	c.args = topics
	err := c.subscribe()
	c.mu.Unlock()
	return err
}

// Close tears down the connection. A running listener exits through
// its context instead.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// subscribe sends the current topic set. Callers hold mu.
func (c *WSClient) subscribe() error {
	subMsg := map[string]interface{}{
		"op":   "subscribe",
		"args": c.args,
	}
	if err := c.conn.WriteJSON(subMsg); err != nil {
		c.logger.Error("failed to send subscription", zap.Error(err))
		return err
	}
	return nil
}

// Listen reads messages until the context is cancelled, reconnecting
// and resubscribing whenever the connection drops.
func (c *WSClient) Listen(ctx context.Context) {
	// Unblock the pending read when the context ends.
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("WebSocket read error", zap.Error(err))

			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(3 * time.Second):
				}
				if err := c.reconnectAndResubscribe(); err != nil {
					c.logger.Warn("retrying reconnect")
					continue
				}
				c.logger.Info("reconnected successfully")
				break
			}
			continue // start reading again on the new connection
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

func (c *WSClient) reconnectAndResubscribe() error {
	newConn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = newConn

	if err := c.subscribe(); err != nil {
		return fmt.Errorf("websocket subscribe failed: %w", err)
	}
	return nil
}
