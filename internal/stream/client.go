// Package stream delivers live transfer actions over WebSocket.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/fetcher"
)

// Config configures WebSocket client behavior.
type Config struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultConfig returns default WebSocket configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Client subscribes to transfer action streams for a fixed set of DEX
// contract accounts and delivers them as raw transfer events.
type Client struct {
	endpoint string
	config   Config
	accounts []string

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan domain.RawTransferEvent

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup

	// reconnecting indicates reconnection in progress
	reconnecting atomic.Bool
}

// NewClient connects to the endpoint and subscribes to transfer actions for
// every given account.
func NewClient(ctx context.Context, endpoint string, accounts []string, config *Config) (*Client, error) {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	c := &Client{
		endpoint: endpoint,
		config:   cfg,
		accounts: accounts,
		// Buffer absorbs bursts; the send blocks rather than drop events.
		events: make(chan domain.RawTransferEvent, 1024),
		done:   make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	if err := c.subscribeAll(); err != nil {
		c.conn.Close()
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// Events returns the channel of live transfer events. It is closed on Close.
func (c *Client) Events() <-chan domain.RawTransferEvent {
	return c.events
}

// connect establishes the WebSocket connection.
func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// subscribeAll sends one subscribe request per configured account.
func (c *Client) subscribeAll() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	for _, account := range c.accounts {
		req := wsSubscribeRequest{
			Event:   "subscribe",
			Type:    "action",
			Account: account,
			Filter:  "transfer",
		}
		c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
		if err := c.conn.WriteJSON(req); err != nil {
			return fmt.Errorf("write subscribe for %s: %w", account, err)
		}
	}
	return nil
}

// Close closes the WebSocket connection and the events channel.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.events)
	return nil
}

// readLoop reads messages from WebSocket and dispatches transfer events.
func (c *Client) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			// Connection error - attempt reconnect with exponential backoff
			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = c.config.ReconnectDelay

		c.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (c *Client) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	// Resubscribe; on failure the next read error triggers another cycle.
	_ = c.subscribeAll()
}

// handleMessage processes an incoming WebSocket message. Only transfer
// action messages for subscribed accounts become events; everything else
// (acks, pings, unknown types) is ignored.
func (c *Client) handleMessage(message []byte) {
	var msg wsActionMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	if msg.Event != "action" {
		return
	}

	ts, ok := fetcher.ParseTimestamp(msg.Timestamp)
	if !ok {
		return
	}

	event := domain.RawTransferEvent{
		Source:    msg.Account,
		TxID:      msg.TrxID,
		BlockNum:  msg.BlockNum,
		Sender:    msg.Data.From,
		Recipient: msg.Data.To,
		Quantity:  msg.Data.Quantity,
		Memo:      msg.Data.Memo,
		Timestamp: ts,
	}

	// Block until we can send - never drop events
	select {
	case c.events <- event:
	case <-c.done:
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				// Reader handles reconnect if the connection is dead.
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

// WebSocket message types

type wsSubscribeRequest struct {
	Event   string `json:"event"`
	Type    string `json:"type"`
	Account string `json:"account"`
	Filter  string `json:"filter,omitempty"`
}

type wsActionMessage struct {
	Event     string         `json:"event"`
	Account   string         `json:"account"`
	TrxID     string         `json:"trx_id"`
	BlockNum  int64          `json:"block_num"`
	Timestamp string         `json:"timestamp"`
	Data      wsTransferData `json:"data"`
}

type wsTransferData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}
