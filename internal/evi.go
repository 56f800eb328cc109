package internal

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultChatURL is the EVI chat websocket endpoint.
const DefaultChatURL = "wss://api.hume.ai/v0/evi/chat"

// EVIDialer dials the Hume EVI chat websocket.
type EVIDialer struct {
	// URL overrides the chat endpoint, primarily for tests.
	URL string
}

// Dial opens an EVI session scoped to cfg.ConfigID.
func (d *EVIDialer) Dial(ctx context.Context, cfg *Config) (Channel, error) {
	endpoint := d.URL
	if endpoint == "" {
		endpoint = DefaultChatURL
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &ChannelError{Op: "dial", Err: err}
	}
	q := u.Query()
	q.Set("config_id", cfg.ConfigID)
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("X-Hume-Api-Key", cfg.APIKey)

	dialer := websocket.Dialer{
		HandshakeTimeout: 30 * time.Second,
	}
	if cfg.SSLCertFile != "" {
		tlsConfig, err := tlsConfigFromCertFile(cfg.SSLCertFile)
		if err != nil {
			return nil, &ChannelError{Op: "dial", Err: err}
		}
		dialer.TLSClientConfig = tlsConfig
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		if resp != nil {
			return nil, &ChannelError{Op: "dial", Err: fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)}
		}
		return nil, &ChannelError{Op: "dial", Err: err}
	}

	ch := &eviChannel{
		conn:    conn,
		events:  make(chan Event, 100),
		closeCh: make(chan struct{}),
	}
	go ch.readLoop()
	return ch, nil
}

// tlsConfigFromCertFile builds a TLS config trusting only the PEM
// certificates in path. Mirrors the SSL_CERT_FILE override of the
// original environment.
func tlsConfigFromCertFile(path string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cert file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return &tls.Config{RootCAs: pool}, nil
}

// eviChannel is a websocket-backed Channel. A background read loop feeds
// the buffered events channel; writes are serialized by a mutex.
type eviChannel struct {
	conn    *websocket.Conn
	events  chan Event
	closeCh chan struct{}

	closeOnce sync.Once
	writeMu   sync.Mutex

	mu         sync.Mutex
	closeClass CloseClass
	closeErr   error
}

// eviMessage is the wire shape of inbound EVI events.
type eviMessage struct {
	Type    string `json:"type"`
	Data    string `json:"data,omitempty"`
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message,omitempty"`
}

func (c *eviChannel) Events() <-chan Event {
	return c.events
}

// SendAudio transmits a raw audio frame as a base64 audio_input event.
func (c *eviChannel) SendAudio(frame []byte) error {
	payload := map[string]interface{}{
		"type":      "audio_input",
		"custom_id": "evt_" + uuid.NewString()[:12],
		"data":      base64.StdEncoding.EncodeToString(frame),
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.closeCh:
		return &ChannelError{Op: "send", Err: errors.New("channel closed")}
	default:
	}
	if err := c.conn.WriteJSON(payload); err != nil {
		return &ChannelError{Op: "send", Err: err}
	}
	return nil
}

// Close tears down the websocket, attempting a close handshake first.
func (c *eviChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *eviChannel) CloseInfo() (CloseClass, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeClass, c.closeErr
}

func (c *eviChannel) setCloseInfo(class CloseClass, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeClass = class
	c.closeErr = err
}

// readLoop reads events from the websocket until the connection ends, then
// records the close classification and closes the event stream.
func (c *eviChannel) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.setCloseInfo(classifyCloseError(err, c.closed()))
			return
		}

		event, perr := parseEVIMessage(data)
		if perr != nil {
			LogWarn("Failed to parse channel event: %v", perr)
			continue
		}

		select {
		case <-c.closeCh:
			return
		case c.events <- event:
		}
	}
}

func (c *eviChannel) closed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

// classifyCloseError maps a websocket read error to a close class. An
// explicit close code takes priority; only a closure with no close frame at
// all counts as the remote session-duration timeout.
func classifyCloseError(err error, locallyClosed bool) (CloseClass, error) {
	if locallyClosed {
		return CloseNormal, nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			return CloseNormal, nil
		case websocket.CloseAbnormalClosure:
			// 1006: the peer vanished without a handshake. EVI enforces a
			// maximum chat duration and ends sessions exactly this way.
			return CloseTimeout, err
		default:
			return CloseFailure, &ChannelError{Op: "read", Err: err}
		}
	}

	// A bare EOF is the same no-close-frame pattern reported at the
	// transport layer.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return CloseTimeout, err
	}

	return CloseFailure, &ChannelError{Op: "read", Err: err}
}

// parseEVIMessage decodes one inbound wire message into an Event.
func parseEVIMessage(data []byte) (Event, error) {
	var msg eviMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Event{}, fmt.Errorf("parse error: %w", err)
	}

	switch msg.Type {
	case "audio_output":
		audio, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			return Event{}, fmt.Errorf("decode audio: %w", err)
		}
		return Event{Kind: EventAudioOutput, Audio: audio}, nil
	case "user_interruption":
		return Event{Kind: EventUserInterruption}, nil
	case "user_message":
		return Event{Kind: EventUserMessage, Text: msg.messageContent()}, nil
	case "assistant_message":
		return Event{Kind: EventAssistantMessage, Text: msg.messageContent()}, nil
	default:
		return Event{Kind: EventOther, RawKind: msg.Type}, nil
	}
}

func (m *eviMessage) messageContent() string {
	if m.Message != nil {
		return m.Message.Content
	}
	return ""
}
