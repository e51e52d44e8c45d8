package landmark

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"ProjectTryOn/pkg/frame"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultServiceURL = "ws://localhost:8000/api/v1/landmarks/ws"

type Config struct {
	URL              string
	Options          Options
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	HandshakeTimeout time.Duration
}

type detectRequest struct {
	Image  string `json:"image"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Options
}

type detectResponse struct {
	Faces []Face `json:"faces"`
	Error string `json:"error,omitempty"`
}

type websocketOracle struct {
	cfg  Config
	log  *logrus.Logger
	conn *websocket.Conn

	// mu guards conn; callMu serializes whole request/response round trips so the
	// model only ever sees one frame at a time.
	mu     sync.Mutex
	callMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// NewWebsocketOracle returns an Oracle backed by an external landmark inference service.
// The first dial happens in the background; failed or dropped connections are redialed
// on the next Detect call.
func NewWebsocketOracle(cfg Config, logger *logrus.Logger) (Oracle, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultServiceURL
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid landmark options: %w", err)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := &websocketOracle{
		cfg:  cfg,
		log:  logger,
		done: make(chan struct{}),
	}

	go client.connectInBackground()

	return client, nil
}

func (c *websocketOracle) connectInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HandshakeTimeout)
	defer cancel()

	if err := c.reconnect(ctx); err != nil {
		c.log.WithFields(logrus.Fields{
			"url":   c.cfg.URL,
			"error": err.Error(),
		}).Warn("Initial connection to landmark service failed, will retry on demand")
		return
	}
	c.log.WithField("url", c.cfg.URL).Info("Connected to landmark service")
}

func (c *websocketOracle) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *websocketOracle) reconnect(ctx context.Context) error {
	select {
	case <-c.done:
		return fmt.Errorf("%w: client closed", ErrOracleUnavailable)
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.cfg.HandshakeTimeout

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.cfg.WriteTimeout))
		if err != nil {
			c.log.Debugf("Error sending pong to landmark service: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *websocketOracle) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.cfg.WriteTimeout))
		if err != nil {
			c.log.Warnf("Ping to landmark service failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *websocketOracle) getConnection(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn, nil
	}

	if err := c.reconnect(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("%w: connection dropped", ErrOracleUnavailable)
	}
	return c.conn, nil
}

func (c *websocketOracle) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

func (c *websocketOracle) deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

func (c *websocketOracle) Detect(ctx context.Context, f *frame.Frame) ([]Face, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil frame", frame.ErrDecodeFailed)
	}

	c.callMu.Lock()
	defer c.callMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := c.getConnection(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := f.Encode()
	if err != nil {
		return nil, err
	}

	request, err := json.Marshal(detectRequest{
		Image:   base64.StdEncoding.EncodeToString(payload),
		Format:  f.Format,
		Width:   f.Width,
		Height:  f.Height,
		Options: c.cfg.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding landmark request: %w", err)
	}

	conn.SetWriteDeadline(c.deadline(ctx, c.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, request); err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("%w: error sending frame: %v", ErrOracleUnavailable, err)
	}

	conn.SetReadDeadline(c.deadline(ctx, c.cfg.ReadTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("%w: error reading landmarks: %v", ErrOracleUnavailable, err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var response detectResponse
	if err := json.Unmarshal(message, &response); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrOracleFailure, err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrOracleFailure, response.Error)
	}

	faces := response.Faces
	if len(faces) > c.cfg.Options.MaxNumFaces {
		faces = faces[:c.cfg.Options.MaxNumFaces]
	}

	c.log.WithFields(logrus.Fields{
		"frame_bytes": len(payload),
		"faces":       len(faces),
	}).Debug("Received landmarks from landmark service")

	return faces, nil
}

func (c *websocketOracle) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}

	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.cfg.WriteTimeout),
	)
	err := c.conn.Close()
	c.conn = nil
	return err
}
