package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/gorilla/websocket"

	"github.com/gifcast/gifcast/internal/logger"
)

// WebSocket receives frames as binary JPEG messages over a WebSocket
// connection, for producers that push frames instead of serving a stream.
type WebSocket struct {
	conn *websocket.Conn
}

// NewWebSocket dials the frame producer.
func NewWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial frame producer: %w", err)
	}

	logger.WithComponent("ws-source").Info().
		Str("url", url).
		Msg("Connected to WebSocket frame producer")

	return &WebSocket{conn: conn}, nil
}

// Next reads the next binary message and decodes it as JPEG. Text messages
// are skipped; a normal close ends the stream with io.EOF.
func (s *WebSocket) Next(ctx context.Context) (image.Image, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgType, data, err := s.conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read frame message: %w", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}
		return img, nil
	}
}

// Close closes the WebSocket connection
func (s *WebSocket) Close() error {
	return s.conn.Close()
}

// Name returns the source name
func (s *WebSocket) Name() string {
	return "WebSocket frame stream"
}
