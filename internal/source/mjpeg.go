package source

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gifcast/gifcast/internal/logger"
)

// MJPEG consumes a multipart/x-mixed-replace JPEG stream over HTTP, the
// format MJPEG webcams and streaming servers publish.
type MJPEG struct {
	url    string
	resp   *http.Response
	reader *multipart.Reader
}

// NewMJPEG connects to an MJPEG stream endpoint and parses the multipart
// boundary from the response headers.
func NewMJPEG(ctx context.Context, url string) (*MJPEG, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bad stream url: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return nil, fmt.Errorf("not an MJPEG stream (content-type %q)", resp.Header.Get("Content-Type"))
	}
	boundary := params["boundary"]
	if boundary == "" {
		resp.Body.Close()
		return nil, fmt.Errorf("stream content-type missing multipart boundary")
	}

	logger.WithComponent("mjpeg-source").Info().
		Str("url", url).
		Str("boundary", boundary).
		Msg("Connected to MJPEG stream")

	return &MJPEG{
		url:    url,
		resp:   resp,
		reader: multipart.NewReader(resp.Body, boundary),
	}, nil
}

// Next reads and decodes the next JPEG part of the stream.
func (s *MJPEG) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	part, err := s.reader.NextPart()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stream part: %w", err)
	}
	defer part.Close()

	img, err := jpeg.Decode(part)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// Close closes the HTTP response body
func (s *MJPEG) Close() error {
	return s.resp.Body.Close()
}

// Name returns the source name
func (s *MJPEG) Name() string {
	return "MJPEG HTTP stream"
}
