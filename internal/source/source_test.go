package source

import (
	"context"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func encodeJPEG(t *testing.T, w io.Writer) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(w, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
}

func TestMJPEGReadsFramesUntilEOF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())

		for i := 0; i < 3; i++ {
			part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"image/jpeg"}})
			if err != nil {
				return
			}
			encodeJPEG(t, part)
		}
		mw.Close()
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := NewMJPEG(ctx, srv.URL)
	if err != nil {
		t.Fatalf("NewMJPEG: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		img, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("frame %d has wrong size: %v", i, img.Bounds())
		}
	}

	if _, err := s.Next(ctx); err != io.EOF {
		t.Errorf("expected io.EOF at stream end, got %v", err)
	}
}

func TestMJPEGRejectsNonMultipartResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a stream</html>"))
	}))
	defer srv.Close()

	if _, err := NewMJPEG(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a non-multipart response")
	}
}

func TestMJPEGNextHonorsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
		part, _ := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"image/jpeg"}})
		encodeJPEG(t, part)
		mw.Close()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s, err := NewMJPEG(ctx, srv.URL)
	if err != nil {
		t.Fatalf("NewMJPEG: %v", err)
	}
	defer s.Close()

	cancel()
	if _, err := s.Next(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWebSocketReadsBinaryFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// A text message the source should skip
		conn.WriteMessage(websocket.TextMessage, []byte("hello"))

		for i := 0; i < 2; i++ {
			var buf strings.Builder
			encodeJPEG(t, &buf)
			conn.WriteMessage(websocket.BinaryMessage, []byte(buf.String()))
		}

		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

		// Give the client a moment to read the close frame
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	ctx := context.Background()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	s, err := NewWebSocket(ctx, url)
	if err != nil {
		t.Fatalf("NewWebSocket: %v", err)
	}
	defer s.Close()

	for i := 0; i < 2; i++ {
		img, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("frame %d has wrong size: %v", i, img.Bounds())
		}
	}

	if _, err := s.Next(ctx); err != io.EOF {
		t.Errorf("expected io.EOF on normal close, got %v", err)
	}
}

func TestKindsAreStable(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 3 {
		t.Fatalf("expected 3 source kinds, got %v", kinds)
	}
}
