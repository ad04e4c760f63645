package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gifcast/gifcast/internal/export"
)

type fakeProvider struct {
	stats export.Stats
	err   error
}

func (f *fakeProvider) Stats() export.Stats { return f.stats }
func (f *fakeProvider) Err() error          { return f.err }

func TestGetStats(t *testing.T) {
	provider := &fakeProvider{stats: export.Stats{Submitted: 7, Skipped: 2, Pending: 7, Saved: 6}}
	srv := httptest.NewServer(NewServer(provider).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Stats != provider.stats {
		t.Errorf("expected %+v, got %+v", provider.stats, got.Stats)
	}
	if got.Error != "" {
		t.Errorf("unexpected error field: %q", got.Error)
	}
}

func TestGetStatsSurfacesWorkerError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("write frame: disk full")}
	srv := httptest.NewServer(NewServer(provider).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Error == "" {
		t.Error("worker error not surfaced in stats response")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeProvider{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
