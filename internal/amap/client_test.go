package amap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(""); err != ErrMissingKey {
		t.Errorf("NewClient(\"\") error = %v, want ErrMissingKey", err)
	}
}

func TestClient_SendsKeyAndOutput(t *testing.T) {
	var gotKey, gotOutput string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotOutput = r.URL.Query().Get("output")
		w.Write([]byte(`{"status":"1","infocode":"10000","pois":[]}`))
	})

	if _, err := c.DistrictSearch(context.Background(), "hotpot", "成都"); err != nil {
		t.Fatalf("DistrictSearch() error = %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("request key = %q, want %q", gotKey, "test-key")
	}
	if gotOutput != "json" {
		t.Errorf("request output = %q, want %q", gotOutput, "json")
	}
}

func TestClient_AbnormalStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"0","info":"INVALID_USER_KEY","infocode":"10001"}`))
	})

	if _, err := c.DistrictSearch(context.Background(), "hotpot", ""); err == nil {
		t.Error("DistrictSearch() with abnormal status: error = nil, want error")
	}
}

func TestClient_HTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	if _, err := c.Geocode(context.Background(), "成都武侯区", "", false); err == nil {
		t.Error("Geocode() with 502: error = nil, want error")
	}
}
