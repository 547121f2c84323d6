package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhr613/Location-QA-Assistant/internal/amap"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := amap.NewClient("test-key", amap.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewCatalog(client)
}

func TestDistrictSearchCapability(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keywords"); got != "火锅" {
			t.Errorf("keywords = %q, want 火锅", got)
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","pois":[{"name":"小龙坎老火锅","location":"104.07,30.63"}]}`))
	})

	cap := catalog.DistrictSearch()
	result, err := cap.Invoke(context.Background(), json.RawMessage(`{"keywords":"火锅","city":"成都"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.Content, "小龙坎老火锅") {
		t.Errorf("result %q does not mention the place", result.Content)
	}
}

func TestPlaceDetailCapability(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "B001C8U4M5" {
			t.Errorf("id = %q", got)
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","pois":[{"name":"东郊记忆","address":"建设南支路4号","location":"104.10,30.67"}]}`))
	})

	result, err := catalog.PlaceDetail().Invoke(context.Background(), json.RawMessage(`{"id":"B001C8U4M5"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.Content, "东郊记忆") {
		t.Errorf("result = %q", result.Content)
	}
}

func TestRegeocodeCapability(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location"); got != "104.07,30.63" {
			t.Errorf("location = %q", got)
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","regeocode":{"formatted_address":"四川省成都市武侯区"}}`))
	})

	result, err := catalog.Regeocode().Invoke(context.Background(), json.RawMessage(`{"location":"104.07,30.63"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.Content, "武侯区") {
		t.Errorf("result = %q", result.Content)
	}
}

func TestGeocodeCapability_SetsPosition(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","infocode":"10000","geocodes":[{"formatted_address":"武侯区","location":"104.043284,30.641982"}]}`))
	})

	result, err := catalog.Geocode().Invoke(context.Background(), json.RawMessage(`{"address":"成都武侯区"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.Directive == nil || result.Directive.SetPosition != "104.043284,30.641982" {
		t.Errorf("directive = %+v, want position 104.043284,30.641982", result.Directive)
	}
}

func TestGeocodeCapability_NoResultsNoDirective(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","infocode":"10000","geocodes":[]}`))
	})

	result, err := catalog.Geocode().Invoke(context.Background(), json.RawMessage(`{"address":"不存在的地方"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.Directive != nil {
		t.Errorf("directive = %+v, want nil", result.Directive)
	}
}

func TestDistanceCapability_ParsesCoordinates(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("origins"); got != "104.07,30.63" {
			t.Errorf("origins = %q", got)
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","results":[{"origin_id":"1","dest_id":"1","distance":"1200"}]}`))
	})

	result, err := catalog.Distance().Invoke(context.Background(),
		json.RawMessage(`{"origins":["104.07,30.63"],"destination":"104.15,30.66"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.Content, "1200") {
		t.Errorf("result = %q", result.Content)
	}

	_, err = catalog.Distance().Invoke(context.Background(),
		json.RawMessage(`{"origins":["not-a-pair"],"destination":"104.15,30.66"}`))
	if err == nil {
		t.Error("Invoke() with malformed origin: error = nil, want error")
	}
}

func TestGuidingDeepthink_EchoesThought(t *testing.T) {
	result, err := GuidingDeepthink().Invoke(context.Background(),
		json.RawMessage(`{"thought":"先查坐标，再搜周边"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result.Content != "先查坐标，再搜周边" {
		t.Errorf("result = %q", result.Content)
	}
}

func TestWorkerCatalogs_FixedCapabilitySets(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","infocode":"10000"}`))
	})
	model := &fakeModel{}

	tests := []struct {
		name   string
		runner *Runner
		want   []string
	}{
		{"place", NewPlaceWorker(model, catalog), []string{"district_search", "around_search"}},
		{"route", NewRouteWorker(model, catalog), []string{"district_search", "driving_route"}},
		{"guide", NewTravelGuideWorker(model, catalog), []string{"guiding_deepthink", "district_search", "around_search"}},
	}
	for _, tt := range tests {
		got := tt.runner.cfg.Capabilities.Names()
		if len(got) != len(tt.want) {
			t.Errorf("%s worker capabilities = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s worker capability[%d] = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}
