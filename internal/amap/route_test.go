package amap

import (
	"context"
	"net/http"
	"testing"
)

const routeFixture = `{
	"status": "1", "infocode": "10000",
	"route": {
		"origin": "113.620685,34.749012",
		"destination": "113.620645,34.74348",
		"paths": [
			{
				"distance": "604",
				"cost": {"duration": "483"},
				"steps": [
					{"instruction": "沿工人路向南步行604米到达目的地", "orientation": "南", "road_name": "工人路", "step_distance": "604"}
				]
			},
			{"distance": "900", "cost": {"duration": "700"}}
		]
	}
}`

func TestDrivingRoute_ReturnsFirstPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/direction/driving" {
			t.Errorf("request path = %q, want /v5/direction/driving", r.URL.Path)
		}
		if got := r.URL.Query().Get("strategy"); got != "32" {
			t.Errorf("strategy = %q, want 32", got)
		}
		w.Write([]byte(routeFixture))
	})

	path, err := c.DrivingRoute(context.Background(), "113.620685,34.749012", "113.620645,34.74348", "", "")
	if err != nil {
		t.Fatalf("DrivingRoute() error = %v", err)
	}
	if path.DistanceMeters != "604" {
		t.Errorf("distance = %q, want 604", path.DistanceMeters)
	}
	if path.DurationSeconds != "483" {
		t.Errorf("duration = %q, want 483", path.DurationSeconds)
	}
	if len(path.Steps) != 1 || path.Steps[0].RoadName != "工人路" {
		t.Errorf("steps = %+v", path.Steps)
	}
}

func TestDrivingRoute_NoPathErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","infocode":"10000","route":{"paths":[]}}`))
	})

	if _, err := c.DrivingRoute(context.Background(), "1,1", "2,2", "", ""); err == nil {
		t.Error("DrivingRoute() with empty paths: error = nil, want error")
	}
}

func TestWalkingRoute_PassesPOIIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("origin_id") != "B0JK2CU2RR" || q.Get("destination_id") != "B01730IHYA" {
			t.Errorf("poi ids = %q/%q", q.Get("origin_id"), q.Get("destination_id"))
		}
		w.Write([]byte(routeFixture))
	})

	if _, err := c.WalkingRoute(context.Background(), "1,1", "2,2", "B0JK2CU2RR", "B01730IHYA"); err != nil {
		t.Fatalf("WalkingRoute() error = %v", err)
	}
}

func TestDistance_BuildsOriginString(t *testing.T) {
	var gotOrigins, gotType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotOrigins = r.URL.Query().Get("origins")
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{"status":"1","infocode":"10000","results":[{"origin_id":"1","dest_id":"1","distance":"620"}]}`))
	})

	results, err := c.Distance(context.Background(),
		[][2]float64{{113.620685, 34.749012}, {113.620645, 34.74348}},
		[2]float64{113.620645, 34.74348})
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if gotOrigins != "113.620685,34.749012|113.620645,34.74348" {
		t.Errorf("origins = %q", gotOrigins)
	}
	if gotType != "1" {
		t.Errorf("type = %q, want 1 (straight-line)", gotType)
	}
	if len(results) != 1 || results[0].Distance != "620" {
		t.Errorf("results = %+v", results)
	}
}

func TestDistance_Validation(t *testing.T) {
	c, _ := NewClient("k")

	if _, err := c.Distance(context.Background(), nil, [2]float64{1, 1}); err == nil {
		t.Error("Distance() with no origins: error = nil, want error")
	}

	many := make([][2]float64, 101)
	if _, err := c.Distance(context.Background(), many, [2]float64{1, 1}); err == nil {
		t.Error("Distance() with 101 origins: error = nil, want error")
	}
}

func TestWeather_LiveAndForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("extensions") == "all" {
			w.Write([]byte(`{"status":"1","infocode":"10000","forecasts":[{"casts":[{"date":"2024-05-01","dayweather":"晴"}]}]}`))
			return
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","lives":[{"city":"成都市","weather":"小雨","temperature":"18"}]}`))
	})

	live, err := c.Weather(context.Background(), "510100", false)
	if err != nil {
		t.Fatalf("Weather(live) error = %v", err)
	}
	if len(live.Lives) != 1 || live.Lives[0].Weather != "小雨" {
		t.Errorf("live = %+v", live.Lives)
	}

	forecast, err := c.Weather(context.Background(), "510100", true)
	if err != nil {
		t.Fatalf("Weather(forecast) error = %v", err)
	}
	if len(forecast.Forecasts) != 1 || forecast.Forecasts[0].DayWeather != "晴" {
		t.Errorf("forecast = %+v", forecast.Forecasts)
	}
}
