package amap

import (
	"context"
	"net/http"
	"testing"
)

const poiFixture = `{
	"status": "1",
	"infocode": "10000",
	"pois": [
		{
			"id": "B0FFG7VQ5P",
			"name": "小龙坎老火锅",
			"address": "武侯区人民南路四段",
			"cityname": "成都市",
			"adname": "武侯区",
			"location": "104.071216,30.631612",
			"distance": "850",
			"business": {
				"tel": "028-85558888",
				"cost": "98.00",
				"rating": "4.7",
				"tag": "火锅,川菜",
				"business_area": "桐梓林"
			},
			"photos": [{"url": "https://img.example/1.jpg"}]
		},
		{
			"name": "无名小店",
			"address": [],
			"location": "garbled",
			"business": {"cost": "not-a-number"}
		}
	]
}`

func TestDistrictSearch_FlattensPOIs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/place/text" {
			t.Errorf("request path = %q, want /v5/place/text", r.URL.Path)
		}
		if got := r.URL.Query().Get("region"); got != "成都" {
			t.Errorf("region = %q, want 成都", got)
		}
		w.Write([]byte(poiFixture))
	})

	places, err := c.DistrictSearch(context.Background(), "火锅", "成都")
	if err != nil {
		t.Fatalf("DistrictSearch() error = %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("places length = %d, want 2", len(places))
	}

	first := places[0]
	if first.Name != "小龙坎老火锅" {
		t.Errorf("name = %q, want 小龙坎老火锅", first.Name)
	}
	if first.Location == nil || first.Location.Longitude != 104.071216 {
		t.Errorf("location = %+v, want longitude 104.071216", first.Location)
	}
	if first.CostPerPerson != 98.0 {
		t.Errorf("cost = %v, want 98.0", first.CostPerPerson)
	}
	if first.Rating != 4.7 {
		t.Errorf("rating = %v, want 4.7", first.Rating)
	}
	if first.DistanceMeters != 850 {
		t.Errorf("distance = %d, want 850", first.DistanceMeters)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "火锅" {
		t.Errorf("tags = %v, want [火锅 川菜]", first.Tags)
	}
	if first.PhotoURL != "https://img.example/1.jpg" {
		t.Errorf("photo = %q", first.PhotoURL)
	}
}

func TestDistrictSearch_MalformedFieldsDropped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(poiFixture))
	})

	places, err := c.DistrictSearch(context.Background(), "火锅", "")
	if err != nil {
		t.Fatalf("DistrictSearch() error = %v", err)
	}

	// Second POI has a garbled location, array address, and non-numeric
	// cost; the record survives with those fields zeroed.
	second := places[1]
	if second.Name != "无名小店" {
		t.Errorf("name = %q, want 无名小店", second.Name)
	}
	if second.Location != nil {
		t.Errorf("garbled location = %+v, want nil", second.Location)
	}
	if second.Address != "" {
		t.Errorf("array address = %q, want empty", second.Address)
	}
	if second.CostPerPerson != 0 {
		t.Errorf("non-numeric cost = %v, want 0", second.CostPerPerson)
	}
}

func TestAroundSearch_SetsRadiusAndSort(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/place/around" {
			t.Errorf("request path = %q, want /v5/place/around", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("radius") != "3000" || q.Get("sortrule") != "distance" {
			t.Errorf("radius/sortrule = %q/%q, want 3000/distance", q.Get("radius"), q.Get("sortrule"))
		}
		if q.Get("location") != "104.07,30.63" {
			t.Errorf("location = %q", q.Get("location"))
		}
		w.Write([]byte(`{"status":"1","infocode":"10000","pois":[]}`))
	})

	if _, err := c.AroundSearch(context.Background(), "104.07,30.63", "美食", ""); err != nil {
		t.Fatalf("AroundSearch() error = %v", err)
	}
}

func TestDecodePOIs_WrapperObject(t *testing.T) {
	raw := []byte(`{"poi": [{"name": "one"}, {"name": "two"}]}`)
	pois := decodePOIs(raw)
	if len(pois) != 2 {
		t.Fatalf("decodePOIs wrapper length = %d, want 2", len(pois))
	}

	single := decodePOIs([]byte(`{"name": "solo"}`))
	if len(single) != 1 || single[0].Name != "solo" {
		t.Errorf("decodePOIs single = %+v, want one entry named solo", single)
	}
}
