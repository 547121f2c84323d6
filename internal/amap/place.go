package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const placeShowFields = "base,business,children,indoor,navi,photos"

// DistrictSearch searches points of interest by keyword within an
// administrative region. keywords may carry multiple terms separated by "|";
// city accepts a Chinese name, pinyin, citycode, or adcode.
func (c *Client) DistrictSearch(ctx context.Context, keywords, city string) ([]Place, error) {
	query := url.Values{}
	query.Set("keywords", keywords)
	query.Set("page_size", "10")
	query.Set("page_num", "1")
	query.Set("city_limit", "true")
	query.Set("show_fields", placeShowFields)
	if city != "" {
		query.Set("region", city)
	}

	var resp struct {
		apiStatus
		POIs json.RawMessage `json:"pois"`
	}
	if err := c.get(ctx, "/v5/place/text", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return flattenPOIs(resp.POIs), nil
}

// AroundSearch searches points of interest around a center coordinate given
// as "lng,lat". Results are sorted by distance within a 3km radius.
func (c *Client) AroundSearch(ctx context.Context, location, keywords, city string) ([]Place, error) {
	query := url.Values{}
	query.Set("location", location)
	query.Set("radius", "3000")
	query.Set("sortrule", "distance")
	query.Set("page_size", "10")
	query.Set("page_num", "1")
	query.Set("city_limit", "true")
	query.Set("show_fields", placeShowFields)
	if keywords != "" {
		query.Set("keywords", keywords)
	}
	if city != "" {
		query.Set("region", city)
	}

	var resp struct {
		apiStatus
		POIs json.RawMessage `json:"pois"`
	}
	if err := c.get(ctx, "/v5/place/around", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return flattenPOIs(resp.POIs), nil
}

// PolygonSearch searches points of interest inside a polygon given as
// "lng1,lat1|lng2,lat2|...". At least three vertices are required.
func (c *Client) PolygonSearch(ctx context.Context, polygon, keywords, city string) ([]Place, error) {
	if polygon == "" {
		return nil, fmt.Errorf("polygon is required")
	}
	query := url.Values{}
	query.Set("polygon", polygon)
	query.Set("page_size", "10")
	query.Set("page_num", "1")
	query.Set("show_fields", placeShowFields)
	if keywords != "" {
		query.Set("keywords", keywords)
	}
	if city != "" {
		query.Set("region", city)
	}

	var resp struct {
		apiStatus
		POIs json.RawMessage `json:"pois"`
	}
	if err := c.get(ctx, "/v5/place/polygon", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return flattenPOIs(resp.POIs), nil
}

// PlaceDetail fetches one point of interest by its POI ID.
func (c *Client) PlaceDetail(ctx context.Context, id string) (*Place, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("show_fields", placeShowFields)

	var resp struct {
		apiStatus
		POIs json.RawMessage `json:"pois"`
	}
	if err := c.get(ctx, "/v5/place/detail", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	places := flattenPOIs(resp.POIs)
	if len(places) == 0 {
		return nil, fmt.Errorf("amap place detail: no POI for id %s", id)
	}
	return &places[0], nil
}

func flattenPOIs(raw json.RawMessage) []Place {
	pois := decodePOIs(raw)
	places := make([]Place, 0, len(pois))
	for _, p := range pois {
		places = append(places, p.flatten())
	}
	return places
}
