package amap

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// Geocode converts a structured address ("province city district street...")
// into coordinates. Multiple addresses may be separated by "|" with
// batch=true (at most 10). Entries whose location cannot be parsed are
// skipped.
func (c *Client) Geocode(ctx context.Context, address, city string, batch bool) ([]GeoPoint, error) {
	query := url.Values{}
	query.Set("address", address)
	if batch {
		query.Set("batch", "true")
	} else {
		query.Set("batch", "false")
	}
	if city != "" {
		query.Set("city", city)
	}

	var resp struct {
		apiStatus
		Geocodes []struct {
			Location         flexString `json:"location"`
			FormattedAddress flexString `json:"formatted_address"`
		} `json:"geocodes"`
	}
	if err := c.get(ctx, "/v3/geocode/geo", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	points := make([]GeoPoint, 0, len(resp.Geocodes))
	for _, g := range resp.Geocodes {
		parts := strings.Split(g.Location.String(), ",")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		points = append(points, GeoPoint{
			Name:      g.FormattedAddress.String(),
			Longitude: parts[0],
			Latitude:  parts[1],
		})
	}
	return points, nil
}

// Regeocode converts an "lng,lat" coordinate into a structured address.
// poitype optionally filters the nearby POIs returned alongside. The raw
// regeocode payload is returned untouched; its shape varies too much across
// extensions to flatten usefully.
func (c *Client) Regeocode(ctx context.Context, location, poitype string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("location", location)
	query.Set("radius", "1000")
	query.Set("roadlevel", "1")
	query.Set("homeorcorp", "0")
	if strings.Contains(location, "|") {
		query.Set("batch", "true")
	} else {
		query.Set("batch", "false")
	}
	if poitype != "" {
		query.Set("poitype", poitype)
		query.Set("extensions", "all")
	} else {
		query.Set("extensions", "base")
	}

	var resp struct {
		apiStatus
		Regeocode  json.RawMessage `json:"regeocode"`
		Regeocodes json.RawMessage `json:"regeocodes"`
	}
	if err := c.get(ctx, "/v3/geocode/regeo", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	if len(resp.Regeocodes) > 0 {
		return resp.Regeocodes, nil
	}
	return resp.Regeocode, nil
}
