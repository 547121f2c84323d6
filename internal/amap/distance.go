package amap

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Distance computes straight-line distances from up to 100 origins to one
// destination. Coordinates are [lng, lat] pairs.
func (c *Client) Distance(ctx context.Context, origins [][2]float64, destination [2]float64) ([]DistanceResult, error) {
	if len(origins) == 0 {
		return nil, fmt.Errorf("origins must not be empty")
	}
	if len(origins) > 100 {
		return nil, fmt.Errorf("origins must not exceed 100 entries, got %d", len(origins))
	}

	pairs := make([]string, len(origins))
	for i, o := range origins {
		pairs[i] = fmt.Sprintf("%g,%g", o[0], o[1])
	}

	query := url.Values{}
	query.Set("origins", strings.Join(pairs, "|"))
	query.Set("destination", fmt.Sprintf("%g,%g", destination[0], destination[1]))
	query.Set("type", "1")

	var resp struct {
		apiStatus
		Results []struct {
			OriginID flexString `json:"origin_id"`
			DestID   flexString `json:"dest_id"`
			Distance flexString `json:"distance"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/v3/distance", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	results := make([]DistanceResult, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = DistanceResult{
			OriginID: r.OriginID.String(),
			DestID:   r.DestID.String(),
			Distance: r.Distance.String(),
		}
	}
	return results, nil
}
