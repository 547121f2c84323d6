package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

type routeResponse struct {
	apiStatus
	Route struct {
		Paths []struct {
			Distance flexString `json:"distance"`
			Cost     struct {
				Duration flexString `json:"duration"`
			} `json:"cost"`
			Steps []struct {
				Instruction  flexString `json:"instruction"`
				Orientation  flexString `json:"orientation"`
				RoadName     flexString `json:"road_name"`
				StepDistance flexString `json:"step_distance"`
			} `json:"steps"`
		} `json:"paths"`
	} `json:"route"`
}

func (r *routeResponse) firstPath(kind string) (*RoutePath, error) {
	if len(r.Route.Paths) == 0 {
		return nil, fmt.Errorf("amap %s route: no path returned", kind)
	}
	p := r.Route.Paths[0]
	path := &RoutePath{
		DistanceMeters:  p.Distance.String(),
		DurationSeconds: p.Cost.Duration.String(),
	}
	for _, s := range p.Steps {
		path.Steps = append(path.Steps, RouteStep{
			Instruction:  s.Instruction.String(),
			Orientation:  s.Orientation.String(),
			RoadName:     s.RoadName.String(),
			StepDistance: s.StepDistance.String(),
		})
	}
	return path, nil
}

// DrivingRoute plans a driving route between "lng,lat" endpoints and returns
// the recommended path. POI IDs, when known, improve accuracy.
func (c *Client) DrivingRoute(ctx context.Context, origin, destination, originID, destinationID string) (*RoutePath, error) {
	query := url.Values{}
	query.Set("origin", origin)
	query.Set("destination", destination)
	query.Set("strategy", "32")
	query.Set("show_fields", "cost")
	if originID != "" {
		query.Set("origin_id", originID)
	}
	if destinationID != "" {
		query.Set("destination_id", destinationID)
	}

	var resp routeResponse
	if err := c.get(ctx, "/v5/direction/driving", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return resp.firstPath("driving")
}

// WalkingRoute plans a walking route between "lng,lat" endpoints and returns
// the recommended path.
func (c *Client) WalkingRoute(ctx context.Context, origin, destination, originID, destinationID string) (*RoutePath, error) {
	query := url.Values{}
	query.Set("origin", origin)
	query.Set("destination", destination)
	query.Set("show_fields", "cost")
	if originID != "" {
		query.Set("origin_id", originID)
	}
	if destinationID != "" {
		query.Set("destination_id", destinationID)
	}

	var resp routeResponse
	if err := c.get(ctx, "/v5/direction/walking", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return resp.firstPath("walking")
}

// TransitRoute plans an integrated public-transit route. The transit payload
// mixes buses, rail, and walking segments; it is returned raw.
func (c *Client) TransitRoute(ctx context.Context, origin, destination, cityOrigin, cityDestination string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("origin", origin)
	query.Set("destination", destination)
	if cityOrigin != "" {
		query.Set("city1", cityOrigin)
	}
	if cityDestination != "" {
		query.Set("city2", cityDestination)
	}

	var resp struct {
		apiStatus
		Route json.RawMessage `json:"route"`
	}
	if err := c.get(ctx, "/v5/direction/transit/integrated", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	return resp.Route, nil
}
