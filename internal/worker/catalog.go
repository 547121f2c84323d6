package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/amap"
	"github.com/dhr613/Location-QA-Assistant/internal/capability"
)

// Catalog builds the map-lookup capabilities workers draw from. Each worker
// kind is handed a fixed subset; no worker sees capabilities outside its
// declared set.
type Catalog struct {
	amap *amap.Client
}

// NewCatalog wraps an Amap client as a capability source.
func NewCatalog(client *amap.Client) *Catalog {
	return &Catalog{amap: client}
}

func jsonResult(v interface{}) (capability.Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return capability.Result{}, fmt.Errorf("encode result: %w", err)
	}
	return capability.Result{Content: string(data)}, nil
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

// DistrictSearch searches points of interest by keyword within a city or
// district.
func (c *Catalog) DistrictSearch() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "district_search",
		Description: "在指定城市或区县内按关键词搜索地点，返回名称、地址、坐标、评分、人均消费等信息。",
		Properties: map[string]interface{}{
			"keywords": stringProp("搜索关键词，多个用 | 分隔，例如 火锅|串串"),
			"city":     stringProp("城市名、拼音或 adcode，例如 成都"),
		},
		Required: []string{"keywords"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Keywords string `json:"keywords"`
			City     string `json:"city"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		places, err := c.amap.DistrictSearch(ctx, args.Keywords, args.City)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(places)
	})
}

// AroundSearch searches points of interest near a coordinate, sorted by
// distance.
func (c *Catalog) AroundSearch() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "around_search",
		Description: "以某个坐标为中心搜索周边 3 公里内的地点，按距离排序。",
		Properties: map[string]interface{}{
			"location": stringProp("中心点坐标，格式 经度,纬度，例如 104.071216,30.631612"),
			"keywords": stringProp("搜索关键词，可选"),
			"city":     stringProp("城市名，可选"),
		},
		Required: []string{"location"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Location string `json:"location"`
			Keywords string `json:"keywords"`
			City     string `json:"city"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		places, err := c.amap.AroundSearch(ctx, args.Location, args.Keywords, args.City)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(places)
	})
}

// PolygonSearch searches points of interest inside a polygon.
func (c *Catalog) PolygonSearch() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "polygon_search",
		Description: "在一个多边形区域内按关键词搜索地点。",
		Properties: map[string]interface{}{
			"polygon":  stringProp("多边形顶点坐标，格式 经度,纬度|经度,纬度|...，首尾相同则闭合"),
			"keywords": stringProp("搜索关键词，可选"),
			"city":     stringProp("城市名，可选"),
		},
		Required: []string{"polygon"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Polygon  string `json:"polygon"`
			Keywords string `json:"keywords"`
			City     string `json:"city"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		places, err := c.amap.PolygonSearch(ctx, args.Polygon, args.Keywords, args.City)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(places)
	})
}

// PlaceDetail fetches one point of interest by its ID.
func (c *Catalog) PlaceDetail() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "place_detail",
		Description: "按 POI ID 查询地点详情，包括地址、坐标、评分和营业信息。",
		Properties: map[string]interface{}{
			"id": stringProp("地点的 POI ID，来自搜索结果"),
		},
		Required: []string{"id"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		place, err := c.amap.PlaceDetail(ctx, args.ID)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(place)
	})
}

// Geocode resolves an address to coordinates. The first resolved point is
// recorded as the thread's current position so downstream stages can refer
// to it.
func (c *Catalog) Geocode() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "geocode",
		Description: "将结构化地址解析为经纬度坐标。地址越完整解析越准确。",
		Properties: map[string]interface{}{
			"address": stringProp("结构化地址，例如 四川省成都市武侯区人民南路四段"),
			"city":    stringProp("所在城市，可选"),
		},
		Required: []string{"address"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Address string `json:"address"`
			City    string `json:"city"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		points, err := c.amap.Geocode(ctx, args.Address, args.City, false)
		if err != nil {
			return capability.Result{}, err
		}
		result, err := jsonResult(points)
		if err != nil {
			return capability.Result{}, err
		}
		if len(points) > 0 && points[0].Longitude != "" {
			result.Directive = &capability.Directive{
				SetPosition: points[0].Longitude + "," + points[0].Latitude,
			}
		}
		return result, nil
	})
}

// Regeocode resolves a coordinate back to a structured address.
func (c *Catalog) Regeocode() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "regeocode",
		Description: "将经纬度坐标反解析为结构化地址。",
		Properties: map[string]interface{}{
			"location": stringProp("坐标，格式 经度,纬度"),
			"poitype":  stringProp("返回附近 POI 的类型过滤，可选"),
		},
		Required: []string{"location"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Location string `json:"location"`
			POIType  string `json:"poitype"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		raw, err := c.amap.Regeocode(ctx, args.Location, args.POIType)
		if err != nil {
			return capability.Result{}, err
		}
		return capability.Result{Content: string(raw)}, nil
	})
}

// DrivingRoute plans a driving route between two coordinates.
func (c *Catalog) DrivingRoute() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "driving_route",
		Description: "规划两个坐标之间的驾车路线，返回距离、耗时和逐步导航指引。",
		Properties: map[string]interface{}{
			"origin":         stringProp("起点坐标，格式 经度,纬度"),
			"destination":    stringProp("终点坐标，格式 经度,纬度"),
			"origin_id":      stringProp("起点 POI ID，可选，可提高准确性"),
			"destination_id": stringProp("终点 POI ID，可选"),
		},
		Required: []string{"origin", "destination"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Origin        string `json:"origin"`
			Destination   string `json:"destination"`
			OriginID      string `json:"origin_id"`
			DestinationID string `json:"destination_id"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		path, err := c.amap.DrivingRoute(ctx, args.Origin, args.Destination, args.OriginID, args.DestinationID)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(path)
	})
}

// WalkingRoute plans a walking route between two coordinates.
func (c *Catalog) WalkingRoute() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "walking_route",
		Description: "规划两个坐标之间的步行路线，返回距离、耗时和逐步导航指引。",
		Properties: map[string]interface{}{
			"origin":         stringProp("起点坐标，格式 经度,纬度"),
			"destination":    stringProp("终点坐标，格式 经度,纬度"),
			"origin_id":      stringProp("起点 POI ID，可选"),
			"destination_id": stringProp("终点 POI ID，可选"),
		},
		Required: []string{"origin", "destination"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Origin        string `json:"origin"`
			Destination   string `json:"destination"`
			OriginID      string `json:"origin_id"`
			DestinationID string `json:"destination_id"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		path, err := c.amap.WalkingRoute(ctx, args.Origin, args.Destination, args.OriginID, args.DestinationID)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(path)
	})
}

// TransitRoute plans a public-transit route between two coordinates.
func (c *Catalog) TransitRoute() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "transit_route",
		Description: "规划两个坐标之间的公共交通路线，返回换乘方案。",
		Properties: map[string]interface{}{
			"origin":           stringProp("起点坐标，格式 经度,纬度"),
			"destination":      stringProp("终点坐标，格式 经度,纬度"),
			"city_origin":      stringProp("起点所在城市或 adcode"),
			"city_destination": stringProp("终点所在城市或 adcode"),
		},
		Required: []string{"origin", "destination", "city_origin", "city_destination"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Origin          string `json:"origin"`
			Destination     string `json:"destination"`
			CityOrigin      string `json:"city_origin"`
			CityDestination string `json:"city_destination"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		raw, err := c.amap.TransitRoute(ctx, args.Origin, args.Destination, args.CityOrigin, args.CityDestination)
		if err != nil {
			return capability.Result{}, err
		}
		return capability.Result{Content: string(raw)}, nil
	})
}

// Distance measures straight-line distances from up to 100 origins to one
// destination.
func (c *Catalog) Distance() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "calculate_distance",
		Description: "计算多个起点到同一终点的直线距离，单位为米。",
		Properties: map[string]interface{}{
			"origins": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "起点坐标列表，每项格式 经度,纬度，最多 100 个",
			},
			"destination": stringProp("终点坐标，格式 经度,纬度"),
		},
		Required: []string{"origins", "destination"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Origins     []string `json:"origins"`
			Destination string   `json:"destination"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		origins := make([][2]float64, 0, len(args.Origins))
		for _, o := range args.Origins {
			pair, err := parsePair(o)
			if err != nil {
				return capability.Result{}, fmt.Errorf("origin %q: %w", o, err)
			}
			origins = append(origins, pair)
		}
		dest, err := parsePair(args.Destination)
		if err != nil {
			return capability.Result{}, fmt.Errorf("destination %q: %w", args.Destination, err)
		}
		results, err := c.amap.Distance(ctx, origins, dest)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(results)
	})
}

// Weather reports the live weather or a multi-day forecast for a city.
func (c *Catalog) Weather() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "weather",
		Description: "查询城市的实时天气或未来几天的天气预报。",
		Properties: map[string]interface{}{
			"city": stringProp("城市 adcode 或名称，例如 510100"),
			"forecast": map[string]interface{}{
				"type":        "boolean",
				"description": "true 返回未来几天预报，false 返回实时天气",
			},
		},
		Required: []string{"city"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			City     string `json:"city"`
			Forecast bool   `json:"forecast"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		report, err := c.amap.Weather(ctx, args.City, args.Forecast)
		if err != nil {
			return capability.Result{}, err
		}
		return jsonResult(report)
	})
}

// GuidingDeepthink gives the model a scratchpad for multi-step planning. The
// thought is echoed back unchanged; its value is forcing the plan into the
// history before acting on it.
func GuidingDeepthink() capability.Capability {
	return capability.New(capability.Spec{
		Name:        "guiding_deepthink",
		Description: "在执行多步查询前，先把完整的行程规划思路写下来再继续。",
		Properties: map[string]interface{}{
			"thought": stringProp("当前的完整规划思路"),
		},
		Required: []string{"thought"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Thought string `json:"thought"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		return capability.Result{Content: args.Thought}, nil
	})
}

func parsePair(s string) ([2]float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("want 经度,纬度")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{lng, lat}, nil
}
