package amap

// LngLat is a WGS-adjacent coordinate pair as Amap reports it.
type LngLat struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Place is a flattened point-of-interest record from place search.
type Place struct {
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	Tel            string   `json:"tel,omitempty"`
	City           string   `json:"city,omitempty"`
	District       string   `json:"district,omitempty"`
	BusinessArea   string   `json:"business_area,omitempty"`
	DistanceMeters int      `json:"distance_meters,omitempty"`
	Location       *LngLat  `json:"location,omitempty"`
	CostPerPerson  float64  `json:"cost_per_person,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	PhotoURL       string   `json:"photo_url,omitempty"`
	POIID          string   `json:"poi_id,omitempty"`
}

// GeoPoint is one geocoding result.
type GeoPoint struct {
	Name      string `json:"name"`
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

// RouteStep is one leg instruction of a planned route.
type RouteStep struct {
	Instruction  string `json:"instruction"`
	Orientation  string `json:"orientation,omitempty"`
	RoadName     string `json:"road_name,omitempty"`
	StepDistance string `json:"step_distance,omitempty"`
}

// RoutePath is the first (recommended) path of a route plan.
type RoutePath struct {
	DistanceMeters  string      `json:"distance"`
	DurationSeconds string      `json:"duration,omitempty"`
	Steps           []RouteStep `json:"steps,omitempty"`
}

// DistanceResult is one origin's straight-line distance to the destination.
type DistanceResult struct {
	OriginID string `json:"origin_id"`
	DestID   string `json:"dest_id"`
	Distance string `json:"distance"`
}

// WeatherLive is the current weather observation for a city.
type WeatherLive struct {
	Province      string `json:"province"`
	City          string `json:"city"`
	Weather       string `json:"weather"`
	Temperature   string `json:"temperature"`
	WindDirection string `json:"winddirection"`
	WindPower     string `json:"windpower"`
	Humidity      string `json:"humidity"`
	ReportTime    string `json:"reporttime"`
}

// WeatherForecast is one day of a city forecast.
type WeatherForecast struct {
	Date         string `json:"date"`
	Week         string `json:"week"`
	DayWeather   string `json:"dayweather"`
	NightWeather string `json:"nightweather"`
	DayTemp      string `json:"daytemp"`
	NightTemp    string `json:"nighttemp"`
}
