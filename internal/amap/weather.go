package amap

import (
	"context"
	"net/url"
)

// WeatherReport holds either a live observation or a multi-day forecast,
// depending on the extensions requested.
type WeatherReport struct {
	Lives     []WeatherLive     `json:"lives,omitempty"`
	Forecasts []WeatherForecast `json:"forecasts,omitempty"`
}

// Weather queries the weather for a city adcode. forecast=false returns the
// live observation; forecast=true returns the coming days.
func (c *Client) Weather(ctx context.Context, city string, forecast bool) (*WeatherReport, error) {
	query := url.Values{}
	query.Set("city", city)
	if forecast {
		query.Set("extensions", "all")
	} else {
		query.Set("extensions", "base")
	}

	var resp struct {
		apiStatus
		Lives     []WeatherLive `json:"lives"`
		Forecasts []struct {
			Casts []WeatherForecast `json:"casts"`
		} `json:"forecasts"`
	}
	if err := c.get(ctx, "/v3/weather/weatherInfo", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	report := &WeatherReport{Lives: resp.Lives}
	for _, f := range resp.Forecasts {
		report.Forecasts = append(report.Forecasts, f.Casts...)
	}
	return report, nil
}
