package amap

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexString tolerates the API's habit of returning strings, numbers, empty
// arrays, or single-element arrays for the same field. Anything that cannot
// be read as text decodes to the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var list []flexString
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = list[0]
		} else {
			*f = ""
		}
		return nil
	}
	*f = ""
	return nil
}

func (f flexString) String() string { return string(f) }

type businessJSON struct {
	Tel          flexString `json:"tel"`
	Cost         flexString `json:"cost"`
	Rating       flexString `json:"rating"`
	Tag          flexString `json:"tag"`
	KeyTag       flexString `json:"keytag"`
	RecTag       flexString `json:"rectag"`
	BusinessArea flexString `json:"business_area"`
	OpenToday    flexString `json:"opentime_today"`
}

type poiJSON struct {
	ID           flexString      `json:"id"`
	Name         flexString      `json:"name"`
	Address      flexString      `json:"address"`
	CityName     flexString      `json:"cityname"`
	AdName       flexString      `json:"adname"`
	Location     flexString      `json:"location"`
	Distance     flexString      `json:"distance"`
	Tel          flexString      `json:"tel"`
	Tag          flexString      `json:"tag"`
	ATag         flexString      `json:"atag"`
	KeyTag       flexString      `json:"keytag"`
	BusinessArea flexString      `json:"business_area"`
	Business     *businessJSON   `json:"business"`
	BizExt       *businessJSON   `json:"biz_ext"`
	Photos       json.RawMessage `json:"photos"`
}

// decodePOIs reads the "pois" payload, which is a list in v5 and sometimes a
// wrapper object or single object in v3-compatible responses.
func decodePOIs(raw json.RawMessage) []poiJSON {
	if len(raw) == 0 {
		return nil
	}

	var list []poiJSON
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapper struct {
		POI []poiJSON `json:"poi"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.POI) > 0 {
		return wrapper.POI
	}

	var single poiJSON
	if err := json.Unmarshal(raw, &single); err == nil && single.Name != "" {
		return []poiJSON{single}
	}
	return nil
}

func (p poiJSON) flatten() Place {
	place := Place{
		Name:     strings.TrimSpace(p.Name.String()),
		Address:  strings.TrimSpace(p.Address.String()),
		City:     p.CityName.String(),
		District: p.AdName.String(),
		POIID:    p.ID.String(),
	}

	place.Location = parseLngLat(p.Location.String())

	var cost, rating flexString
	if p.Business != nil {
		place.Tel = strings.TrimSpace(p.Business.Tel.String())
		place.BusinessArea = p.Business.BusinessArea.String()
		cost = p.Business.Cost
		rating = p.Business.Rating
		place.Tags = splitTags(p.Business.Tag.String())
	}
	if place.Tel == "" {
		place.Tel = strings.TrimSpace(p.Tel.String())
		if place.Tel == "" && p.BizExt != nil {
			place.Tel = strings.TrimSpace(p.BizExt.Tel.String())
		}
	}
	if cost == "" && p.BizExt != nil {
		cost = p.BizExt.Cost
	}
	if rating == "" && p.BizExt != nil {
		rating = p.BizExt.Rating
	}
	if place.BusinessArea == "" {
		place.BusinessArea = p.BusinessArea.String()
	}

	if len(place.Tags) == 0 {
		place.Tags = splitTags(p.Tag.String())
	}
	if len(place.Tags) == 0 {
		place.Tags = splitTags(p.ATag.String())
	}
	if len(place.Tags) == 0 && p.KeyTag.String() != "" {
		place.Tags = []string{p.KeyTag.String()}
	}

	if v, err := strconv.ParseFloat(cost.String(), 64); err == nil {
		place.CostPerPerson = v
	}
	if v, err := strconv.ParseFloat(rating.String(), 64); err == nil {
		place.Rating = v
	}
	if v, err := strconv.Atoi(p.Distance.String()); err == nil {
		place.DistanceMeters = v
	}

	place.PhotoURL = firstPhotoURL(p.Photos)
	return place
}

// parseLngLat reads an "lng,lat" pair. Malformed input yields nil, not an
// error.
func parseLngLat(s string) *LngLat {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil
	}
	lng, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &LngLat{Longitude: lng, Latitude: lat}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// firstPhotoURL handles photos arriving as either a {url: ...} object or a
// list of such objects.
func firstPhotoURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	type photo struct {
		URL flexString `json:"url"`
	}
	var single photo
	if err := json.Unmarshal(raw, &single); err == nil && single.URL != "" {
		return single.URL.String()
	}
	var list []photo
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0].URL.String()
	}
	return ""
}
