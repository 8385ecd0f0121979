package weather

import (
	"strconv"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ConditionFromCode maps a WMO weather code as reported by Open-Meteo.
func ConditionFromCode(code Value) Condition {
	f, ok := code.Float64()
	if !ok {
		return ConditionUnknown
	}
	c := int(f)
	switch {
	case c == 0:
		return ConditionClear
	case c >= 1 && c <= 3:
		return ConditionCloudy
	case c == 45 || c == 48:
		return ConditionMist
	case (c >= 51 && c <= 67) || (c >= 80 && c <= 82):
		return ConditionRain
	case (c >= 71 && c <= 77) || c == 85 || c == 86:
		return ConditionSnow
	case c >= 95:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

// Location is the single place being monitored.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// CurrentConditions is the "current_weather" block of an Open-Meteo response.
type CurrentConditions struct {
	Temperature   Value `json:"temperature"`
	WindSpeed     Value `json:"windspeed"`
	WindDirection Value `json:"winddirection"`
	WeatherCode   Value `json:"weathercode"`
	Time          Value `json:"time"`
}

// HourlySeries holds index-aligned hourly arrays. Any array may be missing
// or contain nulls.
type HourlySeries struct {
	Time             []Value `json:"time"`
	Temperature      []Value `json:"temperature_2m"`
	RelativeHumidity []Value `json:"relativehumidity_2m"`
	Precipitation    []Value `json:"precipitation"`
	WeatherCode      []Value `json:"weathercode"`
	WindSpeed        []Value `json:"windspeed_10m"`
}

// HourlyReading is one index of the hourly series.
type HourlyReading struct {
	RelativeHumidity Value
	Precipitation    Value
	WeatherCode      Value
}

// Snapshot is the provider response for a single poll.
type Snapshot struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Timezone  string            `json:"timezone"`
	Current   CurrentConditions `json:"current_weather"`
	Hourly    HourlySeries      `json:"hourly"`
}

// LastHourly returns the readings at the last index of the hourly time
// series. ok is false when the series is empty; fields whose array is
// shorter than the time series are null.
func (s Snapshot) LastHourly() (HourlyReading, bool) {
	n := len(s.Hourly.Time)
	if n == 0 {
		return HourlyReading{}, false
	}
	idx := n - 1
	return HourlyReading{
		RelativeHumidity: at(s.Hourly.RelativeHumidity, idx),
		Precipitation:    at(s.Hourly.Precipitation, idx),
		WeatherCode:      at(s.Hourly.WeatherCode, idx),
	}, true
}

func at(values []Value, idx int) Value {
	if idx < 0 || idx >= len(values) {
		return Null
	}
	return values[idx]
}

// SummaryRecord is one emitted summary, kept in memory for the status API.
type SummaryRecord struct {
	ID          string    `json:"id"`
	Location    Location  `json:"location"`
	Fingerprint string    `json:"fingerprint"`
	Summary     string    `json:"summary"`
	Placeholder bool      `json:"placeholder"`
	ObservedAt  string    `json:"observedAt"`
	Condition   Condition `json:"condition"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
}
