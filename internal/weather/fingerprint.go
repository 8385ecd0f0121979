package weather

import "strings"

const fingerprintSeparator = "|"

// Fingerprint reduces a snapshot to the fields that count as a change:
// current temperature, wind speed, wind direction and time, plus the last
// hourly precipitation and humidity when an hourly series exists.
//
// The current weather code is not part of the key.
func Fingerprint(s Snapshot) string {
	parts := []string{
		s.Current.Temperature.String(),
		s.Current.WindSpeed.String(),
		s.Current.WindDirection.String(),
		s.Current.Time.String(),
	}
	if last, ok := s.LastHourly(); ok {
		parts = append(parts, last.Precipitation.String(), last.RelativeHumidity.String())
	}
	return strings.Join(parts, fingerprintSeparator)
}
