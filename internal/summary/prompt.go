package summary

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-json"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

// Placeholder is printed instead of a summary when the model call fails.
const Placeholder = "(error generating summary)"

const promptTemplate = `
You are a concise weather summariser. OUTPUT ONLY A SHORT SUMMARY (no extra text, no bullet points, no commentary)
in 1-3 sentences describing the current weather in {{.Location}} as of {{.ObservedAt}}.
Include temperature (°C), wind speed (m/s or km/h), and any precipitation or notable conditions.
If precipitation is occurring or imminent, mention it clearly. Keep it direct and factual.

JSON data:
{{.Data}}
`

var prompt = template.Must(template.New("prompt").Parse(promptTemplate))

// promptData is the labeled block embedded in the prompt. Field order is the
// key order of the rendered JSON.
type promptData struct {
	Temperature      weather.Value `json:"temperature"`
	WindSpeed        weather.Value `json:"windspeed"`
	WindDirection    weather.Value `json:"winddirection"`
	RelativeHumidity weather.Value `json:"relative_humidity"`
	Precipitation    weather.Value `json:"precipitation"`
	WeatherCode      weather.Value `json:"weathercode"`
	Time             weather.Value `json:"time"`
}

// BuildPrompt renders the instruction for one snapshot. Hourly fields come
// from the last index of the series and are null when it is empty. Inputs
// are embedded verbatim.
func BuildPrompt(displayName string, s weather.Snapshot) (string, error) {
	last, _ := s.LastHourly()

	data, err := json.MarshalIndent(promptData{
		Temperature:      s.Current.Temperature,
		WindSpeed:        s.Current.WindSpeed,
		WindDirection:    s.Current.WindDirection,
		RelativeHumidity: last.RelativeHumidity,
		Precipitation:    last.Precipitation,
		WeatherCode:      last.WeatherCode,
		Time:             s.Current.Time,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}

	var buf bytes.Buffer
	err = prompt.Execute(&buf, struct {
		Location   string
		ObservedAt string
		Data       string
	}{
		Location:   displayName,
		ObservedAt: s.Current.Time.String(),
		Data:       string(data),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
