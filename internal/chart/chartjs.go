package chart

// BarColor fills and outlines every bar.
const BarColor = "#5FC3D6"

// BarConfig is the Chart.js configuration object handed to the browser.
type BarConfig struct {
	Type    string    `json:"type"`
	Data    BarData   `json:"data"`
	Options ChartOpts `json:"options"`
}

type BarData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type ChartOpts struct {
	Responsive          bool   `json:"responsive"`
	MaintainAspectRatio bool   `json:"maintainAspectRatio"`
	Scales              Scales `json:"scales"`
}

type Scales struct {
	Y Axis `json:"y"`
}

type Axis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// NewBarConfig wraps s in a single-dataset bar chart with a zero-based y
// axis. Nil slices are emitted as empty arrays.
func NewBarConfig(s Series) BarConfig {
	labels := s.Labels
	if labels == nil {
		labels = []string{}
	}
	values := s.Values
	if values == nil {
		values = []float64{}
	}

	return BarConfig{
		Type: "bar",
		Data: BarData{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           s.Label,
				Data:            values,
				BackgroundColor: BarColor,
				BorderColor:     BarColor,
				BorderWidth:     1,
			}},
		},
		Options: ChartOpts{
			Responsive:          true,
			MaintainAspectRatio: false,
			Scales:              Scales{Y: Axis{BeginAtZero: true}},
		},
	}
}
