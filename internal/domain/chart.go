package domain

import (
	"fmt"
	"strings"
)

// ChartKind selects the chart drawn by a renderer
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartCount    ChartKind = "count"
	ChartHist     ChartKind = "hist"
	ChartBox      ChartKind = "box"
	ChartScatter  ChartKind = "scatter"
	ChartHeatmap  ChartKind = "heatmap"
	ChartPairplot ChartKind = "pairplot"
	ChartViolin   ChartKind = "violin"
)

// ChartKinds lists every supported kind
var ChartKinds = []ChartKind{
	ChartBar, ChartCount, ChartHist, ChartBox, ChartScatter, ChartHeatmap, ChartPairplot, ChartViolin,
}

// ParseChartKind validates a chart kind name
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChartKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChartKind, s)
}

// ChartSpec carries the styling options passed through to a chart
type ChartSpec struct {
	Kind       ChartKind `json:"kind"`
	X          string    `json:"x,omitempty"`
	Y          string    `json:"y,omitempty"`
	Hue        string    `json:"hue,omitempty"`
	Order      []string  `json:"order,omitempty"`
	Palette    string    `json:"palette,omitempty"`
	Title      string    `json:"title,omitempty"`
	XLabel     string    `json:"xlabel,omitempty"`
	YLabel     string    `json:"ylabel,omitempty"`
	Bins       int       `json:"bins,omitempty"`
	Width      float64   `json:"width,omitempty"`  // inches
	Height     float64   `json:"height,omitempty"` // inches
	Horizontal bool      `json:"horizontal,omitempty"`
}
