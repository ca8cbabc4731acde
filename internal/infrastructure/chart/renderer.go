package chart

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// builder draws one chart kind and returns the encoded image
type builder func(table *domain.Table, spec domain.ChartSpec) (io.WriterTo, error)

// Renderer draws charts of a table as PNG images with gonum/plot
type Renderer struct {
	width    float64 // inches
	height   float64 // inches
	builders map[domain.ChartKind]builder
}

// NewRenderer creates a renderer. width and height are the default figure
// size in inches, used when a spec leaves them unset.
func NewRenderer(width, height float64) *Renderer {
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 6
	}
	r := &Renderer{width: width, height: height}
	r.builders = map[domain.ChartKind]builder{
		domain.ChartBar:      single(barPlot),
		domain.ChartCount:    single(countPlot),
		domain.ChartHist:     single(histPlot),
		domain.ChartBox:      single(boxPlot),
		domain.ChartScatter:  single(scatterPlot),
		domain.ChartHeatmap:  single(heatmapPlot),
		domain.ChartPairplot: pairPlot,
		domain.ChartViolin:   single(violinPlot),
	}
	return r
}

// Render writes the chart described by spec to w
func (r *Renderer) Render(ctx context.Context, w io.Writer, table *domain.Table, spec domain.ChartSpec) error {
	build, ok := r.builders[spec.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrInvalidChartKind, spec.Kind)
	}
	if table == nil {
		return fmt.Errorf("%w: table is required", domain.ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	spec = r.withDefaults(spec)

	img, err := build(table, spec)
	if err != nil {
		return fmt.Errorf("%s chart: %w", spec.Kind, err)
	}
	n, err := img.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write %s chart: %w", spec.Kind, err)
	}

	logging.Ctx(ctx).Debug().
		Str("kind", string(spec.Kind)).
		Int64("bytes", n).
		Dur("elapsed", time.Since(start)).
		Msg("Chart rendered")
	return nil
}

func (r *Renderer) withDefaults(spec domain.ChartSpec) domain.ChartSpec {
	if spec.Width <= 0 {
		spec.Width = r.width
	}
	if spec.Height <= 0 {
		spec.Height = r.height
	}
	if spec.Palette == "" {
		spec.Palette = defaultPalette
		if spec.Kind == domain.ChartHeatmap {
			spec.Palette = defaultHeatmapPalette
		}
	}
	return spec
}

// single wraps a builder that draws into one plot
func single(draw func(*domain.Table, domain.ChartSpec) (*plot.Plot, error)) builder {
	return func(table *domain.Table, spec domain.ChartSpec) (io.WriterTo, error) {
		p, err := draw(table, spec)
		if err != nil {
			return nil, err
		}
		return p.WriterTo(vg.Length(spec.Width)*vg.Inch, vg.Length(spec.Height)*vg.Inch, "png")
	}
}

// newPlot creates a plot with the title and axis labels of spec
func newPlot(spec domain.ChartSpec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	return p
}

// slotWidth is the width of one bar or box when n of them share a category slot
func slotWidth(spec domain.ChartSpec, categories, n int) vg.Length {
	extent := spec.Width
	if spec.Horizontal {
		extent = spec.Height
	}
	w := vg.Length(extent) * vg.Inch * 0.6 / vg.Length(max(categories, 1)*max(n, 1))
	return min(w, vg.Points(60))
}

// slotOffset centres series j of n around its category position
func slotOffset(j, n int, w vg.Length) vg.Length {
	return vg.Length(float64(j)-float64(n-1)/2) * w
}
