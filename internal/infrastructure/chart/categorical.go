package chart

import (
	"fmt"
	"math"

	"github.com/tastelens/backend/internal/domain"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// barPlot draws the mean of y per x category. With spec.Horizontal the bars
// run along the x axis and the categories sit on the y axis.
func barPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	cat, err := column(table, spec.X, "x", spec.Kind)
	if err != nil {
		return nil, err
	}
	ycol, err := column(table, spec.Y, "y", spec.Kind)
	if err != nil {
		return nil, err
	}
	y, err := numbers(ycol)
	if err != nil {
		return nil, err
	}

	g := groupValues(y, cat, nil, spec.Order)
	palette, err := colors(spec.Palette, len(g.cats))
	if err != nil {
		return nil, err
	}

	p := newPlot(spec)
	w := slotWidth(spec, len(g.cats), 1)
	for i := range g.cats {
		values := g.values[[2]int{i, 0}]
		if len(values) == 0 {
			continue
		}
		bars, err := plotter.NewBarChart(plotter.Values{stat.Mean(values, nil)}, w)
		if err != nil {
			return nil, err
		}
		bars.XMin = float64(i)
		bars.Color = palette[i]
		bars.LineStyle.Width = 0
		bars.Horizontal = spec.Horizontal
		p.Add(bars)
	}
	nominal(p, spec.Horizontal, g.cats)
	return p, nil
}

// countPlot draws the number of rows per category, grouped by hue
func countPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	name, role := spec.X, "x"
	if spec.Horizontal && spec.Y != "" {
		name, role = spec.Y, "y"
	}
	cat, err := column(table, name, role, spec.Kind)
	if err != nil {
		return nil, err
	}
	hue, err := optionalColumn(table, spec.Hue)
	if err != nil {
		return nil, err
	}

	ones := make([]float64, table.Len())
	for i := range ones {
		ones[i] = 1
	}
	g := groupValues(ones, cat, hue, spec.Order)

	p := newPlot(spec)
	if hue == nil {
		palette, err := colors(spec.Palette, len(g.cats))
		if err != nil {
			return nil, err
		}
		w := slotWidth(spec, len(g.cats), 1)
		for i := range g.cats {
			bars, err := plotter.NewBarChart(plotter.Values{float64(len(g.values[[2]int{i, 0}]))}, w)
			if err != nil {
				return nil, err
			}
			bars.XMin = float64(i)
			bars.Color = palette[i]
			bars.LineStyle.Width = 0
			bars.Horizontal = spec.Horizontal
			p.Add(bars)
		}
		nominal(p, spec.Horizontal, g.cats)
		return p, nil
	}

	palette, err := colors(spec.Palette, len(g.hues))
	if err != nil {
		return nil, err
	}
	w := slotWidth(spec, len(g.cats), len(g.hues))
	for j, level := range g.hues {
		counts := make(plotter.Values, len(g.cats))
		for i := range g.cats {
			counts[i] = float64(len(g.values[[2]int{i, j}]))
		}
		bars, err := plotter.NewBarChart(counts, w)
		if err != nil {
			return nil, err
		}
		bars.Offset = slotOffset(j, len(g.hues), w)
		bars.Color = palette[j]
		bars.LineStyle.Width = 0
		bars.Horizontal = spec.Horizontal
		p.Add(bars)
		p.Legend.Add(level, bars)
	}
	p.Legend.Top = true
	nominal(p, spec.Horizontal, g.cats)
	return p, nil
}

// boxPlot draws one box of y values per x category, split by hue
func boxPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	g, err := distributionGroups(table, spec)
	if err != nil {
		return nil, err
	}
	palette, err := colors(spec.Palette, max(len(g.cats), len(g.hues)))
	if err != nil {
		return nil, err
	}

	p := newPlot(spec)
	w := slotWidth(spec, len(g.cats), len(g.hues))
	for i := range g.cats {
		for j, level := range g.hues {
			values := g.values[[2]int{i, j}]
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(w, float64(i), plotter.Values(values))
			if err != nil {
				return nil, err
			}
			box.Offset = slotOffset(j, len(g.hues), w)
			box.Horizontal = spec.Horizontal
			if len(g.hues) > 1 {
				box.FillColor = palette[j]
				if i == 0 {
					p.Legend.Add(level, box)
				}
			} else {
				box.FillColor = palette[i]
			}
			p.Add(box)
		}
	}
	nominal(p, spec.Horizontal, g.cats)
	return p, nil
}

// violinPlot draws a Gaussian kernel density outline of y values per x category
func violinPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	g, err := distributionGroups(table, spec)
	if err != nil {
		return nil, err
	}
	palette, err := colors(spec.Palette, max(len(g.cats), len(g.hues)))
	if err != nil {
		return nil, err
	}

	p := newPlot(spec)
	half := 0.4 / float64(len(g.hues))
	for i := range g.cats {
		for j, level := range g.hues {
			values := g.values[[2]int{i, j}]
			if len(values) == 0 {
				continue
			}
			center := float64(i) + (float64(j)-float64(len(g.hues)-1)/2)*2*half
			poly, err := plotter.NewPolygon(violinOutline(values, center, half, spec.Horizontal))
			if err != nil {
				return nil, err
			}
			if len(g.hues) > 1 {
				poly.Color = palette[j]
				if i == 0 {
					p.Legend.Add(level, poly)
				}
			} else {
				poly.Color = palette[i]
			}
			p.Add(poly)
		}
	}
	nominal(p, spec.Horizontal, g.cats)
	return p, nil
}

// distributionGroups reads the numeric y column grouped by the optional x
// and hue columns
func distributionGroups(table *domain.Table, spec domain.ChartSpec) (groups, error) {
	ycol, err := column(table, spec.Y, "y", spec.Kind)
	if err != nil {
		return groups{}, err
	}
	y, err := numbers(ycol)
	if err != nil {
		return groups{}, err
	}
	cat, err := optionalColumn(table, spec.X)
	if err != nil {
		return groups{}, err
	}
	hue, err := optionalColumn(table, spec.Hue)
	if err != nil {
		return groups{}, err
	}

	g := groupValues(y, cat, hue, spec.Order)
	if len(g.values) == 0 {
		return groups{}, fmt.Errorf("%w: column %q has no numeric values", domain.ErrInvalidRequest, spec.Y)
	}
	return g, nil
}

// violinPoints is the number of density samples per violin side
const violinPoints = 100

// violinOutline samples a Gaussian KDE of values with Scott's bandwidth and
// mirrors it around center. The density is scaled so its widest point spans
// half on either side.
func violinOutline(values []float64, center, half float64, horizontal bool) plotter.XYs {
	n := float64(len(values))
	bw := stat.StdDev(values, nil) * math.Pow(n, -0.2)
	if bw == 0 || math.IsNaN(bw) {
		bw = 1e-3 * math.Max(math.Abs(values[0]), 1)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	lo, hi = lo-2*bw, hi+2*bw

	at := make([]float64, violinPoints)
	density := make([]float64, violinPoints)
	peak := 0.0
	for k := range at {
		at[k] = lo + (hi-lo)*float64(k)/float64(violinPoints-1)
		for _, v := range values {
			z := (at[k] - v) / bw
			density[k] += math.Exp(-z * z / 2)
		}
		peak = math.Max(peak, density[k])
	}

	outline := make(plotter.XYs, 0, 2*violinPoints)
	point := func(offset, pos float64) plotter.XY {
		if horizontal {
			return plotter.XY{X: pos, Y: center + offset}
		}
		return plotter.XY{X: center + offset, Y: pos}
	}
	for k := range at {
		outline = append(outline, point(-half*density[k]/peak, at[k]))
	}
	for k := len(at) - 1; k >= 0; k-- {
		outline = append(outline, point(half*density[k]/peak, at[k]))
	}
	return outline
}

// nominal labels the category axis
func nominal(p *plot.Plot, horizontal bool, cats []string) {
	if horizontal {
		p.NominalY(cats...)
		return
	}
	p.NominalX(cats...)
}
