package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/tastelens/backend/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// heatmapColors is the number of steps in a heatmap colour ramp
const heatmapColors = 11

// histPlot draws a histogram of x, one translucent layer per hue level
func histPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	xcol, err := column(table, spec.X, "x", spec.Kind)
	if err != nil {
		return nil, err
	}
	x, err := numbers(xcol)
	if err != nil {
		return nil, err
	}
	hue, err := optionalColumn(table, spec.Hue)
	if err != nil {
		return nil, err
	}

	p := newPlot(spec)
	if err := addHistograms(p, x, hue, spec); err != nil {
		return nil, err
	}
	return p, nil
}

func addHistograms(p *plot.Plot, x []float64, hue *domain.Column, spec domain.ChartSpec) error {
	g := groupValues(x, nil, hue, nil)
	all := finite(x)
	if len(all) == 0 {
		return fmt.Errorf("%w: no numeric values to bin", domain.ErrInvalidRequest)
	}
	lo, hi := all[0], all[0]
	for _, v := range all {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	palette, err := colors(spec.Palette, len(g.hues))
	if err != nil {
		return err
	}
	for j, level := range g.hues {
		values := g.values[[2]int{0, j}]
		if len(values) == 0 {
			continue
		}
		// zero-weight anchors give every layer the same bin edges
		xys := make(plotter.XYs, 0, len(values)+2)
		xys = append(xys, plotter.XY{X: lo}, plotter.XY{X: hi})
		for _, v := range values {
			xys = append(xys, plotter.XY{X: v, Y: 1})
		}
		h, err := plotter.NewHistogram(xys, spec.Bins)
		if err != nil {
			return err
		}
		h.FillColor = palette[j]
		if len(g.hues) > 1 {
			h.FillColor = translucent(palette[j])
			p.Legend.Add(level, h)
		}
		p.Add(h)
	}
	return nil
}

// scatterPlot draws y against x, one series per hue level
func scatterPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	xcol, err := column(table, spec.X, "x", spec.Kind)
	if err != nil {
		return nil, err
	}
	ycol, err := column(table, spec.Y, "y", spec.Kind)
	if err != nil {
		return nil, err
	}
	hue, err := optionalColumn(table, spec.Hue)
	if err != nil {
		return nil, err
	}
	x, err := numbers(xcol)
	if err != nil {
		return nil, err
	}
	y, err := numbers(ycol)
	if err != nil {
		return nil, err
	}

	p := newPlot(spec)
	if err := addScatter(p, x, y, hue, spec.Palette, true); err != nil {
		return nil, err
	}
	return p, nil
}

func addScatter(p *plot.Plot, x, y []float64, hue *domain.Column, paletteName string, legend bool) error {
	hues := levels(hue, nil)
	hueIndex := indexOf(hues)
	series := make([]plotter.XYs, len(hues))
	for row := range x {
		if math.IsNaN(x[row]) || math.IsNaN(y[row]) {
			continue
		}
		h, ok := labelAt(hue, row)
		if !ok {
			continue
		}
		j := hueIndex[h]
		series[j] = append(series[j], plotter.XY{X: x[row], Y: y[row]})
	}

	palette, err := colors(paletteName, len(hues))
	if err != nil {
		return err
	}
	for j, xys := range series {
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = palette[j]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		if legend && hue != nil {
			p.Legend.Add(hues[j], s)
		}
	}
	return nil
}

// matrixGrid exposes table rows as a heatmap grid. Row 0 is drawn on top.
type matrixGrid struct {
	cells [][]float64 // [row][column]
	cols  int
}

func (m matrixGrid) Dims() (c, r int)   { return m.cols, len(m.cells) }
func (m matrixGrid) Z(c, r int) float64 { return m.cells[len(m.cells)-1-r][c] }
func (m matrixGrid) X(c int) float64    { return float64(c) }
func (m matrixGrid) Y(r int) float64    { return float64(r) }

// heatmapPlot draws the numeric columns of the table as an annotated matrix.
// Rows are labelled by the x column when one is given.
func heatmapPlot(table *domain.Table, spec domain.ChartSpec) (*plot.Plot, error) {
	labels, err := optionalColumn(table, spec.X)
	if err != nil {
		return nil, err
	}

	var names []string
	var data [][]float64
	for _, col := range table.Columns() {
		if !col.Kind.Numeric() || (labels != nil && col.Name == labels.Name) {
			continue
		}
		x, err := numbers(col)
		if err != nil {
			return nil, err
		}
		names = append(names, col.Name)
		data = append(data, x)
	}
	if len(names) == 0 || table.Len() == 0 {
		return nil, fmt.Errorf("%w: heatmap needs at least one numeric column", domain.ErrInvalidRequest)
	}

	grid := matrixGrid{cells: make([][]float64, table.Len()), cols: len(names)}
	rowNames := make([]string, table.Len())
	lo, hi := math.Inf(1), math.Inf(-1)
	for r := range grid.cells {
		grid.cells[r] = make([]float64, len(names))
		for c := range names {
			v := data[c][r]
			grid.cells[r][c] = v
			if !math.IsNaN(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		rowNames[r] = strconv.Itoa(r)
		if labels != nil {
			rowNames[r] = labels.Values[r].String()
		}
	}
	if math.IsInf(lo, 1) {
		return nil, fmt.Errorf("%w: heatmap has no values", domain.ErrInvalidRequest)
	}

	ramp, err := colors(spec.Palette, heatmapColors)
	if err != nil {
		return nil, err
	}
	hm := plotter.NewHeatMap(grid, colorList(ramp))
	hm.Min, hm.Max = lo, hi
	if hi == lo {
		hm.Max = lo + 1
	}
	hm.NaN = color.Transparent

	var cells plotter.XYLabels
	for r := range grid.cells {
		for c, v := range grid.cells[r] {
			if math.IsNaN(v) {
				continue
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(len(grid.cells) - 1 - r)})
			cells.Labels = append(cells.Labels, strconv.FormatFloat(v, 'g', 2, 64))
		}
	}
	annotations, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, err
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YCenter
	}

	p := newPlot(spec)
	p.Add(hm, annotations)
	p.NominalX(names...)

	reversed := make([]string, len(rowNames))
	for i, name := range rowNames {
		reversed[len(rowNames)-1-i] = name
	}
	p.NominalY(reversed...)
	return p, nil
}

// pairPlot draws the lower triangle of a scatter matrix of the numeric
// columns with a histogram of each column on the diagonal
func pairPlot(table *domain.Table, spec domain.ChartSpec) (io.WriterTo, error) {
	hue, err := optionalColumn(table, spec.Hue)
	if err != nil {
		return nil, err
	}

	var names []string
	var data [][]float64
	for _, col := range table.Columns() {
		if !col.Kind.Numeric() || (hue != nil && col.Name == hue.Name) {
			continue
		}
		x, err := numbers(col)
		if err != nil {
			return nil, err
		}
		names = append(names, col.Name)
		data = append(data, x)
	}
	n := len(names)
	if n == 0 {
		return nil, fmt.Errorf("%w: pairplot needs at least one numeric column", domain.ErrInvalidRequest)
	}

	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			switch {
			case j > i:
				p.HideAxes()
			case j == i:
				if err := addHistograms(p, data[i], hue, spec); err != nil {
					return nil, err
				}
			default:
				if err := addScatter(p, data[j], data[i], hue, spec.Palette, false); err != nil {
					return nil, err
				}
			}
			if i == n-1 {
				p.X.Label.Text = names[j]
			}
			if j == 0 && i > 0 {
				p.Y.Label.Text = names[i]
			}
			plots[i][j] = p
		}
	}

	img := vgimg.New(vg.Length(spec.Width)*vg.Inch, vg.Length(spec.Height)*vg.Inch)
	dc := draw.New(img)
	if spec.Title != "" {
		style := plot.New().Title.TextStyle
		style.XAlign = text.XCenter
		style.YAlign = text.YTop
		dc.FillText(style, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y}, spec.Title)
		dc.Max.Y -= style.Height(spec.Title) + vg.Points(4)
	}

	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(2), PadBottom: vg.Points(2),
		PadLeft: vg.Points(2), PadRight: vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}
	return vgimg.PngCanvas{Canvas: img}, nil
}
