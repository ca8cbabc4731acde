package chart

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/tastelens/backend/internal/domain"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotutil"
)

const (
	defaultPalette        = "magma"
	defaultHeatmapPalette = "coolwarm"
)

// colorList adapts a slice of colors to palette.Palette
type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

// colors resolves a palette name to n colors. A few named ramps are matched
// case-insensitively; anything else must be a ColorBrewer name such as Set1,
// Blues or RdBu.
func colors(name string, n int) ([]color.Color, error) {
	if n <= 0 {
		return nil, nil
	}

	switch strings.ToLower(name) {
	case "", "deep", "default":
		out := make([]color.Color, n)
		for i := range out {
			out[i] = plotutil.Color(i)
		}
		return out, nil
	case "magma", "inferno", "heat", "hot":
		// drop the near-black and near-white ends
		return palette.Heat(n+2, 1).Colors()[1 : n+1], nil
	case "rainbow", "hsv":
		return palette.Rainbow(n, palette.Red, palette.Magenta, 1, 1, 1).Colors(), nil
	case "coolwarm":
		out, err := brewerColors("RdBu", n)
		if err != nil {
			return nil, err
		}
		reverse(out)
		return out, nil
	}
	return brewerColors(name, n)
}

func brewerColors(name string, n int) ([]color.Color, error) {
	for k := max(n, 3); k >= 3; k-- {
		p, err := brewer.GetPalette(brewer.TypeAny, name, k)
		if err != nil {
			continue
		}
		return cycle(p.Colors(), n), nil
	}
	return nil, fmt.Errorf("%w: unknown palette %q", domain.ErrInvalidRequest, name)
}

func cycle(cs []color.Color, n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = cs[i%len(cs)]
	}
	return out
}

func reverse(cs []color.Color) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}

// translucent returns c with half opacity, for overlapping series
func translucent(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 140
	return n
}
