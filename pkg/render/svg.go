package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"

	"github.com/matzehuels/hexgrid/pkg/layout"
)

// svgScale maps user units onto the integer viewBox of the canvas, keeping
// two decimals of precision.
const svgScale = 100

// RenderSVG draws l as an SVG document.
//
// Every entity becomes a <polygon> whose id is the entity id and whose
// data-x/data-y attributes hold its grid cell. Polygons are grouped under
// <g id="cells">; labels, when enabled, under <g id="labels">.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	f := NewFrame(l, o.geometry)

	w, h := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w*svgScale, h*svgScale)
	if o.title != "" {
		canvas.Title(o.title)
	}

	canvas.Gid("cells")
	for i, c := range l.Cells {
		xs, ys := scaled(f.Hexagons[i])
		fill := c.Color
		if fill == "" {
			fill = o.fill
		}
		canvas.Polygon(xs, ys,
			attr("id", c.ID),
			attr("data-x", fmt.Sprint(c.X)),
			attr("data-y", fmt.Sprint(c.Y)),
			cellStyle(fill, o))
	}
	canvas.Gend()

	if o.labels {
		canvas.Gid("labels")
		style := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;text-anchor:middle;dominant-baseline:central;fill:%s",
			scale(o.fontSize), o.fontColor)
		for i, c := range l.Cells {
			p := f.Centers[i]
			canvas.Text(scale(p[0]), scale(p[1]), c.ID, attr("id", "text"+c.ID), style)
		}
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}

func cellStyle(fill string, o options) string {
	if o.strokeWidth == 0 {
		return "fill:" + fill + ";stroke:none"
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, o.stroke, scale(o.strokeWidth))
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func scale(v float64) int { return int(math.Round(v * svgScale)) }

// scaled returns the vertices of an open polygon in viewBox units.
func scaled(ring orb.Ring) (xs, ys []int) {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	xs, ys = make([]int, n), make([]int, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = scale(ring[i][0]), scale(ring[i][1])
	}
	return xs, ys
}
