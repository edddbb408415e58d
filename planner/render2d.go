package planner

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// RenderFormat selects the 2D output encoding
type RenderFormat string

const (
	FormatSVG RenderFormat = "svg"
	FormatPNG RenderFormat = "png"
)

var (
	floorColor    = color.RGBA{R: 235, G: 230, B: 220, A: 255}
	texturedFloor = color.RGBA{R: 214, G: 196, B: 160, A: 255}
	wallColor     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	cornerColor   = color.RGBA{R: 30, G: 110, B: 200, A: 255}
	previewColor  = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	entityColor   = color.RGBA{R: 90, G: 140, B: 90, A: 180}
	gridColor     = color.RGBA{R: 225, G: 225, B: 225, A: 255}
)

// Renderer2D draws the floorplan as seen through a Viewer2D
type Renderer2D struct {
	Width       float64 // canvas pixels
	Height      float64
	GridSpacing float64 // floorplan cm, 0 disables the grid
	Resolution  canvas.Resolution
}

// NewRenderer2D creates a renderer with a 100cm grid
func NewRenderer2D(width, height float64) *Renderer2D {
	return &Renderer2D{
		Width:       width,
		Height:      height,
		GridSpacing: 100,
		Resolution:  canvas.DPI(25.4), // one pixel per canvas unit
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// Render writes the current floorplan, entities and draw preview in the given format
func (r *Renderer2D) Render(w io.Writer, format RenderFormat, v *Viewer2D, entities []*Entity) error {
	switch format {
	case FormatSVG, "":
		s := svg.New(w, r.Width, r.Height, nil)
		r.draw(s, v, entities)
		return s.Close()
	case FormatPNG:
		rast := rasterizer.New(r.Width, r.Height, r.Resolution, canvas.DefaultColorSpace)
		r.draw(rast, v, entities)
		return png.Encode(w, rast)
	}
	return fmt.Errorf("unsupported render format %q", format)
}

func (r *Renderer2D) draw(out canvasRenderer, v *Viewer2D, entities []*Entity) {
	bg := canvas.DefaultStyle
	bg.Fill = canvas.Paint{Color: canvas.White}
	out.RenderPath(canvas.Rectangle(r.Width, r.Height), bg, canvas.Identity)

	view := v.Viewport()
	r.drawGrid(out, view)

	fp := v.Floorplan()
	for _, room := range fp.Rooms() {
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: floorColor}
		if !room.Floor.IsZero() {
			style.Fill = canvas.Paint{Color: texturedFloor}
		}
		style.Stroke = canvas.Paint{Color: canvas.Transparent}
		out.RenderPath(polygonPath(view, room.Points()), style, canvas.Identity)
	}

	for _, e := range entities {
		fpts := e.Footprint()
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: entityColor}
		style.Stroke = canvas.Paint{Color: canvas.Transparent}
		out.RenderPath(polygonPath(view, fpts[:]), style, canvas.Identity)
	}

	scale := view.PixelsPerUnit()
	for _, w := range fp.Walls() {
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: canvas.Transparent}
		style.Stroke = canvas.Paint{Color: wallColor}
		style.StrokeWidth = math.Max(1, w.Thickness*scale)
		out.RenderPath(linePath(view, w.StartPoint(), w.EndPoint()), style, canvas.Identity)
	}

	for _, c := range fp.Corners() {
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: cornerColor}
		style.Stroke = canvas.Paint{Color: canvas.Transparent}
		sp := view.ToScreen(c.Position())
		out.RenderPath(canvas.Circle(3).Translate(sp.X, sp.Y), style, canvas.Identity)
	}

	if start, ok := v.Drawing(); ok {
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: canvas.Transparent}
		style.Stroke = canvas.Paint{Color: previewColor}
		style.StrokeWidth = 2
		out.RenderPath(linePath(view, start, v.Cursor()), style, canvas.Identity)
	}
}

func (r *Renderer2D) drawGrid(out canvasRenderer, view *Viewport) {
	if r.GridSpacing <= 0 {
		return
	}
	step := r.GridSpacing * view.PixelsPerUnit()
	if step < 4 {
		return
	}
	origin := view.ToScreen(Point{})
	style := canvas.DefaultStyle
	style.Fill = canvas.Paint{Color: canvas.Transparent}
	style.Stroke = canvas.Paint{Color: gridColor}
	style.StrokeWidth = 1

	grid := &canvas.Path{}
	for x := math.Mod(origin.X, step); x <= r.Width; x += step {
		grid.MoveTo(x, 0)
		grid.LineTo(x, r.Height)
	}
	for y := math.Mod(origin.Y, step); y <= r.Height; y += step {
		grid.MoveTo(0, y)
		grid.LineTo(r.Width, y)
	}
	out.RenderPath(grid, style, canvas.Identity)
}

func polygonPath(view *Viewport, pts []Point) *canvas.Path {
	p := &canvas.Path{}
	for i, pt := range pts {
		sp := view.ToScreen(pt)
		if i == 0 {
			p.MoveTo(sp.X, sp.Y)
		} else {
			p.LineTo(sp.X, sp.Y)
		}
	}
	p.Close()
	return p
}

func linePath(view *Viewport, a, b Point) *canvas.Path {
	sa, sb := view.ToScreen(a), view.ToScreen(b)
	p := &canvas.Path{}
	p.MoveTo(sa.X, sa.Y)
	p.LineTo(sb.X, sb.Y)
	return p
}
