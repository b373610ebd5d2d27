package mapper

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает SVG поверхности рисования: по одному <path> на линию.
func (r *Renderer) Render(canvas models.Canvas) string {
	width, height := r.surfaceSize(canvas.Surface)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, path := range canvas.Paths {
		elem := r.renderPath(path)
		if elem == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

func (r *Renderer) surfaceSize(s models.Surface) (float64, float64) {
	width, height := s.Width, s.Height
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 1000
	}
	return width, height
}

func (r *Renderer) renderPath(path models.SurfacePath) string {
	if len(path.Points) == 0 {
		return ""
	}

	var d strings.Builder
	d.WriteString("M ")
	d.WriteString(formatPoint(path.Points[0]))
	for _, p := range path.Points[1:] {
		d.WriteString(" L ")
		d.WriteString(formatPoint(p))
	}
	if path.Closed {
		d.WriteString(" Z")
	}

	return fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" />`,
		d.String(), html.EscapeString(path.Color), formatFloat(path.Width))
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point2D) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
