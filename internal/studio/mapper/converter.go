package mapper

import (
	"fmt"
	"io"
	"math"

	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/models"
	"sketch-studio/internal/studio/parser"
)

// ============================================================
// Outline Converter
// ============================================================

// Converter переводит загруженный SVG в штрих в координатах фигуры.
type Converter struct{}

func New() *Converter {
	return &Converter{}
}

// Convert SVG → Stroke. Берётся контур с наибольшей площадью; документ вписывается
// в поверхность рисования с сохранением пропорций и центрированием.
func (c *Converter) Convert(r io.Reader, surface models.Surface) (models.Stroke, error) {
	doc, err := parser.ParseSVG(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidOutline, err)
	}

	shape, ok := c.pickShape(doc.Shapes)
	if !ok {
		return nil, models.ErrNoOutline
	}

	fit := c.fitTransform(doc.ViewBox, surface)
	stroke := make(models.Stroke, 0, len(shape))
	for _, p := range shape {
		p = fit(p)
		stroke = append(stroke, geometry.Normalize(p.X, p.Y, surface))
	}
	return stroke, nil
}

// pickShape выбирает контур с наибольшей площадью среди тех, что имеют хотя бы три точки.
func (c *Converter) pickShape(shapes []parser.Shape) ([]models.Point2D, bool) {
	var best []models.Point2D
	bestArea := 0.0
	for _, s := range shapes {
		points := dropClosure(s.Points)
		if len(points) < 3 {
			continue
		}
		area := math.Abs(polygonArea(points))
		if area > bestArea {
			best, bestArea = points, area
		}
	}
	return best, best != nil
}

func (c *Converter) fitTransform(viewBox [4]float64, surface models.Surface) func(models.Point2D) models.Point2D {
	minX, minY, vw, vh := viewBox[0], viewBox[1], viewBox[2], viewBox[3]
	if vw <= 0 || vh <= 0 || surface.Width <= 0 || surface.Height <= 0 {
		return func(p models.Point2D) models.Point2D { return p }
	}
	scale := math.Min(surface.Width/vw, surface.Height/vh)
	offX := (surface.Width - vw*scale) / 2
	offY := (surface.Height - vh*scale) / 2
	return func(p models.Point2D) models.Point2D {
		return models.Point2D{
			X: (p.X-minX)*scale + offX,
			Y: (p.Y-minY)*scale + offY,
		}
	}
}

// ============================================================
// Geometry helpers
// ============================================================

func dropClosure(points []models.Point2D) []models.Point2D {
	if n := len(points); n > 1 && points[0] == points[n-1] {
		return points[:n-1]
	}
	return points
}

func polygonArea(points []models.Point2D) float64 {
	var sum float64
	for i, a := range points {
		b := points[(i+1)%len(points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}
