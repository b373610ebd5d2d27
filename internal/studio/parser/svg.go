package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Group
}

// Group содержимое <svg> или <g>; группы разбираются рекурсивно.
type Group struct {
	Rects     []Rect    `xml:"rect"`
	Paths     []Path    `xml:"path"`
	Polygons  []Polygon `xml:"polygon"`
	Polylines []Polygon `xml:"polyline"`
	Groups    []Group   `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type Polygon struct {
	ID     string `xml:"id,attr"`
	Points string `xml:"points,attr"`
}

// Shape один контур документа в пользовательских единицах SVG.
type Shape struct {
	ID     string
	Points []models.Point2D
}

// Document разобранный SVG: контуры и область просмотра.
type Document struct {
	ViewBox [4]float64 // minX, minY, width, height; нули если не задан
	Shapes  []Shape
}

// ============================================================
// Parser
// ============================================================

func ParseSVG(r io.Reader) (*Document, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, err
	}

	doc := &Document{}
	if vb := parseCoords(svg.ViewBox); len(vb) == 4 {
		copy(doc.ViewBox[:], vb)
	} else {
		doc.ViewBox[2] = parseLength(svg.Width)
		doc.ViewBox[3] = parseLength(svg.Height)
	}

	if err := collect(svg.Group, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func collect(g Group, doc *Document) error {
	for _, rect := range g.Rects {
		if rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		doc.Shapes = append(doc.Shapes, Shape{
			ID: rect.ID,
			Points: []models.Point2D{
				{X: rect.X, Y: rect.Y},
				{X: rect.X + rect.Width, Y: rect.Y},
				{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
				{X: rect.X, Y: rect.Y + rect.Height},
			},
		})
	}

	for _, path := range g.Paths {
		subpaths, err := ParsePath(path.D)
		if err != nil {
			return fmt.Errorf("path %q: %w", path.ID, err)
		}
		for _, points := range subpaths {
			doc.Shapes = append(doc.Shapes, Shape{ID: path.ID, Points: points})
		}
	}

	for _, list := range [][]Polygon{g.Polygons, g.Polylines} {
		for _, poly := range list {
			coords := parseCoords(poly.Points)
			var points []models.Point2D
			for i := 0; i+1 < len(coords); i += 2 {
				points = append(points, models.Point2D{X: coords[i], Y: coords[i+1]})
			}
			doc.Shapes = append(doc.Shapes, Shape{ID: poly.ID, Points: points})
		}
	}

	for _, sub := range g.Groups {
		if err := collect(sub, doc); err != nil {
			return err
		}
	}
	return nil
}

// parseLength читает длину вида "300" или "300px"; прочие единицы не поддерживаются.
func parseLength(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if v := parseCoords(s); len(v) == 1 {
		return v[0]
	}
	return 0
}
