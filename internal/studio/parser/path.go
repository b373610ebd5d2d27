package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// Path Parser
// ============================================================

// CurveSamples точек на каждый сегмент кривой Безье.
const CurveSamples = 8

var (
	commandRe = regexp.MustCompile(`([MmLlHhVvCcQqZz])([^MmLlHhVvCcQqZz]*)`)
	numberRe  = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ParsePath переводит атрибут d в ломаные, по одной на подпуть. Поддерживаются
// M, L, H, V, C, Q, Z (абсолютные и относительные); кривые сэмплируются по CurveSamples точек.
// Каждая команда M начинает новый подпуть. Закрывающая команда не дублирует первую точку.
func ParsePath(d string) ([][]models.Point2D, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var subpaths [][]models.Point2D
	var points []models.Point2D
	var cur, subpathStart models.Point2D

	flush := func() {
		if len(points) > 0 {
			subpaths = append(subpaths, points)
		}
		points = nil
	}
	// lineTo продолжает подпуть; после Z без нового M подпуть начинается из его начальной точки
	lineTo := func(p models.Point2D) {
		if len(points) == 0 {
			points = append(points, cur)
		}
		points = append(points, p)
		cur = p
	}

	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		args := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)
		at := func(x, y float64) models.Point2D {
			if relative {
				return models.Point2D{X: cur.X + x, Y: cur.Y + y}
			}
			return models.Point2D{X: x, Y: y}
		}

		switch strings.ToUpper(cmd) {
		case "M":
			// пары после первой трактуются как LineTo
			for i := 0; i+1 < len(args); i += 2 {
				if i == 0 {
					flush()
					cur = at(args[i], args[i+1])
					subpathStart = cur
					points = append(points, cur)
					continue
				}
				lineTo(at(args[i], args[i+1]))
			}

		case "L":
			for i := 0; i+1 < len(args); i += 2 {
				lineTo(at(args[i], args[i+1]))
			}

		case "H":
			for _, x := range args {
				next := cur
				if relative {
					next.X += x
				} else {
					next.X = x
				}
				lineTo(next)
			}

		case "V":
			for _, y := range args {
				next := cur
				if relative {
					next.Y += y
				} else {
					next.Y = y
				}
				lineTo(next)
			}

		case "C":
			for i := 0; i+5 < len(args); i += 6 {
				ctrl := [4]models.Point2D{cur, at(args[i], args[i+1]), at(args[i+2], args[i+3]), at(args[i+4], args[i+5])}
				for s := 1; s <= CurveSamples; s++ {
					lineTo(bezier(ctrl[:], float64(s)/CurveSamples))
				}
				cur = ctrl[3]
			}

		case "Q":
			for i := 0; i+3 < len(args); i += 4 {
				ctrl := [3]models.Point2D{cur, at(args[i], args[i+1]), at(args[i+2], args[i+3])}
				for s := 1; s <= CurveSamples; s++ {
					lineTo(bezier(ctrl[:], float64(s)/CurveSamples))
				}
				cur = ctrl[2]
			}

		case "Z":
			flush()
			cur = subpathStart
		}
	}
	flush()

	if len(subpaths) == 0 {
		return nil, fmt.Errorf("path has no points")
	}
	return subpaths, nil
}

// bezier точка кривой Безье по алгоритму де Кастельжо.
func bezier(ctrl []models.Point2D, t float64) models.Point2D {
	pts := make([]models.Point2D, len(ctrl))
	copy(pts, ctrl)
	for n := len(pts) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = models.Point2D{
				X: pts[i].X + (pts[i+1].X-pts[i].X)*t,
				Y: pts[i].Y + (pts[i+1].Y-pts[i].Y)*t,
			}
		}
	}
	return pts[0]
}

func parseCoords(s string) []float64 {
	var coords []float64
	for _, part := range numberRe.FindAllString(s, -1) {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
