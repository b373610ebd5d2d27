package geometry

import (
	"fmt"
	"math"

	"sketch-studio/internal/studio/models"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// ============================================================
// Outline-to-Solid capability
// ============================================================

const (
	BoundaryDivisions = 50 // плотность сэмплирования подогнанной кривой
	maxMiter          = math.Sqrt2
	pointEps          = 1e-9
)

type ExtrudeOptions struct {
	Depth          float64
	Steps          int
	BevelThickness float64
	BevelSize      float64
	BevelSegments  int
}

// DefaultExtrudeOptions параметры выдавливания эскиза: два шага, фаска 1×1 в один сегмент.
func DefaultExtrudeOptions(depth float64) ExtrudeOptions {
	return ExtrudeOptions{
		Depth:          depth,
		Steps:          2,
		BevelThickness: 1,
		BevelSize:      1,
		BevelSegments:  1,
	}
}

// Mesher граница с графической библиотекой: подгонка кривой и выдавливание.
type Mesher interface {
	FitClosedCurve(points []models.Point2D, divisions int) []models.Point3D
	Extrude(outline []models.Point2D, opts ExtrudeOptions) (*models.Mesh, error)
}

// SolidMesher реализация Mesher на model3d.
type SolidMesher struct{}

func NewSolidMesher() *SolidMesher {
	return &SolidMesher{}
}

// FitClosedCurve поднимает (x, y) в (x, -y, 0) и сэмплирует замкнутую кривую Catmull-Rom.
func (m *SolidMesher) FitClosedCurve(points []models.Point2D, divisions int) []models.Point3D {
	lifted := make([]model3d.Coord3D, len(points))
	for i, p := range points {
		lifted[i] = model3d.XYZ(p.X, -p.Y, 0)
	}
	dense := NewClosedCatmullRom(lifted).Sample(divisions)
	out := make([]models.Point3D, len(dense))
	for i, c := range dense {
		out[i] = models.Point3D{X: c.X, Y: c.Y, Z: c.Z}
	}
	return out
}

// FlattenBoundary обходит плотную границу по порядку и строит плоский контур
// без повторяющихся соседних точек и без точки замыкания.
func FlattenBoundary(boundary []models.Point3D) []models.Point2D {
	out := make([]models.Point2D, 0, len(boundary))
	for _, p := range boundary {
		q := models.Point2D{X: p.X, Y: p.Y}
		if n := len(out); n > 0 && samePoint(out[n-1], q) {
			continue
		}
		out = append(out, q)
	}
	if n := len(out); n > 1 && samePoint(out[0], out[n-1]) {
		out = out[:n-1]
	}
	return out
}

// Extrude выдавливает контур вдоль оси Z с фаской и центрирует результат в начале координат.
func (m *SolidMesher) Extrude(outline []models.Point2D, opts ExtrudeOptions) (*models.Mesh, error) {
	if opts.Depth <= 0 {
		return nil, models.ErrInvalidDepth
	}
	contour := toContour(outline)
	if len(contour) < 3 {
		return nil, fmt.Errorf("%w: %d distinct points", models.ErrDegenerateOutline, len(contour))
	}
	area := signedArea(contour)
	if math.Abs(area) < pointEps {
		return nil, fmt.Errorf("%w: zero area", models.ErrDegenerateOutline)
	}
	if area < 0 {
		reverse(contour)
	}

	moves := bevelVectors(contour)
	layers := extrusionLayers(opts)
	rings := make([][]model3d.Coord3D, len(layers))
	for k, l := range layers {
		ring := make([]model3d.Coord3D, len(contour))
		for i, c := range contour {
			p := c.Add(moves[i].Scale(l.offset))
			ring[i] = model3d.XYZ(p.X, p.Y, l.z)
		}
		rings[k] = ring
	}

	var tris []*model3d.Triangle
	bottom, err := capTriangles(rings[0], false)
	if err != nil {
		return nil, err
	}
	top, err := capTriangles(rings[len(rings)-1], true)
	if err != nil {
		return nil, err
	}
	tris = append(tris, bottom...)
	tris = append(tris, top...)

	n := len(contour)
	for k := 0; k+1 < len(rings); k++ {
		lo, hi := rings[k], rings[k+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			tris = append(tris,
				&model3d.Triangle{lo[i], lo[j], hi[j]},
				&model3d.Triangle{lo[i], hi[j], hi[i]},
			)
		}
	}

	mesh := model3d.NewMeshTriangles(tris)
	center := mesh.Min().Mid(mesh.Max())
	mesh = mesh.Translate(center.Scale(-1))
	return TrianglesToMesh(mesh.TriangleSlice()), nil
}

// TrianglesToMesh раскладывает треугольники в неиндексированные буферы с нормалями граней.
// Вырожденные треугольники пропускаются.
func TrianglesToMesh(tris []*model3d.Triangle) *models.Mesh {
	out := &models.Mesh{
		Positions: make([]float32, 0, len(tris)*9),
		Normals:   make([]float32, 0, len(tris)*9),
	}
	for _, t := range tris {
		n := t.Normal()
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			continue
		}
		for _, v := range t {
			out.Positions = append(out.Positions, float32(v.X), float32(v.Y), float32(v.Z))
			out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return out
}

// ============================================================
// Helpers
// ============================================================

type layer struct {
	z      float64
	offset float64
}

// extrusionLayers слои вдоль Z: фаска спереди, шаги, фаска сзади.
func extrusionLayers(opts ExtrudeOptions) []layer {
	steps := max(opts.Steps, 1)
	var layers []layer
	for b := 0; b < opts.BevelSegments; b++ {
		t := float64(b) / float64(opts.BevelSegments)
		layers = append(layers, layer{
			z:      -opts.BevelThickness * math.Cos(t*math.Pi/2),
			offset: opts.BevelSize * math.Sin(t*math.Pi/2),
		})
	}
	bevel := 0.0
	if opts.BevelSegments > 0 {
		bevel = opts.BevelSize
	}
	layers = append(layers, layer{z: 0, offset: bevel})
	for s := 1; s <= steps; s++ {
		layers = append(layers, layer{z: opts.Depth / float64(steps) * float64(s), offset: bevel})
	}
	for b := opts.BevelSegments - 1; b >= 0; b-- {
		t := float64(b) / float64(opts.BevelSegments)
		layers = append(layers, layer{
			z:      opts.Depth + opts.BevelThickness*math.Cos(t*math.Pi/2),
			offset: opts.BevelSize * math.Sin(t*math.Pi/2),
		})
	}
	return layers
}

// bevelVectors направления смещения вершин наружу для контура против часовой стрелки.
func bevelVectors(contour []model2d.Coord) []model2d.Coord {
	n := len(contour)
	out := make([]model2d.Coord, n)
	for i, cur := range contour {
		prev := contour[(i+n-1)%n]
		next := contour[(i+1)%n]
		n1 := outwardNormal(prev, cur)
		n2 := outwardNormal(cur, next)
		bis := n1.Add(n2)
		if bis.Norm() < pointEps {
			out[i] = n1
			continue
		}
		bis = bis.Normalize()
		length := maxMiter
		if cos := bis.Dot(n1); cos > 1/maxMiter {
			length = 1 / cos
		}
		out[i] = bis.Scale(length)
	}
	return out
}

func outwardNormal(a, b model2d.Coord) model2d.Coord {
	d := b.Sub(a).Normalize()
	return model2d.XY(d.Y, -d.X)
}

func capTriangles(ring []model3d.Coord3D, facingUp bool) (tris []*model3d.Triangle, err error) {
	flat := make([]model2d.Coord, len(ring))
	for i, c := range ring {
		flat[i] = model2d.XY(c.X, c.Y)
	}
	z := ring[0].Z
	defer func() {
		if r := recover(); r != nil {
			tris = nil
			err = fmt.Errorf("%w: triangulation failed: %v", models.ErrDegenerateOutline, r)
		}
	}()
	for _, t := range model2d.Triangulate(flat) {
		ccw := cross2(t[0], t[1], t[2]) > 0
		a, b, c := t[0], t[1], t[2]
		if ccw != facingUp {
			b, c = c, b
		}
		tris = append(tris, &model3d.Triangle{
			model3d.XYZ(a.X, a.Y, z),
			model3d.XYZ(b.X, b.Y, z),
			model3d.XYZ(c.X, c.Y, z),
		})
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: empty cap", models.ErrDegenerateOutline)
	}
	return tris, nil
}

func toContour(outline []models.Point2D) []model2d.Coord {
	out := make([]model2d.Coord, 0, len(outline))
	for _, p := range outline {
		c := model2d.XY(p.X, p.Y)
		if n := len(out); n > 0 && out[n-1].Dist(c) < pointEps {
			continue
		}
		out = append(out, c)
	}
	if n := len(out); n > 1 && out[0].Dist(out[n-1]) < pointEps {
		out = out[:n-1]
	}
	return out
}

func signedArea(contour []model2d.Coord) float64 {
	var sum float64
	for i, a := range contour {
		b := contour[(i+1)%len(contour)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func cross2(a, b, c model2d.Coord) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func reverse(c []model2d.Coord) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

func samePoint(a, b models.Point2D) bool {
	return math.Abs(a.X-b.X) < pointEps && math.Abs(a.Y-b.Y) < pointEps
}
