package models

// ============================================================
// Geometry primitives
// ============================================================

// Point2D точка в локальных координатах фигуры (центр поверхности рисования = 0,0).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Stroke упорядоченная последовательность точек одного жеста.
type Stroke []Point2D

// Clone возвращает независимую копию штриха.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// ============================================================
// Shape presets
// ============================================================

type ShapePreset string

const (
	PresetFreehand  ShapePreset = "freehand"
	PresetRectangle ShapePreset = "rectangle"
	PresetCircle    ShapePreset = "circle"
	PresetTriangle  ShapePreset = "triangle"
	PresetPentagon  ShapePreset = "pentagon"
	PresetStar      ShapePreset = "star"
	PresetHeartlike ShapePreset = "heartlike"
)

var presets = []ShapePreset{
	PresetFreehand,
	PresetRectangle,
	PresetCircle,
	PresetTriangle,
	PresetPentagon,
	PresetStar,
	PresetHeartlike,
}

// Presets возвращает все известные пресеты в порядке отображения.
func Presets() []ShapePreset {
	out := make([]ShapePreset, len(presets))
	copy(out, presets)
	return out
}

// ParsePreset проверяет имя пресета.
func ParsePreset(name string) (ShapePreset, error) {
	for _, p := range presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", ErrUnknownPreset
}

// ============================================================
// Drawing surface
// ============================================================

// Surface размеры поверхности рисования в пикселях.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SurfacePath одна нарисованная линия на поверхности (координаты в пикселях поверхности).
type SurfacePath struct {
	Color  string    `json:"color"`
	Width  float64   `json:"width"`
	Closed bool      `json:"closed"`
	Points []Point2D `json:"points"`
}

// Canvas состояние пикселей поверхности рисования.
type Canvas struct {
	Surface Surface       `json:"surface"`
	Paths   []SurfacePath `json:"paths"`
}

// Empty сообщает, что на поверхности нет ни одного штриха.
func (c Canvas) Empty() bool {
	for _, p := range c.Paths {
		if len(p.Points) > 0 {
			return false
		}
	}
	return true
}

// Camera параметры перспективной камеры авторского вида.
type Camera struct {
	FOV      float64 `json:"fov"`
	Aspect   float64 `json:"aspect"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
	Position Point3D `json:"position"`
}

// DefaultCamera камера авторского вида до первого resize.
func DefaultCamera() Camera {
	return Camera{
		FOV:      75,
		Aspect:   1,
		Near:     0.1,
		Far:      1000,
		Position: Point3D{X: 0, Y: 20, Z: 50},
	}
}
