package geometry

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// ============================================================
// Closed Catmull-Rom curve
// ============================================================

const catmullEps = 1e-4

// CatmullRom замкнутая центростремительная кривая Catmull-Rom через контрольные точки.
type CatmullRom struct {
	points []model3d.Coord3D
}

func NewClosedCatmullRom(points []model3d.Coord3D) *CatmullRom {
	return &CatmullRom{points: points}
}

// At возвращает точку кривой для параметра t ∈ [0, 1]; At(1) == At(0).
func (c *CatmullRom) At(t float64) model3d.Coord3D {
	l := len(c.points)
	if l == 0 {
		return model3d.Coord3D{}
	}
	p := float64(l) * t
	i := int(math.Floor(p))
	weight := p - float64(i)
	if i <= 0 {
		i += (int(math.Floor(math.Abs(float64(i))/float64(l))) + 1) * l
	}

	p0 := c.points[(i-1)%l]
	p1 := c.points[i%l]
	p2 := c.points[(i+1)%l]
	p3 := c.points[(i+2)%l]

	dt0 := math.Sqrt(p0.Dist(p1))
	dt1 := math.Sqrt(p1.Dist(p2))
	dt2 := math.Sqrt(p2.Dist(p3))
	if dt1 < catmullEps {
		dt1 = 1
	}
	if dt0 < catmullEps {
		dt0 = dt1
	}
	if dt2 < catmullEps {
		dt2 = dt1
	}

	return model3d.XYZ(
		nonUniform(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, weight),
		nonUniform(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, weight),
		nonUniform(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, weight),
	)
}

// Sample делит кривую на divisions отрезков и возвращает divisions+1 точек.
func (c *CatmullRom) Sample(divisions int) []model3d.Coord3D {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]model3d.Coord3D, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		out = append(out, c.At(float64(d)/float64(divisions)))
	}
	return out
}

func nonUniform(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	t2sq := t * t
	return c0 + c1*t + c2*t2sq + c3*t2sq*t
}
