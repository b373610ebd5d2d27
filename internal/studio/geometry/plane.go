package geometry

import (
	"sketch-studio/internal/studio/models"
)

// Plane строит плоскость width×height в плоскости XY с сеткой segX×segY
// в раскладке three.js PlaneGeometry (позиции, нормали, UV, индексы).
func Plane(width, height float64, segX, segY int) *models.Mesh {
	segX = max(segX, 1)
	segY = max(segY, 1)
	halfW := width / 2
	halfH := height / 2
	cols := segX + 1
	rows := segY + 1
	segW := width / float64(segX)
	segH := height / float64(segY)

	m := &models.Mesh{
		Positions: make([]float32, 0, cols*rows*3),
		Normals:   make([]float32, 0, cols*rows*3),
		UVs:       make([]float32, 0, cols*rows*2),
		Index:     make([]uint32, 0, segX*segY*6),
	}
	for iy := 0; iy < rows; iy++ {
		y := float64(iy)*segH - halfH
		for ix := 0; ix < cols; ix++ {
			x := float64(ix)*segW - halfW
			m.Positions = append(m.Positions, float32(x), float32(-y), 0)
			m.Normals = append(m.Normals, 0, 0, 1)
			m.UVs = append(m.UVs, float32(ix)/float32(segX), 1-float32(iy)/float32(segY))
		}
	}
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)
			m.Index = append(m.Index, a, b, d, b, c, d)
		}
	}
	return m
}
