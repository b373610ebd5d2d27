package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	pts := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(10, 0, 0),
		model3d.XYZ(10, 10, 0),
		model3d.XYZ(0, 10, 0),
	}
	curve := NewClosedCatmullRom(pts)
	for k, p := range pts {
		got := curve.At(float64(k) / float64(len(pts)))
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	}
	end := curve.At(1)
	assert.InDelta(t, 0.0, end.X, 1e-9)
	assert.InDelta(t, 0.0, end.Y, 1e-9)
}

func TestCatmullRomSample(t *testing.T) {
	curve := NewClosedCatmullRom([]model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(4, 1, 0),
		model3d.XYZ(2, 5, 0),
	})
	dense := curve.Sample(BoundaryDivisions)
	require.Len(t, dense, BoundaryDivisions+1)
	assert.InDelta(t, dense[0].X, dense[BoundaryDivisions].X, 1e-9)
	assert.InDelta(t, dense[0].Y, dense[BoundaryDivisions].Y, 1e-9)
	for _, p := range dense {
		assert.Zero(t, p.Z)
	}
}

func TestCatmullRomRepeatedPoints(t *testing.T) {
	curve := NewClosedCatmullRom([]model3d.Coord3D{
		model3d.XYZ(1, 1, 0),
		model3d.XYZ(1, 1, 0),
		model3d.XYZ(5, 1, 0),
		model3d.XYZ(3, 4, 0),
	})
	for _, p := range curve.Sample(20) {
		assert.False(t, p.X != p.X || p.Y != p.Y, "NaN in sample")
	}
}
