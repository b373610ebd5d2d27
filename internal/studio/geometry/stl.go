package geometry

import (
	"io"

	"sketch-studio/internal/studio/models"

	"github.com/unixpickle/model3d/model3d"
)

// MeshTriangles восстанавливает треугольники из буферов (индексированных или нет).
func MeshTriangles(m *models.Mesh) []*model3d.Triangle {
	if m == nil {
		return nil
	}
	vertex := func(i uint32) model3d.Coord3D {
		return model3d.XYZ(
			float64(m.Positions[3*i]),
			float64(m.Positions[3*i+1]),
			float64(m.Positions[3*i+2]),
		)
	}
	var tris []*model3d.Triangle
	if len(m.Index) > 0 {
		for i := 0; i+2 < len(m.Index); i += 3 {
			tris = append(tris, &model3d.Triangle{vertex(m.Index[i]), vertex(m.Index[i+1]), vertex(m.Index[i+2])})
		}
		return tris
	}
	n := uint32(m.VertexCount())
	for i := uint32(0); i+2 < n; i += 3 {
		tris = append(tris, &model3d.Triangle{vertex(i), vertex(i + 1), vertex(i + 2)})
	}
	return tris
}

// WriteSTL пишет бинарный STL всех переданных мешей.
func WriteSTL(w io.Writer, meshes []*models.Mesh) error {
	var tris []*model3d.Triangle
	for _, m := range meshes {
		tris = append(tris, MeshTriangles(m)...)
	}
	return model3d.WriteSTL(w, tris)
}
