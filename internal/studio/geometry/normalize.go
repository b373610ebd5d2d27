package geometry

import (
	"sketch-studio/internal/studio/models"
)

// ============================================================
// Coordinate Normalizer
// ============================================================

// Normalize переводит координаты указателя (от левого верхнего угла поверхности)
// в локальные координаты фигуры с началом в центре поверхности.
func Normalize(px, py float64, s models.Surface) models.Point2D {
	return models.Point2D{
		X: px - s.Width/2,
		Y: py - s.Height/2,
	}
}

// Denormalize обратное преобразование в пиксели поверхности.
func Denormalize(p models.Point2D, s models.Surface) models.Point2D {
	return models.Point2D{
		X: p.X + s.Width/2,
		Y: p.Y + s.Height/2,
	}
}

// DenormalizeAll применяет Denormalize к каждой точке.
func DenormalizeAll(points []models.Point2D, s models.Surface) []models.Point2D {
	out := make([]models.Point2D, len(points))
	for i, p := range points {
		out[i] = Denormalize(p, s)
	}
	return out
}

// SurfaceForViewport поверхность рисования занимает половину ширины и всю высоту.
func SurfaceForViewport(viewportWidth, viewportHeight float64) models.Surface {
	return models.Surface{
		Width:  viewportWidth / 2,
		Height: viewportHeight,
	}
}

// AspectForViewport соотношение сторон 3D-вида для того же разбиения экрана.
func AspectForViewport(viewportWidth, viewportHeight float64) float64 {
	if viewportHeight <= 0 {
		return 1
	}
	return (viewportWidth / 2) / viewportHeight
}
