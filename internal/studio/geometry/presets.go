package geometry

import (
	"math"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// Shape Sampler: parametric presets
// ============================================================

const (
	CommitSamples  = 50  // бюджет точек при фиксации прямоугольника
	CircleSamples  = 51  // шагов по углу для окружности (плюс точка замыкания)
	starInnerRatio = 2.5 // внешний радиус / внутренний радиус звезды
	starPoints     = 5
	pentagonSides  = 5
	heartSegments  = 24 // точек на каждую из двух кривых сердца
)

// Preview контур живого предпросмотра пресета.
type Preview struct {
	Points []models.Point2D `json:"points"`
	Closed bool             `json:"closed"`
}

// PreviewOutline строит контур пресета по начальной точке и текущему положению курсора.
// Для freehand предпросмотра нет.
func PreviewOutline(preset models.ShapePreset, start, current models.Point2D) Preview {
	switch preset {
	case models.PresetRectangle:
		return Preview{Points: rectangleCorners(start, current), Closed: true}
	case models.PresetCircle:
		return Preview{Points: CircleOutline(start, current, CircleSamples), Closed: true}
	case models.PresetTriangle:
		return Preview{Points: TriangleOutline(start, current), Closed: true}
	case models.PresetPentagon:
		return Preview{Points: RegularPolygon(start, Distance(start, current), pentagonSides), Closed: true}
	case models.PresetStar:
		return Preview{Points: StarOutline(start, Distance(start, current), starPoints), Closed: true}
	case models.PresetHeartlike:
		return Preview{Points: HeartOutline(start, current, heartSegments), Closed: true}
	}
	return Preview{}
}

// PreviewFeedsStroke сообщает, заменяет ли предпросмотр содержимое штриха.
// Пятиугольник и звезда фиксируются теми точками, что были получены при перетаскивании.
func PreviewFeedsStroke(preset models.ShapePreset) bool {
	return preset == models.PresetPentagon || preset == models.PresetStar
}

// CommitOutline строит итоговый контур при отпускании указателя.
// ok=false означает, что пресет не пересэмплируется и штрих остаётся прежним.
// uniform включает детерминированную генерацию для пятиугольника, звезды и сердца.
func CommitOutline(preset models.ShapePreset, start, end models.Point2D, uniform bool) (models.Stroke, bool) {
	switch preset {
	case models.PresetRectangle:
		return RectangleOutline(start, end, CommitSamples), true
	case models.PresetCircle:
		return CircleOutline(start, end, CircleSamples), true
	case models.PresetTriangle:
		return TriangleOutline(start, end), true
	}
	if !uniform {
		return nil, false
	}
	switch preset {
	case models.PresetPentagon:
		return RegularPolygon(start, Distance(start, end), pentagonSides), true
	case models.PresetStar:
		return StarOutline(start, Distance(start, end), starPoints), true
	case models.PresetHeartlike:
		return HeartOutline(start, end, CommitSamples/2), true
	}
	return nil, false
}

// RectangleOutline обходит периметр: бюджет делится на четыре равные части,
// каждая идёт линейно вдоль одной стороны и заканчивается в углу.
func RectangleOutline(start, end models.Point2D, budget int) models.Stroke {
	corners := rectangleCorners(start, end)
	perSide := budget / 4
	if perSide < 1 {
		perSide = 1
	}
	out := make(models.Stroke, 0, 4*perSide)
	for side := 0; side < 4; side++ {
		a := corners[side]
		b := corners[(side+1)%4]
		for j := 1; j <= perSide; j++ {
			out = append(out, lerp(a, b, float64(j)/float64(perSide)))
		}
	}
	return out
}

// CircleOutline окружность с центром в середине start/end и радиусом dist/2.
// Возвращает samples+1 точек: последняя совпадает с первой.
func CircleOutline(start, end models.Point2D, samples int) models.Stroke {
	center := lerp(start, end, 0.5)
	radius := Distance(start, end) / 2
	out := make(models.Stroke, 0, samples+1)
	for i := 0; i <= samples; i++ {
		angle := 2 * math.Pi * float64(i) / float64(samples)
		out = append(out, models.Point2D{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return out
}

// TriangleOutline две точки жеста и третья, отражённая от start относительно end.x.
func TriangleOutline(start, end models.Point2D) models.Stroke {
	return models.Stroke{
		start,
		end,
		{X: 2*end.X - start.X, Y: start.Y},
	}
}

// RegularPolygon правильный многоугольник вокруг center, первая вершина сверху.
func RegularPolygon(center models.Point2D, radius float64, sides int) models.Stroke {
	out := make(models.Stroke, 0, sides)
	for k := 0; k < sides; k++ {
		angle := -math.Pi/2 + 2*math.Pi*float64(k)/float64(sides)
		out = append(out, polar(center, radius, angle))
	}
	return out
}

// StarOutline звезда: вершины чередуют внешний и внутренний радиус (outer/2.5).
func StarOutline(center models.Point2D, outer float64, points int) models.Stroke {
	inner := outer / starInnerRatio
	n := points * 2
	out := make(models.Stroke, 0, n)
	for k := 0; k < n; k++ {
		r := outer
		if k%2 == 1 {
			r = inner
		}
		angle := -math.Pi/2 + math.Pi*float64(k)/float64(points)
		out = append(out, polar(center, r, angle))
	}
	return out
}

// HeartOutline две зеркальные кубические кривые от якоря start до острия под ним.
func HeartOutline(start, end models.Point2D, segments int) models.Stroke {
	if segments < 2 {
		segments = 2
	}
	s := Distance(start, end)
	tip := models.Point2D{X: start.X, Y: start.Y + s}
	left := [4]models.Point2D{
		start,
		{X: start.X - s/2, Y: start.Y - s/2},
		{X: start.X - s, Y: start.Y + s/3},
		tip,
	}
	right := [4]models.Point2D{
		tip,
		{X: start.X + s, Y: start.Y + s/3},
		{X: start.X + s/2, Y: start.Y - s/2},
		start,
	}
	out := make(models.Stroke, 0, 2*segments)
	for i := 0; i < segments; i++ {
		out = append(out, cubic(left, float64(i)/float64(segments)))
	}
	for i := 0; i < segments; i++ {
		out = append(out, cubic(right, float64(i)/float64(segments)))
	}
	return out
}

// Distance евклидово расстояние между точками.
func Distance(a, b models.Point2D) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func rectangleCorners(start, end models.Point2D) models.Stroke {
	return models.Stroke{
		{X: start.X, Y: start.Y},
		{X: end.X, Y: start.Y},
		{X: end.X, Y: end.Y},
		{X: start.X, Y: end.Y},
	}
}

func lerp(a, b models.Point2D, t float64) models.Point2D {
	return models.Point2D{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

func polar(center models.Point2D, r, angle float64) models.Point2D {
	return models.Point2D{
		X: center.X + r*math.Cos(angle),
		Y: center.Y + r*math.Sin(angle),
	}
}

func cubic(p [4]models.Point2D, t float64) models.Point2D {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return models.Point2D{
		X: a*p[0].X + b*p[1].X + c*p[2].X + d*p[3].X,
		Y: a*p[0].Y + b*p[1].Y + c*p[2].Y + d*p[3].Y,
	}
}
