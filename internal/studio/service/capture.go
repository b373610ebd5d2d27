package service

import (
	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/models"
)

// ============================================================
// Outline Capture
// ============================================================

// capture жест указателя от нажатия до отпускания.
type capture struct {
	active  bool
	start   models.Point2D
	samples int // нажатие плюс перемещения
	stroke  models.Stroke
}

// PointerState ответ на событие указателя.
type PointerState struct {
	Preset       models.ShapePreset `json:"preset"`
	Drawing      bool               `json:"drawing"`
	StrokePoints int                `json:"stroke_points"`
	Preview      []models.Point2D   `json:"preview,omitempty"` // пиксели поверхности
	Closed       bool               `json:"closed,omitempty"`
	Committed    bool               `json:"committed,omitempty"`
}

// pointerDown начинает новый штрих; незавершённый штрих сбрасывается.
func (s *Session) pointerDown(px, py float64) PointerState {
	p := geometry.Normalize(px, py, s.Canvas.Surface)
	s.capture = capture{
		active:  true,
		start:   p,
		samples: 1,
		stroke:  models.Stroke{p},
	}
	if s.Preset == models.PresetFreehand {
		s.Canvas.Paths = append(s.Canvas.Paths, models.SurfacePath{
			Color:  s.Color,
			Width:  StrokeWidth,
			Points: []models.Point2D{{X: px, Y: py}},
		})
	}
	return s.pointerState(nil)
}

func (s *Session) pointerMove(px, py float64) PointerState {
	if !s.capture.active {
		return s.pointerState(nil)
	}
	p := geometry.Normalize(px, py, s.Canvas.Surface)
	s.capture.samples++

	if s.Preset == models.PresetFreehand {
		s.capture.stroke = append(s.capture.stroke, p)
		if n := len(s.Canvas.Paths); n > 0 {
			last := &s.Canvas.Paths[n-1]
			last.Points = append(last.Points, models.Point2D{X: px, Y: py})
		}
		return s.pointerState(nil)
	}

	preview := geometry.PreviewOutline(s.Preset, s.capture.start, p)
	if geometry.PreviewFeedsStroke(s.Preset) {
		s.capture.stroke = models.Stroke(preview.Points).Clone()
	}
	s.drawOutline(preview.Points, preview.Closed)
	return s.pointerState(&preview)
}

func (s *Session) pointerUp(px, py float64, uniform bool) PointerState {
	if !s.capture.active {
		return s.pointerState(nil)
	}
	s.capture.active = false
	if s.Preset == models.PresetFreehand || s.capture.samples < 2 {
		return s.pointerState(nil)
	}

	end := geometry.Normalize(px, py, s.Canvas.Surface)
	outline, ok := geometry.CommitOutline(s.Preset, s.capture.start, end, uniform)
	if !ok {
		return s.pointerState(nil)
	}
	s.capture.stroke = outline
	s.drawOutline(outline, true)

	state := s.pointerState(nil)
	state.Committed = true
	return state
}

// drawOutline очищает поверхность и рисует контур в координатах фигуры.
func (s *Session) drawOutline(points []models.Point2D, closed bool) {
	s.Canvas.Paths = []models.SurfacePath{{
		Color:  s.Color,
		Width:  StrokeWidth,
		Closed: closed,
		Points: geometry.DenormalizeAll(points, s.Canvas.Surface),
	}}
}

func (s *Session) pointerState(preview *geometry.Preview) PointerState {
	state := PointerState{
		Preset:       s.Preset,
		Drawing:      s.capture.active,
		StrokePoints: len(s.capture.stroke),
	}
	if preview != nil {
		state.Preview = geometry.DenormalizeAll(preview.Points, s.Canvas.Surface)
		state.Closed = preview.Closed
	}
	return state
}

// resetCapture сбрасывает штрих (очистка, новая сессия).
func (s *Session) resetCapture() {
	s.capture = capture{}
}
