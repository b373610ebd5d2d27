package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"sketch-studio/internal/studio/export"
	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/imports"
	"sketch-studio/internal/studio/mapper"
	"sketch-studio/internal/studio/models"

	"github.com/google/uuid"
)

// ============================================================
// Studio Service
// ============================================================

type Options struct {
	// UniformPresets фиксирует пятиугольник, звезду и сердце детерминированным генератором
	// вместо точек последнего предпросмотра.
	UniformPresets bool
}

type Studio struct {
	sessions *SessionManager
	mesher   geometry.Mesher
	importer *imports.Importer
	exporter *export.Exporter
	outlines *mapper.Converter
	renderer *mapper.Renderer
	opts     Options
}

func New(sessions *SessionManager, mesher geometry.Mesher, importer *imports.Importer, exporter *export.Exporter, opts Options) *Studio {
	return &Studio{
		sessions: sessions,
		mesher:   mesher,
		importer: importer,
		exporter: exporter,
		outlines: mapper.New(),
		renderer: mapper.NewRenderer(),
		opts:     opts,
	}
}

// ImportReport результат пакетной загрузки изображений.
type ImportReport struct {
	Added   []string        `json:"added"`
	Notices []models.Notice `json:"notices,omitempty"`
}

// withSession выполняет fn под блокировкой сессии.
func (s *Studio) withSession(id string, fn func(sess *Session) error) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// ============================================================
// Sessions
// ============================================================

func (s *Studio) CreateSession(ctx context.Context) (View, error) {
	sess := s.sessions.Create()
	log.Printf("[STUDIO] session %s created", sess.ID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(ctx)
}

func (s *Studio) Session(ctx context.Context, id string) (View, error) {
	var v View
	err := s.withSession(id, func(sess *Session) (err error) {
		v, err = sess.view(ctx)
		return err
	})
	return v, err
}

// CloseSession удаляет сессию вместе с её сценой.
func (s *Studio) CloseSession(ctx context.Context, id string) error {
	sess, err := s.sessions.Remove(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.closed = true
	log.Printf("[STUDIO] session %s closed", id)
	return sess.Registry.Clear(ctx)
}

// ============================================================
// Surface controls
// ============================================================

// Resize подгоняет поверхность и камеру под окно. Изменение размера
// стирает пиксели поверхности, штрих сохраняется.
func (s *Studio) Resize(ctx context.Context, id string, viewportWidth, viewportHeight float64) (View, error) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return View{}, models.ErrInvalidViewport
	}
	var v View
	err := s.withSession(id, func(sess *Session) (err error) {
		sess.Canvas = models.Canvas{Surface: geometry.SurfaceForViewport(viewportWidth, viewportHeight)}
		sess.Camera.Aspect = geometry.AspectForViewport(viewportWidth, viewportHeight)
		v, err = sess.view(ctx)
		return err
	})
	return v, err
}

func (s *Studio) SetPreset(ctx context.Context, id, name string) (View, error) {
	preset, err := models.ParsePreset(name)
	if err != nil {
		return View{}, fmt.Errorf("%w: %q", err, name)
	}
	var v View
	err = s.withSession(id, func(sess *Session) (err error) {
		sess.Preset = preset
		v, err = sess.view(ctx)
		return err
	})
	return v, err
}

func (s *Studio) SetColor(ctx context.Context, id, value string) (View, error) {
	color, err := ParseColor(value)
	if err != nil {
		return View{}, err
	}
	var v View
	err = s.withSession(id, func(sess *Session) (err error) {
		sess.Color = color
		v, err = sess.view(ctx)
		return err
	})
	return v, err
}

// SurfaceSVG текущие пиксели поверхности рисования.
func (s *Studio) SurfaceSVG(_ context.Context, id string) (string, error) {
	var svg string
	err := s.withSession(id, func(sess *Session) error {
		svg = s.renderer.Render(sess.Canvas)
		return nil
	})
	return svg, err
}

// ============================================================
// Pointer events
// ============================================================

func (s *Studio) PointerDown(_ context.Context, id string, x, y float64) (PointerState, error) {
	var st PointerState
	err := s.withSession(id, func(sess *Session) error {
		st = sess.pointerDown(x, y)
		return nil
	})
	return st, err
}

func (s *Studio) PointerMove(_ context.Context, id string, x, y float64) (PointerState, error) {
	var st PointerState
	err := s.withSession(id, func(sess *Session) error {
		st = sess.pointerMove(x, y)
		return nil
	})
	return st, err
}

func (s *Studio) PointerUp(_ context.Context, id string, x, y float64) (PointerState, error) {
	var st PointerState
	err := s.withSession(id, func(sess *Session) error {
		st = sess.pointerUp(x, y, s.opts.UniformPresets)
		return nil
	})
	return st, err
}

// ImportOutline заменяет текущий штрих контуром из SVG и рисует его на поверхности.
func (s *Studio) ImportOutline(ctx context.Context, id string, r io.Reader) (View, error) {
	var v View
	err := s.withSession(id, func(sess *Session) error {
		stroke, err := s.outlines.Convert(r, sess.Canvas.Surface)
		if err != nil {
			return err
		}
		sess.capture = capture{stroke: stroke}
		sess.drawOutline(stroke, true)
		log.Printf("[STUDIO] session %s: outline imported, %d points", id, len(stroke))

		v, err = sess.view(ctx)
		return err
	})
	return v, err
}

// ============================================================
// Outline-to-Solid
// ============================================================

// Extrude превращает текущий штрих в твёрдое тело и добавляет его в сцену.
// Штрих короче трёх точек или неверная глубина ничего не меняют.
func (s *Studio) Extrude(ctx context.Context, id, rawDepth string) (*models.SceneObject, error) {
	var obj *models.SceneObject
	err := s.withSession(id, func(sess *Session) error {
		stroke := sess.capture.stroke
		if len(stroke) < 3 {
			return models.ErrInsufficientPoints
		}
		depth, err := ParseDepth(rawDepth)
		if err != nil {
			return err
		}

		boundary := s.mesher.FitClosedCurve(stroke, geometry.BoundaryDivisions)
		outline := geometry.FlattenBoundary(boundary)
		mesh, err := s.mesher.Extrude(outline, geometry.DefaultExtrudeOptions(float64(depth)))
		if err != nil {
			return err
		}

		obj = &models.SceneObject{
			ID:       uuid.NewString(),
			Kind:     models.KindSolid,
			Material: models.Material{Kind: models.MaterialNormal},
			Mesh:     mesh,
		}
		if err := sess.Registry.Add(ctx, obj); err != nil {
			return fmt.Errorf("add solid: %w", err)
		}
		sess.resetCapture()

		log.Printf("[STUDIO] session %s: solid %s from %d points, depth %d, %d vertices",
			id, obj.ID, len(stroke), depth, mesh.VertexCount())
		return nil
	})
	return obj, err
}

// ============================================================
// Image panels
// ============================================================

// ImportImages декодирует файлы параллельно; панели добавляются по мере готовности.
// Испорченный файл даёт уведомление и пропускается, остальные обрабатываются.
func (s *Studio) ImportImages(ctx context.Context, id string, files []imports.File) (*ImportReport, error) {
	if len(files) == 0 {
		return nil, models.ErrNoImages
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	report := &ImportReport{Added: []string{}}
	notice := func(file string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Notices = append(report.Notices, models.Notice{File: file, Message: err.Error()})
	}

	s.importer.ImportAll(files, func(r imports.Result) {
		if r.Err != nil {
			notice(r.File, r.Err)
			return
		}
		if err := s.addPanel(ctx, sess, r.Panel); err != nil {
			notice(r.File, err)
			return
		}
		mu.Lock()
		report.Added = append(report.Added, r.Panel.ID)
		mu.Unlock()
	})

	log.Printf("[STUDIO] session %s: %d of %d images added", id, len(report.Added), len(files))
	return report, nil
}

// addPanel добавляет готовую панель, если сессия не была закрыта во время декодирования.
func (s *Studio) addPanel(ctx context.Context, sess *Session, panel *models.SceneObject) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return models.ErrSessionNotFound
	}
	return sess.Registry.Add(ctx, panel)
}

// ============================================================
// Scene
// ============================================================

// Clear стирает поверхность, сбрасывает штрих и опустошает сцену.
func (s *Studio) Clear(ctx context.Context, id string) error {
	return s.withSession(id, func(sess *Session) error {
		sess.Canvas.Paths = nil
		sess.resetCapture()
		if err := sess.Registry.Clear(ctx); err != nil {
			return fmt.Errorf("clear scene: %w", err)
		}
		log.Printf("[STUDIO] session %s cleared", id)
		return nil
	})
}

func (s *Studio) Scene(ctx context.Context, id string) ([]*models.SceneObject, error) {
	var objects []*models.SceneObject
	err := s.withSession(id, func(sess *Session) (err error) {
		objects, err = sess.Registry.List(ctx)
		return err
	})
	return objects, err
}

// Export самодостаточная HTML-страница текущей сцены.
func (s *Studio) Export(ctx context.Context, id string) ([]byte, error) {
	var page []byte
	err := s.withSession(id, func(sess *Session) error {
		objects, err := sess.Registry.List(ctx)
		if err != nil {
			return err
		}
		page, err = s.exporter.Render(sess.Camera, objects)
		return err
	})
	return page, err
}

// ExportSTL пишет твёрдые тела сцены в бинарный STL.
func (s *Studio) ExportSTL(ctx context.Context, id string, w io.Writer) error {
	return s.withSession(id, func(sess *Session) error {
		objects, err := sess.Registry.List(ctx)
		if err != nil {
			return err
		}
		return s.exporter.WriteSTL(w, objects)
	})
}
