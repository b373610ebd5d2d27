package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"sketch-studio/internal/studio/export"
	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/imports"
	"sketch-studio/internal/studio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMesher подменяет графическую библиотеку.
type fakeMesher struct {
	mu      sync.Mutex
	fitted  [][]models.Point2D
	extrude []geometry.ExtrudeOptions
}

func (f *fakeMesher) FitClosedCurve(points []models.Point2D, divisions int) []models.Point3D {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fitted = append(f.fitted, append([]models.Point2D(nil), points...))

	out := make([]models.Point3D, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		p := points[i%len(points)]
		out = append(out, models.Point3D{X: p.X, Y: -p.Y})
	}
	return out
}

func (f *fakeMesher) Extrude(outline []models.Point2D, opts geometry.ExtrudeOptions) (*models.Mesh, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extrude = append(f.extrude, opts)
	return &models.Mesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
	}, nil
}

func (f *fakeMesher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.extrude)
}

func newTestStudio(t *testing.T, mesher geometry.Mesher, opts Options) (*Studio, string) {
	t.Helper()
	studio := New(NewSessionManager(nil), mesher, imports.New(0, 0), export.New(), opts)
	view, err := studio.CreateSession(context.Background())
	require.NoError(t, err)
	return studio, view.ID
}

func pngFile(t *testing.T, name string, w, h int) imports.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return imports.File{Name: name, Data: buf.Bytes()}
}

func drawFreehand(t *testing.T, s *Studio, id string, points ...[2]float64) {
	t.Helper()
	ctx := context.Background()
	for i, p := range points {
		var err error
		if i == 0 {
			_, err = s.PointerDown(ctx, id, p[0], p[1])
		} else {
			_, err = s.PointerMove(ctx, id, p[0], p[1])
		}
		require.NoError(t, err)
	}
	_, err := s.PointerUp(ctx, id, 0, 0)
	require.NoError(t, err)
}

func sceneLen(t *testing.T, s *Studio, id string) int {
	t.Helper()
	objects, err := s.Scene(context.Background(), id)
	require.NoError(t, err)
	return len(objects)
}

// ============================================================
// Minimum-point gate
// ============================================================

func TestExtrudeGate(t *testing.T) {
	strokes := [][][2]float64{
		nil,
		{{10, 10}},
		{{10, 10}, {20, 10}},
	}
	for _, points := range strokes {
		mesher := &fakeMesher{}
		s, id := newTestStudio(t, mesher, Options{})
		if len(points) > 0 {
			drawFreehand(t, s, id, points...)
		}

		obj, err := s.Extrude(context.Background(), id, "10")
		assert.ErrorIs(t, err, models.ErrInsufficientPoints)
		assert.Equal(t, "draw a shape first", err.Error())
		assert.Nil(t, obj)
		assert.Zero(t, sceneLen(t, s, id))
		assert.Zero(t, mesher.calls())
	}
}

func TestExtrudeAddsExactlyOneSolid(t *testing.T) {
	mesher := &fakeMesher{}
	s, id := newTestStudio(t, mesher, Options{})
	drawFreehand(t, s, id, [2]float64{10, 10}, [2]float64{50, 10}, [2]float64{30, 40})

	obj, err := s.Extrude(context.Background(), id, " 12 ")
	require.NoError(t, err)
	assert.Equal(t, models.KindSolid, obj.Kind)
	assert.Equal(t, models.MaterialNormal, obj.Material.Kind)
	assert.Equal(t, 1, sceneLen(t, s, id))

	require.Len(t, mesher.extrude, 1)
	assert.Equal(t, geometry.DefaultExtrudeOptions(12), mesher.extrude[0])
	require.Len(t, mesher.fitted, 1)
	assert.Len(t, mesher.fitted[0], 3)

	// штрих израсходован
	_, err = s.Extrude(context.Background(), id, "12")
	assert.ErrorIs(t, err, models.ErrInsufficientPoints)
	assert.Equal(t, 1, sceneLen(t, s, id))
}

func TestExtrudeInvalidDepth(t *testing.T) {
	for _, depth := range []string{"", "abc", "0", "-4", "2.5"} {
		mesher := &fakeMesher{}
		s, id := newTestStudio(t, mesher, Options{})
		drawFreehand(t, s, id, [2]float64{10, 10}, [2]float64{50, 10}, [2]float64{30, 40})

		_, err := s.Extrude(context.Background(), id, depth)
		assert.ErrorIs(t, err, models.ErrInvalidDepth, depth)
		assert.Zero(t, sceneLen(t, s, id))

		view, err := s.Session(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 3, view.StrokePoints)
	}
}

func TestExtrudeWithSolidMesher(t *testing.T) {
	s, id := newTestStudio(t, geometry.NewSolidMesher(), Options{})
	ctx := context.Background()

	_, err := s.SetPreset(ctx, id, "circle")
	require.NoError(t, err)
	_, err = s.PointerDown(ctx, id, 100, 100)
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, id, 150, 150)
	require.NoError(t, err)
	_, err = s.PointerUp(ctx, id, 200, 200)
	require.NoError(t, err)

	obj, err := s.Extrude(ctx, id, "8")
	require.NoError(t, err)
	assert.NotZero(t, obj.Mesh.VertexCount())
	assert.Len(t, obj.Mesh.Normals, len(obj.Mesh.Positions))
}

// ============================================================
// Clear invariant
// ============================================================

func TestClearEmptiesEverything(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		drawFreehand(t, s, id, [2]float64{10, 10}, [2]float64{50, 10}, [2]float64{30, 40})
		_, err := s.Extrude(ctx, id, "5")
		require.NoError(t, err)
	}
	_, err := s.ImportImages(ctx, id, []imports.File{pngFile(t, "a.png", 2, 2), pngFile(t, "b.png", 3, 1)})
	require.NoError(t, err)
	drawFreehand(t, s, id, [2]float64{1, 1}, [2]float64{2, 2})
	require.Equal(t, 5, sceneLen(t, s, id))

	require.NoError(t, s.Clear(ctx, id))

	assert.Zero(t, sceneLen(t, s, id))
	view, err := s.Session(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, view.StrokePoints)
	assert.Zero(t, view.SceneSize)
	assert.True(t, view.SurfaceEmpty)

	svg, err := s.SurfaceSVG(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, svg, "<path")
}

// ============================================================
// Capture
// ============================================================

func TestFreehandStrokeIsNormalized(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()

	view, err := s.Resize(ctx, id, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, models.Surface{Width: 400, Height: 600}, view.Surface)
	assert.InDelta(t, 400.0/600.0, view.Camera.Aspect, 1e-12)

	drawFreehand(t, s, id, [2]float64{200, 300}, [2]float64{0, 0}, [2]float64{400, 600})

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.Stroke{{X: 0, Y: 0}, {X: -200, Y: -300}, {X: 200, Y: 300}}, sess.Stroke())

	svg, err := s.SurfaceSVG(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, svg, `d="M 200 300 L 0 0 L 400 600"`)
}

func TestResizeWipesSurfaceKeepsStroke(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	drawFreehand(t, s, id, [2]float64{10, 10}, [2]float64{50, 10}, [2]float64{30, 40})

	view, err := s.Resize(ctx, id, 1000, 500)
	require.NoError(t, err)
	assert.Equal(t, 3, view.StrokePoints)

	svg, err := s.SurfaceSVG(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, svg, "<path")

	_, err = s.Resize(ctx, id, 0, 500)
	assert.ErrorIs(t, err, models.ErrInvalidViewport)
}

func TestLastPointerDownWins(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()

	_, err := s.PointerDown(ctx, id, 10, 10)
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, id, 20, 20)
	require.NoError(t, err)
	st, err := s.PointerDown(ctx, id, 30, 30)
	require.NoError(t, err)

	assert.True(t, st.Drawing)
	assert.Equal(t, 1, st.StrokePoints)
}

func TestMoveWithoutDownIsIgnored(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	st, err := s.PointerMove(context.Background(), id, 10, 10)
	require.NoError(t, err)
	assert.False(t, st.Drawing)
	assert.Zero(t, st.StrokePoints)
}

func TestRectanglePresetCommit(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	_, err := s.Resize(ctx, id, 800, 600)
	require.NoError(t, err)
	_, err = s.SetPreset(ctx, id, "rectangle")
	require.NoError(t, err)

	_, err = s.PointerDown(ctx, id, 100, 100)
	require.NoError(t, err)
	st, err := s.PointerMove(ctx, id, 150, 180)
	require.NoError(t, err)
	assert.Len(t, st.Preview, 4)
	assert.True(t, st.Closed)
	assert.Equal(t, 1, st.StrokePoints)

	st, err = s.PointerUp(ctx, id, 300, 200)
	require.NoError(t, err)
	assert.True(t, st.Committed)
	assert.Equal(t, 48, st.StrokePoints)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	stroke := sess.Stroke()
	// углы в координатах фигуры: поверхность 400×600
	assert.Equal(t, models.Point2D{X: 100, Y: -200}, stroke[11])
	assert.Equal(t, models.Point2D{X: -100, Y: -200}, stroke[47])
}

func TestDegenerateDragIsNotCommitted(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	_, err := s.SetPreset(ctx, id, "circle")
	require.NoError(t, err)

	_, err = s.PointerDown(ctx, id, 100, 100)
	require.NoError(t, err)
	st, err := s.PointerUp(ctx, id, 200, 200)
	require.NoError(t, err)
	assert.False(t, st.Committed)

	_, err = s.Extrude(ctx, id, "5")
	assert.ErrorIs(t, err, models.ErrInsufficientPoints)
}

func TestPentagonKeepsLastPreview(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	_, err := s.Resize(ctx, id, 800, 600)
	require.NoError(t, err)
	_, err = s.SetPreset(ctx, id, "pentagon")
	require.NoError(t, err)

	_, err = s.PointerDown(ctx, id, 200, 300)
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, id, 210, 300)
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, id, 220, 300)
	require.NoError(t, err)
	st, err := s.PointerUp(ctx, id, 300, 300)
	require.NoError(t, err)
	assert.False(t, st.Committed)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	expected := geometry.RegularPolygon(models.Point2D{}, 20, 5)
	stroke := sess.Stroke()
	require.Len(t, stroke, 5)
	for i := range expected {
		assert.InDelta(t, expected[i].X, stroke[i].X, 1e-9)
		assert.InDelta(t, expected[i].Y, stroke[i].Y, 1e-9)
	}
}

func TestUniformPresetsCommitFromRelease(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{UniformPresets: true})
	ctx := context.Background()
	_, err := s.Resize(ctx, id, 800, 600)
	require.NoError(t, err)
	_, err = s.SetPreset(ctx, id, "star")
	require.NoError(t, err)

	_, err = s.PointerDown(ctx, id, 200, 300)
	require.NoError(t, err)
	_, err = s.PointerMove(ctx, id, 210, 300)
	require.NoError(t, err)
	st, err := s.PointerUp(ctx, id, 300, 300)
	require.NoError(t, err)
	assert.True(t, st.Committed)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	stroke := sess.Stroke()
	require.Len(t, stroke, 10)
	assert.InDelta(t, -100, stroke[0].Y, 1e-9)
}

func TestHeartlikeIsPreviewOnly(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	_, err := s.SetPreset(ctx, id, "heartlike")
	require.NoError(t, err)

	_, err = s.PointerDown(ctx, id, 100, 100)
	require.NoError(t, err)
	st, err := s.PointerMove(ctx, id, 140, 130)
	require.NoError(t, err)
	assert.NotEmpty(t, st.Preview)
	_, err = s.PointerUp(ctx, id, 140, 130)
	require.NoError(t, err)

	_, err = s.Extrude(ctx, id, "5")
	assert.ErrorIs(t, err, models.ErrInsufficientPoints)
}

// ============================================================
// Images
// ============================================================

func TestImportImagesRequiresFiles(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	_, err := s.ImportImages(context.Background(), id, nil)
	assert.ErrorIs(t, err, models.ErrNoImages)
	assert.Equal(t, "upload at least one image", err.Error())
	assert.Zero(t, sceneLen(t, s, id))
}

func TestImportImagesSkipsCorruptFile(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	report, err := s.ImportImages(context.Background(), id, []imports.File{
		pngFile(t, "ok.png", 4, 2),
		{Name: "broken.png", Data: []byte("\x89PNG\r\n\x1a\nbroken")},
	})
	require.NoError(t, err)
	assert.Len(t, report.Added, 1)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, "broken.png", report.Notices[0].File)
	assert.Equal(t, 1, sceneLen(t, s, id))
}

// ============================================================
// Sessions & export
// ============================================================

func TestUnknownSession(t *testing.T) {
	s, _ := newTestStudio(t, &fakeMesher{}, Options{})
	_, err := s.PointerDown(context.Background(), "missing", 1, 1)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = s.ImportImages(context.Background(), "missing", []imports.File{pngFile(t, "a.png", 1, 1)})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestCloseSession(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	require.NoError(t, s.CloseSession(context.Background(), id))
	_, err := s.Session(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestPanelDecodedAfterCloseIsDropped(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	panel, err := s.importer.Panel(pngFile(t, "late.png", 2, 2))
	require.NoError(t, err)

	// декодирование завершилось уже после DELETE
	require.NoError(t, s.CloseSession(ctx, id))
	err = s.addPanel(ctx, sess, panel)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	n, err := sess.Registry.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSetColorAndPreset(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()

	view, err := s.SetColor(ctx, id, "Red")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", view.Color)

	_, err = s.SetColor(ctx, id, "#12345")
	assert.ErrorIs(t, err, models.ErrInvalidColor)

	_, err = s.SetPreset(ctx, id, "hexagon")
	assert.ErrorIs(t, err, models.ErrUnknownPreset)

	view, err = s.SetPreset(ctx, id, "star")
	require.NoError(t, err)
	assert.Equal(t, models.PresetStar, view.Preset)
}

func TestExportUsesSessionCamera(t *testing.T) {
	s, id := newTestStudio(t, &fakeMesher{}, Options{})
	ctx := context.Background()
	_, err := s.Resize(ctx, id, 1600, 400)
	require.NoError(t, err)
	drawFreehand(t, s, id, [2]float64{10, 10}, [2]float64{50, 10}, [2]float64{30, 40})
	_, err = s.Extrude(ctx, id, "3")
	require.NoError(t, err)

	page, err := s.Export(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, string(page), `"aspect":2`)

	var stl bytes.Buffer
	require.NoError(t, s.ExportSTL(ctx, id, &stl))
	assert.Equal(t, 84+50, stl.Len())
}
