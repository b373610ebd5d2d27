package service

import (
	"context"
	"sync"

	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/models"
	"sketch-studio/internal/studio/scene"

	"github.com/google/uuid"
)

// ============================================================
// Session State
// ============================================================

const (
	StrokeWidth  = 2
	DefaultColor = "#000000"

	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// Session состояние одного авторского окна. Все события сессии
// обрабатываются под mu по одному.
type Session struct {
	mu sync.Mutex

	ID       string
	Canvas   models.Canvas
	Camera   models.Camera
	Color    string
	Preset   models.ShapePreset
	Registry scene.Registry

	capture capture
	closed  bool // сессия удалена; поздние загрузки в реестр не пишут
}

// View снимок состояния сессии для клиента.
type View struct {
	ID           string             `json:"id"`
	Surface      models.Surface     `json:"surface"`
	Camera       models.Camera      `json:"camera"`
	Preset       models.ShapePreset `json:"preset"`
	Color        string             `json:"color"`
	Drawing      bool               `json:"drawing"`
	StrokePoints int                `json:"stroke_points"`
	SurfaceEmpty bool               `json:"surface_empty"`
	SceneSize    int                `json:"scene_size"`
}

func newSession(id string, registry scene.Registry) *Session {
	camera := models.DefaultCamera()
	camera.Aspect = geometry.AspectForViewport(defaultViewportWidth, defaultViewportHeight)
	return &Session{
		ID:       id,
		Canvas:   models.Canvas{Surface: geometry.SurfaceForViewport(defaultViewportWidth, defaultViewportHeight)},
		Camera:   camera,
		Color:    DefaultColor,
		Preset:   models.PresetFreehand,
		Registry: registry,
	}
}

// view собирает снимок; вызывается под mu.
func (s *Session) view(ctx context.Context) (View, error) {
	n, err := s.Registry.Len(ctx)
	if err != nil {
		return View{}, err
	}
	return View{
		ID:           s.ID,
		Surface:      s.Canvas.Surface,
		Camera:       s.Camera,
		Preset:       s.Preset,
		Color:        s.Color,
		Drawing:      s.capture.active,
		StrokePoints: len(s.capture.stroke),
		SurfaceEmpty: s.Canvas.Empty(),
		SceneSize:    n,
	}, nil
}

// Stroke копия текущего штриха.
func (s *Session) Stroke() models.Stroke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture.stroke.Clone()
}

// ============================================================
// Session Manager
// ============================================================

// RegistryFactory создаёт реестр сцены для новой сессии.
type RegistryFactory func(sessionID string) scene.Registry

type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	newRegistry RegistryFactory
}

// NewSessionManager создаёт менеджер; nil-фабрика означает реестры в памяти.
func NewSessionManager(newRegistry RegistryFactory) *SessionManager {
	if newRegistry == nil {
		newRegistry = func(string) scene.Registry { return scene.NewMemory() }
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		newRegistry: newRegistry,
	}
}

func (m *SessionManager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	sess := newSession(id, m.newRegistry(id))
	m.sessions[id] = sess
	return sess
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

// Remove забывает сессию и возвращает её для освобождения ресурсов.
func (m *SessionManager) Remove(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return sess, nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
