package scene

import (
	"context"
	"sync"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// Scene Registry
// ============================================================

// Registry набор объектов сцены в порядке добавления.
// Поддерживаются только добавление и полная очистка.
type Registry interface {
	Add(ctx context.Context, obj *models.SceneObject) error
	List(ctx context.Context) ([]*models.SceneObject, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Memory реестр в памяти процесса.
type Memory struct {
	mu      sync.Mutex
	objects []*models.SceneObject
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(_ context.Context, obj *models.SceneObject) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = append(m.objects, obj)
	return nil
}

func (m *Memory) List(_ context.Context) ([]*models.SceneObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.SceneObject, len(m.objects))
	copy(out, m.objects)
	return out, nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.objects), nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = nil
	return nil
}
