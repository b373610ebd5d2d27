package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sketch-studio/internal/studio/models"
)

// ============================================================
// SQLite Repository
// ============================================================

//go:embed migrations/001_init_scene.sql
var initSceneSQL string

// MemoryPath путь, при котором база живёт только в памяти процесса.
const MemoryPath = ":memory:"

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initSceneSQL); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Registry реестр сцены одной сессии.
func (r *Repository) Registry(sessionID string) *SceneRegistry {
	return &SceneRegistry{repo: r, sessionID: sessionID}
}

// DeleteSession удаляет все объекты сессии.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scene_objects WHERE session_id = ?`, sessionID)
	return err
}

// ============================================================
// Scene Registry (per session)
// ============================================================

type SceneRegistry struct {
	repo      *Repository
	sessionID string
}

func (s *SceneRegistry) Add(ctx context.Context, obj *models.SceneObject) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode scene object: %w", err)
	}
	_, err = s.repo.db.ExecContext(ctx, `
        INSERT INTO scene_objects (id, session_id, kind, payload)
        VALUES (?, ?, ?, ?)
    `, obj.ID, s.sessionID, string(obj.Kind), payload)
	if err != nil {
		return fmt.Errorf("insert scene object: %w", err)
	}
	return nil
}

func (s *SceneRegistry) List(ctx context.Context) ([]*models.SceneObject, error) {
	rows, err := s.repo.db.QueryContext(ctx, `
        SELECT payload
        FROM scene_objects
        WHERE session_id = ?
        ORDER BY seq
    `, s.sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SceneObject
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var obj models.SceneObject
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, fmt.Errorf("decode scene object: %w", err)
		}
		out = append(out, &obj)
	}
	return out, rows.Err()
}

func (s *SceneRegistry) Len(ctx context.Context) (int, error) {
	var n int
	row := s.repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scene_objects WHERE session_id = ?`, s.sessionID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SceneRegistry) Clear(ctx context.Context) error {
	return s.repo.DeleteSession(ctx, s.sessionID)
}

// ============================================================
// Connection
// ============================================================

// OpenSQLite открывает sqlite по указанному пути; пустой путь или MemoryPath: база в памяти.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	dsn := MemoryPath
	if dbPath != "" && dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout=5000", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// Одно соединение: база в памяти живёт ровно столько, сколько оно.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}
