package models

import "errors"

// ============================================================
// User-facing errors
// ============================================================

var (
	ErrInsufficientPoints = errors.New("draw a shape first")
	ErrNoImages           = errors.New("upload at least one image")
	ErrInvalidDepth       = errors.New("depth must be a positive integer")
	ErrInvalidColor       = errors.New("invalid color value")
	ErrUnknownPreset      = errors.New("unknown shape preset")
	ErrDegenerateOutline  = errors.New("outline cannot be extruded")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoOutline          = errors.New("svg contains no closed outline")
	ErrNotImage           = errors.New("file is not a supported image")
	ErrImageTooLarge      = errors.New("image is too large")
	ErrInvalidOutline     = errors.New("svg outline is malformed")
	ErrInvalidViewport    = errors.New("viewport size must be positive")
)

// Notice сообщение пользователю о пропущенном файле или отклонённом действии.
type Notice struct {
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}
