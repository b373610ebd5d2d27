package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"sketch-studio/internal/studio/export"
	"sketch-studio/internal/studio/imports"
	"sketch-studio/internal/studio/models"
	"sketch-studio/internal/studio/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Studio Handler
// ============================================================

type StudioHandler struct {
	studio       *service.Studio
	defaultDepth int
}

func NewStudioHandler(studio *service.Studio, defaultDepth int) *StudioHandler {
	return &StudioHandler{studio: studio, defaultDepth: defaultDepth}
}

// Register вешает маршруты студии на router.
func (h *StudioHandler) Register(router fiber.Router) {
	router.Get("/", h.Page)
	router.Get("/presets", h.ListPresets)

	router.Post("/sessions", h.CreateSession)
	router.Get("/sessions/:id", h.GetSession)
	router.Delete("/sessions/:id", h.CloseSession)

	router.Post("/sessions/:id/resize", h.Resize)
	router.Post("/sessions/:id/preset", h.SetPreset)
	router.Post("/sessions/:id/color", h.SetColor)
	router.Post("/sessions/:id/pointer/:event", h.Pointer)
	router.Post("/sessions/:id/outline", h.ImportOutline)
	router.Post("/sessions/:id/extrude", h.Extrude)
	router.Post("/sessions/:id/images", h.ImportImages)
	router.Post("/sessions/:id/clear", h.Clear)

	router.Get("/sessions/:id/scene", h.Scene)
	router.Get("/sessions/:id/surface.svg", h.Surface)
	router.Get("/sessions/:id/export", h.Export)
	router.Get("/sessions/:id/export.stl", h.ExportSTL)
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type presetRequest struct {
	Preset string `json:"preset"`
}

type colorRequest struct {
	Color string `json:"color"`
}

type pointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type extrudeRequest struct {
	Depth json.RawMessage `json:"depth"`
}

// ============================================================
// Sessions
// ============================================================

// ListPresets перечисляет пресеты фигур для селектора.
func (h *StudioHandler) ListPresets(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": models.Presets()})
}

func (h *StudioHandler) CreateSession(c fiber.Ctx) error {
	view, err := h.studio.CreateSession(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

func (h *StudioHandler) GetSession(c fiber.Ctx) error {
	view, err := h.studio.Session(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *StudioHandler) CloseSession(c fiber.Ctx) error {
	if err := h.studio.CloseSession(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Surface controls
// ============================================================

func (h *StudioHandler) Resize(c fiber.Ctx) error {
	var req resizeRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	view, err := h.studio.Resize(c.Context(), c.Params("id"), req.Width, req.Height)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *StudioHandler) SetPreset(c fiber.Ctx) error {
	var req presetRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	view, err := h.studio.SetPreset(c.Context(), c.Params("id"), req.Preset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *StudioHandler) SetColor(c fiber.Ctx) error {
	var req colorRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	view, err := h.studio.SetColor(c.Context(), c.Params("id"), req.Color)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Pointer принимает down/move/up в пикселях поверхности.
func (h *StudioHandler) Pointer(c fiber.Ctx) error {
	var req pointerRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id := c.Params("id")
	var (
		state service.PointerState
		err   error
	)
	switch c.Params("event") {
	case "down":
		state, err = h.studio.PointerDown(c.Context(), id, req.X, req.Y)
	case "move":
		state, err = h.studio.PointerMove(c.Context(), id, req.X, req.Y)
	case "up":
		state, err = h.studio.PointerUp(c.Context(), id, req.X, req.Y)
	default:
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "unknown pointer event"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// ImportOutline загружает SVG-контур в качестве текущего штриха.
func (h *StudioHandler) ImportOutline(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[STUDIO] FormFile error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	data, err := readFile(file)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	view, err := h.studio.ImportOutline(c.Context(), c.Params("id"), bytes.NewReader(data))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ============================================================
// Scene building
// ============================================================

func (h *StudioHandler) Extrude(c fiber.Ctx) error {
	var req extrudeRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errInvalidJSON.Error()})
		}
	}

	obj, err := h.studio.Extrude(c.Context(), c.Params("id"), h.depthValue(req.Depth))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":       obj.ID,
		"kind":     obj.Kind,
		"vertices": obj.Mesh.VertexCount(),
	})
}

// depthValue приводит число или строку из JSON к строке; при отсутствии поля берётся глубина по умолчанию.
func (h *StudioHandler) depthValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return strconv.Itoa(h.defaultDepth)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ImportImages принимает файлы из поля files (или file) multipart-формы.
func (h *StudioHandler) ImportImages(c fiber.Ctx) error {
	var files []imports.File
	if form, err := c.MultipartForm(); err == nil {
		for _, field := range []string{"files", "file"} {
			for _, fh := range form.File[field] {
				data, err := readFile(fh)
				if err != nil {
					return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
				}
				files = append(files, imports.File{Name: fh.Filename, Data: data})
			}
		}
	}
	log.Printf("[STUDIO] images upload: %d files", len(files))

	report, err := h.studio.ImportImages(c.Context(), c.Params("id"), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *StudioHandler) Clear(c fiber.Ctx) error {
	if err := h.studio.Clear(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// ============================================================
// Read models & export
// ============================================================

func (h *StudioHandler) Scene(c fiber.Ctx) error {
	objects, err := h.studio.Scene(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if objects == nil {
		objects = []*models.SceneObject{}
	}
	return c.JSON(fiber.Map{"objects": objects})
}

func (h *StudioHandler) Surface(c fiber.Ctx) error {
	svg, err := h.studio.SurfaceSVG(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func (h *StudioHandler) Export(c fiber.Ctx) error {
	page, err := h.studio.Export(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	return c.Send(page)
}

func (h *StudioHandler) ExportSTL(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.studio.ExportSTL(c.Context(), c.Params("id"), &buf); err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "model/stl")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.STLFileName))
	return c.Send(buf.Bytes())
}

// ============================================================
// Helpers
// ============================================================

// noticeErrors ошибки пользовательского ввода: 400 и текст уведомления.
var noticeErrors = []error{
	models.ErrInsufficientPoints,
	models.ErrNoImages,
	models.ErrInvalidDepth,
	models.ErrInvalidColor,
	models.ErrUnknownPreset,
	models.ErrDegenerateOutline,
	models.ErrNoOutline,
	models.ErrInvalidOutline,
	models.ErrNotImage,
	models.ErrImageTooLarge,
	models.ErrInvalidViewport,
}

func respondError(c fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrSessionNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	for _, target := range noticeErrors {
		if errors.Is(err, target) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error":  err.Error(),
				"notice": target.Error(),
			})
		}
	}
	log.Printf("[STUDIO] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

var (
	errEmptyBody   = errors.New("empty body")
	errInvalidJSON = errors.New("invalid json")
)

func decodeBody(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
