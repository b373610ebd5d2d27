package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"text/template"

	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/models"
)

// ============================================================
// Scene Exporter
// ============================================================

const (
	FileName    = "scene.html"
	STLFileName = "scene.stl"

	DefaultThreeURL    = "https://cdn.jsdelivr.net/npm/three@0.128.0/build/three.min.js"
	DefaultControlsURL = "https://cdn.jsdelivr.net/npm/three@0.128.0/examples/js/controls/OrbitControls.js"
)

//go:embed scene.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("scene").Parse(pageSource))

// Document данные, встраиваемые в страницу как JSON.
type Document struct {
	Camera  models.Camera `json:"camera"`
	Objects []Object      `json:"objects"`
}

// Object запечённый объект сцены: готовые буферы и материал.
type Object struct {
	Material   models.MaterialKind `json:"material"`
	DoubleSide bool                `json:"double_side,omitempty"`
	Positions  []float32           `json:"positions"`
	Normals    []float32           `json:"normals"`
	UVs        []float32           `json:"uvs,omitempty"`
	Index      []uint32            `json:"index,omitempty"`
	Position   models.Point3D      `json:"position"`
	Rotation   models.Point3D      `json:"rotation"`
	Texture    string              `json:"texture,omitempty"`
}

type Exporter struct {
	threeURL    string
	controlsURL string
}

func New() *Exporter {
	return &Exporter{threeURL: DefaultThreeURL, controlsURL: DefaultControlsURL}
}

// Bake переводит объекты сцены в экспортируемый вид.
// Объекты с неизвестным материалом пропускаются.
func Bake(camera models.Camera, objects []*models.SceneObject) Document {
	doc := Document{Camera: camera, Objects: make([]Object, 0, len(objects))}
	for _, obj := range objects {
		if obj == nil || obj.Mesh == nil {
			continue
		}
		out := Object{
			Material:  obj.Material.Kind,
			Positions: obj.Mesh.Positions,
			Normals:   obj.Mesh.Normals,
			Position:  obj.Position,
			Rotation:  obj.Rotation,
		}
		switch obj.Material.Kind {
		case models.MaterialNormal:
			out.Index = obj.Mesh.Index
		case models.MaterialTexturedBasic:
			if obj.Image == nil {
				continue
			}
			out.DoubleSide = obj.Material.DoubleSide
			out.UVs = obj.Mesh.UVs
			out.Index = obj.Mesh.Index
			out.Texture = obj.Image.DataURL
		default:
			continue
		}
		doc.Objects = append(doc.Objects, out)
	}
	return doc
}

// Render собирает самодостаточную HTML-страницу сцены.
func (e *Exporter) Render(camera models.Camera, objects []*models.SceneObject) ([]byte, error) {
	doc := Bake(camera, objects)
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]string{
		"Title":       "Exported Scene",
		"ThreeURL":    e.threeURL,
		"ControlsURL": e.controlsURL,
		"SceneJSON":   string(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	log.Printf("[EXPORT] %d of %d objects, %d bytes", len(doc.Objects), len(objects), buf.Len())
	return buf.Bytes(), nil
}

// WriteSTL пишет твёрдые тела сцены в бинарный STL. Панели изображений не входят.
func (e *Exporter) WriteSTL(w io.Writer, objects []*models.SceneObject) error {
	var meshes []*models.Mesh
	for _, obj := range objects {
		if obj != nil && obj.Kind == models.KindSolid {
			meshes = append(meshes, obj.Mesh)
		}
	}
	return geometry.WriteSTL(w, meshes)
}
