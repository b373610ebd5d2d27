package models

// ============================================================
// Scene objects
// ============================================================

type ObjectKind string

const (
	KindSolid      ObjectKind = "solid"
	KindImagePanel ObjectKind = "image_panel"
)

// MaterialKind тег материала, по которому экспортёр выбирает сериализацию.
type MaterialKind string

const (
	MaterialNormal        MaterialKind = "normal"
	MaterialTexturedBasic MaterialKind = "textured_basic"
)

type Material struct {
	Kind       MaterialKind `json:"kind"`
	DoubleSide bool         `json:"double_side,omitempty"`
}

// Mesh буферы геометрии в раскладке three.js BufferGeometry.
// Index пустой для неиндексированной геометрии.
type Mesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	UVs       []float32 `json:"uvs,omitempty"`
	Index     []uint32  `json:"index,omitempty"`
}

// VertexCount количество вершин в буфере позиций.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions) / 3
}

// ImageInfo исходное изображение панели.
type ImageInfo struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DataURL string `json:"data_url"`
}

// SceneObject твёрдое тело или панель изображения в Scene Registry.
type SceneObject struct {
	ID       string     `json:"id"`
	Kind     ObjectKind `json:"kind"`
	Material Material   `json:"material"`
	Mesh     *Mesh      `json:"mesh"`
	Position Point3D    `json:"position"`
	Rotation Point3D    `json:"rotation"`
	Image    *ImageInfo `json:"image,omitempty"`
}
