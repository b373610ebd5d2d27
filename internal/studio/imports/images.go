package imports

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"math"
	"strings"

	"sketch-studio/internal/studio/geometry"
	"sketch-studio/internal/studio/models"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/unixpickle/essentials"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ============================================================
// Image Plane Importer
// ============================================================

const (
	dataURLPrefix = "data:image/png;base64,"

	// DefaultMaxPixels предел площади изображения (1024×1024), если другой не задан.
	DefaultMaxPixels = 1 << 20
)

// File загруженный файл изображения.
type File struct {
	Name string
	Data []byte
}

// Result итог обработки одного файла: панель либо ошибка.
type Result struct {
	File  string
	Panel *models.SceneObject
	Err   error
}

type Importer struct {
	maxSegments int
	maxPixels   int
	workers     int
}

// New создаёт импортёр. maxSegments ограничивает сетку панели по каждой оси (0 означает разрешение источника).
// maxPixels ограничивает w*h принимаемого изображения; 0 означает DefaultMaxPixels.
func New(maxSegments, maxPixels int) *Importer {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Importer{maxSegments: maxSegments, maxPixels: maxPixels}
}

// ImportAll декодирует файлы параллельно и вызывает onDone по мере готовности,
// без гарантии порядка. onDone может вызываться из разных горутин.
func (imp *Importer) ImportAll(files []File, onDone func(Result)) {
	essentials.ConcurrentMap(imp.workers, len(files), func(i int) {
		f := files[i]
		panel, err := imp.Panel(f)
		if err != nil {
			log.Printf("[IMPORT] %s skipped: %v", f.Name, err)
		}
		onDone(Result{File: f.Name, Panel: panel, Err: err})
	})
}

// Panel строит текстурированную панель размером с изображение, уложенную в плоскость земли.
func (imp *Importer) Panel(f File) (*models.SceneObject, error) {
	if !filetype.IsImage(f.Data) {
		return nil, models.ErrNotImage
	}

	// размеры проверяются до декодирования: сетка панели растёт как w*h
	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNotImage, err)
	}
	if cfg.Width*cfg.Height > imp.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", models.ErrImageTooLarge, cfg.Width, cfg.Height, imp.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNotImage, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", models.ErrNotImage)
	}

	dataURL, err := EncodeDataURL(img)
	if err != nil {
		return nil, err
	}

	segX, segY := imp.segments(w, h)
	log.Printf("[IMPORT] %s: %s %dx%d, grid %dx%d", f.Name, format, w, h, segX, segY)

	return &models.SceneObject{
		ID:       uuid.NewString(),
		Kind:     models.KindImagePanel,
		Material: models.Material{Kind: models.MaterialTexturedBasic, DoubleSide: true},
		Mesh:     geometry.Plane(float64(w), float64(h), segX, segY),
		Rotation: models.Point3D{X: -math.Pi / 2},
		Image: &models.ImageInfo{
			Name:    f.Name,
			Width:   w,
			Height:  h,
			DataURL: dataURL,
		},
	}, nil
}

func (imp *Importer) segments(w, h int) (int, int) {
	if imp.maxSegments <= 0 {
		return w, h
	}
	return min(w, imp.maxSegments), min(h, imp.maxSegments)
}

// EncodeDataURL перекодирует изображение в PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL обратное преобразование; используется при проверке экспорта.
func DecodeDataURL(url string) (image.Image, error) {
	payload, ok := strings.CutPrefix(url, dataURLPrefix)
	if !ok {
		return nil, fmt.Errorf("not a png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(raw))
}
