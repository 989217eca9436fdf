// Package image loads the background images annotations are drawn over.
package image

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tagdraw/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files whose extension no decoder
// handles.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Background is a decoded background image.
type Background struct {
	Path   string      // Original file path
	Image  image.Image // Decoded pixels
	Format string      // Decoder name: png, jpeg, tiff, ...
	DPI    float64     // From TIFF resolution tags, 0 if unknown
}

// Load decodes the image at path.
func Load(path string) (*Background, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bg := &Background{Path: path, Image: img, Format: format}
	if format == "tiff" {
		if dpi, err := tiffDPI(file); err == nil {
			bg.DPI = dpi
		}
	}
	return bg, nil
}

// Width returns the image width in pixels.
func (b *Background) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Background) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (b *Background) Size() geometry.Size {
	return geometry.NewSize(float64(b.Width()), float64(b.Height()))
}

// Name returns the file name without directories.
func (b *Background) Name() string {
	return filepath.Base(b.Path)
}

// TIFF tags and field types read by tiffDPI.
const (
	tagXResolution    = 282
	tagYResolution    = 283
	tagResolutionUnit = 296

	typeShort    = 3
	typeRational = 5

	unitCentimeter = 3
)

// tiffDPI reads the resolution tags of the first IFD.
func tiffDPI(r io.ReaderAt) (float64, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, 0); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, errors.New("not a TIFF file")
	}

	ifd := int64(order.Uint32(header[4:8]))
	count := make([]byte, 2)
	if _, err := r.ReadAt(count, ifd); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	unit := uint16(2)
	entry := make([]byte, 12)
	for i := int64(0); i < int64(order.Uint16(count)); i++ {
		if _, err := r.ReadAt(entry, ifd+2+i*12); err != nil {
			return 0, err
		}
		tag := order.Uint16(entry[0:2])
		typ := order.Uint16(entry[2:4])
		switch {
		case tag == tagXResolution && typ == typeRational:
			xRes = readRational(r, int64(order.Uint32(entry[8:12])), order)
		case tag == tagYResolution && typ == typeRational:
			yRes = readRational(r, int64(order.Uint32(entry[8:12])), order)
		case tag == tagResolutionUnit && typ == typeShort:
			unit = order.Uint16(entry[8:10])
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, errors.New("no resolution tags")
	}
	if unit == unitCentimeter {
		dpi *= 2.54
	}
	return dpi, nil
}

func readRational(r io.ReaderAt, offset int64, order binary.ByteOrder) float64 {
	buf := make([]byte, 8)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0
	}
	num, denom := order.Uint32(buf[0:4]), order.Uint32(buf[4:8])
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// SupportedFormats returns the file extensions Load accepts.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
