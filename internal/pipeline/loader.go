package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"filterlab/internal/models"
)

// DecodeImage turns an uploaded PNG or JPEG into an Image. Gray sources give
// one channel; everything else is converted to RGB with alpha dropped. The
// second return value is the detected format name.
func DecodeImage(data []byte) (models.Image, string, error) {
	if len(data) == 0 {
		return models.Image{}, "", models.NewDecodeError("upload", fmt.Errorf("no data"))
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Image{}, "", models.NewDecodeError("upload", err)
	}

	img, err := models.FromStdImage(src)
	if err != nil {
		return models.Image{}, format, models.NewDecodeError(format, err)
	}

	return img, format, nil
}

// SupportedExtension reports whether name has an accepted upload extension.
func SupportedExtension(name string) bool {
	return FormatFromExtension(name) != ""
}

// FormatFromExtension maps a file name to the decoder format it should hold,
// or "" when the extension is not accepted.
func FormatFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	default:
		return ""
	}
}
