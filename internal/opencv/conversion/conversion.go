package conversion

import (
	"fmt"

	"filterlab/internal/models"
	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ImageToMat copies an 8-bit image into a new native Mat. The Mat keeps the
// image's channel order (RGB for three channels).
func ImageToMat(img models.Image) (*safe.Mat, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input image: %w", err)
	}
	if err := safe.ValidateDimensions(img.Width, img.Height, "image to Mat"); err != nil {
		return nil, err
	}

	matType := gocv.MatTypeCV8UC1
	if img.Channels == 3 {
		matType = gocv.MatTypeCV8UC3
	}

	// NewMatFromBytes may alias the Go slice, so hand it a private copy and
	// deep-copy again into native memory before the slice goes out of scope.
	data := make([]byte, len(img.Pix))
	copy(data, img.Pix)

	view, err := gocv.NewMatFromBytes(img.Height, img.Width, matType, data)
	if err != nil {
		return nil, fmt.Errorf("Mat creation failed: %w", err)
	}
	defer view.Close()

	return safe.NewMatFromMat(view, "image_input")
}

// MatToImage copies an 8-bit one- or three-channel Mat back into a fresh image.
func MatToImage(src *safe.Mat) (models.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return models.Image{}, err
	}

	if err := safe.ValidateDisplayType(src.Type(), "Mat to image conversion"); err != nil {
		return models.Image{}, err
	}

	data, err := src.ToBytes()
	if err != nil {
		return models.Image{}, fmt.Errorf("pixel copy failed: %w", err)
	}

	img := models.Image{
		Width:    src.Cols(),
		Height:   src.Rows(),
		Channels: src.Channels(),
		Pix:      data,
	}
	if err := img.Validate(); err != nil {
		return models.Image{}, fmt.Errorf("converted image is malformed: %w", err)
	}

	return img, nil
}
