package pipeline

import (
	"fmt"

	"filterlab/internal/models"
	"filterlab/internal/opencv/conversion"
	"filterlab/internal/opencv/safe"
)

// normalize brings a raw filter output to an 8-bit image of the expected size
// with one or three channels. Higher-precision samples are saturated.
func normalize(raw *safe.Mat, width, height int) (models.Image, error) {
	if err := safe.ValidateMatForOperation(raw, "normalize"); err != nil {
		return models.Image{}, err
	}

	if raw.Cols() != width || raw.Rows() != height {
		return models.Image{}, fmt.Errorf("filter changed dimensions from %dx%d to %dx%d",
			width, height, raw.Cols(), raw.Rows())
	}

	if channels := raw.Channels(); channels != 1 && channels != 3 {
		return models.Image{}, fmt.Errorf("filter produced %d channels", channels)
	}

	saturated, err := conversion.SaturateToUint8(raw)
	if err != nil {
		return models.Image{}, err
	}
	defer saturated.Close()

	return conversion.MatToImage(saturated)
}
