package pipeline

import (
	"fmt"

	"filterlab/internal/models"
	"filterlab/internal/opencv/conversion"

	"gocv.io/x/gocv"
)

// EncodeForDownload encodes a result as PNG. Single-channel results are
// broadcast to RGB first so the file is always a three-channel image.
func EncodeForDownload(result *models.ProcessedResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to encode")
	}

	mat, err := conversion.ImageToMat(result.Image)
	if err != nil {
		return nil, fmt.Errorf("result conversion failed: %w", err)
	}
	defer mat.Close()

	rgbMat, err := conversion.GrayToRGB(mat)
	if err != nil {
		return nil, fmt.Errorf("gray broadcast failed: %w", err)
	}
	defer rgbMat.Close()

	// OpenCV encoders expect BGR order.
	bgrMat, err := conversion.SwapRedBlue(rgbMat)
	if err != nil {
		return nil, fmt.Errorf("channel reorder failed: %w", err)
	}
	defer bgrMat.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bgrMat.GetMat())
	if err != nil {
		return nil, fmt.Errorf("PNG encoding failed: %w", err)
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	out := make([]byte, len(encoded))
	copy(out, encoded)

	return out, nil
}
