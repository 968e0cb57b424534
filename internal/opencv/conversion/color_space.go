package conversion

import (
	"fmt"

	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ConvertToGrayscale reduces an RGB Mat to one channel using OpenCV's luma
// weights (0.299 R + 0.587 G + 0.114 B). Single-channel input is cloned.
func ConvertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	switch src.Channels() {
	case 1:
		return src.Clone()
	case 3:
		return convertColor(src, gocv.ColorRGBToGray, gocv.MatTypeCV8UC1, "grayscale")
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}
}

// GrayToRGB replicates a single channel into three. Three-channel input is cloned.
func GrayToRGB(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "gray to RGB conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if src.Channels() == 3 {
		return src.Clone()
	}

	return convertColor(src, gocv.ColorGrayToRGB, gocv.MatTypeCV8UC3, "gray_to_rgb")
}

// SwapRedBlue converts between RGB and BGR channel order.
func SwapRedBlue(src *safe.Mat) (*safe.Mat, error) {
	return convertColor(src, gocv.ColorRGBToBGR, gocv.MatTypeCV8UC3, "swap_rb")
}

func convertColor(src *safe.Mat, code gocv.ColorConversionCode, dstType gocv.MatType, tag string) (*safe.Mat, error) {
	if err := safe.ValidateColorConversion(src, code); err != nil {
		return nil, err
	}

	dst, err := safe.NewMatWithTag(src.Rows(), src.Cols(), dstType, tag)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	gocv.CvtColor(src.GetMat(), dst.Ptr(), code)

	return dst, nil
}
