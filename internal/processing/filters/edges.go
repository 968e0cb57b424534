package filters

import (
	"fmt"

	"filterlab/internal/models"
	"filterlab/internal/opencv/conversion"
	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const sobelKernelSize = 5

// Edge filters run on the luma plane and always return a single channel.

type CannyFilter struct{}

func NewCannyFilter() *CannyFilter {
	return &CannyFilter{}
}

func (c *CannyFilter) Name() string {
	return "canny_filter"
}

func (c *CannyFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion failed: %w", err)
	}
	defer gray.Close()

	dst, err := newOutput(gray, c.Name())
	if err != nil {
		return nil, err
	}

	gocv.Canny(gray.GetMat(), dst.Ptr(),
		float32(params.Float(models.ParamLowThreshold)),
		float32(params.Float(models.ParamHighThreshold)))

	return dst, nil
}

// SobelFilter takes the directional derivative of the given orders with a
// 5x5 aperture, then keeps the saturated magnitude.
type SobelFilter struct{}

func NewSobelFilter() *SobelFilter {
	return &SobelFilter{}
}

func (s *SobelFilter) Name() string {
	return "sobel_filter"
}

func (s *SobelFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	xOrder := params.Int(models.ParamXOrder)
	yOrder := params.Int(models.ParamYOrder)
	if xOrder+yOrder == 0 {
		return nil, models.NewValidationError(models.ParamYOrder, yOrder, "xOrder and yOrder cannot both be zero")
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion failed: %w", err)
	}
	defer gray.Close()

	derivative := safe.NewEmptyMat("sobel_derivative")
	defer derivative.Close()

	gocv.Sobel(gray.GetMat(), derivative.Ptr(), gocv.MatTypeCV64F, xOrder, yOrder, sobelKernelSize, 1, 0, gocv.BorderDefault)

	return conversion.SaturateToUint8(derivative)
}

// LaplacianEdgeFilter keeps the saturated magnitude of the second derivative.
type LaplacianEdgeFilter struct{}

func NewLaplacianEdgeFilter() *LaplacianEdgeFilter {
	return &LaplacianEdgeFilter{}
}

func (l *LaplacianEdgeFilter) Name() string {
	return "laplacian_edge_filter"
}

func (l *LaplacianEdgeFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion failed: %w", err)
	}
	defer gray.Close()

	response := safe.NewEmptyMat("laplacian_response")
	defer response.Close()

	gocv.Laplacian(gray.GetMat(), response.Ptr(), gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	return conversion.SaturateToUint8(response)
}
