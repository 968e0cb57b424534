package filters

import (
	"fmt"

	"filterlab/internal/models"
	"filterlab/internal/opencv/safe"
)

// Filter is one concrete image operation. Apply never modifies input and
// returns a new Mat owned by the caller.
type Filter interface {
	Name() string
	Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error)
}

// ForFilter returns the implementation for a resolved filter.
func ForFilter(filter models.Filter) (Filter, error) {
	switch filter {
	case models.FilterGaussianBlur:
		return NewGaussianFilter(), nil
	case models.FilterMedianBlur:
		return NewMedianFilter(), nil
	case models.FilterBilateral:
		return NewBilateralFilter(), nil
	case models.FilterLaplacianSharpen:
		return NewLaplacianSharpenFilter(), nil
	case models.FilterUnsharpMask:
		return NewUnsharpMaskFilter(), nil
	case models.FilterCanny:
		return NewCannyFilter(), nil
	case models.FilterSobel:
		return NewSobelFilter(), nil
	case models.FilterLaplacianEdges:
		return NewLaplacianEdgeFilter(), nil
	default:
		return nil, models.NewUnsupportedOperationError(filter.Family(), filter.Technique())
	}
}

func newOutput(src *safe.Mat, tag string) (*safe.Mat, error) {
	dst, err := safe.NewMatWithTag(src.Rows(), src.Cols(), src.Type(), tag)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}
	return dst, nil
}
