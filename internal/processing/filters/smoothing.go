package filters

import (
	"image"

	"filterlab/internal/models"
	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GaussianFilter blurs with a square Gaussian kernel.
type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_filter"
}

func (g *GaussianFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	kernelSize := params.Int(models.ParamKernelSize)
	sigma := params.Float(models.ParamSigma)

	dst, err := newOutput(input, g.Name())
	if err != nil {
		return nil, err
	}

	gocv.GaussianBlur(input.GetMat(), dst.Ptr(), image.Point{X: kernelSize, Y: kernelSize}, sigma, sigma, gocv.BorderDefault)

	return dst, nil
}

// MedianFilter replaces each sample with the median of its neighbourhood.
type MedianFilter struct{}

func NewMedianFilter() *MedianFilter {
	return &MedianFilter{}
}

func (m *MedianFilter) Name() string {
	return "median_filter"
}

func (m *MedianFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	dst, err := newOutput(input, m.Name())
	if err != nil {
		return nil, err
	}

	gocv.MedianBlur(input.GetMat(), dst.Ptr(), params.Int(models.ParamKernelSize))

	return dst, nil
}

// BilateralFilter smooths while preserving edges, weighting neighbours by
// both spatial distance and intensity difference.
type BilateralFilter struct{}

func NewBilateralFilter() *BilateralFilter {
	return &BilateralFilter{}
}

func (b *BilateralFilter) Name() string {
	return "bilateral_filter"
}

func (b *BilateralFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	dst, err := newOutput(input, b.Name())
	if err != nil {
		return nil, err
	}

	gocv.BilateralFilter(input.GetMat(), dst.Ptr(),
		params.Int(models.ParamDiameter),
		params.Float(models.ParamColorSigma),
		params.Float(models.ParamSpatialSigma))

	return dst, nil
}
