package filters

import (
	"fmt"
	"image"

	"filterlab/internal/models"
	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// AutoKernelSize lets OpenCV derive the Gaussian kernel size from sigma.
const AutoKernelSize = 0

const (
	unsharpSigma        = 3.0
	unsharpOriginalGain = 1.5
	unsharpBlurGain     = -0.5
)

// sharpenKernel is the 4-neighbour Laplacian added back onto the identity.
var sharpenKernel = [3][3]float32{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// LaplacianSharpenFilter convolves with a fixed sharpening kernel. Results are
// rounded and saturated to the input depth.
type LaplacianSharpenFilter struct{}

func NewLaplacianSharpenFilter() *LaplacianSharpenFilter {
	return &LaplacianSharpenFilter{}
}

func (l *LaplacianSharpenFilter) Name() string {
	return "laplacian_sharpen_filter"
}

func (l *LaplacianSharpenFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32FC1)
	defer kernel.Close()

	for row := range sharpenKernel {
		for col, weight := range sharpenKernel[row] {
			kernel.SetFloatAt(row, col, weight)
		}
	}

	dst, err := newOutput(input, l.Name())
	if err != nil {
		return nil, err
	}

	// ddepth -1 keeps the source depth.
	gocv.Filter2D(input.GetMat(), dst.Ptr(), gocv.MatType(-1), kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderDefault)

	return dst, nil
}

// UnsharpMaskFilter boosts detail by subtracting a heavily blurred copy:
// 1.5*original - 0.5*blurred, saturated.
type UnsharpMaskFilter struct{}

func NewUnsharpMaskFilter() *UnsharpMaskFilter {
	return &UnsharpMaskFilter{}
}

func (u *UnsharpMaskFilter) Name() string {
	return "unsharp_mask_filter"
}

func (u *UnsharpMaskFilter) Apply(input *safe.Mat, params models.Parameters) (*safe.Mat, error) {
	blurred, err := newOutput(input, "unsharp_blur")
	if err != nil {
		return nil, err
	}
	defer blurred.Close()

	srcMat := input.GetMat()
	gocv.GaussianBlur(srcMat, blurred.Ptr(), image.Point{X: AutoKernelSize, Y: AutoKernelSize}, unsharpSigma, unsharpSigma, gocv.BorderDefault)

	dst, err := newOutput(input, u.Name())
	if err != nil {
		return nil, err
	}

	gocv.AddWeighted(srcMat, unsharpOriginalGain, blurred.GetMat(), unsharpBlurGain, 0, dst.Ptr())

	if dst.Empty() {
		dst.Close()
		return nil, fmt.Errorf("unsharp mask produced an empty result")
	}

	return dst, nil
}
