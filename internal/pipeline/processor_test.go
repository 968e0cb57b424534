package pipeline

import (
	"errors"
	"sort"
	"testing"

	"filterlab/internal/logger"
	"filterlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allSelections = []struct {
	family    models.Family
	technique models.Technique
}{
	{models.FamilySmoothing, models.TechniqueGaussian},
	{models.FamilySmoothing, models.TechniqueMedian},
	{models.FamilySmoothing, models.TechniqueBilateral},
	{models.FamilySharpening, models.TechniqueLaplacian},
	{models.FamilySharpening, models.TechniqueUnsharpMask},
	{models.FamilyEdgeDetection, models.TechniqueCanny},
	{models.FamilyEdgeDetection, models.TechniqueSobel},
	{models.FamilyEdgeDetection, models.TechniqueLaplacian},
}

func newTestProcessor() *Processor {
	return NewProcessor(logger.NoOpLogger{})
}

func uniformImage(t *testing.T, width, height, channels int, value uint8) models.Image {
	t.Helper()
	img, err := models.NewImage(width, height, channels)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

// gradientImage has distinct values per channel so channel mixups show up.
func gradientImage(t *testing.T, width, height, channels int) models.Image {
	t.Helper()
	img, err := models.NewImage(width, height, channels)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < channels; c++ {
				img.Set(x, y, c, uint8((x*37+y*91+c*53)%256))
			}
		}
	}
	return img
}

func checkerboard(t *testing.T, width, height, channels int) models.Image {
	t.Helper()
	img, err := models.NewImage(width, height, channels)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if (x+y)%2 == 1 {
				v = 255
			}
			for c := 0; c < channels; c++ {
				img.Set(x, y, c, v)
			}
		}
	}
	return img
}

func defaultSelection(t *testing.T, family models.Family, technique models.Technique) models.FilterSelection {
	t.Helper()
	filter, err := models.ResolveFilter(family, technique)
	require.NoError(t, err)
	return models.NewFilterSelection(family, technique, models.DefaultParameters(filter))
}

func TestApplyFilterPreservesShape(t *testing.T) {
	p := newTestProcessor()

	for _, channels := range []int{1, 3} {
		input := gradientImage(t, 13, 9, channels)
		for _, sel := range allSelections {
			selection := defaultSelection(t, sel.family, sel.technique)
			t.Run(sel.family.String()+"/"+sel.technique.String(), func(t *testing.T) {
				result, err := p.ApplyFilter(input, selection)
				require.NoError(t, err)

				assert.Equal(t, input.Width, result.Image.Width)
				assert.Equal(t, input.Height, result.Image.Height)
				assert.Len(t, result.Image.Pix, result.Image.Width*result.Image.Height*result.Image.Channels)

				if result.Filter.IsEdgeDetection() {
					assert.Equal(t, 1, result.Image.Channels)
				} else {
					assert.Equal(t, channels, result.Image.Channels)
				}
			})
		}
	}
}

func TestApplyFilterIsDeterministic(t *testing.T) {
	p := newTestProcessor()
	input := gradientImage(t, 16, 12, 3)

	for _, sel := range allSelections {
		selection := defaultSelection(t, sel.family, sel.technique)
		first, err := p.ApplyFilter(input, selection)
		require.NoError(t, err)
		second, err := p.ApplyFilter(input, selection)
		require.NoError(t, err)

		assert.True(t, first.Image.Equal(second.Image), "%s/%s differs between runs", sel.family, sel.technique)
	}
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	p := newTestProcessor()
	input := gradientImage(t, 10, 10, 3)
	before := input.Clone()

	for _, sel := range allSelections {
		_, err := p.ApplyFilter(input, defaultSelection(t, sel.family, sel.technique))
		require.NoError(t, err)
	}

	assert.True(t, before.Equal(input))
}

func TestGaussianOnUniformImage(t *testing.T) {
	p := newTestProcessor()
	input := uniformImage(t, 4, 4, 1, 127)

	result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilySmoothing, models.TechniqueGaussian,
		map[string]interface{}{models.ParamKernelSize: 3, models.ParamSigma: 1.5}))
	require.NoError(t, err)

	assert.True(t, result.Image.Equal(input), "got %v", result.Image.Pix)
	assert.Equal(t, models.FilterGaussianBlur, result.Filter)
	assert.Equal(t, 3, result.Parameters.Int(models.ParamKernelSize))
}

func TestMedianRemovesImpulse(t *testing.T) {
	p := newTestProcessor()
	input := uniformImage(t, 5, 5, 1, 100)
	input.Set(2, 2, 0, 255)

	result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilySmoothing, models.TechniqueMedian,
		map[string]interface{}{models.ParamKernelSize: 3}))
	require.NoError(t, err)

	assert.True(t, result.Image.Equal(uniformImage(t, 5, 5, 1, 100)))
}

func TestMedianReplicatesBorder(t *testing.T) {
	p := newTestProcessor()
	selection := models.NewFilterSelection(models.FamilySmoothing, models.TechniqueMedian,
		map[string]interface{}{models.ParamKernelSize: 3})

	// Replication gives x=0 the window {0,0,255}; reflect-101 would give {255,0,255}.
	input, err := models.NewImage(3, 1, 1)
	require.NoError(t, err)
	copy(input.Pix, []uint8{0, 255, 255})

	result, err := p.ApplyFilter(input, selection)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), result.Image.At(0, 0, 0))
	assert.Equal(t, uint8(255), result.Image.At(2, 0, 0))

	grad := gradientImage(t, 7, 6, 1)
	result, err = p.ApplyFilter(grad, selection)
	require.NoError(t, err)
	want := referenceMedian3(grad)
	assert.Equal(t, want[0], result.Image.At(0, 0, 0))
	assert.Equal(t, want, result.Image.Pix)
}

func TestBilateralKeepsUniformImage(t *testing.T) {
	p := newTestProcessor()
	input := uniformImage(t, 8, 8, 3, 42)

	result, err := p.ApplyFilter(input, defaultSelection(t, models.FamilySmoothing, models.TechniqueBilateral))
	require.NoError(t, err)

	assert.True(t, result.Image.Equal(input))
}

func TestLaplacianSharpenCheckerboard(t *testing.T) {
	p := newTestProcessor()
	selection := models.NewFilterSelection(models.FamilySharpening, models.TechniqueLaplacian, nil)

	// With reflect-101 borders every 0 sees four 255 neighbours (-1020) and
	// every 255 sees four zeros (1275); both saturate back to the input.
	input := checkerboard(t, 2, 2, 1)
	result, err := p.ApplyFilter(input, selection)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 255, 0}, result.Image.Pix)

	rgb := checkerboard(t, 2, 2, 3)
	result, err = p.ApplyFilter(rgb, selection)
	require.NoError(t, err)
	assert.True(t, result.Image.Equal(rgb))
}

func TestLaplacianSharpenMatchesReferenceCorrelation(t *testing.T) {
	p := newTestProcessor()
	input := gradientImage(t, 7, 6, 1)

	result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilySharpening, models.TechniqueLaplacian, nil))
	require.NoError(t, err)

	assert.Equal(t, referenceSharpen(input), result.Image.Pix)
}

func TestUnsharpMaskKeepsUniformAndClamps(t *testing.T) {
	p := newTestProcessor()
	selection := models.NewFilterSelection(models.FamilySharpening, models.TechniqueUnsharpMask, nil)

	flat := uniformImage(t, 10, 10, 3, 200)
	result, err := p.ApplyFilter(flat, selection)
	require.NoError(t, err)
	assert.True(t, result.Image.Equal(flat))

	board := checkerboard(t, 8, 8, 1)
	result, err = p.ApplyFilter(board, selection)
	require.NoError(t, err)
	// The blur of a checkerboard sits near 127, so overshoot must saturate.
	for i, v := range result.Image.Pix {
		if board.Pix[i] == 255 {
			assert.Equal(t, uint8(255), v)
		} else {
			assert.Equal(t, uint8(0), v)
		}
	}
}

func TestCannyOnFlatImageIsEmpty(t *testing.T) {
	p := newTestProcessor()
	input := uniformImage(t, 5, 5, 3, 180)

	for _, thresholds := range [][2]int{{50, 150}, {0, 0}, {200, 10}} {
		result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilyEdgeDetection, models.TechniqueCanny,
			map[string]interface{}{
				models.ParamLowThreshold:  thresholds[0],
				models.ParamHighThreshold: thresholds[1],
			}))
		require.NoError(t, err)

		assert.Equal(t, 1, result.Image.Channels)
		assert.Equal(t, make([]uint8, 25), result.Image.Pix)
	}
}

func TestCannyOutputIsBinary(t *testing.T) {
	p := newTestProcessor()
	input := checkerboard(t, 16, 16, 3)

	result, err := p.ApplyFilter(input, defaultSelection(t, models.FamilyEdgeDetection, models.TechniqueCanny))
	require.NoError(t, err)

	for _, v := range result.Image.Pix {
		assert.True(t, v == 0 || v == 255, "unexpected value %d", v)
	}
}

func TestSobelRespondsToVerticalStep(t *testing.T) {
	p := newTestProcessor()
	input, err := models.NewImage(12, 6, 1)
	require.NoError(t, err)
	for y := 0; y < 6; y++ {
		for x := 6; x < 12; x++ {
			input.Set(x, y, 0, 255)
		}
	}

	result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilyEdgeDetection, models.TechniqueSobel,
		map[string]interface{}{models.ParamXOrder: 1, models.ParamYOrder: 0}))
	require.NoError(t, err)

	require.Equal(t, 1, result.Image.Channels)
	for y := 0; y < 6; y++ {
		assert.Zero(t, result.Image.At(0, y, 0))
		assert.Zero(t, result.Image.At(2, y, 0))
		assert.Equal(t, uint8(255), result.Image.At(5, y, 0))
		assert.Equal(t, uint8(255), result.Image.At(6, y, 0))
	}

	// The step has no vertical component.
	result, err = p.ApplyFilter(input, models.NewFilterSelection(models.FamilyEdgeDetection, models.TechniqueSobel,
		map[string]interface{}{models.ParamXOrder: 0, models.ParamYOrder: 1}))
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, 72), result.Image.Pix)
}

func TestLaplacianEdgesOnFlatAndStep(t *testing.T) {
	p := newTestProcessor()
	selection := models.NewFilterSelection(models.FamilyEdgeDetection, models.TechniqueLaplacian, nil)

	flat := uniformImage(t, 6, 6, 3, 90)
	result, err := p.ApplyFilter(flat, selection)
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, 36), result.Image.Pix)

	step := uniformImage(t, 6, 6, 1, 0)
	for y := 0; y < 6; y++ {
		for x := 3; x < 6; x++ {
			step.Set(x, y, 0, 100)
		}
	}
	result, err = p.ApplyFilter(step, selection)
	require.NoError(t, err)
	// The negative lobe is kept as magnitude.
	assert.Equal(t, uint8(100), result.Image.At(2, 0, 0))
	assert.Equal(t, uint8(100), result.Image.At(3, 0, 0))
	assert.Zero(t, result.Image.At(0, 0, 0))
}

func TestKernelSizeRejectedBeforeProcessing(t *testing.T) {
	p := newTestProcessor()
	input := gradientImage(t, 8, 8, 3)

	for _, technique := range []models.Technique{models.TechniqueGaussian, models.TechniqueMedian} {
		for _, k := range []interface{}{2, 4, 1, 27, 0, -3, 5.5} {
			params := models.DefaultParameters(mustResolve(t, models.FamilySmoothing, technique))
			params[models.ParamKernelSize] = k

			result, err := p.ApplyFilter(input, models.NewFilterSelection(models.FamilySmoothing, technique, params))
			require.Error(t, err)
			assert.Nil(t, result)

			var validationErr *models.ValidationError
			require.True(t, errors.As(err, &validationErr), "kernelSize %v: %v", k, err)
			assert.Equal(t, models.ParamKernelSize, validationErr.Parameter)
		}
	}
}

func TestSobelZeroOrderRejected(t *testing.T) {
	p := newTestProcessor()

	_, err := p.ApplyFilter(gradientImage(t, 8, 8, 1), models.NewFilterSelection(models.FamilyEdgeDetection, models.TechniqueSobel,
		map[string]interface{}{models.ParamXOrder: 0, models.ParamYOrder: 0}))

	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, models.ParamYOrder, validationErr.Parameter)
}

func TestUnsupportedSelection(t *testing.T) {
	p := newTestProcessor()

	_, err := p.ApplyFilter(gradientImage(t, 4, 4, 3), models.NewFilterSelection(models.FamilySharpening, models.TechniqueCanny, nil))

	var unsupported *models.UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, models.FamilySharpening, unsupported.Family)
	assert.Equal(t, models.TechniqueCanny, unsupported.Technique)
}

func TestMalformedImageIsDecodeError(t *testing.T) {
	p := newTestProcessor()
	bad := models.Image{Width: 4, Height: 4, Channels: 3, Pix: make([]uint8, 10)}

	_, err := p.ApplyFilter(bad, defaultSelection(t, models.FamilySmoothing, models.TechniqueGaussian))

	var decodeErr *models.DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestPrepareForDisplayIsIdentity(t *testing.T) {
	p := newTestProcessor()
	input := gradientImage(t, 6, 6, 3)

	result, err := p.ApplyFilter(input, defaultSelection(t, models.FamilyEdgeDetection, models.TechniqueCanny))
	require.NoError(t, err)

	shown := PrepareForDisplay(result)
	assert.Equal(t, 1, shown.Channels)
	assert.True(t, shown.Equal(result.Image))

	assert.True(t, PrepareForDisplay(nil).Empty())
}

func mustResolve(t *testing.T, family models.Family, technique models.Technique) models.Filter {
	t.Helper()
	filter, err := models.ResolveFilter(family, technique)
	require.NoError(t, err)
	return filter
}

// referenceSharpen correlates a gray image with the sharpening kernel using
// reflect-101 borders and saturates to 8 bits.
func referenceSharpen(img models.Image) []uint8 {
	reflect := func(i, n int) int {
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i
			}
			if i >= n {
				i = 2*n - 2 - i
			}
		}
		return i
	}
	at := func(x, y int) int {
		return int(img.At(reflect(x, img.Width), reflect(y, img.Height), 0))
	}

	out := make([]uint8, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := 5*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out[y*img.Width+x] = uint8(v)
		}
	}
	return out
}

// referenceMedian3 is a 3x3 median with replicated borders.
func referenceMedian3(img models.Image) []uint8 {
	clamp := func(i, n int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}

	out := make([]uint8, img.Width*img.Height)
	window := make([]int, 0, 9)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, int(img.At(clamp(x+dx, img.Width), clamp(y+dy, img.Height), 0)))
				}
			}
			sort.Ints(window)
			out[y*img.Width+x] = uint8(window[4])
		}
	}
	return out
}
