package pipeline

import (
	"fmt"
	"math"

	"filterlab/internal/models"
	"filterlab/internal/opencv/conversion"
	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// QualityMetrics compares a result with the image it was computed from.
type QualityMetrics struct {
	PSNR            float64 // Peak signal-to-noise ratio in dB; +Inf for identical images
	MeanAbsoluteErr float64 // Mean absolute sample difference
	ChangedFraction float64 // Share of samples that differ at all
}

// CalculateQualityMetrics compares original and processed sample by sample.
// A single-channel result is compared with the original's grayscale, the same
// conversion the edge filters use.
func CalculateQualityMetrics(original, processed models.Image) (*QualityMetrics, error) {
	if err := original.Validate(); err != nil {
		return nil, fmt.Errorf("original image invalid: %w", err)
	}
	if err := processed.Validate(); err != nil {
		return nil, fmt.Errorf("processed image invalid: %w", err)
	}

	if original.Width != processed.Width || original.Height != processed.Height {
		return nil, fmt.Errorf("image dimensions must match: original %dx%d, processed %dx%d",
			original.Width, original.Height, processed.Width, processed.Height)
	}

	reference, err := referenceMat(original, processed.Channels)
	if err != nil {
		return nil, err
	}
	defer reference.Close()

	result, err := conversion.ImageToMat(processed)
	if err != nil {
		return nil, fmt.Errorf("processed conversion failed: %w", err)
	}
	defer result.Close()

	diff := safe.NewEmptyMat("metrics_diff")
	defer diff.Close()
	gocv.AbsDiff(reference.GetMat(), result.GetMat(), diff.Ptr())

	// One sample per element so CountNonZero sees every channel.
	diffMat := diff.GetMat()
	samples := diffMat.Reshape(1, 0)
	defer samples.Close()
	changed := gocv.CountNonZero(samples)

	data, err := diff.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("difference copy failed: %w", err)
	}

	var squared, absolute float64
	for _, d := range data {
		v := float64(d)
		squared += v * v
		absolute += v
	}

	n := float64(len(data))
	mse := squared / n

	metrics := &QualityMetrics{
		MeanAbsoluteErr: absolute / n,
		ChangedFraction: float64(changed) / n,
		PSNR:            math.Inf(1),
	}
	if mse > 0 {
		metrics.PSNR = 10 * math.Log10(255*255/mse)
	}

	return metrics, nil
}

// referenceMat converts original to a Mat with the given channel count.
func referenceMat(original models.Image, channels int) (*safe.Mat, error) {
	mat, err := conversion.ImageToMat(original)
	if err != nil {
		return nil, fmt.Errorf("original conversion failed: %w", err)
	}
	if original.Channels == channels {
		return mat, nil
	}
	defer mat.Close()

	if channels == 1 {
		return conversion.ConvertToGrayscale(mat)
	}
	return conversion.GrayToRGB(mat)
}

// Description returns display strings for the status bar.
func (m *QualityMetrics) Description() map[string]string {
	psnr := "∞"
	if !math.IsInf(m.PSNR, 1) {
		psnr = fmt.Sprintf("%.2f dB", m.PSNR)
	}
	return map[string]string{
		"PSNR":    psnr,
		"MAE":     fmt.Sprintf("%.2f", m.MeanAbsoluteErr),
		"Changed": fmt.Sprintf("%.1f%%", m.ChangedFraction*100),
	}
}

// Summary is the one-line form shown in the status bar.
func (m *QualityMetrics) Summary() string {
	d := m.Description()
	return fmt.Sprintf("PSNR: %s | MAE: %s | Changed: %s", d["PSNR"], d["MAE"], d["Changed"])
}
