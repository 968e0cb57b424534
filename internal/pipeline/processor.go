package pipeline

import (
	"fmt"
	"time"

	"filterlab/internal/models"
	"filterlab/internal/opencv/conversion"
	"filterlab/internal/processing/filters"
)

// Processor applies one filter selection to an image. It holds no state
// between calls, so concurrent use is safe.
type Processor struct {
	logger Logger
}

func NewProcessor(logger Logger) *Processor {
	return &Processor{logger: logger}
}

// ApplyFilter resolves and validates the selection, runs the filter on a copy
// of img and returns the normalised 8-bit result. img is never modified.
func (p *Processor) ApplyFilter(img models.Image, selection models.FilterSelection) (*models.ProcessedResult, error) {
	start := time.Now()

	if err := img.Validate(); err != nil {
		return nil, models.NewDecodeError("input image", err)
	}

	filter, err := models.ResolveFilter(selection.Family, selection.Technique)
	if err != nil {
		return nil, err
	}

	params, err := models.ValidateParameters(filter, selection.Params)
	if err != nil {
		return nil, err
	}

	if filter == models.FilterCanny && params.Int(models.ParamLowThreshold) > params.Int(models.ParamHighThreshold) {
		p.logger.Warning("Processor", "canny thresholds inverted, OpenCV will swap them", map[string]interface{}{
			"low_threshold":  params.Int(models.ParamLowThreshold),
			"high_threshold": params.Int(models.ParamHighThreshold),
		})
	}

	impl, err := filters.ForFilter(filter)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Processor", "processing started", map[string]interface{}{
		"filter":   filter.String(),
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
	})

	input, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("input conversion failed: %w", err)
	}
	defer input.Close()

	raw, err := impl.Apply(input, params)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", impl.Name(), err)
	}
	defer raw.Close()

	p.logger.Debug("Processor", "raw filter output", map[string]interface{}{
		"filter":    impl.Name(),
		"data_type": conversion.GetMatProperties(raw).DataType,
	})

	output, err := normalize(raw, img.Width, img.Height)
	if err != nil {
		return nil, fmt.Errorf("normalisation after %s failed: %w", impl.Name(), err)
	}

	if filter.IsEdgeDetection() && output.Channels != 1 {
		return nil, fmt.Errorf("%s produced %d channels, edge maps are single-channel", impl.Name(), output.Channels)
	}

	result := &models.ProcessedResult{
		Image:      output,
		Filter:     filter,
		Parameters: params,
		Duration:   time.Since(start),
	}

	p.logger.Debug("Processor", "processing completed", map[string]interface{}{
		"filter":      filter.String(),
		"input_size":  fmt.Sprintf("%dx%dx%d", img.Width, img.Height, img.Channels),
		"output_size": fmt.Sprintf("%dx%dx%d", output.Width, output.Height, output.Channels),
		"duration":    result.Duration.String(),
	})

	return result, nil
}
