package pipeline

import (
	"filterlab/internal/models"
)

// PrepareForDisplay returns the image to show on screen. Results are already
// normalised, so this is the identity; single-channel results stay gray.
// Scaling to the preview widget is left to the view.
func PrepareForDisplay(result *models.ProcessedResult) models.Image {
	if result == nil {
		return models.Image{}
	}
	return result.Image
}
