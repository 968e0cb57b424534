package models

import (
	"sync"
)

// ImageRepository holds the most recently uploaded image and the latest
// processed result. A new upload replaces both.
type ImageRepository struct {
	mu            sync.RWMutex
	originalImage *ImageData
	latestResult  *ProcessedResult
}

// NewImageRepository creates an empty repository
func NewImageRepository() *ImageRepository {
	return &ImageRepository{}
}

// SetOriginalImage stores a freshly decoded upload and drops the stale result.
func (r *ImageRepository) SetOriginalImage(img *ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.originalImage = img
	r.latestResult = nil
}

// GetOriginalImage retrieves the original image, or nil when nothing is loaded.
func (r *ImageRepository) GetOriginalImage() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.originalImage
}

// SetLatestResultIf records result only while original is still the stored
// upload. It reports whether the result was kept.
func (r *ImageRepository) SetLatestResultIf(original *ImageData, result *ProcessedResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if original == nil || r.originalImage != original {
		return false
	}
	r.latestResult = result
	return true
}

// GetLatestResult returns the most recent processed result, or nil.
func (r *ImageRepository) GetLatestResult() *ProcessedResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latestResult
}

// GetImageStats returns statistics about stored images
func (r *ImageRepository) GetImageStats() ImageStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := ImageStats{
		HasOriginal: r.originalImage != nil,
		HasResult:   r.latestResult != nil,
	}
	if r.originalImage != nil {
		stats.OriginalBytes = int64(len(r.originalImage.Image.Pix))
	}
	if r.latestResult != nil {
		stats.ResultBytes = int64(len(r.latestResult.Image.Pix))
	}
	return stats
}

// ImageStats contains statistics about the image repository
type ImageStats struct {
	HasOriginal   bool
	HasResult     bool
	OriginalBytes int64
	ResultBytes   int64
}

// ClearAll removes the original image and any result.
func (r *ImageRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.originalImage = nil
	r.latestResult = nil
}

// Shutdown releases all resources
func (r *ImageRepository) Shutdown() {
	r.ClearAll()
}
