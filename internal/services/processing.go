package services

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
)

var (
	// ErrNoImage means nothing has been uploaded yet. Callers show the idle state.
	ErrNoImage = errors.New("no image loaded")
	// ErrNoResult means there is nothing to download yet.
	ErrNoResult = errors.New("no processed result available")
	// ErrSuperseded means a newer request started while this one ran; its result was discarded.
	ErrSuperseded = errors.New("processing request superseded by a newer one")
)

// FilterApplier runs one filter selection against an image.
type FilterApplier interface {
	ApplyFilter(img models.Image, selection models.FilterSelection) (*models.ProcessedResult, error)
}

// ProcessingService re-runs the pipeline from the stored original on every
// request. When requests overlap only the most recently started one is kept.
type ProcessingService struct {
	applier    FilterApplier
	imageRepo  *models.ImageRepository
	logger     logger.Logger
	workerPool chan struct{}

	generation atomic.Uint64
	commitMu   sync.Mutex

	statsMu sync.RWMutex
	stats   ProcessingStats
}

// NewProcessingService creates a new processing service
func NewProcessingService(applier FilterApplier, imageRepo *models.ImageRepository, log logger.Logger) *ProcessingService {
	// At least two slots so a newer request never queues behind the one it supersedes.
	count := max(runtime.NumCPU(), 2)
	workers := make(chan struct{}, count)
	for i := 0; i < count; i++ {
		workers <- struct{}{}
	}

	return &ProcessingService{
		applier:    applier,
		imageRepo:  imageRepo,
		logger:     log,
		workerPool: workers,
	}
}

// Process applies selection to the current original image.
func (ps *ProcessingService) Process(ctx context.Context, selection models.FilterSelection) (*models.ProcessedResult, error) {
	gen := ps.generation.Add(1)

	original := ps.imageRepo.GetOriginalImage()
	if original == nil {
		return nil, ErrNoImage
	}

	select {
	case <-ps.workerPool:
		defer func() { ps.workerPool <- struct{}{} }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if ps.isStale(gen) {
		ps.recordSuperseded()
		return nil, ErrSuperseded
	}

	result, err := ps.applier.ApplyFilter(original.Image, selection)
	if err != nil {
		ps.recordFailure()
		ps.logger.Warning("ProcessingService", "filter rejected", map[string]interface{}{
			"family":    selection.Family.String(),
			"technique": selection.Technique.String(),
			"error":     err.Error(),
		})
		return nil, err
	}

	ps.commitMu.Lock()
	defer ps.commitMu.Unlock()

	if ps.isStale(gen) || !ps.imageRepo.SetLatestResultIf(original, result) {
		ps.recordSuperseded()
		ps.logger.Debug("ProcessingService", "discarding superseded result", map[string]interface{}{
			"generation": gen,
			"filter":     result.Filter.String(),
		})
		return nil, ErrSuperseded
	}

	ps.recordSuccess(result.Duration)

	return result, nil
}

// Invalidate marks every in-flight request as superseded.
func (ps *ProcessingService) Invalidate() {
	ps.generation.Add(1)
}

func (ps *ProcessingService) isStale(gen uint64) bool {
	return gen != ps.generation.Load()
}

// GetLatestResult returns the most recent committed result
func (ps *ProcessingService) GetLatestResult() *models.ProcessedResult {
	return ps.imageRepo.GetLatestResult()
}

// GetQualityMetrics compares the latest result with the original image.
func (ps *ProcessingService) GetQualityMetrics() (*pipeline.QualityMetrics, error) {
	original := ps.imageRepo.GetOriginalImage()
	if original == nil {
		return nil, ErrNoImage
	}
	result := ps.imageRepo.GetLatestResult()
	if result == nil {
		return nil, ErrNoResult
	}
	return pipeline.CalculateQualityMetrics(original.Image, result.Image)
}

// ProcessingStats contains processing performance statistics
type ProcessingStats struct {
	SuccessfulRuns     int
	FailedRuns         int
	SupersededRuns     int
	AverageTime        time.Duration
	TotalTime          time.Duration
	LastProcessingTime time.Time
}

func (ps *ProcessingService) recordSuccess(d time.Duration) {
	ps.statsMu.Lock()
	defer ps.statsMu.Unlock()

	ps.stats.SuccessfulRuns++
	ps.stats.TotalTime += d
	ps.stats.AverageTime = ps.stats.TotalTime / time.Duration(ps.stats.SuccessfulRuns)
	ps.stats.LastProcessingTime = time.Now()
}

func (ps *ProcessingService) recordFailure() {
	ps.statsMu.Lock()
	defer ps.statsMu.Unlock()
	ps.stats.FailedRuns++
}

func (ps *ProcessingService) recordSuperseded() {
	ps.statsMu.Lock()
	defer ps.statsMu.Unlock()
	ps.stats.SupersededRuns++
}

// GetProcessingStats returns processing performance statistics
func (ps *ProcessingService) GetProcessingStats() ProcessingStats {
	ps.statsMu.RLock()
	defer ps.statsMu.RUnlock()
	return ps.stats
}

// GetWorkerCount returns the current number of workers
func (ps *ProcessingService) GetWorkerCount() int {
	return cap(ps.workerPool)
}

// Shutdown discards in-flight work and clears stored images.
func (ps *ProcessingService) Shutdown() {
	ps.Invalidate()
	images := ps.imageRepo.GetImageStats()
	ps.imageRepo.ClearAll()

	stats := ps.GetProcessingStats()
	ps.logger.Info("ProcessingService", "shutdown", map[string]interface{}{
		"successful_runs": stats.SuccessfulRuns,
		"failed_runs":     stats.FailedRuns,
		"superseded_runs": stats.SupersededRuns,
		"average_time":    stats.AverageTime.String(),
		"original_bytes":  images.OriginalBytes,
		"result_bytes":    images.ResultBytes,
	})
}
