package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
	"filterlab/internal/services"
	"filterlab/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

const (
	loadTimeout       = 30 * time.Second
	processingTimeout = time.Minute
	shutdownWait      = 2 * time.Second
)

// View is the part of views.MainView the controller drives.
type View interface {
	SetHandlers(views.Handlers)
	ShowSelection(selection models.FilterSelection, specs []models.ParamSpec)
	ShowEmptyState()
	SetOriginalImage(img image.Image, info string)
	SetProcessedImage(img image.Image, filterName string)
	SetMetrics(summary string)
	UpdateStatus(status string)
	SetProcessingActive(active bool)
	ShowError(title string, err error)
	ShowOpenDialog(callback func(fyne.URIReadCloser, error))
	ShowSaveDialog(name string, callback func(fyne.URIWriteCloser, error))
}

// MainController turns widget events into filter selections and runs the
// pipeline in the background. Every control change triggers a full recompute
// from the original image; only the newest result reaches the view.
type MainController struct {
	imageService      *services.ImageService
	processingService *services.ProcessingService
	logger            logger.Logger
	view              View

	mu        sync.RWMutex
	selection models.FilterSelection

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
	active   atomic.Int32
}

// NewMainController creates a controller starting on Gaussian smoothing with default parameters.
func NewMainController(imageService *services.ImageService, processingService *services.ProcessingService, log logger.Logger) *MainController {
	ctx, cancel := context.WithCancel(context.Background())
	family := models.FamilySmoothing
	technique := models.Techniques(family)[0]
	filter, _ := models.ResolveFilter(family, technique)

	return &MainController{
		imageService:      imageService,
		processingService: processingService,
		logger:            log,
		selection:         models.NewFilterSelection(family, technique, models.DefaultParameters(filter)),
		ctx:               ctx,
		cancel:            cancel,
	}
}

// SetMainView connects the view and shows the initial selection. Must run on the UI goroutine.
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	view.SetHandlers(views.Handlers{
		Upload:           mc.LoadImage,
		Download:         mc.SaveImage,
		Dropped:          mc.LoadDroppedImage,
		FamilyChanged:    mc.ChangeFamily,
		TechniqueChanged: mc.ChangeTechnique,
		ParameterChanged: mc.UpdateParameter,
	})
	mc.showSelection(mc.Selection())
	view.ShowEmptyState()
}

// Selection returns a copy of the current filter selection
func (mc *MainController) Selection() models.FilterSelection {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return models.NewFilterSelection(mc.selection.Family, mc.selection.Technique, mc.selection.Params)
}

// LoadImage opens the upload dialog
func (mc *MainController) LoadImage() {
	mc.view.ShowOpenDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("File selection failed", err)
			return
		}
		if reader == nil {
			return
		}
		mc.loadAsync(reader.URI().Name(), func(ctx context.Context) (*models.ImageData, error) {
			return mc.imageService.LoadImageFromURI(ctx, reader)
		})
	})
}

// LoadDroppedImage loads the first file dropped onto the window
func (mc *MainController) LoadDroppedImage(uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	uri := uris[0]
	if len(uris) > 1 {
		mc.logger.Warning("MainController", "multiple files dropped, using the first", map[string]interface{}{
			"count": len(uris),
			"name":  uri.Name(),
		})
	}

	mc.loadAsync(uri.Name(), func(ctx context.Context) (*models.ImageData, error) {
		reader, err := storage.Reader(uri)
		if err != nil {
			return nil, models.NewDecodeError(uri.Name(), err)
		}
		return mc.imageService.LoadImageFromURI(ctx, reader)
	})
}

func (mc *MainController) loadAsync(name string, load func(ctx context.Context) (*models.ImageData, error)) {
	mc.processingService.Invalidate()
	mc.view.UpdateStatus("Loading " + name + "...")

	mc.inflight.Add(1)
	go func() {
		defer mc.inflight.Done()

		ctx, cancel := context.WithTimeout(mc.ctx, loadTimeout)
		defer cancel()

		imageData, err := load(ctx)
		if err != nil {
			mc.handleError("Image load failed", err)
			return
		}

		info := mc.imageService.GetImageInfo().String()
		original := imageData.Image.ToStdImage()
		fyne.Do(func() {
			mc.view.SetOriginalImage(original, info)
			mc.view.UpdateStatus("Image loaded")
		})

		mc.requestProcessing()
	}()
}

// SaveImage opens the save dialog for the latest result
func (mc *MainController) SaveImage() {
	if mc.processingService.GetLatestResult() == nil {
		mc.view.ShowError("Download failed", services.ErrNoResult)
		return
	}

	mc.view.ShowSaveDialog(mc.imageService.DownloadName(), func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("File save failed", err)
			return
		}
		if writer == nil {
			return
		}

		mc.inflight.Add(1)
		go func() {
			defer mc.inflight.Done()
			if err := mc.imageService.SaveResultToURI(mc.ctx, writer); err != nil {
				mc.handleError("Download failed", err)
				return
			}
			name := writer.URI().Name()
			fyne.Do(func() {
				mc.view.UpdateStatus("Saved " + name)
			})
		}()
	})
}

// ChangeFamily switches family, selecting its first technique with default parameters.
func (mc *MainController) ChangeFamily(family models.Family) {
	techniques := models.Techniques(family)
	if len(techniques) == 0 {
		mc.handleError("Filter change failed", fmt.Errorf("no techniques registered for %s", family))
		return
	}
	mc.selectFilter(family, techniques[0])
}

// ChangeTechnique switches technique within the current family, resetting parameters to defaults.
func (mc *MainController) ChangeTechnique(technique models.Technique) {
	mc.selectFilter(mc.Selection().Family, technique)
}

func (mc *MainController) selectFilter(family models.Family, technique models.Technique) {
	filter, err := models.ResolveFilter(family, technique)
	if err != nil {
		mc.handleError("Filter change failed", err)
		return
	}

	mc.mu.Lock()
	mc.selection = models.NewFilterSelection(family, technique, models.DefaultParameters(filter))
	selection := models.NewFilterSelection(family, technique, mc.selection.Params)
	mc.mu.Unlock()

	mc.showSelection(selection)
	mc.requestProcessing()
}

// UpdateParameter changes one parameter of the current selection and reprocesses.
func (mc *MainController) UpdateParameter(name string, value interface{}) {
	mc.mu.Lock()
	params := make(map[string]interface{}, len(mc.selection.Params)+1)
	for k, v := range mc.selection.Params {
		params[k] = v
	}
	params[name] = value
	mc.selection = models.NewFilterSelection(mc.selection.Family, mc.selection.Technique, params)
	mc.mu.Unlock()

	mc.requestProcessing()
}

func (mc *MainController) showSelection(selection models.FilterSelection) {
	filter, err := models.ResolveFilter(selection.Family, selection.Technique)
	if err != nil {
		mc.handleError("Filter change failed", err)
		return
	}
	specs, err := models.ParameterSpecs(filter)
	if err != nil {
		mc.handleError("Filter change failed", err)
		return
	}
	mc.view.ShowSelection(selection, specs)
}

func (mc *MainController) requestProcessing() {
	selection := mc.Selection()

	mc.inflight.Add(1)
	mc.active.Add(1)
	mc.refreshBusy()

	go func() {
		defer mc.inflight.Done()
		defer func() {
			mc.active.Add(-1)
			mc.refreshBusy()
		}()
		mc.performProcessing(selection)
	}()
}

func (mc *MainController) refreshBusy() {
	fyne.Do(func() {
		mc.view.SetProcessingActive(mc.active.Load() > 0)
	})
}

func (mc *MainController) performProcessing(selection models.FilterSelection) {
	ctx, cancel := context.WithTimeout(mc.ctx, processingTimeout)
	defer cancel()

	result, err := mc.processingService.Process(ctx, selection)
	switch {
	case errors.Is(err, services.ErrSuperseded), errors.Is(err, context.Canceled):
		return
	case errors.Is(err, services.ErrNoImage):
		return
	case err != nil:
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			fyne.Do(func() {
				mc.view.UpdateStatus("Invalid parameter: " + validationErr.Error())
			})
			return
		}
		mc.handleError("Processing failed", err)
		return
	}

	summary := ""
	if metrics, err := mc.processingService.GetQualityMetrics(); err == nil {
		summary = metrics.Summary()
	}
	display := pipeline.PrepareForDisplay(result).ToStdImage()
	status := fmt.Sprintf("%s applied in %s", result.Filter, result.Duration.Round(time.Microsecond))

	fyne.Do(func() {
		// a newer result may have been committed after this one
		if mc.processingService.GetLatestResult() != result {
			return
		}
		mc.view.SetProcessedImage(display, result.Filter.String())
		mc.view.SetMetrics(summary)
		mc.view.UpdateStatus(status)
	})
}

func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{"context": title})
	fyne.Do(func() {
		mc.view.ShowError(title, err)
	})
}

// Wait blocks until every background load, save and processing run has finished.
func (mc *MainController) Wait() {
	mc.inflight.Wait()
}

// Shutdown cancels background work and releases the services.
func (mc *MainController) Shutdown() {
	mc.cancel()
	mc.processingService.Invalidate()

	done := make(chan struct{})
	go func() {
		mc.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownWait):
		mc.logger.Warning("MainController", "background work still running at shutdown", nil)
	}

	mc.processingService.Shutdown()
	mc.imageService.Cleanup()
}
