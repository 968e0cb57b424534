package views

import (
	"image"

	"filterlab/internal/models"
	"filterlab/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// UploadExtensions are the file types offered by the open dialog.
var UploadExtensions = []string{".png", ".jpg", ".jpeg"}

// Handlers are the controller callbacks for user actions.
type Handlers struct {
	Upload           func()
	Download         func()
	Dropped          func(uris []fyne.URI)
	FamilyChanged    func(models.Family)
	TechniqueChanged func(models.Technique)
	ParameterChanged func(name string, value interface{})
}

// MainView is the single window of the application: sidebar on the left,
// previews in the centre, status bar along the bottom. All methods must be
// called on the fyne UI goroutine.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	sidebar       *components.Sidebar
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar

	handlers Handlers
}

// NewMainView builds the view and installs it as the window content
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window:       window,
		sidebar:      components.NewSidebar(),
		imageDisplay: components.NewImageDisplay(),
		statusBar:    components.NewStatusBar(),
	}

	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) buildLayout() {
	sidebar := container.NewVScroll(mv.sidebar.GetContainer())
	sidebar.SetMinSize(fyne.NewSize(280, 0))

	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		sidebar,
		nil,
		container.NewPadded(mv.imageDisplay.GetContainer()),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.sidebar.SetUploadHandler(func() {
		if mv.handlers.Upload != nil {
			mv.handlers.Upload()
		}
	})
	mv.sidebar.SetDownloadHandler(func() {
		if mv.handlers.Download != nil {
			mv.handlers.Download()
		}
	})
	mv.sidebar.SetFamilyChangeHandler(func(family models.Family) {
		if mv.handlers.FamilyChanged != nil {
			mv.handlers.FamilyChanged(family)
		}
	})
	mv.sidebar.SetTechniqueChangeHandler(func(technique models.Technique) {
		if mv.handlers.TechniqueChanged != nil {
			mv.handlers.TechniqueChanged(technique)
		}
	})
	mv.sidebar.SetParameterChangeHandler(func(name string, value interface{}) {
		if mv.handlers.ParameterChanged != nil {
			mv.handlers.ParameterChanged(name, value)
		}
	})

	mv.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 || mv.handlers.Dropped == nil {
			return
		}
		mv.handlers.Dropped(uris)
	})
}

// SetHandlers connects the controller
func (mv *MainView) SetHandlers(handlers Handlers) {
	mv.handlers = handlers
}

// ShowSelection reflects the controller's current filter selection in the sidebar
func (mv *MainView) ShowSelection(selection models.FilterSelection, specs []models.ParamSpec) {
	mv.sidebar.ShowSelection(selection.Family, selection.Technique, specs, selection.Params)
}

// ShowEmptyState returns to the idle drop prompt
func (mv *MainView) ShowEmptyState() {
	mv.imageDisplay.ShowEmptyState()
	mv.statusBar.Reset()
	mv.sidebar.SetDownloadEnabled(false)
}

// SetOriginalImage shows a newly loaded image
func (mv *MainView) SetOriginalImage(img image.Image, info string) {
	mv.imageDisplay.SetOriginalImage(img)
	mv.statusBar.SetImageInfo(info)
	mv.statusBar.SetMetrics("")
	mv.sidebar.SetDownloadEnabled(false)
}

// SetProcessedImage shows a result and enables download
func (mv *MainView) SetProcessedImage(img image.Image, filterName string) {
	mv.imageDisplay.SetProcessedImage(img, filterName)
	mv.sidebar.SetDownloadEnabled(img != nil)
}

// SetMetrics shows the quality summary of the latest result
func (mv *MainView) SetMetrics(summary string) {
	mv.statusBar.SetMetrics(summary)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetProcessingActive toggles the busy indicator
func (mv *MainView) SetProcessingActive(active bool) {
	mv.statusBar.SetBusy(active)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	mv.statusBar.SetStatus(title + ": " + err.Error())
	dialog.ShowError(err, mv.window)
}

// ShowOpenDialog asks for an image to upload
func (mv *MainView) ShowOpenDialog(callback func(fyne.URIReadCloser, error)) {
	fd := dialog.NewFileOpen(callback, mv.window)
	fd.SetFilter(storage.NewExtensionFileFilter(UploadExtensions))
	fd.Show()
}

// ShowSaveDialog asks where to write the result, suggesting name
func (mv *MainView) ShowSaveDialog(name string, callback func(fyne.URIWriteCloser, error)) {
	fd := dialog.NewFileSave(callback, mv.window)
	fd.SetFileName(name)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// GetImageDisplay returns the image display component
func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

// GetSidebar returns the sidebar component
func (mv *MainView) GetSidebar() *components.Sidebar {
	return mv.sidebar
}

// GetStatusBar returns the status bar component
func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

// ViewState is a snapshot of what the view is showing
type ViewState struct {
	EmptyState        bool
	HasOriginalImage  bool
	HasProcessedImage bool
	IsProcessing      bool
	DownloadEnabled   bool
	Family            string
	Technique         string
	ParameterCount    int
	StatusMessage     string
	ImageInfo         string
	Metrics           string
}

// GetViewState returns the current view state
func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		EmptyState:        mv.imageDisplay.IsEmptyStateVisible(),
		HasOriginalImage:  mv.imageDisplay.HasOriginalImage(),
		HasProcessedImage: mv.imageDisplay.HasProcessedImage(),
		IsProcessing:      mv.statusBar.IsBusy(),
		DownloadEnabled:   mv.sidebar.IsDownloadEnabled(),
		Family:            mv.sidebar.SelectedFamily(),
		Technique:         mv.sidebar.SelectedTechnique(),
		ParameterCount:    mv.sidebar.Parameters().GetParameterCount(),
		StatusMessage:     mv.statusBar.GetStatus(),
		ImageInfo:         mv.statusBar.GetImageInfo(),
		Metrics:           mv.statusBar.GetMetrics(),
	}
}
