package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 400
)

const (
	EmptyStateTitle    = "Drag & Drop Image to Begin"
	EmptyStateSubtitle = "Supports JPG, PNG, JPEG formats"
)

// ImageDisplay shows the original and processed images side by side, or an
// empty-state prompt until an image is loaded.
type ImageDisplay struct {
	container      *fyne.Container
	splitView      *container.Split
	emptyState     *fyne.Container
	originalImage  *canvas.Image
	processedImage *canvas.Image
	processedTitle *widget.Label

	hasOriginal  bool
	hasProcessed bool
}

// NewImageDisplay creates a new image display component
func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	display.ShowEmptyState()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = newPreviewCanvas()
	id.processedImage = newPreviewCanvas()
	id.processedTitle = widget.NewLabelWithStyle("Processed Image", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
}

func newPreviewCanvas() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(ImageAreaWidth/2, ImageAreaHeight/2))
	return img
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewLabelWithStyle("Original Image", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewStack(previewBackground(), id.originalImage),
	)
	processedContainer := container.NewBorder(
		id.processedTitle,
		nil, nil, nil,
		container.NewStack(previewBackground(), id.processedImage),
	)

	id.splitView = container.NewHSplit(originalContainer, processedContainer)
	id.splitView.SetOffset(0.5)

	title := widget.NewLabelWithStyle(EmptyStateTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle(EmptyStateSubtitle, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	id.emptyState = container.NewStack(
		previewBackground(),
		container.NewCenter(container.NewVBox(title, subtitle)),
	)

	id.container = container.NewStack(id.emptyState, id.splitView)
}

func previewBackground() *canvas.Rectangle {
	bg := canvas.NewRectangle(color.NRGBA{R: 240, G: 240, B: 240, A: 255})
	bg.StrokeColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	bg.StrokeWidth = 1
	bg.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return bg
}

// ShowEmptyState clears both previews and shows the drop prompt.
func (id *ImageDisplay) ShowEmptyState() {
	id.originalImage.Image = nil
	id.processedImage.Image = nil
	id.hasOriginal = false
	id.hasProcessed = false
	id.splitView.Hide()
	id.emptyState.Show()
	id.container.Refresh()
}

// SetOriginalImage shows a newly loaded image. The processed side is cleared
// until the first result for it arrives.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	if img == nil {
		id.ShowEmptyState()
		return
	}
	id.originalImage.Image = img
	id.hasOriginal = true
	id.SetProcessedImage(nil, "")
	id.emptyState.Hide()
	id.splitView.Show()
	id.originalImage.Refresh()
}

// SetProcessedImage updates the processed preview. label names the filter that produced it.
func (id *ImageDisplay) SetProcessedImage(img image.Image, label string) {
	id.processedImage.Image = img
	id.hasProcessed = img != nil
	if label == "" {
		id.processedTitle.SetText("Processed Image")
	} else {
		id.processedTitle.SetText("Processed Image: " + label)
	}
	id.processedImage.Refresh()
}

// HasOriginalImage returns true if original image is loaded
func (id *ImageDisplay) HasOriginalImage() bool {
	return id.hasOriginal
}

// HasProcessedImage returns true if processed image is available
func (id *ImageDisplay) HasProcessedImage() bool {
	return id.hasProcessed
}

// IsEmptyStateVisible reports whether the drop prompt is showing.
func (id *ImageDisplay) IsEmptyStateVisible() bool {
	return id.emptyState.Visible()
}

// ProcessedTitle returns the heading above the processed preview
func (id *ImageDisplay) ProcessedTitle() string {
	return id.processedTitle.Text
}

// GetProcessedImageSize returns the dimensions of the processed image
func (id *ImageDisplay) GetProcessedImageSize() (int, int) {
	if !id.hasProcessed {
		return 0, 0
	}
	bounds := id.processedImage.Image.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// GetContainer returns the main container
func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
