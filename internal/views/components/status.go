package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	StatusReady     = "Ready"
	NoImageInfo     = "No image loaded"
	NoMetricsInfo   = "PSNR: --"
	ProcessingLabel = "Processing..."
)

// StatusBar displays the last action, the loaded image and result quality.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageInfo   *widget.Label
	metricsInfo *widget.Label
	activity    *ActivityIndicator
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel(StatusReady),
		imageInfo:   widget.NewLabel(NoImageInfo),
		metricsInfo: widget.NewLabel(NoMetricsInfo),
		activity:    NewActivityIndicator(),
	}
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.imageInfo.Truncation = fyne.TextTruncateEllipsis

	sb.container = container.NewBorder(nil, nil,
		container.NewHBox(sb.activity.GetContainer(), sb.statusLabel),
		sb.metricsInfo,
		container.NewHBox(widget.NewSeparator(), sb.imageInfo, widget.NewSeparator()),
	)
	return sb
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo updates the image information display
func (sb *StatusBar) SetImageInfo(info string) {
	sb.imageInfo.SetText(info)
}

// GetImageInfo returns the image information text
func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

// SetMetrics updates the quality summary shown at the right edge.
func (sb *StatusBar) SetMetrics(summary string) {
	if summary == "" {
		summary = NoMetricsInfo
	}
	sb.metricsInfo.SetText(summary)
}

// GetMetrics returns the quality summary text
func (sb *StatusBar) GetMetrics() string {
	return sb.metricsInfo.Text
}

// SetBusy toggles the activity indicator
func (sb *StatusBar) SetBusy(busy bool) {
	sb.activity.SetActive(busy)
}

// IsBusy reports whether the activity indicator is running.
func (sb *StatusBar) IsBusy() bool {
	return sb.activity.IsActive()
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText(StatusReady)
	sb.imageInfo.SetText(NoImageInfo)
	sb.metricsInfo.SetText(NoMetricsInfo)
	sb.activity.SetActive(false)
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ActivityIndicator is an indeterminate bar shown while a filter runs.
type ActivityIndicator struct {
	container *fyne.Container
	bar       *widget.ProgressBarInfinite
	active    bool
}

// NewActivityIndicator creates a hidden, stopped indicator
func NewActivityIndicator() *ActivityIndicator {
	bar := widget.NewProgressBarInfinite()
	bar.Stop()
	ai := &ActivityIndicator{
		container: container.NewGridWrap(fyne.NewSize(80, 8), bar),
		bar:       bar,
	}
	ai.container.Hide()
	return ai
}

// SetActive starts or stops the indicator
func (ai *ActivityIndicator) SetActive(active bool) {
	if ai.active == active {
		return
	}
	ai.active = active
	if active {
		ai.container.Show()
		ai.bar.Start()
	} else {
		ai.bar.Stop()
		ai.container.Hide()
	}
}

// IsActive returns true while the indicator is running
func (ai *ActivityIndicator) IsActive() bool {
	return ai.active
}

// GetContainer returns the indicator container
func (ai *ActivityIndicator) GetContainer() *fyne.Container {
	return ai.container
}
