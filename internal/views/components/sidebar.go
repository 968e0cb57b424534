package components

import (
	"filterlab/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Sidebar holds upload, filter selection, parameters and download.
type Sidebar struct {
	container      *fyne.Container
	uploadButton   *widget.Button
	downloadButton *widget.Button
	familyRadio    *widget.RadioGroup
	techniqueRadio *widget.RadioGroup
	parameters     *ParameterPanel

	familyByLabel    map[string]models.Family
	techniqueByLabel map[string]models.Technique

	// set while the controller changes a selection so radio callbacks do not echo back
	updating bool

	uploadHandler    func()
	downloadHandler  func()
	familyHandler    func(models.Family)
	techniqueHandler func(models.Technique)
}

// NewSidebar creates the sidebar with every family listed and no technique chosen.
func NewSidebar() *Sidebar {
	sb := &Sidebar{
		familyByLabel:    map[string]models.Family{},
		techniqueByLabel: map[string]models.Technique{},
	}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *Sidebar) createComponents() {
	sb.uploadButton = widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), func() {
		if sb.uploadHandler != nil {
			sb.uploadHandler()
		}
	})
	sb.uploadButton.Importance = widget.HighImportance

	sb.downloadButton = widget.NewButtonWithIcon("Download Result", theme.DownloadIcon(), func() {
		if sb.downloadHandler != nil {
			sb.downloadHandler()
		}
	})
	sb.downloadButton.Disable()

	familyLabels := make([]string, 0, len(models.Families()))
	for _, family := range models.Families() {
		familyLabels = append(familyLabels, family.String())
		sb.familyByLabel[family.String()] = family
	}

	sb.familyRadio = widget.NewRadioGroup(familyLabels, func(selected string) {
		family, ok := sb.familyByLabel[selected]
		if sb.updating || !ok || sb.familyHandler == nil {
			return
		}
		sb.familyHandler(family)
	})
	sb.familyRadio.Required = true

	sb.techniqueRadio = widget.NewRadioGroup(nil, func(selected string) {
		technique, ok := sb.techniqueByLabel[selected]
		if sb.updating || !ok || sb.techniqueHandler == nil {
			return
		}
		sb.techniqueHandler(technique)
	})
	sb.techniqueRadio.Required = true

	sb.parameters = NewParameterPanel()
}

func (sb *Sidebar) buildLayout() {
	sb.container = container.NewVBox(
		sb.uploadButton,
		widget.NewSeparator(),
		widget.NewCard("Filter Type", "", sb.familyRadio),
		widget.NewCard("Technique", "", sb.techniqueRadio),
		widget.NewCard("Parameters", "", sb.parameters.GetContainer()),
		layout.NewSpacer(),
		sb.downloadButton,
	)
}

// SetUploadHandler sets the handler for the upload button
func (sb *Sidebar) SetUploadHandler(handler func()) {
	sb.uploadHandler = handler
}

// SetDownloadHandler sets the handler for the download button
func (sb *Sidebar) SetDownloadHandler(handler func()) {
	sb.downloadHandler = handler
}

// SetFamilyChangeHandler sets the handler called when the user picks a family
func (sb *Sidebar) SetFamilyChangeHandler(handler func(models.Family)) {
	sb.familyHandler = handler
}

// SetTechniqueChangeHandler sets the handler called when the user picks a technique
func (sb *Sidebar) SetTechniqueChangeHandler(handler func(models.Technique)) {
	sb.techniqueHandler = handler
}

// SetParameterChangeHandler sets the handler called when a slider moves
func (sb *Sidebar) SetParameterChangeHandler(handler func(string, interface{})) {
	sb.parameters.SetParameterChangeHandler(handler)
}

// ShowSelection reflects a selection without firing change handlers.
// The technique list is rebuilt for the family.
func (sb *Sidebar) ShowSelection(family models.Family, technique models.Technique, specs []models.ParamSpec, values map[string]interface{}) {
	sb.updating = true
	defer func() { sb.updating = false }()

	techniques := models.Techniques(family)
	labels := make([]string, 0, len(techniques))
	sb.techniqueByLabel = make(map[string]models.Technique, len(techniques))
	for _, t := range techniques {
		labels = append(labels, t.String())
		sb.techniqueByLabel[t.String()] = t
	}

	sb.familyRadio.SetSelected(family.String())
	sb.techniqueRadio.Options = labels
	sb.techniqueRadio.SetSelected(technique.String())
	sb.techniqueRadio.Refresh()
	sb.parameters.SetSpecs(specs, values)
}

// SetDownloadEnabled enables the download button once a result exists
func (sb *Sidebar) SetDownloadEnabled(enabled bool) {
	if enabled {
		sb.downloadButton.Enable()
	} else {
		sb.downloadButton.Disable()
	}
}

// IsDownloadEnabled reports whether the download button can be used
func (sb *Sidebar) IsDownloadEnabled() bool {
	return !sb.downloadButton.Disabled()
}

// SelectedFamily returns the label of the selected family radio
func (sb *Sidebar) SelectedFamily() string {
	return sb.familyRadio.Selected
}

// SelectedTechnique returns the label of the selected technique radio
func (sb *Sidebar) SelectedTechnique() string {
	return sb.techniqueRadio.Selected
}

// TechniqueOptions returns the techniques currently offered
func (sb *Sidebar) TechniqueOptions() []string {
	return sb.techniqueRadio.Options
}

// Parameters returns the parameter panel
func (sb *Sidebar) Parameters() *ParameterPanel {
	return sb.parameters
}

// GetContainer returns the sidebar container
func (sb *Sidebar) GetContainer() *fyne.Container {
	return sb.container
}
