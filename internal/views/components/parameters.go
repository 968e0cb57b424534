package components

import (
	"fmt"
	"math"

	"filterlab/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ParameterPanel shows one slider per tunable parameter of the current filter.
type ParameterPanel struct {
	container   *fyne.Container
	specs       []models.ParamSpec
	sliders     map[string]*widget.Slider
	valueLabels map[string]*widget.Label
	values      map[string]interface{}

	changeHandler func(name string, value interface{})
}

// NewParameterPanel creates an empty parameter panel
func NewParameterPanel() *ParameterPanel {
	pp := &ParameterPanel{
		container:   container.NewVBox(),
		sliders:     map[string]*widget.Slider{},
		valueLabels: map[string]*widget.Label{},
		values:      map[string]interface{}{},
	}
	pp.showNoParameters()
	return pp
}

// SetParameterChangeHandler sets the handler called after a slider moves
func (pp *ParameterPanel) SetParameterChangeHandler(handler func(string, interface{})) {
	pp.changeHandler = handler
}

// SetSpecs rebuilds the panel for a new filter. values holds the initial
// setting for each parameter; missing entries use the parameter default.
func (pp *ParameterPanel) SetSpecs(specs []models.ParamSpec, values map[string]interface{}) {
	pp.specs = specs
	pp.sliders = make(map[string]*widget.Slider, len(specs))
	pp.valueLabels = make(map[string]*widget.Label, len(specs))
	pp.values = make(map[string]interface{}, len(specs))
	pp.container.Objects = nil

	if len(specs) == 0 {
		pp.showNoParameters()
		return
	}

	for _, spec := range specs {
		value, ok := values[spec.Name]
		if !ok {
			value = spec.DefaultValue()
		}
		pp.values[spec.Name] = value
		pp.container.Add(pp.buildRow(spec, value))
	}
	pp.container.Refresh()
}

func (pp *ParameterPanel) buildRow(spec models.ParamSpec, initial interface{}) fyne.CanvasObject {
	valueLabel := widget.NewLabel(formatParamValue(initial))
	valueLabel.TextStyle = fyne.TextStyle{Monospace: true}

	slider := widget.NewSlider(0, float64(StepCount(spec)))
	slider.Step = 1
	slider.SetValue(float64(SliderPosition(spec, toFloat(initial))))

	name := spec.Name
	slider.OnChanged = func(position float64) {
		value := ValueAtPosition(spec, int(math.Round(position)))
		pp.values[name] = value
		valueLabel.SetText(formatParamValue(value))
		if pp.changeHandler != nil {
			pp.changeHandler(name, value)
		}
	}

	pp.sliders[name] = slider
	pp.valueLabels[name] = valueLabel

	return container.NewBorder(nil, nil,
		widget.NewLabel(spec.Label), valueLabel,
		slider,
	)
}

func (pp *ParameterPanel) showNoParameters() {
	pp.container.Objects = []fyne.CanvasObject{
		widget.NewLabelWithStyle("No adjustable parameters", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
	}
	pp.container.Refresh()
}

// Values returns a copy of the current settings
func (pp *ParameterPanel) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(pp.values))
	for k, v := range pp.values {
		out[k] = v
	}
	return out
}

// GetParameterCount returns the number of sliders shown
func (pp *ParameterPanel) GetParameterCount() int {
	return len(pp.sliders)
}

// Slider returns the slider for a parameter, or nil.
func (pp *ParameterPanel) Slider(name string) *widget.Slider {
	return pp.sliders[name]
}

// GetContainer returns the panel container
func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

// Sliders work in step positions 0..StepCount so that odd-only ranges such as
// 3,5,...,25 map onto evenly spaced slider stops.

// StepCount returns the index of the last slider stop for spec.
func StepCount(spec models.ParamSpec) int {
	if spec.Step <= 0 {
		return 0
	}
	return int(math.Round((spec.Max - spec.Min) / spec.Step))
}

// SliderPosition returns the stop nearest to value.
func SliderPosition(spec models.ParamSpec, value float64) int {
	if spec.Step <= 0 {
		return 0
	}
	position := int(math.Round((value - spec.Min) / spec.Step))
	return max(0, min(position, StepCount(spec)))
}

// ValueAtPosition maps a slider stop back to a typed parameter value.
func ValueAtPosition(spec models.ParamSpec, position int) interface{} {
	position = max(0, min(position, StepCount(spec)))
	value := spec.Min + float64(position)*spec.Step
	if spec.Kind == models.ParamInt {
		return int(math.Round(value))
	}
	return math.Round(value*1000) / 1000
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func formatParamValue(v interface{}) string {
	switch n := v.(type) {
	case int:
		return fmt.Sprintf("%d", n)
	case float64:
		return fmt.Sprintf("%.1f", n)
	default:
		return fmt.Sprint(v)
	}
}
