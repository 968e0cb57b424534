package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Parameter names shared by the model, the pipeline and the parameter panel.
const (
	ParamKernelSize    = "kernelSize"
	ParamSigma         = "sigma"
	ParamDiameter      = "diameter"
	ParamColorSigma    = "colorSigma"
	ParamSpatialSigma  = "spatialSigma"
	ParamLowThreshold  = "lowThreshold"
	ParamHighThreshold = "highThreshold"
	ParamXOrder        = "xOrder"
	ParamYOrder        = "yOrder"
)

// ParamKind is the semantic type of a tunable parameter.
type ParamKind int

const (
	ParamInt ParamKind = iota
	ParamFloat
)

// ParamSpec describes one tunable parameter: inclusive range, UI step and default.
type ParamSpec struct {
	Name    string
	Label   string
	Kind    ParamKind
	Min     float64
	Max     float64
	Step    float64
	Default float64
	OddOnly bool
}

// DefaultValue returns the default typed the way the UI and pipeline expect it.
func (s ParamSpec) DefaultValue() interface{} {
	if s.Kind == ParamInt {
		return int(s.Default)
	}
	return s.Default
}

func (s ParamSpec) rules() string {
	rules := make([]string, 0, 4)
	if s.Kind == ParamInt {
		rules = append(rules, "integral")
	}
	rules = append(rules,
		"gte="+strconv.FormatFloat(s.Min, 'f', -1, 64),
		"lte="+strconv.FormatFloat(s.Max, 'f', -1, 64),
	)
	if s.OddOnly {
		rules = append(rules, "odd")
	}
	return strings.Join(rules, ",")
}

var parameterTable = map[Filter][]ParamSpec{
	FilterGaussianBlur: {
		{Name: ParamKernelSize, Label: "Kernel Size", Kind: ParamInt, Min: 3, Max: 25, Step: 2, Default: 9, OddOnly: true},
		{Name: ParamSigma, Label: "Sigma", Kind: ParamFloat, Min: 0.1, Max: 5.0, Step: 0.1, Default: 1.5},
	},
	FilterMedianBlur: {
		{Name: ParamKernelSize, Label: "Kernel Size", Kind: ParamInt, Min: 3, Max: 25, Step: 2, Default: 9, OddOnly: true},
	},
	FilterBilateral: {
		{Name: ParamDiameter, Label: "Diameter", Kind: ParamInt, Min: 1, Max: 15, Step: 1, Default: 9},
		{Name: ParamColorSigma, Label: "Color Sigma", Kind: ParamInt, Min: 1, Max: 200, Step: 1, Default: 75},
		{Name: ParamSpatialSigma, Label: "Spatial Sigma", Kind: ParamInt, Min: 1, Max: 200, Step: 1, Default: 75},
	},
	FilterLaplacianSharpen: {},
	FilterUnsharpMask:      {},
	FilterCanny: {
		{Name: ParamLowThreshold, Label: "Low Threshold", Kind: ParamInt, Min: 0, Max: 255, Step: 1, Default: 50},
		{Name: ParamHighThreshold, Label: "High Threshold", Kind: ParamInt, Min: 0, Max: 255, Step: 1, Default: 150},
	},
	FilterSobel: {
		{Name: ParamXOrder, Label: "X Derivative", Kind: ParamInt, Min: 0, Max: 2, Step: 1, Default: 1},
		{Name: ParamYOrder, Label: "Y Derivative", Kind: ParamInt, Min: 0, Max: 2, Step: 1, Default: 1},
	},
	FilterLaplacianEdges: {},
}

// ParameterSpecs returns the ordered parameter list for a filter.
func ParameterSpecs(filter Filter) ([]ParamSpec, error) {
	specs, ok := parameterTable[filter]
	if !ok {
		return nil, NewUnsupportedOperationError(filter.Family(), filter.Technique())
	}
	result := make([]ParamSpec, len(specs))
	copy(result, specs)
	return result, nil
}

// DefaultParameters returns a fresh map holding every default for the filter.
func DefaultParameters(filter Filter) map[string]interface{} {
	specs := parameterTable[filter]
	defaults := make(map[string]interface{}, len(specs))
	for _, spec := range specs {
		defaults[spec.Name] = spec.DefaultValue()
	}
	return defaults
}

// Parameters holds validated numeric values keyed by parameter name.
type Parameters map[string]float64

// Int returns an integer parameter.
func (p Parameters) Int(name string) int {
	return int(math.Round(p[name]))
}

// Float returns a floating-point parameter.
func (p Parameters) Float(name string) float64 {
	return p[name]
}

var paramValidator = newParamValidator()

func newParamValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]validator.Func{
		"integral": func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return f == math.Trunc(f)
		},
		"odd": func(fl validator.FieldLevel) bool {
			return math.Abs(math.Mod(fl.Field().Float(), 2)) == 1
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %q parameter rule: %v", tag, err))
		}
	}
	return v
}

// ValidateParameters checks values against the filter's declared parameters and
// returns the validated set. Keys the filter does not declare are ignored.
func ValidateParameters(filter Filter, values map[string]interface{}) (Parameters, error) {
	specs, err := ParameterSpecs(filter)
	if err != nil {
		return nil, err
	}

	validated := make(Parameters, len(specs))
	for _, spec := range specs {
		raw, present := values[spec.Name]
		if !present {
			return nil, NewValidationError(spec.Name, nil, "required parameter is missing")
		}

		value, ok := numericValue(raw)
		if !ok {
			return nil, NewValidationError(spec.Name, raw, fmt.Sprintf("expected a number, got %T", raw))
		}

		if err := paramValidator.Var(value, spec.rules()); err != nil {
			return nil, NewValidationError(spec.Name, raw, describeRuleFailure(spec, err))
		}

		validated[spec.Name] = value
	}

	if filter == FilterSobel && validated.Int(ParamXOrder)+validated.Int(ParamYOrder) == 0 {
		return nil, NewValidationError(ParamYOrder, values[ParamYOrder], "xOrder and yOrder cannot both be zero")
	}

	return validated, nil
}

func describeRuleFailure(spec ParamSpec, err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	switch fieldErrs[0].Tag() {
	case "integral":
		return "value must be a whole number"
	case "odd":
		return "value must be odd"
	case "gte", "lte":
		return fmt.Sprintf("value outside range [%g, %g]", spec.Min, spec.Max)
	default:
		return fmt.Sprintf("failed %q rule", fieldErrs[0].Tag())
	}
}

func numericValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
