package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFilter_AllPairs(t *testing.T) {
	cases := []struct {
		family    Family
		technique Technique
		want      Filter
	}{
		{FamilySmoothing, TechniqueGaussian, FilterGaussianBlur},
		{FamilySmoothing, TechniqueMedian, FilterMedianBlur},
		{FamilySmoothing, TechniqueBilateral, FilterBilateral},
		{FamilySharpening, TechniqueLaplacian, FilterLaplacianSharpen},
		{FamilySharpening, TechniqueUnsharpMask, FilterUnsharpMask},
		{FamilyEdgeDetection, TechniqueCanny, FilterCanny},
		{FamilyEdgeDetection, TechniqueSobel, FilterSobel},
		{FamilyEdgeDetection, TechniqueLaplacian, FilterLaplacianEdges},
	}

	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			got, err := ResolveFilter(tc.family, tc.technique)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.family, got.Family())
			assert.Equal(t, tc.technique, got.Technique())
		})
	}
}

func TestResolveFilter_Unsupported(t *testing.T) {
	_, err := ResolveFilter(FamilySmoothing, TechniqueCanny)
	require.Error(t, err)

	var unsupported *UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, FamilySmoothing, unsupported.Family)
	assert.Equal(t, TechniqueCanny, unsupported.Technique)

	_, err = ResolveFilter(Family(42), TechniqueGaussian)
	require.True(t, errors.As(err, &unsupported))
}

func TestTechniques_EveryListedPairResolves(t *testing.T) {
	for _, family := range Families() {
		techniques := Techniques(family)
		require.NotEmpty(t, techniques, family.String())
		for _, technique := range techniques {
			_, err := ResolveFilter(family, technique)
			assert.NoError(t, err, "%s/%s", family, technique)
		}
	}
}

func TestParameterSpecs_Table(t *testing.T) {
	specs, err := ParameterSpecs(FilterGaussianBlur)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, ParamKernelSize, specs[0].Name)
	assert.Equal(t, 3.0, specs[0].Min)
	assert.Equal(t, 25.0, specs[0].Max)
	assert.Equal(t, 2.0, specs[0].Step)
	assert.Equal(t, 9.0, specs[0].Default)
	assert.True(t, specs[0].OddOnly)
	assert.Equal(t, ParamSigma, specs[1].Name)
	assert.Equal(t, 1.5, specs[1].Default)

	specs, err = ParameterSpecs(FilterBilateral)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, []string{ParamDiameter, ParamColorSigma, ParamSpatialSigma},
		[]string{specs[0].Name, specs[1].Name, specs[2].Name})

	for _, filter := range []Filter{FilterLaplacianSharpen, FilterUnsharpMask, FilterLaplacianEdges} {
		specs, err := ParameterSpecs(filter)
		require.NoError(t, err)
		assert.Empty(t, specs, filter.String())
	}

	_, err = ParameterSpecs(Filter(99))
	require.Error(t, err)
}

func TestParameterSpecs_ReturnsCopy(t *testing.T) {
	specs, err := ParameterSpecs(FilterCanny)
	require.NoError(t, err)
	specs[0].Max = 1

	again, err := ParameterSpecs(FilterCanny)
	require.NoError(t, err)
	assert.Equal(t, 255.0, again[0].Max)
}

func TestDefaultParameters_Validate(t *testing.T) {
	for filter := FilterGaussianBlur; filter <= FilterLaplacianEdges; filter++ {
		t.Run(filter.String(), func(t *testing.T) {
			params, err := ValidateParameters(filter, DefaultParameters(filter))
			require.NoError(t, err)
			specs, _ := ParameterSpecs(filter)
			assert.Len(t, params, len(specs))
		})
	}
}

func TestValidateParameters_KernelSize(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		ok    bool
	}{
		{"min", 3, true},
		{"max", 25, true},
		{"odd float from slider", 7.0, true},
		{"even", 4, false},
		{"even max-1", 24, false},
		{"below range", 1, false},
		{"above range", 27, false},
		{"negative odd", -3, false},
		{"fractional", 5.5, false},
		{"string", "9", false},
		{"bool", true, false},
		{"nil", nil, false},
	}

	for _, filter := range []Filter{FilterGaussianBlur, FilterMedianBlur} {
		for _, tc := range cases {
			t.Run(filter.String()+"/"+tc.name, func(t *testing.T) {
				values := DefaultParameters(filter)
				values[ParamKernelSize] = tc.value

				params, err := ValidateParameters(filter, values)
				if tc.ok {
					require.NoError(t, err)
					want, _ := numericValue(tc.value)
					assert.Equal(t, int(want), params.Int(ParamKernelSize))
					return
				}

				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				assert.Equal(t, ParamKernelSize, verr.Parameter)
			})
		}
	}
}

func TestValidateParameters_Missing(t *testing.T) {
	_, err := ValidateParameters(FilterGaussianBlur, map[string]interface{}{ParamKernelSize: 9})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ParamSigma, verr.Parameter)
	assert.Contains(t, verr.Error(), "missing")
}

func TestValidateParameters_IgnoresExtraneous(t *testing.T) {
	values := DefaultParameters(FilterMedianBlur)
	values["sigma"] = "not even a number"

	params, err := ValidateParameters(FilterMedianBlur, values)
	require.NoError(t, err)
	assert.NotContains(t, params, "sigma")
}

func TestValidateParameters_Ranges(t *testing.T) {
	cases := []struct {
		filter Filter
		param  string
		value  interface{}
		ok     bool
	}{
		{FilterGaussianBlur, ParamSigma, 0.1, true},
		{FilterGaussianBlur, ParamSigma, 5.0, true},
		{FilterGaussianBlur, ParamSigma, 0.05, false},
		{FilterGaussianBlur, ParamSigma, 5.01, false},
		{FilterBilateral, ParamDiameter, 1, true},
		{FilterBilateral, ParamDiameter, 0, false},
		{FilterBilateral, ParamDiameter, 16, false},
		{FilterBilateral, ParamColorSigma, 200, true},
		{FilterBilateral, ParamColorSigma, 201, false},
		{FilterBilateral, ParamSpatialSigma, 0, false},
		{FilterCanny, ParamLowThreshold, 0, true},
		{FilterCanny, ParamLowThreshold, 256, false},
		{FilterCanny, ParamHighThreshold, uint8(255), true},
		{FilterCanny, ParamHighThreshold, -1, false},
		{FilterSobel, ParamXOrder, 2, true},
		{FilterSobel, ParamXOrder, 3, false},
		{FilterSobel, ParamYOrder, 1.5, false},
	}

	for _, tc := range cases {
		t.Run(tc.filter.String()+"/"+tc.param, func(t *testing.T) {
			values := DefaultParameters(tc.filter)
			values[tc.param] = tc.value

			_, err := ValidateParameters(tc.filter, values)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.param, verr.Parameter)
		})
	}
}

func TestValidateParameters_CannyInvertedThresholdsPassThrough(t *testing.T) {
	params, err := ValidateParameters(FilterCanny, map[string]interface{}{
		ParamLowThreshold:  200,
		ParamHighThreshold: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, params.Int(ParamLowThreshold))
	assert.Equal(t, 10, params.Int(ParamHighThreshold))
}

func TestValidateParameters_SobelZeroOrders(t *testing.T) {
	_, err := ValidateParameters(FilterSobel, map[string]interface{}{
		ParamXOrder: 0,
		ParamYOrder: 0,
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ParamYOrder, verr.Parameter)

	_, err = ValidateParameters(FilterSobel, map[string]interface{}{
		ParamXOrder: 0,
		ParamYOrder: 2,
	})
	require.NoError(t, err)
}

func TestNewFilterSelection_CopiesParams(t *testing.T) {
	params := map[string]interface{}{ParamKernelSize: 5}
	sel := NewFilterSelection(FamilySmoothing, TechniqueMedian, params)
	params[ParamKernelSize] = 7

	assert.Equal(t, 5, sel.Params[ParamKernelSize])
}

func TestParamValidatorRegistersCustomRules(t *testing.T) {
	var v = paramValidator
	require.NotPanics(t, func() { v = newParamValidator() })

	require.NoError(t, v.Var(3.0, "integral,odd"))
	require.NoError(t, v.Var(-7.0, "odd"))
	require.Error(t, v.Var(4.0, "odd"))
	require.Error(t, v.Var(2.5, "integral"))
}
