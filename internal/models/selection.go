package models

import (
	"time"
)

// Family is the top-level filter category chosen in the sidebar.
type Family int

const (
	FamilySmoothing Family = iota
	FamilySharpening
	FamilyEdgeDetection
)

func (f Family) String() string {
	switch f {
	case FamilySmoothing:
		return "Smoothing Filters"
	case FamilySharpening:
		return "Sharpening Filters"
	case FamilyEdgeDetection:
		return "Edge Detection"
	default:
		return "Unknown Family"
	}
}

// Families lists every family in display order.
func Families() []Family {
	return []Family{FamilySmoothing, FamilySharpening, FamilyEdgeDetection}
}

// Technique is the sub-choice within a family.
type Technique int

const (
	TechniqueGaussian Technique = iota
	TechniqueMedian
	TechniqueBilateral
	TechniqueLaplacian
	TechniqueUnsharpMask
	TechniqueCanny
	TechniqueSobel
)

func (t Technique) String() string {
	switch t {
	case TechniqueGaussian:
		return "Gaussian"
	case TechniqueMedian:
		return "Median"
	case TechniqueBilateral:
		return "Bilateral"
	case TechniqueLaplacian:
		return "Laplacian"
	case TechniqueUnsharpMask:
		return "Unsharp Mask"
	case TechniqueCanny:
		return "Canny"
	case TechniqueSobel:
		return "Sobel"
	default:
		return "Unknown Technique"
	}
}

// Filter is the closed set of transforms the pipeline can dispatch to. Each
// value corresponds to exactly one (Family, Technique) pair.
type Filter int

const (
	FilterGaussianBlur Filter = iota
	FilterMedianBlur
	FilterBilateral
	FilterLaplacianSharpen
	FilterUnsharpMask
	FilterCanny
	FilterSobel
	FilterLaplacianEdges
)

type filterKey struct {
	family    Family
	technique Technique
}

var filterRegistry = map[filterKey]Filter{
	{FamilySmoothing, TechniqueGaussian}:      FilterGaussianBlur,
	{FamilySmoothing, TechniqueMedian}:        FilterMedianBlur,
	{FamilySmoothing, TechniqueBilateral}:     FilterBilateral,
	{FamilySharpening, TechniqueLaplacian}:    FilterLaplacianSharpen,
	{FamilySharpening, TechniqueUnsharpMask}:  FilterUnsharpMask,
	{FamilyEdgeDetection, TechniqueCanny}:     FilterCanny,
	{FamilyEdgeDetection, TechniqueSobel}:     FilterSobel,
	{FamilyEdgeDetection, TechniqueLaplacian}: FilterLaplacianEdges,
}

var familyTechniques = map[Family][]Technique{
	FamilySmoothing:     {TechniqueGaussian, TechniqueMedian, TechniqueBilateral},
	FamilySharpening:    {TechniqueLaplacian, TechniqueUnsharpMask},
	FamilyEdgeDetection: {TechniqueCanny, TechniqueSobel, TechniqueLaplacian},
}

// ResolveFilter maps a family/technique pair to its filter.
func ResolveFilter(family Family, technique Technique) (Filter, error) {
	filter, ok := filterRegistry[filterKey{family, technique}]
	if !ok {
		return 0, NewUnsupportedOperationError(family, technique)
	}
	return filter, nil
}

// Techniques returns the techniques offered for a family, in display order.
func Techniques(family Family) []Technique {
	techniques := familyTechniques[family]
	result := make([]Technique, len(techniques))
	copy(result, techniques)
	return result
}

// Family returns the family the filter belongs to.
func (f Filter) Family() Family {
	for key, filter := range filterRegistry {
		if filter == f {
			return key.family
		}
	}
	return Family(-1)
}

// Technique returns the technique the filter implements.
func (f Filter) Technique() Technique {
	for key, filter := range filterRegistry {
		if filter == f {
			return key.technique
		}
	}
	return Technique(-1)
}

func (f Filter) String() string {
	switch f {
	case FilterGaussianBlur:
		return "gaussian_blur"
	case FilterMedianBlur:
		return "median_blur"
	case FilterBilateral:
		return "bilateral_filter"
	case FilterLaplacianSharpen:
		return "laplacian_sharpen"
	case FilterUnsharpMask:
		return "unsharp_mask"
	case FilterCanny:
		return "canny_edges"
	case FilterSobel:
		return "sobel_edges"
	case FilterLaplacianEdges:
		return "laplacian_edges"
	default:
		return "unknown_filter"
	}
}

// IsEdgeDetection reports whether the filter produces a single-channel edge map.
func (f Filter) IsEdgeDetection() bool {
	return f.Family() == FamilyEdgeDetection
}

// FilterSelection is the complete, immutable request for one filter run.
type FilterSelection struct {
	Family    Family
	Technique Technique
	Params    map[string]interface{}
}

// NewFilterSelection copies params so later changes by the caller do not leak in.
func NewFilterSelection(family Family, technique Technique, params map[string]interface{}) FilterSelection {
	copied := make(map[string]interface{}, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return FilterSelection{Family: family, Technique: technique, Params: copied}
}

// ProcessedResult is the normalised output of one filter run.
type ProcessedResult struct {
	Image      Image
	Filter     Filter
	Parameters Parameters
	Duration   time.Duration
}
