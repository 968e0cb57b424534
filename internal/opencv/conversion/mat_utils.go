package conversion

import (
	"fmt"

	"filterlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatProperties contains information about Mat characteristics
type MatProperties struct {
	Rows     int
	Cols     int
	Channels int
	Type     gocv.MatType
	DataType string
	Tag      string
	Empty    bool
}

// GetMatProperties returns detailed information about a Mat
func GetMatProperties(mat *safe.Mat) MatProperties {
	if mat == nil {
		return MatProperties{Empty: true}
	}

	return MatProperties{
		Rows:     mat.Rows(),
		Cols:     mat.Cols(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
		DataType: getDataTypeName(mat.Type()),
		Tag:      mat.Tag(),
		Empty:    mat.Empty(),
	}
}

// SaturateToUint8 takes the absolute value of every sample and saturates it
// into 8-bit unsigned range, rounding to nearest. 8-bit input is cloned.
func SaturateToUint8(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "saturate to 8-bit"); err != nil {
		return nil, err
	}

	if is8BitType(src.Type()) {
		return src.Clone()
	}

	dst := safe.NewEmptyMat("saturated")
	gocv.ConvertScaleAbs(src.GetMat(), dst.Ptr(), 1.0, 0.0)

	if dst.Empty() {
		dst.Close()
		return nil, fmt.Errorf("saturation produced an empty Mat from %s", getDataTypeName(src.Type()))
	}

	return dst, nil
}

// getDataTypeName returns human-readable name for MatType
func getDataTypeName(matType gocv.MatType) string {
	switch matType {
	case gocv.MatTypeCV8UC1:
		return "8-bit unsigned single channel"
	case gocv.MatTypeCV8UC3:
		return "8-bit unsigned 3-channel"
	case gocv.MatTypeCV16SC1:
		return "16-bit signed single channel"
	case gocv.MatTypeCV32FC1:
		return "32-bit float single channel"
	case gocv.MatTypeCV32FC3:
		return "32-bit float 3-channel"
	case gocv.MatTypeCV64FC1:
		return "64-bit float single channel"
	case gocv.MatTypeCV64FC3:
		return "64-bit float 3-channel"
	default:
		return fmt.Sprintf("unknown type %d", int(matType))
	}
}

func is8BitType(matType gocv.MatType) bool {
	return matType == gocv.MatTypeCV8UC1 || matType == gocv.MatTypeCV8UC3
}
