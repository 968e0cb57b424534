package models

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// Image is an 8-bit interleaved pixel buffer. Pix is row-major with Channels
// samples per pixel; three-channel images are stored in RGB order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed image after checking the dimensions.
func NewImage(width, height, channels int) (Image, error) {
	img := Image{Width: width, Height: height, Channels: channels}
	if err := img.validateShape(); err != nil {
		return Image{}, err
	}
	img.Pix = make([]uint8, width*height*channels)
	return img, nil
}

// Validate checks W>0, H>0, C in {1,3} and that Pix has exactly W*H*C samples.
func (img Image) Validate() error {
	if err := img.validateShape(); err != nil {
		return err
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d samples, expected %d", len(img.Pix), want)
	}
	return nil
}

func (img Image) validateShape() error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", img.Width, img.Height)
	}
	if img.Channels != 1 && img.Channels != 3 {
		return fmt.Errorf("unsupported channel count: %d", img.Channels)
	}
	return nil
}

// Empty reports whether the image holds no pixels.
func (img Image) Empty() bool {
	return len(img.Pix) == 0
}

// Clone returns a deep copy.
func (img Image) Clone() Image {
	dup := img
	if img.Pix != nil {
		dup.Pix = make([]uint8, len(img.Pix))
		copy(dup.Pix, img.Pix)
	}
	return dup
}

// At returns channel c of the pixel at (x, y).
func (img Image) At(x, y, c int) uint8 {
	return img.Pix[(y*img.Width+x)*img.Channels+c]
}

// Set writes channel c of the pixel at (x, y).
func (img Image) Set(x, y, c int, v uint8) {
	img.Pix[(y*img.Width+x)*img.Channels+c] = v
}

// Equal reports whether two images have the same shape and samples.
func (img Image) Equal(other Image) bool {
	if img.Width != other.Width || img.Height != other.Height || img.Channels != other.Channels {
		return false
	}
	if len(img.Pix) != len(other.Pix) {
		return false
	}
	for i := range img.Pix {
		if img.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// ToRGB broadcasts a single-channel image to three channels. Three-channel
// images are returned as a copy.
func (img Image) ToRGB() Image {
	if img.Channels == 3 {
		return img.Clone()
	}

	rgb := Image{Width: img.Width, Height: img.Height, Channels: 3}
	rgb.Pix = make([]uint8, img.Width*img.Height*3)
	for i, v := range img.Pix {
		rgb.Pix[i*3] = v
		rgb.Pix[i*3+1] = v
		rgb.Pix[i*3+2] = v
	}
	return rgb
}

// ToStdImage converts to *image.Gray (C=1) or *image.RGBA (C=3) for display.
func (img Image) ToStdImage() image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)

	if img.Channels == 1 {
		gray := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+img.Width], img.Pix[y*img.Width:(y+1)*img.Width])
		}
		return gray
	}

	rgba := image.NewRGBA(rect)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := (y*img.Width + x) * 3
			dst := y*rgba.Stride + x*4
			rgba.Pix[dst] = img.Pix[src]
			rgba.Pix[dst+1] = img.Pix[src+1]
			rgba.Pix[dst+2] = img.Pix[src+2]
			rgba.Pix[dst+3] = 255
		}
	}
	return rgba
}

// FromStdImage converts a decoded image. Gray sources become single-channel;
// everything else becomes RGB with alpha discarded.
func FromStdImage(src image.Image) (Image, error) {
	if src == nil {
		return Image{}, fmt.Errorf("input image is nil")
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch typed := src.(type) {
	case *image.Gray:
		img, err := NewImage(width, height, 1)
		if err != nil {
			return Image{}, err
		}
		for y := 0; y < height; y++ {
			off := typed.PixOffset(bounds.Min.X, y+bounds.Min.Y)
			copy(img.Pix[y*width:(y+1)*width], typed.Pix[off:off+width])
		}
		return img, nil
	case *image.Gray16:
		img, err := NewImage(width, height, 1)
		if err != nil {
			return Image{}, err
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				img.Pix[y*width+x] = uint8(typed.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y >> 8)
			}
		}
		return img, nil
	}

	img, err := NewImage(width, height, 3)
	if err != nil {
		return Image{}, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(src.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			i := (y*width + x) * 3
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
		}
	}
	return img, nil
}

// ImageData is an uploaded image together with what the UI reports about it.
type ImageData struct {
	Image    Image
	Name     string
	Format   string
	FileSize int64
	LoadTime time.Time
}

// ColorSpace names the channel layout of the image.
func (d *ImageData) ColorSpace() string {
	switch d.Image.Channels {
	case 1:
		return "grayscale"
	case 3:
		return "RGB"
	default:
		return "unknown"
	}
}
