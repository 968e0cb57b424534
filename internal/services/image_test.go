package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"filterlab/internal/logger"
	"filterlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	repo := models.NewImageRepository()
	is := NewImageService(repo, logger.NoOpLogger{}, 0, "")

	data, err := is.LoadImage(context.Background(), bytes.NewReader(encodePNG(t, 6, 4)), "photo.PNG")
	require.NoError(t, err)

	assert.Equal(t, 6, data.Image.Width)
	assert.Equal(t, 4, data.Image.Height)
	assert.Equal(t, 3, data.Image.Channels)
	assert.Equal(t, "png", data.Format)
	assert.Same(t, data, repo.GetOriginalImage())

	info := is.GetImageInfo()
	assert.True(t, info.Loaded)
	assert.Equal(t, "RGB", info.ColorSpace)
	assert.Contains(t, info.String(), "photo.PNG | 6x4")
}

func TestLoadImageReplacesResult(t *testing.T) {
	repo := models.NewImageRepository()
	previous := &models.ImageData{Image: models.Image{Width: 1, Height: 1, Channels: 1, Pix: []uint8{9}}}
	repo.SetOriginalImage(previous)
	require.True(t, repo.SetLatestResultIf(previous, &models.ProcessedResult{}))
	is := NewImageService(repo, logger.NoOpLogger{}, 0, "")

	_, err := is.LoadImage(context.Background(), bytes.NewReader(encodePNG(t, 2, 2)), "a.png")
	require.NoError(t, err)
	assert.Nil(t, repo.GetLatestResult())
}

func TestLoadImageErrors(t *testing.T) {
	valid := encodePNG(t, 20, 20)

	tests := []struct {
		name    string
		limit   uint64
		file    string
		data    []byte
		wantErr error
	}{
		{"unsupported extension", 0, "photo.gif", valid, ErrUnsupportedFormat},
		{"no extension", 0, "photo", valid, ErrUnsupportedFormat},
		{"too large", 16, "photo.png", valid, ErrFileTooLarge},
		{"garbage", 0, "photo.jpg", []byte("not an image"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := models.NewImageRepository()
			is := NewImageService(repo, logger.NoOpLogger{}, tt.limit, "")

			_, err := is.LoadImage(context.Background(), bytes.NewReader(tt.data), tt.file)

			var decodeErr *models.DecodeError
			require.True(t, errors.As(err, &decodeErr), "got %v", err)
			assert.Equal(t, tt.file, decodeErr.Source)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, repo.GetOriginalImage())
		})
	}
}

func TestLoadImageCancelled(t *testing.T) {
	is := NewImageService(models.NewImageRepository(), logger.NoOpLogger{}, 0, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := is.LoadImage(ctx, strings.NewReader(""), "a.png")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSaveResult(t *testing.T) {
	repo := models.NewImageRepository()
	is := NewImageService(repo, logger.NoOpLogger{}, 0, "")

	var buf bytes.Buffer
	require.ErrorIs(t, is.SaveResult(context.Background(), &buf), ErrNoResult)

	img, err := models.NewImage(3, 2, 1)
	require.NoError(t, err)
	img.Set(1, 1, 0, 200)
	original := &models.ImageData{Image: img}
	repo.SetOriginalImage(original)
	require.True(t, repo.SetLatestResultIf(original, &models.ProcessedResult{Image: img, Filter: models.FilterCanny}))

	require.NoError(t, is.SaveResult(context.Background(), &buf))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
	r, g, b, _ := decoded.At(1, 1).RGBA()
	assert.Equal(t, []uint32{200, 200, 200}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "processed_image.png", NewImageService(nil, logger.NoOpLogger{}, 0, "").DownloadName())
	assert.Equal(t, "out.png", NewImageService(nil, logger.NoOpLogger{}, 0, "out.png").DownloadName())
	assert.Equal(t, "No image loaded", NewImageService(models.NewImageRepository(), logger.NoOpLogger{}, 0, "").GetImageInfo().String())
}
