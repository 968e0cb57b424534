package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"

	"fyne.io/fyne/v2"
	"github.com/dustin/go-humanize"
)

var (
	// ErrUnsupportedFormat is wrapped in a DecodeError for uploads that are not PNG or JPEG.
	ErrUnsupportedFormat = errors.New("unsupported file type, expected PNG, JPG or JPEG")
	// ErrFileTooLarge is wrapped in a DecodeError when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
)

// ImageService handles uploads and downloads
type ImageService struct {
	repository     *models.ImageRepository
	logger         logger.Logger
	maxUploadBytes uint64
	downloadName   string
}

// NewImageService creates a new image service. A zero maxUploadBytes disables the size check.
func NewImageService(repo *models.ImageRepository, log logger.Logger, maxUploadBytes uint64, downloadName string) *ImageService {
	if downloadName == "" {
		downloadName = pipeline.DownloadFileName
	}
	return &ImageService{
		repository:     repo,
		logger:         log,
		maxUploadBytes: maxUploadBytes,
		downloadName:   downloadName,
	}
}

// LoadImageFromURI loads an upload chosen in a file dialog or dropped on the window.
func (is *ImageService) LoadImageFromURI(ctx context.Context, reader fyne.URIReadCloser) (*models.ImageData, error) {
	defer reader.Close()
	return is.LoadImage(ctx, bufio.NewReader(reader), reader.URI().Name())
}

// LoadImage decodes an upload and makes it the current original image.
func (is *ImageService) LoadImage(ctx context.Context, reader io.Reader, name string) (*models.ImageData, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	startTime := time.Now()

	if !pipeline.SupportedExtension(name) {
		return nil, models.NewDecodeError(name, ErrUnsupportedFormat)
	}

	data, err := is.readLimited(reader)
	if err != nil {
		return nil, models.NewDecodeError(name, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img, format, err := pipeline.DecodeImage(data)
	if err != nil {
		var decodeErr *models.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Source = name
		}
		is.logger.Error("ImageService", err, map[string]interface{}{"name": name})
		return nil, err
	}

	imageData := &models.ImageData{
		Image:    img,
		Name:     name,
		Format:   format,
		FileSize: int64(len(data)),
		LoadTime: time.Now(),
	}

	is.repository.SetOriginalImage(imageData)

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"name":     name,
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
		"format":   format,
		"size":     humanize.Bytes(uint64(len(data))),
		"duration": time.Since(startTime).String(),
	})

	return imageData, nil
}

func (is *ImageService) readLimited(reader io.Reader) ([]byte, error) {
	if is.maxUploadBytes == 0 {
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read image data: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(reader, int64(is.maxUploadBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if uint64(len(data)) > is.maxUploadBytes {
		return nil, fmt.Errorf("%w (limit %s)", ErrFileTooLarge, humanize.Bytes(is.maxUploadBytes))
	}
	return data, nil
}

// SaveResultToURI writes the latest result to a save-dialog target.
func (is *ImageService) SaveResultToURI(ctx context.Context, writer fyne.URIWriteCloser) error {
	defer writer.Close()
	return is.SaveResult(ctx, writer)
}

// SaveResult encodes the latest result as PNG into writer.
func (is *ImageService) SaveResult(ctx context.Context, writer io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result := is.repository.GetLatestResult()
	if result == nil {
		return ErrNoResult
	}

	encoded, err := pipeline.EncodeForDownload(result)
	if err != nil {
		is.logger.Error("ImageService", err, map[string]interface{}{"filter": result.Filter.String()})
		return fmt.Errorf("encode result: %w", err)
	}

	if _, err := writer.Write(encoded); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	is.logger.Info("ImageService", "result saved", map[string]interface{}{
		"filter":    result.Filter.String(),
		"size":      humanize.Bytes(uint64(len(encoded))),
		"mime_type": pipeline.DownloadMIMEType,
	})

	return nil
}

// DownloadName is the file name suggested in the save dialog.
func (is *ImageService) DownloadName() string {
	return is.downloadName
}

// GetImageInfo describes the current original image for the status bar.
func (is *ImageService) GetImageInfo() ImageInfo {
	imageData := is.repository.GetOriginalImage()
	if imageData == nil {
		return ImageInfo{}
	}

	return ImageInfo{
		Loaded:     true,
		Name:       imageData.Name,
		Width:      imageData.Image.Width,
		Height:     imageData.Image.Height,
		Channels:   imageData.Image.Channels,
		ColorSpace: imageData.ColorSpace(),
		Format:     imageData.Format,
		FileSize:   humanize.Bytes(uint64(imageData.FileSize)),
		LoadedAgo:  humanize.Time(imageData.LoadTime),
	}
}

// ImageInfo contains display information about the loaded image
type ImageInfo struct {
	Loaded     bool
	Name       string
	Width      int
	Height     int
	Channels   int
	ColorSpace string
	Format     string
	FileSize   string
	LoadedAgo  string
}

func (i ImageInfo) String() string {
	if !i.Loaded {
		return "No image loaded"
	}
	return fmt.Sprintf("%s | %dx%d | %s | %s | %s", i.Name, i.Width, i.Height, i.ColorSpace, i.Format, i.FileSize)
}

// Cleanup releases resources
func (is *ImageService) Cleanup() {
	if is.repository != nil {
		is.repository.Shutdown()
	}
}
