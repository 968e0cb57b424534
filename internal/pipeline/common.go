package pipeline

// Logger is the subset of the application logger the pipeline writes to.
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

const (
	// DownloadFileName is the suggested name for an encoded result.
	DownloadFileName = "processed_image.png"
	// DownloadMIMEType is the media type of EncodeForDownload's output.
	DownloadMIMEType = "image/png"
)
