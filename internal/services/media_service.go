package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	resumeFolder    = "resumes"
	resumeMaxWidth  = 1000
	resumeMaxHeight = 1000
	resumeQuality   = 80
)

// Uploader hands processed image bytes to external storage and returns the
// public URL they are served from.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// MediaService turns an uploaded resume image into a hosted URL: decode,
// shrink into the bounding box, re-encode as JPEG, push to storage.
type MediaService struct {
	Uploader Uploader
	Logger   *zap.Logger
}

func NewMediaService(up Uploader, logger *zap.Logger) *MediaService {
	return &MediaService{
		Uploader: up,
		Logger:   logger,
	}
}

func (m *MediaService) UploadResume(ctx context.Context, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode resume image: %w", err)
	}

	// Fit shrinks to the bounding box preserving aspect ratio and leaves
	// smaller images alone.
	img = imaging.Fit(img, resumeMaxWidth, resumeMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(resumeQuality)); err != nil {
		return "", fmt.Errorf("encode resume image: %w", err)
	}

	url, err := m.Uploader.Upload(ctx, buf.Bytes(), resumeFolder)
	if err != nil {
		m.Logger.Error("resume upload failed", zap.Error(err))
		return "", fmt.Errorf("upload resume: %w", err)
	}

	if url == "" {
		return "", fmt.Errorf("upload service returned empty URL")
	}

	return url, nil
}
