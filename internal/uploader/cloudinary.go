package uploader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	cldupload "github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Cloudinary uploads image bytes and returns the public secure URL.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *zap.Logger
}

func NewCloudinary(cloudinaryURL string, logger *zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &Cloudinary{
		cld:    cld,
		logger: logger,
	}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), cldupload.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		c.logger.Error("cloudinary upload failed",
			zap.String("folder", folder),
			zap.Error(err),
		)
		return "", fmt.Errorf("upload image: %w", err)
	}

	if resp == nil || resp.SecureURL == "" {
		return "", fmt.Errorf("upload returned no usable URL")
	}

	return resp.SecureURL, nil
}
