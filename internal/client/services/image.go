package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/netx"
)

const maxImageSize = 10 << 20

// Uploader stores an image somewhere publicly reachable.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*models.Image, error)
}

// NewAPIUploader uploads through the backend's multipart endpoint.
func NewAPIUploader(api client.ImageAPI) Uploader {
	return apiUploader{api: api}
}

type apiUploader struct {
	api client.ImageAPI
}

func (u apiUploader) Upload(ctx context.Context, filename string, r io.Reader) (*models.Image, error) {
	return u.api.UploadImage(ctx, filename, r)
}

type ImageService interface {
	// Upload sends the image file at path and returns its public URL. Admin only.
	Upload(ctx context.Context, path string) (*models.Image, error)
}

type imageService struct {
	uploader Uploader
	guard    Guard
}

func NewImageService(uploader Uploader, guard Guard) ImageService {
	return &imageService{uploader: uploader, guard: guard}
}

func (s *imageService) Upload(ctx context.Context, path string) (*models.Image, error) {
	if _, err := s.guard.RequireAdmin(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("%w: image is larger than %d bytes", common.ErrValidation, maxImageSize)
	}
	if ct := netx.SniffContentType(data); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: %s is not an image (%s)", common.ErrValidation, filepath.Base(path), ct)
	}

	img, err := s.uploader.Upload(ctx, filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return img, nil
}
