package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bloghub/dto"
	"bloghub/internal/storage"
	u "bloghub/internal/utils"
)

const MaxImageBytes = 10 << 20

var allowedImageExt = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// UploadService validates images and hands them to the media host.
type UploadService struct {
	store storage.ImageStore
}

func NewUploadService(store storage.ImageStore) *UploadService {
	return &UploadService{store: store}
}

func (s *UploadService) Upload(ctx context.Context, filename string, size int64, r io.Reader) (dto.UploadResponse, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedImageExt[ext] {
		return dto.UploadResponse{}, fieldError("image", "Only jpg, jpeg, png, gif and webp images are allowed")
	}
	if size <= 0 {
		return dto.UploadResponse{}, newError(ErrBadRequest, "No file uploaded")
	}
	if size > MaxImageBytes {
		return dto.UploadResponse{}, fieldError("image", "Image cannot exceed 10MB")
	}

	url, publicID, err := s.store.Save(ctx, ext, io.LimitReader(r, MaxImageBytes))
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("upload image: %w", err)
	}
	return dto.UploadResponse{URL: url, PublicID: publicID}, nil
}

// Delete accepts the id with "/" or its "--" path form.
func (s *UploadService) Delete(ctx context.Context, publicID string) (dto.MessageResponse, error) {
	publicID = u.DecodePublicID(strings.TrimSpace(publicID))
	if publicID == "" {
		return dto.MessageResponse{}, newError(ErrBadRequest, "Public ID is required")
	}

	if err := s.store.Delete(ctx, publicID); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidPublicID):
			return dto.MessageResponse{}, newError(ErrBadRequest, "Invalid public ID")
		case errors.Is(err, storage.ErrImageNotFound):
			return dto.MessageResponse{}, newError(ErrNotFound, "Image not found")
		}
		return dto.MessageResponse{}, fmt.Errorf("delete image: %w", err)
	}
	return dto.MessageResponse{Message: "Image deleted successfully"}, nil
}
