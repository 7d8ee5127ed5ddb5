package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Folder is the public id prefix for every stored image.
const Folder = "blog-images"

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidPublicID = errors.New("invalid public id")
)

var publicIDPattern = regexp.MustCompile(`^` + Folder + `/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[a-z]+$`)

// ImageStore is the media host the API hands uploads to. Posts only keep
// the returned URL.
type ImageStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// LocalImageStore writes images under Dir and serves them from BaseURL.
type LocalImageStore struct {
	Dir     string
	BaseURL string // e.g. http://localhost:5000/uploads
}

func NewLocalImageStore(dir, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, Folder), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalImageStore) Save(ctx context.Context, ext string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	publicID := Folder + "/" + uuid.NewString() + "." + ext

	path := filepath.Join(s.Dir, filepath.FromSlash(publicID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", "", fmt.Errorf("close image: %w", err)
	}
	return s.BaseURL + "/" + publicID, publicID, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !publicIDPattern.MatchString(publicID) {
		return ErrInvalidPublicID
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(publicID)))
	if errors.Is(err, os.ErrNotExist) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
