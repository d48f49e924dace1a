package service

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"spicedums/internal/errors"
)

// PlaceholderImage is served for products without a usable image.
const PlaceholderImage = "/images/placeholder.png"

const maxUploadSize = 5 << 20

var (
	allowedImageExt = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|webp)$`)
	unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]`)
)

// ImageResolver maps stored image paths to files that exist under the public dir.
type ImageResolver struct {
	publicDir string
	now       func() time.Time
}

// NewImageResolver creates a resolver rooted at publicDir.
func NewImageResolver(publicDir string) *ImageResolver {
	return &ImageResolver{publicDir: publicDir, now: time.Now}
}

// Resolve returns the public URL path to display for image.
func (r *ImageResolver) Resolve(image string) string {
	if image == "" {
		return PlaceholderImage
	}
	normalized := image
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if r.exists(normalized) {
		return normalized
	}
	if strings.HasPrefix(normalized, "/images/") {
		alt := "/uploads/" + path.Base(normalized)
		if r.exists(alt) {
			return alt
		}
	}
	return PlaceholderImage
}

func (r *ImageResolver) exists(urlPath string) bool {
	clean := path.Clean(urlPath)
	if strings.Contains(clean, "..") {
		return false
	}
	info, err := os.Stat(filepath.Join(r.publicDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	return err == nil && !info.IsDir()
}

// SaveUpload writes an uploaded image into <publicDir>/uploads and returns its URL path.
func (r *ImageResolver) SaveUpload(filename string, src io.Reader) (string, error) {
	if !allowedImageExt.MatchString(filename) {
		return "", fmt.Errorf("%w: unsupported image type", errors.ErrInvalidInput)
	}
	dir := filepath.Join(r.publicDir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	base := unsafeFileChars.ReplaceAllString(filepath.Base(filename), "_")
	name := fmt.Sprintf("%d-%s", r.now().UnixMilli(), base)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > maxUploadSize {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: image larger than 5MB", errors.ErrInvalidInput)
	}
	return "/uploads/" + name, nil
}

// RemoveUpload deletes a file previously returned by SaveUpload. Other paths are ignored.
func (r *ImageResolver) RemoveUpload(urlPath string) error {
	if !strings.HasPrefix(urlPath, "/uploads/") {
		return nil
	}
	name := path.Base(urlPath)
	if name != strings.TrimPrefix(urlPath, "/uploads/") {
		return nil
	}
	err := os.Remove(filepath.Join(r.publicDir, "uploads", name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
