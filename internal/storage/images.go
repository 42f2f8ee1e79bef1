package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// allowed upload extensions, lowercase
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ImageStore persists uploaded product images on the local filesystem and
// trims the directory back to a file cap, oldest first.
type ImageStore struct {
	dir      string
	maxFiles int
	maxBytes int64
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(dir string, maxFiles int, maxBytes int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir, maxFiles: maxFiles, maxBytes: maxBytes}, nil
}

// Dir returns the directory images are stored in.
func (s *ImageStore) Dir() string {
	return s.dir
}

// MaxBytes returns the per-file size cap.
func (s *ImageStore) MaxBytes() int64 {
	return s.maxBytes
}

// ValidExt reports whether the original filename carries an accepted image
// extension.
func ValidExt(filename string) bool {
	return allowedExts[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the image under a fresh uuid filename, keeping the original
// extension, and returns the stored filename.
func (s *ImageStore) Save(originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1)); err != nil {
		return "", err
	}
	info, err := dst.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() > s.maxBytes {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("image exceeds %d byte limit", s.maxBytes)
	}
	return name, nil
}

// EnforceRetention deletes the oldest files beyond the configured cap and
// returns how many were removed.
func (s *ImageStore) EnforceRetention() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	type fileInfo struct {
		name    string
		modTime int64
	}
	files := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{name: e.Name(), modTime: info.ModTime().UnixNano()})
	}
	if len(files) <= s.maxFiles {
		return 0, nil
	}

	// newest first; everything past the cap goes
	sort.Slice(files, func(i, j int) bool { return files[i].modTime > files[j].modTime })
	removed := 0
	for _, f := range files[s.maxFiles:] {
		if err := os.Remove(filepath.Join(s.dir, f.name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// PlaceholderSVG renders a simple gray placeholder with the dimensions as
// the label, used when a product has no uploaded image yet.
func PlaceholderSVG(width, height int) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#e2e8f0"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" `+
			`font-family="sans-serif" font-size="%d" fill="#94a3b8">%d×%d</text>`+
			`</svg>`,
		width, height, width, height, max(12, min(width, height)/8), width, height)
}
