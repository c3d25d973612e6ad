package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenUpload opens name relative to uploadDir. Absolute paths and paths that
// climb out of uploadDir are rejected, as are files larger than maxSize.
func OpenUpload(uploadDir, name string, maxSize int64) (io.ReadCloser, error) {
	if name == "" || filepath.IsAbs(name) {
		return nil, fmt.Errorf("%w: %q", ErrPathOutsideUploadDir, name)
	}
	base, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("resolving upload dir: %w", err)
	}
	full := filepath.Join(base, name)
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %q", ErrPathOutsideUploadDir, name)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening source: %q is a directory", name)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSourceTooLarge, info.Size(), maxSize)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	return f, nil
}

// InlineSource wraps CSV content passed directly by a caller.
func InlineSource(content string, maxSize int64) (io.Reader, error) {
	if maxSize > 0 && int64(len(content)) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSourceTooLarge, len(content), maxSize)
	}
	return strings.NewReader(content), nil
}
