package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/garasindo/wms/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// savePhotos writes uploaded files under the configured upload dir
// with random names and returns the stored file names.
func savePhotos(c *gin.Context, cfg config.UploadConfig, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files uploaded")
	}
	if len(files) > cfg.MaxPhotos {
		return nil, fmt.Errorf("at most %d photos per upload", cfg.MaxPhotos)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > cfg.MaxSizeBytes {
			return nil, fmt.Errorf("file %s exceeds the size limit", fh.Filename)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			return nil, fmt.Errorf("unsupported file type %s", ext)
		}

		name := uuid.NewString() + ext
		if err := c.SaveUploadedFile(fh, filepath.Join(cfg.Dir, name)); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", fh.Filename, err)
		}
		names = append(names, name)
	}
	return names, nil
}
