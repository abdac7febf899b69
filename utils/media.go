package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CreateThumb writes a resized copy of <dir>/<id><ext> into
// <dir>/thumb/<id>.jpg. Failures are logged; callers treat thumbnails
// as best-effort.
func CreateThumb(id, dir, ext string, width, height int) {
	srcPath := filepath.Join(dir, id+ext)
	img, err := imaging.Open(srcPath)
	if err != nil {
		log.Printf("thumb: open %s failed: %v", srcPath, err)
		return
	}

	thumbDir := filepath.Join(dir, "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		log.Printf("thumb: mkdir %s failed: %v", thumbDir, err)
		return
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	thumbPath := filepath.Join(thumbDir, id+".jpg")
	if err := imaging.Save(resized, thumbPath); err != nil {
		log.Printf("thumb: save %s failed: %v", thumbPath, err)
	}
}

// EnsureDir creates dir and parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
