// Package images moves oversized inline images out of a design document
// before it is sent to the model.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"whiteboard2web/internal/types"

	"github.com/google/uuid"
)

// DefaultMaxBytes is the inline payload size above which an image is saved to disk.
const DefaultMaxBytes = 200000

// ErrImageDecode is returned when a data URL cannot be decoded.
var ErrImageDecode = errors.New("image decode failed")

// Shrink returns a copy of design in which every data URL longer than
// maxBytes has been written to dir and replaced by a saved-file reference.
// Both the top-level images and those embedded in the analysis are handled.
// Images that cannot be decoded or saved are dropped; the rest of the
// design is unaffected. An empty dir means the OS temp directory.
func Shrink(design types.DesignData, maxBytes int, dir string) types.DesignData {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if dir == "" {
		dir = os.TempDir()
	}

	out := design
	if design.Images != nil {
		out.Images = make([]types.ImageDescriptor, 0, len(design.Images))
	}
	for _, img := range design.Images {
		src, keep := shrinkSrc(img.ID, img.Src, maxBytes, dir)
		if !keep {
			continue
		}
		img.Src = src
		out.Images = append(out.Images, img)
	}
	out.DesignAnalysis = shrinkAnalysis(design.DesignAnalysis, maxBytes, dir)
	return out
}

// shrinkAnalysis applies the same rewrite to image descriptors embedded in
// the analysis, under "images" and "elements.images". Maps along the way are
// copied, never modified.
func shrinkAnalysis(analysis types.DesignAnalysis, maxBytes int, dir string) types.DesignAnalysis {
	if analysis == nil {
		return nil
	}
	out := make(types.DesignAnalysis, len(analysis))
	for k, v := range analysis {
		out[k] = v
	}
	if list, ok := analysis[types.CategoryImages].([]any); ok {
		out[types.CategoryImages] = shrinkList(list, maxBytes, dir)
	}
	if elements, ok := analysis["elements"].(map[string]any); ok {
		if list, ok := elements[types.CategoryImages].([]any); ok {
			copied := make(map[string]any, len(elements))
			for k, v := range elements {
				copied[k] = v
			}
			copied[types.CategoryImages] = shrinkList(list, maxBytes, dir)
			out["elements"] = copied
		}
	}
	return out
}

func shrinkList(list []any, maxBytes int, dir string) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		src, isString := fields["src"].(string)
		if !isString {
			out = append(out, item)
			continue
		}
		newSrc, keep := shrinkSrc(fields["id"], src, maxBytes, dir)
		if !keep {
			continue
		}
		if newSrc == src {
			out = append(out, item)
			continue
		}
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		copied["src"] = newSrc
		out = append(out, copied)
	}
	return out
}

// shrinkSrc returns the src to use for one image and whether to keep the image at all.
func shrinkSrc(id any, src string, maxBytes int, dir string) (string, bool) {
	if !strings.HasPrefix(src, "data:") || len(src) <= maxBytes {
		return src, true
	}
	path, err := SaveDataURL(src, dir)
	if err != nil {
		log.Printf("WARN: Dropping image %v (%d bytes inline): %v", id, len(src), err)
		return "", false
	}
	log.Printf("Info: Saved inline image %v (%d bytes) to %s", id, len(src), path)
	return types.SavedFilePrefix + path, true
}

// SaveDataURL decodes a base64 data URL and writes the bytes to a uniquely
// named file in dir, returning its path.
func SaveDataURL(dataURL, dir string) (string, error) {
	header, encoded, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", fmt.Errorf("%w: missing data URL separator", ErrImageDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	path := filepath.Join(dir, "whiteboard-"+uuid.New().String()+extensionFor(header))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file %s: %w", path, err)
	}
	return path, nil
}

// extensionFor picks a file extension from the MIME type declared in a data URL header.
func extensionFor(header string) string {
	header = strings.ToLower(header)
	switch {
	case strings.Contains(header, "png"):
		return ".png"
	case strings.Contains(header, "jpeg"), strings.Contains(header, "jpg"):
		return ".jpg"
	default:
		return ".bin"
	}
}
