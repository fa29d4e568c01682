package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/label-vectorizer/internal/raster"
)

// LabelCache provides thread-safe caching of decoded label grids to avoid
// redundant disk reads.
//
// The cache stores *raster.LabelImage values keyed by their file path. Once a
// label file is decoded, subsequent Load() calls for the same path return the
// cached grid without disk I/O. Label grids are treated as read-only by every
// consumer, so the same pointer can be handed to many goroutines.
//
// # Memory Management
//
// Cached grids remain in memory until explicitly removed via Evict() or
// Clear(). A batch run over a directory evicts each file once it has been
// vectorised; the MCP server keeps grids so repeated tool calls on the same
// file stay cheap.
//
// # Example Usage
//
//	cache := imaging.NewLabelCache()
//	labels, err := cache.Load("/path/to/tile_lab.png")
//	if err != nil {
//	    return err
//	}
//	rec, ok, err := extractor.Extract(filepath.Base(path), labels)
type LabelCache struct {
	mu     sync.RWMutex
	labels map[string]*raster.LabelImage
}

// NewLabelCache creates and initializes a new empty label cache.
func NewLabelCache() *LabelCache {
	return &LabelCache{
		labels: make(map[string]*raster.LabelImage),
	}
}

// Load retrieves a label grid from the cache or decodes it from disk.
//
// Parameters:
//   - path: Absolute or relative path to the label image. Supported formats
//     are PNG, JPEG, and GIF, though label data should only ever be stored
//     losslessly (PNG).
//
// Returns:
//   - *raster.LabelImage: The decoded class grid.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// Class ids are read with raster.LabelsFromImage: gray images by value,
// paletted images by palette index, everything else by red channel.
func (c *LabelCache) Load(path string) (*raster.LabelImage, error) {
	c.mu.RLock()
	if l, ok := c.labels[path]; ok {
		c.mu.RUnlock()
		return l, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load label image: %w", err)
	}
	labels := raster.LabelsFromImage(img)

	c.mu.Lock()
	c.labels[path] = labels
	c.mu.Unlock()

	return labels, nil
}

// Clear removes all grids from the cache.
func (c *LabelCache) Clear() {
	c.mu.Lock()
	c.labels = make(map[string]*raster.LabelImage)
	c.mu.Unlock()
}

// Evict removes a specific grid from the cache by its path. Unknown paths are
// ignored.
func (c *LabelCache) Evict(path string) {
	c.mu.Lock()
	delete(c.labels, path)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *LabelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}

// DecodeLabels decodes a label image from r without caching it. It is used
// for uploads that never touch the filesystem.
func DecodeLabels(r io.Reader) (*raster.LabelImage, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode label image: %w", err)
	}
	return raster.LabelsFromImage(img), nil
}

// LoadBackdrop opens the imagery a record is drawn over, applying any EXIF
// orientation so the pixels line up with the label grid.
func LoadBackdrop(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load backdrop: %w", err)
	}
	return img, nil
}

// LabelInfo summarises a label image file.
type LabelInfo struct {
	// Width is the grid width in pixels.
	Width int `json:"width"`

	// Height is the grid height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// Classes lists the non-background class ids present, ascending.
	Classes []int `json:"classes"`

	// PixelCounts maps each class id present (background included) to its
	// pixel count.
	PixelCounts map[int]int `json:"pixel_counts"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadLabelInfo loads a label file (through the cache) and describes it.
//
// Parameters:
//   - cache: The label cache to use for loading. Must not be nil.
//   - path: Path to the label file.
//
// Returns:
//   - *LabelInfo: Dimensions, format and the classes present.
//   - error: Non-nil if the file cannot be loaded or stat'd.
func LoadLabelInfo(cache *LabelCache, path string) (*LabelInfo, error) {
	labels, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &LabelInfo{
		Width:         labels.Width,
		Height:        labels.Height,
		Format:        formatFromExt(path),
		Classes:       labels.Classes(),
		PixelCounts:   labels.Histogram(),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	}
	return "unknown"
}
