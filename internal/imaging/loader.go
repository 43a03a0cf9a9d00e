package imaging

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// ITU-R BT.601 luma weights, the same conversion most image libraries use
// for RGB to grayscale.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// cacheEntry holds a decoded image and, once requested, its raster.
type cacheEntry struct {
	img    image.Image
	raster *region.Raster
}

// ImageCache caches decoded images and their growth rasters keyed by path.
//
// Decoding and grayscale conversion happen once per path; every session
// opened on the same file shares the same immutable Raster.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	raster, err := cache.LoadRaster("/path/to/scan.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session, err := region.NewSession(raster, cfg)
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Supported formats are PNG, JPEG and GIF. The path is used verbatim as the
// cache key, so relative and absolute spellings of one file are cached
// separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// LoadRaster returns the growth raster for the image at path.
//
// The grayscale channel is computed with BT.601 weights
// (0.299*R + 0.587*G + 0.114*B); the original pixels are kept as the
// co-registered color image used by overlays.
func (c *ImageCache) LoadRaster(path string) (*region.Raster, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	r := e.raster
	c.mu.RUnlock()
	if r != nil {
		return r, nil
	}

	r, err = NewRaster(e.img)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e.raster == nil {
		e.raster = r
	}
	r = e.raster
	c.mu.Unlock()

	return r, nil
}

func (c *ImageCache) entry(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e, nil
	}
	e := &cacheEntry{img: img}
	c.entries[path] = e
	return e, nil
}

// Clear drops every cached image. Rasters already handed to sessions stay
// valid.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict drops the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// NewRaster converts a decoded image into a growth raster: BT.601 grayscale
// intensities plus an RGBA copy of the original for overlays.
func NewRaster(img image.Image) (*region.Raster, error) {
	luma := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	gray := image.NewGray(luma.Bounds())
	draw.Draw(gray, gray.Bounds(), luma, luma.Bounds().Min, draw.Src)
	return region.NewRaster(gray, clone.AsRGBA(img))
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`      // "png", "jpeg", "gif" or "unknown", from the extension
	ColorDepth    string `json:"color_depth"` // "8-bit" or "16-bit"
	HasAlpha      bool   `json:"has_alpha"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadImageInfo loads the image at path through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	b := img.Bounds()
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns only the size of the image at path.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
}
