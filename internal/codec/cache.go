package codec

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/ironsheep/png-crop/internal/imaging"
)

// Cache provides thread-safe caching of decoded buffers to avoid redundant disk reads.
//
// Buffers are keyed by the exact path string passed to Load. Once a file is
// decoded, subsequent Load calls for the same path return the cached buffer
// without disk I/O. Because buffers are immutable, the same value can be handed
// to any number of callers.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := codec.NewCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png") // Optional: free memory
type Cache struct {
	mu     sync.RWMutex
	images map[string]*imaging.Image
}

// NewCache creates and initializes a new empty cache.
func NewCache() *Cache {
	return &Cache{
		images: make(map[string]*imaging.Image),
	}
}

// Load retrieves a buffer from the cache or decodes it from disk if not cached.
//
// Different paths to the same file (e.g., relative vs absolute) result in
// separate cache entries. Failed loads are not cached.
func (c *Cache) Load(path string) (*imaging.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.images[path]; ok {
		// Another goroutine won the race; keep a single value per path.
		img = cached
	} else {
		c.images[path] = img
	}
	c.mu.Unlock()

	return img, nil
}

// Reload evicts path and decodes it again.
func (c *Cache) Reload(path string) (*imaging.Image, error) {
	c.Evict(path)
	return c.Load(path)
}

// Len returns the number of cached buffers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all buffers from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*imaging.Image)
	c.mu.Unlock()
}

// Evict removes a specific buffer from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the in-memory pixel format: "gray", "gray_alpha", "rgb" or "rgba".
	Format string `json:"format"`

	// Channels is the number of bytes per pixel.
	Channels int `json:"channels"`

	// ColorType is the PNG color type the buffer is written with.
	ColorType uint8 `json:"color_type"`

	// HasAlpha indicates whether the format has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
//
// Parameters:
//   - cache: The cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns an error if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *Cache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat %s", path)
	}

	return Describe(img, stat.Size()), nil
}

// Describe builds the metadata for an in-memory buffer.
func Describe(img *imaging.Image, fileSize int64) *ImageInfo {
	f := img.Format()
	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Format:        f.String(),
		Channels:      f.Channels(),
		ColorType:     uint8(ColorTypeFor(f)),
		HasAlpha:      f.HasAlpha(),
		FileSizeBytes: fileSize,
	}
}
