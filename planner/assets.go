package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultLoadTimeout bounds a single asset load.
	DefaultLoadTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of fetch attempts.
	DefaultMaxRetries = 3

	// defaultBaseBackoff is the base delay for exponential backoff.
	defaultBaseBackoff = 500 * time.Millisecond

	// maxAssetBytes limits a single asset to 64 MB.
	maxAssetBytes = 64 << 20
)

// AssetKind classifies a loaded asset
type AssetKind string

const (
	AssetModel   AssetKind = "model"
	AssetTexture AssetKind = "texture"
)

// Asset is the result of loading a model or texture reference
type Asset struct {
	URL  string
	Kind AssetKind
	Size int

	// Bounds is the model size in meters, nil when the model carries no bounds
	Bounds *Dimensions

	// Width/Height are texture pixel sizes
	Width  int
	Height int

	// Data holds the raw bytes for textures, used for thumbnails
	Data []byte
}

// AssetLoader resolves and loads asset references
type AssetLoader interface {
	Load(ctx context.Context, ref string) (*Asset, error)
}

// ResolveAssetURL resolves a relative asset reference against base. Absolute
// URLs pass through unchanged.
func ResolveAssetURL(base, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("resolve asset: empty reference")
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("resolve asset %q: %w", ref, err)
	}
	if r.IsAbs() || base == "" {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("resolve asset base %q: %w", base, err)
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return b.ResolveReference(r).String(), nil
}

// decodeAsset classifies the payload by extension and extracts sizing data
func decodeAsset(ref string, data []byte) (*Asset, error) {
	a := &Asset{URL: ref, Size: len(data)}
	ext := strings.ToLower(path.Ext(strings.SplitN(ref, "?", 2)[0]))
	switch ext {
	case ".glb", ".gltf":
		a.Kind = AssetModel
		doc := data
		if ext == ".glb" {
			var err error
			if doc, err = parseGLB(data); err != nil {
				return nil, err
			}
		}
		dims, err := modelBounds(doc)
		switch {
		case err == nil:
			a.Bounds = &dims
		case errors.Is(err, errNoBounds):
		default:
			return nil, err
		}
	default:
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode texture %s: %w", ref, err)
		}
		log.Printf("[ASSETS] texture %s: %s %dx%d", ref, format, cfg.Width, cfg.Height)
		a.Kind = AssetTexture
		a.Width = cfg.Width
		a.Height = cfg.Height
		a.Data = data
	}
	return a, nil
}

// FetchOption configures HTTPAssetLoader behavior.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	client      *http.Client
}

func defaultFetchConfig() fetchConfig {
	return fetchConfig{
		timeout:     DefaultLoadTimeout,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(c *fetchConfig) {
		c.timeout = d
	}
}

// WithMaxRetries sets the maximum number of attempts.
func WithMaxRetries(n int) FetchOption {
	return func(c *fetchConfig) {
		c.maxRetries = n
	}
}

// WithBaseBackoff sets the base delay for exponential backoff between retries.
func WithBaseBackoff(d time.Duration) FetchOption {
	return func(c *fetchConfig) {
		c.baseBackoff = d
	}
}

// WithHTTPClient overrides the default HTTP client (useful for testing).
func WithHTTPClient(client *http.Client) FetchOption {
	return func(c *fetchConfig) {
		c.client = client
	}
}

// HTTPAssetLoader fetches assets relative to a base URL, retrying transient failures
type HTTPAssetLoader struct {
	base string
	cfg  fetchConfig
}

// NewHTTPAssetLoader creates a loader for assets served under base
func NewHTTPAssetLoader(base string, opts ...FetchOption) *HTTPAssetLoader {
	cfg := defaultFetchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.maxRetries < 1 {
		cfg.maxRetries = 1
	}
	return &HTTPAssetLoader{base: base, cfg: cfg}
}

// Load fetches and decodes ref
func (l *HTTPAssetLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	u, err := ResolveAssetURL(l.base, ref)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := range l.cfg.maxRetries {
		if attempt > 0 {
			backoff := l.cfg.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("load asset %s: %w", ref, ctx.Err())
			case <-time.After(backoff):
			}
		}

		body, err := doFetch(ctx, l.cfg.client, u)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		// Decode errors are not transient; do not retry.
		a, err := decodeAsset(ref, body)
		if err != nil {
			return nil, fmt.Errorf("load asset %s: %w", ref, err)
		}
		a.URL = u
		return a, nil
	}

	return nil, fmt.Errorf("load asset %s: all %d attempts failed: %w", ref, l.cfg.maxRetries, lastErr)
}

// doFetch performs a single HTTP GET and returns the response body bytes.
func doFetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	return body, nil
}

// FileAssetLoader reads assets from a local directory
type FileAssetLoader struct {
	Root string
}

// Load reads and decodes ref relative to Root
func (l *FileAssetLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load asset %s: %w", ref, err)
	}
	clean := filepath.Clean("/" + filepath.FromSlash(ref))
	p := filepath.Join(l.Root, clean)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", ref, err)
	}
	a, err := decodeAsset(ref, data)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", ref, err)
	}
	return a, nil
}

// NewAssetLoader picks an HTTP or file loader depending on the base location
func NewAssetLoader(base string, opts ...FetchOption) AssetLoader {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPAssetLoader(base, opts...)
	}
	return &FileAssetLoader{Root: base}
}
