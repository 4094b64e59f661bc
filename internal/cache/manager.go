package cache

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"quadmap/internal/debug"
)

// ErrNotFound is returned when a remote asset answers with a non-200 status
var ErrNotFound = errors.New("asset not available")

const userAgent = "Mozilla/5.0 (compatible; quadmap/1.0)"

// Manager downloads and caches the background image and backdrop shapefiles
type Manager struct {
	cacheDir string
	client   *http.Client
}

// DataFile represents a zipped shapefile set to download
type DataFile struct {
	Name string // Friendly name
	URL  string // Download URL
	Base string // Base filename (without extension)
}

// Natural Earth datasets used as the vector backdrop (1:10m, suited to city-scale zoom)
var NaturalEarthFiles = []DataFile{
	{
		Name: "Coastlines",
		URL:  "https://naciscdn.org/naturalearth/10m/physical/ne_10m_coastline.zip",
		Base: "ne_10m_coastline",
	},
	{
		Name: "Rivers",
		URL:  "https://naciscdn.org/naturalearth/10m/physical/ne_10m_rivers_lake_centerlines.zip",
		Base: "ne_10m_rivers_lake_centerlines",
	},
	{
		Name: "Populated Places",
		URL:  "https://naciscdn.org/naturalearth/10m/cultural/ne_10m_populated_places_simple.zip",
		Base: "ne_10m_populated_places_simple",
	},
}

// NewManager creates a new cache manager
// If cacheDir is empty, uses ~/.quadmap/data
func NewManager(cacheDir string) (*Manager, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".quadmap", "data")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Manager{
		cacheDir: cacheDir,
		client:   &http.Client{},
	}, nil
}

// WithClient swaps the HTTP client, mainly for tests
func (m *Manager) WithClient(c *http.Client) *Manager {
	m.client = c
	return m
}

// EnsureImage returns a local copy of the image at rawURL, downloading it once
func (m *Manager) EnsureImage(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid image url %q", rawURL)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "background"
	}
	dest := filepath.Join(m.cacheDir, "img_"+name)

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	debug.Log("Downloading background %s", rawURL)
	if err := m.download(ctx, rawURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// EnsureBackdrop makes sure every Natural Earth set is extracted in the cache.
// Sets that fail are skipped; the map works without a backdrop.
func (m *Manager) EnsureBackdrop(ctx context.Context) error {
	return m.ensureFiles(ctx, NaturalEarthFiles)
}

func (m *Manager) ensureFiles(ctx context.Context, files []DataFile) error {
	var failed []string
	for _, file := range files {
		if err := m.ensureFile(ctx, file); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			debug.Warn("Skipping %s: %v", file.Name, err)
			failed = append(failed, file.Name)
		}
	}

	if len(failed) == len(files) && len(files) > 0 {
		return fmt.Errorf("no backdrop data could be fetched (%s)", strings.Join(failed, ", "))
	}
	return nil
}

// ensureFile checks if a data file exists, downloads if needed
func (m *Manager) ensureFile(ctx context.Context, file DataFile) error {
	if _, err := os.Stat(m.GetDataPath(file.Base)); err == nil {
		return nil
	}

	tmpFile, err := os.CreateTemp("", "quadmap_*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if err := m.download(ctx, file.URL, tmpFile.Name()); err != nil {
		return err
	}

	if err := m.extractZip(tmpFile.Name(), m.cacheDir); err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}

	debug.Log("Downloaded and extracted %s", file.Name)
	return nil
}

// download writes the body of rawURL to dest through a temp file so a
// failed transfer never leaves a partial asset behind
func (m *Manager) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s (URL: %s)", ErrNotFound, resp.Status, rawURL)
	}

	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(part)
		return fmt.Errorf("failed to save download: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return err
	}

	return os.Rename(part, dest)
}

func (m *Manager) extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return err
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

// GetDataPath returns where the .shp for a base name lives
func (m *Manager) GetDataPath(base string) string {
	return filepath.Join(m.cacheDir, base+".shp")
}

// GetCacheDir returns the cache root
func (m *Manager) GetCacheDir() string {
	return m.cacheDir
}
