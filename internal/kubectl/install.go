package kubectl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// releaseBaseURL serves official kubectl release binaries.
const releaseBaseURL = "https://dl.k8s.io"

// Installer downloads the kubectl binary to a writable location. The
// executor invokes it at most once per process when kubectl is missing
// from the search path.
type Installer interface {
	// Install fetches the binary and returns its path.
	Install(ctx context.Context) (string, error)
}

// ReleaseInstaller fetches an official kubectl release from dl.k8s.io.
type ReleaseInstaller struct {
	// Version pins the release (for example "v1.34.0"). When empty, the
	// current stable version is resolved first.
	Version string

	// DestDir is the directory the binary is written to. Defaults to a
	// per-user directory under the OS cache dir.
	DestDir string

	// Client is the HTTP client used for downloads. Defaults to a client
	// with a generous timeout sized for a ~50MB artifact.
	Client *http.Client

	// BaseURL overrides the release server. Defaults to dl.k8s.io.
	BaseURL string
}

func (r *ReleaseInstaller) baseURL() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return releaseBaseURL
}

func (r *ReleaseInstaller) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: 5 * time.Minute}
}

func (r *ReleaseInstaller) destDir() (string, error) {
	if r.DestDir != "" {
		return r.DestDir, nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no writable install location: %w", err)
	}
	return filepath.Join(cache, "mcp-kubectl", "bin"), nil
}

// Install downloads kubectl for the current OS and architecture, writes
// it with execute permission, and returns its path. It is synchronous and
// performs no retries; the caller owns any retry policy.
func (r *ReleaseInstaller) Install(ctx context.Context) (string, error) {
	version := r.Version
	if version == "" {
		v, err := r.stableVersion(ctx)
		if err != nil {
			return "", err
		}
		version = v
	}

	dir, err := r.destDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create install dir: %w", err)
	}

	dest := filepath.Join(dir, TrustedBinary)
	url := downloadURL(r.baseURL(), version, runtime.GOOS, runtime.GOARCH)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download kubectl: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kubectl download returned %s", resp.Status)
	}

	// Write to a temp name first so a partial download never becomes the
	// resolved binary.
	tmp, err := os.CreateTemp(dir, TrustedBinary+".partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage download: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write kubectl: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to install kubectl: %w", err)
	}

	return dest, nil
}

func (r *ReleaseInstaller) stableVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL()+"/release/stable.txt", nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve stable kubectl version: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stable version lookup returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// DownloadURL returns the official release URL for a kubectl binary.
func DownloadURL(version, goos, goarch string) string {
	return downloadURL(releaseBaseURL, version, goos, goarch)
}

func downloadURL(base, version, goos, goarch string) string {
	name := TrustedBinary
	if goos == "windows" {
		name += ".exe"
	}
	return fmt.Sprintf("%s/release/%s/bin/%s/%s/%s", base, version, goos, goarch, name)
}
