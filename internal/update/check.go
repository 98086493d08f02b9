// Package update looks for a newer release of the agent.
//
// Releases publish a small JSON manifest mapping package paths to versions;
// the "." key is the agent itself. The manifest location is either set in
// the config or derived from the GitHub owner and repo baked in at build
// time.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Set at build time via:
//
//	-X tools.zach/dev/tarkovtime/internal/update.ldOwner=...
//	-X tools.zach/dev/tarkovtime/internal/update.ldRepo=...
var (
	ldOwner string
	ldRepo  string
)

// ManifestPath is the manifest location inside the repository.
const ManifestPath = ".release-manifest.json"

// DefaultManifestURL returns the raw GitHub URL of the release manifest, or
// "" when the build carries no repository coordinates.
func DefaultManifestURL() string {
	return rawURL(ldOwner, ldRepo, ManifestPath)
}

func rawURL(owner, repo, path string) string {
	if owner == "" || repo == "" {
		return ""
	}
	return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/main/" + path
}

// ///////////////////////////////////////////////
// Checker
// ///////////////////////////////////////////////

// Result is the outcome of a successful check.
type Result struct {
	Current string
	Latest  string
	// Newer is true when Latest is a later release than Current.
	Newer bool
}

// Checker fetches the release manifest.
type Checker struct {
	url  string
	http *retryablehttp.Client
}

// NewChecker returns a Checker for the manifest at url. An empty url
// disables checking.
func NewChecker(url string) *Checker {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 5 * time.Second
	c.Logger = nil
	return &Checker{url: url, http: c}
}

// Enabled reports whether a manifest URL is configured.
func (c *Checker) Enabled() bool { return c.url != "" }

// Check compares current against the latest published version.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	res := Result{Current: current}
	if !c.Enabled() {
		return res, fmt.Errorf("no release manifest configured")
	}
	latest, err := c.fetchLatest(ctx)
	if err != nil {
		return res, err
	}
	res.Latest = latest
	res.Newer = latest != "" && latest != current && semverLess(current, latest)
	return res, nil
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return ParseManifest(body)
}

// ParseManifest returns the agent version (the "." key) from a release
// manifest. A manifest without that key yields "".
func ParseManifest(data []byte) (string, error) {
	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("parsing manifest: %w", err)
	}
	return strings.TrimSpace(manifest["."]), nil
}

// ///////////////////////////////////////////////
// Version comparison
// ///////////////////////////////////////////////

// semverLess reports a < b for "X.Y.Z" versions with an optional "v" prefix.
// A pre-release sorts before its release. Unparseable input compares false.
func semverLess(a, b string) bool {
	pa, pb := parseSemver(a), parseSemver(b)
	if pa == nil || pb == nil {
		return false
	}
	for i := range 3 {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return hasPreRelease(a) && !hasPreRelease(b)
}

func hasPreRelease(s string) bool {
	return strings.Contains(strings.TrimPrefix(s, "v"), "-")
}

// parseSemver returns [major, minor, patch] or nil. Anything after "-" or
// "+" in a part is ignored.
func parseSemver(s string) []int {
	parts := strings.SplitN(strings.TrimPrefix(s, "v"), ".", 3)
	if len(parts) != 3 {
		return nil
	}
	out := make([]int, 3)
	for i, p := range parts {
		if idx := strings.IndexAny(p, "-+"); idx >= 0 {
			p = p[:idx]
		}
		if p == "" {
			return nil
		}
		n := 0
		for _, r := range p {
			if r < '0' || r > '9' {
				return nil
			}
			n = n*10 + int(r-'0')
		}
		out[i] = n
	}
	return out
}
