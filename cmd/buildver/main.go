// Command buildver prints the version string baked into tarkovtime builds:
//
//	go build -ldflags "-X main.version=$(go run ./cmd/buildver)" ./cmd/tarkovtime
//
// The result depends on git state:
//
//	No tags, clean:     0.0.0-dev+05ffee5
//	No tags, dirty:     0.0.0-dev+05ffee5.dirty
//	On tag v0.1.0:      0.1.0
//	Dirty tag:          0.1.0-dirty
//	3 past v0.1.0:      0.1.0-dev.3+g1234567
//	Same but dirty:     0.1.0-dev.3+g1234567.dirty
//
// Without version tags the base comes from the release manifest, which is
// the same file the running agent checks for updates.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"tools.zach/dev/tarkovtime/internal/update"
)

// fallbackBase is used when the release manifest has no agent version.
const fallbackBase = "0.0.0"

// gitFunc runs git with args and returns its trimmed stdout.
type gitFunc func(args ...string) (string, error)

func runGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	return strings.TrimSpace(string(out)), err
}

func main() {
	fmt.Print(buildVersion(runGit, baseVersion(update.ManifestPath)))
}

// buildVersion derives the version from the nearest v-prefixed tag, or from
// base and the commit hash when the repository has no such tag.
func buildVersion(git gitFunc, base string) string {
	if desc, err := git("describe", "--tags", "--match", "v*", "--dirty"); err == nil && desc != "" {
		return formatDescribe(desc)
	}

	hash, err := git("rev-parse", "--short=7", "HEAD")
	if err != nil || hash == "" {
		return base + "-dev"
	}
	v := base + "-dev+" + hash
	if dirty(git) {
		v += ".dirty"
	}
	return v
}

// formatDescribe turns git describe output ("v0.1.0-3-g1234567-dirty") into
// SemVer ("0.1.0-dev.3+g1234567.dirty").
func formatDescribe(desc string) string {
	clean, isDirty := strings.CutSuffix(desc, "-dirty")
	clean = strings.TrimPrefix(clean, "v")

	if tag, count, hash, ok := splitDescribe(clean); ok {
		meta := hash
		if isDirty {
			meta += ".dirty"
		}
		return fmt.Sprintf("%s-dev.%s+%s", tag, count, meta)
	}
	if isDirty {
		return clean + "-dirty"
	}
	return clean
}

// splitDescribe splits "<tag>-<N>-g<hash>". ok is false for an exact tag.
func splitDescribe(s string) (tag, count, hash string, ok bool) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || !strings.HasPrefix(s[i+1:], "g") {
		return "", "", "", false
	}
	hash = s[i+1:]
	rest := s[:i]
	j := strings.LastIndex(rest, "-")
	if j <= 0 {
		return "", "", "", false
	}
	count = rest[j+1:]
	for _, r := range count {
		if r < '0' || r > '9' {
			return "", "", "", false
		}
	}
	return rest[:j], count, hash, count != ""
}

// dirty reports whether the working tree has uncommitted changes.
func dirty(git gitFunc) bool {
	out, err := git("status", "--porcelain")
	return err == nil && out != ""
}

// baseVersion reads the agent version from the release manifest at path.
func baseVersion(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallbackBase
	}
	v, err := update.ParseManifest(data)
	if err != nil || v == "" {
		return fallbackBase
	}
	return v
}
