package detector

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match modes accepted by [NewMatcher].
const (
	MatchExact     = "exact"
	MatchSubstring = "substring"
	MatchGlob      = "glob"
)

// Matcher reports whether an executable path identifies the target process.
type Matcher func(exe string) bool

// NewMatcher builds a [Matcher] for target using the given mode.
//
//   - exact: the basename of the path equals target (case-sensitive).
//   - substring: target appears anywhere in the full path. This is the
//     legacy behaviour and can match unrelated paths that merely contain
//     the target text.
//   - glob: the basename matches the doublestar pattern target.
func NewMatcher(mode, target string) (Matcher, error) {
	if target == "" {
		return nil, fmt.Errorf("empty process name")
	}
	switch mode {
	case MatchExact, "":
		return func(exe string) bool {
			return basename(exe) == target
		}, nil
	case MatchSubstring:
		return func(exe string) bool {
			return strings.Contains(exe, target)
		}, nil
	case MatchGlob:
		if !doublestar.ValidatePattern(target) {
			return nil, fmt.Errorf("invalid glob pattern %q", target)
		}
		return func(exe string) bool {
			ok, err := doublestar.Match(target, basename(exe))
			return err == nil && ok
		}, nil
	default:
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
}

// basename returns the final element of a path written with either
// separator, so Windows paths are handled the same on every platform.
func basename(exe string) string {
	return path.Base(strings.ReplaceAll(exe, `\`, "/"))
}
