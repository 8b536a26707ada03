package releaser

import (
	"strings"

	"github.com/blang/semver"
)

// BuildRevision stores the commit in the git repository at build time
// and is specified with -ldflags at build time.
var BuildRevision = ""

// ReleaseVersion wraps a Writing3D release tag (e.g. "v1.2" or
// "v1.2.3") and provides ordering between tags when both sides parse
// as versions. Tags that do not parse are still legal release tags;
// ordering advice is simply unavailable for them.
type ReleaseVersion struct {
	source  string
	parsed  semver.Version
	IsValid bool
}

// NewReleaseVersion parses a tag name, with or without the leading
// "v". Two-component versions ("1.2") are padded with a zero patch
// component before parsing.
func NewReleaseVersion(tag string) ReleaseVersion {
	v := ReleaseVersion{source: tag}

	bare := strings.TrimPrefix(tag, "v")
	if strings.Count(bare, ".") == 1 {
		bare += ".0"
	}

	parsed, err := semver.Parse(bare)
	if err != nil {
		return v
	}

	v.parsed = parsed
	v.IsValid = true
	return v
}

func (v ReleaseVersion) String() string { return v.source }

// After reports whether v sorts after other. Returns false unless
// both versions parsed.
func (v ReleaseVersion) After(other ReleaseVersion) bool {
	if !v.IsValid || !other.IsValid {
		return false
	}
	return v.parsed.GT(other.parsed)
}
