package bundle

import (
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// PathSet holds the directory locations the release process derives
// from the location of the running binary. None of the paths are
// validated here; a missing directory fails at the operation that
// touches it.
type PathSet struct {
	// ScriptDir is the directory holding the release tooling and the
	// platform scripts source tree.
	ScriptDir string

	// RepoDir is the Writing3D source repository that gets tagged.
	RepoDir string

	// RootDir is the workspace root holding the per-platform package
	// trees (W3DZip-<platform>).
	RootDir string

	// BuildDir receives the platform archives before the mirror run.
	BuildDir string
}

// ResolvePaths derives the path set from selfPath, the on-disk
// location of the running binary: the script directory is two levels
// up from the binary's containing directory, the repository is its
// parent, the workspace root the parent of that, and the build
// directory W3DBuilds under the root. conf may override the root and
// build directories.
func ResolvePaths(selfPath string, conf *ReleaseConfig) (PathSet, error) {
	abs, err := filepath.Abs(selfPath)
	if err != nil {
		return PathSet{}, errors.Wrapf(err, "problem resolving path of %s", selfPath)
	}

	var paths PathSet

	paths.ScriptDir = filepath.Dir(filepath.Dir(filepath.Dir(abs)))
	paths.RepoDir = filepath.Dir(paths.ScriptDir)
	paths.RootDir = filepath.Dir(paths.RepoDir)

	if conf != nil && conf.RootDir != "" {
		paths.RootDir = conf.RootDir
	}

	paths.BuildDir = filepath.Join(paths.RootDir, "W3DBuilds")
	if conf != nil && conf.BuildDir != "" {
		paths.BuildDir = conf.BuildDir
	}

	return paths, nil
}

// Report logs every resolved path for operator visibility.
func (p PathSet) Report() {
	grip.Info(message.Fields{
		"script_dir": p.ScriptDir,
		"repo_dir":   p.RepoDir,
		"root_dir":   p.RootDir,
		"build_dir":  p.BuildDir,
	})
}

// ScriptsDir returns the platform scripts source tree used for
// platform discovery.
func (p PathSet) ScriptsDir() string {
	return filepath.Join(p.ScriptDir, "scripts")
}
