/*
Package bundle produces the per-platform Writing3D distribution trees
and their archives.

# Configuration

The ReleaseConfig object carries the directory overrides, the ordered
list of platform definitions, git options, and the remote bucket
settings. The configuration file is optional; when it is missing, or
when it names no platforms, the platform list is discovered by listing
the subdirectories of the scripts source tree.
*/
package bundle

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/ghodss/yaml"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// DefaultConfigFile is the configuration file name looked up next to
// the resolved script directory when --config is not given.
const DefaultConfigFile = "w3d-release.yaml"

// WrapperStyle selects the forwarding wrapper dialect for a platform.
type WrapperStyle string

const (
	// StyleBatch generates Windows batch file wrappers.
	StyleBatch WrapperStyle = "batch"

	// StyleShell generates POSIX shell wrappers.
	StyleShell = "shell"
)

// ArchiveFormat selects the archive produced for a platform tree.
type ArchiveFormat string

const (
	// TarGz produces a gzip-compressed tarball.
	TarGz ArchiveFormat = "targz"

	// Zip produces a zip archive.
	Zip = "zip"
)

// ReleaseConfig provides an interface and schema for the release
// configuration file.
type ReleaseConfig struct {
	RootDir   string               `bson:"root_dir" json:"root_dir" yaml:"root_dir"`
	BuildDir  string               `bson:"build_dir" json:"build_dir" yaml:"build_dir"`
	Platforms []PlatformDefinition `bson:"platforms" json:"platforms" yaml:"platforms"`
	Git       GitOptions           `bson:"git" json:"git" yaml:"git"`
	Remote    RemoteOptions        `bson:"remote" json:"remote" yaml:"remote"`

	fileName string
}

// PlatformDefinition describes one platform package tree. Only Name
// is required; Style and Archive default from the platform name.
type PlatformDefinition struct {
	Name    string        `bson:"name" json:"name" yaml:"name"`
	Style   WrapperStyle  `bson:"style" json:"style" yaml:"style"`
	Archive ArchiveFormat `bson:"archive" json:"archive" yaml:"archive"`
}

// GitOptions control the tagging stage.
type GitOptions struct {
	MainBranch string `bson:"main_branch" json:"main_branch" yaml:"main_branch"`
	TagFlags   string `bson:"tag_flags" json:"tag_flags" yaml:"tag_flags"`
}

// RemoteOptions identify the release mirror bucket.
type RemoteOptions struct {
	Bucket      string `bson:"bucket" json:"bucket" yaml:"bucket"`
	Prefix      string `bson:"prefix" json:"prefix" yaml:"prefix"`
	Region      string `bson:"region" json:"region" yaml:"region"`
	Profile     string `bson:"profile" json:"profile" yaml:"profile"`
	Permissions string `bson:"permissions" json:"permissions" yaml:"permissions"`
}

// NewReleaseConfig produces a pointer to an initialized ReleaseConfig
// object with defaults applied.
func NewReleaseConfig() *ReleaseConfig {
	conf := &ReleaseConfig{}
	grip.Error(conf.Validate())
	return conf
}

// GetConfig takes the name of a file and returns a validated
// ReleaseConfig. A missing file is not an error when the name is the
// default lookup path; explicit paths must exist.
func GetConfig(fileName string) (*ReleaseConfig, error) {
	conf := &ReleaseConfig{fileName: fileName}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "problem reading config file %s", fileName)
	}

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, errors.Wrapf(err, "problem parsing config file %s", fileName)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", fileName)
	}

	return conf, nil
}

// Validate checks the configuration and fills in defaults.
func (c *ReleaseConfig) Validate() error {
	if c.Git.MainBranch == "" {
		c.Git.MainBranch = "master"
	}

	for idx := range c.Platforms {
		p := &c.Platforms[idx]
		if p.Name == "" {
			return errors.Errorf("platform at position %d has no name", idx)
		}
		p.applyDefaults()

		switch p.Style {
		case StyleBatch, StyleShell:
		default:
			return errors.Errorf("platform '%s' has unknown wrapper style '%s'", p.Name, p.Style)
		}

		switch p.Archive {
		case TarGz, Zip:
		default:
			return errors.Errorf("platform '%s' has unknown archive format '%s'", p.Name, p.Archive)
		}
	}

	return nil
}

func (p *PlatformDefinition) applyDefaults() {
	if p.Style == "" {
		if strings.EqualFold(p.Name, "windows") {
			p.Style = StyleBatch
		} else {
			p.Style = StyleShell
		}
	}

	if p.Archive == "" {
		// only the tree named exactly "Linux" ships as a tarball
		if p.Name == "Linux" {
			p.Archive = TarGz
		} else {
			p.Archive = Zip
		}
	}
}

// TagFlags splits the configured tag flags into an argument vector.
func (c *ReleaseConfig) TagFlags() ([]string, error) {
	if c.Git.TagFlags == "" {
		return nil, nil
	}

	flags, err := shlex.Split(c.Git.TagFlags, true)
	return flags, errors.Wrapf(err, "problem splitting tag flags '%s'", c.Git.TagFlags)
}

// DiscoverPlatforms fills the platform list by listing the immediate
// subdirectories of the scripts source tree, in name order. It is a
// no-op when the configuration already names platforms.
func (c *ReleaseConfig) DiscoverPlatforms(scriptsDir string) error {
	if len(c.Platforms) > 0 {
		return nil
	}

	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		return errors.Wrapf(err, "problem listing platform directories in %s", scriptsDir)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		c.Platforms = append(c.Platforms, PlatformDefinition{Name: entry.Name()})
	}

	sort.Slice(c.Platforms, func(i, j int) bool {
		return c.Platforms[i].Name < c.Platforms[j].Name
	})

	if len(c.Platforms) == 0 {
		return errors.Errorf("no platform directories found in %s", scriptsDir)
	}

	return errors.WithStack(c.Validate())
}

// PackageRoot returns the platform package directory under root,
// e.g. <root>/W3DZip-Linux.
func (p PlatformDefinition) PackageRoot(rootDir string) string {
	return filepath.Join(rootDir, "W3DZip-"+p.Name)
}

// CheckoutDir returns the companion checkout inside the platform
// package directory.
func (p PlatformDefinition) CheckoutDir(rootDir string) string {
	return filepath.Join(p.PackageRoot(rootDir), "Writing3D")
}

// ArchiveName returns the archive file name for the platform.
func (p PlatformDefinition) ArchiveName() string {
	if p.Archive == TarGz {
		return "W3DZip-" + p.Name + ".tar.gz"
	}
	return "W3DZip-" + p.Name + ".zip"
}
