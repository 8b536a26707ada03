package bundle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/writing3d/releaser/gitcli"
)

// Packager rebuilds every platform package tree and archives it into
// the build directory. Platforms are processed strictly in order; the
// first failure aborts the whole build with no cleanup of partially
// written wrappers (operator inspection over automatic recovery).
type Packager struct {
	conf   *ReleaseConfig
	paths  PathSet
	runner gitcli.Runner
}

// NewPackager constructs a Packager over the given configuration,
// path set, and git runner.
func NewPackager(conf *ReleaseConfig, paths PathSet, runner gitcli.Runner) *Packager {
	return &Packager{
		conf:   conf,
		paths:  paths,
		runner: runner,
	}
}

// BuildAll packages every configured platform in order.
func (p *Packager) BuildAll(ctx context.Context) error {
	for _, platform := range p.conf.Platforms {
		if err := p.Build(ctx, platform); err != nil {
			return errors.Wrapf(err, "problem packaging platform '%s'", platform.Name)
		}
	}

	return nil
}

// Build packages a single platform: it pins the companion checkout to
// the latest tag, regenerates the forwarding wrappers, and archives
// the package tree into the build directory.
func (p *Packager) Build(ctx context.Context, platform PlatformDefinition) error {
	pkgRoot := platform.PackageRoot(p.paths.RootDir)
	checkout := gitcli.NewRepo(platform.CheckoutDir(p.paths.RootDir), p.runner)

	grip.Info(message.Fields{
		"message":  "packaging platform",
		"platform": platform.Name,
		"root":     pkgRoot,
	})

	if err := checkout.FetchTags(ctx); err != nil {
		return errors.Wrap(err, "problem fetching tags in companion checkout")
	}

	tag, err := checkout.LastTag(ctx)
	if err != nil {
		return errors.Wrap(err, "problem finding latest tag in companion checkout")
	}
	if tag == "" {
		return errors.Errorf("companion checkout %s has no tags", checkout.Dir())
	}

	// discard any local drift; the payload always reflects the
	// latest tagged release
	if err := checkout.HardReset(ctx, tag); err != nil {
		return errors.Wrapf(err, "problem resetting companion checkout to %s", tag)
	}

	if err := p.writeWrappers(platform, checkout.Dir(), pkgRoot); err != nil {
		return errors.WithStack(err)
	}

	if err := os.MkdirAll(p.paths.BuildDir, 0755); err != nil {
		return errors.Wrapf(err, "problem creating build directory %s", p.paths.BuildDir)
	}

	archivePath := filepath.Join(p.paths.BuildDir, platform.ArchiveName())
	if err := CreateArchive(platform.Archive, archivePath, pkgRoot); err != nil {
		return errors.Wrapf(err, "problem archiving %s", pkgRoot)
	}

	grip.Info(message.Fields{
		"message":  "packaged platform",
		"platform": platform.Name,
		"tag":      tag,
		"archive":  archivePath,
	})

	return nil
}

func (p *Packager) writeWrappers(platform PlatformDefinition, checkoutDir, pkgRoot string) error {
	scriptsDir := filepath.Join(checkoutDir, "scripts", platform.Name)

	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		return errors.Wrapf(err, "problem listing platform scripts in %s", scriptsDir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// TODO confirm with the Writing3D maintainers whether this
		// guard was meant to check a different path; as written it
		// re-checks the enumeration source and only catches files
		// removed since the listing.
		if _, err := os.Stat(filepath.Join(scriptsDir, entry.Name())); os.IsNotExist(err) {
			grip.Warningf("script %s disappeared, skipping wrapper", entry.Name())
			continue
		}

		wrapper := filepath.Join(pkgRoot, entry.Name())
		if err := WriteWrapper(wrapper, platform.Name, entry.Name(), platform.Style); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}
