package operations

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/bundle"
)

func configFlag() cli.Flag {
	return cli.StringFlag{
		Name:  "config",
		Usage: "path to the release configuration file",
	}
}

// loadEnvironment resolves the path set and the release configuration
// for a command. An explicit --config must exist; the default lookup
// path (w3d-release.yaml next to the script directory) is optional.
func loadEnvironment(c *cli.Context) (*bundle.ReleaseConfig, bundle.PathSet, error) {
	fileName := c.String("config")
	explicit := fileName != ""

	probe, err := bundle.ResolvePaths(os.Args[0], nil)
	if err != nil {
		return nil, bundle.PathSet{}, errors.WithStack(err)
	}

	if !explicit {
		fileName = filepath.Join(probe.ScriptDir, bundle.DefaultConfigFile)
	}

	conf := bundle.NewReleaseConfig()
	if _, statErr := os.Stat(fileName); statErr == nil {
		conf, err = bundle.GetConfig(fileName)
		if err != nil {
			return nil, bundle.PathSet{}, errors.WithStack(err)
		}
	} else if explicit {
		return nil, bundle.PathSet{}, errors.Errorf("config file '%s' does not exist", fileName)
	}

	paths, err := bundle.ResolvePaths(os.Args[0], conf)
	if err != nil {
		return nil, bundle.PathSet{}, errors.WithStack(err)
	}
	paths.Report()

	return conf, paths, nil
}
