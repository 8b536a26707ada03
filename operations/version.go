package operations

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser"
)

type versionInfo struct {
	Releaser string `json:"releaser"`
}

func (v versionInfo) String() string {
	return strings.Join([]string{
		"Releaser Version Info:",
		"\n\t", "Build: ", v.Releaser,
	}, "")
}

func Version() cli.Command {
	return cli.Command{
		Name:  "version",
		Usage: "prints version information",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "json",
				Usage: "specify this option to output data as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			info := versionInfo{
				Releaser: releaser.BuildRevision,
			}

			if c.Bool("json") {
				out, err := json.MarshalIndent(info, "", "   ")
				if err != nil {
					return errors.Wrap(err, "problem marshaling json")
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Println(info)
			return nil
		},
	}
}
