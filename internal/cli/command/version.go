package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/liftlog/liftlog-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, buildinfo.String())
			return err
		},
	}
}
