package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lumatrix/vfdstream/types"
)

// VersionCommand returns the version command. It never touches the
// serial link.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("vfdstream %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
