package main

import (
	"fmt"
	"os"

	"github.com/rshade/uistate/internal/cli"
	"github.com/rshade/uistate/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
