package main

import (
	"os"

	"github.com/talentstack/docpipe/internal/adapters/driving/cli"
)

// version is stamped by the build via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
