package main

import (
	"os"

	"github.com/campsite-dev/campsite-web/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
