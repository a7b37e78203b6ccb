package main

import (
	"os"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driving/cli"
)

// version is stamped at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/bunkerctl
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
