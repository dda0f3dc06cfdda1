// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Command skillforge manages persisted skill bundles: durable storage,
// integrity verification, single-file packing, and the build cache.
package main

import (
	"fmt"
	"os"

	"github.com/skillforge/skillforge/cmd/skillforge/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &app{}

	root := &cli.Command{
		Name:    "skillforge",
		Summary: "manage persisted skill bundles",
		Description: "skillforge manages skill bundles: generated glue code plus a\n" +
			"compiled module, stored durably with checksum verification.",
		Subcommands: []*cli.Command{
			app.listCommand(),
			app.verifyCommand(),
			app.removeCommand(),
			app.packCommand(),
			app.unpackCommand(),
			app.cacheCommand(),
			app.versionCommand(),
		},
	}

	return root.Execute(os.Args[1:])
}
