// fenceline - split streaming chat responses into text and fenced code.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/fenceline/internal/cli"
)

// Version information (set at build time)
var (
	Version   = ""
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if Version != "" {
		cli.Version = Version
	}
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate

	os.Exit(cli.Execute())
}
