// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments
//
// Fumarole - Tephra probe chip reporter
//
// A CLI tool for querying chip identity, clocks, and reset state from
// ESP boards running the Tephra probe firmware, over serial or a
// WebSocket bridge.

package main

import (
	"os"

	"github.com/calderic/fumarole/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
