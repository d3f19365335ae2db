// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gateclamp lists the built-in channel mechanisms, computes their steady
// state and time constant curves, and runs voltage- and current-clamp
// protocols on a single compartment, writing CSV traces and PNG plots.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gateclamp:", err)
		os.Exit(1)
	}
}
