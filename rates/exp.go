// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"log"
	"math"
	"sync/atomic"
)

// ExpMin is the argument below which Exp returns exactly 0
const ExpMin = -100

// Exp is the clipped exponential used by the node-of-Ranvier rate functions:
// exactly 0 for x < ExpMin, and HocExp(x) otherwise.
// Skipping the underflow makes results identical across platforms,
// and tests depend on that.
func Exp(x float64) float64 {
	if x < ExpMin {
		return 0
	}
	return HocExp(x)
}

// HocExpLim is the magnitude of the argument range accepted by HocExp
const HocExpLim = 700

// HocExpMaxMsgs is the number of out-of-range messages HocExp will log
// before going quiet.
const HocExpMaxMsgs = 5

var hocExpMsgs atomic.Int32

// HocExp is the exp used by all generated mechanism code: 0 for x < -700,
// exp(700) for x > 700 (logged, up to HocExpMaxMsgs times per process),
// and math.Exp(x) in between.
func HocExp(x float64) float64 {
	if x < -HocExpLim {
		return 0
	}
	if x > HocExpLim {
		if hocExpMsgs.Add(1) <= HocExpMaxMsgs {
			log.Printf("rates.HocExp: exp(%g) out of range, returning exp(%d)\n", x, HocExpLim)
		}
		return math.Exp(HocExpLim)
	}
	return math.Exp(x)
}
