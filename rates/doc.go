// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rates provides the voltage-dependent rate, steady-state and
time-constant function families used by Hodgkin-Huxley style channel models,
together with the clipped exponential they are built on and Q10 temperature
corrections.

Forward / backward rate pairs (alpha, beta) are converted to steady state and
time constant with Pair.  The rational Linoid family has a removable
singularity which is guarded per function: each instance knows its own
singular point (V0) and limiting value (Limit).
*/
package rates
