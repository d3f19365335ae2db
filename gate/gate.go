// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gate integrates Hodgkin-Huxley gating variables, each obeying

	dx/dt = (inf(v) - x) / tau(v)

with inf and tau held constant over a step.  The exponential (cnexp) update
is exact under that assumption and unconditionally stable for any dt > 0.
Also provided are the derivative and the implicit linearization terms that a
variable-step host solver (CVODE) needs.
*/
package gate

import (
	"math"

	"github.com/emer/gatechans/rates"
)

// Cnexp returns the gate value after dt, written exactly as the NMODL cnexp
// translator expands it:
// x + (1 - exp(dt*(-1/tau))) * (-(inf/tau)/(-1/tau) - x).
// Channel state updates use this form so that trajectories are bit-compatible
// with the generated C mechanisms.
func Cnexp(x, inf, tau, dt float64) float64 {
	a := -1.0 / tau
	return x + (1.0-rates.HocExp(dt*a))*(-(inf/tau)/a-x)
}

// Exact returns the gate value after dt in the textbook form
// x + (1 - exp(-dt/tau)) (inf - x).  Agrees with Cnexp to rounding.
func Exact(x, inf, tau, dt float64) float64 {
	return x + (1-math.Exp(-dt/tau))*(inf-x)
}

// Deriv is the time derivative of the gate: (inf - x) / tau
func Deriv(x, inf, tau float64) float64 {
	return (inf - x) / tau
}

// Jac is the diagonal Jacobian element d(Deriv)/dx = -1/tau
func Jac(tau float64) float64 {
	return -1.0 / tau
}

// MatSol converts a derivative d into the implicit (backward Euler) update
// increment d / (1 - dt*Jac), as the host's ode_matsol does.
func MatSol(d, tau, dt float64) float64 {
	return d / (1.0 - dt*Jac(tau))
}

// Decay returns the per-step relaxation factor exp(-dt/tau): after one step
// the distance to inf is multiplied by this amount.
func Decay(tau, dt float64) float64 {
	return math.Exp(-dt / tau)
}
