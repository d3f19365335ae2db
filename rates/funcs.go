// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import "math"

// GuardTol is the distance from a removable singularity, in units of the
// slope factor, within which the analytic limit is returned instead
const GuardTol = 1e-6

// Func is a voltage-dependent rate, steady state, or time constant function.
// Implementations are pure functions of v (mV).
type Func interface {
	Eval(v float64) float64
}

// Linoid is the singularity-guarded rational rate function
// A*(v+B) / (1 - Exp(-(v+B)/C)), which has a removable 0/0 singularity at
// v = -B.  Within GuardTol of it (|(v+B)/C| < GuardTol) the analytic limit
// A*C is returned.  The "reversed" form A*(-(v+B)) / (1 - Exp((v+B)/C))
// is the same function with A and C negated -- see LinoidRev.
type Linoid struct {
	A float64 `desc:"rate multiplier (/ms/mV)"`
	B float64 `desc:"voltage offset (mV) -- the singular point is at v = -B"`
	C float64 `desc:"slope factor (mV)"`
}

// LinoidRev returns the Linoid for the reversed form
// a*(-(v+b)) / (1 - Exp((v+b)/c)), whose limit at v = -b is a*c.
func LinoidRev(a, b, c float64) Linoid {
	return Linoid{A: -a, B: b, C: -c}
}

func (lf Linoid) Eval(v float64) float64 {
	x := v + lf.B
	if math.Abs(x/lf.C) < GuardTol {
		return lf.A * lf.C
	}
	return (lf.A * x) / (1 - Exp(-x/lf.C))
}

// V0 returns the singular point of the function
func (lf Linoid) V0() float64 { return -lf.B }

// Limit returns the analytic limit at the singular point
func (lf Linoid) Limit() float64 { return lf.A * lf.C }

// Sigmoid is Base + A / (1 + Exp((v+B)/C)).  Rising with v for C < 0,
// falling for C > 0.  Below the Exp clip the denominator is exactly 1
// either way, so it also serves the unclipped published forms.
type Sigmoid struct {
	A    float64 `desc:"amplitude"`
	B    float64 `desc:"voltage offset (mV) -- midpoint is at v = -B"`
	C    float64 `desc:"slope factor (mV)"`
	Base float64 `desc:"constant added to the sigmoid"`
}

func (sf Sigmoid) Eval(v float64) float64 {
	return sf.Base + sf.A/(1+Exp((v+sf.B)/sf.C))
}

// Boltzmann is the steady-state activation curve
// 1 / (1 + exp((v - Vhalf + Shift) / -Slope)).
// Slope > 0 gives activation (rising), Slope < 0 inactivation (falling).
type Boltzmann struct {
	Vhalf float64 `desc:"half-activation voltage (mV)"`
	Slope float64 `desc:"slope factor (mV) -- positive for activation, negative for inactivation"`
	Shift float64 `desc:"shift subtracted from the half-activation point, e.g. for C-fiber variants (mV)"`
}

func (bf Boltzmann) Eval(v float64) float64 {
	return 1 / (1 + HocExp((v-bf.Vhalf+bf.Shift)/(-bf.Slope)))
}

// GaussTau is the bell-shaped time constant Base + Amp * exp(-K * ((v-Vp)/Width)^2).
// The Schild form A*exp(-B^2 (v-Vp)^2) + C is K = B^2, Width = 1.
type GaussTau struct {
	Base  float64 `desc:"minimum time constant (ms)"`
	Amp   float64 `desc:"peak height above Base (ms)"`
	Vp    float64 `desc:"voltage of the peak (mV)"`
	Width float64 `desc:"width of the bell (mV)"`
	K     float64 `desc:"sharpness multiplier on the squared normalized distance"`
}

func (gf GaussTau) Eval(v float64) float64 {
	d := (v - gf.Vp) / gf.Width
	return gf.Amp*HocExp(-gf.K*(d*d)) + gf.Base
}

// SchildTau returns the GaussTau for A*exp(-B^2 (v-Vp)^2) + C
func SchildTau(a, b, c, vp float64) GaussTau {
	return GaussTau{Base: c, Amp: a, Vp: vp, Width: 1, K: b * b}
}

// Expo is the pure exponential rate A * Exp((v+B)/C)
type Expo struct {
	A float64 `desc:"rate at v = -B (/ms)"`
	B float64 `desc:"voltage offset (mV)"`
	C float64 `desc:"e-fold voltage (mV)"`
}

func (ef Expo) Eval(v float64) float64 {
	return ef.A * Exp((v+ef.B)/ef.C)
}

// ExpoRecip is the reciprocal exponential rate A / Exp((v+B)/C).
// It is not rewritten as A*Exp(-(v+B)/C): the two differ where Exp clips.
type ExpoRecip struct {
	A float64 `desc:"rate at v = -B (/ms)"`
	B float64 `desc:"voltage offset (mV)"`
	C float64 `desc:"e-fold voltage (mV)"`
}

func (ef ExpoRecip) Eval(v float64) float64 {
	return ef.A / Exp((v+ef.B)/ef.C)
}

// Pair returns the steady state a/(a+b) and time constant 1/(a+b) for
// forward rate a and backward rate b
func Pair(a, b float64) (inf, tau float64) {
	tau = 1 / (a + b)
	inf = a / (a + b)
	return
}

// RateTau is the time constant 1/(alpha+beta) of a gate whose steady state
// is given separately (e.g. Nav1.8 slow inactivation)
type RateTau struct {
	Alpha Func `desc:"forward rate"`
	Beta  Func `desc:"backward rate"`
}

func (rt RateTau) Eval(v float64) float64 {
	return 1 / (rt.Alpha.Eval(v) + rt.Beta.Eval(v))
}
