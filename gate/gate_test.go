// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gate

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-12

var testTaus = []float64{0.01, 0.0437, 0.3, 1, 5.2, 120, 1e5}
var testDts = []float64{0.001, 0.005, 0.01, 0.025, 0.1, 1, 50}

func TestSteadyState(t *testing.T) {
	infs := []float64{0, 1e-9, 0.031, 0.5, 0.87, 1}
	for _, inf := range infs {
		for _, tau := range testTaus {
			for _, dt := range testDts {
				x := Cnexp(inf, inf, tau, dt)
				if dif := math.Abs(x - inf); dif > difTol {
					t.Errorf("inf: %v tau: %v dt: %v moved off steady state: %v dif: %v\n", inf, tau, dt, x, dif)
				}
				if d := Deriv(inf, inf, tau); d != 0 {
					t.Errorf("deriv at steady state: %v\n", d)
				}
			}
		}
	}
}

func TestCnexpExact(t *testing.T) {
	for _, tau := range testTaus {
		for _, dt := range testDts {
			for _, x := range []float64{0, 0.2, 0.95} {
				inf := 0.6
				c := Cnexp(x, inf, tau, dt)
				e := Exact(x, inf, tau, dt)
				if dif := math.Abs(c - e); dif > difTol {
					t.Errorf("tau: %v dt: %v x: %v cnexp: %v exact: %v dif: %v\n", tau, dt, x, c, e, dif)
				}
			}
		}
	}
}

func TestDecay(t *testing.T) {
	inf := 0.25
	tau := 0.8
	dt := 0.01
	x := 1.0
	dec := Decay(tau, dt)
	for i := 0; i < 200; i++ {
		prv := x - inf
		x = Cnexp(x, inf, tau, dt)
		cur := x - inf
		if dif := math.Abs(cur - prv*dec); dif > difTol {
			t.Errorf("step: %d distance: %v want: %v dif: %v\n", i, cur, prv*dec, dif)
		}
		if cur <= 0 {
			t.Errorf("step: %d overshot inf: %v\n", i, x)
		}
	}
	// 200 steps of 0.01 = 2 ms = 2.5 tau
	want := inf + 0.75*math.Exp(-2.0/tau)
	if dif := math.Abs(x - want); dif > 1e-10 {
		t.Errorf("after 2 ms: %v want %v dif: %v\n", x, want, dif)
	}
}

func TestLargeStep(t *testing.T) {
	// unconditionally stable: a huge step lands on inf, never past it
	x := Cnexp(0, 0.7, 0.01, 1000)
	if dif := math.Abs(x - 0.7); dif > difTol {
		t.Errorf("large step: %v\n", x)
	}
}

func TestMatSol(t *testing.T) {
	tau := 2.0
	dt := 0.1
	d := Deriv(0.1, 0.9, tau)
	if dif := math.Abs(d - 0.4); dif > difTol {
		t.Errorf("deriv: %v\n", d)
	}
	if Jac(tau) != -0.5 {
		t.Errorf("jac: %v\n", Jac(tau))
	}
	m := MatSol(d, tau, dt)
	want := 0.4 / (1 + 0.05)
	if dif := math.Abs(m - want); dif > difTol {
		t.Errorf("matsol: %v want %v\n", m, want)
	}
	// backward Euler: x1 = x0 + dt*m solves x1 = x0 + dt*(inf-x1)/tau
	x1 := 0.1 + dt*m
	if dif := math.Abs((x1 - 0.1) - dt*Deriv(x1, 0.9, tau)); dif > difTol {
		t.Errorf("implicit step not self-consistent: dif %v\n", dif)
	}
}
