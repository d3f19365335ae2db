// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/rates"
)

// Sodium channels of Schild et al. (1994) / Schild & Kunze (1997) for
// unmyelinated (C) fibers.  Gates have a Boltzmann steady state and a
// bell-shaped time constant, temperature corrected on tau.  All use the Na
// ion pool for their reversal potential.

// SchildGate are the constants of one gate:
// inf = 1 / (1 + exp((v - V0p5 + shift) / -S0p5)),
// tau = A exp(-B^2 (v - Vp)^2) + C
type SchildGate struct {
	V0p5 float64 `desc:"half-activation voltage (mV)"`
	S0p5 float64 `desc:"slope factor (mV) -- negative for inactivation"`
	A    float64 `desc:"peak height of tau above C (ms)"`
	B    float64 `desc:"inverse width of the tau bell (/mV)"`
	C    float64 `desc:"minimum tau (ms)"`
	Vp   float64 `desc:"voltage of the tau peak (mV)"`
}

// Set sets all the values
func (sg *SchildGate) Set(v0p5, s0p5, a, b, c, vp float64) {
	sg.V0p5, sg.S0p5, sg.A, sg.B, sg.C, sg.Vp = v0p5, s0p5, a, b, c, vp
}

func (sg *SchildGate) gate(name string, shift float64, q int) GateSpec {
	return GateSpec{Name: name, Kind: InfTau, Q10: q,
		Inf: rates.Boltzmann{Vhalf: sg.V0p5, Slope: sg.S0p5, Shift: shift},
		Tau: rates.SchildTau(sg.A, sg.B, sg.C, sg.Vp)}
}

// SchildQ10s are the tau corrections of activation and inactivation
type SchildQ10s struct {
	M rates.Q10 `desc:"correction of the activation time constant"`
	H rates.Q10 `desc:"correction of the inactivation time constant"`
}

// Defaults sets Q10 2.3 for m and 1.5 for h, at reference temperature tref
func (sq *SchildQ10s) Defaults(tref float64) {
	sq.M = rates.Q10{Q10: 2.3, Tref: tref, Tstep: 10, Conv: rates.TauMult}
	sq.H = rates.Q10{Q10: 1.5, Tref: tref, Tstep: 10, Conv: rates.TauMult}
}

func (sq *SchildQ10s) list() []rates.Q10 {
	return []rates.Q10{sq.M, sq.H}
}

func naCurrent(gbar float64, factors ...Factor) CurrentSpec {
	return CurrentSpec{Name: "ina", Ion: chans.Na, Gbar: gbar,
		Terms: []Term{{Frac: 1, Factors: factors}}}
}

////////////////////////////////////////////////////////////////////////
//  Naf

// Naf is the Schild (1994) TTX-sensitive fast sodium channel with an
// additional slow inactivation gate l (j in the published model), and the
// C-fiber voltage shift applied to m and h: g = gbar m^3 h l
type Naf struct {
	Base
	Gbar  float64    `def:"0.0689671" desc:"maximal conductance (S/cm2)"`
	Shift float64    `def:"-17.5" desc:"voltage shift of the m and h steady states (mV)"`
	M     SchildGate `view:"inline" desc:"activation"`
	H     SchildGate `view:"inline" desc:"fast inactivation"`
	J     JGate      `view:"inline" desc:"slow inactivation"`
	Q10   SchildQ10s `view:"inline" desc:"temperature corrections of m and h"`
}

// JGate are the constants of the slow inactivation gate:
// inf = 1 / (1 + exp((v - V0p5) / -S0p5)), tau = A / (1 + exp((v + Vp)/B)) + C
type JGate struct {
	V0p5 float64 `def:"-40" desc:"half-inactivation voltage (mV)"`
	S0p5 float64 `def:"-1.5" desc:"slope factor (mV)"`
	A    float64 `def:"25" desc:"height of the tau sigmoid (ms)"`
	B    float64 `def:"4.5" desc:"slope of the tau sigmoid (mV)"`
	C    float64 `def:"0.01" desc:"minimum tau (ms)"`
	Vp   float64 `def:"-20" desc:"offset of the tau sigmoid (mV)"`
}

func (jg *JGate) Defaults() {
	jg.V0p5 = -40
	jg.S0p5 = -1.5
	jg.A = 25
	jg.B = 4.5
	jg.C = 0.01
	jg.Vp = -20
}

func (jg *JGate) gate() GateSpec {
	return GateSpec{Name: "l", Kind: InfTau, Q10: NoQ10,
		Inf: rates.Boltzmann{Vhalf: jg.V0p5, Slope: jg.S0p5},
		Tau: rates.Sigmoid{A: jg.A, B: jg.Vp, C: jg.B, Base: jg.C}}
}

func (nf *Naf) Suffix() string { return "naf" }
func (nf *Naf) Class() string  { return nf.class(nf.Suffix()) }

func (nf *Naf) Defaults() {
	nf.Gbar = 0.0689671
	nf.Shift = -17.5
	nf.M.Set(-41.35, 4.75, 0.75, 0.0635, 0.12, -40.35)
	nf.H.Set(-62, -4.5, 6.5, 0.0295, 0.55, -75)
	nf.J.Defaults()
	nf.Q10.Defaults(22.85)
	nf.Update()
}

func (nf *Naf) Update() {
}

func (nf *Naf) Spec() *Spec {
	gs := []GateSpec{nf.M.gate("m", nf.Shift, 0), nf.H.gate("h", nf.Shift, 1), nf.J.gate()}
	cs := []CurrentSpec{naCurrent(nf.Gbar, Factor{0, 3}, Factor{1, 1}, Factor{2, 1})}
	return &Spec{Name: nf.Suffix(), Gates: gs, Currents: cs, Q10s: nf.Q10.list()}
}

////////////////////////////////////////////////////////////////////////
//  Naf97 / Nas97

// Naf97 is the Schild & Kunze (1997) TTX-sensitive fast sodium channel:
// g = gbar m^3 h
type Naf97 struct {
	Base
	Gbar float64    `def:"0.0012" desc:"maximal conductance (S/cm2)"`
	M    SchildGate `view:"inline" desc:"activation"`
	H    SchildGate `view:"inline" desc:"inactivation"`
	Q10  SchildQ10s `view:"inline" desc:"temperature corrections"`
}

func (nf *Naf97) Suffix() string { return "naf97" }
func (nf *Naf97) Class() string  { return nf.class(nf.Suffix()) }

func (nf *Naf97) Defaults() {
	nf.Gbar = 0.0012
	nf.M.Set(-37.75, 6.98, 1.2575, 0.0625, 0.175, -39)
	nf.H.Set(-65.99, -5.97, 25.5, 0.035, 1.05, -72.5)
	nf.Q10.Defaults(22)
	nf.Update()
}

func (nf *Naf97) Update() {
}

func (nf *Naf97) Spec() *Spec {
	return schild97Spec(nf.Suffix(), nf.Gbar, &nf.M, &nf.H, &nf.Q10)
}

// Nas97 is the Schild & Kunze (1997) TTX-resistant slow sodium channel:
// g = gbar m^3 h
type Nas97 struct {
	Base
	Gbar float64    `def:"0.0008842" desc:"maximal conductance (S/cm2)"`
	M    SchildGate `view:"inline" desc:"activation"`
	H    SchildGate `view:"inline" desc:"inactivation"`
	Q10  SchildQ10s `view:"inline" desc:"temperature corrections"`
}

func (ns *Nas97) Suffix() string { return "nas97" }
func (ns *Nas97) Class() string  { return ns.class(ns.Suffix()) }

func (ns *Nas97) Defaults() {
	ns.Gbar = 0.0008842
	ns.M.Set(-15.29, 6.54, 1.35, 0.075, 0.395, -13.5)
	ns.H.Set(-28.39, -5.2, 14.75, 0.05, 2.25, -18.5)
	ns.Q10.Defaults(22)
	ns.Update()
}

func (ns *Nas97) Update() {
}

func (ns *Nas97) Spec() *Spec {
	return schild97Spec(ns.Suffix(), ns.Gbar, &ns.M, &ns.H, &ns.Q10)
}

func schild97Spec(name string, gbar float64, m, h *SchildGate, q *SchildQ10s) *Spec {
	gs := []GateSpec{m.gate("m", 0, 0), h.gate("h", 0, 1)}
	cs := []CurrentSpec{naCurrent(gbar, Factor{0, 3}, Factor{1, 1})}
	return &Spec{Name: name, Gates: gs, Currents: cs, Q10s: q.list()}
}
