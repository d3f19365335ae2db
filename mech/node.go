// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/rates"
)

// Node of Ranvier and paranode models of mammalian myelinated axons:
// McIntyre, Richardson & Grill (2002), and the motor / sensory variants of
// Gaines et al. (2018) which add a fast potassium (n) and, in the MYSA,
// an HCN (q) conductance.  All currents are non-specific with their own
// reversal potentials, and Q10 corrections multiply the rates.

// NodeQ10s are the three temperature corrections of the node models
type NodeQ10s struct {
	Fast rates.Q10 `desc:"correction of the persistent and fast Na activation rates (q10_1)"`
	H    rates.Q10 `desc:"correction of the fast Na inactivation rates (q10_2)"`
	Slow rates.Q10 `desc:"correction of the slow K, fast K and HCN rates (q10_3)"`
}

func (nq *NodeQ10s) Defaults() {
	nq.Fast = rates.Q10{Q10: 2.2, Tref: 20, Tstep: 10, Conv: rates.RateMult}
	nq.H = rates.Q10{Q10: 2.9, Tref: 20, Tstep: 10, Conv: rates.RateMult}
	nq.Slow = rates.Q10{Q10: 3, Tref: 36, Tstep: 10, Conv: rates.RateMult}
}

// indexes of NodeQ10s in the Spec.Q10s list
const (
	q10Fast = iota
	q10H
	q10Slow
)

func (nq *NodeQ10s) list() []rates.Q10 {
	return []rates.Q10{nq.Fast, nq.H, nq.Slow}
}

// SlowK are the slow potassium (s) rate constants, evaluated at v - Vtraub:
// a = As.A / (Exp((v2+As.B)/As.C) + 1), b likewise with Bs
type SlowK struct {
	Vtraub float64 `def:"-80" desc:"reference potential subtracted from v (mV)"`
	As     RateABC `desc:"forward rate constants"`
	Bs     RateABC `desc:"backward rate constants"`
}

func (sk *SlowK) Defaults() {
	sk.Vtraub = -80
	sk.As.Set(0.3, -27, -5)
	sk.Bs.Set(0.03, 10, -1)
}

func (sk *SlowK) gate() GateSpec {
	return GateSpec{Name: "s", Kind: AlphaBeta, Q10: q10Slow, Vref: sk.Vtraub,
		Alpha: rates.Sigmoid{A: sk.As.A, B: sk.As.B, C: sk.As.C},
		Beta:  rates.Sigmoid{A: sk.Bs.A, B: sk.Bs.B, C: sk.Bs.C}}
}

// FastK are the fast potassium (n) rate constants:
// a = An.A (v - An.B) / (1 - Exp((An.B - v)/An.C)),
// b = Bn.A (Bn.B - v) / (1 - Exp((v - Bn.B)/Bn.C))
type FastK struct {
	An RateABC `desc:"forward rate constants"`
	Bn RateABC `desc:"backward rate constants"`
}

func (fk *FastK) Defaults() {
	fk.An.Set(0.0462, -83.2, 1.1)
	fk.Bn.Set(0.0824, -66, 10.5)
}

func (fk *FastK) gate() GateSpec {
	return GateSpec{Name: "n", Kind: AlphaBeta, Q10: q10Slow,
		Alpha: rates.Linoid{A: fk.An.A, B: -fk.An.B, C: fk.An.C},
		Beta:  rates.LinoidRev(fk.Bn.A, -fk.Bn.B, fk.Bn.C)}
}

// NodeNa are the persistent (mp) and fast (m, h) sodium rate constants.
// Rates are a = A (v+B) / (1 - Exp(-(v+B)/C)) and the reversed form, except
// Bh: b = Bh.A / (1 + Exp(-(v+Bh.B)/Bh.C)).
type NodeNa struct {
	Amp RateABC `desc:"persistent Na activation forward rate"`
	Bmp RateABC `desc:"persistent Na activation backward rate (reversed form)"`
	Am  RateABC `desc:"fast Na activation forward rate"`
	Bm  RateABC `desc:"fast Na activation backward rate (reversed form)"`
	Ah  RateABC `desc:"fast Na inactivation forward rate (reversed form)"`
	Bh  RateABC `desc:"fast Na inactivation backward rate (sigmoid)"`
}

func (nn *NodeNa) Defaults() {
	nn.Amp.Set(0.01, 27, 10.2)
	nn.Bmp.Set(0.00025, 34, 10)
	nn.Am.Set(1.86, 21.4, 10.3)
	nn.Bm.Set(0.086, 25.7, 9.16)
	nn.Ah.Set(0.062, 114, 11)
	nn.Bh.Set(2.3, 31.8, 13.4)
}

func (nn *NodeNa) gates() []GateSpec {
	return []GateSpec{
		{Name: "mp", Kind: AlphaBeta, Q10: q10Fast,
			Alpha: rates.Linoid{A: nn.Amp.A, B: nn.Amp.B, C: nn.Amp.C},
			Beta:  rates.LinoidRev(nn.Bmp.A, nn.Bmp.B, nn.Bmp.C)},
		{Name: "m", Kind: AlphaBeta, Q10: q10Fast,
			Alpha: rates.Linoid{A: nn.Am.A, B: nn.Am.B, C: nn.Am.C},
			Beta:  rates.LinoidRev(nn.Bm.A, nn.Bm.B, nn.Bm.C)},
		{Name: "h", Kind: AlphaBeta, Q10: q10H,
			Alpha: rates.LinoidRev(nn.Ah.A, nn.Ah.B, nn.Ah.C),
			Beta:  rates.Sigmoid{A: nn.Bh.A, B: nn.Bh.B, C: -nn.Bh.C}},
	}
}

// nodeNaCurrents returns inap and ina given the gate indexes of mp, m, h
func nodeNaCurrents(gnapbar, gnabar, ena float64, mp, m, h int) []CurrentSpec {
	return []CurrentSpec{
		{Name: "inap", Ion: chans.NonSpec, Gbar: gnapbar, Erev: ena,
			Terms: []Term{{Frac: 1, Factors: []Factor{{mp, 3}}}}},
		{Name: "ina", Ion: chans.NonSpec, Gbar: gnabar, Erev: ena,
			Terms: []Term{{Frac: 1, Factors: []Factor{{m, 3}, {h, 1}}}}},
	}
}

func gated(name string, gbar, erev float64, gi, pow int) CurrentSpec {
	return CurrentSpec{Name: name, Ion: chans.NonSpec, Gbar: gbar, Erev: erev,
		Terms: []Term{{Frac: 1, Factors: []Factor{{gi, pow}}}}}
}

func leak(name string, gbar, erev float64) CurrentSpec {
	return CurrentSpec{Name: name, Ion: chans.NonSpec, Gbar: gbar, Erev: erev}
}

////////////////////////////////////////////////////////////////////////
//  AxNode

// AxNode is the McIntyre, Richardson & Grill (2002) node of Ranvier:
// persistent Na (mp^3), fast Na (m^3 h), slow K (s) and leak.
// Setting GnapBar and GnaBar to 0 models a sodium block.
type AxNode struct {
	Base
	GnapBar float64  `def:"0.01" desc:"persistent Na conductance (S/cm2)"`
	GnaBar  float64  `def:"3" desc:"fast Na conductance (S/cm2)"`
	GkBar   float64  `def:"0.08" desc:"slow K conductance (S/cm2)"`
	Gl      float64  `def:"0.007" desc:"leak conductance (S/cm2)"`
	Ena     float64  `def:"50" desc:"Na reversal potential (mV)"`
	Ek      float64  `def:"-90" desc:"K reversal potential (mV)"`
	El      float64  `def:"-90" desc:"leak reversal potential (mV)"`
	Na      NodeNa   `view:"inline" desc:"sodium rate constants"`
	K       SlowK    `view:"inline" desc:"slow potassium rate constants"`
	Q10     NodeQ10s `view:"inline" desc:"temperature corrections"`
}

func (an *AxNode) Suffix() string { return "axnode" }
func (an *AxNode) Class() string  { return an.class(an.Suffix()) }

func (an *AxNode) Defaults() {
	an.GnapBar = 0.01
	an.GnaBar = 3
	an.GkBar = 0.08
	an.Gl = 0.007
	an.Ena = 50
	an.Ek = -90
	an.El = -90
	an.Na.Defaults()
	an.K.Defaults()
	an.Q10.Defaults()
	an.Update()
}

func (an *AxNode) Update() {
}

func (an *AxNode) Spec() *Spec {
	gs := append(an.Na.gates(), an.K.gate())
	cs := nodeNaCurrents(an.GnapBar, an.GnaBar, an.Ena, 0, 1, 2)
	cs = append(cs, gated("ik", an.GkBar, an.Ek, 3, 1), leak("il", an.Gl, an.El))
	return &Spec{Name: an.Suffix(), Gates: gs, Currents: cs, Q10s: an.Q10.list()}
}

////////////////////////////////////////////////////////////////////////
//  NodeMotor

// NodeMotor is the Gaines et al. (2018) motor axon node: AxNode with a
// shifted fast Na activation and an added fast K current (n^4)
type NodeMotor struct {
	Base
	GnapBar float64  `def:"0.01" desc:"persistent Na conductance (S/cm2)"`
	GnaBar  float64  `def:"3" desc:"fast Na conductance (S/cm2)"`
	GkBar   float64  `def:"0.08" desc:"slow K conductance (S/cm2)"`
	Gl      float64  `def:"0.007" desc:"leak conductance (S/cm2)"`
	Gkf     float64  `def:"0.02568" desc:"fast K conductance (S/cm2)"`
	Ena     float64  `def:"50" desc:"Na reversal potential (mV)"`
	Ek      float64  `def:"-90" desc:"slow K reversal potential (mV)"`
	El      float64  `def:"-90" desc:"leak reversal potential (mV)"`
	Ekf     float64  `def:"-90" desc:"fast K reversal potential (mV)"`
	Na      NodeNa   `view:"inline" desc:"sodium rate constants"`
	K       SlowK    `view:"inline" desc:"slow potassium rate constants"`
	Kf      FastK    `view:"inline" desc:"fast potassium rate constants"`
	Q10     NodeQ10s `view:"inline" desc:"temperature corrections"`
}

func (nm *NodeMotor) Suffix() string { return "node_motor" }
func (nm *NodeMotor) Class() string  { return nm.class(nm.Suffix()) }

func (nm *NodeMotor) Defaults() {
	nm.GnapBar = 0.01
	nm.GnaBar = 3
	nm.GkBar = 0.08
	nm.Gl = 0.007
	nm.Gkf = 0.02568
	nm.Ena = 50
	nm.Ek = -90
	nm.El = -90
	nm.Ekf = -90
	nm.Na.Defaults()
	nm.Na.Am.B = 20.4
	nm.K.Defaults()
	nm.Kf.Defaults()
	nm.Q10.Defaults()
	nm.Update()
}

func (nm *NodeMotor) Update() {
}

func (nm *NodeMotor) Spec() *Spec {
	gs := append(nm.Na.gates(), nm.K.gate(), nm.Kf.gate())
	cs := nodeNaCurrents(nm.GnapBar, nm.GnaBar, nm.Ena, 0, 1, 2)
	cs = append(cs, gated("ik", nm.GkBar, nm.Ek, 3, 1), leak("il", nm.Gl, nm.El), gated("ikf", nm.Gkf, nm.Ekf, 4, 4))
	return &Spec{Name: nm.Suffix(), Gates: gs, Currents: cs, Q10s: nm.Q10.list()}
}

////////////////////////////////////////////////////////////////////////
//  MysaSensory

// HCN are the hyperpolarization-activated (q) rate constants:
// a = Aq.A Exp((v - Aq.B)/Aq.C), b = Bq.A / Exp((v - Bq.B)/Bq.C)
type HCN struct {
	Aq RateABC `desc:"forward rate constants"`
	Bq RateABC `desc:"backward rate constants"`
}

func (hc *HCN) Defaults() {
	hc.Aq.Set(0.00522, -94.2, -12.2)
	hc.Bq.Set(0.00522, -94.2, -12.2)
}

func (hc *HCN) gate() GateSpec {
	return GateSpec{Name: "q", Kind: AlphaBeta, Q10: q10Slow,
		Alpha: rates.Expo{A: hc.Aq.A, B: -hc.Aq.B, C: hc.Aq.C},
		Beta:  rates.ExpoRecip{A: hc.Bq.A, B: -hc.Bq.B, C: hc.Bq.C}}
}

// MysaSensory is the Gaines et al. (2018) sensory axon myelin attachment
// segment: slow K (s), HCN (q), fast K (n^4) and leak
type MysaSensory struct {
	Base
	GkBar float64  `def:"0.001324" desc:"slow K conductance (S/cm2)"`
	Gl    float64  `def:"0.001716" desc:"leak conductance (S/cm2)"`
	Gq    float64  `def:"0.003102" desc:"HCN conductance (S/cm2)"`
	Gkf   float64  `def:"0.1642" desc:"fast K conductance (S/cm2)"`
	Ek    float64  `def:"-90" desc:"slow K reversal potential (mV)"`
	El    float64  `def:"-90" desc:"leak reversal potential (mV)"`
	Eq    float64  `def:"-54.9" desc:"HCN reversal potential (mV)"`
	Ekf   float64  `def:"-90" desc:"fast K reversal potential (mV)"`
	K     SlowK    `view:"inline" desc:"slow potassium rate constants"`
	Q     HCN      `view:"inline" desc:"HCN rate constants"`
	Kf    FastK    `view:"inline" desc:"fast potassium rate constants"`
	Q10   NodeQ10s `view:"inline" desc:"temperature corrections -- only Slow is used"`
}

func (ms *MysaSensory) Suffix() string { return "mysa_sensory" }
func (ms *MysaSensory) Class() string  { return ms.class(ms.Suffix()) }

func (ms *MysaSensory) Defaults() {
	ms.GkBar = 0.001324
	ms.Gl = 0.001716
	ms.Gq = 0.003102
	ms.Gkf = 0.1642
	ms.Ek = -90
	ms.El = -90
	ms.Eq = -54.9
	ms.Ekf = -90
	ms.K.Defaults()
	ms.Q.Defaults()
	ms.Kf.Defaults()
	ms.Q10.Defaults()
	ms.Update()
}

func (ms *MysaSensory) Update() {
}

func (ms *MysaSensory) Spec() *Spec {
	gs := []GateSpec{ms.K.gate(), ms.Q.gate(), ms.Kf.gate()}
	cs := []CurrentSpec{
		gated("ik", ms.GkBar, ms.Ek, 0, 1),
		leak("il", ms.Gl, ms.El),
		gated("iq", ms.Gq, ms.Eq, 1, 1),
		gated("ikf", ms.Gkf, ms.Ekf, 2, 4),
	}
	return &Spec{Name: ms.Suffix(), Gates: gs, Currents: cs, Q10s: ms.Q10.list()}
}
