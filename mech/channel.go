// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/gate"
	"github.com/pkg/errors"
)

// CondDelta is the voltage increment (mV) of the finite-difference conductance
const CondDelta = 0.001

// Channel is one instance of a mechanism in one compartment: the gate
// state plus the values derived from it on the most recent call.
// It is not safe for concurrent use, but distinct Channels share nothing
// mutable and can be stepped in parallel.
type Channel struct {
	Spec    *Spec         `desc:"the mechanism description -- must not be changed after NewChannel"`
	X       []float64     `desc:"gate values, in Spec.Gates order -- not clamped to [0,1]"`
	Inf     []float64     `desc:"steady state of each gate at the last Rates voltage"`
	Tau     []float64     `desc:"time constant of each gate at the last Rates voltage (ms)"`
	I       []float64     `desc:"current density of each current at the last Current voltage (mA/cm2)"`
	G       []float64     `desc:"conductance Gbar * occupancy of each current at the last Current call (S/cm2)"`
	Q10Fact []float64     `desc:"temperature factor per Spec.Q10s entry, computed at Init"`
	Celsius float64       `desc:"temperature at Init (degC)"`
	Ions    chans.IonPool `desc:"ion pool of the compartment, nil if no ionic currents"`

	inited bool
	qfact  []float64
	qtau   []bool
}

// NewChannel validates the spec and returns a channel built on it
func NewChannel(sp *Spec) (*Channel, error) {
	if sp == nil {
		return nil, errors.Wrap(ErrInvalidSpec, "nil spec")
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	ng := len(sp.Gates)
	nc := len(sp.Currents)
	ch := &Channel{Spec: sp}
	ch.X = make([]float64, ng)
	ch.Inf = make([]float64, ng)
	ch.Tau = make([]float64, ng)
	ch.I = make([]float64, nc)
	ch.G = make([]float64, nc)
	ch.Q10Fact = make([]float64, len(sp.Q10s))
	ch.qfact = make([]float64, ng)
	ch.qtau = make([]bool, ng)
	return ch, nil
}

// Init computes the temperature factors and sets every gate to its steady
// state at v.  ions may be nil only if no current uses an ion.
func (ch *Channel) Init(v, celsius float64, ions chans.IonPool) error {
	ch.inited = false
	if ions == nil && ch.Spec.UsesIons() {
		return errors.Wrapf(ErrNoIonPool, "%s", ch.Spec.Name)
	}
	if !finite(v) || !finite(celsius) {
		return errors.Wrapf(ErrInvalidInput, "%s: Init at v = %v, celsius = %v", ch.Spec.Name, v, celsius)
	}
	ch.Ions = ions
	ch.Celsius = celsius
	for qi := range ch.Spec.Q10s {
		qf := ch.Spec.Q10s[qi].Factor(celsius)
		if !(qf > 0) || !finite(qf) {
			return errors.Wrapf(ErrInvalidInput, "%s: q10 %d factor %v at celsius = %v", ch.Spec.Name, qi, qf, celsius)
		}
		ch.Q10Fact[qi] = qf
	}
	for gi := range ch.Spec.Gates {
		g := &ch.Spec.Gates[gi]
		if g.Q10 == NoQ10 {
			ch.qfact[gi] = 1
			ch.qtau[gi] = true
			continue
		}
		ch.qfact[gi] = ch.Q10Fact[g.Q10]
		ch.qtau[gi] = ch.Spec.Q10s[g.Q10].OnTau()
	}
	ch.Rates(v)
	for gi := range ch.Inf {
		if !(ch.Inf[gi] >= 0 && ch.Inf[gi] <= 1) || !(ch.Tau[gi] > 0) || !finite(ch.Tau[gi]) {
			return errors.Wrapf(ErrInvalidInput, "%s: gate %q inf = %v, tau = %v at v = %v", ch.Spec.Name, ch.Spec.Gates[gi].Name, ch.Inf[gi], ch.Tau[gi], v)
		}
	}
	copy(ch.X, ch.Inf)
	ch.inited = true
	return nil
}

// IsInit returns true once Init has succeeded
func (ch *Channel) IsInit() bool {
	return ch.inited
}

// Rates computes Inf and Tau of every gate at v
func (ch *Channel) Rates(v float64) {
	for gi := range ch.Spec.Gates {
		ch.Inf[gi], ch.Tau[gi] = ch.Spec.Gates[gi].InfTau(v, ch.qfact[gi], ch.qtau[gi])
	}
}

// States advances every gate by dt (ms) at the fixed voltage v, using the
// exponential (cnexp) update
func (ch *Channel) States(v, dt float64) {
	ch.Rates(v)
	for gi := range ch.X {
		ch.X[gi] = gate.Cnexp(ch.X[gi], ch.Inf[gi], ch.Tau[gi], dt)
	}
}

// Step is States with the host-contract checks: it returns ErrNotInitialized
// if Init has not been called, and ErrInvalidInput for a non-finite v or
// a dt that is not finite and positive.  Gates are unchanged on error.
func (ch *Channel) Step(v, dt float64) error {
	if !ch.inited {
		return errors.Wrapf(ErrNotInitialized, "%s", ch.Spec.Name)
	}
	if !finite(v) || !(dt > 0) || !finite(dt) {
		return errors.Wrapf(ErrInvalidInput, "%s: Step at v = %v, dt = %v", ch.Spec.Name, v, dt)
	}
	ch.States(v, dt)
	return nil
}

// Derivs computes Rates at v and puts dx/dt of each gate into d
func (ch *Channel) Derivs(v float64, d []float64) {
	ch.Rates(v)
	for gi := range ch.X {
		d[gi] = gate.Deriv(ch.X[gi], ch.Inf[gi], ch.Tau[gi])
	}
}

// MatSol computes Rates at v and converts the derivatives in d into
// implicit (backward Euler) increments for step dt, in place
func (ch *Channel) MatSol(v, dt float64, d []float64) {
	ch.Rates(v)
	for gi := range d {
		d[gi] = gate.MatSol(d[gi], ch.Tau[gi], dt)
	}
}

// Erev returns the reversal potential of the given current
func (ch *Channel) Erev(ci int) float64 {
	cs := &ch.Spec.Currents[ci]
	if cs.Ion == chans.NonSpec || ch.Ions == nil {
		return cs.Erev
	}
	return ch.Ions.Erev(cs.Ion)
}

// Occupancy returns the gated fraction of the given current's conductance
// at the current gate values
func (ch *Channel) Occupancy(ci int) float64 {
	cs := &ch.Spec.Currents[ci]
	if len(cs.Terms) == 0 {
		return 1
	}
	occ := 0.0
	for ti := range cs.Terms {
		tm := &cs.Terms[ti]
		p := tm.Frac
		for _, f := range tm.Factors {
			x := ch.X[f.Gate]
			for k := 0; k < f.Pow; k++ {
				p *= x
			}
		}
		occ += p
	}
	return occ
}

// Gcur returns the conductance Gbar * occupancy of the given current (S/cm2).
// A single term with Frac 1 is multiplied out left to right starting from
// Gbar (gbar*m*m*m*h), rounding the same as the published node models.
func (ch *Channel) Gcur(ci int) float64 {
	cs := &ch.Spec.Currents[ci]
	if len(cs.Terms) != 1 || cs.Terms[0].Frac != 1 {
		return cs.Gbar * ch.Occupancy(ci)
	}
	g := cs.Gbar
	for _, f := range cs.Terms[0].Factors {
		x := ch.X[f.Gate]
		for k := 0; k < f.Pow; k++ {
			g *= x
		}
	}
	return g
}

// Current computes every current at v from the present gate values, fills
// I and G, and returns the total current density (mA/cm2), outward positive
func (ch *Channel) Current(v float64) float64 {
	tot := 0.0
	for ci := range ch.Spec.Currents {
		g := ch.Gcur(ci)
		ch.G[ci] = g
		ch.I[ci] = g * (v - ch.Erev(ci))
		tot += ch.I[ci]
	}
	return tot
}

// Cond returns the slope conductance dI/dv (S/cm2) by forward difference
// over CondDelta, gates held fixed.  I is left at v.
func (ch *Channel) Cond(v float64) float64 {
	gp := ch.Current(v + CondDelta)
	rhs := ch.Current(v)
	return (gp - rhs) / CondDelta
}

// CondAnalytic returns the exact slope conductance with gates held fixed,
// which for ohmic currents is the sum of Gbar * occupancy.
func (ch *Channel) CondAnalytic(v float64) float64 {
	ch.Current(v)
	tot := 0.0
	for _, g := range ch.G {
		tot += g
	}
	return tot
}

// Contribute performs the host's per-step current protocol at v: it returns
// the total current rhs and slope conductance g, and deposits each ionic
// current and its slope into the ion pool.
func (ch *Channel) Contribute(v float64) (rhs, g float64) {
	nc := len(ch.I)
	gp := ch.Current(v + CondDelta)
	var ip [chans.IonN]float64
	for ci := 0; ci < nc; ci++ {
		ip[ch.Spec.Currents[ci].Ion] += ch.I[ci]
	}
	rhs = ch.Current(v)
	g = (gp - rhs) / CondDelta
	if ch.Ions == nil {
		return
	}
	var iv [chans.IonN]float64
	for ci := 0; ci < nc; ci++ {
		iv[ch.Spec.Currents[ci].Ion] += ch.I[ci]
	}
	for ion := chans.Na; ion < chans.IonN; ion++ {
		if !ch.usesIon(ion) {
			continue
		}
		ch.Ions.AddCurrent(ion, iv[ion], (ip[ion]-iv[ion])/CondDelta)
	}
	return
}

func (ch *Channel) usesIon(ion chans.Ion) bool {
	for ci := range ch.Spec.Currents {
		if ch.Spec.Currents[ci].Ion == ion {
			return true
		}
	}
	return false
}

// GateIdx returns the index of the named gate, or -1
func (ch *Channel) GateIdx(name string) int {
	return ch.Spec.GateIdx(name)
}
