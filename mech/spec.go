// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"math"

	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/rates"
	"github.com/goki/ki/kit"
	"github.com/pkg/errors"
)

// NoQ10 marks a gate whose kinetics are not temperature corrected
const NoQ10 = -1

// Validation sweep range and step (mV)
const (
	SweepVMin  = -150.0
	SweepVMax  = 100.0
	SweepVStep = 0.5
)

// GateKind is how a gate's steady state and time constant are computed
type GateKind int32

//go:generate stringer -type=GateKind

var KiT_GateKind = kit.Enums.AddEnum(GateKindN, kit.NotBitFlag, nil)

func (ev GateKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *GateKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The gate kinds
const (
	// AlphaBeta gates have forward and backward rates: inf = a/(a+b), tau = 1/(a+b)
	AlphaBeta GateKind = iota

	// InfTau gates have steady state and time constant functions directly
	InfTau

	GateKindN
)

// GateSpec describes one gating variable
type GateSpec struct {
	Name  string     `desc:"name of the gate, e.g. m, h, s"`
	Kind  GateKind   `desc:"how inf and tau are computed"`
	Alpha rates.Func `desc:"forward rate (/ms) for AlphaBeta gates"`
	Beta  rates.Func `desc:"backward rate (/ms) for AlphaBeta gates"`
	Inf   rates.Func `desc:"steady state for InfTau gates"`
	Tau   rates.Func `desc:"time constant (ms) for InfTau gates"`
	Q10   int        `desc:"index into Spec.Q10s of the temperature correction, NoQ10 for none"`
	Vref  float64    `desc:"reference subtracted from v before evaluating the functions (mV), e.g. vtraub"`
}

// Factor is one gate raised to an integer power
type Factor struct {
	Gate int `desc:"index of the gate in Spec.Gates"`
	Pow  int `desc:"exponent, >= 1"`
}

// Term is one product of gate powers, weighted by Frac
type Term struct {
	Frac    float64  `desc:"fraction of the conductance with this gating"`
	Factors []Factor `desc:"gate powers multiplied together"`
}

// CurrentSpec is one ohmic current: Gbar * occupancy * (v - E), where
// occupancy is the sum over Terms of Frac * prod(x^Pow).  No Terms means
// an ungated (leak) current.
type CurrentSpec struct {
	Name  string    `desc:"name of the current, e.g. ina, ik, il"`
	Ion   chans.Ion `desc:"ion carried -- NonSpec currents use Erev, others read the ion pool"`
	Gbar  float64   `desc:"maximal conductance (S/cm2)"`
	Erev  float64   `desc:"reversal potential for NonSpec currents (mV)"`
	Terms []Term    `desc:"gating terms"`
}

// Spec is the complete, immutable description of a channel mechanism.
// One generic Channel is built from it.
type Spec struct {
	Name     string        `desc:"mechanism name (NEURON suffix)"`
	Gates    []GateSpec    `desc:"gating variables, in state order"`
	Currents []CurrentSpec `desc:"currents"`
	Q10s     []rates.Q10   `desc:"temperature corrections referenced by the gates"`
}

// GateIdx returns the index of the named gate, or -1
func (sp *Spec) GateIdx(name string) int {
	for i := range sp.Gates {
		if sp.Gates[i].Name == name {
			return i
		}
	}
	return -1
}

// CurrentIdx returns the index of the named current, or -1
func (sp *Spec) CurrentIdx(name string) int {
	for i := range sp.Currents {
		if sp.Currents[i].Name == name {
			return i
		}
	}
	return -1
}

// UsesIons returns true if any current reads the ion pool
func (sp *Spec) UsesIons() bool {
	for i := range sp.Currents {
		if sp.Currents[i].Ion != chans.NonSpec {
			return true
		}
	}
	return false
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate checks the structure of the spec and sweeps every gate over
// SweepVMin..SweepVMax, requiring inf in [0,1] and a finite positive tau.
// All errors wrap ErrInvalidSpec.
func (sp *Spec) Validate() error {
	if sp.Name == "" {
		return errors.Wrap(ErrInvalidSpec, "empty mechanism name")
	}
	for qi := range sp.Q10s {
		q := &sp.Q10s[qi]
		if !(q.Q10 > 0) || !finite(q.Q10) || q.Tstep == 0 || !finite(q.Tstep) || !finite(q.Tref) {
			return errors.Wrapf(ErrInvalidSpec, "%s: q10 %d: %+v", sp.Name, qi, *q)
		}
	}
	names := map[string]bool{}
	for gi := range sp.Gates {
		g := &sp.Gates[gi]
		if g.Name == "" {
			return errors.Wrapf(ErrInvalidSpec, "%s: gate %d has no name", sp.Name, gi)
		}
		if names[g.Name] {
			return errors.Wrapf(ErrInvalidSpec, "%s: duplicate gate %q", sp.Name, g.Name)
		}
		names[g.Name] = true
		switch g.Kind {
		case AlphaBeta:
			if g.Alpha == nil || g.Beta == nil {
				return errors.Wrapf(ErrInvalidSpec, "%s: gate %q missing alpha or beta", sp.Name, g.Name)
			}
		case InfTau:
			if g.Inf == nil || g.Tau == nil {
				return errors.Wrapf(ErrInvalidSpec, "%s: gate %q missing inf or tau", sp.Name, g.Name)
			}
		default:
			return errors.Wrapf(ErrInvalidSpec, "%s: gate %q has kind %v", sp.Name, g.Name, g.Kind)
		}
		if g.Q10 != NoQ10 && (g.Q10 < 0 || g.Q10 >= len(sp.Q10s)) {
			return errors.Wrapf(ErrInvalidSpec, "%s: gate %q q10 index %d out of range", sp.Name, g.Name, g.Q10)
		}
		if !finite(g.Vref) {
			return errors.Wrapf(ErrInvalidSpec, "%s: gate %q vref %v", sp.Name, g.Name, g.Vref)
		}
	}
	names = map[string]bool{}
	for ci := range sp.Currents {
		cs := &sp.Currents[ci]
		if cs.Name == "" {
			return errors.Wrapf(ErrInvalidSpec, "%s: current %d has no name", sp.Name, ci)
		}
		if names[cs.Name] {
			return errors.Wrapf(ErrInvalidSpec, "%s: duplicate current %q", sp.Name, cs.Name)
		}
		names[cs.Name] = true
		if cs.Ion < chans.NonSpec || cs.Ion >= chans.IonN {
			return errors.Wrapf(ErrInvalidSpec, "%s: current %q ion %v", sp.Name, cs.Name, cs.Ion)
		}
		if cs.Gbar < 0 || !finite(cs.Gbar) {
			return errors.Wrapf(ErrInvalidSpec, "%s: current %q gbar %v", sp.Name, cs.Name, cs.Gbar)
		}
		if cs.Ion == chans.NonSpec && !finite(cs.Erev) {
			return errors.Wrapf(ErrInvalidSpec, "%s: current %q erev %v", sp.Name, cs.Name, cs.Erev)
		}
		for ti := range cs.Terms {
			tm := &cs.Terms[ti]
			if !finite(tm.Frac) {
				return errors.Wrapf(ErrInvalidSpec, "%s: current %q term %d frac %v", sp.Name, cs.Name, ti, tm.Frac)
			}
			for _, f := range tm.Factors {
				if f.Gate < 0 || f.Gate >= len(sp.Gates) {
					return errors.Wrapf(ErrInvalidSpec, "%s: current %q gate index %d out of range", sp.Name, cs.Name, f.Gate)
				}
				if f.Pow < 1 {
					return errors.Wrapf(ErrInvalidSpec, "%s: current %q gate %q power %d", sp.Name, cs.Name, sp.Gates[f.Gate].Name, f.Pow)
				}
			}
		}
	}
	return sp.sweep()
}

// sweep evaluates every gate over the validation range without temperature correction.
// Q10 factors are finite and positive so they cannot change the outcome.
func (sp *Spec) sweep() error {
	n := int(math.Round((SweepVMax-SweepVMin)/SweepVStep)) + 1
	for gi := range sp.Gates {
		g := &sp.Gates[gi]
		for i := 0; i < n; i++ {
			v := SweepVMin + float64(i)*SweepVStep
			inf, tau := g.InfTau(v, 1, true)
			if !(inf >= 0 && inf <= 1) {
				return errors.Wrapf(ErrInvalidSpec, "%s: gate %q inf = %v at v = %v", sp.Name, g.Name, inf, v)
			}
			if !(tau > 0) || !finite(tau) {
				return errors.Wrapf(ErrInvalidSpec, "%s: gate %q tau = %v at v = %v", sp.Name, g.Name, tau, v)
			}
		}
	}
	return nil
}

// InfTau returns the steady state and time constant of the gate at v,
// given its temperature factor q (1 if none).  onTau says whether q
// multiplies the time constant, otherwise it multiplies the rates.
func (g *GateSpec) InfTau(v, q float64, onTau bool) (inf, tau float64) {
	vv := v - g.Vref
	switch g.Kind {
	case AlphaBeta:
		a := g.Alpha.Eval(vv)
		b := g.Beta.Eval(vv)
		if !onTau {
			a = q * a
			b = q * b
		}
		inf, tau = rates.Pair(a, b)
	default:
		inf = g.Inf.Eval(vv)
		tau = g.Tau.Eval(vv)
		if !onTau {
			tau = tau / q
		}
	}
	if onTau {
		tau = tau * q
	}
	return
}
