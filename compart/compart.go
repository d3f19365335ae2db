// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package compart provides single membrane compartments with inserted channel
mechanisms, integrated with the fixed-step call order of the NEURON host:
Init sets every gate to steady state, then each step the channels contribute
their current and slope conductance, the membrane potential is solved
implicitly, and the gates are advanced at the new potential.

There is no cable coupling: a Fiber is a set of independent compartments
(e.g. the nodes of an axon under uniform stimulation) computed in parallel.
*/
package compart

import (
	"math"

	"github.com/emer/etable/v2/minmax"
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/mech"
	"github.com/pkg/errors"
)

// ErrUnstable is returned when the membrane potential leaves VRange
var ErrUnstable = errors.New("compart: membrane potential out of range")

// Compartment is one isopotential patch of membrane
type Compartment struct {
	Nm     string          `desc:"name of the compartment"`
	V      float64         `desc:"membrane potential (mV)"`
	Cm     float64         `def:"1" desc:"specific membrane capacitance (uF/cm2)"`
	Iinj   float64         `desc:"injected current density, inward positive as for an electrode (mA/cm2)"`
	VRange minmax.F64      `desc:"membrane potential must stay within this range, else the step fails (mV)"`
	Pool   chans.Pool      `desc:"ion pool shared by the mechanisms"`
	Mechs  []mech.Mech     `desc:"inserted mechanisms, parallel to Chans"`
	Chans  []*mech.Channel `desc:"channel instances"`
	I      float64         `desc:"total membrane current density at the last step (mA/cm2)"`
	G      float64         `desc:"total slope conductance at the last step (S/cm2)"`
	Thread int             `desc:"thread to run on, within a Fiber"`
}

// NewCompartment returns a compartment with default capacitance and range
func NewCompartment(name string) *Compartment {
	cp := &Compartment{Nm: name}
	cp.Defaults()
	return cp
}

func (cp *Compartment) Defaults() {
	cp.Cm = 1
	cp.VRange.Set(-200, 200)
	cp.Pool.Defaults()
}

// Insert builds a channel for the mechanism and adds it
func (cp *Compartment) Insert(mc mech.Mech) error {
	ch, err := mech.NewChannelFor(mc)
	if err != nil {
		return errors.Wrapf(err, "compartment %s", cp.Nm)
	}
	cp.Mechs = append(cp.Mechs, mc)
	cp.Chans = append(cp.Chans, ch)
	return nil
}

// InsertSuffix inserts the built-in mechanism with given suffix, with defaults
func (cp *Compartment) InsertSuffix(suffix string) (mech.Mech, error) {
	mc, err := mech.New(suffix)
	if err != nil {
		return nil, err
	}
	return mc, cp.Insert(mc)
}

// ChanByName returns the channel of the mechanism with given instance name, or nil
func (cp *Compartment) ChanByName(name string) *mech.Channel {
	for i, mc := range cp.Mechs {
		if mc.Name() == name {
			return cp.Chans[i]
		}
	}
	return nil
}

// Init sets the potential and initializes all channels at the given temperature
func (cp *Compartment) Init(v, celsius float64) error {
	cp.V = v
	cp.Pool.ZeroCurrents()
	for i, ch := range cp.Chans {
		if err := ch.Init(v, celsius, &cp.Pool); err != nil {
			return errors.Wrapf(err, "compartment %s mechanism %s", cp.Nm, cp.Mechs[i].Name())
		}
	}
	cp.I, cp.G = cp.Contribute()
	return nil
}

// Contribute collects current and slope conductance from all channels at
// the present potential, resetting and refilling the ion pool
func (cp *Compartment) Contribute() (rhs, g float64) {
	cp.Pool.ZeroCurrents()
	for _, ch := range cp.Chans {
		ri, gi := ch.Contribute(cp.V)
		rhs += ri
		g += gi
	}
	return
}

// Step advances by dt (ms) under current clamp: the potential is solved by
// backward Euler using the slope conductance, then the gates are advanced
// at the new potential.
func (cp *Compartment) Step(dt float64) error {
	rhs, g := cp.Contribute()
	cp.I, cp.G = rhs, g
	dv := (cp.Iinj - rhs) / (0.001*cp.Cm/dt + g)
	v := cp.V + dv
	if math.IsNaN(v) || cp.VRange.ClipVal(v) != v {
		return errors.Wrapf(ErrUnstable, "compartment %s: v = %v", cp.Nm, v)
	}
	cp.V = v
	for _, ch := range cp.Chans {
		ch.States(v, dt)
	}
	return nil
}

// ClampStep advances by dt (ms) under voltage clamp at v: the gates are
// advanced at v and the resulting clamp current is returned (mA/cm2)
func (cp *Compartment) ClampStep(v, dt float64) float64 {
	cp.V = v
	for _, ch := range cp.Chans {
		ch.States(v, dt)
	}
	cp.I, cp.G = cp.Contribute()
	return cp.I
}

// NStates returns the total number of gate state variables
func (cp *Compartment) NStates() int {
	n := 0
	for _, ch := range cp.Chans {
		n += len(ch.X)
	}
	return n
}
