// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"log"
	"sort"

	"github.com/emer/emergent/v2/params"
	"github.com/pkg/errors"
)

// Mech is the parameter set of one built-in mechanism.  Fields are named
// as in the published model, can be set by params sheets (type name Mech),
// and are turned into a Spec for building Channels.
type Mech interface {
	// Name is the instance name, for #name params selectors
	Name() string

	// SetName sets the instance name
	SetName(nm string)

	// Class is the suffix plus any user classes, for .class params selectors
	Class() string

	// SetClass sets the user classes, space separated
	SetClass(cls string)

	// TypeName is the params type category, always "Mech"
	TypeName() string

	// Suffix is the NEURON suffix of the mechanism, e.g. axnode
	Suffix() string

	// Defaults sets the published parameter values
	Defaults()

	// Update recomputes any derived parameters after a change
	Update()

	// Spec returns the channel description for the present parameters
	Spec() *Spec
}

// Base has the naming fields shared by all mechanisms
type Base struct {
	Nm  string `desc:"instance name"`
	Cls string `desc:"additional classes for params selectors, space separated"`
}

func (mb *Base) Name() string        { return mb.Nm }
func (mb *Base) SetName(nm string)   { mb.Nm = nm }
func (mb *Base) SetClass(cls string) { mb.Cls = cls }
func (mb *Base) TypeName() string    { return "Mech" } // type category, for params..

func (mb *Base) class(suffix string) string {
	if mb.Cls == "" {
		return suffix
	}
	return suffix + " " + mb.Cls
}

// RateABC are the three constants of a rate function: amplitude,
// voltage offset, slope
type RateABC struct {
	A float64 `desc:"amplitude"`
	B float64 `desc:"voltage offset (mV)"`
	C float64 `desc:"slope (mV)"`
}

// Set sets all the values
func (rc *RateABC) Set(a, b, c float64) {
	rc.A, rc.B, rc.C = a, b, c
}

// newFuncs are the constructors of the built-in mechanisms, by suffix
var newFuncs = map[string]func() Mech{
	"axnode":       func() Mech { return &AxNode{} },
	"node_motor":   func() Mech { return &NodeMotor{} },
	"mysa_sensory": func() Mech { return &MysaSensory{} },
	"naf":          func() Mech { return &Naf{} },
	"naf97":        func() Mech { return &Naf97{} },
	"nas97":        func() Mech { return &Nas97{} },
	"nav1p8":       func() Mech { return &Nav18{} },
	"kaslow":       func() Mech { return &KASlow{} },
}

// New returns the built-in mechanism with the given suffix, with default
// parameters and instance name equal to the suffix
func New(suffix string) (Mech, error) {
	fn, ok := newFuncs[suffix]
	if !ok {
		return nil, errors.Errorf("mech.New: unknown mechanism suffix %q", suffix)
	}
	mc := fn()
	mc.SetName(suffix)
	mc.Defaults()
	return mc, nil
}

// Suffixes returns the suffixes of all the built-in mechanisms, sorted
func Suffixes() []string {
	sfx := make([]string, 0, len(newFuncs))
	for s := range newFuncs {
		sfx = append(sfx, s)
	}
	sort.Strings(sfx)
	return sfx
}

// ApplySheet applies given parameter style Sheet to the mechanism, and
// calls Update if anything was set.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func ApplySheet(mc Mech, pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(mc, setMsg)
	if app {
		mc.Update()
	}
	if err != nil {
		log.Printf("mech.ApplySheet: %s: %v\n", mc.Name(), err)
	}
	return app, err
}

// NewChannelFor builds a channel from the mechanism's current parameters
func NewChannelFor(mc Mech) (*Channel, error) {
	sp := mc.Spec()
	ch, err := NewChannel(sp)
	if err != nil {
		return nil, errors.Wrapf(err, "mechanism %s", mc.Name())
	}
	return ch, nil
}
