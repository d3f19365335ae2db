// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gatechans is the overall repository for Hodgkin-Huxley style
voltage-gated channel mechanisms, written to be driven by a host
compartmental simulator (as NEURON drives compiled mechanisms) or by the
simple compartment and clamp drivers included here.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* rates: the voltage-dependent rate, steady state, and time constant function
families (singularity-guarded linoids, sigmoids, Boltzmann curves, bell-shaped
time constants, exponentials), the clipped exponential, and Q10 temperature
factors.

* gate: integration of a single first-order gate: the exponential (cnexp)
update and the derivative and implicit-solve forms used by variable-step solvers.

* chans: ions, reversal potentials, and the per-compartment ion pool that
ionic currents are deposited into.

* mech: the generic channel (Spec, Channel) and the built-in mechanism
catalogue: axnode, node_motor, mysa_sensory, naf, naf97, nas97, nav1p8, kaslow.
Parameters are named-field structs that can be set with params.Sheet styles.

* compart: a single membrane compartment with inserted channels, stepped under
current or voltage clamp, and a Fiber of many compartments computed in parallel.

* clamp: voltage- and current-clamp protocols recorded into etable.Table
traces, time constant fits, steady-state sweeps, and I-V curves.

* cmd/gateclamp: command-line access to all of the above.
*/
package gatechans
