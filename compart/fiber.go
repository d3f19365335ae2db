// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compart

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/v2/params"
	"github.com/emer/emergent/v2/timer"
	"github.com/emer/gatechans/mech"
)

// CompFunChan is a channel that runs Compartment functions
type CompFunChan chan func(cp *Compartment)

// Fiber is a set of independent compartments computed in parallel by a
// fixed set of worker threads.  Each compartment is assigned to one thread
// (Compartment.Thread), and within a call every compartment is touched by
// its own thread only.
type Fiber struct {
	Nm       string                 `desc:"name of the fiber"`
	Comps    []*Compartment         `desc:"compartments"`
	NThreads int                    `inactive:"+" desc:"number of parallel threads (go routines), computed from the compartment Thread assignments in Build"`
	ThrComps [][]*Compartment       `view:"-" desc:"compartments per thread, built in Build"`
	ThrChans []CompFunChan          `view:"-" desc:"compartment function channels, per thread"`
	ThrTimes []timer.Time           `view:"-" desc:"timers for each thread, so you can see how evenly the workload is being distributed"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function (step of processing)"`
	WaitGp   sync.WaitGroup         `view:"-" desc:"wait group for synchronizing threaded compartment calls"`

	errMu sync.Mutex
	err   error
}

// NewFiber returns a fiber of ncomp compartments, each with the given
// mechanisms inserted with default parameters, spread over nthreads.
// The worker threads are running on return: the caller must call
// StopThreads when done with the fiber.
func NewFiber(name string, ncomp, nthreads int, suffixes ...string) (*Fiber, error) {
	fb := &Fiber{Nm: name}
	if nthreads < 1 {
		nthreads = 1
	}
	for i := 0; i < ncomp; i++ {
		cp := NewCompartment(fmt.Sprintf("%s_%d", name, i))
		for _, sfx := range suffixes {
			if _, err := cp.InsertSuffix(sfx); err != nil {
				return nil, err
			}
		}
		cp.Thread = i % nthreads
		fb.Comps = append(fb.Comps, cp)
	}
	fb.Build()
	return fb, nil
}

// Build constructs the thread allocation from the Thread of each compartment
// and starts the threads, stopping any already running.  Call again after
// changing assignments, and call StopThreads when done.
// A negative Thread is logged and treated as 0.
func (fb *Fiber) Build() {
	fb.StopThreads()
	nthr := 0
	for _, cp := range fb.Comps {
		if cp.Thread < 0 {
			log.Printf("Fiber Build: Fiber %v compartment %v has negative thread: %v, using 0\n", fb.Nm, cp.Nm, cp.Thread)
			cp.Thread = 0
		}
		if cp.Thread > nthr {
			nthr = cp.Thread
		}
	}
	fb.NThreads = nthr + 1
	fb.ThrComps = make([][]*Compartment, fb.NThreads)
	fb.ThrChans = make([]CompFunChan, fb.NThreads)
	fb.ThrTimes = make([]timer.Time, fb.NThreads)
	fb.FunTimes = make(map[string]*timer.Time)
	for _, cp := range fb.Comps {
		th := cp.Thread
		fb.ThrComps[th] = append(fb.ThrComps[th], cp)
	}
	for th := 0; th < fb.NThreads; th++ {
		if len(fb.ThrComps[th]) == 0 {
			log.Printf("Fiber Build: Fiber %v has no compartments for thread: %v\n", fb.Nm, th)
		}
		fb.ThrChans[th] = make(CompFunChan)
	}
	fb.StartThreads()
}

// ApplySheet applies the params sheet to every mechanism of every
// compartment.  Channels must be rebuilt (Rebuild) for changes to take effect.
func (fb *Fiber) ApplySheet(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, cp := range fb.Comps {
		for _, mc := range cp.Mechs {
			app, err := mech.ApplySheet(mc, pars, setMsg)
			if app {
				applied = true
			}
			if err != nil {
				rerr = err
			}
		}
	}
	return applied, rerr
}

// Rebuild rebuilds every channel from the present mechanism parameters
func (fb *Fiber) Rebuild() error {
	for _, cp := range fb.Comps {
		for i, mc := range cp.Mechs {
			ch, err := mech.NewChannelFor(mc)
			if err != nil {
				return err
			}
			cp.Chans[i] = ch
		}
	}
	return nil
}

// Init initializes all compartments at potential v and temperature celsius
func (fb *Fiber) Init(v, celsius float64) error {
	fb.resetErr()
	fb.ThrCompFun(func(cp *Compartment) {
		fb.setErr(cp.Init(v, celsius))
	}, "Init")
	return fb.err
}

// Step advances all compartments by dt under current clamp
func (fb *Fiber) Step(dt float64) error {
	fb.resetErr()
	fb.ThrCompFun(func(cp *Compartment) {
		fb.setErr(cp.Step(dt))
	}, "Step")
	return fb.err
}

// SetIinj sets the injected current of all compartments
func (fb *Fiber) SetIinj(iinj float64) {
	for _, cp := range fb.Comps {
		cp.Iinj = iinj
	}
}

func (fb *Fiber) resetErr() {
	fb.errMu.Lock()
	fb.err = nil
	fb.errMu.Unlock()
}

// setErr records the first error of a threaded call
func (fb *Fiber) setErr(err error) {
	if err == nil {
		return
	}
	fb.errMu.Lock()
	if fb.err == nil {
		fb.err = err
	}
	fb.errMu.Unlock()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Threading infrastructure

// StartThreads starts up the computation threads, which monitor the channels for work
func (fb *Fiber) StartThreads() {
	for th := 0; th < fb.NThreads; th++ {
		go fb.ThrWorker(th, fb.ThrChans[th]) // start the worker thread for this channel
	}
}

// StopThreads stops the computation threads.  It is safe to call more than
// once; after it, calls run serially in the calling thread until Build.
func (fb *Fiber) StopThreads() {
	if fb.ThrChans == nil {
		return
	}
	for _, ch := range fb.ThrChans {
		close(ch)
	}
	fb.ThrChans = nil
}

// ThrWorker is the worker function run by the worker threads,
// processing functions from ch for compartments of thread tt
func (fb *Fiber) ThrWorker(tt int, ch CompFunChan) {
	for fun := range ch {
		fb.ThrTimes[tt].Start()
		for _, cp := range fb.ThrComps[tt] {
			fun(cp)
		}
		fb.ThrTimes[tt].Stop()
		fb.WaitGp.Done()
	}
}

// ThrCompFun calls function on each compartment, using threaded (go routine worker)
// computation if NThreads > 1 and the threads are running, and otherwise just
// iterates in the current thread.
func (fb *Fiber) ThrCompFun(fun func(cp *Compartment), funame string) {
	fb.FunTimerStart(funame)
	if fb.NThreads <= 1 || fb.ThrChans == nil {
		for _, cp := range fb.Comps {
			fun(cp)
		}
	} else {
		for th := 0; th < fb.NThreads; th++ {
			fb.WaitGp.Add(1)
			fb.ThrChans[th] <- fun
		}
		fb.WaitGp.Wait()
	}
	fb.FunTimerStop(funame)
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (fb *Fiber) FunTimerStart(fun string) {
	ft, ok := fb.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		fb.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (fb *Fiber) FunTimerStop(fun string) {
	ft := fb.FunTimes[fun]
	ft.Stop()
}

// ThrTimerReset resets the per-thread timers
func (fb *Fiber) ThrTimerReset() {
	for th := 0; th < fb.NThreads; th++ {
		fb.ThrTimes[th].Reset()
	}
}

// TimerReport returns the amount of time spent in each function, and in each thread
func (fb *Fiber) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v, NThreads: %v\n", fb.Nm, fb.NThreads)
	fmt.Fprintf(&b, "\tFunction Name\tTotal Secs\tPct\n")
	fnms := make([]string, 0, len(fb.FunTimes))
	for k := range fb.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = fb.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Fprintf(&b, "\tTotal   \t%6.4g\n", tot)

	if fb.NThreads <= 1 {
		return b.String()
	}
	fmt.Fprintf(&b, "\n\tThr\tTotal Secs\tPct\n")
	pcts = make([]float64, fb.NThreads)
	tot = 0.0
	for th := 0; th < fb.NThreads; th++ {
		pcts[th] = fb.ThrTimes[th].TotalSecs()
		tot += pcts[th]
	}
	for th := 0; th < fb.NThreads; th++ {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", th, pcts[th], 100*(pcts[th]/tot))
	}
	return b.String()
}

// SizeReport returns a string reporting the size of the state of each
// compartment, and the total
func (fb *Fiber) SizeReport() string {
	var b strings.Builder
	fsz := int(unsafe.Sizeof(float64(0)))
	tstates := 0
	tmem := 0
	for _, cp := range fb.Comps {
		ns := cp.NStates()
		// each gate carries X, Inf, Tau; each current I, G
		nc := 0
		for _, ch := range cp.Chans {
			nc += len(ch.I)
		}
		mem := (3*ns + 2*nc) * fsz
		tstates += ns
		tmem += mem
		fmt.Fprintf(&b, "%14s:\t Mechs: %d\t States: %d\t Mem: %v\n", cp.Nm, len(cp.Chans), ns, (datasize.ByteSize)(mem).HumanReadable())
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Comps: %d\t States: %d\t Mem: %v\n", fb.Nm, len(fb.Comps), tstates, (datasize.ByteSize)(tmem).HumanReadable())
	return b.String()
}
