// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

package goppp

import (
	"math"
)

// IonoRandomWalkModel models slant ionospheric delays on L1 as a random
// walk with one clock per satellite.
//
// The model only supports a single station. Estimating the slant delays of
// several stations at once requires one model instance per station; reusing
// an instance across stations corrupts the per-satellite clocks.
//
// A pure random walk under-estimates how fast slant delay varies over long
// arcs, so the model can periodically interrupt itself: starting from the
// initial epoch and repeating every sampling seconds, epochs falling within
// the tolerance window around an interrupt boundary get a very large
// injected variance regardless of elapsed time, letting the filter reopen
// the parameter. Interrupts are on by default.
type IonoRandomWalkModel struct {
	qprime          float64 // Process spectral density [m^2/s]
	insertInterrupt bool    // Insert interrupts or not
	sampling        float64 // Interrupt interval [s]
	tolerance       float64 // Interrupt window half-width [s]
	initialTime     GTime   // Epoch interrupts are counted from
	clocks          clockMap[SatType]
	variance        float64
}

// NewIonoRandomWalkModel creates an ionosphere model with the default
// spectral density of 1e-3 m*m/s and interrupts every 7200 s within a
// 0.5 s window.
func NewIonoRandomWalkModel() *IonoRandomWalkModel {
	return &IonoRandomWalkModel{
		qprime:          DefQpIono,
		insertInterrupt: true,
		sampling:        DefIonoSampling,
		tolerance:       DefIonoTolerance,
		initialTime:     BeginningOfTime,
		clocks:          clockMap[SatType]{},
	}
}

// SetQprime sets the process spectral density for all satellites.
func (m *IonoRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// satellite.
func (m *IonoRandomWalkModel) SetPreviousTime(sat SatType, prevTime GTime) {
	m.clocks.at(sat).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one
// satellite.
func (m *IonoRandomWalkModel) SetCurrentTime(sat SatType, currTime GTime) {
	m.clocks.at(sat).currentTime = currTime
}

// SetInitialEpoch sets the epoch interrupts are counted from.
func (m *IonoRandomWalkModel) SetInitialEpoch(initialEpoch GTime) {
	m.initialTime = initialEpoch
}

// SetInsertInterrupt enables or disables the periodic interrupts.
func (m *IonoRandomWalkModel) SetInsertInterrupt(insert bool) {
	m.insertInterrupt = insert
}

// SetSampling sets the interrupt interval in seconds.
func (m *IonoRandomWalkModel) SetSampling(sec float64) {
	m.sampling = sec
}

// SetTolerance sets the interrupt window half-width in seconds.
func (m *IonoRandomWalkModel) SetTolerance(sec float64) {
	m.tolerance = sec
}

func (m *IonoRandomWalkModel) Phi() float64 { return 1.0 }

func (m *IonoRandomWalkModel) Q() float64 { return m.variance }

func (m *IonoRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sat, epoch)
	if m.insertInterrupt && m.atInterrupt(epoch) {
		m.variance = IonoInterruptVar
	}
}

// atInterrupt reports whether epoch falls within the tolerance window of an
// interrupt boundary. Epochs before the initial epoch never do.
func (m *IonoRandomWalkModel) atInterrupt(epoch GTime) bool {
	dt := epoch.Sub(m.initialTime)
	if dt < 0 || m.sampling <= 0 {
		return false
	}
	r := math.Mod(dt, m.sampling)
	return r <= m.tolerance || m.sampling-r <= m.tolerance
}
